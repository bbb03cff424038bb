package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	sse "github.com/r3labs/sse/v2"

	"github.com/lumener/lumener/internal/constants"
	"github.com/lumener/lumener/internal/models"
	"github.com/lumener/lumener/internal/reconciler"
	"github.com/lumener/lumener/internal/supervisor"
)

const streamName = "lights"

type lightController interface {
	Lights() []supervisor.LightInfo
	GetState(name string) (models.ControlState, error)
	SetState(name string, on bool, brightness *int) (reconciler.DispatchReport, error)
	Subscribe(ch chan supervisor.StateChange)
}

// Server exposes the virtual lights over REST plus a server-sent event
// stream of state changes, for whatever presentation layer exists.
type Server struct {
	logger     *log.Logger
	controller lightController
	port       int

	events *sse.Server
}

func NewServer(logger *log.Logger, controller lightController, port int) *Server {
	return &Server{logger: logger, controller: controller, port: port}
}

func (s *Server) Run(ctx context.Context) {

	s.events = sse.New()
	s.events.AutoReplay = false
	s.events.CreateStream(streamName)
	defer s.events.Close()

	changes := make(chan supervisor.StateChange, constants.EventQueueSize)
	s.controller.Subscribe(changes)
	go s.publishStateChanges(ctx, changes)

	r := mux.NewRouter()
	r.HandleFunc("/lights", s.lightsHandler).Methods("GET")
	r.HandleFunc("/lights/{name}", s.lightHandler).Methods("GET")
	r.HandleFunc("/lights/{name}/state", s.setStateHandler).Methods("PUT", "POST")
	r.HandleFunc("/events", s.events.ServeHTTP).Methods("GET")

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: handlers.CompressHandler(r),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("API listening", "port", s.port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error(err)
	}
}

func (s *Server) publishStateChanges(ctx context.Context, changes chan supervisor.StateChange) {
	for {
		select {
		case <-ctx.Done():
			return
		case change := <-changes:
			data, err := json.Marshal(change)
			if err != nil {
				s.logger.Error(err)
				continue
			}
			s.events.Publish(streamName, &sse.Event{Data: data})
		}
	}
}

func (s *Server) lightsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.controller.Lights())
}

func (s *Server) lightHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	state, err := s.controller.GetState(name)
	if errors.Is(err, supervisor.ErrUnknownLight) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, supervisor.LightInfo{Name: name, State: state})
}

type setStateRequest struct {
	On         bool `json:"on"`
	Brightness *int `json:"brightness"`
}

type setStateResponse struct {
	State   models.ControlState `json:"state"`
	Issued  []string            `json:"issued,omitempty"`
	Skipped []string            `json:"skipped,omitempty"`
	Failed  map[string]string   `json:"failed,omitempty"`
}

func (s *Server) setStateHandler(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	var request setStateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if request.Brightness != nil && (*request.Brightness < 0 || *request.Brightness > 100) {
		http.Error(w, "brightness must be between 0 and 100", http.StatusBadRequest)
		return
	}

	report, err := s.controller.SetState(name, request.On, request.Brightness)
	if errors.Is(err, supervisor.ErrUnknownLight) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	state, _ := s.controller.GetState(name)

	response := setStateResponse{
		State:   state,
		Issued:  report.Issued,
		Skipped: report.Skipped,
	}
	if len(report.Failed) > 0 {
		response.Failed = map[string]string{}
		for member, memberErr := range report.Failed {
			response.Failed[member] = memberErr.Error()
		}
	}

	// partial failures are reported, not hidden behind an error status:
	// the virtual light state has still been updated optimistically
	writeJSON(w, http.StatusOK, response)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
