package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/lumener/lumener/internal/api"
	"github.com/lumener/lumener/internal/config"
	"github.com/lumener/lumener/internal/hue"
	"github.com/lumener/lumener/internal/repos"
	"github.com/lumener/lumener/internal/supervisor"
)

func main() {

	// read the config file
	cfg, err := config.InitialiseConfig()
	if err != nil {
		log.Fatal(err)
	}

	var logWriter io.Writer = os.Stderr
	if cfg.LogFile != "" {
		logWriter = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename: cfg.LogFile,
			MaxAge:   3,
		})
	}
	logger := log.NewWithOptions(logWriter, log.Options{
		Level:           log.InfoLevel,
		ReportTimestamp: true,
	})
	logger.Info("lumenerd starting")

	db, err := sql.Open("sqlite3", cfg.DatabasePath)
	if err != nil {
		logger.Fatal(err)
	}
	defer db.Close()

	stateRepo, err := repos.NewStateRepo(logger, db)
	if err != nil {
		logger.Fatal(err)
	}

	// create/wire up services
	hueService := hue.NewHueAPIService(logger)
	eventConsumer := hue.NewHueEventConsumer(logger)
	sup := supervisor.New(logger, cfg, hueService, eventConsumer, stateRepo)

	if err := sup.Initialise(); err != nil {
		logger.Fatal(err)
	}

	apiServer := api.NewServer(logger, sup, cfg.ApiPort)

	ctx, cancel := context.WithCancel(context.Background())

	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quitChannel
		cancel()
	}()

	go apiServer.Run(ctx)

	// run the reconciliation loops until shutdown
	sup.Run(ctx)

	fmt.Println("Lumener is closing")
}
