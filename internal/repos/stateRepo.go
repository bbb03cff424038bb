package repos

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lumener/lumener/internal/models"
)

const initSchema = `
  CREATE TABLE IF NOT EXISTS member (
    id VARCHAR(36) PRIMARY KEY,
    virtual_light TEXT,
    name TEXT,
    capability TEXT,
    serviceid_zigbee VARCHAR(36),
    available INTEGER,
    observed_on INTEGER,
    observed_brightness INTEGER,
    commanded_on INTEGER,
    commanded_brightness INTEGER,
    last_update_time TIMESTAMP
  );

  CREATE TABLE IF NOT EXISTS virtual_light (
    name TEXT PRIMARY KEY,
    on_state INTEGER,
    brightness INTEGER,
    last_update_time TIMESTAMP
  );

  -- the member registry is rebuilt from configuration on every start,
  -- virtual light state is kept so reported state survives a restart
  DELETE FROM member;
`

// a member light as registered at startup
type MemberRecord struct {
	ID              string
	Name            string
	VirtualLight    string
	Capability      models.Capability
	ZigbeeServiceID string
}

type StateRepo struct {
	logger *log.Logger
	db     *sql.DB
}

func NewStateRepo(logger *log.Logger, db *sql.DB) (*StateRepo, error) {

	_, err := db.Exec(initSchema)
	if err != nil {
		return nil, fmt.Errorf("Error initialising state schema: %w", err)
	}

	return &StateRepo{logger: logger, db: db}, nil
}

func (r *StateRepo) AddMembers(members []MemberRecord) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("Error adding members: %w", err)
	}
	for _, member := range members {
		_, err := tx.Exec(
			`INSERT INTO member
      (id, virtual_light, name, capability, serviceid_zigbee, available)
     VALUES ($1, $2, $3, $4, $5, 1);`,
			member.ID,
			member.VirtualLight,
			member.Name,
			string(member.Capability),
			member.ZigbeeServiceID,
		)
		if err != nil {
			return fmt.Errorf("Error adding member (%s): %w", member.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("Error adding members: %w", err)
	}

	return nil
}

func (r *StateRepo) SetMemberObserved(memberID string, on bool, brightness *int) error {
	_, err := r.db.Exec(
		"UPDATE member SET observed_on = $1, observed_brightness = $2, last_update_time = $3 WHERE id = $4",
		on, brightness, time.Now(), memberID)
	if err != nil {
		return fmt.Errorf("Error recording observation for member (%s): %w", memberID, err)
	}
	return nil
}

func (r *StateRepo) SetMemberAvailable(memberID string, available bool) error {
	_, err := r.db.Exec("UPDATE member SET available = $1 WHERE id = $2", available, memberID)
	if err != nil {
		return fmt.Errorf("Error setting member (%s) availability to %t: %w", memberID, available, err)
	}
	return nil
}

func (r *StateRepo) SetMemberCommanded(memberID string, target models.MemberTarget) error {
	_, err := r.db.Exec(
		"UPDATE member SET commanded_on = $1, commanded_brightness = $2, last_update_time = $3 WHERE id = $4",
		target.On, target.Brightness, time.Now(), memberID)
	if err != nil {
		return fmt.Errorf("Error recording command for member (%s): %w", memberID, err)
	}
	return nil
}

func (r *StateRepo) SetVirtualLightState(name string, state models.ControlState) error {
	_, err := r.db.Exec(
		`INSERT INTO virtual_light (name, on_state, brightness, last_update_time)
     VALUES ($1, $2, $3, $4)
     ON CONFLICT(name) DO UPDATE SET on_state = $2, brightness = $3, last_update_time = $4`,
		name, state.On, state.Brightness, time.Now())
	if err != nil {
		return fmt.Errorf("Error saving state for virtual light (%s): %w", name, err)
	}
	return nil
}

// GetVirtualLightState returns the persisted state of a virtual light,
// or false when the light has never reported one.
func (r *StateRepo) GetVirtualLightState(name string) (models.ControlState, bool, error) {
	row := r.db.QueryRow("SELECT on_state, brightness FROM virtual_light WHERE name = $1", name)

	var (
		on         bool
		brightness int
	)
	err := row.Scan(&on, &brightness)
	if err == sql.ErrNoRows {
		return models.ControlState{}, false, nil
	}
	if err != nil {
		return models.ControlState{}, false, fmt.Errorf("Error reading state for virtual light (%s): %w", name, err)
	}

	return models.ControlState{On: on, Brightness: brightness}, true, nil
}
