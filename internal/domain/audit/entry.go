package audit

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ChangeType categorizes audit entries
type ChangeType string

const (
	ChangeTypeTransaction ChangeType = "TRANSACTION"
)

// Entry is one append-only audit row recording who did what, with the
// before/after deltas carried as a flexible JSON payload.
type Entry struct {
	ID         uuid.UUID       `json:"id"`
	ActorID    string          `json:"actor_id"`
	CustomerID string          `json:"customer_id,omitempty"`
	StationID  string          `json:"station_id,omitempty"`
	ChangeType ChangeType      `json:"change_type"`
	Details    json.RawMessage `json:"details"`
	CreatedAt  time.Time       `json:"created_at"`
}
