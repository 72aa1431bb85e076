// Package audit carries ledger state transitions to the external
// compliance sink over AMQP. The finance core only emits events; storing
// and reviewing them is the sink's job.
package audit

import (
	"encoding/json"
	"time"
)

// TransitionEvent records one approval state transition: who did it, to
// which entity, and the before/after status. Delta is the signed cash
// effect the transition applied ("0" for transitions that leave balances
// untouched).
type TransitionEvent struct {
	ActorID      string    `json:"actor_id"`
	Entity       string    `json:"entity"`
	EntityID     string    `json:"entity_id"`
	BeforeStatus string    `json:"before_status"`
	AfterStatus  string    `json:"after_status"`
	Delta        string    `json:"delta"`
	Reason       string    `json:"reason,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

func (e *TransitionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func TransitionEventFromJSON(data []byte) (*TransitionEvent, error) {
	var ev TransitionEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
