package model

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/Tiliavir/tcheck/internal/timecalc"
)

var (
	// ErrMissingID is returned when a checkpoint that was never persisted is
	// updated or deleted.
	ErrMissingID = errors.New("checkpoint has no id")
	// ErrNotFound is returned when the store holds no checkpoint with the id.
	ErrNotFound = errors.New("checkpoint not found")
)

// Checkpoint marks a boundary in time. The interval between a checkpoint and
// its successor on the same day carries the checkpoint's project, message and
// registration state.
type Checkpoint struct {
	ID         *string   `json:"id,omitempty"`
	Time       time.Time `json:"time"`
	Project    *string   `json:"project"`
	Message    *string   `json:"message"`
	Registered bool      `json:"registered"`
}

// New returns an unpersisted checkpoint at now.
func New(now time.Time) Checkpoint {
	return Checkpoint{Time: now}
}

// HasID reports whether the checkpoint was assigned an id by a store.
func (c Checkpoint) HasID() bool {
	return c.ID != nil && *c.ID != ""
}

// IDString returns the id or "" when unpersisted.
func (c Checkpoint) IDString() string {
	if c.ID == nil {
		return ""
	}
	return *c.ID
}

// ProjectString returns the project or "".
func (c Checkpoint) ProjectString() string {
	if c.Project == nil {
		return ""
	}
	return *c.Project
}

// MessageString returns the message or "".
func (c Checkpoint) MessageString() string {
	if c.Message == nil {
		return ""
	}
	return *c.Message
}

// RoundedTime returns Time rounded to the tracking quantum.
func (c Checkpoint) RoundedTime() time.Time {
	return timecalc.Round(c.Time)
}

// WithID returns a copy carrying id.
func (c Checkpoint) WithID(id string) Checkpoint {
	c.ID = &id
	return c
}

// UnmarshalJSON accepts the legacy "_firestore_id" field as the id.
func (c *Checkpoint) UnmarshalJSON(data []byte) error {
	type plain Checkpoint
	var aux struct {
		plain
		LegacyID *string `json:"_firestore_id,omitempty"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*c = Checkpoint(aux.plain)
	if !c.HasID() && aux.LegacyID != nil {
		c.ID = aux.LegacyID
	}
	return nil
}

// StringPtr returns nil for "" and a pointer to s otherwise.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
