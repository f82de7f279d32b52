package models

import (
	"time"

	"github.com/google/uuid"
)

// Version marks one upload event. It is never updated after creation.
type Version struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	Created   time.Time `json:"created"`
	Meta      Meta      `json:"meta"`
}

// NewVersion is the creation payload; id and created are assigned by the
// server.
type NewVersion struct {
	ID        uuid.UUID `json:"-"`
	AccountID uuid.UUID `json:"account_id"`
	Meta      Meta      `json:"meta,omitempty"`
}

// VersionData is a Version together with the files it produced.
type VersionData struct {
	Version
	Files []FileVersion `json:"files"`
}
