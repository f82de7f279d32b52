package models

import (
	"time"

	"github.com/google/uuid"
)

// Account is the top-level owner of versions and files.
type Account struct {
	ID      uuid.UUID `json:"id"`
	Created time.Time `json:"created"`
	Title   *string   `json:"title"`
	Meta    Meta      `json:"meta"`
}

// NewAccount is the upsert payload. A nil ID asks the server to assign one.
type NewAccount struct {
	ID    *uuid.UUID `json:"id,omitempty"`
	Title *string    `json:"title,omitempty"`
	Meta  Meta       `json:"meta,omitempty"`
}
