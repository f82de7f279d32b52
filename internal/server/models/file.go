package models

import (
	"time"

	"github.com/google/uuid"
)

// FileVersion binds the content of one path to the version that wrote it.
// (AccountID, Filepath, VersionID) is unique.
type FileVersion struct {
	AccountID uuid.UUID `json:"account_id"`
	VersionID uuid.UUID `json:"version_id"`
	Filepath  string    `json:"filepath"`
	Filesize  int64     `json:"filesize"`
	Created   time.Time `json:"created"`
	Mimetype  string    `json:"mimetype"`
	Meta      Meta      `json:"meta"`
}

// NewFileVersion is the insert shape of a FileVersion.
type NewFileVersion struct {
	AccountID uuid.UUID
	VersionID uuid.UUID
	Filepath  string
	Filesize  int64
	Mimetype  string
	Meta      Meta
}

// FileHistory lists every version of one path, oldest first.
type FileHistory struct {
	AccountID uuid.UUID     `json:"account_id"`
	Filepath  string        `json:"filepath"`
	Versions  []FileVersion `json:"versions"`
}

// ExtMimetype maps a lowercase file extension to a mimetype.
type ExtMimetype struct {
	Ext  string `json:"ext"`
	Name string `json:"name"`
}
