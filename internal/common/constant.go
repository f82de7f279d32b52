package common

const (
	// DefaultMimetype is recorded for files whose extension has no known mimetype.
	DefaultMimetype = "application/octet-stream"

	// VersionQueryParam pins a file read to a specific version id.
	VersionQueryParam = "_version"

	// ReservedQueryPrefix marks query parameters that are not copied into
	// file metadata on upload.
	ReservedQueryPrefix = "_"
)
