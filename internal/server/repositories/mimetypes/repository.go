// Package mimetypes reads the extension to mimetype reference table.
package mimetypes

import "context"

type Repository interface {
	// Lookup returns the mimetype registered for ext, or an error wrapping
	// common.ErrorNotFound.
	Lookup(ctx context.Context, ext string) (string, error)
}
