package utils

import "github.com/google/uuid"

// NewID returns an opaque connection handle, unique per active connection.
func NewID() string {
	return uuid.NewString()
}
