package uid

import "github.com/google/uuid"

// UUID generates time-ordered UUIDv7 strings for correlation and token ids.
type UUID struct{}

// NewUUID returns a UUID generator.
func NewUUID() UUID {
	return UUID{}
}

// Generate returns a new UUIDv7, or a random UUIDv4 if the v7 clock sequence
// cannot be read.
func (UUID) Generate() string {
	if id, err := uuid.NewV7(); err == nil {
		return id.String()
	}
	return uuid.NewString()
}
