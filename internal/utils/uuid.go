package utils

import "github.com/google/uuid"

// UUIDGenerator issues identifiers for documents, credential entries, and
// registry records.
type UUIDGenerator struct {
}

// NewUUIDGenerator returns a ready-to-use generator.
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Generate returns a UUIDv7 string. Version 7 ids are time-ordered, which
// keeps list views and database indexes in creation order for free. Falls
// back to a random v4 if the system clock refuses to cooperate.
func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
