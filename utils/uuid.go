package utils

import (
	"log"

	"github.com/google/uuid"
)

// NewUUID returns a fresh random id for asset tasks and sessions.
// Falls back to the nil uuid only if the entropy source is broken.
func NewUUID() uuid.UUID {
	uid, err := uuid.NewRandom()
	if err != nil {
		log.Printf("[utils] Failed to generate uuid: %v", err)
		return uuid.UUID{}
	}
	return uid
}
