package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"
)

// ErrNotFound is returned when a save slot does not exist.
var ErrNotFound = errors.New("save not found")

// DefaultSlot is used when a save or load names no slot.
const DefaultSlot = "save"

var slotPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

// SaveInfo describes a stored save slot.
type SaveInfo struct {
	Slot      string    `json:"slot"`
	Size      int       `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SaveStore holds encoded save blobs by slot name. Blobs are opaque to the
// store; encoding belongs to package save.
type SaveStore interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// PutSave replaces the slot's blob. A failed put leaves any previous blob intact.
	PutSave(ctx context.Context, slot string, data []byte) error
	// GetSave returns ErrNotFound for an unknown slot.
	GetSave(ctx context.Context, slot string) ([]byte, error)
	DeleteSave(ctx context.Context, slot string) error
	// ListSaves returns slots sorted by name.
	ListSaves(ctx context.Context) ([]SaveInfo, error)
}

// ValidateSlot checks that slot is a lowercase snake_case name, so it can be
// used as a file name or key suffix as-is.
func ValidateSlot(slot string) error {
	if !slotPattern.MatchString(slot) {
		return fmt.Errorf("invalid save slot %q: use lowercase letters, digits and underscores", slot)
	}
	return nil
}
