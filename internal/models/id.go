package models

import (
	"fmt"
	"strings"

	"socialfeed/internal/apperrors"

	"github.com/google/uuid"
)

// ID identifies a user, post or comment. The canonical form is a lower-case UUID string.
type ID string

// NewID generates a fresh random ID.
func NewID() ID {
	return ID(uuid.New().String())
}

// ParseID is the single entry point for identifiers arriving from outside
// (path parameters, request bodies, token claims).
func ParseID(raw string) (ID, error) {
	u, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", apperrors.Validation(fmt.Sprintf("invalid identifier %q", raw))
	}
	return ID(u.String()), nil
}

func (id ID) String() string { return string(id) }

func (id ID) IsZero() bool { return id == "" }
