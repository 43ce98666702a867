// Package prefixed_uuid provides UUIDs rendered with a short type prefix,
// e.g. "chat-3f0c...". The prefix makes identifiers self-describing in logs
// and lets handlers reject an ID of the wrong kind before touching storage.
package prefixed_uuid //nolint:revive // var-naming: package name predates lint rule

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// PrefixedUUID represents a UUID with a prefix string.
type PrefixedUUID struct {
	Prefix string
	UUID   uuid.UUID
}

// New creates a new PrefixedUUID with the given prefix and a random UUID.
func New(prefix string) PrefixedUUID {
	return PrefixedUUID{Prefix: prefix, UUID: uuid.New()}
}

// FromUUID wraps an existing UUID.
func FromUUID(prefix string, id uuid.UUID) PrefixedUUID {
	return PrefixedUUID{Prefix: prefix, UUID: id}
}

// FromString parses "prefix-uuid". The prefix is everything before the first
// dash and must be non-empty.
func FromString(s string) (PrefixedUUID, error) {
	prefix, rest, ok := strings.Cut(s, "-")
	if !ok || prefix == "" {
		return PrefixedUUID{}, fmt.Errorf("invalid prefixed UUID format: %q", s)
	}
	id, err := uuid.Parse(rest)
	if err != nil {
		return PrefixedUUID{}, fmt.Errorf("invalid UUID: %w", err)
	}
	return PrefixedUUID{Prefix: prefix, UUID: id}, nil
}

// Parse is FromString plus a check that the prefix matches want.
func Parse(want, s string) (PrefixedUUID, error) {
	p, err := FromString(s)
	if err != nil {
		return PrefixedUUID{}, err
	}
	if p.Prefix != want {
		return PrefixedUUID{}, fmt.Errorf("unexpected prefix %q, want %q", p.Prefix, want)
	}
	return p, nil
}

// String returns "prefix-uuid".
func (p PrefixedUUID) String() string {
	return p.Prefix + "-" + p.UUID.String()
}

// IsZero returns true if the PrefixedUUID is uninitialized.
func (p PrefixedUUID) IsZero() bool {
	return p.Prefix == "" && p.UUID == uuid.Nil
}

// MarshalJSON encodes the ID as a JSON string.
func (p PrefixedUUID) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON decodes the ID from a JSON string.
func (p *PrefixedUUID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("prefixed UUID must be a JSON string: %w", err)
	}
	parsed, err := FromString(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
