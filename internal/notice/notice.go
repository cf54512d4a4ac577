// Package notice carries informational messages to the user-facing
// channel: rejected attempts to change immutable scheduler settings and
// side effects of restoring snapshots. Notices are never errors; the
// triggering operation proceeds unchanged.
package notice

import (
	"encoding"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a notice.
type Kind int

const (
	// SettingRejected reports an attempt to change a field that is fixed
	// after construction (source language, target language, draw weights).
	SettingRejected Kind = iota + 1

	// WeightsReset reports that restoring a snapshot with a different
	// compartment count reverted the draw weights to defaults.
	WeightsReset
)

var (
	kindNames = [...]string{
		SettingRejected: "setting_rejected",
		WeightsReset:    "weights_reset",
	}
	kindByName = map[string]Kind{
		"setting_rejected": SettingRejected,
		"weights_reset":    WeightsReset,
	}
)

// Compile-time interface checks.
var (
	_ fmt.Stringer             = Kind(0)
	_ json.Marshaler           = Kind(0)
	_ encoding.TextMarshaler   = Kind(0)
	_ encoding.TextUnmarshaler = (*Kind)(nil)
)

func (k Kind) isValid() bool {
	return k >= SettingRejected && k <= WeightsReset
}

// String returns the wire name of the kind. For invalid values it returns
// "Kind(n)".
func (k Kind) String() string {
	if k.isValid() {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.isValid() {
		return nil, fmt.Errorf("notice: invalid kind: %d", int(k))
	}
	return []byte(kindNames[k]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	v, ok := kindByName[string(text)]
	if !ok {
		return fmt.Errorf("notice: invalid kind: %q", text)
	}
	*k = v
	return nil
}

// MarshalJSON implements json.Marshaler. Kind serializes as a JSON string.
func (k Kind) MarshalJSON() ([]byte, error) {
	text, err := k.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// Notice is one informational message tied to a study session.
type Notice struct {
	ID        uuid.UUID `json:"id"`
	SessionID uuid.UUID `json:"session_id"`
	Kind      Kind      `json:"kind"`
	Field     string    `json:"field,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSettingRejected builds the notice for a rejected mutation of an
// immutable scheduler field.
func NewSettingRejected(sessionID uuid.UUID, field string) Notice {
	return Notice{
		ID:        uuid.New(),
		SessionID: sessionID,
		Kind:      SettingRejected,
		Field:     field,
		Message:   fmt.Sprintf("%s is fixed for the life of the session and was not changed", field),
		CreatedAt: time.Now().UTC(),
	}
}

// NewWeightsReset builds the notice emitted when a restore with a
// different compartment count reverts the draw weights.
func NewWeightsReset(sessionID uuid.UUID, from, to int) Notice {
	return Notice{
		ID:        uuid.New(),
		SessionID: sessionID,
		Kind:      WeightsReset,
		Field:     "tier_weights",
		Message:   fmt.Sprintf("compartment count changed from %d to %d, draw weights reset to defaults", from, to),
		CreatedAt: time.Now().UTC(),
	}
}
