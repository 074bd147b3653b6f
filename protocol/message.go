package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const (
	TypeEnable   = "ENABLE_SOURCE_SELECTOR"
	TypeDisable  = "DISABLE_SOURCE_SELECTOR"
	TypeSelected = "SOURCE_SELECTED"

	// TargetOrigin is used for untargeted posts to the parent frame
	TargetOrigin = "*"
)

// Kind classifies a decoded message
type Kind int

const (
	KindUnknown Kind = iota
	KindEnable
	KindDisable
	KindSelected
)

func (k Kind) String() string {
	switch k {
	case KindEnable:
		return TypeEnable
	case KindDisable:
		return TypeDisable
	case KindSelected:
		return TypeSelected
	}
	return "UNKNOWN"
}

// ErrMalformed is returned for messages that are not protocol messages
var ErrMalformed = errors.New("malformed message")

// SelectionPayload describes the element a user picked.
// Per picking interaction at most one of Screenshot and Error is populated.
type SelectionPayload struct {
	Component  string `json:"component"`
	File       string `json:"file"`
	Line       string `json:"line"`
	Element    string `json:"element"`
	Screenshot string `json:"screenshot,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Message represents a cross-window protocol message
type Message struct {
	Type string            `json:"type"`
	Data *SelectionPayload `json:"data,omitempty"`
}

// Enable returns picker activation message
func Enable() *Message {
	return &Message{Type: TypeEnable}
}

// Disable returns picker deactivation message
func Disable() *Message {
	return &Message{Type: TypeDisable}
}

// Selected returns selection message
func Selected(payload *SelectionPayload) *Message {
	return &Message{Type: TypeSelected, Data: payload}
}

// Kind returns message kind
func (m *Message) Kind() Kind {
	switch m.Type {
	case TypeEnable:
		return KindEnable
	case TypeDisable:
		return KindDisable
	case TypeSelected:
		if m.Data != nil {
			return KindSelected
		}
	}
	return KindUnknown
}

// Encode serializes message
func Encode(message *Message) ([]byte, error) {
	data, err := json.Marshal(message)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", message.Type, err)
	}
	return data, nil
}

// Decode parses a message; unrecognized or incomplete messages yield ErrMalformed
func Decode(data []byte) (*Message, error) {
	message := &Message{}
	if err := json.Unmarshal(data, message); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	message.Type = strings.TrimSpace(message.Type)
	if message.Kind() == KindUnknown {
		return nil, fmt.Errorf("%w: type %q", ErrMalformed, message.Type)
	}
	return message, nil
}
