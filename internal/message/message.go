// Package message defines the bobble IPC protocol.
//
// All messages are newline-delimited JSON; payload text is base64-encoded so
// arbitrary clipboard content is safe to embed in JSON strings. Each message
// is exactly one line: <json>\n
package message

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"
)

// Type identifies the kind of message.
type Type string

const (
	// Requests (CLI → daemon).
	TypeCut      Type = "CUT"      // submit text as a new bubble
	TypeTap      Type = "TAP"      // interact with a bubble
	TypeMove     Type = "MOVE"     // report drag completion
	TypeDismiss  Type = "DISMISS"  // destroy a bubble
	TypeKeyboard Type = "KEYBOARD" // soft-keyboard visibility signal
	TypeResize   Type = "RESIZE"   // container geometry signal
	TypeMode     Type = "MODE"     // switch capture mode
	TypeList     Type = "LIST"     // read the live collection
	TypeHistory  Type = "HISTORY"  // query stored clipboard history
	TypeStatus   Type = "STATUS"   // daemon status

	// Responses (daemon → CLI).
	TypeOK             Type = "OK"
	TypeTapResponse    Type = "TAP_RESPONSE"
	TypeListResponse   Type = "LIST_RESPONSE"
	TypeHistoryRows    Type = "HISTORY_RESPONSE"
	TypeStatusResponse Type = "STATUS_RESPONSE"
	TypeError          Type = "ERROR"
)

// BubbleInfo is the wire view of one live bubble: everything a renderer or
// listing needs without reaching into engine state.
type BubbleInfo struct {
	ID              string    `json:"id"`
	Class           string    `json:"class"`
	Kind            string    `json:"kind"`
	X               float64   `json:"x"`
	Y               float64   `json:"y"`
	Size            float64   `json:"size"`
	Visible         bool      `json:"visible"`
	Minimized       bool      `json:"minimized"`
	Preview         string    `json:"preview,omitempty"`
	LastInteraction time.Time `json:"last_interaction"`
}

// HistoryRow is one stored clipboard capture.
type HistoryRow struct {
	ID          int64     `json:"id"`
	Preview     string    `json:"preview"`
	ContentType string    `json:"content_type,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Message is the top-level wire envelope.
type Message struct {
	// Always present
	Type   Type   `json:"type"`
	Source string `json:"source,omitempty"`

	// CUT / TAP_RESPONSE: base64-encoded payload text
	Payload     string `json:"payload,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Class       string `json:"class,omitempty"`

	// TAP / MOVE / DISMISS
	ID string `json:"id,omitempty"`

	// MOVE
	X float64 `json:"x,omitempty"`
	Y float64 `json:"y,omitempty"`

	// KEYBOARD
	Visible bool `json:"visible,omitempty"`

	// RESIZE, also echoed in STATUS_RESPONSE
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// MODE, also echoed in STATUS_RESPONSE
	Mode string `json:"mode,omitempty"`

	// HISTORY
	Limit  int    `json:"limit,omitempty"`
	Search string `json:"search,omitempty"`

	// TAP_RESPONSE
	Effect string `json:"effect,omitempty"`

	// Responses
	Bubbles []BubbleInfo `json:"bubbles,omitempty"`
	Rows    []HistoryRow `json:"rows,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// NewCut builds a CUT request carrying text under the given class.
func NewCut(text, contentType, class, source string) *Message {
	m := &Message{
		Type:        TypeCut,
		Source:      source,
		ContentType: contentType,
		Class:       class,
	}
	m.SetText(text)
	return m
}

// Text returns the decoded payload text, or "" if absent or malformed.
func (m *Message) Text() string {
	if m.Payload == "" {
		return ""
	}
	b, err := base64.StdEncoding.DecodeString(m.Payload)
	if err != nil {
		return ""
	}
	return string(b)
}

// SetText stores text as the base64-encoded payload.
func (m *Message) SetText(text string) {
	m.Payload = base64.StdEncoding.EncodeToString([]byte(text))
}

// Encode serialises the message to JSON without a trailing newline.
func (m *Message) Encode() ([]byte, error) {
	return json.Marshal(m)
}

// Decode deserialises a message from raw JSON bytes.
func Decode(b []byte) (*Message, error) {
	var m Message
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("message decode: %w", err)
	}
	return &m, nil
}

// Errorf builds an ERROR response.
func Errorf(format string, args ...any) *Message {
	return &Message{Type: TypeError, Error: fmt.Sprintf(format, args...)}
}
