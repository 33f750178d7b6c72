package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InteractionKind distinguishes the user actions the recorder captures.
type InteractionKind string

const (
	InteractionClick     InteractionKind = "click"
	InteractionAssertion InteractionKind = "assertion"
	InteractionKeyboard  InteractionKind = "keyboard"
)

// TargetDocument is the sentinel target id for keyboard events that had no
// resolvable element target at record time.
const TargetDocument = "document"

// Modifiers captures the modifier keys active during a keyboard event.
type Modifiers struct {
	Ctrl  bool `json:"ctrlKey"`
	Shift bool `json:"shiftKey"`
	Alt   bool `json:"altKey"`
	Meta  bool `json:"metaKey"`
}

// InteractionEvent is one recorded user action. The JSON field names are the
// contract with the on-page recorder and must not change.
//
// Timestamps are captured as wall-clock instants (RFC 3339 on the wire) and
// normalized to epoch milliseconds when merged with network events.
type InteractionEvent struct {
	ID             string          `json:"id"`
	Timestamp      time.Time       `json:"timestamp"`
	Kind           InteractionKind `json:"kind"`
	TargetID       string          `json:"targetId"`
	ElementText    string          `json:"elementText"`
	TagName        string          `json:"tagName,omitempty"`
	ElementVariant string          `json:"elementVariant,omitempty"`

	// Keyboard-only fields.
	Key            string    `json:"key,omitempty"`
	Modifiers      Modifiers `json:"modifiers,omitzero"`
	ReplaySequence string    `json:"replaySequence,omitempty"`
}

// NetworkPhase distinguishes the up-to-three parts of one HTTP transaction.
type NetworkPhase string

const (
	NetworkRequest  NetworkPhase = "request"
	NetworkResponse NetworkPhase = "response"
	NetworkError    NetworkPhase = "error"
)

// NetworkEvent is one observed part of an HTTP transaction. Parts belonging
// to the same transaction share an ID. For a given ID there is at most one
// request part and at most one of {response, error}.
//
// Timestamp is epoch milliseconds, as captured by the fetch/XHR shim.
type NetworkEvent struct {
	ID        string       `json:"id"`
	Phase     NetworkPhase `json:"type"`
	Timestamp int64        `json:"timestamp"`

	// Request part.
	Method      string  `json:"method,omitempty"`
	URL         string  `json:"url,omitempty"`
	RequestBody *string `json:"requestBody,omitempty"`

	// Response part. ResponseBody holds whatever the recorder captured:
	// a JSON value when the body parsed, or a JSON string carrying the raw
	// bytes when it did not. It is re-emitted verbatim either way.
	Status       int             `json:"status,omitempty"`
	ResponseBody json.RawMessage `json:"responseBody,omitempty"`

	// Error part.
	Message string `json:"message,omitempty"`
}

// MergedEvent is one entry of the globally time-ordered sequence. Exactly one
// of Interaction and Network is set.
type MergedEvent struct {
	// Timestamp is epoch milliseconds, shared time base for both streams.
	Timestamp   int64
	Interaction *InteractionEvent
	Network     *NetworkEvent
}

// IsClick reports whether the entry is a click interaction.
func (e MergedEvent) IsClick() bool {
	return e.Interaction != nil && e.Interaction.Kind == InteractionClick
}

// IsResponse reports whether the entry is a network response part.
func (e MergedEvent) IsResponse() bool {
	return e.Network != nil && e.Network.Phase == NetworkResponse
}

// NetworkState groups the network responses attributed to a single click, or
// to the page's initial load when AssociatedClickID is empty.
type NetworkState struct {
	// AssociatedClickID is the id of the click that precedes the grouped
	// responses, or "" for responses observed before the first click.
	AssociatedClickID string
	Responses         []NetworkEvent
}

// Initial reports whether the state holds pre-first-click responses.
func (s NetworkState) Initial() bool { return s.AssociatedClickID == "" }

// NewEventID mints an identifier that sorts roughly by creation time, with a
// random suffix to break ties within the same millisecond.
func NewEventID() string {
	return fmt.Sprintf("evt_%d_%s", time.Now().UnixMilli(), uuid.New().String()[:8])
}
