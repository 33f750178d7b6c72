// Package storage defines the persistence contract for recording sessions.
// The synthesis engine never touches storage; the server loads point-in-time
// snapshots from here and hands them to the engine as values.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/replaygen/replaygen/internal/domain"
)

// ErrSessionNotFound is returned when a session id does not exist.
var ErrSessionNotFound = errors.New("session not found")

// Session is one recording session: a pair of growing event logs plus the
// artifacts generated from them.
type Session struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
	InteractionCount int       `json:"interactionCount"`
	NetworkCount     int       `json:"networkCount"`
}

// ArtifactRecord is a persisted synthesis result.
type ArtifactRecord struct {
	ID        string                   `json:"id"`
	SessionID string                   `json:"sessionId"`
	Artifact  domain.GeneratedArtifact `json:"artifact"`
	CreatedAt time.Time                `json:"createdAt"`
}

// SessionStore persists sessions, their event logs and generated artifacts.
// Appends preserve arrival order and the log accessors return events in that
// order, which is the input-order contract the merger's stable sort relies
// on.
type SessionStore interface {
	CreateSession(ctx context.Context, s *Session) error
	GetSession(ctx context.Context, id string) (*Session, error)

	AppendInteractions(ctx context.Context, sessionID string, events []domain.InteractionEvent) error
	AppendNetworkEvents(ctx context.Context, sessionID string, events []domain.NetworkEvent) error
	Interactions(ctx context.Context, sessionID string) ([]domain.InteractionEvent, error)
	NetworkEvents(ctx context.Context, sessionID string) ([]domain.NetworkEvent, error)

	SaveArtifact(ctx context.Context, rec *ArtifactRecord) error

	Close() error
}
