// Package cassette converts recorded go-vcr cassettes into network event
// logs, so HTTP traffic captured outside the browser recorder can seed a
// session's network log.
package cassette

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/dnaeon/go-vcr.v2/cassette"

	"github.com/replaygen/replaygen/internal/domain"
)

// Import loads the cassette stored at name (without the ".yaml" extension,
// matching go-vcr's convention) and converts each recorded interaction into a
// request/response event pair sharing a transaction id.
//
// Cassettes do not carry per-interaction timestamps, so events get synthetic
// monotonic timestamps starting at base, preserving recorded order: the
// merger and correlator only need relative ordering to be right.
func Import(name string, base time.Time) ([]domain.NetworkEvent, error) {
	c, err := cassette.Load(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load cassette %q: %w", name, err)
	}
	return Convert(c, base), nil
}

// Convert maps an already-loaded cassette to network events.
func Convert(c *cassette.Cassette, base time.Time) []domain.NetworkEvent {
	events := make([]domain.NetworkEvent, 0, 2*len(c.Interactions))
	ts := base.UnixMilli()

	for _, interaction := range c.Interactions {
		id := domain.NewEventID()

		req := domain.NetworkEvent{
			ID:        id,
			Phase:     domain.NetworkRequest,
			Timestamp: ts,
			Method:    interaction.Request.Method,
			URL:       interaction.Request.URL,
		}
		if body := interaction.Request.Body; body != "" {
			req.RequestBody = &body
		}
		events = append(events, req)

		events = append(events, domain.NetworkEvent{
			ID:           id,
			Phase:        domain.NetworkResponse,
			Timestamp:    ts + 1,
			Status:       interaction.Response.Code,
			ResponseBody: responseBody(interaction.Response.Body),
		})

		ts += 2
	}

	return events
}

// responseBody keeps a parsable body as-is and wraps anything else in a JSON
// string, the same raw-string form the browser recorder uses for unparsable
// bodies.
func responseBody(body string) json.RawMessage {
	if body == "" {
		return nil
	}
	if json.Valid([]byte(body)) {
		return json.RawMessage(body)
	}
	quoted, err := json.Marshal(body)
	if err != nil {
		return nil
	}
	return quoted
}
