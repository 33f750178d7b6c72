package synth

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/replaygen/replaygen/internal/domain"
)

// MockHandler describes one mock-server rule before rendering. Path carries
// the recorded path plus query string; Body is the captured response body,
// re-emitted verbatim. When BodyGuard is set the rendered handler compares
// the incoming request body byte-for-byte against RequestBody and answers
// HTTP 400 on mismatch.
type MockHandler struct {
	Method      string
	Path        string
	Status      int
	Body        json.RawMessage
	RequestBody *string
	BodyGuard   bool
}

// dedupKey is the literal identity of a handler: method, path+query and the
// exact recorded request body. Bodies that differ only in key order or
// whitespace are distinct keys on purpose.
func (h MockHandler) dedupKey() string {
	body := "\x00"
	if h.RequestBody != nil {
		body = *h.RequestBody
	}
	return h.Method + "\n" + h.Path + "\n" + body
}

// bodyCarryingMethods are the methods that conventionally carry a request
// body and therefore get a body-matching handler when one was recorded.
var bodyCarryingMethods = map[string]bool{
	"POST":  true,
	"PUT":   true,
	"PATCH": true,
}

// BuildMockHandlers derives the default mock handlers from the flat network
// log. Handlers are global, not per-click: for each distinct (method,
// path+query, request body) key the first recorded response becomes the
// default; later responses to the same key remain available to the script
// synthesizer as one-shot overrides. Responses that cannot be paired with a
// request part or whose URL does not parse are skipped and reported.
func BuildMockHandlers(network []domain.NetworkEvent) ([]MockHandler, []string) {
	requests := indexRequests(network)

	var handlers []MockHandler
	var warnings []string
	seen := make(map[string]bool)

	for _, ev := range network {
		if ev.Phase != domain.NetworkResponse {
			continue
		}
		h, err := handlerForResponse(ev, requests)
		if err != nil {
			warnings = append(warnings, err.Error())
			continue
		}
		key := h.dedupKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		handlers = append(handlers, h)
	}

	return handlers, warnings
}

// indexRequests maps transaction id to its request part. The recorder
// guarantees at most one request part per id; the first one wins if that
// invariant is ever violated upstream.
func indexRequests(network []domain.NetworkEvent) map[string]domain.NetworkEvent {
	requests := make(map[string]domain.NetworkEvent)
	for _, ev := range network {
		if ev.Phase != domain.NetworkRequest {
			continue
		}
		if _, ok := requests[ev.ID]; !ok {
			requests[ev.ID] = ev
		}
	}
	return requests
}

// handlerForResponse pairs a response part with its request part and builds
// the handler descriptor for it.
func handlerForResponse(resp domain.NetworkEvent, requests map[string]domain.NetworkEvent) (MockHandler, error) {
	req, ok := requests[resp.ID]
	if !ok {
		return MockHandler{}, fmt.Errorf("skipping response %s: no recorded request part", resp.ID)
	}

	path, err := pathAndQuery(req.URL)
	if err != nil {
		return MockHandler{}, fmt.Errorf("skipping response %s: unparsable URL %q: %w", resp.ID, req.URL, err)
	}

	method := strings.ToUpper(req.Method)
	h := MockHandler{
		Method:      method,
		Path:        path,
		Status:      resp.Status,
		Body:        resp.ResponseBody,
		RequestBody: req.RequestBody,
		BodyGuard:   bodyCarryingMethods[method] && req.RequestBody != nil,
	}
	return h, nil
}

// pathAndQuery reduces an absolute URL to the path (plus query string) the
// mock layer matches on.
func pathAndQuery(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	if u.RawQuery != "" {
		path += "?" + u.RawQuery
	}
	return path, nil
}
