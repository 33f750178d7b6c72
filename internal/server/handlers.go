package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/replaygen/replaygen/internal/domain"
	"github.com/replaygen/replaygen/internal/storage"
	"github.com/replaygen/replaygen/internal/synth"
)

type sessionHandler struct {
	store    storage.SessionStore
	defaults synth.Options
	logger   *slog.Logger
}

type createSessionRequest struct {
	Name string `json:"name"`
}

// generateRequest overrides the configured generator defaults for one run.
type generateRequest struct {
	TestName      string `json:"testName"`
	ComponentName string `json:"componentName"`
	DescribeLabel string `json:"describeLabel"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *sessionHandler) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	sess := &storage.Session{
		ID:   "ses_" + uuid.New().String(),
		Name: req.Name,
	}
	if err := h.store.CreateSession(r.Context(), sess); err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, sess)
}

func (h *sessionHandler) getSession(w http.ResponseWriter, r *http.Request) {
	sess, err := h.store.GetSession(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *sessionHandler) appendInteractions(w http.ResponseWriter, r *http.Request) {
	var events []domain.InteractionEvent
	if err := decodeJSON(r, &events); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.store.AppendInteractions(r.Context(), chi.URLParam(r, "id"), events); err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]int{"appended": len(events)})
}

func (h *sessionHandler) appendNetwork(w http.ResponseWriter, r *http.Request) {
	var events []domain.NetworkEvent
	if err := decodeJSON(r, &events); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	if err := h.store.AppendNetworkEvents(r.Context(), chi.URLParam(r, "id"), events); err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]int{"appended": len(events)})
}

// generate snapshots the session's logs and runs the synthesis engine over
// the snapshot. The engine itself is pure; this handler owns all the I/O
// around it.
func (h *sessionHandler) generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	sessionID := chi.URLParam(r, "id")

	interactions, err := h.store.Interactions(r.Context(), sessionID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	network, err := h.store.NetworkEvents(r.Context(), sessionID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	opts := h.defaults
	if req.TestName != "" {
		opts.TestName = req.TestName
	}
	if req.ComponentName != "" {
		opts.ComponentName = req.ComponentName
		opts.DescribeLabel = ""
	}
	if req.DescribeLabel != "" {
		opts.DescribeLabel = req.DescribeLabel
	}

	artifact, err := synth.Generate(interactions, network, opts)
	if err != nil {
		if errors.Is(err, synth.ErrNoRecordedActivity) {
			writeError(w, http.StatusUnprocessableEntity, err)
			return
		}
		h.fail(w, r, err)
		return
	}

	rec := &storage.ArtifactRecord{
		ID:        "art_" + uuid.New().String(),
		SessionID: sessionID,
		Artifact:  *artifact,
	}
	if err := h.store.SaveArtifact(r.Context(), rec); err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, rec)
}

// fail maps storage errors to HTTP statuses and logs everything else.
func (h *sessionHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, storage.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}

	requestID, _ := r.Context().Value(RequestIDKey).(string)
	h.logger.Error("request failed",
		slog.String("request_id", requestID),
		slog.String("path", r.URL.Path),
		slog.String("error", err.Error()),
	)
	writeError(w, http.StatusInternalServerError, err)
}

func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
