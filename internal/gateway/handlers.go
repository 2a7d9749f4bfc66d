package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/florianilch/optsync/internal/edittoken"
	"github.com/florianilch/optsync/internal/mwapi"
	"github.com/florianilch/optsync/internal/useroption"
)

// maxBodyBytes bounds PUT request bodies.
const maxBodyBytes = 64 << 10

type handler struct {
	service  OptionsService
	identity mwapi.Identity
}

func (h *handler) getAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	info, err := h.service.GetAll(ctx, h.identity)
	if err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, info, http.StatusOK)
}

func (h *handler) set(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	key := r.PathValue("key")

	var body map[string]json.RawMessage
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeJSONError(ctx, w, "invalid request body", http.StatusBadRequest)
		return
	}
	raw, ok := body["value"]
	if !ok {
		writeJSONError(ctx, w, `missing "value"`, http.StatusBadRequest)
		return
	}

	// null keeps Value nil, which the client turns into a delete
	opt := useroption.Option{Key: key}
	if err := json.Unmarshal(raw, &opt.Value); err != nil {
		writeJSONError(ctx, w, `"value" must be a string or null`, http.StatusBadRequest)
		return
	}

	if err := h.service.Set(ctx, h.identity, opt); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.service.Delete(ctx, h.identity, r.PathValue("key")); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) reset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.service.Reset(ctx, h.identity); err != nil {
		writeServiceError(ctx, w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RejectionResponse is returned when the wiki did not confirm a write.
type RejectionResponse struct {
	Error  string `json:"error"`
	Key    string `json:"key,omitempty"`
	Status string `json:"status"`
}

// writeServiceError maps option client errors to HTTP responses.
func writeServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	var (
		rejected *useroption.WriteRejectedError
		acqErr   *edittoken.AcquisitionError
		readErr  *useroption.ReadError
		writeErr *useroption.WriteError
	)

	switch {
	case errors.Is(err, useroption.ErrInvalidKey):
		writeJSONError(ctx, w, err.Error(), http.StatusBadRequest)
	case errors.As(err, &rejected):
		slog.WarnContext(ctx, "write rejected", "key", rejected.Key, "status", rejected.Status, "error", err)
		writeJSON(ctx, w, RejectionResponse{
			Error:  err.Error(),
			Key:    rejected.Key,
			Status: rejected.Status,
		}, http.StatusConflict)
	case errors.As(err, &acqErr):
		slog.WarnContext(ctx, "edit token unavailable", "error", err)
		writeJSONError(ctx, w, err.Error(), http.StatusUnauthorized)
	case errors.As(err, &readErr), errors.As(err, &writeErr):
		slog.ErrorContext(ctx, "upstream request failed", "error", err)
		writeJSONError(ctx, w, err.Error(), http.StatusBadGateway)
	default:
		slog.ErrorContext(ctx, "request failed", "error", err)
		writeJSONError(ctx, w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
