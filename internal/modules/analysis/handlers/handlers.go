// Package handlers provides HTTP handlers for box analysis.
package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/aristath/boxengine/internal/modules/analysis"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// ContentTypeMsgpack is served when the client sends it in Accept
const ContentTypeMsgpack = "application/msgpack"

// Reloader reloads the catalog on demand
type Reloader func() error

// Handler handles box analysis HTTP requests
type Handler struct {
	service *analysis.Service
	reload  Reloader
	log     zerolog.Logger
}

// NewHandler creates a new analysis handler
func NewHandler(service *analysis.Service, reload Reloader, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		reload:  reload,
		log:     log.With().Str("handler", "analysis").Logger(),
	}
}

// HandleListBoxes returns the catalog overview
func (h *Handler) HandleListBoxes(w http.ResponseWriter, r *http.Request) {
	h.writeResponse(w, r, http.StatusOK, h.service.ListBoxes())
}

// HandleGetBox returns the statistics report of one box
func (h *Handler) HandleGetBox(w http.ResponseWriter, r *http.Request) {
	report, err := h.service.BoxReport(boxName(r))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeResponse(w, r, http.StatusOK, report)
}

// HandleHunt returns a hunt estimate for ?item= with optional ?spent=
func (h *Handler) HandleHunt(w http.ResponseWriter, r *http.Request) {
	item := r.URL.Query().Get("item")
	if item == "" {
		h.writeError(w, r, http.StatusBadRequest, "item query parameter is required")
		return
	}

	spent := 0.0
	if raw := r.URL.Query().Get("spent"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			h.writeError(w, r, http.StatusBadRequest, analysis.ErrInvalidSpend.Error())
			return
		}
		spent = parsed
	}

	report, err := h.service.Hunt(boxName(r), item, spent)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeResponse(w, r, http.StatusOK, report)
}

// HandleListStrategies runs every generator for ?budget=
func (h *Handler) HandleListStrategies(w http.ResponseWriter, r *http.Request) {
	budget, ok := h.budget(w, r)
	if !ok {
		return
	}

	report, err := h.service.Strategies(budget)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeResponse(w, r, http.StatusOK, report)
}

// HandleGetStrategy runs one generator for ?budget= and analyzes its outcomes
func (h *Handler) HandleGetStrategy(w http.ResponseWriter, r *http.Request) {
	budget, ok := h.budget(w, r)
	if !ok {
		return
	}

	report, err := h.service.Strategy(chi.URLParam(r, "strategy"), budget)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	h.writeResponse(w, r, http.StatusOK, report)
}

// HandleReloadCatalog reloads the catalog file immediately
func (h *Handler) HandleReloadCatalog(w http.ResponseWriter, r *http.Request) {
	if h.reload == nil {
		h.writeError(w, r, http.StatusServiceUnavailable, "catalog reload not configured")
		return
	}
	if err := h.reload(); err != nil {
		h.log.Error().Err(err).Msg("Manual catalog reload failed")
		h.writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	listing := h.service.ListBoxes()
	h.writeResponse(w, r, http.StatusOK, map[string]interface{}{
		"status":    "reloaded",
		"boxes":     len(listing.Boxes),
		"loaded_at": listing.LoadedAt,
		"warnings":  listing.Warnings,
	})
}

func (h *Handler) budget(w http.ResponseWriter, r *http.Request) (float64, bool) {
	budget, err := strconv.ParseFloat(r.URL.Query().Get("budget"), 64)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, analysis.ErrInvalidBudget.Error())
		return 0, false
	}
	return budget, true
}

// boxName returns the unescaped {name} path parameter
func boxName(r *http.Request) string {
	name := chi.URLParam(r, "name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case analysis.IsNotFound(err):
		h.writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, analysis.ErrInvalidBudget), errors.Is(err, analysis.ErrInvalidSpend):
		h.writeError(w, r, http.StatusBadRequest, err.Error())
	default:
		h.log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		h.writeError(w, r, http.StatusInternalServerError, err.Error())
	}
}

// writeResponse encodes as msgpack when the client asks for it, JSON otherwise
func (h *Handler) writeResponse(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	if wantsMsgpack(r) {
		h.writeMsgpack(w, status, data)
		return
	}
	h.writeJSON(w, status, data)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
		h.writeEncodeFailure(w)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) writeMsgpack(w http.ResponseWriter, status int, data interface{}) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode msgpack response")
		h.writeEncodeFailure(w)
		return
	}
	w.Header().Set("Content-Type", ContentTypeMsgpack)
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// writeEncodeFailure is used when the payload itself cannot be encoded
func (h *Handler) writeEncodeFailure(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	_, _ = w.Write([]byte(`{"error":"failed to encode response"}` + "\n"))
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.writeResponse(w, r, status, map[string]string{"error": message})
}

func wantsMsgpack(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), ContentTypeMsgpack)
}
