package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/goliatone/go-market-dashboard/components/dashboard"
	"github.com/goliatone/go-market-dashboard/components/dashboard/commands"
	"github.com/goliatone/go-market-dashboard/components/dashboard/queries"
)

// Handlers exposes net/http endpoints backed by an Executor. Form posts to the
// update and dismiss endpoints are redirected to PagePath when it is set.
type Handlers struct {
	API      Executor
	PagePath string
}

// UpdateResponse mirrors the backend update envelope.
type UpdateResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// UpdateResponseFor builds the envelope returned to update callers.
func UpdateResponseFor(err error) UpdateResponse {
	if err == nil {
		return UpdateResponse{Status: dashboard.ResponseSuccess, Message: dashboard.MessageUpdateSuccess}
	}
	return UpdateResponse{Status: "error", Message: err.Error()}
}

func (h *Handlers) HandleManualUpdate(w http.ResponseWriter, r *http.Request) {
	if h.fromPage(r) {
		_ = h.API.ManualUpdate(r.Context(), commands.ManualUpdateInput{RequestedBy: "http"})
		http.Redirect(w, r, h.PagePath, http.StatusSeeOther)
		return
	}
	var payload commands.ManualUpdateInput
	if err := decodeOptional(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	err := h.API.ManualUpdate(r.Context(), payload)
	writeJSON(w, StatusCode(err), UpdateResponseFor(err))
}

func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var payload commands.RefreshInput
	if err := decodeOptional(r.Body, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := h.API.Refresh(r.Context(), payload); err != nil {
		writeError(w, StatusCode(err), err)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "refreshed"})
}

func (h *Handlers) HandleDismissAlert(w http.ResponseWriter, r *http.Request, alertID string) {
	err := h.API.DismissAlert(r.Context(), commands.DismissAlertInput{AlertID: alertID})
	if h.fromPage(r) {
		http.Redirect(w, r, h.PagePath, http.StatusSeeOther)
		return
	}
	if err != nil {
		writeError(w, StatusCode(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) HandleView(w http.ResponseWriter, r *http.Request) {
	view, err := h.API.View(r.Context())
	if err != nil {
		writeError(w, StatusCode(err), err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *Handlers) HandleGridPage(w http.ResponseWriter, r *http.Request, gridID string) {
	input, err := GridPageInputFrom(gridID, r.URL.Query().Get("filter"), r.URL.Query().Get("page"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	page, err := h.API.GridPage(r.Context(), input)
	if err != nil {
		writeError(w, StatusCode(err), err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *Handlers) fromPage(r *http.Request) bool {
	return h.PagePath != "" && WantsPage(r.Header.Get("Content-Type"), r.Header.Get("Accept"))
}

// WantsPage reports whether a request came from the page's own forms: a form
// encoded body, or an Accept header asking for HTML but not JSON.
func WantsPage(contentType, accept string) bool {
	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") {
		return true
	}
	return strings.Contains(accept, "text/html") && !strings.Contains(accept, "application/json")
}

// GridPageInputFrom parses raw request values. An empty page means the first.
func GridPageInputFrom(gridID, filter, page string) (queries.GridPageInput, error) {
	input := queries.GridPageInput{GridID: gridID, Filter: filter, Page: 1}
	if page == "" {
		return input, nil
	}
	n, err := strconv.Atoi(page)
	if err != nil {
		return queries.GridPageInput{}, errors.New("page must be an integer")
	}
	input.Page = n
	return input, nil
}

func decodeOptional(body io.Reader, v any) error {
	if body == nil {
		return nil
	}
	err := json.NewDecoder(body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
