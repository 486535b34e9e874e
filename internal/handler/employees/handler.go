package employees

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/UnknownOlympus/employee-store/internal/lib/logger/sl"
	"github.com/UnknownOlympus/employee-store/internal/models"
	employeesvc "github.com/UnknownOlympus/employee-store/internal/services/employees"
)

const maxBodyBytes = 1 << 20

const (
	msgNotFound     = "employee with the requested id does not exist"
	msgFetchFailed  = "failed to fetch employees"
	msgStoreFailed  = "failed to store employee"
	msgCreated      = "employee successfully stored"
	msgInvalidBody  = "request body must be a JSON object"
	msgBodyTooLarge = "request body is too large"
)

// Service is the employee logic the handlers depend on.
type Service interface {
	List(ctx context.Context, query employeesvc.Query) ([]models.Employee, error)
	GetByID(ctx context.Context, id float64) (models.Employee, error)
	Create(ctx context.Context, input models.Employee) (models.Employee, error)
}

// Handler serves the employee endpoints.
type Handler struct {
	svc Service
	log *slog.Logger
}

func New(svc Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// RegisterRoutes mounts the employee endpoints, plus the /zaposlenici aliases kept for older clients.
func (h *Handler) RegisterRoutes(r chi.Router) {
	for _, base := range []string{"/employees", "/zaposlenici"} {
		r.Get(base, h.handleList)
		r.Get(base+"/{id}", h.handleGet)
		r.Post(base, h.handleCreate)
	}
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.List(r.Context(), ParseQuery(r.URL.Query()))
	if err != nil {
		h.respondError(w, r, err, msgFetchFailed)
		return
	}

	h.respondJSON(w, r, http.StatusOK, result)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseFloat(strings.TrimSpace(chi.URLParam(r, "id")), 64)
	if err != nil {
		respondText(w, http.StatusNotFound, msgNotFound)
		return
	}

	employee, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err, msgFetchFailed)
		return
	}

	h.respondJSON(w, r, http.StatusOK, employee)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	input, err := models.DecodeEmployee(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respondText(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return
		}
		respondText(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	created, err := h.svc.Create(r.Context(), input)
	if err != nil {
		h.respondError(w, r, err, msgStoreFailed)
		return
	}

	if id, ok := models.ToNumber(created[models.FieldID]); ok {
		w.Header().Set("Location", strings.TrimSuffix(r.URL.Path, "/")+"/"+strconv.FormatFloat(id, 'f', -1, 64))
	}
	respondText(w, http.StatusCreated, msgCreated)
}

// ParseQuery reads the listing options from the query string. A bound that is present but
// empty is 0, a bound that is absent or not numeric is ignored.
func ParseQuery(values url.Values) employeesvc.Query {
	position, _ := first(values, "position", "pozicija")
	sortOrder, _ := first(values, "sort_by_years", "sortiraj_po_godinama")

	return employeesvc.Query{
		SortByYears: employeesvc.ParseSortOrder(sortOrder),
		Position:    position,
		MinYears:    parseBound(first(values, "min_years", "godine_staža_min")),
		MaxYears:    parseBound(first(values, "max_years", "godine_staža_max")),
	}
}

func first(values url.Values, keys ...string) (string, bool) {
	for _, key := range keys {
		if values.Has(key) {
			return values.Get(key), true
		}
	}
	return "", false
}

func parseBound(raw string, present bool) *float64 {
	if !present {
		return nil
	}
	bound, ok := models.ToNumber(raw)
	if !ok {
		return nil
	}
	return &bound
}

// respondError maps service errors to status codes. Storage details never reach the client.
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var vErr *employeesvc.ValidationError

	switch {
	case errors.As(err, &vErr):
		respondText(w, http.StatusBadRequest, vErr.Reason)
	case errors.Is(err, employeesvc.ErrNotFound):
		respondText(w, http.StatusNotFound, msgNotFound)
	default:
		h.log.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, sl.Err(err))
		respondText(w, http.StatusInternalServerError, fallback)
	}
}

func (h *Handler) respondJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.ErrorContext(r.Context(), "Failed to encode response", sl.Err(err))
	}
}

func respondText(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(message))
}
