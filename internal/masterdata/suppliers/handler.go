package suppliers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Chiemezuo/priority-soft-interview/internal/masterdata/shared"
	"github.com/Chiemezuo/priority-soft-interview/internal/platform/httpx"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), shared.FiltersFromRequest(r))
	if err != nil {
		h.fail(w, "list suppliers failed", err)
		return
	}
	httpx.JSON(w, http.StatusOK, NewListResponse(list))
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.supplierID(w, r)
	if !ok {
		return
	}
	supplier, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get supplier failed", err, "id", id)
		return
	}
	httpx.JSON(w, http.StatusOK, NewResponse(supplier))
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var p Payload
	if err := httpx.DecodeJSON(r, &p); err != nil {
		httpx.RespondError(w, err)
		return
	}
	created, err := h.service.Create(r.Context(), p)
	if err != nil {
		h.fail(w, "create supplier failed", err)
		return
	}
	h.logger.Info("supplier created", slog.Int64("id", created.ID))
	httpx.JSON(w, http.StatusCreated, NewResponse(created))
}

// Replace handles PUT.
func (h *Handler) Replace(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, h.service.Replace)
}

// Update handles PATCH.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	h.update(w, r, h.service.Update)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.supplierID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		h.fail(w, "delete supplier failed", err, "id", id)
		return
	}
	h.logger.Info("supplier deleted", slog.Int64("id", id))
	httpx.NoContent(w)
}

type updateFunc func(ctx context.Context, id int64, p Payload) (Supplier, error)

func (h *Handler) update(w http.ResponseWriter, r *http.Request, fn updateFunc) {
	id, ok := h.supplierID(w, r)
	if !ok {
		return
	}
	var p Payload
	if err := httpx.DecodeJSON(r, &p); err != nil {
		httpx.RespondError(w, err)
		return
	}
	updated, err := fn(r.Context(), id, p)
	if err != nil {
		h.fail(w, "update supplier failed", err, "id", id)
		return
	}
	httpx.JSON(w, http.StatusOK, NewResponse(updated))
}

// supplierID parses the path identifier. Malformed identifiers cannot exist, so they are 404s.
func (h *Handler) supplierID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.RespondError(w, shared.ErrNotFound)
		return 0, false
	}
	return id, true
}

func (h *Handler) fail(w http.ResponseWriter, msg string, err error, args ...any) {
	if httpx.IsServerError(err) {
		h.logger.Error(msg, append([]any{slog.Any("error", err)}, args...)...)
	}
	httpx.RespondError(w, err)
}
