package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/stashkeep/stashkeep/internal/auth"
	"github.com/stashkeep/stashkeep/internal/handler/dto"
	"github.com/stashkeep/stashkeep/internal/service"
)

// ItemHandler handles HTTP requests for item operations.
// All routes run behind the auth middleware; the ownership guard in the
// service keeps every operation scoped to the authenticated identity.
type ItemHandler struct {
	svc           *service.ItemService
	logger        *slog.Logger
	maxUploadSize int64
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(svc *service.ItemService, logger *slog.Logger, maxUploadSize int64) *ItemHandler {
	return &ItemHandler{
		svc:           svc,
		logger:        logger,
		maxUploadSize: maxUploadSize,
	}
}

// Create handles POST /items.
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	input, cleanup, err := h.parseItemInput(r)
	if err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	defer cleanup()

	identity := auth.MustIdentityFromContext(r.Context())

	item, err := h.svc.Create(r.Context(), identity, input)
	if err != nil {
		h.handleItemError(w, err, "Failed to create item")
		return
	}

	h.logger.Info("item created",
		slog.String("item_id", item.ID),
		slog.String("owner_id", item.OwnerID),
		slog.Bool("has_image", item.Image != ""),
	)

	writeJSON(w, http.StatusCreated, dto.ItemResponse{
		Success: true,
		Message: "Item created successfully",
		Item:    item,
	})
}

// List handles GET /items.
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustIdentityFromContext(r.Context())

	items, err := h.svc.List(r.Context(), identity)
	if err != nil {
		h.handleItemError(w, err, "Failed to fetch items")
		return
	}

	writeJSON(w, http.StatusOK, dto.ItemListResponse{
		Success: true,
		Items:   items,
	})
}

// Update handles PUT /items/{id}.
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	input, cleanup, err := h.parseItemInput(r)
	if err != nil {
		writeFail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	defer cleanup()

	identity := auth.MustIdentityFromContext(r.Context())

	item, err := h.svc.Update(r.Context(), identity, id, input)
	if err != nil {
		h.handleItemError(w, err, "Failed to update item")
		return
	}

	h.logger.Info("item updated",
		slog.String("item_id", item.ID),
		slog.String("owner_id", item.OwnerID),
	)

	writeJSON(w, http.StatusOK, dto.ItemResponse{
		Success: true,
		Message: "Item updated successfully",
		Item:    item,
	})
}

// Delete handles DELETE /items/{id}.
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	identity := auth.MustIdentityFromContext(r.Context())

	if err := h.svc.Delete(r.Context(), identity, id); err != nil {
		h.handleItemError(w, err, "Failed to delete item")
		return
	}

	h.logger.Info("item deleted",
		slog.String("item_id", id),
		slog.String("owner_id", identity.UserID),
	)

	writeJSON(w, http.StatusOK, dto.MessageResponse{
		Success: true,
		Message: "Item deleted successfully",
	})
}

// parseItemInput extracts item fields from a multipart form (with an
// optional "image" file) or a JSON body. The returned cleanup closes any
// opened upload file.
func (h *ItemHandler) parseItemInput(r *http.Request) (service.ItemInput, func(), error) {
	noop := func() {}

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
			return service.ItemInput{}, noop, err
		}

		input := service.ItemInput{
			Name:    r.FormValue("name"),
			Amount:  r.FormValue("amount"),
			Product: r.FormValue("product"),
			Date:    r.FormValue("date"),
			Time:    r.FormValue("time"),
		}

		file, header, err := r.FormFile("image")
		switch {
		case err == nil:
			input.Attachment = &service.Attachment{
				Filename: header.Filename,
				Reader:   file,
			}
			return input, func() { _ = file.Close() }, nil
		case errors.Is(err, http.ErrMissingFile):
			return input, noop, nil
		default:
			return service.ItemInput{}, noop, err
		}
	}

	var req dto.ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return service.ItemInput{}, noop, err
	}

	return service.ItemInput{
		Name:    req.Name,
		Amount:  req.Amount,
		Product: req.Product,
		Date:    req.Date,
		Time:    req.Time,
	}, noop, nil
}

// handleItemError maps item service errors to HTTP responses.
func (h *ItemHandler) handleItemError(w http.ResponseWriter, err error, generic string) {
	switch {
	case errors.Is(err, service.ErrMissingItemFields),
		errors.Is(err, service.ErrInvalidItemID),
		errors.Is(err, service.ErrInvalidDate):
		writeFail(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrItemNotFound):
		writeFail(w, http.StatusNotFound, "Item not found")
	case errors.Is(err, service.ErrForbidden):
		writeFail(w, http.StatusForbidden, "You do not have access to this item")
	default:
		h.logger.Error("item operation failed", slog.String("error", err.Error()))
		writeFail(w, http.StatusInternalServerError, generic)
	}
}
