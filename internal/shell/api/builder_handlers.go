package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/shorepound/TheSandwich/internal/core/auth"
	"github.com/shorepound/TheSandwich/internal/core/composition"
	"github.com/shorepound/TheSandwich/internal/shell/store"
)

// handleBuildSandwich assembles, validates, and persists a custom order.
// Validation failures are collected per field and returned together; nothing
// is persisted unless every selected id resolved.
func (h *Handler) handleBuildSandwich(w http.ResponseWriter, r *http.Request) {
	var req BuilderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	sel := composition.Selection{
		BreadID:     req.BreadID,
		Toasted:     req.Toasted != nil && *req.Toasted,
		CheeseIDs:   req.CheeseIDs,
		DressingIDs: req.DressingIDs,
		MeatIDs:     req.MeatIDs,
		ToppingIDs:  req.ToppingIDs,
	}

	encoded, err := composition.Encode(r.Context(), h.catalog, sel)
	var verrs composition.ValidationErrors
	if errors.As(err, &verrs) {
		h.writeJSON(w, http.StatusBadRequest, FieldErrorsResponse{Errors: verrs})
		return
	}
	if err != nil {
		h.logger.Error("failed to encode composition", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to build sandwich")
		return
	}

	name := encoded.Name
	if req.Name != nil && strings.TrimSpace(*req.Name) != "" {
		name = *req.Name
	}

	// An order created while authenticated is private to its owner; an
	// anonymous order is public and editable by anyone.
	owner := auth.FromContext(r.Context()).Owner()
	sandwich := &store.Sandwich{
		Name:        name,
		Description: encoded.Description,
		Price:       req.Price,
		Toasted:     sel.Toasted,
		OwnerUserID: owner,
		IsPrivate:   owner != nil,
	}

	if err := h.store.InsertSandwich(r.Context(), sandwich); err != nil {
		h.logger.Error("failed to insert sandwich", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to create sandwich")
		return
	}

	h.logger.Info("sandwich created",
		"id", sandwich.ID, "name", sandwich.Name, "private", sandwich.IsPrivate)

	h.writeJSON(w, http.StatusCreated, sandwich)
}
