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

// =============================================================================
// Read Handlers
// =============================================================================

func (h *Handler) handleListSandwiches(w http.ResponseWriter, r *http.Request) {
	sandwiches, err := h.store.ListSandwiches(r.Context())
	if err != nil {
		h.logger.Error("failed to list sandwiches", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list sandwiches")
		return
	}
	if sandwiches == nil {
		sandwiches = []store.Sandwich{}
	}
	h.writeJSON(w, http.StatusOK, sandwiches)
}

func (h *Handler) handleListMine(w http.ResponseWriter, r *http.Request) {
	caller := auth.FromContext(r.Context())

	sandwiches, err := h.store.ListSandwichesByOwner(r.Context(), caller.UserID)
	if err != nil {
		h.logger.Error("failed to list sandwiches", "user_id", caller.UserID, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list sandwiches")
		return
	}
	if sandwiches == nil {
		sandwiches = []store.Sandwich{}
	}
	h.writeJSON(w, http.StatusOK, sandwiches)
}

// sandwichDetail is a single-order response: the stored record plus the
// best-effort decoded composition for editing UIs.
type sandwichDetail struct {
	store.Sandwich
	Composition CompositionResponse `json:"composition"`
}

func (h *Handler) handleGetSandwich(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.writeError(w, http.StatusNotFound, "sandwich not found")
		return
	}

	sandwich, err := h.store.GetSandwich(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			h.writeError(w, http.StatusNotFound, "sandwich not found")
			return
		}
		h.logger.Error("failed to get sandwich", "id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to get sandwich")
		return
	}

	sel := h.decoder.Decode(r.Context(), sandwich.Description)
	h.writeJSON(w, http.StatusOK, sandwichDetail{
		Sandwich:    *sandwich,
		Composition: toCompositionResponse(sel),
	})
}

func toCompositionResponse(sel composition.Selection) CompositionResponse {
	resp := CompositionResponse{
		BreadID:     sel.BreadID,
		Toasted:     sel.Toasted,
		CheeseIDs:   sel.CheeseIDs,
		DressingIDs: sel.DressingIDs,
		MeatIDs:     sel.MeatIDs,
		ToppingIDs:  sel.ToppingIDs,
	}
	if resp.CheeseIDs == nil {
		resp.CheeseIDs = []int{}
	}
	if resp.DressingIDs == nil {
		resp.DressingIDs = []int{}
	}
	if resp.MeatIDs == nil {
		resp.MeatIDs = []int{}
	}
	if resp.ToppingIDs == nil {
		resp.ToppingIDs = []int{}
	}
	return resp
}

// =============================================================================
// Update / Delete Handlers
// =============================================================================

// canModify implements the ownership rule: a private order with an owner is
// only editable by that owner; a public (anonymous-created) order is
// editable by anyone.
func canModify(s *store.Sandwich, caller auth.Context) bool {
	if !s.IsPrivate || s.OwnerUserID == nil {
		return true
	}
	return caller.Authenticated && caller.UserID == *s.OwnerUserID
}

func (h *Handler) handleUpdateSandwich(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.writeError(w, http.StatusNotFound, "sandwich not found")
		return
	}

	sandwich, err := h.store.GetSandwich(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			h.writeError(w, http.StatusNotFound, "sandwich not found")
			return
		}
		h.logger.Error("failed to get sandwich", "id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to get sandwich")
		return
	}

	if !canModify(sandwich, auth.FromContext(r.Context())) {
		h.writeError(w, http.StatusForbidden, "not the owner of this sandwich")
		return
	}

	var patch UpdateSandwichRequest
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}

	switch {
	case patch.Description != nil:
		// Explicit description wins verbatim; composition fields in the
		// same patch are ignored.
		sandwich.Description = patch.Description
		if patch.Toasted != nil {
			sandwich.Toasted = *patch.Toasted
		}
	case patch.HasComposition():
		// Any composition field present replaces the whole encoded
		// composition; unspecified categories become absent.
		sel := composition.Selection{
			BreadID: patch.BreadID,
			Toasted: patch.Toasted != nil && *patch.Toasted,
		}
		if patch.CheeseIDs != nil {
			sel.CheeseIDs = *patch.CheeseIDs
		}
		if patch.DressingIDs != nil {
			sel.DressingIDs = *patch.DressingIDs
		}
		if patch.MeatIDs != nil {
			sel.MeatIDs = *patch.MeatIDs
		}
		if patch.ToppingIDs != nil {
			sel.ToppingIDs = *patch.ToppingIDs
		}

		encoded, err := composition.Encode(r.Context(), h.catalog, sel)
		var verrs composition.ValidationErrors
		if errors.As(err, &verrs) {
			h.writeJSON(w, http.StatusBadRequest, FieldErrorsResponse{Errors: verrs})
			return
		}
		if err != nil {
			h.logger.Error("failed to encode composition", "id", id, "error", err)
			h.writeError(w, http.StatusInternalServerError, "failed to update sandwich")
			return
		}

		sandwich.Description = encoded.Description
		sandwich.Toasted = sel.Toasted
		if patch.Name == nil {
			sandwich.Name = encoded.Name
		}
	}

	if patch.Name != nil && strings.TrimSpace(*patch.Name) != "" {
		sandwich.Name = *patch.Name
	}
	if patch.Price != nil {
		sandwich.Price = patch.Price
	}

	if err := h.store.UpdateSandwich(r.Context(), sandwich); err != nil {
		if isNotFound(err) {
			h.writeError(w, http.StatusNotFound, "sandwich not found")
			return
		}
		h.logger.Error("failed to update sandwich", "id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to update sandwich")
		return
	}

	h.writeJSON(w, http.StatusOK, sandwich)
}

func (h *Handler) handleDeleteSandwich(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.writeError(w, http.StatusNotFound, "sandwich not found")
		return
	}

	sandwich, err := h.store.GetSandwich(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			h.writeError(w, http.StatusNotFound, "sandwich not found")
			return
		}
		h.logger.Error("failed to get sandwich", "id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to delete sandwich")
		return
	}

	if !canModify(sandwich, auth.FromContext(r.Context())) {
		h.writeError(w, http.StatusForbidden, "not the owner of this sandwich")
		return
	}

	if err := h.store.DeleteSandwich(r.Context(), id); err != nil {
		h.logger.Error("failed to delete sandwich", "id", id, "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to delete sandwich")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Maintenance
// =============================================================================

// handleBackfillPrices sets every missing price to zero so older records
// display consistently. Idempotent.
func (h *Handler) handleBackfillPrices(w http.ResponseWriter, r *http.Request) {
	updated, err := h.store.BackfillPrices(r.Context())
	if err != nil {
		h.logger.Error("failed to backfill prices", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to backfill prices")
		return
	}
	h.writeJSON(w, http.StatusOK, BackfillResponse{Updated: updated})
}
