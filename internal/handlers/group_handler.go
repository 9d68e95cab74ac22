package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/harambee/backend/internal/services"
)

type GroupHandler struct {
	service *services.TreasuryService
}

func NewGroupHandler(service *services.TreasuryService) *GroupHandler {
	return &GroupHandler{service: service}
}

// GetGroup returns the group with its treasury
// @Summary Get group
// @Tags Groups
// @Produce json
// @Param id path string true "Group ID" default(me)
// @Success 200 {object} models.Group
// @Failure 404 {object} services.ErrorResponse
// @Router /groups/{id} [get]
func (h *GroupHandler) GetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := h.service.Group(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, r, "GROUP", err)
		return
	}

	writeJSON(w, http.StatusOK, group)
}

// GetMembers lists group members
// @Summary Group members
// @Tags Groups
// @Produce json
// @Param id path string true "Group ID" default(me)
// @Success 200 {object} object{members=[]models.User}
// @Failure 404 {object} services.ErrorResponse
// @Router /groups/{id}/members [get]
func (h *GroupHandler) GetMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.Members(chi.URLParam(r, "id"))
	if err != nil {
		sendError(w, r, "GROUP", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"members": members})
}

// SyncTreasury credits the treasury by the sync increment
// @Summary Sync treasury balance
// @Tags Groups
// @Produce json
// @Success 200 {object} object{ok=bool,treasuryBalance=number,transaction=models.Transaction}
// @Router /groups/me/treasury [patch]
func (h *GroupHandler) SyncTreasury(w http.ResponseWriter, r *http.Request) {
	balance, tx, err := h.service.Sync()
	if err != nil {
		sendError(w, r, "GROUP", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":              true,
		"treasuryBalance": balance,
		"transaction":     tx,
	})
}

// ExportTransaction renders a ledger entry as ISO 20022
// @Summary Export transaction as pacs.008
// @Tags Groups
// @Produce json
// @Param txId path string true "Transaction ID"
// @Success 200 {object} services.ISO20022Export
// @Failure 404 {object} services.ErrorResponse
// @Router /groups/me/transactions/{txId}/iso20022 [get]
func (h *GroupHandler) ExportTransaction(w http.ResponseWriter, r *http.Request) {
	export, err := h.service.ExportTransaction(chi.URLParam(r, "txId"))
	if err != nil {
		sendError(w, r, "ISO20022", err)
		return
	}

	writeJSON(w, http.StatusOK, export)
}
