package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/artventure/travel-planner-backend/internal/travels/domain"
)

func assignmentID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, domain.ErrAssignmentNotFound)
		return 0, false
	}
	return id, true
}

type addPlaceReq struct {
	ExternalID *int64 `json:"external_id"`
	Notes      string `json:"notes"`
}

func (h *Handler) addPlace(c *gin.Context) {
	var req addPlaceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if req.ExternalID == nil {
		respondError(c, domain.ErrExternalIDRequired)
		return
	}

	a, err := h.svc.AddPlace(c.Request.Context(), c.Param("public_id"), *req.ExternalID, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ok": true, "place": a})
}

func (h *Handler) listPlaces(c *gin.Context) {
	items, err := h.svc.ListAssignments(c.Request.Context(), c.Param("public_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "places": items})
}

func (h *Handler) getPlace(c *gin.Context) {
	id, ok := assignmentID(c)
	if !ok {
		return
	}

	a, err := h.svc.GetAssignment(c.Request.Context(), c.Param("public_id"), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "place": a})
}

type updatePlaceReq struct {
	Notes   *string `json:"notes"`
	Visited *bool   `json:"visited"`
}

func (h *Handler) updatePlace(c *gin.Context) {
	id, ok := assignmentID(c)
	if !ok {
		return
	}

	var req updatePlaceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	a, err := h.svc.UpdateAssignment(c.Request.Context(), c.Param("public_id"), id, domain.UpdateAssignmentRequest{
		Notes:   req.Notes,
		Visited: req.Visited,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "place": a})
}

func (h *Handler) removePlace(c *gin.Context) {
	id, ok := assignmentID(c)
	if !ok {
		return
	}

	if err := h.svc.RemovePlace(c.Request.Context(), c.Param("public_id"), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
