package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/artventure/travel-planner-backend/internal/catalog"
	"github.com/artventure/travel-planner-backend/internal/travels/domain"
	"github.com/artventure/travel-planner-backend/internal/travels/service"
)

// respondError translates the service error taxonomy to HTTP statuses.
// Rule violations are 400, unknown ids 404, the visited-delete guard 409,
// a failing catalog 502; anything else is an internal error.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrProjectNotFound),
		errors.Is(err, domain.ErrAssignmentNotFound),
		errors.Is(err, catalog.ErrArtworkNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": err.Error()})

	case errors.Is(err, domain.ErrVisitedPlaces):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error()})

	case errors.Is(err, catalog.ErrUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"ok": false, "error": catalog.ErrUnavailable.Error()})

	case errors.Is(err, domain.ErrNameRequired),
		errors.Is(err, domain.ErrExternalIDRequired),
		errors.Is(err, domain.ErrNoPlaces),
		errors.Is(err, domain.ErrTooManyPlaces),
		errors.Is(err, domain.ErrDuplicatePlace),
		errors.Is(err, domain.ErrLastPlace):
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})

	default:
		service.NewLogger(c.Request.Context()).LogError("http_respond", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "internal error"})
	}
}
