package http

import "github.com/gin-gonic/gin"

// Register attaches project and nested place routes to the given group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.createProject)
	rg.GET("", h.listProjects)
	rg.GET("/:public_id", h.getProject)
	rg.PATCH("/:public_id", h.updateProject)
	rg.DELETE("/:public_id", h.deleteProject)

	rg.GET("/:public_id/places", h.listPlaces)
	rg.POST("/:public_id/places", h.addPlace)
	rg.GET("/:public_id/places/:id", h.getPlace)
	rg.PATCH("/:public_id/places/:id", h.updatePlace)
	rg.DELETE("/:public_id/places/:id", h.removePlace)
}
