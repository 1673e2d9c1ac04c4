package http

import "github.com/artventure/travel-planner-backend/internal/travels/service"

// Handler bundles the dependencies for travels HTTP endpoints.
type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}
