package bootstrap

import (
	"database/sql"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/artventure/travel-planner-backend/internal/api/http"
	"github.com/artventure/travel-planner-backend/internal/api/http/middleware"
	travelshttp "github.com/artventure/travel-planner-backend/internal/travels/http"
	"github.com/artventure/travel-planner-backend/internal/travels/service"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	DB          *sql.DB
	Travels     *service.Service
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-Request-Id"},
		ExposeHeaders: []string{"X-Request-Id"},
		MaxAge:        12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	api.Use(middleware.RequestID())

	projectsGroup := api.Group("/projects")
	travelshttp.New(dep.Travels).Register(projectsGroup)

	return r
}
