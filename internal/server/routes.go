package server

import (
	"github.com/OFFIS-RIT/studymap/backend/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Mind map routes
	apiRoutes.POST("/maps", routes.CreateMapHandler)
	apiRoutes.POST("/maps/artifacts", routes.RegenerateArtifactsHandler)
	apiRoutes.POST("/maps/chat", routes.AskMapHandler)
}
