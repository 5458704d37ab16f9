package server

import (
	"github.com/BrainDriveAI/memory/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api")

	// Memory routes
	apiRoutes.POST("/memories", routes.AddMemoryHandler)
	apiRoutes.POST("/memories/search", routes.SearchMemoriesHandler)
	apiRoutes.PATCH("/memories", routes.UpdateMemoryHandler)
	apiRoutes.DELETE("/memories", routes.DeleteMemoryHandler)
	apiRoutes.GET("/memories", routes.GetMemoriesHandler)
}
