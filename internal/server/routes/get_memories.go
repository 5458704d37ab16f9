package routes

import (
	"net/http"

	"github.com/BrainDriveAI/memory/internal/server/middleware"
	"github.com/BrainDriveAI/memory/pkg/common"
	"github.com/BrainDriveAI/memory/pkg/logger"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// GetMemoriesHandler lists the stored relationship triples for a user.
func GetMemoriesHandler(c echo.Context) error {
	type getMemoriesParams struct {
		UserID string `query:"user_id" validate:"required"`
	}

	type getMemoriesResponse struct {
		Message  string          `json:"message"`
		Memories []common.Triple `json:"memories"`
	}

	params := new(getMemoriesParams)
	if err := c.Bind(params); err != nil {
		return c.JSON(http.StatusBadRequest, getMemoriesResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(params); err != nil {
		return c.JSON(http.StatusBadRequest, getMemoriesResponse{
			Message: "Invalid request body",
		})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	triples, err := app.Engine.GetAll(ctx, params.UserID)
	if err != nil {
		logger.Error("Failed to list memories", "user", params.UserID, "err", err)
		return c.JSON(http.StatusInternalServerError, getMemoriesResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, getMemoriesResponse{
		Message:  "Memories retrieved successfully",
		Memories: triples,
	})
}
