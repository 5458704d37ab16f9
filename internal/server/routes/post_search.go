package routes

import (
	"net/http"

	"github.com/BrainDriveAI/memory/internal/server/middleware"
	"github.com/BrainDriveAI/memory/pkg/ai"
	"github.com/BrainDriveAI/memory/pkg/logger"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
)

// SearchMemoriesHandler runs the multi-source memory search and returns the
// synthesized report.
func SearchMemoriesHandler(c echo.Context) error {
	type searchMemoriesBody struct {
		UserID      string `json:"user_id" validate:"required"`
		Username    string `json:"username"`
		Query       string `json:"query" validate:"required"`
		ChatHistory string `json:"chat_history"`
	}

	type searchMemoriesResponse struct {
		Message string           `json:"message"`
		Report  string           `json:"report,omitempty"`
		Metrics *ai.ModelMetrics `json:"metrics,omitempty"`
	}

	data := new(searchMemoriesBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, searchMemoriesResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, searchMemoriesResponse{
			Message: "Invalid request body",
		})
	}

	app := c.(*middleware.AppContext).App
	ctx := c.Request().Context()

	report, err := app.Engine.Search(ctx, data.UserID, data.Username, data.Query, data.ChatHistory)
	if err != nil {
		logger.Error("Failed to search memories", "user", data.UserID, "err", err)
		return c.JSON(http.StatusInternalServerError, searchMemoriesResponse{
			Message: "Internal server error",
		})
	}

	metrics := app.AIClient.GetMetrics()
	return c.JSON(http.StatusOK, searchMemoriesResponse{
		Message: "Search completed",
		Report:  report,
		Metrics: &metrics,
	})
}
