package routes

import (
	"net/http"

	"github.com/BrainDriveAI/memory/internal/queue"
	"github.com/BrainDriveAI/memory/internal/server/middleware"
	"github.com/BrainDriveAI/memory/internal/util"
	"github.com/BrainDriveAI/memory/pkg/logger"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// DeleteMemoryHandler removes the entity or relationship the request refers
// to from the user's graph.
func DeleteMemoryHandler(c echo.Context) error {
	type deleteMemoryBody struct {
		UserID      string   `json:"user_id" validate:"required"`
		Request     string   `json:"request" validate:"required"`
		DocumentIDs []string `json:"document_ids"`
		Async       bool     `json:"async"`
	}

	type deleteMemoryResponse struct {
		Message       string   `json:"message"`
		CorrelationID string   `json:"correlation_id,omitempty"`
		DocumentIDs   []string `json:"document_ids,omitempty"`
	}

	data := new(deleteMemoryBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, deleteMemoryResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, deleteMemoryResponse{
			Message: "Invalid request body",
		})
	}

	app := c.(*middleware.AppContext).App

	if data.Async {
		correlationID, err := gonanoid.New()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, deleteMemoryResponse{
				Message: "Internal server error",
			})
		}
		payload := queue.DeleteMemoryMsg{
			CorrelationID: correlationID,
			UserID:        data.UserID,
			Request:       data.Request,
			DocumentIDs:   data.DocumentIDs,
		}
		if err := queue.PublishFIFO(app.Queue, queue.DeleteQueue, []byte(util.ConvertStructToJson(payload))); err != nil {
			logger.Error("Failed to publish to delete_queue", "err", err)
			return c.JSON(http.StatusInternalServerError, deleteMemoryResponse{
				Message: "Internal server error",
			})
		}
		return c.JSON(http.StatusAccepted, deleteMemoryResponse{
			Message:       "Memory delete queued",
			CorrelationID: correlationID,
		})
	}

	ctx := c.Request().Context()
	if err := app.Engine.Delete(ctx, data.UserID, data.Request, data.DocumentIDs); err != nil {
		logger.Error("Failed to delete memory", "user", data.UserID, "err", err)
		return c.JSON(http.StatusInternalServerError, deleteMemoryResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, deleteMemoryResponse{
		Message:     "Memory deleted successfully",
		DocumentIDs: data.DocumentIDs,
	})
}
