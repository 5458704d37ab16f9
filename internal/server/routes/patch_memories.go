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

// UpdateMemoryHandler replaces an outdated memory: the listed documents are
// removed, the request text is stored and the graph is corrected.
func UpdateMemoryHandler(c echo.Context) error {
	type updateMemoryBody struct {
		UserID      string            `json:"user_id" validate:"required"`
		Request     string            `json:"request" validate:"required"`
		DocumentIDs []string          `json:"document_ids"`
		Metadata    map[string]string `json:"metadata"`
		Async       bool              `json:"async"`
	}

	type updateMemoryResponse struct {
		Message       string   `json:"message"`
		CorrelationID string   `json:"correlation_id,omitempty"`
		DocumentIDs   []string `json:"document_ids,omitempty"`
	}

	data := new(updateMemoryBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, updateMemoryResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, updateMemoryResponse{
			Message: "Invalid request body",
		})
	}

	app := c.(*middleware.AppContext).App

	if data.Async {
		correlationID, err := gonanoid.New()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, updateMemoryResponse{
				Message: "Internal server error",
			})
		}
		payload := queue.UpdateMemoryMsg{
			CorrelationID: correlationID,
			UserID:        data.UserID,
			Request:       data.Request,
			DocumentIDs:   data.DocumentIDs,
			Metadata:      data.Metadata,
		}
		if err := queue.PublishFIFO(app.Queue, queue.UpdateQueue, []byte(util.ConvertStructToJson(payload))); err != nil {
			logger.Error("Failed to publish to update_queue", "err", err)
			return c.JSON(http.StatusInternalServerError, updateMemoryResponse{
				Message: "Internal server error",
			})
		}
		return c.JSON(http.StatusAccepted, updateMemoryResponse{
			Message:       "Memory update queued",
			CorrelationID: correlationID,
		})
	}

	ctx := c.Request().Context()
	result, err := app.Engine.Update(ctx, data.UserID, data.Request, data.DocumentIDs, data.Metadata)
	if err != nil {
		logger.Error("Failed to update memory", "user", data.UserID, "err", err)
		return c.JSON(http.StatusInternalServerError, updateMemoryResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, updateMemoryResponse{
		Message:     "Memory updated successfully",
		DocumentIDs: result.DocumentIDs,
	})
}
