package routes

import (
	"net/http"

	"github.com/BrainDriveAI/memory/internal/queue"
	"github.com/BrainDriveAI/memory/internal/server/middleware"
	"github.com/BrainDriveAI/memory/internal/util"
	"github.com/BrainDriveAI/memory/pkg/common"
	"github.com/BrainDriveAI/memory/pkg/logger"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// AddMemoryHandler stores a new memory. With "async" set the request is
// queued and acknowledged with a correlation ID instead of being processed
// inline.
func AddMemoryHandler(c echo.Context) error {
	type addMemoryBody struct {
		UserID   string            `json:"user_id" validate:"required"`
		Content  string            `json:"content" validate:"required"`
		Metadata map[string]string `json:"metadata"`
		Async    bool              `json:"async"`
	}

	type addMemoryResponse struct {
		Message       string          `json:"message"`
		CorrelationID string          `json:"correlation_id,omitempty"`
		DocumentIDs   []string        `json:"document_ids,omitempty"`
		Relations     []common.Triple `json:"relations,omitempty"`
	}

	data := new(addMemoryBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, addMemoryResponse{
			Message: "Invalid request body",
		})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, addMemoryResponse{
			Message: "Invalid request body",
		})
	}

	app := c.(*middleware.AppContext).App

	if data.Async {
		correlationID, err := gonanoid.New()
		if err != nil {
			return c.JSON(http.StatusInternalServerError, addMemoryResponse{
				Message: "Internal server error",
			})
		}
		payload := queue.AddMemoryMsg{
			CorrelationID: correlationID,
			UserID:        data.UserID,
			Content:       data.Content,
			Metadata:      data.Metadata,
		}
		if err := queue.PublishFIFO(app.Queue, queue.AddQueue, []byte(util.ConvertStructToJson(payload))); err != nil {
			logger.Error("Failed to publish to add_queue", "err", err)
			return c.JSON(http.StatusInternalServerError, addMemoryResponse{
				Message: "Internal server error",
			})
		}
		return c.JSON(http.StatusAccepted, addMemoryResponse{
			Message:       "Memory queued",
			CorrelationID: correlationID,
		})
	}

	ctx := c.Request().Context()
	result, err := app.Engine.Add(ctx, data.UserID, data.Content, data.Metadata)
	if err != nil {
		logger.Error("Failed to add memory", "user", data.UserID, "err", err)
		return c.JSON(http.StatusInternalServerError, addMemoryResponse{
			Message: "Internal server error",
		})
	}

	return c.JSON(http.StatusOK, addMemoryResponse{
		Message:     "Memory stored successfully",
		DocumentIDs: result.DocumentIDs,
		Relations:   result.Relations,
	})
}
