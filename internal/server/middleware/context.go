package middleware

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/rabbitmq/amqp091-go"

	"github.com/BrainDriveAI/memory/pkg/ai"
	"github.com/BrainDriveAI/memory/pkg/memory"
)

// App holds the long-lived collaborators handlers need: the database pool,
// the publish channel, the assembled memory engine and the model client.
type App struct {
	DBConn   *pgxpool.Pool
	Queue    *amqp091.Channel
	Engine   *memory.Engine
	AIClient ai.MemoryAIClient
}

type AppContext struct {
	echo.Context
	App *App
}

func AppContextMiddleware(app *App) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			return next(&AppContext{c, app})
		}
	}
}
