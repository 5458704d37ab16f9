package main

import (
	"github.com/BrainDriveAI/memory/internal/server"
	"github.com/BrainDriveAI/memory/internal/util"
	"github.com/BrainDriveAI/memory/pkg/logger"
	"github.com/BrainDriveAI/memory/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	server.Init()
}
