package main

import (
	"github.com/moimo-team/moaclass-back/core/logger"
	"github.com/moimo-team/moaclass-back/core/server"
)

// @title Moaclass API
// @version 1.0
// @description Backend for Moaclass - host and join capacity-limited meetups

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token. Example: "Bearer {token}"

func main() {
	if err := server.Run(); err != nil {
		logger.Error("run server error", err)
	}
}
