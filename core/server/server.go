package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/moimo-team/moaclass-back/core/cache"
	"github.com/moimo-team/moaclass-back/core/config"
	"github.com/moimo-team/moaclass-back/core/constants"
	"github.com/moimo-team/moaclass-back/core/database"
	"github.com/moimo-team/moaclass-back/core/logger"
	"github.com/moimo-team/moaclass-back/core/middleware"
	"github.com/moimo-team/moaclass-back/modules/auth"
	"github.com/moimo-team/moaclass-back/modules/chat"
	"github.com/moimo-team/moaclass-back/modules/interest"
	"github.com/moimo-team/moaclass-back/modules/meeting"
	"github.com/moimo-team/moaclass-back/modules/notification"
)

// Run wires config, stores, and modules, then serves until SIGINT/SIGTERM.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.InitDB(database.DatabaseConfig{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
	})
	if err != nil {
		return err
	}

	cacheClient, err := cache.NewCache(cache.CacheConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer cacheClient.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logger.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status)
			return nil
		},
	}))

	mw := middleware.NewMiddleware(cacheClient)

	auth.Init(e, cacheClient, mw)
	notification.Init(e, db, mw)
	participationSvc, err := meeting.Init(e, db, mw)
	if err != nil {
		return fmt.Errorf("init meeting module: %w", err)
	}
	chat.Init(e, db, mw, participationSvc)
	interest.Init(e, db, mw)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	return e.Shutdown(ctx)
}
