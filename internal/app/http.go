package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/ashabalin/go-taskboard/internal/config"
	v1 "github.com/ashabalin/go-taskboard/internal/delivery/http/v1"
	"github.com/ashabalin/go-taskboard/internal/services"
	"github.com/ashabalin/go-taskboard/internal/storage"
	"github.com/ashabalin/go-taskboard/internal/storage/postgres"
)

func MustListenAndServeHTTP() {
	cfg := config.Global()
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	httpCfg := cfg.HTTP

	store := postgres.New(globalLogger, globalPostgresPool, storage.Limits{
		MaxProjects: cfg.Limits.MaxProjects,
		MaxTasks:    cfg.Limits.MaxTasks,
	})

	// The autoclose job shares the storage with the request path; its
	// sweeps stop together with the server.
	autocloseCtx, stopAutoclose := context.WithCancel(context.Background())
	defer stopAutoclose()
	go services.NewAutocloser(globalLogger, store).
		RunEvery(autocloseCtx, cfg.Autoclose.Interval)

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	registerRoutes(router, store)

	server := &http.Server{
		Addr:    net.JoinHostPort(httpCfg.Host, httpCfg.Port),
		Handler: router,
	}

	go func() {
		globalLogger.Info().
			Str("host", httpCfg.Host).
			Str("port", httpCfg.Port).
			Msg("setting up http server")
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			globalLogger.Error().
				Err(err).
				Msg("failed to listen and serve http")
			panic(err)
		}
	}()

	// Wait for the interrupt signal to gracefully
	// shut down the server with a timeout of 5 seconds.
	quit := make(chan os.Signal, 1)
	// kill (no params) by default sends syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	// kill -9 is syscall.SIGKILL but can't be caught, so don't need to add it
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	globalLogger.Info().
		Msg("shutting down http server")
	stopAutoclose()

	ctx, cancel := context.WithTimeout(context.Background(), httpCfg.ShutdownTimeout)
	defer cancel()

	err := server.Shutdown(ctx)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to shutdown http server")
		panic(err)
	}
	globalLogger.Info().Msg("shut down http server")
}

func registerRoutes(router gin.IRouter, store storage.Storage) {
	v1Handler := v1.New(
		globalLogger,
		services.NewProjectService(globalLogger, store),
		services.NewTaskService(globalLogger, store),
	)
	router = router.Group("/api/v1")

	projectsRouter := router.Group("/projects")
	projectsRouter.Use(v1Handler.HandleRequestIDMiddleware)
	projectsRouter.POST("", v1Handler.HandleCreateProject)
	projectsRouter.GET("", v1Handler.HandleListProjects)
	projectsRouter.GET("/:project_id", v1Handler.HandleGetProject)
	projectsRouter.PATCH("/:project_id", v1Handler.HandleRenameProject)
	projectsRouter.DELETE("/:project_id", v1Handler.HandleDeleteProject)

	tasksRouter := projectsRouter.Group("/:project_id/tasks")
	tasksRouter.POST("", v1Handler.HandleCreateTask)
	tasksRouter.GET("", v1Handler.HandleListTasks)
	tasksRouter.PATCH("/:task_id", v1Handler.HandleEditTask)
	tasksRouter.PUT("/:task_id/status", v1Handler.HandleChangeTaskStatus)
	tasksRouter.DELETE("/:task_id", v1Handler.HandleDeleteTask)
}
