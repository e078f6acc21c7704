package app

import (
	"context"

	"innkeep/config"
	"innkeep/internal/database"
	"innkeep/internal/events"
	"innkeep/internal/handlers/middleware"
	"innkeep/internal/jobs"
	"innkeep/internal/logger"
	"innkeep/internal/repositories"
	"innkeep/internal/services"
	"innkeep/internal/websockets"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	EventBus   *events.EventBus
	Config     config.Config

	Service    services.Service
	Repository repositories.Repository
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events)

	repos := repositories.New(db)

	service, err := services.New(db, config, repos, eventBus)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	websocket, err := websockets.New(eventBus)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	middleware := middleware.New(db, eventBus, config)

	if config.SchedulerEnabled {
		if err := jobs.RegisterAllJobs(service.Scheduler, service); err != nil {
			return &App{}, log.Err("failed to register jobs", err)
		}
		if err := service.Scheduler.Start(context.Background()); err != nil {
			return &App{}, log.Err("failed to start scheduler", err)
		}
	}

	app := &App{
		Database:   db,
		Config:     config,
		Middleware: middleware,
		Websocket:  websocket,
		EventBus:   eventBus,
		Service:    service,
		Repository: repos,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.Service.Transaction,
		a.Service.Scheduler,
		a.Service.Reconciliation,
		a.Service.StayTransition,
		a.Service.Booking,
		a.Service.Overdue,
		a.Service.Auth,
		a.Service.GuestAccess,
		a.Repository.Admin,
		a.Repository.Room,
		a.Repository.Stay,
		a.Repository.GuestLink,
		a.Repository.AuditLog,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Service.Scheduler != nil {
		if closeErr := a.Service.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
