package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"github.com/Muneeb381a/disiltting/config"
	"github.com/Muneeb381a/disiltting/database"
	"github.com/Muneeb381a/disiltting/router"

	"github.com/Muneeb381a/disiltting/pkg/backend"
	"github.com/Muneeb381a/disiltting/pkg/catalog"
	draftRepoImp "github.com/Muneeb381a/disiltting/pkg/draft/repositoryImp"
	"github.com/Muneeb381a/disiltting/pkg/session"

	// Backend surface
	catalogCtrlImp "github.com/Muneeb381a/disiltting/pkg/catalog/controllerImp"
	dashCtrlImp "github.com/Muneeb381a/disiltting/pkg/dashboard/controllerImp"
	healthCtrlImp "github.com/Muneeb381a/disiltting/pkg/health/controllerImp"
	subCtrlImp "github.com/Muneeb381a/disiltting/pkg/submission/controllerImp"
	subRepoImp "github.com/Muneeb381a/disiltting/pkg/submission/repositoryImp"
	subSvcImp "github.com/Muneeb381a/disiltting/pkg/submission/serviceImp"
	taskCtrlImp "github.com/Muneeb381a/disiltting/pkg/task/controllerImp"
	taskRepoImp "github.com/Muneeb381a/disiltting/pkg/task/repositoryImp"
	taskSvcImp "github.com/Muneeb381a/disiltting/pkg/task/serviceImp"

	// Views
	reviewCtrlImp "github.com/Muneeb381a/disiltting/pkg/review/controllerImp"
	sessionCtrlImp "github.com/Muneeb381a/disiltting/pkg/session/controllerImp"
	taskFormCtrlImp "github.com/Muneeb381a/disiltting/pkg/taskform/controllerImp"
	workFormCtrlImp "github.com/Muneeb381a/disiltting/pkg/workform/controllerImp"
)

func main() {
	// 1) Config
	cfg := config.Load()
	loc := cfg.Location()

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("[catalog] %v", err)
	}

	// 2) DB (sqlite) + automigrate
	db := database.OpenSQLite(cfg.DBPath)

	// 3) Backend services, served here even when the views use a remote one
	tRepo := taskRepoImp.New(db)
	tSvc := taskSvcImp.NewTaskService(tRepo, cat)
	sSvc := subSvcImp.NewSubmissionService(subRepoImp.New(db), tRepo)

	var client, remote backend.Client
	if cfg.BackendURL != "" {
		remote = backend.NewHTTP(cfg.BackendURL, cfg.BackendTimeout)
		client = remote
		log.Printf("[backend] remote %s", cfg.BackendURL)
	} else {
		client = backend.NewStore(tSvc, sSvc)
		log.Printf("[backend] in-process")
	}

	// 4) Sessions
	reg := session.NewRegistry(session.Build(session.Env{
		Client:    client,
		Drafts:    draftRepoImp.NewSQLite(db),
		Clock:     time.Now,
		Location:  loc,
		Debounce:  cfg.DraftDebounce,
		ExportDir: cfg.ExportDir,
	}))

	// 5) Echo
	e := echo.New()
	e.HideBanner = true
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())

	r := router.New(e, cfg.StrictSession,
		healthCtrlImp.NewHealthCtrl(db, remote),
		[]router.Backend{
			taskCtrlImp.New(tSvc),
			subCtrlImp.New(sSvc),
			dashCtrlImp.NewSummaryCtrl(tSvc, sSvc),
		},
		[]router.View{
			sessionCtrlImp.New(reg),
			catalogCtrlImp.New(cat),
			taskFormCtrlImp.New(reg),
			workFormCtrlImp.New(reg),
			reviewCtrlImp.New(reg),
			dashCtrlImp.NewDashboardCtrl(reg),
		},
	)

	// 6) Start, and write pending drafts on the way out
	go func() {
		log.Printf("listening on :%s", cfg.Port)
		if err := r.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := r.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	reg.Close()
	log.Printf("[session] drafts flushed")
}
