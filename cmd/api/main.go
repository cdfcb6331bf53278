package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/clinicdesk/scheduler-api/internal/config"
	appointmentHandler "github.com/clinicdesk/scheduler-api/internal/handler/appointment"
	doctorHandler "github.com/clinicdesk/scheduler-api/internal/handler/doctor"
	healthHandler "github.com/clinicdesk/scheduler-api/internal/handler/health"
	roomHandler "github.com/clinicdesk/scheduler-api/internal/handler/room"
	scheduleHandler "github.com/clinicdesk/scheduler-api/internal/handler/schedule"
	"github.com/clinicdesk/scheduler-api/internal/middleware"
	"github.com/clinicdesk/scheduler-api/internal/repository/postgres"
	"github.com/clinicdesk/scheduler-api/internal/router"
	"github.com/clinicdesk/scheduler-api/internal/scheduling"
	appointmentService "github.com/clinicdesk/scheduler-api/internal/service/appointment"
	doctorService "github.com/clinicdesk/scheduler-api/internal/service/doctor"
	roomService "github.com/clinicdesk/scheduler-api/internal/service/room"
	scheduleService "github.com/clinicdesk/scheduler-api/internal/service/schedule"
	"github.com/clinicdesk/scheduler-api/pkg/logger"
	"github.com/clinicdesk/scheduler-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Pretty: cfg.Logging.Pretty,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	appointmentRepo := postgres.NewAppointmentRepository(db)
	roomRepo := postgres.NewRoomRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	m := metrics.NewMetrics("scheduler", "api")

	gridCfg := scheduling.GridConfig{
		DayStart:           cfg.Scheduling.DayStart,
		DayEnd:             cfg.Scheduling.DayEnd,
		SlotMinutes:        cfg.Scheduling.SlotMinutes,
		DefaultSlotMinutes: cfg.Scheduling.DefaultSlotMinutes,
		RefreshQuiescence:  cfg.Scheduling.RefreshQuiescence(),
	}

	scheduleSvc := scheduleService.NewService(
		appointmentRepo, roomRepo, doctorRepo,
		gridCfg, cfg.Scheduling.SnapshotTTL(), m, log,
	)
	appointmentSvc := appointmentService.NewService(appointmentRepo, outboxRepo, scheduleSvc, log)
	roomSvc := roomService.NewService(roomRepo, outboxRepo, log)
	doctorSvc := doctorService.NewService(doctorRepo)

	r := router.New(
		router.Config{
			RateLimit:      rate.Limit(cfg.Server.RateLimitRPS),
			RateBurst:      cfg.Server.RateLimitBurst,
			RequestTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			CORS:           middleware.DefaultCORSConfig(),
		},
		log,
		scheduleHandler.NewHandler(scheduleSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		roomHandler.NewHandler(roomSvc),
		doctorHandler.NewHandler(doctorSvc),
		healthHandler.NewHandler(db),
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
