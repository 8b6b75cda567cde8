// Command server runs the campus events portal API. main wires config,
// stores, the notification pipeline, and the HTTP router; business logic
// lives in the internal service packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"campusevents/internal/activity"
	"campusevents/internal/booking"
	bookinghandler "campusevents/internal/booking/handler"
	bookingmetrics "campusevents/internal/booking/metrics"
	"campusevents/internal/event"
	eventhandler "campusevents/internal/event/handler"
	"campusevents/internal/invite"
	invitehandler "campusevents/internal/invite/handler"
	invitemetrics "campusevents/internal/invite/metrics"
	"campusevents/internal/membership"
	"campusevents/internal/notification"
	notificationmetrics "campusevents/internal/notification/metrics"
	"campusevents/internal/platform/config"
	"campusevents/internal/platform/httpserver"
	"campusevents/internal/platform/kafka"
	"campusevents/internal/platform/logger"
	platformredis "campusevents/internal/platform/redis"
	"campusevents/internal/venue"
	venuehandler "campusevents/internal/venue/handler"
	"campusevents/pkg/platform/middleware/actor"
	"campusevents/pkg/platform/middleware/requesttime"
)

const startupTimeout = 30 * time.Second

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	startCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	var db *sql.DB
	if cfg.PostgresDSN != "" {
		var err error
		db, err = sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			return err
		}
		defer db.Close()
		if err := db.PingContext(startCtx); err != nil {
			return err
		}
	} else {
		log.Warn("no postgres DSN configured, running on in-memory stores")
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	if err := kafka.EnsureTopics(startCtx, cfg.Kafka,
		notification.TopicNotify,
		notification.TopicSMS,
		notification.TopicMassMail,
		notification.TopicAlert,
		notification.TopicLog,
	); err != nil {
		return err
	}
	producer, err := kafka.NewProducer(startCtx, cfg.Kafka, log)
	if err != nil {
		return err
	}
	defer producer.Close()

	st := newStores(db)

	members := st.members
	if redisClient != nil {
		members = membership.NewCachedStore(members, redisClient.Client, cfg.Redis.RosterTTL, log)
	}

	recorder := activity.NewRecorder(producer, log)
	dispatcher := notification.NewDispatcher(producer, log,
		notification.WithBatchSize(cfg.EmailBatchSize),
		notification.WithWorkers(cfg.DispatchWorkers),
		notification.WithMetrics(notificationmetrics.New()),
	)

	events := event.NewService(st.events, st.tasks, st.feedback, st.tx, members, dispatcher, log,
		event.WithActivityRecorder(recorder))
	venues := venue.NewService(st.venues, dispatcher, log,
		venue.WithActivityRecorder(recorder))
	bookings := booking.NewService(st.bookings, st.events, st.venues, dispatcher, log,
		booking.WithMetrics(bookingmetrics.New()),
		booking.WithActivityRecorder(recorder))
	resolver := invite.NewResolver(members, log)
	invites := invite.NewService(st.invites, st.events, st.venues, resolver, dispatcher, log,
		invite.WithMetrics(invitemetrics.New()),
		invite.WithActivityRecorder(recorder))

	router := chi.NewRouter()
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())
	router.Group(func(r chi.Router) {
		r.Use(requesttime.Middleware)
		r.Use(actor.Middleware([]byte(cfg.GatewaySigningKey)))
		eventhandler.New(events, log).Register(r)
		venuehandler.New(venues, log).Register(r)
		bookinghandler.New(bookings, log).Register(r)
		invitehandler.New(invites, log).Register(r)
	})

	srv := httpserver.New(cfg.Addr, router)

	errc := make(chan error, 1)
	go func() {
		log.Info("starting campusevents", "addr", cfg.Addr, "postgres", db != nil, "redis", redisClient != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errc:
		return err
	case sig := <-quit:
		log.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	return srv.Shutdown(shutdownCtx)
}

// stores bundles the persistence layer behind the service interfaces so the
// wiring below reads the same for postgres and in-memory mode.
type stores struct {
	events   event.Store
	tasks    event.TaskStore
	feedback event.FeedbackStore
	tx       event.StoreTx
	venues   venue.Store
	bookings booking.Store
	invites  invite.Store
	members  membership.Store
}

func newStores(db *sql.DB) stores {
	if db == nil {
		return stores{
			events:   event.NewInMemoryStore(),
			tasks:    event.NewInMemoryTaskStore(),
			feedback: event.NewInMemoryFeedbackStore(),
			tx:       event.NoopTx{},
			venues:   venue.NewInMemoryStore(),
			bookings: booking.NewInMemoryStore(),
			invites:  invite.NewInMemoryStore(),
			members:  membership.NewInMemoryStore(),
		}
	}
	return stores{
		events:   event.NewPostgresStore(db),
		tasks:    event.NewPostgresTaskStore(db),
		feedback: event.NewPostgresFeedbackStore(db),
		tx:       event.NewSQLTx(db),
		venues:   venue.NewPostgresStore(db),
		bookings: booking.NewPostgresStore(db),
		invites:  invite.NewPostgresStore(db),
		members:  membership.NewPostgresStore(db),
	}
}
