package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/xavierca1/ligue-crm/internal/config"
	"github.com/xavierca1/ligue-crm/internal/entity"
	"github.com/xavierca1/ligue-crm/internal/infra/database"
	"github.com/xavierca1/ligue-crm/internal/infra/http/handlers"
	"github.com/xavierca1/ligue-crm/internal/infra/http/middleware"
	"github.com/xavierca1/ligue-crm/internal/infra/integration/kommo"
	"github.com/xavierca1/ligue-crm/internal/infra/mail"
	"github.com/xavierca1/ligue-crm/internal/infra/memstore"
	"github.com/xavierca1/ligue-crm/internal/infra/queue"
	"github.com/xavierca1/ligue-crm/internal/infra/security"
	"github.com/xavierca1/ligue-crm/internal/infra/worker"
	"github.com/xavierca1/ligue-crm/internal/usecase"
)

type repositories struct {
	users         entity.UserRepositoryInterface
	leads         entity.LeadRepositoryInterface
	opportunities entity.OpportunityRepositoryInterface
	callLogs      entity.CallLogRepositoryInterface
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Storage
	var db *sql.DB
	var repos repositories
	if cfg.InMemory() {
		log.Println("⚠️ DATABASE_URL not set, using in-memory store")
		store := memstore.New()
		repos = repositories{store.Users(), store.Leads(), store.Opportunities(), store.CallLogs()}
	} else {
		db, err = database.NewDBConnection(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("❌ Database unavailable: %v", err)
		}
		defer db.Close()

		if err := database.Migrate(ctx, db); err != nil {
			log.Fatalf("❌ Migration failed: %v", err)
		}
		repos = repositories{
			database.NewUserRepository(db),
			database.NewLeadRepository(db),
			database.NewOpportunityRepository(db),
			database.NewCallLogRepository(db),
		}
	}

	// 2. Security
	hasher, err := security.NewBcryptHasher(cfg.BcryptCost)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	tokens, err := security.NewTokenService(cfg.SecretKey, cfg.TokenTTL())
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	// 3. Events and integrations
	var events usecase.EventPublisher = usecase.NopPublisher{}
	var rabbitMQ *queue.RabbitMQ
	if cfg.RabbitMQURL != "" {
		rabbitMQ, err = queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			log.Fatalf("❌ RabbitMQ unavailable: %v", err)
		}
		defer rabbitMQ.Close()
		events = queue.NewProducer(rabbitMQ.Ch)

		var syncer queue.LeadSyncer
		if cfg.Kommo.Enabled() {
			syncer = kommo.NewClient(cfg.Kommo.BaseURL, cfg.Kommo.APIToken)
		}
		var notifier queue.AssignmentNotifier
		if cfg.Mail.Enabled() {
			notifier = mail.NewEmailSender(cfg.Mail.Host, cfg.Mail.Port, cfg.Mail.User, cfg.Mail.Pass, cfg.Mail.From)
		}

		pipelineWorker := queue.NewWorker(rabbitMQ.Ch, syncer, notifier)
		go func() {
			if err := pipelineWorker.Start(ctx, queue.QueueName); err != nil {
				log.Printf("❌ Pipeline worker failed: %v", err)
			}
		}()
	} else {
		log.Println("ℹ️ RABBITMQ_URL not set, pipeline events disabled")
	}

	// 4. UseCases
	authUC := usecase.NewAuthUseCase(repos.users, hasher, tokens)
	dashboardUC := usecase.NewDashboardUseCase(repos.leads, repos.opportunities)

	statsWorker := worker.NewPipelineStatsWorker(dashboardUC, publishSnapshot, cfg.StatsInterval)
	go statsWorker.Start(ctx)

	// 5. Handlers
	authHandler := handlers.NewAuthHandler(authUC)
	defer authHandler.Close()

	var amqpConn *amqp.Connection
	if rabbitMQ != nil {
		amqpConn = rabbitMQ.Conn
	}
	if cfg.TrustedProxy {
		log.Println("🔀 Trusting X-Forwarded-For / X-Real-IP for client addresses")
	}
	router := &handlers.Router{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		TrustProxy:     cfg.TrustedProxy,
		Auth:           authHandler,
		Users:          handlers.NewUserHandler(usecase.NewUserUseCase(repos.users)),
		Leads:          handlers.NewLeadHandler(usecase.NewLeadUseCase(repos.leads, events)),
		Opportunities: handlers.NewOpportunityHandler(
			usecase.NewOpportunityUseCase(repos.opportunities, repos.leads, repos.users, events),
		),
		CallLogs:  handlers.NewCallLogHandler(usecase.NewCallLogUseCase(repos.callLogs)),
		Dashboard: handlers.NewDashboardHandler(dashboardUC),
		Health: handlers.NewHealthHandler(db, amqpConn, map[string]bool{
			"kommo": cfg.Kommo.Enabled(),
			"smtp":  cfg.Mail.Enabled(),
		}),
	}

	// 6. Server
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🔥 CRM API listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("⚠️ Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Graceful shutdown failed: %v", err)
	}
}

func publishSnapshot(s *usecase.DashboardStats) {
	middleware.SetPipelineSnapshot(middleware.PipelineSnapshot{
		TotalLeads:         s.TotalLeads,
		NewLeads:           s.NewLeads,
		QualifiedLeads:     s.QualifiedLeads,
		TotalOpportunities: s.TotalOpportunities,
		WonOpportunities:   s.WonOpportunities,
		TotalValue:         s.TotalOpportunityValue,
	})
}
