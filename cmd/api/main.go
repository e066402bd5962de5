package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/tenant-scheduler/internal/audit"
	"github.com/BruksfildServices01/tenant-scheduler/internal/config"
	dbpkg "github.com/BruksfildServices01/tenant-scheduler/internal/db"
	domain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/tenant-scheduler/internal/infra/broker"
	"github.com/BruksfildServices01/tenant-scheduler/internal/infra/cache"
	infraRepo "github.com/BruksfildServices01/tenant-scheduler/internal/infra/repository"
	"github.com/BruksfildServices01/tenant-scheduler/internal/logger"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
	"github.com/BruksfildServices01/tenant-scheduler/internal/routes"
	ucAppointment "github.com/BruksfildServices01/tenant-scheduler/internal/usecase/appointment"
)

const shutdownTimeout = 15 * time.Second

func main() {
	rootCmd := &cobra.Command{
		Use:   "tenant-scheduler",
		Short: "Multi-tenant appointment scheduling API",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, _ := cmd.Flags().GetBool("seed-demo")
			return runServer(seed)
		},
	}
	cmd.Flags().Bool("seed-demo", false, "Seed a demo tenant (memory store only)")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the postgres schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			db, err := dbpkg.NewDB(cfg)
			if err != nil {
				return err
			}
			if err := dbpkg.Migrate(db); err != nil {
				return fmt.Errorf("migration failed: %w", err)
			}

			fmt.Println("Schema is up to date.")
			return nil
		},
	}
}

// appointmentStore is what the server needs from a store: the domain
// repository plus somewhere for audit rows to land.
type appointmentStore interface {
	domain.Repository
	audit.Store
}

func runServer(seedDemo bool) error {
	cfg := config.Load()

	log, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ------------------------------
	// Store
	// ------------------------------
	var store appointmentStore
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		mem := infraRepo.NewAppointmentMemoryRepository()
		if seedDemo {
			seedDemoTenant(mem, log)
		}
		store = mem
	case config.StoreDriverPostgres:
		db, err := dbpkg.NewDB(cfg)
		if err != nil {
			return err
		}
		store = infraRepo.NewAppointmentGormRepository(db)
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	// ------------------------------
	// Availability cache
	// ------------------------------
	var slotCache domain.SlotCache
	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer func() { _ = rdb.Close() }()
		slotCache = cache.NewRedisSlotCache(rdb, cfg.AvailabilityCacheTTL)
	} else {
		slotCache = cache.NewMemorySlotCache(cfg.AvailabilityCacheTTL)
	}

	// ------------------------------
	// Audit sinks
	// ------------------------------
	sinks := []audit.Sink{audit.New(store)}
	if len(cfg.KafkaBrokers) > 0 {
		publisher := broker.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer func() { _ = publisher.Close() }()
		sinks = append(sinks, publisher)
	}
	dispatcher := audit.NewDispatcher(log, sinks...)

	// ------------------------------
	// HTTP
	// ------------------------------
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, cfg, ucAppointment.Deps{
		Repo:  store,
		Cache: slotCache,
		Audit: dispatcher,
		Log:   log,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server running",
			zap.String("addr", cfg.Addr()),
			zap.String("store", cfg.StoreDriver),
			zap.Bool("redis", cfg.RedisURL != ""),
			zap.Bool("kafka", len(cfg.KafkaBrokers) > 0),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}
	if err := dispatcher.Close(shutdownCtx); err != nil {
		log.Error("audit dispatcher did not drain", zap.Error(err))
	}
	return nil
}

// seedDemoTenant creates tenant "demo" with one employee working weekdays
// 09:00-17:00 with a lunch break, two services and one customer.
func seedDemoTenant(repo *infraRepo.AppointmentMemoryRepository, log *zap.Logger) {
	tenant := repo.AddTenant(models.Tenant{Name: "Demo", Slug: "demo", Timezone: "America/Sao_Paulo"})

	cut := repo.AddService(models.Service{TenantID: tenant.ID, Name: "Haircut", DurationMinutes: 30, Active: true})
	color := repo.AddService(models.Service{TenantID: tenant.ID, Name: "Coloring", DurationMinutes: 45, Active: true})

	hours := make([]models.WorkingHours, domain.DaysPerWeek)
	for d := range hours {
		hours[d] = models.WorkingHours{Weekday: d}
		if d >= int(time.Monday) && d <= int(time.Friday) {
			hours[d].IsWorkingDay = true
			hours[d].StartTime, hours[d].EndTime = "09:00", "17:00"
			hours[d].BreakStart, hours[d].BreakEnd = "12:00", "13:00"
		}
	}

	emp := repo.AddEmployee(models.Employee{
		TenantID:     tenant.ID,
		Name:         "Ana",
		Active:       true,
		WorkingHours: hours,
		Services:     []models.Service{cut, color},
	})
	customer := repo.AddCustomer(models.Customer{TenantID: tenant.ID, Name: "Bruno", Email: "bruno@example.com"})

	log.Info("demo tenant seeded",
		zap.String("tenant_id", tenant.ID.String()),
		zap.String("employee_id", emp.ID.String()),
		zap.String("service_id", cut.ID.String()),
		zap.String("customer_id", customer.ID.String()),
	)
}
