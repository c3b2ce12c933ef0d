package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Freeeeeet/clinic_scheduler/internal/clock"
	"github.com/Freeeeeet/clinic_scheduler/internal/config"
	"github.com/Freeeeeet/clinic_scheduler/internal/controller/httpapi"
	"github.com/Freeeeeet/clinic_scheduler/internal/repository"
	"github.com/Freeeeeet/clinic_scheduler/internal/service"
	"github.com/Freeeeeet/clinic_scheduler/internal/validation"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// App собранное приложение: пул БД, сервисы и HTTP-сервер
type App struct {
	cfg    *config.Config
	pool   *pgxpool.Pool
	server *http.Server
	logger *zap.Logger
}

// New подключается к базе, применяет миграции и собирает сервисы
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	pool, err := NewPool(ctx, cfg.DBDSN, cfg.DBMaxConns)
	if err != nil {
		return nil, err
	}

	migrator, err := NewMigrator(pool, cfg.MigrationsDir, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}
	defer migrator.Close()

	if err := migrator.Run(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	tx := repository.NewPostgres(pool)
	clk := clock.System()

	handler := httpapi.NewHandler(httpapi.Deps{
		Consultations: service.NewConsultationService(tx, clk, logger.Named("consultations")),
		Persons:       service.NewPersonService(tx, validation.NewPasswordHasher(cfg.BcryptCost), clk, logger.Named("persons")),
		Clinics:       service.NewClinicService(tx, clk, logger.Named("clinics")),
		Educations:    service.NewEducationService(tx, logger.Named("educations")),
		Clock:         clk,
		Ping:          pool.Ping,
		Logger:        logger.Named("http"),
	})

	router := httpapi.NewRouter(handler, httpapi.RouterConfig{
		AllowedOrigins: cfg.CORSOrigins,
		RateLimit:      cfg.RateLimit,
	})

	return &App{
		cfg:  cfg,
		pool: pool,
		server: &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}, nil
}

// Run обслуживает HTTP до отмены ctx, затем корректно останавливает сервер
func (a *App) Run(ctx context.Context) error {
	defer a.pool.Close()

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server started", zap.String("addr", a.cfg.HTTPAddr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down HTTP server", zap.Duration("timeout", a.cfg.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	a.logger.Info("HTTP server stopped")
	return nil
}
