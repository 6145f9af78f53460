package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk/internal/config"
	"github.com/spec-kit/helpdesk/internal/events"
	"github.com/spec-kit/helpdesk/internal/observability"
	"github.com/spec-kit/helpdesk/internal/persistence"
	"github.com/spec-kit/helpdesk/internal/repository"
	"github.com/spec-kit/helpdesk/internal/service"
)

// Global flags
var flagConfigPath string

var rootCmd = &cobra.Command{
	Use:   "helpdeskctl",
	Short: "Operator tooling for the helpdesk service",
	Long: `helpdeskctl runs schema migrations and the CSV hand-off with the
external ticketing system against the same database the API uses.

Configuration is read the same way as the server: defaults, then the TOML
file given by --config (or $HELPDESK_CONFIG_FILE), then environment variables.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfigPath, "config", "", "path to a TOML config file")
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(ticketsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if flagConfigPath == "" {
		return config.Load()
	}
	return config.LoadFromPath(flagConfigPath)
}

// runtime holds what a single command invocation needs.
type runtime struct {
	cfg    *config.Config
	logger *zap.Logger
	pg     *persistence.Postgres
}

// openRuntime loads config and connects to postgres. Logs go to stderr so
// that stdout stays clean for CSV output.
func openRuntime(ctx context.Context) (*runtime, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	cfg.Logger.Output = "stderr"

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if pg.PoolHandle() == nil {
		return nil, errors.New("POSTGRES_DSN is required")
	}
	return &runtime{cfg: cfg, logger: logger, pg: pg}, nil
}

func (r *runtime) Close() {
	r.pg.Close()
	_ = r.logger.Sync()
}

func (r *runtime) ticketService() *service.TicketService {
	pool := r.pg.PoolHandle()
	ticketRepo := repository.NewTicketRepository(pool)

	dispatcher := events.NewInMemoryDispatcher(r.logger)
	service.NewNotificationService(dispatcher, r.logger, r.cfg.Notification).RegisterHandlers()

	return service.NewTicketService(service.TicketDependencies{
		TicketRepo: ticketRepo,
		History: service.NewTicketHistoryService(service.TicketHistoryDependencies{
			HistoryRepo: repository.NewTicketHistoryRepository(pool),
			TicketRepo:  ticketRepo,
			Logger:      r.logger,
		}),
		Dispatcher: dispatcher,
		Logger:     r.logger,
	})
}
