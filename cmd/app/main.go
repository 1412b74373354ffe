package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bagdasarian/collabquest-assistant/internal/config"
	"github.com/bagdasarian/collabquest-assistant/internal/db"
	"github.com/bagdasarian/collabquest-assistant/internal/domain"
	"github.com/bagdasarian/collabquest-assistant/internal/handler"
	"github.com/bagdasarian/collabquest-assistant/internal/handler/server"
	"github.com/bagdasarian/collabquest-assistant/internal/llm"
	"github.com/bagdasarian/collabquest-assistant/internal/metrics"
	"github.com/bagdasarian/collabquest-assistant/internal/repository/postgres"
	"github.com/bagdasarian/collabquest-assistant/internal/service"
)

var verbose bool

func main() {
	rootCmd := &cobra.Command{
		Use:           "collabquest",
		Short:         "CollabQuest assistant: chat agent and team governance",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(serveCmd(), askCmd(), migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			app, err := buildApp(cmd.Context(), logger)
			if err != nil {
				return err
			}
			defer app.Close()

			if addr == "" {
				addr = app.cfg.HTTP.Addr
			}

			h := handler.NewHandler(app.orchestrator, app.governance, app.teamService, app.userService, app.statsService, logger)
			srv := server.NewServer(server.NewRouter(h, app.metrics.Handler(), logger), addr, logger)

			errCh := make(chan error, 1)
			go func() {
				if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			select {
			case <-quit:
			case err := <-errCh:
				return fmt.Errorf("server failed to start: %w", err)
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				return fmt.Errorf("server forced to shutdown: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (defaults to HTTP_ADDR)")
	return cmd
}

func askCmd() *cobra.Command {
	var (
		userID string
		skills []string
	)
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Send one message to the assistant and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			app, err := buildApp(cmd.Context(), logger)
			if err != nil {
				return err
			}
			defer app.Close()

			answer := app.orchestrator.HandleMessage(cmd.Context(), strings.Join(args, " "), userID, skills)
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}
	cmd.Flags().StringVarP(&userID, "user", "u", "", "id of the asking user")
	cmd.Flags().StringSliceVar(&skills, "skills", nil, "skills of the asking user")
	cmd.MarkFlagRequired("user")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			database, err := db.NewPostgres(config.Load())
			if err != nil {
				return err
			}
			defer database.Close()

			if err := db.Migrate(cmd.Context(), database); err != nil {
				return err
			}
			logger.Info("migrations applied")
			return nil
		},
	}
}

func newLogger() (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return zcfg.Build()
}

type app struct {
	cfg          *config.Config
	database     *sql.DB
	natsConn     *nats.Conn
	metrics      *metrics.Metrics
	orchestrator *service.Orchestrator
	governance   service.GovernanceService
	teamService  service.TeamService
	userService  service.UserService
	statsService service.StatsService
}

func (a *app) Close() {
	if a.natsConn != nil {
		a.natsConn.Close()
	}
	a.database.Close()
}

func buildApp(ctx context.Context, logger *zap.Logger) (*app, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := config.Load()
	if err := cfg.LoadModelsFile(os.Getenv("LLM_MODELS_FILE")); err != nil {
		return nil, err
	}

	quorums, err := parseQuorums(cfg.Governance)
	if err != nil {
		return nil, err
	}

	database, err := db.NewPostgres(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("connected to database", zap.String("host", cfg.Database.Host), zap.String("db", cfg.Database.DBName))

	a := &app{cfg: cfg, database: database}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.metrics = metrics.New(reg)

	gemini, err := llm.NewGeminiGateway(ctx, llm.GeminiConfig{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Timeout: cfg.LLM.Timeout,
	}, logger)
	if err != nil {
		a.Close()
		return nil, err
	}
	gateway := llm.NewInstrumentedGateway(gemini, a.metrics)
	models := llm.NewModelTable(cfg.LLM.DefaultModel, cfg.LLM.Models)

	var publisher service.Publisher
	if cfg.NATS.URL != "" {
		nc, err := nats.Connect(cfg.NATS.URL, nats.Name("collabquest-assistant"))
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect to nats: %w", err)
		}
		a.natsConn = nc
		publisher = nc
		logger.Info("publishing notifications to nats", zap.String("subject_prefix", cfg.NATS.SubjectPrefix))
	}

	teamRepo := postgres.NewTeamRepository(database)
	userRepo := postgres.NewUserRepository(database)
	notificationRepo := postgres.NewNotificationRepository(database)
	chatRepo := postgres.NewChatRepository(database)
	searchRepo := postgres.NewSearchRepository(database)
	statsRepo := postgres.NewStatsRepository(database)

	notifier := service.NewNotificationService(notificationRepo, publisher, cfg.NATS.SubjectPrefix, a.metrics, logger)
	a.governance = service.NewGovernanceService(teamRepo, notifier, service.GovernanceConfig{
		Quorums:    quorums,
		MaxRetries: cfg.Governance.MaxRetries,
	}, a.metrics, logger)
	a.teamService = service.NewTeamService(teamRepo)
	a.userService = service.NewUserService(userRepo, notificationRepo, chatRepo)
	a.statsService = service.NewStatsService(statsRepo)

	a.orchestrator = service.NewOrchestrator(service.OrchestratorDeps{
		Classifier:    service.NewIntentClassifier(gateway, models, a.metrics, logger),
		Resolver:      service.NewTargetResolver(gateway, models, logger),
		Extractor:     service.NewTaskExtractor(gateway, models, cfg.Governance.DefaultTaskDays),
		Governance:    a.governance,
		Planner:       service.NewPlanner(gateway, models, teamRepo, logger),
		Coder:         service.NewCoder(gateway, models),
		Searcher:      service.NewSearcher(gateway, models, searchRepo),
		Chatter:       service.NewChatter(gateway, models),
		TeamRepo:      teamRepo,
		UserRepo:      userRepo,
		ChatRepo:      chatRepo,
		HistoryWindow: cfg.Chat.HistoryWindow,
		Logger:        logger,
	})

	return a, nil
}

func parseQuorums(cfg config.GovernanceConfig) (map[domain.GovernanceAction]domain.QuorumRule, error) {
	raw := map[domain.GovernanceAction]string{
		domain.ActionDelete:       cfg.DeleteQuorum,
		domain.ActionComplete:     cfg.CompleteQuorum,
		domain.ActionRemoveMember: cfg.RemoveMemberQuorum,
	}

	quorums := make(map[domain.GovernanceAction]domain.QuorumRule, len(raw))
	for action, value := range raw {
		if value == "" {
			continue
		}
		rule, err := domain.ParseQuorumRule(value)
		if err != nil {
			return nil, fmt.Errorf("quorum for %s: %w", action, err)
		}
		quorums[action] = rule
	}
	return quorums, nil
}
