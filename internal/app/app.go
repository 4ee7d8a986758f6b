package app

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sharetube/watchparty/internal/controller"
	chatpostgres "github.com/sharetube/watchparty/internal/repository/chat/postgres"
	moviepostgres "github.com/sharetube/watchparty/internal/repository/movie/postgres"
	partyredis "github.com/sharetube/watchparty/internal/repository/party/redis"
	"github.com/sharetube/watchparty/internal/repository/session/inmemory"
	"github.com/sharetube/watchparty/internal/service/auth"
	"github.com/sharetube/watchparty/internal/service/chat"
	"github.com/sharetube/watchparty/internal/service/party"
	"github.com/sharetube/watchparty/internal/service/playback"
	"github.com/sharetube/watchparty/pkg/ctxlogger"
	"github.com/sharetube/watchparty/pkg/postgresclient"
	"github.com/sharetube/watchparty/pkg/redisclient"
)

type AppConfig struct {
	Secret           string        `json:"-"`
	Host             string        `json:"host"`
	Port             int           `json:"port"`
	LogLevel         string        `json:"log_level"`
	MembersLimit     int           `json:"members_limit"`
	ChatHistoryLimit int           `json:"chat_history_limit"`
	SendBuffer       int           `json:"send_buffer"`
	PartyTTL         time.Duration `json:"party_ttl"`
	AllowedOrigins   []string      `json:"allowed_origins"`
	RedisHost        string        `json:"redis_host"`
	RedisPort        int           `json:"redis_port"`
	RedisPassword    string        `json:"-"`
	RedisDB          int           `json:"redis_db"`
	PostgresDSN      string        `json:"-"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.Secret == "" {
		return fmt.Errorf("secret must not be empty")
	}
	if cfg.MembersLimit < 1 {
		return fmt.Errorf("members limit must be greater than 0")
	}
	if cfg.ChatHistoryLimit < 1 {
		return fmt.Errorf("chat history limit must be greater than 0")
	}
	if cfg.SendBuffer < 1 {
		return fmt.Errorf("send buffer must be greater than 0")
	}
	if cfg.PartyTTL <= 0 {
		return fmt.Errorf("party ttl must be positive")
	}
	if cfg.PostgresDSN == "" {
		return fmt.Errorf("postgres dsn must not be empty")
	}
	return nil
}

func NewLogger(level string) (*slog.Logger, error) {
	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	return slog.New(&h), nil
}

func Run(ctx context.Context, cfg *AppConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := NewLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	rc, err := redisclient.NewRedisClient(&redisclient.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer rc.Close()

	db, err := postgresclient.NewPostgresClient(&postgresclient.Config{DSN: cfg.PostgresDSN})
	if err != nil {
		return fmt.Errorf("failed to create postgres client: %w", err)
	}

	chatRepo := chatpostgres.NewRepo(db, logger)
	movieRepo := moviepostgres.NewRepo(db, logger)
	if err := chatRepo.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate chat messages: %w", err)
	}
	if err := movieRepo.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate movies: %w", err)
	}

	partyRepo := partyredis.NewRepo(rc, cfg.PartyTTL, logger)
	registry := inmemory.NewRepo(logger)

	partyService := party.NewService(registry, partyRepo, movieRepo, &party.Config{
		MembersLimit: cfg.MembersLimit,
	}, logger)
	playbackService := playback.NewService(registry, partyRepo, movieRepo, logger)
	chatService := chat.NewService(registry, chatRepo, &chat.Config{
		HistoryLimit: cfg.ChatHistoryLimit,
	}, logger)
	authService := auth.NewService(cfg.Secret)

	controller := controller.NewController(
		partyService,
		playbackService,
		chatService,
		authService,
		registry,
		&controller.Config{
			AllowedOrigins: cfg.AllowedOrigins,
			SendBuffer:     cfg.SendBuffer,
		},
		logger,
	)
	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: controller.GetMux()}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)
	defer serverStopCtx()

	go controller.Run(serverCtx)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return nil
}
