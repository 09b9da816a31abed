package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/config"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/repository"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/service"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-minimax/transport/cli"
	"github.com/rocketscienceinc/tictactoe-minimax/transport/rest"
)

var ErrUnknownMode = errors.New("unknown mode")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	var moveRepo repository.MoveRepository
	if conf.Redis.Enabled {
		redisStorage, err := storage.New(ctx, conf.Redis.GetRedisAddr())
		if err != nil {
			return fmt.Errorf("could not connect to redis storage: %w", err)
		}

		defer func() {
			if err = redisStorage.Close(); err != nil {
				log.Error("could not close redis storage", "error", err)
			}
		}()

		moveRepo = repository.NewMoveRepository(redisStorage, conf.Redis.TTL)
		log.Info("Move cache enabled", "addr", conf.Redis.GetRedisAddr())
	}

	engine := minimax.New(minimax.WithStrictCutoff(conf.Search.StrictCutoff))
	botService := service.NewBotService(logger, engine, moveRepo)

	switch conf.Mode {
	case config.ModeCLI:
		return runCLI(ctx, logger, botService, conf.Game.HumanFirst)
	case config.ModeHTTP:
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if err := rest.Start(ctx, conf.HTTPPort, rest.NewRouter(logger, rest.NewHandlers(logger, botService))); err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}

		log.Info("Application context canceled, shutting down")
		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, conf.Mode)
	}
}

// runCLI plays one game on stdin/stdout. Reading stdin cannot be interrupted,
// so a signal abandons the game instead of waiting for it.
func runCLI(ctx context.Context, logger *slog.Logger, botService service.BotService, humanFirst bool) error {
	gameManager := usecase.NewGameManager(logger, botService, humanFirst)
	terminal := cli.New(logger, gameManager, os.Stdin, os.Stdout)

	errCh := make(chan error, 1)
	go func() {
		_, err := terminal.Play(ctx)
		errCh <- err
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, cli.ErrInputClosed) {
			return nil
		}

		return err
	case <-ctx.Done():
		return nil
	}
}
