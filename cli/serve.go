package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"esologs_check/ability"
	"esologs_check/analysispool"
	"esologs_check/cache"
	"esologs_check/config"
	"esologs_check/esologs"
	"esologs_check/frontend"
	"esologs_check/publish"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand(ro *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web frontend, websocket queue and REST api",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, ro)
		},
	}
}

func runServe(cmd *cobra.Command, ro *rootOptions) error {
	cfg, done, err := setup(ro, nil)
	if err != nil {
		return err
	}
	defer done()

	if err := cfg.RequireCredentials(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := esologs.New(cfg.ESOLogs, cfg.Cache)
	if err != nil {
		return err
	}

	var csResult *cache.Storage
	if cfg.Cache.Directory != "" {
		csResult, err = cache.NewStorage(filepath.Join(cfg.Cache.Directory, "results"), cfg.Cache.ResultTTL, ability.Table())
		if err != nil {
			return err
		}
	}

	publisher := publish.New(cfg.Kafka)
	defer publisher.Close()

	pool := analysispool.New(client, analysisOptions(cfg), csResult, publisher)
	pool.Start(ctx)

	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	g := gin.New()
	frontend.Route(g, cfg.Server, cfg.Recaptcha.Secret, pool)

	return listen(ctx, cfg.Server, g)
}

func listen(ctx context.Context, cfg config.ServerConfig, h http.Handler) error {
	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: h,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			zap.L().Warn("shutdown", zap.Error(err))
		}
	}()

	zap.L().Info("listening", zap.String("addr", cfg.Addr))
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		zap.L().Info("stopped")
		return nil
	}
	return errors.WithStack(err)
}
