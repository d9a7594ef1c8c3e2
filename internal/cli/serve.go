package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ppiankov/pmicheck/internal/report"
	"github.com/ppiankov/pmicheck/internal/server"
	"github.com/ppiankov/pmicheck/internal/session"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the survey over HTTP",
	Long: `Serve runs the survey as a web application. Each browser gets a session
cookie; results are pushed over a websocket while the scoring request is
in flight, with a polling fallback.

Sessions live in memory by default. Set session.backend to redis (and
session.redis_addr) to share them between instances.

Example:
  pmicheck serve
  pmicheck serve --addr 127.0.0.1:9000
  PMICHECK_SESSION_BACKEND=redis PMICHECK_SESSION_REDIS_ADDR=localhost:6379 pmicheck serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "listen address")
	serveCmd.Flags().Bool("secure-cookie", false, "mark the session cookie Secure (behind TLS)")

	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.secure_cookie", serveCmd.Flags().Lookup("secure-cookie"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checker, err := newChecker(cfg, log, nil)
	if err != nil {
		return err
	}
	summarizer, err := newSummarizer(cfg, log)
	if err != nil {
		return err
	}

	backing, err := session.NewCache(cfg.Session)
	if err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	if p, ok := backing.(interface{ Ping(context.Context) error }); ok {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("session backend: %w", err)
		}
	}
	if c, ok := backing.(io.Closer); ok {
		defer func() { _ = c.Close() }()
	}
	store := session.NewStore(backing, cfg.Session.TTL)

	srv, err := server.New(cfg.Server, store, checker,
		server.WithTimeout(cfg.Eligibility.Timeout),
		server.WithSummarizer(summarizer),
		server.WithRenderer(report.NewRenderer(cfg.Report)),
		server.WithLogger(log),
	)
	if err != nil {
		return err
	}

	log.Info("listening on %s (sessions: %s)", cfg.Server.Addr, cfg.Session.Backend)
	if err := srv.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("serve: %w", err)
	}
	log.Info("stopped")
	return nil
}
