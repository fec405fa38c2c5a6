package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/jonathan/network-overlap/internal/server"
	"github.com/jonathan/network-overlap/internal/server/ratelimit"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the colleague, candidate, settings and overlap endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (defaults to PORT or 8080)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	port := a.cfg.Port
	if servePort != 0 {
		port = servePort
	}

	srv := server.New(server.Config{Port: port, RateLimit: ratelimit.LoadConfig(nil)}, server.Deps{
		Store:    a.db,
		Enricher: a.pipeline,
		Overlaps: a.overlaps,
		Settings: a.settings,
		Session:  a.session,
		Importer: a.importer,
	}, a.logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(gctx)
	})
	g.Go(func() error {
		// Release the browser as soon as shutdown starts; in-flight fetches fail fast.
		<-gctx.Done()
		if err := a.browser.Close(); err != nil {
			a.logger.Warn("failed to close browser", zap.Error(err))
		}
		return nil
	})

	return g.Wait()
}
