package cli

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/crewgen/internal/api"
	"github.com/mrz1836/crewgen/internal/conversation"
	"github.com/mrz1836/crewgen/internal/voice"
)

type serveOptions struct {
	addr string
}

// AddServeCommand adds the serve command to the root command.
func AddServeCommand(root *cobra.Command, flags *GlobalFlags) {
	root.AddCommand(newServeCmd(flags))
}

func newServeCmd(flags *GlobalFlags) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API used by browser and voice front ends.

The server exposes team generation, persona generation, team storage,
configuration rendering and turn-based conversations with a server-sent
event stream per conversation.

Examples:
  crewgen serve
  crewgen serve --addr :9000 --store redis`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), flags, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (overrides server.addr)")
	return cmd
}

func runServe(ctx context.Context, flags *GlobalFlags, opts *serveOptions) error {
	a, err := newApp(ctx, flags)
	if err != nil {
		return err
	}
	if opts.addr != "" {
		a.cfg.Server.Addr = opts.addr
	}

	st, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer a.closeStore(st)

	engine, err := a.newEngine(st)
	if err != nil {
		return err
	}

	server, err := api.New(api.Options{
		Config:    &a.cfg.Server,
		Generator: a.orchestrator,
		Store:     st,
		Catalog:   a.catalog,
		Sessions:  conversation.NewManager(nil),
		Engine:    engine,
		Hub:       voice.NewHub(a.logger),
		Logger:    a.logger,
	})
	if err != nil {
		return err
	}

	return serveUntilDone(ctx, server.HTTPServer(), a)
}

// serveUntilDone runs srv until ctx is canceled, then shuts it down within
// the configured grace period.
func serveUntilDone(ctx context.Context, srv *http.Server, a *app) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info().
			Str("addr", srv.Addr).
			Str("store", a.cfg.Store.Driver).
			Str("model", a.cfg.LLM.Model).
			Msg("api server listening")
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		a.logger.Info().Msg("shutting down api server")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
