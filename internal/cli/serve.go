package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/gridboard/internal/api"
)

// shutdownTimeout bounds how long in-flight requests may run after the
// server is asked to stop.
const shutdownTimeout = 5 * time.Second

func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the board HTTP API until interrupted.

The store, cache and timeouts come from the config file. --addr overrides
server.addr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = c.cfg.Server.Addr
			}
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("listen on %s: %w", addr, err)
			}
			return c.serve(cmd.Context(), ln)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

// serve runs the API on ln until ctx ends, then drains open requests.
// Request contexts are cancelled when shutdown starts so that event streams
// end instead of holding the server open.
func (c *CLI) serve(ctx context.Context, ln net.Listener) error {
	logger := loggerFromContext(ctx)

	b, err := c.open(ctx)
	if err != nil {
		ln.Close()
		return err
	}
	defer b.Close()

	reqCtx, cancelRequests := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelRequests()

	srv := &http.Server{
		BaseContext: func(net.Listener) context.Context { return reqCtx },
		Handler: api.NewServer(b.dispatcher,
			api.WithLogger(logger),
			api.WithEngine(b.engine),
			api.WithDefaultLayout(c.cfg.DefaultLayout()),
		).Handler(),
		ReadTimeout:       c.cfg.Server.ReadTimeout,
		ReadHeaderTimeout: c.cfg.Server.ReadTimeout,
		WriteTimeout:      c.cfg.Server.WriteTimeout,
	}
	srv.RegisterOnShutdown(cancelRequests)

	errc := make(chan error, 1)
	go func() {
		logger.Info("serving", "addr", ln.Addr().String(), "store", c.cfg.Store.Backend, "cache", c.cfg.Cache.Backend)
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		srv.Close()
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
