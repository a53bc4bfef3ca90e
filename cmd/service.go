package cmd

import (
	"context"
	"net"
	"net/http"

	"github.com/isometry/gh-workflow-relay/internal/config"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func cmdService() *cobra.Command {
	return &cobra.Command{
		Use:     "service",
		Aliases: []string{"s", "serve", "standalone", "server"},
		Short:   "Serve the relay over HTTP",
		RunE:    runService,
	}
}

func runService(cmd *cobra.Command, _ []string) error {
	logger = logger.With("mode", config.ModeService)
	logger.Info("Spawning...")

	rt, err := setupRuntime(cmd.Context())
	if err != nil {
		return err
	}

	s := &http.Server{
		Handler:           rt,
		Addr:              net.JoinHostPort(config.Service.Addr, config.Service.Port),
		ReadHeaderTimeout: config.Service.Timeout,
		ReadTimeout:       config.Service.Timeout,
		WriteTimeout:      config.Service.Timeout,
		IdleTimeout:       config.Service.Timeout,
	}

	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return errors.Wrapf(err, "failed to listen on %s", s.Addr)
	}
	return serve(cmd.Context(), s, ln)
}

// serve runs s on ln until ctx is cancelled, then drains in-flight requests.
func serve(ctx context.Context, s *http.Server, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Serving...", "address", ln.Addr().String(), "timeout", s.ReadTimeout.String())
		errCh <- s.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), config.Service.Timeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "failed to shut down server")
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
