package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/diwise/notion-sugar/internal/pkg/infrastructure/router"
	"github.com/diwise/notion-sugar/internal/pkg/presentation/api/records"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/spf13/cobra"
)

//go:embed default.rego
var defaultPolicy string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the records api over http",
	Long: `Serve exposes the configured databases over a json api at
/api/v0/databases/{database}, together with /health and /metrics.

Requests are authorized by the rego policy in OPA_POLICY_FILE. Without it
only reads are allowed.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logging.GetFromContext(ctx)

	policies, err := openPolicies(settings.PolicyPath)
	if err != nil {
		return err
	}
	defer policies.Close()

	r := router.New(appName, router.WithMetrics(appStats.Handler()))

	err = records.RegisterHandlers(ctx, r, policies, app)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + settings.ServicePort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("failed to shut down server", "err", err.Error())
		}
	}()

	log.Info("starting to listen for connections", "port", settings.ServicePort)

	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to listen for connections: %w", err)
	}

	return nil
}

func openPolicies(path string) (io.ReadCloser, error) {
	if path == "" {
		return io.NopCloser(strings.NewReader(defaultPolicy)), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open policies: %w", err)
	}

	return f, nil
}
