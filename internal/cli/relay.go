package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"toolpanel/internal/logx"
	"toolpanel/internal/relay"
)

var (
	relayAddr      string
	relayRateLimit int
	relayBuffer    int
)

func newRelayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "relay",
		Short: "Serve a status event bus that publishers POST to and panels subscribe to",
		RunE:  runRelay,
	}
	cmd.Flags().StringVar(&relayAddr, "addr", ":8080", "Listen address")
	cmd.Flags().IntVar(&relayRateLimit, "rate-limit", 600, "Publish requests allowed per client IP per minute")
	cmd.Flags().IntVar(&relayBuffer, "buffer", 64, "Events buffered per subscriber before drops")
	return cmd
}

func runRelay(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, cfg, err := loadProject()
	if err != nil {
		return err
	}

	logger := logx.NewConsole(cmd.ErrOrStderr(), verbose)
	srv := relay.New(relay.Options{
		EventType: cfg.Stream.EventType,
		RateLimit: relayRateLimit,
		Buffer:    relayBuffer,
		Logger:    logger,
	})
	return srv.ListenAndServe(ctx, relayAddr)
}
