package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"toolpanel/internal/logx"
	"toolpanel/internal/stream"
	"toolpanel/internal/toolstatus"
	"toolpanel/internal/tui"
)

var watchPlain bool

func newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Show the tool panel and apply status events as they arrive",
		RunE:  runWatch,
	}
	cmd.Flags().BoolVar(&watchPlain, "plain", false, "Print one line per status change instead of the interactive panel")
	return cmd
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pp, cfg, err := loadProject()
	if err != nil {
		return err
	}

	logger, closer, err := logx.New(pp, verbose)
	if err != nil {
		return err
	}
	defer closer.Close()

	rec, err := buildReconciler(cfg, logger)
	if err != nil {
		return err
	}
	src, err := buildSource(cfg, pp)
	if err != nil {
		return err
	}
	logger.Info("watch started", "source", src.Describe(), "tools", rec.Registry().Len(), "event_type", rec.EventType())

	mode := tui.DetectMode(cmd.OutOrStdout(), watchPlain, outputJSON)
	if mode != tui.ModeTUI {
		reporter := tui.NewLineReporter(cmd.OutOrStdout(), mode, cfg.InstalledSuffix)
		return runLineWatch(ctx, rec, src, reporter)
	}

	opts := tui.PanelOptions{
		Source:          src.Describe(),
		InstalledSuffix: cfg.InstalledSuffix,
		Policy:          newPolicy(cfg),
	}
	if client := newActionClient(cfg); client != nil {
		opts.Runner = client
	}
	return tui.RunPanel(ctx, cmd.OutOrStdout(), tui.NewPanelModel(rec, opts), src)
}

// runLineWatch reads src on a goroutine and applies events on the calling
// goroutine, which is the reconciler's only owner.
func runLineWatch(ctx context.Context, rec *toolstatus.Reconciler, src stream.Source, reporter *tui.LineReporter) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := reporter.Snapshot(rec.Registry()); err != nil {
		return err
	}

	events := make(chan stream.Event, 64)
	errc := make(chan error, 1)
	go func() {
		defer close(events)
		errc <- src.Stream(ctx, func(ev stream.Event) {
			select {
			case events <- ev:
			case <-ctx.Done():
			}
		})
	}()

	for ev := range events {
		res, err := rec.Handle(ev.Name, ev.Data)
		if err != nil {
			return err
		}
		if err := reporter.Report(res, rec.Registry()); err != nil {
			return err
		}
	}
	return <-errc
}
