package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"toolpanel/internal/logx"
	"toolpanel/internal/stream"
	"toolpanel/internal/toolstatus"
	"toolpanel/internal/tui"
)

var statusReplay string

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show each widget's state, optionally after replaying a recorded stream",
		RunE:  runStatus,
	}
	cmd.Flags().StringVar(&statusReplay, "replay", "", "Recorded event stream file to apply first")
	return cmd
}

func runStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pp, cfg, err := loadProject()
	if err != nil {
		return err
	}

	rec, err := buildReconciler(cfg, logx.Discard())
	if err != nil {
		return err
	}

	var counts tui.Counts
	if statusReplay != "" {
		path := statusReplay
		if !filepath.IsAbs(path) {
			path = filepath.Join(pp.Root, path)
		}
		counts, err = replay(ctx, rec, &stream.FileSource{Path: path})
		if err != nil {
			return err
		}
	}

	if outputJSON {
		return writeStatusJSON(cmd.OutOrStdout(), pp.Root, rec.Registry(), counts)
	}
	writeStatusTable(cmd.OutOrStdout(), pp.Root, rec.Registry(), cfg.InstalledSuffix)
	if statusReplay != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "\nReplayed %d applied, %d dropped, %d unmatched, %d ignored\n",
			counts.Applied, counts.Dropped, counts.Unmatched, counts.Ignored)
	}
	return nil
}

// replay applies every event of src in order and tallies the outcomes.
func replay(ctx context.Context, rec *toolstatus.Reconciler, src stream.Source) (tui.Counts, error) {
	var (
		counts   tui.Counts
		applyErr error
	)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	err := src.Stream(ctx, func(ev stream.Event) {
		if applyErr != nil {
			return
		}
		res, err := rec.Handle(ev.Name, ev.Data)
		if err != nil {
			applyErr = err
			cancel()
			return
		}
		counts.Add(res.Outcome)
	})
	if applyErr != nil {
		return counts, applyErr
	}
	return counts, err
}

func writeStatusTable(out io.Writer, projectName string, reg *toolstatus.Registry, suffix string) {
	fmt.Fprintf(out, "Project: %s\n", projectName)

	w := tabwriter.NewWriter(out, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "TOOL\tTITLE\tSTATUS\tACTIONS\tVERSION")
	for _, widget := range reg.Widgets() {
		version := "-"
		if widget.Selector != nil {
			if opt, ok := widget.Selector.SelectedOption(); ok {
				version = opt.Text(suffix)
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			widget.Tool,
			widget.Title,
			tui.NonEmptyOrDash(widget.Label),
			widget.EnabledActions(),
			version,
		)
	}
	w.Flush()
}

type statusJSONRow struct {
	Tool      string   `json:"tool"`
	Title     string   `json:"title"`
	Status    string   `json:"status"`
	Actions   []string `json:"actions"`
	Versions  []string `json:"versions,omitempty"`
	Selected  string   `json:"selected,omitempty"`
	Installed string   `json:"installed,omitempty"`
}

func writeStatusJSON(out io.Writer, projectName string, reg *toolstatus.Registry, counts tui.Counts) error {
	payload := struct {
		Project string          `json:"project"`
		Rows    []statusJSONRow `json:"rows"`
		Replay  tui.Counts      `json:"replay"`
	}{
		Project: projectName,
		Rows:    make([]statusJSONRow, 0, reg.Len()),
		Replay:  counts,
	}

	for _, widget := range reg.Widgets() {
		row := statusJSONRow{
			Tool:    widget.Tool,
			Title:   widget.Title,
			Status:  widget.Label,
			Actions: []string{},
		}
		for _, a := range widget.EnabledActions().Actions() {
			row.Actions = append(row.Actions, string(a))
		}
		if sel := widget.Selector; sel != nil {
			for _, opt := range sel.Options {
				if opt.State != toolstatus.OptionNotInstalled {
					row.Versions = append(row.Versions, opt.Value)
				}
			}
			if opt, ok := sel.SelectedOption(); ok {
				row.Selected = opt.Value
			}
			if opt, ok := sel.Installed(); ok {
				row.Installed = opt.Value
			}
		}
		payload.Rows = append(payload.Rows, row)
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode status json: %w", err)
	}
	fmt.Fprintln(out, string(data))
	return nil
}
