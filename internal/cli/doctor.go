package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"toolpanel/internal/config"
	"toolpanel/internal/logx"
	"toolpanel/internal/paths"
	"toolpanel/internal/stream"
)

const probeTimeout = 3 * time.Second

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check config, widgets and the event source",
		RunE:  runDoctor,
	}
}

type healthCheck struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "ok", "warning", "error"
	Summary string `json:"summary"`
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	pp, cfg, cfgErr := loadProject()
	exists, err := paths.DirExists(pp.Root)
	if err != nil {
		return fmt.Errorf("stat project dir: %w", err)
	}
	if !exists {
		return fmt.Errorf("project directory does not exist: %s", pp.Root)
	}

	var checks []healthCheck

	checks = append(checks, checkConfig(pp, cfg, cfgErr))
	if cfgErr != nil {
		// Can't proceed with further checks without config
		return writeDoctorResult(cmd, pp.Root, checks)
	}

	checks = append(checks, checkWidgets(cfg))
	checks = append(checks, checkActions(cfg))

	src, err := buildSource(cfg, pp)
	if err != nil {
		checks = append(checks, healthCheck{Name: "Stream", Status: "error", Summary: err.Error()})
	} else {
		checks = append(checks, checkStream(ctx, src))
	}

	return writeDoctorResult(cmd, pp.Root, checks)
}

func checkConfig(pp paths.ProjectPaths, cfg config.Config, cfgErr error) healthCheck {
	if cfgErr != nil {
		return healthCheck{Name: "Config", Status: "error", Summary: cfgErr.Error()}
	}

	validations := cfg.ValidateStrict(pp.Root)
	var warnings, errors int
	for _, v := range validations {
		switch v.Level {
		case "warning":
			warnings++
		case "error":
			errors++
		}
	}

	summary := fmt.Sprintf("%d tools, event type %q", len(cfg.Tools), cfg.Stream.EventType)
	if errors > 0 {
		return healthCheck{Name: "Config", Status: "error", Summary: fmt.Sprintf("%s; %d errors", summary, errors)}
	}
	if warnings > 0 {
		return healthCheck{Name: "Config", Status: "warning", Summary: fmt.Sprintf("%s; %d warnings", summary, warnings)}
	}
	return healthCheck{Name: "Config", Status: "ok", Summary: summary}
}

func checkWidgets(cfg config.Config) healthCheck {
	rec, err := buildReconciler(cfg, logx.Discard())
	if err != nil {
		return healthCheck{Name: "Widgets", Status: "error", Summary: err.Error()}
	}

	var selectors int
	for _, w := range rec.Registry().Widgets() {
		if w.Selector != nil {
			selectors++
		}
	}
	return healthCheck{
		Name:    "Widgets",
		Status:  "ok",
		Summary: fmt.Sprintf("%d widgets, %d version selectors", rec.Registry().Len(), selectors),
	}
}

func checkActions(cfg config.Config) healthCheck {
	if cfg.Actions.BaseURL == "" {
		return healthCheck{Name: "Actions", Status: "warning", Summary: "no actions.base_url; panel is read-only"}
	}
	summary := cfg.Actions.BaseURL
	if len(cfg.Actions.Confirm) > 0 {
		summary += "; confirm " + joinComma(cfg.Actions.Confirm)
	}
	return healthCheck{Name: "Actions", Status: "ok", Summary: summary}
}

// checkStream opens the source briefly. A source that is still streaming
// when the probe times out is healthy.
func checkStream(ctx context.Context, src stream.Source) healthCheck {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	if r, ok := src.(*stream.RedisSource); ok {
		if err := r.Ping(ctx); err != nil {
			return healthCheck{Name: "Stream", Status: "error", Summary: err.Error()}
		}
		return healthCheck{Name: "Stream", Status: "ok", Summary: src.Describe()}
	}

	var events int
	if err := src.Stream(ctx, func(stream.Event) { events++ }); err != nil {
		return healthCheck{Name: "Stream", Status: "error", Summary: err.Error()}
	}
	summary := src.Describe()
	if events > 0 {
		summary = fmt.Sprintf("%s (%d events read)", summary, events)
	}
	return healthCheck{Name: "Stream", Status: "ok", Summary: summary}
}

func writeDoctorResult(cmd *cobra.Command, projectRoot string, checks []healthCheck) error {
	if outputJSON {
		data, err := json.MarshalIndent(checks, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	bold := lipgloss.NewStyle().Bold(true).Inline(true)
	green := lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Inline(true)
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Inline(true)
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Inline(true)

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, bold.Render("PANEL HEALTH:")+" "+projectRoot)

	for _, c := range checks {
		var statusStr string
		switch c.Status {
		case "ok":
			statusStr = green.Render("OK")
		case "warning":
			statusStr = yellow.Render("WARN")
		case "error":
			statusStr = red.Render("ERROR")
		}
		fmt.Fprintf(out, "  %-12s %s    %s\n", c.Name+":", statusStr, c.Summary)
	}

	return nil
}

func joinComma(items []string) string {
	if len(items) == 0 {
		return ""
	}
	result := items[0]
	for _, item := range items[1:] {
		result += ", " + item
	}
	return result
}
