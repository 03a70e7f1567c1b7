package cli

import (
	"fmt"
	"log/slog"

	"toolpanel/internal/actions"
	"toolpanel/internal/config"
	"toolpanel/internal/paths"
	"toolpanel/internal/stream"
	"toolpanel/internal/toolstatus"
)

// loadProject resolves the project, loads .env and the YAML config, and
// applies environment overrides.
func loadProject() (paths.ProjectPaths, config.Config, error) {
	pp, err := paths.Resolve(projectDir)
	if err != nil {
		return paths.ProjectPaths{}, config.Config{}, err
	}
	if err := config.LoadEnvFile(pp.EnvFile); err != nil {
		return pp, config.Config{}, err
	}

	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		return pp, config.Config{}, err
	}
	if err := cfg.ApplyEnv(nil); err != nil {
		return pp, config.Config{}, err
	}
	cfg.ApplyDefaults()

	return paths.ApplyConfig(pp, cfg), cfg, nil
}

// buildRegistry turns the configured tools into panel widgets.
func buildRegistry(cfg config.Config) (*toolstatus.Registry, error) {
	widgets := make([]*toolstatus.Widget, 0, len(cfg.Tools))
	for _, tool := range cfg.Tools {
		acts := make([]toolstatus.Action, 0, len(tool.Actions))
		for _, name := range tool.Actions {
			a, err := toolstatus.ParseAction(name)
			if err != nil {
				return nil, fmt.Errorf("tool %q: %w", tool.Name, err)
			}
			acts = append(acts, a)
		}

		var sel *toolstatus.Selector
		if len(tool.Versions) > 0 {
			opts := make([]toolstatus.Option, len(tool.Versions))
			for i, v := range tool.Versions {
				opts[i] = toolstatus.Option{Value: v.Value, Label: v.Label}
			}
			sel = toolstatus.NewSelector(tool.Name, opts, tool.Installed, tool.Selected)
		}

		w := toolstatus.NewWidget(tool.Name, tool.Status, acts, sel)
		if tool.Title != "" {
			w.Title = tool.Title
		}
		w.URL = tool.URL
		widgets = append(widgets, w)
	}
	return toolstatus.NewRegistry(widgets...)
}

// buildReconciler builds and primes a reconciler for the configured tools.
func buildReconciler(cfg config.Config, logger *slog.Logger) (*toolstatus.Reconciler, error) {
	reg, err := buildRegistry(cfg)
	if err != nil {
		return nil, err
	}
	rec := toolstatus.NewReconciler(reg, toolstatus.Options{
		EventType: cfg.Stream.EventType,
		Logger:    logger,
	})
	if err := rec.Prime(); err != nil {
		return nil, err
	}
	return rec, nil
}

// buildSource returns the event source selected by the stream config.
func buildSource(cfg config.Config, pp paths.ProjectPaths) (stream.Source, error) {
	switch cfg.Stream.Kind() {
	case config.SourceFile:
		file := pp.StreamFile
		if file == "" {
			file = cfg.ResolveStreamFile(pp.Root)
		}
		return &stream.FileSource{Path: file, Follow: cfg.Stream.FollowValue()}, nil
	case config.SourceRedis:
		r := cfg.Stream.Redis
		return &stream.RedisSource{Addr: r.Addr, Password: r.Password, DB: r.DB, Channel: r.Channel}, nil
	case config.SourceHTTP:
		return &stream.HTTPSource{URL: cfg.Stream.URL, Token: cfg.Stream.Token}, nil
	}
	return nil, fmt.Errorf("no event source configured")
}

// newActionClient returns nil when no control-panel URL is configured.
func newActionClient(cfg config.Config) *actions.Client {
	if cfg.Actions.BaseURL == "" {
		return nil
	}
	return actions.NewClient(cfg.Actions.BaseURL, cfg.Actions.Token)
}
