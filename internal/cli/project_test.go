package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"toolpanel/internal/config"
	"toolpanel/internal/paths"
	"toolpanel/internal/stream"
	"toolpanel/internal/toolstatus"
)

func TestBuildRegistry(t *testing.T) {
	cfg := config.Default()
	cfg.Tools = []config.ToolConfig{
		{
			Name:      "jupyter",
			Title:     "JupyterLab",
			URL:       "http://localhost:8888",
			Versions:  []config.VersionConfig{{Value: "1.0"}, {Value: "2.1", Label: "2.1 (py3.11)"}},
			Installed: "1.0",
		},
		{Name: "airflow", Actions: []string{"open"}},
	}
	cfg.ApplyDefaults()

	reg, err := buildRegistry(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if reg.Len() != 2 {
		t.Fatalf("got %d widgets", reg.Len())
	}

	jupyter, _ := reg.Widget("jupyter")
	if jupyter.Title != "JupyterLab" || jupyter.URL != "http://localhost:8888" {
		t.Errorf("title/url not carried: %+v", jupyter)
	}
	if len(jupyter.Buttons) != 4 {
		t.Errorf("expected 4 buttons, got %d", len(jupyter.Buttons))
	}
	if opt, ok := jupyter.Selector.Installed(); !ok || opt.Value != "1.0" {
		t.Errorf("installed option = %+v", opt)
	}
	if jupyter.Selector.Options[1].Label != "2.1 (py3.11)" {
		t.Errorf("label = %q", jupyter.Selector.Options[1].Label)
	}

	airflow, _ := reg.Widget("airflow")
	if airflow.Selector != nil {
		t.Error("tool without versions should have no selector")
	}
	if len(airflow.Buttons) != 1 {
		t.Errorf("expected only the open button, got %d", len(airflow.Buttons))
	}
}

func TestBuildRegistryRejectsUnknownAction(t *testing.T) {
	cfg := config.Config{Tools: []config.ToolConfig{{Name: "jupyter", Actions: []string{"launch"}}}}
	if _, err := buildRegistry(cfg); !errors.Is(err, toolstatus.ErrUnknownAction) {
		t.Fatalf("got %v, want ErrUnknownAction", err)
	}
}

func TestBuildReconcilerPrimesWidgets(t *testing.T) {
	cfg := config.Default()
	cfg.Tools = []config.ToolConfig{{Name: "jupyter", Status: "READY", Versions: []config.VersionConfig{{Value: "1.0"}}, Installed: "1.0"}}
	cfg.ApplyDefaults()

	rec, err := buildReconciler(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	w, _ := rec.Registry().Widget("jupyter")
	if !w.Enabled(toolstatus.ActionOpen) {
		t.Error("READY widget should start with open enabled")
	}
	if w.Enabled(toolstatus.ActionDeploy) {
		t.Error("deploy should start disabled when the installed version is selected")
	}
}

func TestBuildSource(t *testing.T) {
	root := t.TempDir()
	pp, _ := paths.Resolve(root)

	cfg := config.Default()
	cfg.ApplyDefaults()
	src, err := buildSource(cfg, pp)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := src.(*stream.HTTPSource); !ok {
		t.Errorf("got %T, want HTTPSource", src)
	}

	cfg.Stream.Redis.Addr = "localhost:6380"
	src, _ = buildSource(cfg, pp)
	r, ok := src.(*stream.RedisSource)
	if !ok || r.Channel != "toolStatus" {
		t.Errorf("got %#v, want RedisSource on toolStatus", src)
	}

	cfg.Stream.File = "events.sse"
	src, _ = buildSource(cfg, paths.ApplyConfig(pp, cfg))
	f, ok := src.(*stream.FileSource)
	if !ok || f.Path != filepath.Join(root, "events.sse") {
		t.Errorf("got %#v, want FileSource under project root", src)
	}

	if _, err := buildSource(config.Config{}, pp); err == nil {
		t.Error("expected error without a source")
	}
}

func TestLoadProjectAppliesEnvFile(t *testing.T) {
	root := t.TempDir()
	projectDir = root
	t.Cleanup(func() { projectDir = "" })

	// Registered so the value loaded from .env is removed afterwards.
	t.Setenv(config.EnvActionsURL, "")
	os.Unsetenv(config.EnvActionsURL)

	if err := os.WriteFile(filepath.Join(root, ".env"), []byte(config.EnvActionsURL+"=http://panel.test/api\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "toolpanel.yaml"), []byte("tools:\n  - name: jupyter\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	pp, cfg, err := loadProject()
	if err != nil {
		t.Fatal(err)
	}
	if pp.Root != root {
		t.Errorf("root = %s", pp.Root)
	}
	if cfg.Actions.BaseURL != "http://panel.test/api" {
		t.Errorf("base url = %q", cfg.Actions.BaseURL)
	}
	if newActionClient(cfg) == nil {
		t.Error("expected an action client")
	}
}
