package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"toolpanel/internal/config"
	"toolpanel/internal/logx"
	"toolpanel/internal/paths"
)

func TestResolveInitDir(t *testing.T) {
	t.Run("project flag takes precedence", func(t *testing.T) {
		dir, err := resolveInitDir("/custom/path", []string{"ignored"})
		if err != nil {
			t.Fatal(err)
		}
		if dir != "/custom/path" {
			t.Fatalf("got %s, want /custom/path", dir)
		}
	})

	t.Run("dot uses cwd", func(t *testing.T) {
		cwd, _ := os.Getwd()
		dir, err := resolveInitDir("", []string{"."})
		if err != nil {
			t.Fatal(err)
		}
		if dir != cwd {
			t.Fatalf("got %s, want %s", dir, cwd)
		}
	})

	t.Run("named arg creates subdirectory", func(t *testing.T) {
		cwd, _ := os.Getwd()
		dir, err := resolveInitDir("", []string{"my-panel"})
		if err != nil {
			t.Fatal(err)
		}
		want := filepath.Join(cwd, "my-panel")
		if dir != want {
			t.Fatalf("got %s, want %s", dir, want)
		}
	})
}

func TestInitWritesLoadableConfig(t *testing.T) {
	root := filepath.Join(t.TempDir(), "panel")
	projectDir = root
	t.Cleanup(func() { projectDir = "" })

	cmd := newInitCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatalf("init: %v", err)
	}

	cfg, err := config.Load(filepath.Join(root, "toolpanel.yaml"))
	if err != nil {
		t.Fatalf("load generated config: %v", err)
	}
	if _, ok := cfg.Tool("jupyter"); !ok {
		t.Fatal("sample tool missing from generated config")
	}
	if ok, _ := paths.FileExists(filepath.Join(root, ".env")); !ok {
		t.Fatal("expected .env template")
	}
	if !bytes.Contains(out.Bytes(), []byte("created toolpanel.yaml")) {
		t.Fatalf("unexpected output %q", out.String())
	}

	out.Reset()
	if err := cmd.RunE(cmd, nil); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(out.Bytes(), []byte("already initialized")) {
		t.Fatalf("second init should be a no-op, got %q", out.String())
	}
}

func TestEnsureConfigForce(t *testing.T) {
	pp, _ := paths.Resolve(t.TempDir())
	if err := os.WriteFile(pp.ConfigFile, []byte("tools: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var created []string
	if err := ensureConfig(pp, false, &created, logx.Discard()); err != nil {
		t.Fatal(err)
	}
	if len(created) != 0 {
		t.Fatalf("existing config should be kept, created=%v", created)
	}

	if err := ensureConfig(pp, true, &created, logx.Discard()); err != nil {
		t.Fatal(err)
	}
	cfg, err := config.Load(pp.ConfigFile)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Tools) != 1 {
		t.Fatalf("force should rewrite the sample config, got %d tools", len(cfg.Tools))
	}
}

func TestSampleConfigValidates(t *testing.T) {
	cfg := sampleConfig()
	results := cfg.ValidateStrict(t.TempDir())
	if config.HasErrors(results) {
		t.Fatalf("sample config has errors: %v", results)
	}
	if _, err := buildReconciler(cfg, logx.Discard()); err != nil {
		t.Fatalf("sample config does not build: %v", err)
	}
}
