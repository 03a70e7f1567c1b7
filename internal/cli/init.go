package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"toolpanel/internal/config"
	"toolpanel/internal/logx"
	"toolpanel/internal/paths"
)

const envTemplate = `# Secrets and per-machine overrides for toolpanel.
# TOOLPANEL_STREAM_URL=http://localhost:8080/events
# TOOLPANEL_STREAM_TOKEN=
# TOOLPANEL_REDIS_ADDR=localhost:6379
# TOOLPANEL_ACTIONS_URL=http://localhost:8000/api
# TOOLPANEL_ACTIONS_TOKEN=
`

var initForce bool

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a toolpanel project",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runInit,
	}
	cmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing toolpanel.yaml")
	return cmd
}

func resolveInitDir(projectFlag string, args []string) (string, error) {
	if projectFlag != "" {
		return projectFlag, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}

	if len(args) > 0 {
		if args[0] == "." {
			return cwd, nil
		}
		return filepath.Join(cwd, args[0]), nil
	}
	return cwd, nil
}

func runInit(cmd *cobra.Command, args []string) error {
	dir, err := resolveInitDir(projectDir, args)
	if err != nil {
		return err
	}

	pp, err := paths.Resolve(dir)
	if err != nil {
		return err
	}

	if err := pp.EnsureRoot(); err != nil {
		return err
	}
	if err := pp.EnsureMetaDirs(); err != nil {
		return err
	}

	logger, closer, err := logx.New(pp, verbose)
	if err != nil {
		return err
	}
	defer closer.Close()
	logger.Info("toolpanel init", "project", pp.Root)

	created := make([]string, 0, 2)

	if err := ensureConfig(pp, initForce, &created, logger); err != nil {
		return err
	}
	if err := ensureEnvFile(pp, &created, logger); err != nil {
		return err
	}

	if len(created) == 0 {
		cmd.Printf("Project already initialized at %s\n", pp.Root)
		return nil
	}

	cmd.Printf("Initialized project at %s\n", pp.Root)
	for _, entry := range created {
		cmd.Printf("  created %s\n", entry)
	}
	return nil
}

// sampleConfig is the default config plus one example tool.
func sampleConfig() config.Config {
	cfg := config.Default()
	cfg.Tools = []config.ToolConfig{{
		Name:     "jupyter",
		Title:    "JupyterLab",
		URL:      "http://localhost:8888",
		Versions: []config.VersionConfig{{Value: "1.0"}, {Value: "2.1"}},
	}}
	cfg.ApplyDefaults()
	return cfg
}

func ensureConfig(pp paths.ProjectPaths, force bool, created *[]string, logger *slog.Logger) error {
	exists, err := paths.FileExists(pp.ConfigFile)
	if err != nil {
		return fmt.Errorf("check config: %w", err)
	}
	if exists && !force {
		logger.Info("config exists", "path", pp.ConfigFile)
		return nil
	}

	data, err := sampleConfig().Marshal()
	if err != nil {
		return err
	}

	if err := os.WriteFile(pp.ConfigFile, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	logger.Info("created config", "path", pp.ConfigFile)
	*created = append(*created, filepath.Base(pp.ConfigFile))
	return nil
}

func ensureEnvFile(pp paths.ProjectPaths, created *[]string, logger *slog.Logger) error {
	exists, err := paths.FileExists(pp.EnvFile)
	if err != nil {
		return fmt.Errorf("check env file: %w", err)
	}
	if exists {
		logger.Info("env file exists", "path", pp.EnvFile)
		return nil
	}

	if err := os.WriteFile(pp.EnvFile, []byte(envTemplate), 0o600); err != nil {
		return fmt.Errorf("write env file: %w", err)
	}
	logger.Info("created env file", "path", pp.EnvFile)
	*created = append(*created, filepath.Base(pp.EnvFile))
	return nil
}
