package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"toolpanel/internal/actions"
	"toolpanel/internal/config"
	"toolpanel/internal/confirm"
	"toolpanel/internal/toolstatus"
	"toolpanel/internal/tui"
)

var (
	actionVersion string
	actionYes     bool
)

func newActionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "action <tool> <deploy|open|restart|remove>",
		Short: "Run a single tool action against the control panel",
		Args:  cobra.ExactArgs(2),
		RunE:  runActionCmd,
	}
	cmd.Flags().StringVar(&actionVersion, "version", "", "Version to deploy")
	cmd.Flags().BoolVarP(&actionYes, "yes", "y", false, "Skip the confirmation prompt")
	return cmd
}

type actionResult struct {
	Tool    string `json:"tool"`
	Action  string `json:"action"`
	Version string `json:"version,omitempty"`
	URL     string `json:"url,omitempty"`
	Status  string `json:"status"` // "ok", "cancelled", "error"
	Error   string `json:"error,omitempty"`
}

func newPolicy(cfg config.Config) confirm.Policy {
	return confirm.NewPolicy(cfg.Actions.Confirm, cfg.Actions.ConfirmMessage)
}

func runActionCmd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	_, cfg, err := loadProject()
	if err != nil {
		return err
	}

	var guard confirm.Guard = confirm.Terminal{}
	if actionYes || outputJSON {
		guard = confirm.Always(actionYes)
	}

	var runner tui.ActionRunner
	if client := newActionClient(cfg); client != nil {
		runner = client
	}

	req := actionRequest{Tool: args[0], Action: args[1], Version: actionVersion}
	res, err := runAction(ctx, cfg, req, guard, runner, cmd.ErrOrStderr())
	return writeActionResult(cmd.OutOrStdout(), res, err)
}

type actionRequest struct {
	Tool    string
	Action  string
	Version string
}

// runAction validates the request against the config, asks for
// confirmation when the policy guards the action, and sends it.
func runAction(ctx context.Context, cfg config.Config, in actionRequest, guard confirm.Guard, runner tui.ActionRunner, status io.Writer) (actionResult, error) {
	res := actionResult{Tool: in.Tool, Action: in.Action, Version: in.Version}

	tool, ok := cfg.Tool(in.Tool)
	if !ok {
		return res, fmt.Errorf("%w: %s", toolstatus.ErrUnknownTool, in.Tool)
	}
	action, err := toolstatus.ParseAction(in.Action)
	if err != nil {
		return res, err
	}
	if !toolHasAction(tool, action) {
		return res, fmt.Errorf("tool %q has no %s action", tool.Name, action)
	}

	if action == toolstatus.ActionOpen {
		if tool.URL == "" {
			return res, fmt.Errorf("tool %q has no url", tool.Name)
		}
		res.URL = tool.URL
		res.Status = "ok"
		return res, nil
	}

	if in.Version != "" {
		if action != toolstatus.ActionDeploy {
			return res, fmt.Errorf("--version only applies to deploy")
		}
		if !toolHasVersion(tool, in.Version) {
			return res, fmt.Errorf("%w: %q for %s", toolstatus.ErrUnknownVersion, in.Version, tool.Name)
		}
	}

	approved, err := newPolicy(cfg).Check(guard, tool.Title, action)
	if err != nil {
		return res, err
	}
	if !approved {
		res.Status = "cancelled"
		return res, nil
	}

	if runner == nil {
		return res, actions.ErrNoEndpoint
	}

	var sw *tui.StatusWriter
	if status != nil && !outputJSON {
		sw = tui.NewStatusWriter(status)
		sw.Update(fmt.Sprintf("%s %s", action, tool.Title))
	}
	err = runner.Do(ctx, actions.Request{Tool: tool.Name, Action: action, Version: in.Version})
	if sw != nil {
		if err != nil {
			sw.Stop()
		} else {
			sw.Finish(fmt.Sprintf("%s %s requested", action, tool.Title))
		}
	}
	if err != nil {
		return res, err
	}
	res.Status = "ok"
	return res, nil
}

func writeActionResult(out io.Writer, res actionResult, err error) error {
	if !outputJSON {
		switch {
		case err != nil:
			return err
		case res.URL != "":
			fmt.Fprintln(out, res.URL)
		case res.Status == "cancelled":
			fmt.Fprintf(out, "%s %s cancelled\n", res.Action, res.Tool)
		}
		return nil
	}

	if err != nil {
		res.Status = "error"
		res.Error = err.Error()
	}
	data, mErr := json.MarshalIndent(res, "", "  ")
	if mErr != nil {
		return errors.Join(err, mErr)
	}
	fmt.Fprintln(out, string(data))
	return err
}

func toolHasAction(tool config.ToolConfig, action toolstatus.Action) bool {
	for _, name := range tool.Actions {
		if a, err := toolstatus.ParseAction(name); err == nil && a == action {
			return true
		}
	}
	return false
}

func toolHasVersion(tool config.ToolConfig, version string) bool {
	for _, v := range tool.Versions {
		if v.Value == version {
			return true
		}
	}
	return false
}
