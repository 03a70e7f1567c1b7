package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ValidationResult captures a single validation finding.
type ValidationResult struct {
	Level   string `json:"level"` // "error" or "warning"
	Message string `json:"message"`
}

var (
	knownActions  = []string{"deploy", "open", "restart", "remove"}
	knownStatuses = []string{"NOT DEPLOYED", "DEPLOYING", "READY", "IDLED", "FAILED"}
)

// ValidateStrict runs all strict validations against the config and returns
// structured results. Relative stream files resolve against projectRoot.
func (c Config) ValidateStrict(projectRoot string) []ValidationResult {
	var results []ValidationResult
	results = append(results, c.validateStream(projectRoot)...)
	results = append(results, c.validateActions()...)
	results = append(results, c.validateTools()...)
	return results
}

// HasErrors reports whether any result is an error.
func HasErrors(results []ValidationResult) bool {
	for _, r := range results {
		if r.Level == "error" {
			return true
		}
	}
	return false
}

func (c Config) validateStream(projectRoot string) []ValidationResult {
	var results []ValidationResult
	if strings.TrimSpace(c.Stream.EventType) == "" {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: "stream event_type is required",
		})
	}

	switch c.Stream.Kind() {
	case "":
		results = append(results, ValidationResult{
			Level:   "error",
			Message: "no event source configured (set stream.url, stream.redis.addr or stream.file)",
		})
	case SourceFile:
		resolved := resolveExternalPath(projectRoot, c.Stream.File)
		if _, err := os.Stat(resolved); err != nil {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("stream file %q not found", c.Stream.File),
			})
		}
	case SourceHTTP:
		if !strings.HasPrefix(c.Stream.URL, "http://") && !strings.HasPrefix(c.Stream.URL, "https://") {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("stream url %q must be http or https", c.Stream.URL),
			})
		}
	}
	return results
}

func (c Config) validateActions() []ValidationResult {
	var results []ValidationResult
	if strings.TrimSpace(c.Actions.BaseURL) == "" {
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: "actions.base_url is not set; deploy, restart and remove are unavailable",
		})
	}
	for _, name := range c.Actions.Confirm {
		if !containsFold(knownActions, name) {
			results = append(results, ValidationResult{
				Level:   "warning",
				Message: fmt.Sprintf("actions.confirm lists unknown action %q", name),
			})
		}
	}
	return results
}

func (c Config) validateTools() []ValidationResult {
	var results []ValidationResult
	if len(c.Tools) == 0 {
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: "no tools configured",
		})
	}

	seen := make(map[string]bool, len(c.Tools))
	for i, tool := range c.Tools {
		name := strings.TrimSpace(tool.Name)
		if name == "" {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("tools[%d]: name is required", i),
			})
			continue
		}
		if seen[name] {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("tool %q is defined more than once", name),
			})
		}
		seen[name] = true

		hasDeploy := false
		for _, a := range tool.Actions {
			if !containsFold(knownActions, a) {
				results = append(results, ValidationResult{
					Level:   "error",
					Message: fmt.Sprintf("tool %q: unknown action %q", name, a),
				})
			}
			if strings.EqualFold(a, "deploy") {
				hasDeploy = true
			}
		}

		if tool.Status != "" && !containsFold(knownStatuses, tool.Status) {
			results = append(results, ValidationResult{
				Level:   "warning",
				Message: fmt.Sprintf("tool %q: initial status %q has no defined actions", name, tool.Status),
			})
		}

		results = append(results, validateVersions(name, tool, hasDeploy)...)
	}
	return results
}

func validateVersions(name string, tool ToolConfig, hasDeploy bool) []ValidationResult {
	if len(tool.Versions) == 0 {
		if tool.Installed != "" || tool.Selected != "" {
			return []ValidationResult{{
				Level:   "warning",
				Message: fmt.Sprintf("tool %q: installed/selected set but no versions listed", name),
			}}
		}
		return nil
	}

	var results []ValidationResult
	if !hasDeploy {
		results = append(results, ValidationResult{
			Level:   "error",
			Message: fmt.Sprintf("tool %q: version selector requires a deploy action", name),
		})
	}

	values := make(map[string]bool, len(tool.Versions))
	for _, v := range tool.Versions {
		if strings.TrimSpace(v.Value) == "" {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("tool %q: version value is required", name),
			})
			continue
		}
		if values[v.Value] {
			results = append(results, ValidationResult{
				Level:   "error",
				Message: fmt.Sprintf("tool %q: version %q listed twice", name, v.Value),
			})
		}
		values[v.Value] = true
	}

	if tool.Installed != "" && !values[tool.Installed] {
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: fmt.Sprintf("tool %q: installed version %q is not in versions", name, tool.Installed),
		})
	}
	if tool.Selected != "" && !values[tool.Selected] {
		results = append(results, ValidationResult{
			Level:   "warning",
			Message: fmt.Sprintf("tool %q: selected version %q is not in versions", name, tool.Selected),
		})
	}
	return results
}

func containsFold(list []string, value string) bool {
	for _, item := range list {
		if strings.EqualFold(item, strings.TrimSpace(value)) {
			return true
		}
	}
	return false
}

// ResolveStreamFile returns the stream file path resolved against projectRoot.
func (c Config) ResolveStreamFile(projectRoot string) string {
	if c.Stream.File == "" {
		return ""
	}
	return resolveExternalPath(projectRoot, filepath.Clean(c.Stream.File))
}
