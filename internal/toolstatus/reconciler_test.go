package toolstatus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWidget(tool string, versions []string, installed, selected string) *Widget {
	var sel *Selector
	if versions != nil {
		opts := make([]Option, len(versions))
		for i, v := range versions {
			opts[i] = Option{Value: v, Label: v}
		}
		sel = NewSelector(tool, opts, installed, selected)
	}
	return NewWidget(tool, "NOT DEPLOYED", AllActions, sel)
}

func newTestReconciler(t *testing.T, widgets ...*Widget) *Reconciler {
	t.Helper()
	reg, err := NewRegistry(widgets...)
	require.NoError(t, err)
	return NewReconciler(reg, Options{})
}

func statusPayload(tool, status, version string) []byte {
	if version == "" {
		return []byte(`{"toolName":"` + tool + `","status":"` + status + `"}`)
	}
	return []byte(`{"toolName":"` + tool + `","status":"` + status + `","version":"` + version + `"}`)
}

func setAll(w *Widget, disabled bool) {
	for _, b := range w.Buttons {
		b.Disabled = disabled
	}
}

func TestHandleProjectsKnownStatuses(t *testing.T) {
	tests := []struct {
		status string
		want   ActionSet
	}{
		{"NOT DEPLOYED", NewActionSet(ActionDeploy)},
		{"DEPLOYING", NewActionSet()},
		{"READY", NewActionSet(ActionDeploy, ActionOpen, ActionRestart, ActionRemove)},
		{"IDLED", NewActionSet(ActionDeploy, ActionOpen, ActionRestart, ActionRemove)},
		{"FAILED", NewActionSet(ActionDeploy, ActionRestart, ActionRemove)},
	}

	for _, tt := range tests {
		for _, initiallyDisabled := range []bool{true, false} {
			w := newTestWidget("jupyter", nil, "", "")
			setAll(w, initiallyDisabled)
			r := newTestReconciler(t, w)

			for i := 0; i < 2; i++ {
				res, err := r.Handle(DefaultEventType, statusPayload("jupyter", tt.status, ""))
				require.NoError(t, err)
				assert.Equal(t, OutcomeApplied, res.Outcome)
				assert.Equal(t, tt.want, w.EnabledActions(), "status %s, pass %d", tt.status, i)
				assert.Equal(t, tt.status, w.Label)
			}
		}
	}
}

func TestHandleUnknownStatusKeepsActions(t *testing.T) {
	w := newTestWidget("jupyter", nil, "", "")
	r := newTestReconciler(t, w)

	_, err := r.Handle(DefaultEventType, statusPayload("jupyter", "FAILED", ""))
	require.NoError(t, err)
	before := w.EnabledActions()

	res, err := r.Handle(DefaultEventType, statusPayload("jupyter", "Upgrading", ""))
	require.NoError(t, err)

	assert.Equal(t, OutcomeApplied, res.Outcome)
	assert.Equal(t, StatusUnknown, res.Status)
	assert.Equal(t, "Upgrading", w.Label)
	assert.Equal(t, before, w.EnabledActions())
}

func TestHandleReadyWithVersion(t *testing.T) {
	w := newTestWidget("jupyter", []string{"1.0", "2.1"}, "", "")
	r := newTestReconciler(t, w)
	require.NoError(t, r.Prime())

	opt, ok := w.Selector.SelectedOption()
	require.True(t, ok)
	require.Equal(t, OptionNotInstalled, opt.State)

	_, err := r.Handle(DefaultEventType, statusPayload("jupyter", "READY", "2.1"))
	require.NoError(t, err)

	assert.Equal(t, "READY", w.Label)
	assert.True(t, w.Enabled(ActionOpen))
	assert.True(t, w.Enabled(ActionRestart))
	assert.True(t, w.Enabled(ActionRemove))

	require.Len(t, w.Selector.Options, 2)
	for _, o := range w.Selector.Options {
		assert.NotEqual(t, OptionNotInstalled, o.State)
	}
	installed, ok := w.Selector.Installed()
	require.True(t, ok)
	assert.Equal(t, "2.1", installed.Value)
	assert.Equal(t, "2.1 (installed)", installed.Text(DefaultInstalledSuffix))

	// The sentinel was selected, so the selection fell to "1.0".
	opt, _ = w.Selector.SelectedOption()
	assert.Equal(t, "1.0", opt.Value)
	assert.True(t, w.Enabled(ActionDeploy))

	require.NoError(t, r.SelectVersion("jupyter", "2.1"))
	assert.False(t, w.Enabled(ActionDeploy))
}

func TestHandleStatusIsCaseInsensitive(t *testing.T) {
	w := newTestWidget("jupyter", nil, "", "")
	setAll(w, false)
	r := newTestReconciler(t, w)

	res, err := r.Handle(DefaultEventType, statusPayload("jupyter", "deploying", ""))
	require.NoError(t, err)

	assert.Equal(t, StatusDeploying, res.Status)
	assert.Equal(t, "deploying", w.Label)
	assert.Equal(t, NewActionSet(), w.EnabledActions())
}

func TestHandleUnmatchedToolLeavesWidgetsAlone(t *testing.T) {
	w := newTestWidget("jupyter", []string{"1.0"}, "", "")
	r := newTestReconciler(t, w)
	before := w.Snapshot()

	res, err := r.Handle(DefaultEventType, statusPayload("rstudio", "READY", "1.0"))
	require.NoError(t, err)

	assert.Equal(t, OutcomeUnmatched, res.Outcome)
	assert.Equal(t, before, w.Snapshot())
}

func TestHandleMalformedPayloadDoesNotStopLaterEvents(t *testing.T) {
	w := newTestWidget("jupyter", nil, "", "")
	r := newTestReconciler(t, w)

	for _, payload := range []string{`{"toolName":`, `not json`, `[]`, `{"toolName":"jupyter"}`, `{"toolName":1,"status":"READY"}`} {
		res, err := r.Handle(DefaultEventType, []byte(payload))
		require.NoError(t, err, payload)
		assert.Equal(t, OutcomeDropped, res.Outcome, payload)
	}
	assert.Equal(t, "NOT DEPLOYED", w.Label)

	res, err := r.Handle(DefaultEventType, statusPayload("jupyter", "FAILED", ""))
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, res.Outcome)
	assert.Equal(t, "FAILED", w.Label)
}

func TestHandleIgnoresOtherEventTypes(t *testing.T) {
	w := newTestWidget("jupyter", nil, "", "")
	r := newTestReconciler(t, w)

	res, err := r.Handle("message", statusPayload("jupyter", "READY", ""))
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, res.Outcome)
	assert.Equal(t, "NOT DEPLOYED", w.Label)
}

func TestReconcileVersionMovesInstalledMarker(t *testing.T) {
	w := newTestWidget("rstudio", []string{"1.0", "2.1", "3.0"}, "1.0", "")
	r := newTestReconciler(t, w)

	require.NoError(t, r.ReconcileVersion(w, "2.1"))

	var installed []string
	for _, o := range w.Selector.Options {
		if o.State == OptionInstalled {
			installed = append(installed, o.Value)
		}
	}
	assert.Equal(t, []string{"2.1"}, installed)
	assert.Equal(t, "1.0", w.Selector.Options[0].Text(DefaultInstalledSuffix))

	// "1.0" stays selected and is a plain version again.
	opt, _ := w.Selector.SelectedOption()
	assert.Equal(t, "1.0", opt.Value)
	assert.True(t, w.Enabled(ActionDeploy))
}

func TestReconcileVersionUnknownVersion(t *testing.T) {
	w := newTestWidget("rstudio", []string{"1.0", "2.1"}, "", "")
	r := newTestReconciler(t, w)
	w.Selector.Options[1].State = OptionInstalled

	require.NoError(t, r.ReconcileVersion(w, "9.9"))

	require.Len(t, w.Selector.Options, 2)
	_, ok := w.Selector.Installed()
	assert.False(t, ok)
}

func TestReconcileVersionEmptyKeepsOptions(t *testing.T) {
	w := newTestWidget("rstudio", []string{"1.0"}, "", "")
	r := newTestReconciler(t, w)
	require.NoError(t, r.Prime())
	before := w.Snapshot()

	require.NoError(t, r.ReconcileVersion(w, ""))
	assert.Equal(t, before, w.Snapshot())

	_, err := r.Handle(DefaultEventType, statusPayload("rstudio", "IDLED", ""))
	require.NoError(t, err)
	assert.Len(t, w.Selector.Options, 2)
}

func TestHandleReadyWithoutVersionKeepsDeployConsistent(t *testing.T) {
	tests := []struct {
		name      string
		installed string
		selected  string
		deploy    bool
	}{
		{"not installed selected", "", "", false},
		{"installed selected", "2.1", "", false},
		{"other version selected", "2.1", "1.0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWidget("jupyter", []string{"1.0", "2.1"}, tt.installed, tt.selected)
			r := newTestReconciler(t, w)
			require.NoError(t, r.Prime())

			for _, status := range []string{"READY", "IDLED"} {
				res, err := r.Handle(DefaultEventType, statusPayload("jupyter", status, ""))
				require.NoError(t, err)
				assert.Equal(t, OutcomeApplied, res.Outcome)
				assert.Equal(t, tt.deploy, w.Enabled(ActionDeploy), status)
				assert.True(t, w.Enabled(ActionOpen), status)
			}
		})
	}
}

func TestHandleVersionKeepsSelectionAfterSentinel(t *testing.T) {
	w := newTestWidget("jupyter", []string{"1.0", "2.1"}, "", "2.1")
	r := newTestReconciler(t, w)
	require.NoError(t, r.Prime())
	require.Equal(t, 2, w.Selector.Selected)

	_, err := r.Handle(DefaultEventType, statusPayload("jupyter", "READY", "1.0"))
	require.NoError(t, err)

	require.Len(t, w.Selector.Options, 2)
	opt, ok := w.Selector.SelectedOption()
	require.True(t, ok)
	assert.Equal(t, "2.1", opt.Value)
	assert.Equal(t, OptionPlain, opt.State)
	assert.True(t, w.Enabled(ActionDeploy))

	installed, ok := w.Selector.Installed()
	require.True(t, ok)
	assert.Equal(t, "1.0", installed.Value)
}

func TestSelectionChangedDeployEnablement(t *testing.T) {
	tests := []struct {
		name     string
		selected int
		state    OptionState
		disabled bool
	}{
		{"plain", 1, OptionPlain, false},
		{"installed", 1, OptionInstalled, true},
		{"not installed", 0, OptionNotInstalled, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newTestWidget("jupyter", []string{"1.0"}, "", "")
			r := newTestReconciler(t, w)
			w.Selector.Selected = tt.selected
			w.Selector.Options[tt.selected].State = tt.state

			require.NoError(t, r.SelectionChanged(w.Selector))
			deploy, ok := w.Button(ActionDeploy)
			require.True(t, ok)
			assert.Equal(t, tt.disabled, deploy.Disabled)
		})
	}
}

func TestSelectionChangedEmptySelectorDisablesDeploy(t *testing.T) {
	w := newTestWidget("jupyter", []string{}, "", "")
	r := newTestReconciler(t, w)
	w.Selector.removeNotInstalled()
	setAll(w, false)

	require.NoError(t, r.SelectionChanged(w.Selector))
	assert.False(t, w.Enabled(ActionDeploy))
}

func TestSelectionChangedMissingDeployButton(t *testing.T) {
	sel := NewSelector("jupyter", []Option{{Value: "1.0"}}, "", "")
	w := NewWidget("jupyter", "READY", []Action{ActionOpen}, sel)
	r := newTestReconciler(t, w)

	err := r.SelectionChanged(sel)
	require.ErrorIs(t, err, ErrDeployButtonMissing)

	_, err = r.Handle(DefaultEventType, statusPayload("jupyter", "READY", "1.0"))
	require.ErrorIs(t, err, ErrDeployButtonMissing)

	require.ErrorIs(t, r.Prime(), ErrDeployButtonMissing)
}

func TestSelectVersionErrors(t *testing.T) {
	w := newTestWidget("jupyter", []string{"1.0"}, "", "")
	plain := newTestWidget("airflow", nil, "", "")
	r := newTestReconciler(t, w, plain)

	assert.ErrorIs(t, r.SelectVersion("missing", "1.0"), ErrUnknownTool)
	assert.ErrorIs(t, r.SelectVersion("airflow", "1.0"), ErrNoSelector)
	assert.ErrorIs(t, r.SelectVersion("jupyter", "2.0"), ErrUnknownVersion)
}

func TestStepVersion(t *testing.T) {
	w := newTestWidget("jupyter", []string{"1.0", "2.1"}, "2.1", "")
	r := newTestReconciler(t, w)
	require.NoError(t, r.Prime())
	assert.False(t, w.Enabled(ActionDeploy))

	moved, err := r.StepVersion("jupyter", -1)
	require.NoError(t, err)
	assert.True(t, moved)
	assert.True(t, w.Enabled(ActionDeploy))

	moved, err = r.StepVersion("jupyter", -1)
	require.NoError(t, err)
	assert.False(t, moved)
}

func TestPrimeUsesInitialLabel(t *testing.T) {
	w := newTestWidget("jupyter", nil, "", "")
	w.Label = "failed"
	r := newTestReconciler(t, w)

	require.NoError(t, r.Prime())
	assert.Equal(t, NewActionSet(ActionDeploy, ActionRestart, ActionRemove), w.EnabledActions())
}

func TestNewRegistryRejectsDuplicates(t *testing.T) {
	_, err := NewRegistry(newTestWidget("jupyter", nil, "", ""), newTestWidget("jupyter", nil, "", ""))
	require.ErrorIs(t, err, ErrDuplicateTool)
}

func TestHandleNumericVersionMatchesOption(t *testing.T) {
	w := newTestWidget("jupyter", []string{"1.0", "2.1"}, "", "")
	r := newTestReconciler(t, w)
	require.NoError(t, r.Prime())

	_, err := r.Handle(DefaultEventType, []byte(`{"toolName":"jupyter","status":"READY","version":2.10}`))
	require.NoError(t, err)

	installed, ok := w.Selector.Installed()
	require.True(t, ok)
	assert.Equal(t, "2.1", installed.Value)
}
