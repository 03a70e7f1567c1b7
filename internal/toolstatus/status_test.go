package toolstatus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		raw  string
		want Status
	}{
		{"NOT DEPLOYED", StatusNotDeployed},
		{"Not Deployed", StatusNotDeployed},
		{"deploying", StatusDeploying},
		{"Ready", StatusReady},
		{"IDLED", StatusIdled},
		{"failed", StatusFailed},
		{"READY ", StatusUnknown},
		{"NOT_DEPLOYED", StatusUnknown},
		{"", StatusUnknown},
		{"UNKNOWN", StatusUnknown},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseStatus(tt.raw), "ParseStatus(%q)", tt.raw)
	}
}

func TestStatusActions(t *testing.T) {
	_, ok := StatusUnknown.Actions()
	assert.False(t, ok)

	set, ok := StatusDeploying.Actions()
	require.True(t, ok)
	assert.Empty(t, set.Actions())
	assert.Equal(t, "(none)", set.String())

	set, ok = StatusFailed.Actions()
	require.True(t, ok)
	assert.Equal(t, "deploy,restart,remove", set.String())

	assert.True(t, StatusReady.ReportsVersion())
	assert.True(t, StatusIdled.ReportsVersion())
	assert.False(t, StatusFailed.ReportsVersion())
}

func TestParseAction(t *testing.T) {
	a, err := ParseAction(" Restart ")
	require.NoError(t, err)
	assert.Equal(t, ActionRestart, a)

	_, err = ParseAction("cancel")
	assert.ErrorIs(t, err, ErrUnknownAction)
	assert.False(t, NewActionSet(ActionDeploy).Has(Action("cancel")))
}

func TestDecodeEvent(t *testing.T) {
	ev, err := DecodeEvent([]byte(`{"toolName":"jupyter","status":"READY","version":"2.1","extra":true}`))
	require.NoError(t, err)
	assert.Equal(t, Event{ToolName: "jupyter", Status: "READY", Version: "2.1"}, ev)

	ev, err = DecodeEvent([]byte(`{"toolName":"jupyter","status":"READY","version":3}`))
	require.NoError(t, err)
	assert.Equal(t, "3", ev.Version)

	for _, raw := range []string{`2.1`, `2.10`, `2.1e0`, `21e-1`} {
		ev, err = DecodeEvent([]byte(`{"toolName":"jupyter","status":"READY","version":` + raw + `}`))
		require.NoError(t, err)
		assert.Equal(t, "2.1", ev.Version, raw)
	}

	ev, err = DecodeEvent([]byte(`{"toolName":"jupyter","status":"DEPLOYING","version":null}`))
	require.NoError(t, err)
	assert.Empty(t, ev.Version)

	for _, bad := range []string{``, `{`, `"READY"`, `{"status":"READY"}`, `{"toolName":"x","status":false}`} {
		_, err := DecodeEvent([]byte(bad))
		assert.ErrorIs(t, err, errMalformedEvent, bad)
	}
}

func TestNewSelector(t *testing.T) {
	versions := []Option{{Value: "1.0"}, {Value: "2.1", Label: "2.1 (lts)"}}

	sel := NewSelector("jupyter", versions, "", "")
	require.Len(t, sel.Options, 3)
	assert.Equal(t, OptionNotInstalled, sel.Options[0].State)
	assert.Equal(t, NotInstalledLabel, sel.Options[0].Text(DefaultInstalledSuffix))
	assert.Equal(t, 0, sel.Selected)
	assert.Equal(t, "1.0", sel.Options[1].Label)

	sel = NewSelector("jupyter", versions, "2.1", "")
	require.Len(t, sel.Options, 2)
	assert.Equal(t, 1, sel.Selected)
	assert.Equal(t, "2.1 (lts) (installed)", sel.Options[1].Text(DefaultInstalledSuffix))

	sel = NewSelector("jupyter", versions, "2.1", "1.0")
	assert.Equal(t, 0, sel.Selected)
}

func TestRemoveNotInstalledKeepsSelection(t *testing.T) {
	sel := NewSelector("jupyter", []Option{{Value: "1.0"}, {Value: "2.1"}}, "", "2.1")
	require.Equal(t, 2, sel.Selected)

	assert.True(t, sel.removeNotInstalled())
	opt, ok := sel.SelectedOption()
	require.True(t, ok)
	assert.Equal(t, "2.1", opt.Value)
	assert.False(t, sel.removeNotInstalled())
}
