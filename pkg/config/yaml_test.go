package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSeverity(t *testing.T) {
	tests := []struct {
		name    string
		input   any
		want    Severity
		wantErr bool
	}{
		{name: "string off", input: "off", want: SeverityOff},
		{name: "string warning", input: "warning", want: SeverityWarning},
		{name: "string error", input: "error", want: SeverityError},
		{name: "mixed case", input: "Error", want: SeverityError},
		{name: "numeric zero", input: 0, want: SeverityOff},
		{name: "numeric one", input: 1, want: SeverityWarning},
		{name: "numeric two", input: 2, want: SeverityError},
		{name: "float from yaml", input: float64(2), want: SeverityError},
		{name: "unknown string", input: "fatal", wantErr: true},
		{name: "out of range number", input: 3, wantErr: true},
		{name: "wrong type", input: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSeverity(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseYAMLRuleSettings(t *testing.T) {
	data := []byte(`
rules:
  if-closed: error
  no-short-rules:
    - warning
    - min_length: 6
  single-selector: 0
`)

	cfg, err := ParseYAML(data)
	require.NoError(t, err)

	ifClosed, ok := cfg.Setting("if-closed")
	require.True(t, ok)
	assert.Equal(t, SeverityError, ifClosed.Severity)
	assert.Empty(t, ifClosed.Options)

	short, ok := cfg.Setting("no-short-rules")
	require.True(t, ok)
	assert.Equal(t, SeverityWarning, short.Severity)
	require.Len(t, short.Options, 1)

	opts, ok := short.Options[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 6, opts["min_length"])

	single, ok := cfg.Setting("single-selector")
	require.True(t, ok)
	assert.Equal(t, SeverityOff, single.Severity)
}

func TestParseYAMLRejectsBadSetting(t *testing.T) {
	_, err := ParseYAML([]byte("rules:\n  if-closed: {bogus: true}\n"))
	require.Error(t, err)
}

func TestParseYAMLDefaults(t *testing.T) {
	cfg, err := ParseYAML([]byte(""))
	require.NoError(t, err)
	assert.True(t, cfg.AllowInlineConfig)
	assert.NotNil(t, cfg.Rules)
}

func TestDefaultTemplateParses(t *testing.T) {
	cfg, err := ParseYAML([]byte(DefaultTemplate))
	require.NoError(t, err)
	assert.NotEmpty(t, cfg.Rules)
}

func TestRuleSettingRoundTrip(t *testing.T) {
	cfg := NewConfig()
	cfg.Rules["no-short-rules"] = RuleSetting{
		Severity: SeverityWarning,
		Options:  []any{map[string]any{"min_length": 4}},
	}
	cfg.Rules["if-closed"] = RuleSetting{Severity: SeverityError}

	out, err := cfg.ToYAML()
	require.NoError(t, err)

	back, err := ParseYAML(out)
	require.NoError(t, err)
	assert.Equal(t, cfg.Rules["if-closed"].Severity, back.Rules["if-closed"].Severity)
	assert.Len(t, back.Rules["no-short-rules"].Options, 1)
}
