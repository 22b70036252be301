package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/abdul-hamid-achik/cukefmt/packages/formatter/snippet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAndLoadConfig_Defaults(t *testing.T) {
	cfg, err := FindAndLoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.True(t, cfg.IsDefault())
	assert.Equal(t, []string{"progress"}, cfg.Formats)
	assert.False(t, cfg.GetNoColor())
}

func TestFindAndLoadConfig_JSON(t *testing.T) {
	dir := t.TempDir()
	content := `{
  "formats": ["summary", "json:report.json"],
  "formatOptions": {"snippetInterface": "callback", "rerun": {"separator": " "}},
  "noColor": true
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".cukefmt.config.json"), []byte(content), 0644))

	cfg, err := FindAndLoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"summary", "json:report.json"}, cfg.Formats)
	assert.True(t, cfg.GetNoColor())
	assert.Equal(t, "warn", cfg.LogLevel)

	opts, err := cfg.ParsedFormatOptions()
	require.NoError(t, err)
	assert.Equal(t, snippet.Callback, opts.SnippetInterface)
	assert.Equal(t, " ", opts.Rerun.Separator)
}

func TestFindAndLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	content := `formats:
  - usage
formatOptions:
  printAttachments: false
  rerun:
    separator: ","
logLevel: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".cukefmt.yml"), []byte(content), 0644))

	cfg, err := FindAndLoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"usage"}, cfg.Formats)
	assert.Equal(t, "debug", cfg.LogLevel)

	opts, err := cfg.ParsedFormatOptions()
	require.NoError(t, err)
	assert.False(t, opts.GetPrintAttachments())
	assert.Equal(t, ",", opts.Rerun.Separator)
}

func TestFindAndLoadConfig_ExpandsEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CUKEFMT_TEST_REPORTS", "reports")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SEPARATOR=,\nCUKEFMT_TEST_REPORTS=ignored\n"), 0644))
	content := `formats:
  - json:${CUKEFMT_TEST_REPORTS}/run.json
cwd: ${CUKEFMT_TEST_CWD:-.}
formatOptions:
  rerun:
    separator: ${SEPARATOR}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".cukefmt.yml"), []byte(content), 0644))

	cfg, err := FindAndLoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"json:reports/run.json"}, cfg.Formats)
	assert.Equal(t, ".", cfg.Cwd)
	opts, err := cfg.ParsedFormatOptions()
	require.NoError(t, err)
	assert.Equal(t, ",", opts.Rerun.Separator)
}

func TestFindAndLoadConfig_UnsetVariable(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cukefmt.config.json"), []byte(`{"formats": ["json:${CUKEFMT_TEST_MISSING}"]}`), 0644))

	_, err := FindAndLoadConfig(dir)
	assert.ErrorContains(t, err, "CUKEFMT_TEST_MISSING is not set")
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestMerge(t *testing.T) {
	base := &Config{
		Formats:       []string{"progress"},
		FormatOptions: map[string]any{"snippetInterface": "promise", "colorsEnabled": true},
		NoColor:       BoolPtr(true),
	}
	other := &Config{
		Formats:       []string{"summary"},
		FormatOptions: map[string]any{"snippetInterface": "callback"},
		Cwd:           "/work",
	}

	merged := base.Merge(other)
	assert.Equal(t, []string{"summary"}, merged.Formats)
	assert.Equal(t, "/work", merged.Cwd)
	assert.True(t, merged.GetNoColor())
	assert.Equal(t, map[string]any{"snippetInterface": "callback", "colorsEnabled": true}, merged.FormatOptions)
	assert.Equal(t, "promise", base.FormatOptions["snippetInterface"])

	assert.Same(t, base, base.Merge(nil))
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	for _, name := range []string{"cukefmt.config.json", ".cukefmt.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			cfg := &Config{Formats: []string{"html:out.html"}, NoColor: BoolPtr(false)}
			require.NoError(t, cfg.SaveConfig(path))

			loaded, err := LoadConfig(path)
			require.NoError(t, err)
			assert.Equal(t, cfg.Formats, loaded.Formats)
			require.NotNil(t, loaded.NoColor)
			assert.False(t, *loaded.NoColor)
		})
	}
}

func TestParseFormatOptions(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{name: "empty", raw: ""},
		{name: "valid", raw: `{"colorsEnabled": true, "snippetInterface": "async-await"}`},
		{name: "unknown keys allowed", raw: `{"theme": "dark"}`},
		{name: "bad interface", raw: `{"snippetInterface": "coroutine"}`, wantErr: "snippetInterface"},
		{name: "bad colors type", raw: `{"colorsEnabled": "yes"}`, wantErr: "colorsEnabled"},
		{name: "bad rerun", raw: `{"rerun": {"sep": ","}}`, wantErr: "invalid format options"},
		{name: "not an object", raw: `[1]`, wantErr: "invalid format options"},
		{name: "malformed", raw: `{`, wantErr: "invalid format options"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFormatOptions([]byte(tt.raw))
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	opts, err := ParseFormatOptions([]byte(`{"colorsEnabled": true, "snippetSyntax": "./syntax.so"}`))
	require.NoError(t, err)
	assert.True(t, opts.ColorsEnabled)
	assert.Equal(t, "./syntax.so", opts.SnippetSyntax)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		value string
		want  Format
		err   bool
	}{
		{value: "progress", want: Format{Type: "progress"}},
		{value: "json:report.json", want: Format{Type: "json", Target: "report.json"}},
		{value: "./formatters/custom.so:out.txt", want: Format{Type: "./formatters/custom.so", Target: "out.txt"}},
		{value: `json:C:\reports\out.json`, want: Format{Type: "json", Target: `C:\reports\out.json`}},
		{value: `C:\formatters\custom.exe:out.txt`, want: Format{Type: `C:\formatters\custom.exe`, Target: "out.txt"}},
		{value: "file:///tmp/custom.so", want: Format{Type: "file:///tmp/custom.so"}},
		{value: "html:file:///tmp/report.html", want: Format{Type: "html", Target: "file:///tmp/report.html"}},
		{value: "", err: true},
		{value: "json:", err: true},
		{value: "a:b:c", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := ParseFormat(tt.value)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
