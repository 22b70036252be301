package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abdul-hamid-achik/cukefmt/packages/core/config"
	"github.com/abdul-hamid-achik/cukefmt/packages/core/events"
	"github.com/abdul-hamid-achik/cukefmt/packages/formatter"
	"github.com/abdul-hamid-achik/cukefmt/packages/formatter/builder"
	"github.com/abdul-hamid-achik/cukefmt/packages/formatter/snippet"
	"github.com/abdul-hamid-achik/cukefmt/packages/plugin"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func failingRun() []*events.Envelope {
	return []*events.Envelope{
		{Meta: &events.Meta{ProtocolVersion: "24.0.0"}},
		{Pickle: &events.Pickle{ID: "p1", URI: "features/a.feature", Name: "passes", Line: 3,
			Steps: []events.PickleStep{{ID: "s1", Text: "I have 5 cukes", Type: events.KeywordContext}}}},
		{Pickle: &events.Pickle{ID: "p2", URI: "features/a.feature", Name: "fails", Line: 7,
			Steps: []events.PickleStep{{ID: "s2", Text: "I eat 3 cukes", Type: events.KeywordAction}}}},
		{StepDefinition: &events.StepDefinition{ID: "sd1", Pattern: "I have {int} cukes", URI: "steps.go", Line: 3}},
		{TestRunStarted: &events.TestRunStarted{}},
		{TestCase: &events.TestCase{ID: "tc1", PickleID: "p1", TestSteps: []events.TestStep{{ID: "ts1", PickleStepID: "s1", StepDefinitionIDs: []string{"sd1"}}}}},
		{TestCase: &events.TestCase{ID: "tc2", PickleID: "p2", TestSteps: []events.TestStep{{ID: "ts2", PickleStepID: "s2"}}}},
		{TestCaseStarted: &events.TestCaseStarted{ID: "tcs1", TestCaseID: "tc1"}},
		{TestStepFinished: &events.TestStepFinished{TestCaseStartedID: "tcs1", TestStepID: "ts1", Result: events.TestStepResult{Status: events.StatusPassed}}},
		{TestCaseFinished: &events.TestCaseFinished{TestCaseStartedID: "tcs1"}},
		{TestCaseStarted: &events.TestCaseStarted{ID: "tcs2", TestCaseID: "tc2"}},
		{TestStepFinished: &events.TestStepFinished{TestCaseStartedID: "tcs2", TestStepID: "ts2", Result: events.TestStepResult{Status: events.StatusFailed, Message: "boom"}}},
		{TestCaseFinished: &events.TestCaseFinished{TestCaseStartedID: "tcs2"}},
		{TestRunFinished: &events.TestRunFinished{Success: false}},
	}
}

func writeMessages(t *testing.T, dir string) string {
	t.Helper()
	var buf bytes.Buffer
	for _, env := range failingRun() {
		require.NoError(t, events.Encode(&buf, env))
	}
	path := filepath.Join(dir, "run.ndjson")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newTestReplayer(stdout, stderr *bytes.Buffer) *replayer {
	return &replayer{
		builder: builder.New(),
		logger:  discardLogger(),
		stdout:  stdout,
		stderr:  stderr,
	}
}

func TestReplay(t *testing.T) {
	dir := t.TempDir()
	envs, lib, err := readMessages(writeMessages(t, dir), nil)
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	settings := &formatSettings{
		Cwd: dir,
		Formats: []config.Format{
			{Type: "rerun"},
			{Type: "json", Target: "reports/cucumber.json"},
		},
	}
	passed, err := newTestReplayer(&stdout, &stderr).replay(context.Background(), settings, envs, lib)
	require.NoError(t, err)
	assert.False(t, passed)
	assert.Equal(t, "features/a.feature:7", stdout.String())

	data, err := os.ReadFile(filepath.Join(dir, "reports", "cucumber.json"))
	require.NoError(t, err)
	var features []formatter.JSONFeature
	require.NoError(t, json.Unmarshal(data, &features))
	require.Len(t, features, 1)
	assert.Len(t, features[0].Elements, 2)
}

func TestReplay_BuildFailure(t *testing.T) {
	dir := t.TempDir()
	envs, lib, err := readMessages(writeMessages(t, dir), nil)
	require.NoError(t, err)

	var stdout, stderr bytes.Buffer
	settings := &formatSettings{
		Cwd: dir,
		Formats: []config.Format{
			{Type: "summary", Target: "summary.txt"},
			{Type: "./missing-formatter"},
		},
	}
	_, err = newTestReplayer(&stdout, &stderr).replay(context.Background(), settings, envs, lib)
	require.Error(t, err)
	assert.Equal(t, ExitBuildError, exitCode(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Empty(t, stdout.String())

	// the summary formatter was finished and its file closed, but saw no run
	data, err := os.ReadFile(filepath.Join(dir, "summary.txt"))
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestReplay_NoExportedFunction(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	_, err := newTestReplayer(&bytes.Buffer{}, &bytes.Buffer{}).replay(context.Background(),
		&formatSettings{Cwd: dir, Formats: []config.Format{{Type: "./notes.txt"}}}, nil, nil)
	assert.EqualError(t, err, "Custom formatter (./notes.txt) does not export a function")
	assert.ErrorIs(t, err, builder.ErrNoExportedFunction)
}

func TestReadMessages(t *testing.T) {
	envs, lib, err := readMessages("-", strings.NewReader(`{"meta":{"protocolVersion":"1"}}`+"\n"))
	require.NoError(t, err)
	assert.Len(t, envs, 1)
	assert.Empty(t, lib.StepDefinitions())

	_, _, err = readMessages("-", strings.NewReader("{\"meta\":{}}\nnot json\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")

	_, _, err = readMessages(filepath.Join(t.TempDir(), "missing.ndjson"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOpenTarget(t *testing.T) {
	dir := t.TempDir()
	var stdout bytes.Buffer

	w, cleanup, err := openTarget(dir, "", &stdout)
	require.NoError(t, err)
	assert.Same(t, &stdout, w)
	assert.Nil(t, cleanup)

	w, cleanup, err = openTarget(dir, "nested/out.txt", &stdout)
	require.NoError(t, err)
	_, err = w.Write([]byte("hi"))
	require.NoError(t, err)
	require.NoError(t, cleanup())
	data, err := os.ReadFile(filepath.Join(dir, "nested", "out.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hi", string(data))

	abs := filepath.Join(dir, "url.txt")
	_, cleanup, err = openTarget("/elsewhere", plugin.FileURL(abs), &stdout)
	require.NoError(t, err)
	require.NoError(t, cleanup())
	assert.FileExists(t, abs)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitRunFailure, exitCode(errors.New("plain")))
	assert.Equal(t, ExitParseError, exitCode(&exitError{code: ExitParseError, err: errors.New("x")}))
	wrapped := errors.Join(errors.New("a"), &exitError{code: ExitConfigError})
	assert.Equal(t, ExitConfigError, exitCode(wrapped))
	assert.Equal(t, "exit status 1", (&exitError{code: ExitRunFailure}).Error())
}

func resetFormatFlags(t *testing.T) {
	t.Cleanup(func() {
		formatFlags = nil
		formatOptionsFlag = ""
		noColorFlag = false
		snippetInterfaceFlag = ""
		snippetSyntaxFlag = ""
		cwdFlag = ""
	})
}

func TestResolveSettings(t *testing.T) {
	resetFormatFlags(t)
	dir := t.TempDir()

	cfg := &config.Config{
		Formats:       []string{"summary"},
		FormatOptions: map[string]any{"colorsEnabled": true, "rerun": map[string]any{"separator": " "}},
	}
	formatFlags = []string{"progress", "json:out.json"}
	formatOptionsFlag = `{"snippetInterface": "promise"}`
	snippetSyntaxFlag = "./syntax.so"
	cwdFlag = dir

	s, err := resolveSettings(cfg)
	require.NoError(t, err)
	assert.Equal(t, []config.Format{{Type: "progress"}, {Type: "json", Target: "out.json"}}, s.Formats)
	assert.Equal(t, dir, s.Cwd)
	assert.True(t, s.Options.ColorsEnabled)
	assert.Equal(t, snippet.Promise, s.Options.SnippetInterface)
	assert.Equal(t, "./syntax.so", s.Options.SnippetSyntax)
	assert.Equal(t, " ", s.Options.Rerun.Separator)

	noColorFlag = true
	snippetInterfaceFlag = "callback"
	s, err = resolveSettings(cfg)
	require.NoError(t, err)
	assert.False(t, s.Options.ColorsEnabled)
	assert.Equal(t, snippet.Callback, s.Options.SnippetInterface)
}

func TestResolveSettings_Defaults(t *testing.T) {
	resetFormatFlags(t)

	s, err := resolveSettings(&config.Config{})
	require.NoError(t, err)
	assert.Equal(t, []config.Format{{Type: config.DefaultFormat}}, s.Formats)
	assert.True(t, filepath.IsAbs(s.Cwd))
}

func TestResolveSettings_Errors(t *testing.T) {
	tests := []struct {
		name  string
		setup func()
		code  int
	}{
		{"malformed options", func() { formatOptionsFlag = "{" }, ExitConfigError},
		{"invalid options", func() { formatOptionsFlag = `{"snippetInterface": "nope"}` }, ExitConfigError},
		{"bad interface", func() { snippetInterfaceFlag = "nope" }, ExitUsageError},
		{"bad format", func() { formatFlags = []string{"json:"} }, ExitUsageError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFormatFlags(t)
			tt.setup()
			_, err := resolveSettings(&config.Config{})
			require.Error(t, err)
			assert.Equal(t, tt.code, exitCode(err))
		})
	}
}

func TestListCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"list"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, builder.NewRegistry().Types(), strings.Fields(out.String()))
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "cukefmt version dev")
	assert.Contains(t, out.String(), "Plugin protocol: 1")
}

func TestFormatCommand(t *testing.T) {
	resetFormatFlags(t)
	dir := t.TempDir()
	path := writeMessages(t, dir)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs([]string{"format", path, "-f", "rerun:rerun.txt", "-f", "summary", "--cwd", dir, "--no-color"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitRunFailure, exitCode(err))

	data, err := os.ReadFile(filepath.Join(dir, "rerun.txt"))
	require.NoError(t, err)
	assert.Equal(t, "features/a.feature:7", string(data))
	assert.Contains(t, out.String(), "2 scenarios (1 failed, 1 passed)")
	assert.NotContains(t, out.String(), "\x1b[")
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"init", "--dir", dir})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
		initDir = ""
		forceInit = false
	})

	require.NoError(t, rootCmd.Execute())
	path := filepath.Join(dir, InitConfigFilename)
	assert.Contains(t, out.String(), "Created: "+path)

	cfg, err := config.FindAndLoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{config.DefaultFormat}, cfg.Formats)
	opts, err := cfg.ParsedFormatOptions()
	require.NoError(t, err)
	assert.True(t, opts.GetPrintAttachments())

	rootCmd.SetArgs([]string{"init", "--dir", dir})
	err = rootCmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, exitCode(err))

	rootCmd.SetArgs([]string{"init", "--dir", dir, "--force"})
	require.NoError(t, rootCmd.Execute())
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := writeMessages(t, dir)
	bad := filepath.Join(dir, "bad.ndjson")
	require.NoError(t, os.WriteFile(bad, []byte("{not json\n"), 0o644))

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		configFlag = ""
	})

	rootCmd.SetArgs([]string{"validate", good})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "Valid: "+good)

	rootCmd.SetArgs([]string{"validate", good, bad})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitParseError, exitCode(err))
	assert.Contains(t, errOut.String(), "Error in "+bad)

	cfgPath := filepath.Join(dir, "cukefmt.config.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"formatOptions": {"snippetInterface": "nope"}}`), 0o644))
	rootCmd.SetArgs([]string{"validate", "--config", cfgPath, good})
	err = rootCmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, exitCode(err))
}

func TestCompleteFormats(t *testing.T) {
	got, directive := completeFormats(formatCmd, nil, "pro")
	assert.Equal(t, []string{"progress", "progress-bar"}, got)
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)

	got, directive = completeFormats(formatCmd, nil, "json:")
	assert.Empty(t, got)
	assert.Equal(t, cobra.ShellCompDirectiveDefault, directive)

	got, _ = completeSnippetInterfaces(formatCmd, nil, "")
	assert.Len(t, got, len(snippet.Interfaces))
}

func TestCompletionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	rootCmd.SetArgs([]string{"completion", "bash"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "cukefmt")

	rootCmd.SetArgs([]string{"completion", "tcsh"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitUsageError, exitCode(err))
}
