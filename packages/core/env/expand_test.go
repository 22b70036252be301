package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	t.Setenv("CUKEFMT_TEST_DIR", "reports")
	t.Setenv("CUKEFMT_TEST_EMPTY", "")
	lookup := Lookup(map[string]string{"FROM_FILE": "dotenv", "CUKEFMT_TEST_DIR": "ignored"})

	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"json:${CUKEFMT_TEST_DIR}/run.json", "json:reports/run.json"},
		{"${FROM_FILE}", "dotenv"},
		{"${CUKEFMT_TEST_UNSET:-summary}", "summary"},
		{"${CUKEFMT_TEST_EMPTY:-fallback}", "fallback"},
		{"${CUKEFMT_TEST_EMPTY}", ""},
		{"$HOME stays", "$HOME stays"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Expand(tt.in, lookup)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpand_Unset(t *testing.T) {
	_, err := Expand("out/${CUKEFMT_TEST_UNSET}.json", Lookup())
	var unset *UnsetError
	require.ErrorAs(t, err, &unset)
	assert.Equal(t, "CUKEFMT_TEST_UNSET", unset.Name)
}

func TestExpandValue(t *testing.T) {
	lookup := Lookup(map[string]string{"SEP": " "})
	in := map[string]any{
		"colorsEnabled": true,
		"rerun":         map[string]any{"separator": "${SEP}"},
		"list":          []any{"${SEP:-x}", 3},
	}

	got, err := ExpandValue(in, lookup)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"colorsEnabled": true,
		"rerun":         map[string]any{"separator": " "},
		"list":          []any{" ", 3},
	}, got)

	_, err = ExpandValue(map[string]any{"snippetSyntax": "${NOPE}"}, lookup)
	assert.ErrorContains(t, err, "snippetSyntax: environment variable NOPE is not set")
}
