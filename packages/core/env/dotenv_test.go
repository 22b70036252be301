package env

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected map[string]string
	}{
		{"simple", "FORMAT=json", map[string]string{"FORMAT": "json"}},
		{"several", "A=1\nB=2", map[string]string{"A": "1", "B": "2"}},
		{"double quoted", `OUT="reports/cucumber report.json"`, map[string]string{"OUT": "reports/cucumber report.json"}},
		{"single quoted", `OUT='x y'`, map[string]string{"OUT": "x y"}},
		{"comments and blanks", "# c\n\nA=1\n", map[string]string{"A": "1"}},
		{"export prefix", "export REPORTS=out", map[string]string{"REPORTS": "out"}},
		{"equals in value", "URL=file:///tmp/a?b=c", map[string]string{"URL": "file:///tmp/a?b=c"}},
		{"no equals", "JUNK", map[string]string{}},
		{"empty", "", map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), DotEnvFilename)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			got, err := LoadDotEnv(path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLoadDotEnv_Missing(t *testing.T) {
	_, err := LoadDotEnv(filepath.Join(t.TempDir(), DotEnvFilename))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
