package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	// Save original args
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()

	tests := []struct {
		name         string
		description  string
		args         []string
		expectedExit int
	}{
		{
			name:         "version",
			args:         []string{"kiln", "version"},
			expectedExit: 0,
		},
		{
			name: "plan with nothing to do",
			description: `version: "1"
targets:
  - name: notes
    kind: source
    path: a.c
`,
			args:         []string{"kiln", "plan"},
			expectedExit: 0,
		},
		{
			name: "list",
			description: `version: "1"
targets:
  - name: notes
    kind: source
    path: a.c
`,
			args:         []string{"kiln", "list", "--all"},
			expectedExit: 0,
		},
		{
			name:         "missing description",
			args:         []string{"kiln", "build"},
			expectedExit: 1,
		},
		{
			name: "unknown kind",
			description: `version: "1"
targets:
  - name: hello
    kind: program
`,
			args:         []string{"kiln", "build"},
			expectedExit: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "a.c"), []byte("int x;\n"), 0o600))
			if tt.description != "" {
				require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "kiln.yaml"), []byte(tt.description), 0o600))
			}
			t.Chdir(tmpDir)

			os.Args = tt.args
			assert.Equal(t, tt.expectedExit, run())
		})
	}
}
