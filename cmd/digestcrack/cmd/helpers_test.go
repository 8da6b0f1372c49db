package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// Known MD5 digests.
const (
	md5Apple  = "1f3870be274f6c49b3e31a0c6728957f"
	md5Banana = "72b302bf297a228a75730123efef7c41"
	md5Empty  = "d41d8cd98f00b204e9800998ecf8427e"
)

// isolate points HOME, the user config directory and the working directory
// at fresh temp directories and clears DIGESTCRACK_* overrides. It returns
// the working directory.
func isolate(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("NO_COLOR", "1")
	for _, name := range []string{
		"WORKERS", "MAX_WORKERS", "INDEX", "INDEX_BACKEND", "INDEX_DIR", "INDEX_CACHE_SIZE",
		"SQLITE_PATH", "LOG_LEVEL", "LOG_FILE", "FORMAT", "COLOR",
	} {
		t.Setenv("DIGESTCRACK_"+name, "")
	}

	work := t.TempDir()
	t.Chdir(work)
	return work
}

// execute runs the CLI with args and returns what it printed.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	a := &app{}
	cmd := newRootCmd(a)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	if args == nil {
		args = []string{}
	}
	cmd.SetArgs(args)

	err = cmd.ExecuteContext(context.Background())
	require.NoError(t, a.close())
	return out.String(), errOut.String(), err
}

// writeFile writes lines, each followed by a newline, to dir/name.
func writeFile(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := ""
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
