package envcli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envault/envault/pkg/export"
)

// fakeCLI writes a shell script standing in for the envault binary
func fakeCLI(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "envault")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return path
}

func TestRunArgsAndEnv(t *testing.T) {
	bin := fakeCLI(t, `echo "$@"; echo "dir=$(pwd)"; echo "token=$ENVAULT_TOKEN"`)
	dir := t.TempDir()
	r := &Runner{Binary: bin, Dir: dir, Env: []string{"ENVAULT_TOKEN=abc"}}

	out, err := r.Run(context.Background(), "list", "--env", "staging")
	require.NoError(t, err)
	resolved, _ := filepath.EvalSymlinks(dir)
	assert.Contains(t, out, "list --env staging\n")
	assert.Contains(t, out, "token=abc\n")
	assert.True(t, strings.Contains(out, "dir="+dir) || strings.Contains(out, "dir="+resolved), out)
}

func TestRunExitError(t *testing.T) {
	bin := fakeCLI(t, `echo "not logged in" >&2; exit 3`)
	r := &Runner{Binary: bin}

	_, err := r.Run(context.Background(), "get", "API_KEY")
	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, 3, exitErr.Code)
	assert.Equal(t, []string{"get", "API_KEY"}, exitErr.Args)
	assert.Contains(t, exitErr.Error(), "not logged in")
}

func TestRunNotInstalled(t *testing.T) {
	r := &Runner{Binary: filepath.Join(t.TempDir(), "missing")}
	_, err := r.Run(context.Background(), "list")
	assert.ErrorIs(t, err, ErrNotInstalled)
}

func TestRunTimeout(t *testing.T) {
	bin := fakeCLI(t, `exec sleep 5`)
	r := &Runner{Binary: bin, Timeout: 50 * time.Millisecond}

	start := time.Now()
	_, err := r.Run(context.Background(), "list")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestWrappers(t *testing.T) {
	bin := fakeCLI(t, `echo "$@"`)
	r := &Runner{Binary: bin}
	ctx := context.Background()

	tests := []struct {
		name string
		call func() (string, error)
		want string
	}{
		{"init", func() (string, error) { return r.Init(ctx, "web") }, "init --project web"},
		{"get", func() (string, error) { return r.Get(ctx, "API_KEY", "prod") }, "get API_KEY --env prod"},
		{"push", func() (string, error) { return r.Push(ctx, "") }, "sync --push"},
		{"pull", func() (string, error) { return r.Pull(ctx, "dev") }, "sync --pull --env dev"},
		{"export", func() (string, error) { return r.Export(ctx, export.FormatYAML, "") }, "export --format yaml"},
		{"audit", func() (string, error) { return r.Audit(ctx, "") }, "audit"},
		{"history", func() (string, error) { return r.History(ctx, "DB_URL", "") }, "history DB_URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.call()
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestListUsesParseList(t *testing.T) {
	bin := fakeCLI(t, `printf 'API_KEY=abc\nDB_URL="postgres://x"\n'`)
	r := &Runner{Binary: bin}

	entries, err := r.List(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []export.Entry{{Key: "API_KEY", Value: "abc"}, {Key: "DB_URL", Value: "postgres://x"}}, entries)
}

func TestParseList(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []export.Entry
	}{
		{
			name: "key value lines",
			in:   "# project web\nA=1\nB = two words\n\nC='quoted'\n",
			want: []export.Entry{{Key: "A", Value: "1"}, {Key: "B", Value: "two words"}, {Key: "C", Value: "quoted"}},
		},
		{
			name: "json object",
			in:   `{"B":"2","A":"1"}`,
			want: []export.Entry{{Key: "A", Value: "1"}, {Key: "B", Value: "2"}},
		},
		{
			name: "bare keys",
			in:   "API_KEY\nDB_URL\n",
			want: []export.Entry{{Key: "API_KEY"}, {Key: "DB_URL"}},
		},
		{
			name: "empty",
			in:   "\n",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseList(tt.in))
		})
	}
}

func TestParseList_LongLine(t *testing.T) {
	long := strings.Repeat("v", 2*1024*1024)
	entries := ParseList("A=1\nBIG=" + long + "\r\nZ=2\n")

	require.Len(t, entries, 3)
	assert.Equal(t, "BIG", entries[1].Key)
	assert.Len(t, entries[1].Value, len(long))
	assert.Equal(t, export.Entry{Key: "Z", Value: "2"}, entries[2])
}
