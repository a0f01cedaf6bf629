package executor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	e := New("/bin/sh", nil)

	tests := []struct {
		name string
		cmd  string
		want string
	}{
		{name: "stdout", cmd: "echo hello", want: "hello"},
		{name: "only one newline trimmed", cmd: "printf 'a\\n\\n'", want: "a\n"},
		{name: "no trailing newline", cmd: "printf abc", want: "abc"},
		{name: "stderr", cmd: "echo oops >&2", want: "oops"},
		{name: "interleaved", cmd: "echo one; echo two >&2; echo three", want: "one\ntwo\nthree"},
		{name: "non-zero exit", cmd: "echo failing; exit 3", want: "failing"},
		{name: "shell syntax passed through", cmd: "x=4; echo $((x * 2)) | cat", want: "8"},
		{name: "empty output", cmd: "true", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Run(context.Background(), tt.cmd)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRun_NotCancelled(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	got, err := New("/bin/sh", nil).Run(ctx, "sleep 0.2; echo done")
	require.NoError(t, err)
	assert.Equal(t, "done", got)
}

func TestRun_MissingShell(t *testing.T) {
	_, err := New("/nonexistent/shell", nil).Run(context.Background(), "echo hi")
	assert.Error(t, err)
}
