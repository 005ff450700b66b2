package executor

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func shell(script string, accumulate bool) Command {
	return Command{Name: "sh", Args: []string{"-c", script}, Accumulate: accumulate}
}

func TestExecuteStreamsLinesIncludingEmptyOnes(t *testing.T) {
	var seen []string
	e := New(func(line string) { seen = append(seen, line) })

	res, err := e.Execute(context.Background(), shell(`printf 'one\n\nthree'`, true))
	require.NoError(t, err)
	require.Equal(t, 0, res.ExitStatus)
	require.Equal(t, []string{"one", "", "three"}, seen)
	require.Equal(t, []string{"one", "", "three"}, res.Stdout)
}

func TestExecuteWithoutAccumulationDiscardsLines(t *testing.T) {
	count := 0
	e := New(func(string) { count++ })

	res, err := e.Execute(context.Background(), shell(`echo a; echo b`, false))
	require.NoError(t, err)
	require.Equal(t, 2, count)
	require.Empty(t, res.Stdout)
}

func TestExecuteReportsNonZeroExitInResult(t *testing.T) {
	e := New(func(string) {})

	res, err := e.Execute(context.Background(), shell(`echo oops >&2; exit 4`, true))
	require.NoError(t, err)
	require.Equal(t, 4, res.ExitStatus)
	require.False(t, res.Success())
	require.Contains(t, res.Stderr, "oops")
	require.Contains(t, res.Output(), "oops")
}

func TestExecuteRunsInWorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	e := New(func(string) {})

	c := shell(`pwd`, true)
	c.Dir = dir
	res, err := e.Execute(context.Background(), c)
	require.NoError(t, err)
	require.Len(t, res.Stdout, 1)

	got, err := filepath.EvalSymlinks(res.Stdout[0])
	require.NoError(t, err)
	want, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestExecuteSpawnFailure(t *testing.T) {
	e := New(func(string) {})

	res, err := e.Execute(context.Background(), Command{Name: "haligen-no-such-binary"})
	require.Nil(t, res)
	var execErr *ExecutionError
	require.True(t, errors.As(err, &execErr))
	require.Contains(t, execErr.Command, "haligen-no-such-binary")
}

func TestExecuteMissingWorkingDirectoryIsExecutionError(t *testing.T) {
	e := New(func(string) {})

	c := shell(`true`, false)
	c.Dir = filepath.Join(t.TempDir(), "missing")
	_, err := e.Execute(context.Background(), c)
	var execErr *ExecutionError
	require.ErrorAs(t, err, &execErr)
}

func TestExecuteDetectsStructuredErrorOnStdout(t *testing.T) {
	e := New(func(string) {})

	res, err := e.Execute(context.Background(), shell(`echo building; echo 'error: {"code":5,"message":"network unreachable"}'; exit 1`, false))
	require.NotNil(t, res)
	require.Equal(t, 1, res.ExitStatus)

	var toolErr *StructuredToolError
	require.ErrorAs(t, err, &toolErr)
	require.EqualValues(t, 5, toolErr.Code)
	require.Equal(t, "network unreachable", toolErr.Message)
	require.Contains(t, toolErr.Command, "sh")
}

func TestExecuteDetectsStructuredErrorOnStderr(t *testing.T) {
	e := New(func(string) {})

	_, err := e.Execute(context.Background(), shell(`echo 'error: {"code":7,"message":"bad index"}' >&2; exit 1`, false))
	var toolErr *StructuredToolError
	require.ErrorAs(t, err, &toolErr)
	require.EqualValues(t, 7, toolErr.Code)
}

func TestParseStructuredError(t *testing.T) {
	cases := []struct {
		line string
		want *StructuredToolError
	}{
		{`error: {"code":5,"message":"network unreachable"}`, &StructuredToolError{Code: 5, Message: "network unreachable"}},
		{"error: {\"code\":2,\"message\":\"x\"}\r", &StructuredToolError{Code: 2, Message: "x"}},
		{`error: plain text failure`, nil},
		{`error: {not json`, nil},
		{`warning: {"code":1}`, nil},
		{``, nil},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ParseStructuredError(tc.line), tc.line)
	}
}
