package launcher_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedbridge/feedbridge/internal/logging"
	"github.com/feedbridge/feedbridge/pkg/domain"
	"github.com/feedbridge/feedbridge/pkg/launcher"
)

func run(t *testing.T, script string, timeout time.Duration, env map[string]string) launcher.Result {
	t.Helper()
	l, err := launcher.New([]string{"sh", "-c", script}, timeout, logging.NewNop())
	require.NoError(t, err)
	result, err := l.Run(context.Background(), env)
	require.NoError(t, err)
	return result
}

func TestNew_EmptyCommand(t *testing.T) {
	_, err := launcher.New(nil, 0, logging.NewNop())
	assert.Error(t, err)
}

func TestRun_CleanExit(t *testing.T) {
	result := run(t, "exit 0", 0, nil)
	assert.Equal(t, launcher.OutcomeCompleted, result.Outcome)
	assert.NoError(t, result.Err)
}

func TestRun_NonzeroExit(t *testing.T) {
	result := run(t, "echo boom >&2; exit 3", 0, nil)
	assert.Equal(t, launcher.OutcomeFailed, result.Outcome)
	assert.Equal(t, 3, result.ExitCode)
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "3")
	assert.Contains(t, result.Err.Error(), "boom")
}

func TestRun_CapturesOutput(t *testing.T) {
	result := run(t, "echo out; echo err >&2", 0, nil)
	assert.Equal(t, launcher.OutcomeCompleted, result.Outcome)
	assert.Contains(t, result.Stdout, "out")
	assert.Contains(t, result.Stderr, "err")
}

func TestRun_ExplicitEnvironmentOnly(t *testing.T) {
	out := filepath.Join(t.TempDir(), "env.txt")
	result := run(t, `printf '%s' "$GREETING" > "$OUT"`, 0, map[string]string{
		"GREETING": "hello",
		"OUT":      out,
	})
	require.Equal(t, launcher.OutcomeCompleted, result.Outcome)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestRun_TimeoutKillsProcess(t *testing.T) {
	start := time.Now()
	result := run(t, "sleep 30", 100*time.Millisecond, nil)

	assert.Equal(t, launcher.OutcomeTimedOut, result.Outcome)
	require.Error(t, result.Err)
	// The process must be killed and reaped well before its natural exit.
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRun_ZeroTimeoutWaitsForExit(t *testing.T) {
	result := run(t, "sleep 0.2; exit 0", 0, nil)
	assert.Equal(t, launcher.OutcomeCompleted, result.Outcome)
}

func TestRun_ContextCancellation(t *testing.T) {
	l, err := launcher.New([]string{"sh", "-c", "sleep 30"}, 0, logging.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(100 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	result, err := l.Run(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, launcher.OutcomeFailed, result.Outcome)
	assert.ErrorIs(t, result.Err, context.Canceled)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestRun_ExecutableNotFound(t *testing.T) {
	l, err := launcher.New([]string{"feedbridge-no-such-dialog-binary"}, 0, logging.NewNop())
	require.NoError(t, err)

	_, err = l.Run(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrDialogNotFound)
}
