package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"github.com/ava12/pegen/internal/test"
)

// touchUntil rewrites path until a value arrives at calls or timeout expires.
func touchUntil(t *testing.T, path string, calls <-chan string) string {
	t.Helper()
	timeout := time.After(10 * time.Second)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case name := <-calls:
			return name
		case <-ticker.C:
			test.ExpectNoError(t, os.WriteFile(path, []byte("rules: []\n"), 0o644))
		case <-timeout:
			t.Fatal("no change registered")
		}
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "grammar.yaml")
	other := filepath.Join(dir, "other.yaml")
	test.ExpectNoError(t, os.WriteFile(watched, nil, 0o644))

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	calls := make(chan string, 16)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, []string{watched}, logger, func(path string) error {
			calls <- path
			return errors.New("broken grammar")
		})
	}()

	test.ExpectNoError(t, os.WriteFile(other, nil, 0o644))
	expected, e := filepath.Abs(watched)
	test.ExpectNoError(t, e)
	test.ExpectString(t, expected, touchUntil(t, watched, calls))

	cancel()
	select {
	case e = <-done:
		test.ExpectNoError(t, e)
	case <-time.After(10 * time.Second):
		t.Fatal("watcher not stopped")
	}

	close(calls)
	for name := range calls {
		test.ExpectString(t, expected, name)
	}

	failed := false
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.ErrorLevel && entry.Data["path"] == expected {
			failed = true
		}
	}
	test.Assert(t, failed, "update error not logged")
}

func TestRunMissingDir(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	path := filepath.Join(t.TempDir(), "missing", "grammar.yaml")
	e := Run(context.Background(), []string{path}, logger, func(string) error { return nil })
	test.Assert(t, e != nil, "expecting error for missing directory")
}
