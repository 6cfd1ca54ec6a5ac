package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer_CoalescesRapidTriggers(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var calls atomic.Int32
	for i := 0; i < 10; i++ {
		d.Trigger(func() { calls.Add(1) })
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(150 * time.Millisecond)

	if n := calls.Load(); n != 1 {
		t.Errorf("expected 1 callback invocation, got %d", n)
	}
}

func TestDebouncer_Cancel(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var called atomic.Bool
	d.Trigger(func() { called.Store(true) })
	d.Cancel()

	time.Sleep(100 * time.Millisecond)

	if called.Load() {
		t.Error("callback should not have been invoked after cancel")
	}
}

func TestDebouncer_DefaultDuration(t *testing.T) {
	d := NewDebouncer(0)
	if d.Duration() != DefaultDebounceDuration {
		t.Errorf("expected default duration %v, got %v", DefaultDebounceDuration, d.Duration())
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestWatcher_DetectsFileChange(t *testing.T) {
	path := writeConfig(t, "navigation:\n  wrap_around: false\n")

	var (
		mu      sync.Mutex
		changed bool
	)
	w, err := New(path,
		WithDebounce(50*time.Millisecond),
		WithOnChange(func() {
			mu.Lock()
			changed = true
			mu.Unlock()
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(path, []byte("navigation:\n  wrap_around: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	time.Sleep(300 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if !changed {
		t.Error("expected change to be detected")
	}
}

func TestWatcher_PollingChangedChannel(t *testing.T) {
	path := writeConfig(t, "reveal:\n  interval_ms: 2000\n")

	w, err := New(path,
		WithDebounce(20*time.Millisecond),
		WithPollInterval(30*time.Millisecond),
		WithForcePoll(true),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Fatal("expected polling mode")
	}

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = os.WriteFile(path, []byte("reveal:\n  interval_ms: 500\n"), 0o644)
	}()

	select {
	case <-w.Changed():
	case <-time.After(time.Second):
		t.Error("timeout waiting for change notification")
	}
}

func TestWatcher_EnvForcePoll(t *testing.T) {
	t.Setenv(EnvForcePoll, "1")
	path := writeConfig(t, "")

	w, err := New(path, WithPollInterval(25*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Fatalf("expected polling mode when %s is set", EnvForcePoll)
	}
}

func TestWatcher_RemoteFilesystemUsesPolling(t *testing.T) {
	path := writeConfig(t, "")

	orig := detectFilesystemTypeFunc
	detectFilesystemTypeFunc = func(string) FilesystemType { return FSTypeNFS }
	t.Cleanup(func() { detectFilesystemTypeFunc = orig })

	w, err := New(path, WithPollInterval(25*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	if !w.IsPolling() {
		t.Fatal("expected polling on a remote filesystem")
	}
	if got := w.FilesystemType(); got != FSTypeNFS {
		t.Fatalf("expected %v, got %v", FSTypeNFS, got)
	}
}

func TestWatcher_FileRemoved(t *testing.T) {
	path := writeConfig(t, "ui:\n  mouse: true\n")

	var (
		mu  sync.Mutex
		got error
	)
	w, err := New(path,
		WithDebounce(20*time.Millisecond),
		WithPollInterval(30*time.Millisecond),
		WithForcePoll(true),
		WithOnError(func(err error) {
			mu.Lock()
			got = err
			mu.Unlock()
		}),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	time.Sleep(50 * time.Millisecond)
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if got != ErrFileRemoved {
		t.Errorf("expected ErrFileRemoved, got %v", got)
	}
}

func TestWatcher_MissingFileCreatedLater(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	w, err := New(path,
		WithDebounce(20*time.Millisecond),
		WithPollInterval(30*time.Millisecond),
		WithForcePoll(true),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("missing file should not fail Start: %v", err)
	}
	defer w.Stop()

	if err := os.WriteFile(path, []byte("deck:\n  path: x.yaml\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-w.Changed():
	case <-time.After(time.Second):
		t.Error("creation was not reported")
	}
}

func TestWatcher_StartStop(t *testing.T) {
	path := writeConfig(t, "")

	w, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if w.IsStarted() {
		t.Error("watcher should not be started initially")
	}
	if err := w.Start(); err != nil {
		t.Fatal(err)
	}
	if !w.IsStarted() {
		t.Error("watcher should be started after Start()")
	}
	if err := w.Start(); err != ErrAlreadyStarted {
		t.Errorf("expected ErrAlreadyStarted, got %v", err)
	}

	w.Stop()
	if w.IsStarted() {
		t.Error("watcher should not be started after Stop()")
	}
	w.Stop()
}

func TestWatcher_PathAndInterval(t *testing.T) {
	path := writeConfig(t, "")

	w, err := New(path, WithPollInterval(500*time.Millisecond))
	if err != nil {
		t.Fatal(err)
	}
	abs, _ := filepath.Abs(path)
	if w.Path() != abs {
		t.Errorf("expected path %s, got %s", abs, w.Path())
	}
	if w.PollInterval() != 500*time.Millisecond {
		t.Errorf("unexpected poll interval %v", w.PollInterval())
	}
}

func TestFilesystemType_String(t *testing.T) {
	tests := []struct {
		fsType FilesystemType
		want   string
		remote bool
	}{
		{FSTypeUnknown, "unknown", false},
		{FSTypeLocal, "local", false},
		{FSTypeNFS, "nfs", true},
		{FSTypeSMB, "smb", true},
		{FSTypeSSHFS, "sshfs", true},
		{FSTypeFUSE, "fuse", true},
		{FilesystemType(99), "unknown", false},
	}

	for _, tc := range tests {
		if got := tc.fsType.String(); got != tc.want {
			t.Errorf("FilesystemType(%d).String() = %q, want %q", tc.fsType, got, tc.want)
		}
		if got := tc.fsType.IsRemote(); got != tc.remote {
			t.Errorf("FilesystemType(%d).IsRemote() = %v, want %v", tc.fsType, got, tc.remote)
		}
	}
}

func TestEnvBool(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"1", true},
		{"true", true},
		{"YES", true},
		{" on ", true},
		{"0", false},
		{"no", false},
		{"", false},
		{"maybe", false},
	}

	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			t.Setenv("FREQDECK_TEST_BOOL", tc.value)
			if got := envBool("FREQDECK_TEST_BOOL"); got != tc.want {
				t.Errorf("envBool(%q) = %v, want %v", tc.value, got, tc.want)
			}
		})
	}
}

func TestDetectFilesystemType(t *testing.T) {
	if got := DetectFilesystemType(""); got != FSTypeUnknown {
		t.Errorf("empty path = %v, want unknown", got)
	}
	dir := t.TempDir()
	got := DetectFilesystemType(filepath.Join(dir, "missing", "config.yaml"))
	if got != DetectFilesystemType(dir) {
		t.Errorf("missing path should classify by its parent, got %v", got)
	}
}
