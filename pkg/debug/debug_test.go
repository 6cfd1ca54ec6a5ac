package debug

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	was := Enabled()
	var buf bytes.Buffer
	SetEnabled(true)
	SetOutput(&buf)
	t.Cleanup(func() { SetEnabled(was) })
	return &buf
}

func TestLogWritesWhenEnabled(t *testing.T) {
	buf := capture(t)

	Log("slide %d of %d", 3, 11)
	LogTiming("render", 5*time.Millisecond)
	LogIf(false, "hidden")
	LogIf(true, "shown")
	Dump("cursor", 2)
	LogEnterExit("load")()

	out := buf.String()
	for _, want := range []string{"slide 3 of 11", "render took 5ms", "shown", "cursor: int = 2", "-> load", "<- load"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Error("LogIf(false) should not write")
	}
}

func TestDisabledIsSilent(t *testing.T) {
	buf := capture(t)
	SetEnabled(false)

	Log("nothing")
	LogEnterExit("nothing")()

	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}
