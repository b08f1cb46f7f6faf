package progress

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/C1Z4/ourhour-chatbot/internal/ourhour/ourhourtest"
	"github.com/C1Z4/ourhour-chatbot/internal/snapshot"
)

func TestTrackerDrivesReporter(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewTracker(&CIReporter{W: &buf})

	_, err := snapshot.NewAggregator(ourhourtest.Sample(), snapshot.Options{
		Concurrency: 1,
		Progress:    tracker.Callback,
	}).BuildSnapshot(context.Background(), 1)
	if err != nil {
		t.Fatalf("BuildSnapshot: %v", err)
	}
	tracker.Finish()

	out := buf.String()
	for _, want := range []string{"Fetching details for 2 projects", "[1/2]", "[2/2]", "Snapshot complete"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if n := strings.Count(out, "Fetching details"); n != 1 {
		t.Errorf("reporter started %d times", n)
	}
}

func TestTrackerFinishWithoutProjects(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewTracker(&CIReporter{W: &buf})
	tracker.Finish()
	if buf.Len() != 0 {
		t.Errorf("unstarted tracker wrote %q", buf.String())
	}
}

func TestNewReporterInCI(t *testing.T) {
	t.Setenv("CI", "true")
	if _, ok := NewReporter().(*CIReporter); !ok {
		t.Error("expected CIReporter when CI is set")
	}
}
