package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
)

// Reporter provides progress feedback while a snapshot is assembled.
type Reporter interface {
	Start(total int)
	Update(current int, message string)
	Finish()
}

// NewReporter returns a TerminalReporter if running in an interactive terminal,
// or a CIReporter if the CI environment variable is set. Both write to
// stderr so stdout stays clean for the command's output.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{W: os.Stderr}
	}
	return &TerminalReporter{}
}

// TerminalReporter displays a progress bar in the terminal.
type TerminalReporter struct {
	bar *progressbar.ProgressBar
}

func (r *TerminalReporter) Start(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Fetching projects"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *TerminalReporter) Update(current int, message string) {
	if r.bar != nil {
		r.bar.Describe(message)
		_ = r.bar.Set(current)
	}
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// CIReporter prints line-by-line progress suitable for CI logs.
type CIReporter struct {
	W     io.Writer
	total int
}

func (r *CIReporter) Start(total int) {
	r.total = total
	fmt.Fprintf(r.W, "Fetching details for %d projects\n", total)
}

func (r *CIReporter) Update(current int, message string) {
	fmt.Fprintf(r.W, "[%d/%d] %s\n", current, r.total, message)
}

func (r *CIReporter) Finish() {
	fmt.Fprintln(r.W, "Snapshot complete")
}

// Tracker adapts a Reporter to the aggregator's progress callback. The
// reporter is started on the first callback, when the total is known.
type Tracker struct {
	r       Reporter
	mu      sync.Mutex
	started bool
}

func NewTracker(r Reporter) *Tracker {
	return &Tracker{r: r}
}

// Callback is passed as snapshot.Options.Progress.
func (t *Tracker) Callback(done, total int, project string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.started {
		t.r.Start(total)
		t.started = true
	}
	t.r.Update(done, project)
}

// Finish closes the reporter if it was started.
func (t *Tracker) Finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.started {
		t.r.Finish()
	}
}
