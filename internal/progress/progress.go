package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/bubbles/progress"

	"github.com/go-scripts/docgen/internal/types"
)

// Tracker shows a spinner while a section renders and a progress bar after each one
type Tracker struct {
	bar     progress.Model
	spin    *spinner.Spinner
	out     io.Writer
	total   int
	done    int
	failed  int
	current string
	mu      sync.Mutex
}

// New creates a Tracker for total sections. The spinner is only shown when out is a terminal file.
func New(out io.Writer, total int) *Tracker {
	t := &Tracker{
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(30)),
		out:   out,
		total: total,
	}
	if f, ok := out.(*os.File); ok {
		t.spin = spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriterFile(f))
	}
	return t
}

// SectionStarted indicates that a section is being rendered
func (t *Tracker) SectionStarted(name, url string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = name
	if t.spin != nil {
		t.spin.Suffix = fmt.Sprintf(" [%d/%d] %s", t.done+1, t.total, name)
		t.spin.Start()
	}
}

// SectionFinished records the outcome of a section and redraws the bar
func (t *Tracker) SectionFinished(s types.Section, elapsed time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.spin != nil {
		t.spin.Stop()
	}
	t.done++
	if s.Failed() {
		t.failed++
	}
	t.current = ""

	status := "ok"
	if s.Failed() {
		status = "failed"
	}
	fmt.Fprintf(t.out, "%s %d/%d %s (%s, %s)\n",
		t.bar.ViewAs(t.ratio()), t.done, t.total, s.Name, status, elapsed.Round(time.Millisecond))
}

func (t *Tracker) ratio() float64 {
	if t.total == 0 {
		return 0
	}
	return float64(t.done) / float64(t.total)
}
