package report

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"scanrecon/internal/scan"
)

// NewProgressReporter draws a progress bar on out when it is a terminal and
// falls back to one log line per batch otherwise.
func NewProgressReporter(out *os.File, logger scan.Logger) scan.ProgressReporter {
	if out != nil && isTerminal(out.Fd()) {
		return NewBarProgress(out)
	}
	return NewLogProgress(logger)
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// BarProgress renders copy progress with a progress bar.
type BarProgress struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func NewBarProgress(w io.Writer) *BarProgress {
	return &BarProgress{w: w}
}

func (p *BarProgress) Start(label string, total int) {
	if total == 0 {
		p.bar = nil
		return
	}
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.w),
		progressbar.OptionSetDescription(label),
		progressbar.OptionShowCount(),
		progressbar.OptionSetItsString("files"),
		progressbar.OptionShowIts(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionOnCompletion(func() { io.WriteString(p.w, "\n") }),
	)
}

func (p *BarProgress) Advance(string, int64) {
	if p.bar != nil {
		p.bar.Add(1)
	}
}

func (p *BarProgress) Finish() {
	if p.bar != nil {
		p.bar.Finish()
		p.bar = nil
	}
}

// LogProgress reports each batch through the logger instead of drawing.
type LogProgress struct {
	logger scan.Logger
	label  string
	total  int
	done   int
	bytes  int64
}

func NewLogProgress(logger scan.Logger) *LogProgress {
	return &LogProgress{logger: logger}
}

func (p *LogProgress) Start(label string, total int) {
	p.label, p.total, p.done, p.bytes = label, total, 0, 0
	p.logger.Info("copy started", "folder", label, "files", total)
}

func (p *LogProgress) Advance(_ string, bytes int64) {
	p.done++
	p.bytes += bytes
}

func (p *LogProgress) Finish() {
	p.logger.Info("copy finished", "folder", p.label, "attempted", p.done, "total", p.total, "bytes", p.bytes)
}

var (
	_ scan.ProgressReporter = (*BarProgress)(nil)
	_ scan.ProgressReporter = (*LogProgress)(nil)
)
