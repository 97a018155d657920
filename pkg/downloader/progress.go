package downloader

import (
	"fmt"
	"io"
	"os"

	"github.com/inhies/go-bytesize"
	"github.com/mattn/go-isatty"
	"github.com/mdsohelmia/fontsync/pkg/config"
	"github.com/schollz/progressbar/v3"
)

// Sink hands out a Reporter per transfer.
type Sink interface {
	// Track starts reporting on name. total is -1 when the size is unknown.
	Track(name string, total int64) Reporter
}

type Reporter interface {
	Add(n int)
	Finish()
}

// DetectSink picks the progress variant once for the whole run.
// "auto" draws a bar when out is a terminal and prints lines otherwise.
func DetectSink(mode string, out *os.File) Sink {
	switch mode {
	case config.ProgressBar:
		return BarSink{Out: out}
	case config.ProgressPrint:
		return PrintSink{Out: out}
	case config.ProgressNone:
		return NopSink{}
	}
	if isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd()) {
		return BarSink{Out: out}
	}
	return PrintSink{Out: out}
}

// BarSink draws a byte progress bar, or a spinner when the total is unknown.
type BarSink struct {
	Out io.Writer
}

func (s BarSink) Track(name string, total int64) Reporter {
	bar := progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(name),
		progressbar.OptionSetWriter(s.Out),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(10),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() { fmt.Fprint(s.Out, "\n") }),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetRenderBlankState(true),
	)
	return barReporter{bar: bar}
}

type barReporter struct {
	bar *progressbar.ProgressBar
}

func (r barReporter) Add(n int) { _ = r.bar.Add(n) }
func (r barReporter) Finish()   { _ = r.bar.Finish() }

// unknownStep is how many bytes pass between lines when the total is unknown.
const unknownStep = 1 << 20

// PrintSink writes a line each time the whole percentage advances,
// or every MiB when the total is unknown.
type PrintSink struct {
	Out io.Writer
}

func (s PrintSink) Track(name string, total int64) Reporter {
	return &printReporter{out: s.Out, name: name, total: total}
}

type printReporter struct {
	out      io.Writer
	name     string
	total    int64
	done     int64
	lastPct  int64
	lastMark int64
}

func (r *printReporter) Add(n int) {
	r.done += int64(n)
	if r.total > 0 {
		pct := r.done * 100 / r.total
		if pct > r.lastPct {
			r.lastPct = pct
			fmt.Fprintf(r.out, "Download %s: %.2f%%\n", r.name, float64(r.done)/float64(r.total)*100)
		}
		return
	}
	if r.done-r.lastMark >= unknownStep {
		r.lastMark = r.done
		fmt.Fprintf(r.out, "Download %s: %s\n", r.name, bytesize.New(float64(r.done)))
	}
}

func (r *printReporter) Finish() {
	fmt.Fprintf(r.out, "Download %s: done, %s\n", r.name, bytesize.New(float64(r.done)))
}

// NopSink reports nothing.
type NopSink struct{}

func (NopSink) Track(string, int64) Reporter { return nopReporter{} }

type nopReporter struct{}

func (nopReporter) Add(int) {}
func (nopReporter) Finish() {}
