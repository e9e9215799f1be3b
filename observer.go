package r2ctl

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
)

// UnknownSize tells NewProgressObserver to resolve the total itself.
// Only uploads can do that; downloads must pass the probed size.
const UnknownSize int64 = -1

const bytesPerMB = 1024 * 1024

// TransferObserver receives byte counts while a transfer streams.
// Report is called synchronously on the transfer goroutine and must stay cheap.
type TransferObserver interface {
	// Report adds n bytes to the running total.
	Report(n int64)
	// Close releases display resources. Calling it more than once is safe.
	Close() error
}

// ObserverFactory builds the observer for one transfer.
type ObserverFactory func(label string, dir Direction, total int64) (TransferObserver, error)

// NopObserver discards every report.
type NopObserver struct{}

func (NopObserver) Report(int64) {}

func (NopObserver) Close() error { return nil }

// ProgressObserver tracks one transfer, draws a progress bar and logs
// progress. It is not shared between transfers.
type ProgressObserver struct {
	id        string
	label     string
	direction Direction
	total     int64
	logger    *slog.Logger
	bar       *progressbar.ProgressBar

	mu         sync.Mutex
	seen       int64
	overshoot  bool
	closed     bool
	minGap     time.Duration
	lastLogged time.Time
}

type observerOptions struct {
	logger      *slog.Logger
	writer      io.Writer
	logInterval time.Duration
}

// ObserverOption configures a ProgressObserver.
type ObserverOption func(*observerOptions)

// WithObserverLogger sets the logger for start, progress and overshoot events.
func WithObserverLogger(logger *slog.Logger) ObserverOption {
	return func(o *observerOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithProgressWriter sets where the bar is drawn. A nil writer disables the bar.
func WithProgressWriter(w io.Writer) ObserverOption {
	return func(o *observerOptions) {
		o.writer = w
	}
}

// WithLogInterval limits how often debug progress lines are emitted.
// Zero logs every report.
func WithLogInterval(d time.Duration) ObserverOption {
	return func(o *observerOptions) {
		o.logInterval = d
	}
}

// NewProgressObserver creates an observer for a transfer of label.
// For uploads a total of UnknownSize is replaced by the size of the file at
// label. For downloads the total is required.
func NewProgressObserver(label string, dir Direction, total int64, opts ...ObserverOption) (*ProgressObserver, error) {
	o := observerOptions{
		logger: slog.Default(),
		writer: os.Stderr,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if !dir.IsValid() {
		return nil, fmt.Errorf("%w: direction must be upload or download, got %q", ErrInvalidArgument, dir)
	}

	switch {
	case total == UnknownSize && dir == Upload:
		info, err := os.Stat(label)
		if err != nil {
			return nil, fmt.Errorf("%w: stat %s: %w", ErrInvalidArgument, label, err)
		}
		total = info.Size()
	case total == UnknownSize:
		return nil, fmt.Errorf("%w: total size must be provided for downloads", ErrInvalidArgument)
	case total < 0:
		return nil, fmt.Errorf("%w: total size must not be negative, got %d", ErrInvalidArgument, total)
	}

	p := &ProgressObserver{
		id:        uuid.NewString(),
		label:     label,
		direction: dir,
		total:     total,
	}
	p.logger = o.logger.With("transfer_id", p.id, "direction", string(dir), "file", label)

	if o.writer != nil {
		p.bar = newProgressBar(o.writer, filepath.Base(label), dir, total)
	}

	p.logger.Info("starting "+string(dir), "size_mb", megabytes(total))
	p.logInterval(o.logInterval)

	return p, nil
}

// logInterval throttles debug progress lines. Zero logs every report.
func (p *ProgressObserver) logInterval(d time.Duration) {
	if d > 0 {
		p.lastLogged = time.Now()
		p.minGap = d
	}
}

func newProgressBar(w io.Writer, desc string, dir Direction, total int64) *progressbar.ProgressBar {
	color := "[green]"
	if dir == Download {
		color = "[blue]"
	}
	return progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionShowBytes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        color + "=[reset]",
			SaucerHead:    color + ">[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(w)
		}),
	)
}

// Report adds n to the bytes seen. Negative increments are ignored.
func (p *ProgressObserver) Report(n int64) {
	if n <= 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}

	before := p.seen
	p.seen += n

	if p.bar != nil && before < p.total {
		step := n
		if p.seen > p.total {
			step = p.total - before
		}
		_ = p.bar.Add64(step)
	}

	if p.seen > p.total && !p.overshoot {
		p.overshoot = true
		p.logger.Warn("transfer exceeded expected size",
			"seen_bytes", p.seen,
			"total_bytes", p.total,
		)
	}

	if p.minGap > 0 {
		now := time.Now()
		if now.Sub(p.lastLogged) < p.minGap && p.seen < p.total {
			return
		}
		p.lastLogged = now
	}

	verb := "uploaded"
	if p.direction == Download {
		verb = "downloaded"
	}
	p.logger.Debug(fmt.Sprintf("%s %.2f MB of %s", verb, megabytes(p.seen), p.label))
}

// Close finishes the bar. It is idempotent.
func (p *ProgressObserver) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true

	if p.bar == nil {
		return nil
	}
	if p.seen >= p.total {
		return p.bar.Finish()
	}
	return p.bar.Exit()
}

// Seen returns the cumulative bytes reported so far.
func (p *ProgressObserver) Seen() int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seen
}

// Total returns the expected size of the transfer.
func (p *ProgressObserver) Total() int64 {
	return p.total
}

// Closed reports whether Close has been called.
func (p *ProgressObserver) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// NewObserverFactory returns an ObserverFactory that builds ProgressObservers
// with opts.
func NewObserverFactory(opts ...ObserverOption) ObserverFactory {
	return func(label string, dir Direction, total int64) (TransferObserver, error) {
		o, err := NewProgressObserver(label, dir, total, opts...)
		if err != nil {
			return nil, err
		}
		return o, nil
	}
}

func megabytes(n int64) float64 {
	return float64(n) / bytesPerMB
}

// progressReader reports every successful read to an observer.
type progressReader struct {
	r        io.Reader
	observer TransferObserver
}

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 {
		pr.observer.Report(int64(n))
	}
	return n, err
}
