package tooltip

import (
	"time"

	"github.com/dshills/extedit/internal/logging"
	"github.com/dshills/extedit/internal/loop"
	"github.com/dshills/extedit/internal/parser"
)

// Pipeline debounces pointer motion into tooltip lookups. It must be used
// from the goroutine its Scheduler runs callbacks on.
type Pipeline struct {
	sched    loop.Scheduler
	resolver Resolver
	display  Display
	format   Formatter
	delay    time.Duration
	logger   *logging.Logger

	state  State
	timer  loop.Timer
	gen    uint64
	closed bool

	x, y   int
	item   parser.LanguageItem
	window Window
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithDelay sets the debounce delay.
func WithDelay(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.delay = d
		}
	}
}

// WithFormatter sets the content formatter.
func WithFormatter(f Formatter) Option {
	return func(p *Pipeline) {
		if f != nil {
			p.format = f
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l.WithComponent("tooltip")
		}
	}
}

// New creates an idle pipeline.
func New(sched loop.Scheduler, resolver Resolver, display Display, opts ...Option) *Pipeline {
	p := &Pipeline{
		sched:    sched,
		resolver: resolver,
		display:  display,
		format:   DefaultFormatter,
		delay:    DefaultDelay,
		logger:   logging.Null(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns the current state.
func (p *Pipeline) State() State {
	return p.state
}

// Item returns the item being shown, or nil.
func (p *Pipeline) Item() parser.LanguageItem {
	return p.item
}

// Delay returns the debounce delay.
func (p *Pipeline) Delay() time.Duration {
	return p.delay
}

// Motion reports the pointer at (x, y).
func (p *Pipeline) Motion(x, y int) {
	if p.closed {
		return
	}
	p.x, p.y = x, y

	switch p.state {
	case StateIdle, StateScheduled:
		p.schedule()
	case StateShowing:
		p.update(p.resolver.Resolve(x, y))
	}
}

// Hide destroys any visible tooltip and cancels any pending lookup.
func (p *Pipeline) Hide() {
	p.cancel()
	p.destroyWindow()
	p.item = nil
	if p.state != StateIdle {
		p.logger.Debug("hidden")
	}
	p.state = StateIdle
}

// Close hides the tooltip and stops the pipeline for good. Callbacks still
// in flight return without effect.
func (p *Pipeline) Close() {
	p.Hide()
	p.closed = true
}

// Closed reports whether Close was called.
func (p *Pipeline) Closed() bool {
	return p.closed
}

func (p *Pipeline) schedule() {
	p.cancel()
	gen := p.gen
	p.timer = p.sched.AfterFunc(p.delay, func() { p.fire(gen) })
	p.state = StateScheduled
}

func (p *Pipeline) cancel() {
	p.gen++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
}

func (p *Pipeline) fire(gen uint64) {
	if p.closed || gen != p.gen || p.state != StateScheduled {
		return
	}
	p.timer = nil

	res := p.resolver.Resolve(p.x, p.y)
	if res.Empty() {
		p.logger.Debug("nothing at %d,%d", p.x, p.y)
		p.state = StateIdle
		return
	}
	p.show(res)
}

// update decides what happens to a visible tooltip after the pointer moved.
func (p *Pipeline) update(res Result) {
	switch {
	case res.Item != nil:
		if p.window != nil && p.item != nil && parser.SameItem(p.item, res.Item) {
			return
		}
		p.show(res)
	case res.ErrorText != "":
		if p.window != nil {
			return
		}
		p.show(res)
	default:
		p.Hide()
	}
}

func (p *Pipeline) show(res Result) {
	p.destroyWindow()
	p.item = res.Item
	p.window = p.display.Show(p.format(res), p.x, p.y)
	p.state = StateShowing
	if res.Item != nil {
		p.logger.Debug("showing %s", res.Item.Key())
	} else {
		p.logger.Debug("showing error information")
	}
}

func (p *Pipeline) destroyWindow() {
	if p.window != nil {
		p.window.Destroy()
		p.window = nil
	}
}
