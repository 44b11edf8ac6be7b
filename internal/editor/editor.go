// Package editor ties a document, its caret and the tooltip pipeline into an
// editing session and routes key presses through an optional extension,
// code templates and bracket completion.
//
// An Editor is not safe for concurrent use. Drive it from one goroutine,
// normally the loop.Loop that also runs its timers.
package editor

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/extedit/internal/config"
	"github.com/dshills/extedit/internal/engine/caret"
	"github.com/dshills/extedit/internal/engine/document"
	"github.com/dshills/extedit/internal/extension"
	"github.com/dshills/extedit/internal/logging"
	"github.com/dshills/extedit/internal/loop"
	"github.com/dshills/extedit/internal/parser"
	"github.com/dshills/extedit/internal/template"
	"github.com/dshills/extedit/internal/tooltip"
	"github.com/dshills/extedit/internal/view/coords"
)

// DefaultLookupTimeout bounds a single parser lookup for the tooltip.
const DefaultLookupTimeout = 2 * time.Second

// ErrClosed is returned when using a closed editor.
var ErrClosed = errors.New("editor is closed")

// Editor is an editing session over one document.
type Editor struct {
	id       uuid.UUID
	fileName string
	opts     config.Options

	doc    *document.Document
	caret  *caret.Caret
	coords *coords.Resolver
	tips   *tooltip.Pipeline
	router *Router

	ext         extension.Extension
	templates   *template.Store
	parser      parser.Context
	diagnostics parser.Diagnostics

	lookupTimeout time.Duration
	contextMenu   func(offset int)
	logger        *logging.Logger

	unsubscribe []func()
	closed      bool
}

// Option configures an Editor.
type Option func(*settings)

type settings struct {
	fileName      string
	opts          config.Options
	templates     *template.Store
	ext           extension.Extension
	parser        parser.Context
	diagnostics   parser.Diagnostics
	display       tooltip.Display
	formatter     tooltip.Formatter
	metrics       coords.Metrics
	lookupTimeout time.Duration
	contextMenu   func(offset int)
	logger        *logging.Logger
}

// WithFileName sets the document's file name, used to pick templates and
// the expression finder.
func WithFileName(name string) Option {
	return func(s *settings) { s.fileName = name }
}

// WithOptions sets the editor options.
func WithOptions(opts config.Options) Option {
	return func(s *settings) { s.opts = opts }
}

// WithTemplates sets the template store.
func WithTemplates(store *template.Store) Option {
	return func(s *settings) { s.templates = store }
}

// WithExtension attaches an extension.
func WithExtension(ext extension.Extension) Option {
	return func(s *settings) { s.ext = ext }
}

// WithParserContext sets the parser context used to resolve tooltips.
func WithParserContext(pc parser.Context) Option {
	return func(s *settings) { s.parser = pc }
}

// WithDiagnostics sets the source of error tooltips.
func WithDiagnostics(d parser.Diagnostics) Option {
	return func(s *settings) { s.diagnostics = d }
}

// WithDisplay sets where tooltips are shown.
func WithDisplay(d tooltip.Display) Option {
	return func(s *settings) { s.display = d }
}

// WithFormatter sets how tooltip content is built.
func WithFormatter(f tooltip.Formatter) Option {
	return func(s *settings) { s.formatter = f }
}

// WithMetrics sets the view metrics. The tab width comes from the options.
func WithMetrics(m coords.Metrics) Option {
	return func(s *settings) { s.metrics = m }
}

// WithLookupTimeout bounds each parser lookup.
func WithLookupTimeout(d time.Duration) Option {
	return func(s *settings) {
		if d > 0 {
			s.lookupTimeout = d
		}
	}
}

// WithContextMenu sets the function called on a right click, after the
// tooltip is hidden.
func WithContextMenu(fn func(offset int)) Option {
	return func(s *settings) { s.contextMenu = fn }
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates an editor for doc. Tooltip timers are scheduled on sched.
func New(doc *document.Document, sched loop.Scheduler, opts ...Option) *Editor {
	s := settings{
		opts:          config.Default(),
		metrics:       coords.DefaultMetrics(),
		lookupTimeout: DefaultLookupTimeout,
		display:       nopDisplay{},
		logger:        logging.Null(),
	}
	for _, opt := range opts {
		opt(&s)
	}

	id := uuid.New()
	e := &Editor{
		id:            id,
		fileName:      s.fileName,
		opts:          s.opts,
		doc:           doc,
		caret:         caret.New(doc),
		ext:           s.ext,
		templates:     s.templates,
		parser:        s.parser,
		diagnostics:   s.diagnostics,
		lookupTimeout: s.lookupTimeout,
		contextMenu:   s.contextMenu,
		logger:        s.logger.WithComponent("editor").WithField("session", id.String()),
	}

	metrics := s.metrics
	metrics.TabWidth = s.opts.TabWidth
	e.coords = coords.New(doc, metrics)

	tipOpts := []tooltip.Option{tooltip.WithDelay(s.opts.TipDelay), tooltip.WithLogger(s.logger)}
	if s.formatter != nil {
		tipOpts = append(tipOpts, tooltip.WithFormatter(s.formatter))
	}
	e.tips = tooltip.New(sched, tooltip.ResolverFunc(e.resolve), s.display, tipOpts...)

	e.router = NewRouter(
		Named("extension", KeyHandlerFunc(extensionKey)),
		Named("template", KeyHandlerFunc(templateKey)),
		Named("bracket", KeyHandlerFunc(bracketKey)),
		Named("default", KeyHandlerFunc(defaultKey)),
	)

	e.unsubscribe = append(e.unsubscribe,
		doc.OnChange(e.onTextChanged),
		e.caret.OnPositionChanged(e.onCaretMoved),
	)

	e.logger.Debug("opened %q", s.fileName)
	return e
}

// ID returns the session ID.
func (e *Editor) ID() uuid.UUID { return e.id }

// FileName returns the document's file name.
func (e *Editor) FileName() string { return e.fileName }

// Document returns the document.
func (e *Editor) Document() *document.Document { return e.doc }

// Caret returns the caret.
func (e *Editor) Caret() *caret.Caret { return e.caret }

// Coords returns the coordinate resolver.
func (e *Editor) Coords() *coords.Resolver { return e.coords }

// Tooltip returns the tooltip pipeline.
func (e *Editor) Tooltip() *tooltip.Pipeline { return e.tips }

// Router returns the key router.
func (e *Editor) Router() *Router { return e.router }

// Options returns the editor options.
func (e *Editor) Options() config.Options { return e.opts }

// SetOptions replaces the editor options.
func (e *Editor) SetOptions(opts config.Options) {
	e.opts = opts
	m := e.coords.Metrics()
	m.TabWidth = opts.TabWidth
	e.coords.SetMetrics(m)
}

// Extension returns the attached extension, or nil.
func (e *Editor) Extension() extension.Extension { return e.ext }

// SetExtension attaches ext, replacing any previous one. nil detaches.
func (e *Editor) SetExtension(ext extension.Extension) { e.ext = ext }

// Closed reports whether Close was called.
func (e *Editor) Closed() bool { return e.closed }

// Close hides any tooltip for good and detaches from the document.
func (e *Editor) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.tips.Close()
	for _, fn := range e.unsubscribe {
		fn()
	}
	e.unsubscribe = nil
	e.caret.Detach()
	e.logger.Debug("closed")
}

func (e *Editor) onTextChanged(ev document.ChangeEvent) {
	e.tips.Hide()
	if e.ext != nil {
		e.ext.TextChanged(ev.Offset, ev.End())
	}
}

func (e *Editor) onCaretMoved() {
	if e.ext != nil {
		e.ext.CursorPositionChanged()
	}
}

type nopDisplay struct{}

func (nopDisplay) Show(tooltip.Content, int, int) tooltip.Window { return nopWindow{} }

type nopWindow struct{}

func (nopWindow) Destroy() {}
