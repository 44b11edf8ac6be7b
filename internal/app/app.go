// Package app hosts one editor session on a terminal screen: it loads the
// configuration, the file and its templates, connects the optional parser
// service and Lua script, and feeds terminal events to the editor.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/extedit/internal/binding"
	"github.com/dshills/extedit/internal/config"
	"github.com/dshills/extedit/internal/describe"
	"github.com/dshills/extedit/internal/editor"
	"github.com/dshills/extedit/internal/engine/document"
	"github.com/dshills/extedit/internal/extension/luaext"
	"github.com/dshills/extedit/internal/input/mouse"
	"github.com/dshills/extedit/internal/logging"
	"github.com/dshills/extedit/internal/loop"
	"github.com/dshills/extedit/internal/parser/rpcctx"
	"github.com/dshills/extedit/internal/renderer/tipwindow"
	"github.com/dshills/extedit/internal/template"
	"github.com/dshills/extedit/internal/view/coords"
)

// dialTimeout bounds connecting to the parser service.
const dialTimeout = 5 * time.Second

// Options configures the application.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// File is the file to edit.
	File string

	// ReadOnly opens the file read-only.
	ReadOnly bool

	// LogLevel overrides the configured log level when set.
	LogLevel string

	// LogFile receives the log. Without it nothing is logged, since the
	// terminal belongs to the editor.
	LogFile string

	// TemplatesPath overrides the configured template file when set.
	TemplatesPath string

	// ScriptPath is a Lua extension script.
	ScriptPath string

	// ParserAddr is the TCP address of a parser service.
	ParserAddr string
}

// Application runs an editor on a terminal.
type Application struct {
	opts    Options
	config  config.Options
	logger  *logging.Logger
	logFile *os.File

	loop      *loop.Loop
	doc       *document.Document
	binding   binding.Binding
	templates *template.Store
	watcher   *template.Watcher
	rpc       *rpcctx.Client
	describer *describe.Describer

	screen  tcell.Screen
	editor  *editor.Editor
	lua     *luaext.Extension
	mouse   mouse.Translator
	inside  bool
	status  string
	quit    bool
	running atomic.Bool

	shutdownOnce sync.Once
}

// New loads everything that does not need a screen.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts}
	if err := app.bootstrap(); err != nil {
		app.Shutdown()
		return nil, err
	}
	return app, nil
}

func (app *Application) bootstrap() error {
	// 1. Config
	app.config = config.Default()
	if app.opts.ConfigPath != "" {
		cfg, err := config.Load(app.opts.ConfigPath)
		switch {
		case errors.Is(err, config.ErrFileNotFound):
		case err != nil:
			return &InitError{Component: "config", Err: err}
		default:
			app.config = cfg
		}
	}
	if app.opts.LogLevel != "" {
		app.config.LogLevel = app.opts.LogLevel
	}
	if app.opts.TemplatesPath != "" {
		app.config.TemplatesPath = app.opts.TemplatesPath
	}

	// 2. Logging
	var out io.Writer = io.Discard
	if app.opts.LogFile != "" {
		f, err := os.OpenFile(app.opts.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return &InitError{Component: "log", Err: err}
		}
		app.logFile = f
		out = f
	}
	app.logger = logging.New(logging.Config{
		Level:  logging.ParseLevel(app.config.LogLevel),
		Output: out,
		Prefix: "extedit",
	})
	logging.SetDefault(app.logger)

	// 3. Display binding
	b, err := Bindings().ForFile(app.opts.File)
	if err != nil {
		return &InitError{Component: "display binding", Err: fmt.Errorf("%s: %w", app.opts.File, err)}
	}
	app.binding = b

	// 4. Document
	text := ""
	if app.opts.File != "" {
		data, err := os.ReadFile(app.opts.File)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return &InitError{Component: "document", Err: err}
		default:
			text = string(data)
		}
	}
	app.doc = document.New(text, document.WithReadOnly(app.opts.ReadOnly))

	// 5. Event loop
	app.loop = loop.New(loop.WithLogger(app.logger))

	// 6. Templates
	app.templates = template.NewStore()
	if path := app.config.TemplatesPath; path != "" {
		if err := app.templates.Load(path); err != nil {
			return &InitError{Component: "templates", Err: err}
		}
		if app.config.WatchTemplates {
			w, err := template.Watch(app.templates, path,
				template.WithWatchLogger(app.logger),
				template.OnReload(app.templatesReloaded))
			if err != nil {
				return &InitError{Component: "template watcher", Err: err}
			}
			app.watcher = w
		}
	}

	// 7. Parser service
	if app.opts.ParserAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
		defer cancel()
		c, err := rpcctx.Dial(ctx, "tcp", app.opts.ParserAddr, rpcctx.WithLogger(app.logger))
		if err != nil {
			return &InitError{Component: "parser service", Err: err}
		}
		app.rpc = c
	}

	app.describer = describe.New(describe.WithLogger(app.logger))
	return nil
}

// Bindings returns the display bindings the application knows.
func Bindings() *binding.Registry {
	return binding.NewRegistry(
		binding.Text{
			ID:         "source",
			Extensions: []string{".go", ".c", ".h", ".cs", ".java", ".js", ".ts", ".py", ".rs", ".lua", ".toml", ".json", ".yaml", ".yml"},
		},
		binding.Text{
			ID:         "text",
			Extensions: []string{"", ".txt", ".md"},
			MimeTypes:  []string{"text/", "application/json", "application/xml", "application/javascript"},
		},
	)
}

// SetScreen attaches an initialized screen and opens the editor on it.
func (app *Application) SetScreen(screen tcell.Screen) error {
	if app.editor != nil {
		return fmt.Errorf("%w: screen already set", ErrAlreadyRunning)
	}
	app.screen = screen

	display := tipwindow.New(screen,
		tipwindow.WithAnchor(func(x, y, w int) coords.Point {
			return app.editor.Coords().TooltipAnchor(x, y, w)
		}),
		tipwindow.WithRedraw(func(tipwindow.Rect) { app.render() }),
	)

	opts := []editor.Option{
		editor.WithFileName(app.opts.File),
		editor.WithOptions(app.config),
		editor.WithTemplates(app.templates),
		editor.WithDisplay(display),
		editor.WithFormatter(app.describer.Content),
		editor.WithLogger(app.logger),
		editor.WithContextMenu(app.contextMenu),
	}
	if app.rpc != nil {
		opts = append(opts, editor.WithParserContext(app.rpc), editor.WithDiagnostics(app.rpc))
	}
	app.editor = editor.New(app.doc, app.loop, opts...)

	if app.opts.ScriptPath != "" {
		app.lua = luaext.New(app.editor, luaext.WithLogger(app.logger))
		if err := app.lua.LoadFile(app.opts.ScriptPath); err != nil {
			return &InitError{Component: "lua extension", Err: err}
		}
		app.editor.SetExtension(app.lua)
	}
	return nil
}

// Run processes terminal events until Quit, Shutdown or ctx ends. It
// returns ErrQuit after a requested quit.
func (app *Application) Run(ctx context.Context) error {
	if app.screen == nil || app.editor == nil {
		return ErrNoScreen
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	app.screen.EnableMouse(tcell.MouseMotionEvents)
	app.screen.EnableFocus()
	app.render()

	go app.pollEvents()
	err := app.loop.Run(ctx)
	if app.quit {
		return ErrQuit
	}
	return err
}

func (app *Application) pollEvents() {
	for {
		ev := app.screen.PollEvent()
		if ev == nil {
			return
		}
		if !app.loop.Post(func() { app.handleEvent(ev) }) {
			return
		}
	}
}

// Quit stops Run.
func (app *Application) Quit() {
	app.quit = true
	app.loop.Stop()
}

// Save writes the document to its file in its original line endings.
func (app *Application) Save() error {
	if app.opts.File == "" {
		return errors.New("no file name")
	}
	if app.doc.ReadOnly() {
		return document.ErrReadOnly
	}
	if err := os.WriteFile(app.opts.File, []byte(app.doc.SaveText()), 0o644); err != nil {
		return err
	}
	app.logger.Info("saved %s", app.opts.File)
	return nil
}

// Shutdown releases every resource. It is safe to call more than once.
func (app *Application) Shutdown() {
	app.shutdownOnce.Do(func() {
		if app.editor != nil {
			app.editor.Close()
		}
		if app.lua != nil {
			app.lua.Close()
		}
		if app.watcher != nil {
			_ = app.watcher.Close()
		}
		if app.rpc != nil {
			_ = app.rpc.Close()
		}
		if app.loop != nil {
			app.loop.Stop()
		}
		if app.screen != nil {
			app.screen.Fini()
		}
		if app.logFile != nil {
			_ = app.logFile.Close()
		}
	})
}

// Config returns the effective options.
func (app *Application) Config() config.Options { return app.config }

// Document returns the edited document.
func (app *Application) Document() *document.Document { return app.doc }

// Editor returns the editor, or nil before SetScreen.
func (app *Application) Editor() *editor.Editor { return app.editor }

// Binding returns the display binding chosen for the file.
func (app *Application) Binding() binding.Binding { return app.binding }

// Templates returns the template store.
func (app *Application) Templates() *template.Store { return app.templates }

// Status returns the status message.
func (app *Application) Status() string { return app.status }

func (app *Application) templatesReloaded(err error) {
	app.loop.Post(func() {
		if err != nil {
			app.status = "templates: " + err.Error()
		} else {
			app.status = "templates reloaded"
		}
		app.render()
	})
}

func (app *Application) contextMenu(offset int) {
	loc := app.doc.OffsetToLocation(offset)
	app.status = fmt.Sprintf("menu at %d:%d", loc.Line+1, loc.Column+1)
}
