package rpcctx

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"

	"github.com/dshills/extedit/internal/logging"
	"github.com/dshills/extedit/internal/parser"
)

// DefaultTimeout bounds calls made without a deadline of their own.
const DefaultTimeout = 2 * time.Second

// Client is a parser.Context backed by a remote Server.
type Client struct {
	cli     *jrpc2.Client
	timeout time.Duration
	logger  *logging.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTimeout sets the per-call timeout for calls that need one.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l *logging.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l.WithComponent("rpcctx")
		}
	}
}

// NewClient creates a client talking over ch.
func NewClient(ch channel.Channel, opts ...ClientOption) *Client {
	c := &Client{
		cli:     jrpc2.NewClient(ch, nil),
		timeout: DefaultTimeout,
		logger:  logging.Null(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dial connects to a server listening on a network address. Messages are
// newline-delimited JSON.
func Dial(ctx context.Context, network, addr string, opts ...ClientOption) (*Client, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, network, addr)
	if err != nil {
		return nil, fmt.Errorf("dial parser service: %w", err)
	}
	return NewClient(channel.Line(conn, conn), opts...), nil
}

// Close closes the connection.
func (c *Client) Close() error {
	return c.cli.Close()
}

func (c *Client) call(ctx context.Context, method string, params, result any) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	if err := c.cli.CallResult(ctx, method, params, result); err != nil {
		c.logger.Debug("%s failed: %v", method, err)
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

// ResolveIdentifier implements parser.Context.
func (c *Client) ResolveIdentifier(ctx context.Context, expression string, line, column int, fileName, text string) (parser.LanguageItem, error) {
	var res ResolveResult
	err := c.call(ctx, MethodResolveIdentifier, ResolveParams{
		Expression: expression,
		Line:       line,
		Column:     column,
		FileName:   fileName,
		Text:       text,
	}, &res)
	if err != nil {
		return nil, err
	}
	if !res.Found || res.Item == nil {
		return nil, nil
	}
	return *res.Item, nil
}

// ExpressionFinder implements parser.Context. The returned finder asks the
// server and falls back to a local LexerFinder when the server has no
// finder for the file or the call fails.
func (c *Client) ExpressionFinder(fileName string) parser.ExpressionFinder {
	return &remoteFinder{c: c, fileName: fileName, local: parser.NewLexerFinder(fileName)}
}

// ErrorAt implements parser.Diagnostics. Failures read as no error.
func (c *Client) ErrorAt(offset int) string {
	var res ErrorAtResult
	if err := c.call(context.Background(), MethodErrorAt, ErrorAtParams{Offset: offset}, &res); err != nil {
		return ""
	}
	return res.Message
}

type remoteFinder struct {
	c        *Client
	fileName string
	local    *parser.LexerFinder
}

func (f *remoteFinder) FindFullExpression(text string, offset int) (parser.ExpressionResult, bool) {
	var res FindResult
	err := f.c.call(context.Background(), MethodFindExpression, FindParams{
		FileName: f.fileName,
		Text:     text,
		Offset:   offset,
	}, &res)
	if err != nil || !res.Supported {
		return f.local.FindFullExpression(text, offset)
	}
	if !res.Found {
		return parser.ExpressionResult{}, false
	}
	return parser.ExpressionResult{Expression: res.Expression, Start: res.Start, End: res.End}, true
}
