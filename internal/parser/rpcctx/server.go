package rpcctx

import (
	"context"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/channel"
	"github.com/creachadair/jrpc2/handler"

	"github.com/dshills/extedit/internal/parser"
)

// Server exposes a parser.Context over JSON-RPC.
type Server struct {
	pc    parser.Context
	diags parser.Diagnostics
	srv   *jrpc2.Server
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithDiagnostics serves error information from d.
func WithDiagnostics(d parser.Diagnostics) ServerOption {
	return func(s *Server) {
		s.diags = d
	}
}

// NewServer creates a server for pc.
func NewServer(pc parser.Context, opts ...ServerOption) *Server {
	s := &Server{pc: pc}
	for _, opt := range opts {
		opt(s)
	}
	s.srv = jrpc2.NewServer(handler.Map{
		MethodResolveIdentifier: handler.New(s.resolve),
		MethodFindExpression:    handler.New(s.find),
		MethodErrorAt:           handler.New(s.errorAt),
	}, nil)
	return s
}

// Start begins serving requests received on ch.
func (s *Server) Start(ch channel.Channel) *Server {
	s.srv.Start(ch)
	return s
}

// Stop shuts the server down and waits for it to finish.
func (s *Server) Stop() error {
	s.srv.Stop()
	return s.srv.Wait()
}

func (s *Server) resolve(ctx context.Context, p ResolveParams) (ResolveResult, error) {
	li, err := s.pc.ResolveIdentifier(ctx, p.Expression, p.Line, p.Column, p.FileName, p.Text)
	if err != nil {
		return ResolveResult{}, err
	}
	item, ok := parser.AsItem(li)
	if !ok {
		return ResolveResult{}, nil
	}
	return ResolveResult{Found: true, Item: &item}, nil
}

func (s *Server) find(_ context.Context, p FindParams) (FindResult, error) {
	finder := s.pc.ExpressionFinder(p.FileName)
	if finder == nil {
		return FindResult{}, nil
	}
	res, ok := finder.FindFullExpression(p.Text, p.Offset)
	if !ok {
		return FindResult{Supported: true}, nil
	}
	return FindResult{
		Supported:  true,
		Found:      true,
		Expression: res.Expression,
		Start:      res.Start,
		End:        res.End,
	}, nil
}

func (s *Server) errorAt(_ context.Context, p ErrorAtParams) (ErrorAtResult, error) {
	if s.diags == nil {
		return ErrorAtResult{}, nil
	}
	return ErrorAtResult{Message: s.diags.ErrorAt(p.Offset)}, nil
}
