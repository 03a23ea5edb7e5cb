// ABOUTME: RPC mode for the host runtime: JSONL requests on stdin, responses on stdout
// ABOUTME: Requests run one at a time on a worker; immediate methods bypass the queue

package rpc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mauromedda/pi-hooks/internal/log"
)

// queueSize bounds requests read ahead of the worker.
const queueSize = 64

var logger = log.Component("rpc")

// Server handles RPC requests from the host runtime.
type Server struct {
	reader *bufio.Scanner
	writer io.Writer
	router *Router

	mu       sync.Mutex // guards writer and writeErr
	writeErr error
}

// NewServer creates an RPC server reading from stdin, writing to stdout.
func NewServer(router *Router) *Server {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 1024*1024), 10*1024*1024)
	return &Server{
		reader: scanner,
		writer: os.Stdout,
		router: router,
	}
}

// Run starts the RPC server loop and returns when the input ends or ctx is
// done. Once ctx is cancelled or a write fails, the request in progress is
// aborted and the queued ones get a shutdown error. Run returns the first
// write failure, or the input error when the input ended on its own.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	work := make(chan Request, queueSize)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for req := range work {
			if ctx.Err() != nil {
				s.respond(Response{ID: req.ID, Error: NewShutdownError()})
				continue
			}
			if err := s.respond(s.router.Handle(ctx, req)); err != nil {
				cancel()
			}
		}
	}()

	// Scan blocks on stdin, so it runs apart from the select below. After a
	// shutdown it is left blocked until the process exits.
	lines := make(chan []byte)
	go func() {
		defer close(lines)
		for s.reader.Scan() {
			line := append([]byte(nil), s.reader.Bytes()...)
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
	}()

	inputDone := false
	for !inputDone && ctx.Err() == nil {
		select {
		case <-ctx.Done():
		case line, ok := <-lines:
			if !ok {
				inputDone = true
				break
			}
			s.dispatch(ctx, work, line)
		}
	}
	close(work)
	wg.Wait()

	s.mu.Lock()
	werr := s.writeErr
	s.mu.Unlock()
	if werr != nil {
		return werr
	}
	if inputDone {
		return s.reader.Err()
	}
	logger.Debug("shutting down: %v", context.Cause(ctx))
	return nil
}

// dispatch answers malformed and immediate requests inline and queues the
// rest for the worker.
func (s *Server) dispatch(ctx context.Context, work chan<- Request, line []byte) {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		s.sendError("", ErrCodeParse, fmt.Sprintf("parse error: %v", err))
		return
	}
	if req.Method == "" {
		s.respond(Response{ID: req.ID, Error: NewInvalidRequestError("missing method")})
		return
	}
	if s.router.Immediate(req.Method) {
		s.respond(s.router.Handle(ctx, req))
		return
	}
	select {
	case work <- req:
	case <-ctx.Done():
		s.respond(Response{ID: req.ID, Error: NewShutdownError()})
	}
}

// Notify writes an unsolicited message. It is safe to call from any
// goroutine, including event bus subscribers.
func (s *Server) Notify(method string, params any) {
	data, err := json.Marshal(Notification{Method: method, Params: params})
	if err != nil {
		logger.Warn("marshal %s notification: %v", method, err)
		return
	}
	_ = s.writeLine(data)
}

// respond writes resp, reporting an internal error instead when it cannot
// be encoded.
func (s *Server) respond(resp Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		s.sendError(resp.ID, ErrCodeInternal, fmt.Sprintf("internal error: %v", err))
		return nil
	}
	return s.writeLine(data)
}

func (s *Server) sendError(id string, code int, message string) {
	resp := Response{
		ID:    id,
		Error: &Error{Code: code, Message: message},
	}
	data, _ := json.Marshal(resp)
	_ = s.writeLine(data)
}

func (s *Server) writeLine(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.writeErr != nil {
		return s.writeErr
	}
	data = append(data, '\n')
	if _, err := s.writer.Write(data); err != nil {
		s.writeErr = fmt.Errorf("writing response: %w", err)
		return s.writeErr
	}
	return nil
}
