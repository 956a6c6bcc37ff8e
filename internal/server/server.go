package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ironsheep/image-reduce-mcp/internal/imaging"
)

const (
	jsonrpcVersion = "2.0"

	// ProtocolVersion is the MCP revision the server speaks.
	ProtocolVersion = "2024-11-05"

	// Name is reported as serverInfo.name during initialize.
	Name = "image-reduce-mcp"

	// maxMessageSize bounds a single request line.
	maxMessageSize = 1 << 20
)

// JSON-RPC error codes.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeToolFailed     = -32000
)

// Server answers MCP requests against a shared image cache.
type Server struct {
	// Version is reported as serverInfo.version during initialize.
	Version string

	cache *imaging.ImageCache
}

// Request is an incoming JSON-RPC request or notification. Notifications
// carry no ID.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response carries either Result or Error for the request with the same ID.
type Response struct {
	JSONRPC string         `json:"jsonrpc"`
	ID      interface{}    `json:"id"`
	Result  interface{}    `json:"result,omitempty"`
	Error   *ResponseError `json:"error,omitempty"`
}

// ResponseError is the error member of a Response.
type ResponseError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New returns a server with an empty image cache.
func New() *Server {
	return &Server{
		Version: "0.1.0",
		cache:   imaging.NewImageCache(),
	}
}

func (s *Server) logger() *slog.Logger {
	return imaging.Logger().With("component", "server")
}

// Run serves stdin and stdout until stdin closes or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve reads one request per line from r and writes one response per line
// to w. Blank lines are skipped, notifications get no reply and lines that
// are not JSON get a parse error with a null ID. It returns nil once r is
// exhausted and ctx.Err() as soon as ctx is done, even while a read blocks.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	lines, readErr := readLines(ctx, r)
	enc := json.NewEncoder(w)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return <-readErr
			}
			if resp := s.handleLine(line); resp != nil {
				if err := enc.Encode(resp); err != nil {
					return fmt.Errorf("write response: %w", err)
				}
			}
		}
	}
}

// readLines scans r on its own goroutine. Exactly one value reaches the
// error channel, always before lines is closed.
func readLines(ctx context.Context, r io.Reader) (<-chan []byte, <-chan error) {
	lines := make(chan []byte)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), maxMessageSize)
		for scanner.Scan() {
			if len(scanner.Bytes()) == 0 {
				continue
			}
			line := append([]byte(nil), scanner.Bytes()...)
			select {
			case lines <- line:
			case <-ctx.Done():
				readErr <- ctx.Err()
				return
			}
		}
		if err := scanner.Err(); err != nil {
			readErr <- fmt.Errorf("read request: %w", err)
			return
		}
		readErr <- nil
	}()

	return lines, readErr
}

func (s *Server) handleLine(line []byte) *Response {
	var req Request
	if err := json.Unmarshal(line, &req); err != nil {
		s.logger().Warn("malformed request", "error", err)
		return s.errorResponse(nil, codeParseError, "Parse error", err.Error())
	}
	s.logger().Debug("request", "method", req.Method, "id", req.ID)
	return s.handleRequest(&req)
}

func (s *Server) handleRequest(req *Request) *Response {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return s.result(req.ID, map[string]interface{}{})
	}
	return s.errorResponse(req.ID, codeMethodNotFound, fmt.Sprintf("Method not found: %s", req.Method), "")
}

func (s *Server) handleInitialize(req *Request) *Response {
	return s.result(req.ID, map[string]interface{}{
		"protocolVersion": ProtocolVersion,
		"capabilities": map[string]interface{}{
			"tools": map[string]interface{}{},
		},
		"serverInfo": map[string]interface{}{
			"name":    Name,
			"version": s.Version,
		},
	})
}

func (s *Server) result(id, v interface{}) *Response {
	return &Response{JSONRPC: jsonrpcVersion, ID: id, Result: v}
}

// errorResponse builds an error reply. An empty data is omitted.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *Response {
	e := &ResponseError{Code: code, Message: message}
	if data != "" {
		e.Data = data
	}
	return &Response{JSONRPC: jsonrpcVersion, ID: id, Error: e}
}
