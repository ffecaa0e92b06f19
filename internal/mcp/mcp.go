// Package mcp implements a Model Context Protocol server over stdio.
// It speaks newline-delimited JSON-RPC 2.0 and exposes a single tool,
// lookup_musician_performance, backed by the aggregator.
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/achadr/gigseeker/internal/aggregate"
	"github.com/achadr/gigseeker/internal/domain"
)

const (
	protocolVersion = "2024-11-05"
	serverName      = "gigseeker"
	serverVersion   = "1.0.0"

	toolName = "lookup_musician_performance"

	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
)

// Request is a JSON-RPC 2.0 request. A nil ID marks a notification.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error is a JSON-RPC 2.0 error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ToolDefinition describes one tool in a tools/list response.
type ToolDefinition struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	InputSchema interface{} `json:"inputSchema"`
}

// Server dispatches MCP requests to the aggregator.
type Server struct {
	aggregator *aggregate.Service
	logger     *slog.Logger

	mu  sync.Mutex
	out *json.Encoder
}

// New builds a Server that reads from in and writes to out.
func New(aggregator *aggregate.Service, logger *slog.Logger, out io.Writer) *Server {
	return &Server{
		aggregator: aggregator,
		logger:     logger,
		out:        json.NewEncoder(out),
	}
}

// Run reads newline-delimited JSON-RPC requests from in until EOF or
// ctx cancellation. Malformed lines get a parse error response;
// notifications are consumed silently.
func (s *Server) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.sendError(nil, codeParseError, "Parse error: "+err.Error())
			continue
		}
		s.Handle(ctx, req)
	}
	return scanner.Err()
}

// Handle dispatches a single request and writes the response, if any.
func (s *Server) Handle(ctx context.Context, req Request) {
	s.logger.Debug("mcp request", "method", req.Method, "id", req.ID)

	if strings.HasPrefix(req.Method, "notifications/") {
		return
	}

	switch req.Method {
	case "initialize":
		s.handleInitialize(req)
	case "tools/list":
		s.handleToolsList(req)
	case "tools/call":
		s.handleToolCall(ctx, req)
	default:
		s.sendError(req.ID, codeMethodNotFound, "Method not found: "+req.Method)
	}
}

func (s *Server) handleInitialize(req Request) {
	s.sendResult(req.ID, map[string]interface{}{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]interface{}{
			"tools": map[string]interface{}{},
		},
		"serverInfo": map[string]interface{}{
			"name":    serverName,
			"version": serverVersion,
		},
	})
}

func (s *Server) handleToolsList(req Request) {
	tools := []ToolDefinition{
		{
			Name: toolName,
			Description: "Look up whether a musician has performed in a specific country or location. " +
				"Searches concert databases, Wikipedia, and news sources for performance data. " +
				"Returns performance dates, venues, and article links.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"musician": map[string]interface{}{
						"type":        "string",
						"description": "The name of the musician or band",
					},
					"location": map[string]interface{}{
						"type":        "string",
						"description": "The country to search for performances (e.g., 'USA', 'France', 'UK')",
					},
				},
				"required": []string{"musician"},
			},
		},
	}
	s.sendResult(req.ID, map[string]interface{}{"tools": tools})
}

func (s *Server) handleToolCall(ctx context.Context, req Request) {
	var params struct {
		Name      string `json:"name"`
		Arguments struct {
			Musician string `json:"musician"`
			Location string `json:"location"`
		} `json:"arguments"`
	}
	if err := json.Unmarshal(req.Params, &params); err != nil {
		s.sendError(req.ID, codeInvalidParams, "Invalid params: "+err.Error())
		return
	}
	if params.Name != toolName {
		s.sendError(req.ID, codeMethodNotFound, "Unknown tool: "+params.Name)
		return
	}
	if strings.TrimSpace(params.Arguments.Musician) == "" {
		s.sendError(req.ID, codeInvalidParams, "Musician name is required")
		return
	}

	result, err := s.aggregator.Aggregate(ctx, domain.SearchParams{
		Artist:  params.Arguments.Musician,
		Country: params.Arguments.Location,
	})
	if err != nil {
		s.sendError(req.ID, codeInternalError, "Lookup failed: "+err.Error())
		return
	}

	s.sendResult(req.ID, map[string]interface{}{
		"content": []map[string]interface{}{
			{
				"type": "text",
				"text": renderResult(result),
			},
		},
	})
}

// renderResult formats an aggregate result as markdown: the five most
// recent events with their sources, then up to three supporting links.
func renderResult(result domain.PerformanceResult) string {
	var b strings.Builder

	if !result.Performed {
		b.WriteString("**No performance records found**\n\n")
		if result.Message != "" {
			b.WriteString(result.Message)
		} else if result.Location != "worldwide" {
			fmt.Fprintf(&b, "Could not find performances for %s in %s.", result.Artist, result.Location)
		} else {
			fmt.Fprintf(&b, "Could not find performances for %s.", result.Artist)
		}
		return b.String()
	}

	fmt.Fprintf(&b, "**Yes, %s has performed in %s**\n\n", result.Artist, result.Location)
	fmt.Fprintf(&b, "Found %d performance(s):\n\n", len(result.Events))

	shown := result.Events
	if len(shown) > 5 {
		shown = shown[:5]
	}
	for i, event := range shown {
		fmt.Fprintf(&b, "%d. **%s** - %s, %s, %s\n", i+1, event.Date, event.Venue, event.City, event.Country)
		fmt.Fprintf(&b, "   Source: %s - %s\n\n", event.Source, event.SourceURL)
	}
	if extra := len(result.Events) - 5; extra > 0 {
		fmt.Fprintf(&b, "... and %d more events\n\n", extra)
	}

	if len(result.Sources) > 0 {
		b.WriteString("**Additional sources:**\n")
		links := result.Sources
		if len(links) > 3 {
			links = links[:3]
		}
		for i, link := range links {
			fmt.Fprintf(&b, "%d. [%s](%s)", i+1, link.Title, link.URL)
			if link.PublishedDate != "" {
				fmt.Fprintf(&b, " (%s)", link.PublishedDate)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (s *Server) sendResult(id, result interface{}) {
	s.send(Response{JSONRPC: "2.0", ID: id, Result: result})
}

func (s *Server) sendError(id interface{}, code int, message string) {
	s.send(Response{JSONRPC: "2.0", ID: id, Error: &Error{Code: code, Message: message}})
}

func (s *Server) send(resp Response) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.out.Encode(resp); err != nil {
		s.logger.Error("mcp write failed", "error", err)
	}
}
