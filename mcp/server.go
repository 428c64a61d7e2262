// Package mcp exposes the synthesis services to Model Context Protocol
// clients as the speak and list_voices tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/middlemost/edgevox"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Name and version advertised during the MCP handshake.
const (
	Name    = "edgevox"
	Version = "1.0.0"
)

// Tool names advertised in the catalog.
const (
	ToolSpeak      = "speak"
	ToolListVoices = "list_voices"
)

// Defaults applied when optional speak arguments are omitted.
const (
	DefaultVoice      = "en-US-AriaNeural"
	DefaultOutputFile = "/tmp/output.mp3"
)

// Server serves the tool catalog and dispatches invocations.
type Server struct {
	server *mcp.Server

	// Services
	TTSService  edgevox.TTSService
	FileService edgevox.FileService

	// Defaults applied when optional arguments are omitted.
	DefaultVoice      string
	DefaultOutputFile string

	LogOutput io.Writer
}

// NewServer returns a new instance of Server.
func NewServer() *Server {
	return &Server{
		DefaultVoice:      DefaultVoice,
		DefaultOutputFile: DefaultOutputFile,
		LogOutput:         io.Discard,
	}
}

// Run serves MCP requests over stdio until the client disconnects or ctx
// is canceled.
func (s *Server) Run(ctx context.Context) error {
	return s.session().Run(ctx, &mcp.StdioTransport{})
}

// HTTPHandler returns a handler serving the same tools over the MCP
// streamable HTTP transport.
func (s *Server) HTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.session()
	}, nil)
}

// session returns the underlying MCP server, constructing it and
// registering the tool catalog on first use.
func (s *Server) session() *mcp.Server {
	if s.server == nil {
		s.server = mcp.NewServer(&mcp.Implementation{Name: Name, Version: Version}, nil)
		for _, t := range s.tools() {
			name := t.Name
			s.server.AddTool(t, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return s.callTool(ctx, name, arguments(req)), nil
			})
		}
	}
	return s.server
}

// tools returns the tool catalog in its advertised order.
func (s *Server) tools() []*mcp.Tool {
	return []*mcp.Tool{
		{
			Name:        ToolSpeak,
			Description: "Convert text to speech using Microsoft Edge TTS and save as MP3 file",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"text": map[string]any{
						"type":        "string",
						"description": "Text to convert to speech",
					},
					"voice": map[string]any{
						"type":        "string",
						"description": "Voice name (e.g., en-US-AriaNeural, en-GB-RyanNeural)",
						"default":     s.DefaultVoice,
					},
					"output_file": map[string]any{
						"type":        "string",
						"description": "Output file path (optional, defaults to " + s.DefaultOutputFile + ")",
						"default":     s.DefaultOutputFile,
					},
				},
				"required": []string{"text"},
			},
		},
		{
			Name:        ToolListVoices,
			Description: "List all available Edge TTS voices",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"language": map[string]any{
						"type":        "string",
						"description": "Filter by language code (e.g., en-US, es-ES). Optional.",
					},
				},
			},
		},
	}
}

// callTool routes an invocation to its handler. Handler failures are
// rendered as text results and never propagate to the transport.
func (s *Server) callTool(ctx context.Context, name string, args map[string]any) *mcp.CallToolResult {
	switch name {
	case ToolSpeak:
		summary, err := s.speak(ctx, parseSpeakArgs(args, s.DefaultVoice, s.DefaultOutputFile))
		if err != nil {
			return errorResult(errorText(err, "❌ Error generating speech: %s"))
		}
		return textResult(summary)

	case ToolListVoices:
		summary, err := s.listVoices(ctx, parseListVoicesArgs(args))
		if err != nil {
			return errorResult(errorText(err, "❌ Error listing voices: %s"))
		}
		return textResult(summary)

	default:
		return errorResult(fmt.Sprintf("❌ Unknown tool: %s", name))
	}
}

// arguments normalizes the request arguments into a map.
func arguments(req *mcp.CallToolRequest) map[string]any {
	if req == nil || req.Params == nil {
		return nil
	}

	var m map[string]any
	json.Unmarshal(req.Params.Arguments, &m)
	return m
}

// textResult returns a result with a single text content entry.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// errorResult returns a failed result with a single text content entry.
func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}
