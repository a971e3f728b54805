// Package mcp provides an MCP (Model Context Protocol) server exposing the
// cassette tools to MCP clients.
package mcp

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/cassette/pkg/assistant"
	"github.com/papercomputeco/cassette/pkg/tools"
	"github.com/papercomputeco/cassette/pkg/utils"
)

type Config struct {
	// Tools backs the time, calc, joke and weather tools.
	Tools *tools.Toolbox

	// Sessions enables the ask tool, which routes a message through the
	// full assistant including safety and memory. Optional.
	Sessions *assistant.Sessions

	// Noop for empty MCP server
	Noop bool

	Logger *slog.Logger
}

type Server struct {
	config    Config
	mcpServer *mcp.Server
	handler   *mcp.StreamableHTTPHandler
}

// NewServer creates a new MCP server with the cassette tools registered.
func NewServer(c Config) (*Server, error) {
	s := &Server{
		config: c,
	}

	// Create the MCP server
	mcpServer := mcp.NewServer(
		&mcp.Implementation{
			Name:    "cassette",
			Version: utils.Version,
		},
		&mcp.ServerOptions{},
	)

	if !c.Noop {
		if c.Tools == nil {
			return nil, errors.New("toolbox is required")
		}
		if c.Logger == nil {
			return nil, errors.New("logger is required")
		}

		mcp.AddTool(mcpServer, &mcp.Tool{
			Name:        tools.NameTime,
			Description: description(tools.NameTime),
		}, s.handleTime)

		mcp.AddTool(mcpServer, &mcp.Tool{
			Name:        tools.NameCalc,
			Description: description(tools.NameCalc),
		}, s.handleCalc)

		mcp.AddTool(mcpServer, &mcp.Tool{
			Name:        tools.NameJoke,
			Description: description(tools.NameJoke),
		}, s.handleJoke)

		mcp.AddTool(mcpServer, &mcp.Tool{
			Name:        tools.NameWeather,
			Description: description(tools.NameWeather),
		}, s.handleWeather)

		if c.Sessions != nil {
			mcp.AddTool(mcpServer, &mcp.Tool{
				Name:        askToolName,
				Description: askDescription,
			}, s.handleAsk)
		}
	}

	s.mcpServer = mcpServer

	// Create a streamable HTTP net/http handler for stateless operations
	s.handler = mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server {
			return mcpServer
		},
		&mcp.StreamableHTTPOptions{
			Stateless: true,
		},
	)

	return s, nil
}

// Handler returns the HTTP handler for the MCP server.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// MCPServer returns the underlying server, for in-process transports.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcpServer
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}
