package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/papercomputeco/cassette/pkg/assistant"
)

var (
	askToolName    = "ask"
	askDescription = "Send a message to the cassette assistant and get its reply. Uses the default session unless session_id names another one."
)

// AskInput represents the input arguments for the MCP ask tool.
type AskInput struct {
	Message   string `json:"message" jsonschema:"the message to send to the assistant"`
	SessionID string `json:"session_id,omitempty" jsonschema:"an existing session id, defaults to the default session"`
}

// AskOutput is the assistant reply.
type AskOutput struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

func (s *Server) handleAsk(ctx context.Context, _ *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, AskOutput, error) {
	if input.Message == "" {
		return errorResult("message is required"), AskOutput{}, nil
	}

	id := input.SessionID
	if id == "" {
		id = assistant.DefaultSessionID
	}

	session, err := s.config.Sessions.Get(id)
	if err != nil {
		return errorResult(fmt.Sprintf("unknown session %q", id)), AskOutput{}, nil
	}

	reply, err := session.Respond(ctx, input.Message)
	if err != nil {
		if errors.Is(err, assistant.ErrTurnInFlight) {
			return errorResult("a reply is already in progress for this session"), AskOutput{}, nil
		}
		return errorResult(fmt.Sprintf("ask failed: %v", err)), AskOutput{}, nil
	}

	return textResult(reply), AskOutput{SessionID: id, Reply: reply}, nil
}
