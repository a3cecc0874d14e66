package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"pulsett/app/service/outbox"
	"pulsett/app/service/queue"
	"pulsett/app/service/reply"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/samber/do"
	"github.com/samber/oops"
)

const (
	serverName    = "pulsett"
	serverVersion = "1.0.0"
)

type Submitter interface {
	Submit(ctx context.Context, job queue.Job) (reply.Reply, error)
}

type Drainer interface {
	Drain(userID string) []outbox.Message
}

type Service struct {
	submitter Submitter
	outbox    Drainer
	server    *server.MCPServer
}

func New(di *do.Injector) (*Service, error) {
	return NewService(
		do.MustInvoke[*queue.Service](di),
		do.MustInvoke[*outbox.Service](di),
	), nil
}

func NewService(submitter Submitter, drainer Drainer) *Service {
	s := &Service{
		submitter: submitter,
		outbox:    drainer,
		server: server.NewMCPServer(
			serverName,
			serverVersion,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
	}

	s.server.AddTool(mcp.NewTool("reply",
		mcp.WithDescription("Reply to a user utterance"),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description("Conversation user id"),
		),
		mcp.WithString("text",
			mcp.Description("Typed text, transcript or emotion label"),
		),
		mcp.WithString("source",
			mcp.Description("Utterance source"),
			mcp.Enum(string(reply.SourceTyped), string(reply.SourceTranscribed), string(reply.SourceVision)),
		),
	), s.handleReply)

	s.server.AddTool(mcp.NewTool("start_session",
		mcp.WithDescription("Start a new conversation session for a user"),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description("Conversation user id"),
		),
	), s.handleStart)

	s.server.AddTool(mcp.NewTool("outbox",
		mcp.WithDescription("Fetch and clear replies sent to a user without a request, such as the inactivity farewell"),
		mcp.WithString("user_id",
			mcp.Required(),
			mcp.Description("Conversation user id"),
		),
	), s.handleOutbox)

	return s
}

func (s *Service) Server() *server.MCPServer {
	return s.server
}

// Run serves MCP over stdio until ctx is cancelled or stdin closes.
func (s *Service) Run(ctx context.Context) error {
	slog.Info("MCP server listening on stdio")

	stdio := server.NewStdioServer(s.server)
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		return oops.In("mcp").Wrapf(err, "stdio server stopped")
	}

	return nil
}

func (s *Service) handleReply(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	source := reply.Source(request.GetString("source", string(reply.SourceTyped)))
	switch source {
	case reply.SourceTyped, reply.SourceTranscribed, reply.SourceVision:
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown source %q", source)), nil
	}

	text := request.GetString("text", "")
	if source == reply.SourceTyped && text == "" {
		return mcp.NewToolResultError("text is required for typed input"), nil
	}

	return s.submit(ctx, queue.Job{
		Kind:      queue.KindTurn,
		UserID:    userID,
		Utterance: reply.Utterance{Text: text, Source: source},
	})
}

func (s *Service) handleStart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return s.submit(ctx, queue.Job{
		Kind:   queue.KindStart,
		UserID: userID,
	})
}

func (s *Service) handleOutbox(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	userID, err := request.RequireString("user_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	messages := s.outbox.Drain(userID)
	if messages == nil {
		messages = []outbox.Message{}
	}

	data, err := json.Marshal(messages)
	if err != nil {
		return nil, oops.In("mcp").With("user_id", userID).Wrapf(err, "failed to encode outbox")
	}

	return mcp.NewToolResultText(string(data)), nil
}

func (s *Service) submit(ctx context.Context, job queue.Job) (*mcp.CallToolResult, error) {
	r, err := s.submitter.Submit(ctx, job)
	if err != nil {
		slog.Warn("MCP tool call failed", "user_id", job.UserID, "kind", job.Kind, "error", err)
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(r.Text), nil
}
