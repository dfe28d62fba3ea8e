package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/flarexio/docqa"
)

type toolHandler func(ctx context.Context, svc docqa.Service, args json.RawMessage) (*mcp.CallToolResult, error)

var sizes = []string{
	string(docqa.SummaryShort),
	string(docqa.SummaryMedium),
	string(docqa.SummaryDetailed),
	string(docqa.SummaryComprehensive),
}

var tools = []mcp.Tool{
	mcp.NewTool("add_document",
		mcp.WithDescription("Index the text of a document under a session so it can be asked about."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to add the document to")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Plain text of the document")),
		mcp.WithString("source", mcp.Description("Document name shown when answers cite it")),
	),
	mcp.NewTool("ask_documents",
		mcp.WithDescription("Answer a question using the documents of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to search")),
		mcp.WithString("question", mcp.Required(), mcp.Description("Question in natural language")),
	),
	mcp.NewTool("list_documents",
		mcp.WithDescription("List the indexed passages of a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to list")),
	),
	mcp.NewTool("summarize_text",
		mcp.WithDescription("Summarize the given text."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Text to summarize")),
		mcp.WithString("size", mcp.Enum(sizes...), mcp.Description("Summary length, medium by default")),
	),
	mcp.NewTool("summarize_session",
		mcp.WithDescription("Summarize every document uploaded to a session."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to summarize")),
		mcp.WithString("size", mcp.Enum(sizes...), mcp.Description("Summary length, medium by default")),
	),
	mcp.NewTool("chat_history",
		mcp.WithDescription("List the questions asked in a session with their answers."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to read")),
	),
	mcp.NewTool("clear_session",
		mcp.WithDescription("Forget a session with its documents and chat history."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to clear")),
	),
	mcp.NewTool("has_session",
		mcp.WithDescription("Report whether a session holds any documents."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to check")),
	),
}

var handlers = map[string]toolHandler{
	"add_document":      addDocument,
	"ask_documents":     askDocuments,
	"list_documents":    listDocuments,
	"summarize_text":    summarizeText,
	"summarize_session": summarizeSession,
	"chat_history":      chatHistory,
	"clear_session":     clearSession,
	"has_session":       hasSession,
}

// Tools returns the tools exposed over MCP.
func Tools() []mcp.Tool {
	return tools
}

type sessionArgs struct {
	SessionID string `json:"session_id"`
}

func addDocument(ctx context.Context, svc docqa.Service, args json.RawMessage) (*mcp.CallToolResult, error) {
	var req docqa.AddDocumentRequest
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, err
	}

	n, err := svc.AddDocument(ctx, req.SessionID, req.Content, req.Source)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Document indexed into %d chunks.", n)), nil
}

func askDocuments(ctx context.Context, svc docqa.Service, args json.RawMessage) (*mcp.CallToolResult, error) {
	var req docqa.AskRequest
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, err
	}

	answer, err := svc.Ask(ctx, req.SessionID, req.Question)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(answer), nil
}

func listDocuments(ctx context.Context, svc docqa.Service, args json.RawMessage) (*mcp.CallToolResult, error) {
	var req sessionArgs
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, err
	}

	docs, err := svc.GetDocuments(ctx, req.SessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	parts := make([]string, len(docs))
	for i, doc := range docs {
		parts[i] = fmt.Sprintf("[%d] %s", i+1, doc)
	}

	return mcp.NewToolResultText(strings.Join(parts, "\n\n")), nil
}

func summarizeText(ctx context.Context, svc docqa.Service, args json.RawMessage) (*mcp.CallToolResult, error) {
	var req docqa.SummarizeRequest
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, err
	}

	summary, err := svc.Summarize(ctx, req.Text, req.Size)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(summary), nil
}

func summarizeSession(ctx context.Context, svc docqa.Service, args json.RawMessage) (*mcp.CallToolResult, error) {
	var req docqa.SummarizeSessionRequest
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, err
	}

	summary, err := svc.SummarizeSession(ctx, req.SessionID, req.Size)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(summary), nil
}

func chatHistory(ctx context.Context, svc docqa.Service, args json.RawMessage) (*mcp.CallToolResult, error) {
	var req sessionArgs
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, err
	}

	history, err := svc.History(ctx, req.SessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(history) == 0 {
		return mcp.NewToolResultText("No questions asked yet."), nil
	}

	parts := make([]string, len(history))
	for i, exchange := range history {
		parts[i] = fmt.Sprintf("Q: %s\nA: %s", exchange.Question, exchange.Answer)
	}

	return mcp.NewToolResultText(strings.Join(parts, "\n\n")), nil
}

func clearSession(ctx context.Context, svc docqa.Service, args json.RawMessage) (*mcp.CallToolResult, error) {
	var req sessionArgs
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, err
	}

	if err := svc.ClearSession(ctx, req.SessionID); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Session cleared."), nil
}

func hasSession(ctx context.Context, svc docqa.Service, args json.RawMessage) (*mcp.CallToolResult, error) {
	var req sessionArgs
	if err := json.Unmarshal(args, &req); err != nil {
		return nil, err
	}

	if svc.HasSession(ctx, req.SessionID) {
		return mcp.NewToolResultText("true"), nil
	}

	return mcp.NewToolResultText("false"), nil
}
