package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"

	"github.com/flarexio/docqa"
)

type stubService struct {
	docqa.Service

	sessionID string
	question  string
	size      docqa.SummarySize
	docs      map[string][]string
	history   map[string][]docqa.Exchange
}

func (s *stubService) AddDocument(ctx context.Context, sessionID string, content string, source string) (int, error) {
	s.docs[sessionID] = append(s.docs[sessionID], content)
	return 1, nil
}

func (s *stubService) Ask(ctx context.Context, sessionID string, question string) (string, error) {
	s.sessionID = sessionID
	s.question = question

	if _, ok := s.docs[sessionID]; !ok {
		return "", docqa.ErrNoDocuments
	}

	return "forty-two", nil
}

func (s *stubService) GetDocuments(ctx context.Context, sessionID string) ([]string, error) {
	docs, ok := s.docs[sessionID]
	if !ok {
		return nil, docqa.ErrNoDocuments
	}

	return docs, nil
}

func (s *stubService) SummarizeSession(ctx context.Context, sessionID string, size docqa.SummarySize) (string, error) {
	s.size = size
	return "summary", nil
}

func (s *stubService) History(ctx context.Context, sessionID string) ([]docqa.Exchange, error) {
	if sessionID == "" {
		return nil, docqa.ErrInvalidSessionID
	}

	return s.history[sessionID], nil
}

func (s *stubService) HasSession(ctx context.Context, sessionID string) bool {
	_, ok := s.docs[sessionID]
	return ok
}

func newStubService() *stubService {
	return &stubService{
		docs:    make(map[string][]string),
		history: make(map[string][]docqa.Exchange),
	}
}

func callTool(t *testing.T, svc docqa.Service, input string) mcp.JSONRPCMessage {
	var req JSONRPCRequest
	if err := json.Unmarshal([]byte(input), &req); err != nil {
		t.Fatal(err)
	}

	return CallToolEndpoint(svc)(context.Background(), req)
}

func toolText(t *testing.T, msg mcp.JSONRPCMessage) (string, bool) {
	resp, ok := msg.(mcp.JSONRPCResponse)
	if !ok {
		t.Fatalf("unexpected message: %#v", msg)
	}

	result, ok := resp.Result.(*mcp.CallToolResult)
	if !ok || len(result.Content) == 0 {
		t.Fatalf("unexpected result: %#v", resp.Result)
	}

	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("unexpected content: %#v", result.Content[0])
	}

	return text.Text, result.IsError
}

func TestUnmarshalInitializeRequest(t *testing.T) {
	assert := assert.New(t)

	input := []byte(`{
	  "jsonrpc": "2.0",
	  "id": 1,
	  "method": "initialize",
	  "params": {
	    "protocolVersion": "2024-11-05",
	    "capabilities": {
	      "roots": {
	        "listChanged": true
	      },
	      "sampling": {}
	    },
	    "clientInfo": {
	      "name": "ExampleClient",
	      "version": "1.0.0"
	    }
	  }
	}`)

	var req JSONRPCRequest
	if err := json.Unmarshal(input, &req); err != nil {
		assert.Fail(err.Error())
		return
	}

	var params mcp.InitializeParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		assert.Fail(err.Error())
		return
	}

	assert.Equal(mcp.JSONRPC_VERSION, req.JSONRPC)
	assert.Equal(mcp.NewRequestId(int64(1)), req.ID)
	assert.Equal(mcp.MethodInitialize, req.Method)
	assert.Equal("2024-11-05", params.ProtocolVersion)

	msg := InitializeEndpoint(newStubService())(context.Background(), req)

	resp, ok := msg.(mcp.JSONRPCResponse)
	if !assert.True(ok) {
		return
	}

	result, ok := resp.Result.(*mcp.InitializeResult)
	if !assert.True(ok) {
		return
	}

	assert.Equal("2024-11-05", result.ProtocolVersion)
	assert.Equal("docqa", result.ServerInfo.Name)
}

func TestListTools(t *testing.T) {
	assert := assert.New(t)

	var req JSONRPCRequest
	req.ID = mcp.NewRequestId(int64(3))
	req.Method = mcp.MethodToolsList

	msg := ListToolsEndpoint(newStubService())(context.Background(), req)

	resp, ok := msg.(mcp.JSONRPCResponse)
	if !assert.True(ok) {
		return
	}

	result, ok := resp.Result.(*mcp.ListToolsResult)
	if !assert.True(ok) {
		return
	}

	names := make([]string, len(result.Tools))
	for i, tool := range result.Tools {
		names[i] = tool.Name
	}

	assert.ElementsMatch([]string{
		"add_document", "ask_documents", "list_documents",
		"summarize_text", "summarize_session", "chat_history", "clear_session", "has_session",
	}, names)

	for _, tool := range result.Tools {
		_, ok := handlers[tool.Name]
		assert.True(ok, tool.Name)
	}
}

func TestCallToolAsk(t *testing.T) {
	assert := assert.New(t)

	svc := newStubService()
	svc.docs["s1"] = []string{"The answer is forty-two."}

	msg := callTool(t, svc, `{
	  "jsonrpc": "2.0",
	  "id": 2,
	  "method": "tools/call",
	  "params": {
	    "name": "ask_documents",
	    "arguments": {
	      "session_id": "s1",
	      "question": "What is the answer?"
	    }
	  }
	}`)

	text, isError := toolText(t, msg)
	assert.False(isError)
	assert.Equal("forty-two", text)
	assert.Equal("s1", svc.sessionID)
	assert.Equal("What is the answer?", svc.question)
}

func TestCallToolServiceError(t *testing.T) {
	assert := assert.New(t)

	msg := callTool(t, newStubService(), `{
	  "jsonrpc": "2.0",
	  "id": 4,
	  "method": "tools/call",
	  "params": {
	    "name": "ask_documents",
	    "arguments": {"session_id": "s2", "question": "Anything?"}
	  }
	}`)

	text, isError := toolText(t, msg)
	assert.True(isError)
	assert.Equal(docqa.ErrNoDocuments.Error(), text)
}

func TestCallToolAddAndList(t *testing.T) {
	assert := assert.New(t)

	svc := newStubService()

	msg := callTool(t, svc, `{"jsonrpc":"2.0","id":5,"method":"tools/call",
	  "params":{"name":"add_document","arguments":{"session_id":"s1","content":"Alpha beta.","source":"a.txt"}}}`)

	text, isError := toolText(t, msg)
	assert.False(isError)
	assert.Equal("Document indexed into 1 chunks.", text)

	msg = callTool(t, svc, `{"jsonrpc":"2.0","id":6,"method":"tools/call",
	  "params":{"name":"list_documents","arguments":{"session_id":"s1"}}}`)

	text, _ = toolText(t, msg)
	assert.Equal("[1] Alpha beta.", text)

	msg = callTool(t, svc, `{"jsonrpc":"2.0","id":7,"method":"tools/call",
	  "params":{"name":"has_session","arguments":{"session_id":"s1"}}}`)

	text, _ = toolText(t, msg)
	assert.Equal("true", text)
}

func TestCallToolChatHistory(t *testing.T) {
	assert := assert.New(t)

	svc := newStubService()

	msg := callTool(t, svc, `{"jsonrpc":"2.0","id":11,"method":"tools/call",
	  "params":{"name":"chat_history","arguments":{"session_id":"s1"}}}`)

	text, isError := toolText(t, msg)
	assert.False(isError)
	assert.Equal("No questions asked yet.", text)

	svc.history["s1"] = []docqa.Exchange{
		{Question: "What is the answer?", Answer: "forty-two"},
		{Question: "Why?", Answer: "Nobody knows."},
	}

	msg = callTool(t, svc, `{"jsonrpc":"2.0","id":12,"method":"tools/call",
	  "params":{"name":"chat_history","arguments":{"session_id":"s1"}}}`)

	text, _ = toolText(t, msg)
	assert.Equal("Q: What is the answer?\nA: forty-two\n\nQ: Why?\nA: Nobody knows.", text)

	msg = callTool(t, svc, `{"jsonrpc":"2.0","id":13,"method":"tools/call",
	  "params":{"name":"chat_history","arguments":{"session_id":""}}}`)

	text, isError = toolText(t, msg)
	assert.True(isError)
	assert.Equal(docqa.ErrInvalidSessionID.Error(), text)
}

func TestCallToolSummarySize(t *testing.T) {
	assert := assert.New(t)

	svc := newStubService()

	msg := callTool(t, svc, `{"jsonrpc":"2.0","id":8,"method":"tools/call",
	  "params":{"name":"summarize_session","arguments":{"session_id":"s1","size":"Short (1-2 lines)"}}}`)

	text, _ := toolText(t, msg)
	assert.Equal("summary", text)
	assert.Equal(docqa.SummaryShort, svc.size)

	msg = callTool(t, svc, `{"jsonrpc":"2.0","id":9,"method":"tools/call",
	  "params":{"name":"summarize_session","arguments":{"session_id":"s1","size":"epic"}}}`)

	errResp, ok := msg.(mcp.JSONRPCError)
	if assert.True(ok) {
		assert.Equal(mcp.INVALID_PARAMS, errResp.Error.Code)
	}
}

func TestCallUnknownTool(t *testing.T) {
	assert := assert.New(t)

	msg := callTool(t, newStubService(), `{"jsonrpc":"2.0","id":10,"method":"tools/call",
	  "params":{"name":"get_weather","arguments":{"location":"New York"}}}`)

	errResp, ok := msg.(mcp.JSONRPCError)
	if assert.True(ok) {
		assert.Equal(mcp.INVALID_PARAMS, errResp.Error.Code)
		assert.Equal(mcp.NewRequestId(int64(10)), errResp.ID)
	}
}
