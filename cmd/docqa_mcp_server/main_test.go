package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"

	mcpE "github.com/flarexio/docqa/mcp"
)

func TestStdioMCPServerListen(t *testing.T) {
	assert := assert.New(t)

	s := NewStdioMCPServer()
	assert.NoError(s.AddEndpoint(mcp.MethodPing, mcpE.PingEndpoint(nil)))
	assert.Error(s.AddEndpoint(mcp.MethodPing, mcpE.PingEndpoint(nil)))

	in := strings.NewReader(strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"ping"}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`not json`,
		`{"jsonrpc":"2.0","id":2,"method":"resources/list"}`,
	}, "\n"))

	var out bytes.Buffer
	err := s.Listen(context.Background(), in, &out)
	assert.NoError(err)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if !assert.Len(lines, 2) {
		return
	}

	assert.JSONEq(`{"jsonrpc":"2.0","id":1,"result":{}}`, lines[0])
	assert.Contains(lines[1], `"id":2`)
	assert.Contains(lines[1], "method not found")
}
