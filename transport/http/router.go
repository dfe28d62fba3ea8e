package http

import (
	"github.com/gin-gonic/gin"
	"github.com/go-kit/kit/endpoint"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flarexio/docqa"

	mcpE "github.com/flarexio/docqa/mcp"
)

type TranslateEndpoints struct {
	Translate endpoint.Endpoint
	Languages endpoint.Endpoint
}

func AddRouters(r *gin.Engine, endpoints *docqa.EndpointSet, translation TranslateEndpoints) {
	// RESTful API routes
	api := r.Group("/api")
	{
		api.POST("/sessions", CreateSessionHandler())
		api.GET("/sessions/:session_id", HasSessionHandler(endpoints.HasSession))
		api.DELETE("/sessions/:session_id", ClearSessionHandler(endpoints.ClearSession))
		api.POST("/sessions/:session_id/files", UploadHandler(endpoints.AddDocument))
		api.POST("/sessions/:session_id/documents", AddDocumentHandler(endpoints.AddDocument))
		api.GET("/sessions/:session_id/documents", GetDocumentsHandler(endpoints.GetDocuments))
		api.POST("/sessions/:session_id/ask", AskHandler(endpoints.Ask))
		api.GET("/sessions/:session_id/history", HistoryHandler(endpoints.History))
		api.POST("/sessions/:session_id/summarize", SummarizeSessionHandler(endpoints.SummarizeSession))
		api.POST("/summarize", SummarizeHandler(endpoints.Summarize))

		if translation.Translate != nil {
			api.POST("/translate", TranslateHandler(translation.Translate))
		}

		if translation.Languages != nil {
			api.GET("/languages", LanguagesHandler(translation.Languages))
		}
	}
}

func AddMetricsRouter(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func AddStreamableRouters(r *gin.Engine, endpoints map[mcp.MCPMethod]mcpE.MCPEndpoint) {
	mcp := r.Group("/mcp")
	{
		mcp.POST("/", MCPStreamableHandler(endpoints))
	}
}
