package nats

import (
	"github.com/nats-io/nats.go/micro"

	"github.com/flarexio/docqa"
)

func AddEndpoints(group micro.Group, endpoints *docqa.EndpointSet) {
	group.AddEndpoint("add_document", AddDocumentHandler(endpoints.AddDocument))
	group.AddEndpoint("ask", AskHandler(endpoints.Ask))
	group.AddEndpoint("get_documents", GetDocumentsHandler(endpoints.GetDocuments))
	group.AddEndpoint("summarize", SummarizeHandler(endpoints.Summarize))
	group.AddEndpoint("summarize_session", SummarizeSessionHandler(endpoints.SummarizeSession))
	group.AddEndpoint("history", HistoryHandler(endpoints.History))
	group.AddEndpoint("clear_session", ClearSessionHandler(endpoints.ClearSession))
	group.AddEndpoint("has_session", HasSessionHandler(endpoints.HasSession))
}
