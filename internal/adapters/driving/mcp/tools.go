package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the question to answer from stored documents"`
	K     int    `json:"k,omitempty" jsonschema:"number of documents to use as context (default from settings)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Query   string        `json:"query"`
	Answer  string        `json:"answer"`
	Matches []MatchOutput `json:"matches"`
}

// MatchOutput is a single ranked document.
type MatchOutput struct {
	DocumentID int64   `json:"document_id"`
	Score      float64 `json:"score"`
}

// AddDocumentInput is the input schema for the add_document tool.
type AddDocumentInput struct {
	Content string `json:"content" jsonschema:"the text to store"`
}

// AddDocumentOutput is the output schema for the add_document tool.
type AddDocumentOutput struct {
	DocumentID int64 `json:"document_id"`
	Created    bool  `json:"created"`
}

// CountInput is the (empty) input schema for the count_documents tool.
type CountInput struct{}

// CountOutput is the output schema for the count_documents tool.
type CountOutput struct {
	Count int `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Answer a question from the stored documents and list the documents used",
	}, s.handleSearch)

	if s.ports.Ingestion != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "add_document",
			Description: "Store a document so later searches can use it. Identical content is stored once.",
		}, s.handleAddDocument)
	}

	if s.ports.Document != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "count_documents",
			Description: "Return the number of stored documents",
		}, s.handleCount)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	result, err := s.ports.Retrieval.Retrieve(ctx, input.Query, input.K)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := SearchOutput{
		Query:   result.Query,
		Answer:  result.Answer,
		Matches: make([]MatchOutput, len(result.Matches)),
	}
	for i, m := range result.Matches {
		output.Matches[i] = MatchOutput{DocumentID: int64(m.ID), Score: m.Score}
	}

	return nil, output, nil
}

// handleAddDocument handles the add_document tool invocation.
func (s *Server) handleAddDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AddDocumentInput,
) (*mcp.CallToolResult, AddDocumentOutput, error) {
	res, err := s.ports.Ingestion.Ingest(ctx, input.Content)
	if err != nil {
		return nil, AddDocumentOutput{}, err
	}
	return nil, AddDocumentOutput{DocumentID: int64(res.ID), Created: res.Created}, nil
}

// handleCount handles the count_documents tool invocation.
func (s *Server) handleCount(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ CountInput,
) (*mcp.CallToolResult, CountOutput, error) {
	n, err := s.ports.Document.Count(ctx)
	if err != nil {
		return nil, CountOutput{}, err
	}
	return nil, CountOutput{Count: n}, nil
}
