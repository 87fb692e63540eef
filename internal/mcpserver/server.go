// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes Othala's note templates for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/othala/internal/models"
	"github.com/starford/othala/internal/recordservice"
	"github.com/starford/othala/internal/repo"
)

// Server wraps the MCP server with Othala tools.
type Server struct {
	mcp *server.MCPServer
	svc *recordservice.Service
}

// New creates a new MCP server with all Othala tools registered.
func New(svc *recordservice.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Othala",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_templates",
		mcp.WithDescription("Full-text search through template bodies and categories."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchTemplates)

	s.mcp.AddTool(mcp.NewTool("read_template",
		mcp.WithDescription("Read a note template by its numeric id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("10-digit template id")),
	), s.readTemplate)

	s.mcp.AddTool(mcp.NewTool("create_template",
		mcp.WithDescription("Create a new note template in the given category. "+
			"The id is assigned automatically and returned. Read the contract first "+
			"via the get_template_contract tool or the othala://template-format resource."),
		mcp.WithString("category", mcp.Required(), mcp.Description("Registered category name (e.g. Surgery)")),
		mcp.WithString("note", mcp.Required(), mcp.Description("Template body text")),
	), s.createTemplate)

	s.mcp.AddTool(mcp.NewTool("update_template",
		mcp.WithDescription("Replace a template's body; a different category moves the template there, keeping its id."),
		mcp.WithString("category", mcp.Required(), mcp.Description("Target category name")),
		mcp.WithString("id", mcp.Required(), mcp.Description("10-digit template id")),
		mcp.WithString("note", mcp.Required(), mcp.Description("New template body text")),
	), s.updateTemplate)

	s.mcp.AddTool(mcp.NewTool("delete_template",
		mcp.WithDescription("Delete a note template by its numeric id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("10-digit template id")),
	), s.deleteTemplate)

	s.mcp.AddTool(mcp.NewTool("list_templates",
		mcp.WithDescription("List templates of one category, or of every category."),
		mcp.WithString("category", mcp.Description("Optional category name (empty for all)")),
	), s.listTemplates)

	s.mcp.AddTool(mcp.NewTool("get_template_contract",
		mcp.WithDescription("Returns the canonical Othala template contract. "+
			"Call this before creating or updating templates."),
	), s.getTemplateContract)

	// Resource: template contract.
	s.mcp.AddResource(
		mcp.NewResource("othala://template-format", "Template Contract",
			mcp.WithResourceDescription("Canonical note template model and tool usage rules."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readTemplateFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(results) == 0 {
		return mcp.NewToolResultText("no matches"), nil
	}
	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "%d\t%s\t%s\n", r.Key, r.Category, r.Snippet)
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) readTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rec, errResult := s.lookup(ctx, req)
	if errResult != nil {
		return errResult, nil
	}
	return mcp.NewToolResultText(rec.Display()), nil
}

func (s *Server) createTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := req.RequireString("note")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := s.svc.Create(ctx, category, note)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.Save(ctx); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %d in %s", rec.Key, rec.Category)), nil
}

func (s *Server) updateTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := req.RequireString("note")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	key, err := repo.ParseKey(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rec, err := s.svc.Edit(ctx, category, key, note)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.Save(ctx); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("updated: %d in %s", rec.Key, rec.Category)), nil
}

func (s *Server) deleteTemplate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	key, err := repo.ParseKey(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.Delete(ctx, key); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.svc.Save(ctx); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("deleted: %d", key)), nil
}

func (s *Server) listTemplates(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var categories []string
	if c, err := req.RequireString("category"); err == nil && c != "" {
		categories = []string{c}
	} else {
		categories = s.svc.Categories()
	}

	var b strings.Builder
	for _, category := range categories {
		records, err := s.svc.List(ctx, category)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		for _, rec := range records {
			fmt.Fprintf(&b, "%d\t%s\t%s\n", rec.Key, rec.Category, firstLine(rec.Body))
		}
	}
	if b.Len() == 0 {
		return mcp.NewToolResultText("no templates"), nil
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) getTemplateContract(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(TemplateFormatContract), nil
}

func (s *Server) readTemplateFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "othala://template-format",
			MIMEType: "text/markdown",
			Text:     TemplateFormatContract,
		},
	}, nil
}

// lookup resolves the "id" argument to a record, returning a tool error
// result on failure.
func (s *Server) lookup(ctx context.Context, req mcp.CallToolRequest) (models.Record, *mcp.CallToolResult) {
	id, err := req.RequireString("id")
	if err != nil {
		return models.Record{}, mcp.NewToolResultError(err.Error())
	}
	key, err := repo.ParseKey(id)
	if err != nil {
		return models.Record{}, mcp.NewToolResultError(err.Error())
	}
	rec, err := s.svc.Get(ctx, key)
	if err != nil {
		return models.Record{}, mcp.NewToolResultError(fmt.Sprintf("not found: %s", id))
	}
	return rec, nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
