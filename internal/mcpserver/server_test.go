package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/othala/internal/recordservice"
	"github.com/starford/othala/internal/testutil"
)

func testServer(t *testing.T) (*Server, *recordservice.Service) {
	t.Helper()
	r, _ := testutil.TestRepo(t)
	svc := recordservice.NewService(r, testutil.TestDB(t), testutil.Logger())
	return New(svc), svc
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go doesn't expose a direct "call tool" test helper, so we dispatch
	// to the handler functions directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "search_templates":
		result, err = srv.searchTemplates(ctx, req)
	case "read_template":
		result, err = srv.readTemplate(ctx, req)
	case "create_template":
		result, err = srv.createTemplate(ctx, req)
	case "update_template":
		result, err = srv.updateTemplate(ctx, req)
	case "delete_template":
		result, err = srv.deleteTemplate(ctx, req)
	case "list_templates":
		result, err = srv.listTemplates(ctx, req)
	case "get_template_contract":
		result, err = srv.getTemplateContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestCreateAndReadTemplate(t *testing.T) {
	srv, svc := testServer(t)

	r := callTool(t, srv, "create_template", map[string]interface{}{
		"category": "Surgery",
		"note":     "Remove wisdom tooth",
	})
	if r.IsError {
		t.Fatalf("create failed: %q", resultText(r))
	}
	text := resultText(r)
	if !strings.HasPrefix(text, "created: ") || !strings.HasSuffix(text, " in Surgery") {
		t.Errorf("create result = %q", text)
	}
	if svc.Dirty() {
		t.Error("create tool should save")
	}

	id := strings.TrimSuffix(strings.TrimPrefix(text, "created: "), " in Surgery")
	r = callTool(t, srv, "read_template", map[string]interface{}{"id": id})
	text = resultText(r)
	if !strings.Contains(text, "Type: Surgery") || !strings.Contains(text, "Remove wisdom tooth") {
		t.Errorf("read result = %q", text)
	}
}

func TestReadTemplateMissing(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "read_template", map[string]interface{}{"id": "1234567890"})
	if !r.IsError {
		t.Error("expected error for missing template")
	}
}

func TestReadTemplateBadID(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "read_template", map[string]interface{}{"id": "12a4"})
	if !r.IsError {
		t.Error("expected error for malformed id")
	}
}

func TestUpdateTemplateMovesCategory(t *testing.T) {
	srv, svc := testServer(t)

	rec, err := svc.CreateWithKey(context.Background(), "Surgery", 1234567890, "old body")
	if err != nil {
		t.Fatal(err)
	}
	r := callTool(t, srv, "update_template", map[string]interface{}{
		"category": "HygieneExam",
		"id":       "1234567890",
		"note":     "new body",
	})
	if r.IsError {
		t.Fatalf("update failed: %q", resultText(r))
	}
	if text := resultText(r); text != "updated: 1234567890 in HygieneExam" {
		t.Errorf("update result = %q", text)
	}

	got, err := svc.Get(context.Background(), rec.Key)
	if err != nil {
		t.Fatal(err)
	}
	if got.Category != "HygieneExam" || got.Body != "new body" {
		t.Errorf("record = %+v", got)
	}
}

func TestDeleteTemplate(t *testing.T) {
	srv, svc := testServer(t)
	if _, err := svc.CreateWithKey(context.Background(), "Surgery", 1234567890, "x"); err != nil {
		t.Fatal(err)
	}

	r := callTool(t, srv, "delete_template", map[string]interface{}{"id": "1234567890"})
	if r.IsError {
		t.Fatalf("delete failed: %q", resultText(r))
	}
	if _, err := svc.Get(context.Background(), 1234567890); err == nil {
		t.Error("template survived delete")
	}

	r = callTool(t, srv, "delete_template", map[string]interface{}{"id": "1234567890"})
	if !r.IsError {
		t.Error("expected error deleting twice")
	}
}

func TestListTemplates(t *testing.T) {
	srv, svc := testServer(t)
	ctx := context.Background()
	_, _ = svc.CreateWithKey(ctx, "Surgery", 1111111111, "one\nmore")
	_, _ = svc.CreateWithKey(ctx, "HygieneExam", 2222222222, "two")

	r := callTool(t, srv, "list_templates", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "1111111111") || !strings.Contains(text, "2222222222") {
		t.Errorf("list = %q", text)
	}
	if strings.Contains(text, "more") {
		t.Errorf("list should show only the first body line, got %q", text)
	}

	r = callTool(t, srv, "list_templates", map[string]interface{}{"category": "Surgery"})
	text = resultText(r)
	if !strings.Contains(text, "1111111111") || strings.Contains(text, "2222222222") {
		t.Errorf("filtered list = %q", text)
	}
}

func TestListTemplatesEmpty(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "list_templates", map[string]interface{}{})
	if text := resultText(r); text != "no templates" {
		t.Errorf("list = %q", text)
	}
}

func TestSearchTemplates(t *testing.T) {
	srv, svc := testServer(t)
	_, _ = svc.CreateWithKey(context.Background(), "Surgery", 1234567890, "Remove wisdom tooth")

	r := callTool(t, srv, "search_templates", map[string]interface{}{"query": "wisdom"})
	if text := resultText(r); !strings.Contains(text, "1234567890") {
		t.Errorf("search = %q", text)
	}

	r = callTool(t, srv, "search_templates", map[string]interface{}{"query": "nothing-matches"})
	if text := resultText(r); text != "no matches" {
		t.Errorf("search = %q", text)
	}
}

func TestGetTemplateContract(t *testing.T) {
	srv, _ := testServer(t)
	r := callTool(t, srv, "get_template_contract", map[string]interface{}{})
	if resultText(r) != TemplateFormatContract {
		t.Error("contract tool does not return the canonical contract")
	}
}
