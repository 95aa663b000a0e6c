package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/formbridge/formbridge/internal/fieldcheck"
	"github.com/formbridge/formbridge/internal/fieldops"
	"github.com/formbridge/formbridge/pkg/fieldtype"
	"github.com/formbridge/formbridge/pkg/gforms"
)

const instructions = `formbridge exposes a Gravity Forms site over tool calls.

Form tools (list_forms, get_form, create_form, delete_form) work on whole
forms. Field tools (add_field, update_field, delete_field, list_field_types)
edit a single field inside a form: add_field accepts a position spec (append,
prepend, after, before, index) and a page number, update_field reports which
other fields depend on the edited one, and delete_field refuses to remove a
field that other fields' conditional logic points at unless force is set.
Entry tools (list_entries, get_entry, create_entry, update_entry,
delete_entry) work on submissions; entry values are keyed by field id ("3")
or sub-input id ("3.6").`

// Tool is one registered tool: a definition and its handler.
type Tool interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// NewServer builds the MCP server with every tool registered against the
// given platform client.
func NewServer(client *gforms.Client, version string) *server.MCPServer {
	registry := fieldtype.Default()
	manager := fieldops.NewManager(client,
		fieldops.WithRegistry(registry),
		fieldops.WithValidator(fieldcheck.New(registry)),
	)

	s := server.NewMCPServer("formbridge", version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	all := []Tool{
		NewListFormsTool(client),
		NewGetFormTool(client),
		NewCreateFormTool(client),
		NewDeleteFormTool(client),

		NewAddFieldTool(manager),
		NewUpdateFieldTool(manager),
		NewDeleteFieldTool(manager),
		NewListFieldTypesTool(registry),

		NewListEntriesTool(client),
		NewGetEntryTool(client),
		NewCreateEntryTool(client),
		NewUpdateEntryTool(client),
		NewDeleteEntryTool(client),
	}
	for _, t := range all {
		s.AddTool(t.Definition(), t.Handle)
	}
	return s
}
