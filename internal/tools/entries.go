package tools

import (
	"context"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/formbridge/formbridge/pkg/gforms"
)

// EntriesAPI is the slice of the platform client the entry tools consume.
type EntriesAPI interface {
	ListEntries(ctx context.Context, formID string, search gforms.EntrySearch) (*gforms.EntryPage, error)
	GetEntry(ctx context.Context, entryID string) (gforms.Entry, error)
	CreateEntry(ctx context.Context, formID string, values gforms.Entry) (gforms.Entry, error)
	UpdateEntry(ctx context.Context, entryID string, values gforms.Entry) (gforms.Entry, error)
	DeleteEntry(ctx context.Context, entryID string, force bool) error
}

// ListEntriesTool pages through a form's submissions.
type ListEntriesTool struct {
	api    EntriesAPI
	schema *openapi3.Schema
}

// NewListEntriesTool wires the list_entries tool.
func NewListEntriesTool(api EntriesAPI) *ListEntriesTool {
	s := openapi3.NewObjectSchema()
	s.WithProperty("form_id", openapi3.NewStringSchema().WithMinLength(1))
	s.WithProperty("page", openapi3.NewIntegerSchema().WithMin(1))
	s.WithProperty("page_size", openapi3.NewIntegerSchema().WithMin(1).WithMax(100))
	s.WithProperty("search", describe(openapi3.NewStringSchema(),
		"Platform search expression, passed through verbatim."))
	s.WithProperty("sort_key", openapi3.NewStringSchema())
	s.WithProperty("sort_dir", openapi3.NewStringSchema().WithEnum("ASC", "DESC"))
	s.Required = []string{"form_id"}
	return &ListEntriesTool{api: api, schema: s}
}

// Definition describes the tool to MCP clients.
func (t *ListEntriesTool) Definition() mcp.Tool {
	return defineTool("list_entries", "List a form's entries with paging, search, and sorting.", t.schema)
}

// Handle runs one list_entries call.
func (t *ListEntriesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := validateArgs(req, t.schema)
	if err != nil {
		return errorResult("%v", err)
	}

	page, err := t.api.ListEntries(ctx, stringArg(args, "form_id"), gforms.EntrySearch{
		Search:   stringArg(args, "search"),
		Page:     intArg(args, "page"),
		PageSize: intArg(args, "page_size"),
		SortKey:  stringArg(args, "sort_key"),
		SortDir:  stringArg(args, "sort_dir"),
	})
	if err != nil {
		return upstreamError(err)
	}
	return jsonResult(page)
}

// GetEntryTool fetches one entry.
type GetEntryTool struct {
	api    EntriesAPI
	schema *openapi3.Schema
}

// NewGetEntryTool wires the get_entry tool.
func NewGetEntryTool(api EntriesAPI) *GetEntryTool {
	s := openapi3.NewObjectSchema()
	s.WithProperty("entry_id", openapi3.NewStringSchema().WithMinLength(1))
	s.Required = []string{"entry_id"}
	return &GetEntryTool{api: api, schema: s}
}

// Definition describes the tool to MCP clients.
func (t *GetEntryTool) Definition() mcp.Tool {
	return defineTool("get_entry", "Fetch one entry by id, values keyed by field id.", t.schema)
}

// Handle runs one get_entry call.
func (t *GetEntryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := validateArgs(req, t.schema)
	if err != nil {
		return errorResult("%v", err)
	}
	entry, err := t.api.GetEntry(ctx, stringArg(args, "entry_id"))
	if err != nil {
		return upstreamError(err)
	}
	return jsonResult(entry)
}

// CreateEntryTool submits a new entry.
type CreateEntryTool struct {
	api    EntriesAPI
	schema *openapi3.Schema
}

// NewCreateEntryTool wires the create_entry tool.
func NewCreateEntryTool(api EntriesAPI) *CreateEntryTool {
	s := openapi3.NewObjectSchema()
	s.WithProperty("form_id", openapi3.NewStringSchema().WithMinLength(1))
	s.WithProperty("values", describe(openapi3.NewObjectSchema().WithAnyAdditionalProperties(),
		"Entry values keyed by field id (\"3\") or sub-input id (\"3.6\")."))
	s.Required = []string{"form_id", "values"}
	return &CreateEntryTool{api: api, schema: s}
}

// Definition describes the tool to MCP clients.
func (t *CreateEntryTool) Definition() mcp.Tool {
	return defineTool("create_entry", "Create an entry for a form.", t.schema)
}

// Handle runs one create_entry call.
func (t *CreateEntryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := validateArgs(req, t.schema)
	if err != nil {
		return errorResult("%v", err)
	}
	created, err := t.api.CreateEntry(ctx, stringArg(args, "form_id"), gforms.Entry(mapArg(args, "values")))
	if err != nil {
		return upstreamError(err)
	}
	return jsonResult(struct {
		Success bool         `json:"success"`
		Entry   gforms.Entry `json:"entry"`
	}{Success: true, Entry: created})
}

// UpdateEntryTool overwrites an entry's values.
type UpdateEntryTool struct {
	api    EntriesAPI
	schema *openapi3.Schema
}

// NewUpdateEntryTool wires the update_entry tool.
func NewUpdateEntryTool(api EntriesAPI) *UpdateEntryTool {
	s := openapi3.NewObjectSchema()
	s.WithProperty("entry_id", openapi3.NewStringSchema().WithMinLength(1))
	s.WithProperty("values", openapi3.NewObjectSchema().WithAnyAdditionalProperties())
	s.Required = []string{"entry_id", "values"}
	return &UpdateEntryTool{api: api, schema: s}
}

// Definition describes the tool to MCP clients.
func (t *UpdateEntryTool) Definition() mcp.Tool {
	return defineTool("update_entry", "Overwrite an entry's stored values.", t.schema)
}

// Handle runs one update_entry call.
func (t *UpdateEntryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := validateArgs(req, t.schema)
	if err != nil {
		return errorResult("%v", err)
	}
	updated, err := t.api.UpdateEntry(ctx, stringArg(args, "entry_id"), gforms.Entry(mapArg(args, "values")))
	if err != nil {
		return upstreamError(err)
	}
	return jsonResult(struct {
		Success bool         `json:"success"`
		Entry   gforms.Entry `json:"entry"`
	}{Success: true, Entry: updated})
}

// DeleteEntryTool trashes or permanently deletes an entry.
type DeleteEntryTool struct {
	api    EntriesAPI
	schema *openapi3.Schema
}

// NewDeleteEntryTool wires the delete_entry tool.
func NewDeleteEntryTool(api EntriesAPI) *DeleteEntryTool {
	s := openapi3.NewObjectSchema()
	s.WithProperty("entry_id", openapi3.NewStringSchema().WithMinLength(1))
	s.WithProperty("force", openapi3.NewBoolSchema())
	s.Required = []string{"entry_id"}
	return &DeleteEntryTool{api: api, schema: s}
}

// Definition describes the tool to MCP clients.
func (t *DeleteEntryTool) Definition() mcp.Tool {
	return defineTool("delete_entry", "Move an entry to the trash, or delete it permanently with force.", t.schema)
}

// Handle runs one delete_entry call.
func (t *DeleteEntryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := validateArgs(req, t.schema)
	if err != nil {
		return errorResult("%v", err)
	}
	entryID := stringArg(args, "entry_id")
	if err := t.api.DeleteEntry(ctx, entryID, boolArg(args, "force")); err != nil {
		return upstreamError(err)
	}
	return jsonResult(struct {
		Success bool   `json:"success"`
		EntryID string `json:"entry_id"`
	}{Success: true, EntryID: entryID})
}
