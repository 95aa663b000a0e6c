package tools

import (
	"context"
	"encoding/json"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/formbridge/formbridge/internal/fieldops"
	"github.com/formbridge/formbridge/pkg/form"
	"github.com/formbridge/formbridge/pkg/gforms"
)

// FormsAPI is the slice of the platform client the form tools consume.
type FormsAPI interface {
	ListForms(ctx context.Context) ([]gforms.FormSummary, error)
	FetchForm(ctx context.Context, formID string) (*form.Form, error)
	CreateForm(ctx context.Context, f *form.Form) (*form.Form, error)
	DeleteForm(ctx context.Context, formID string, force bool) error
}

// ListFormsTool lists every form on the site.
type ListFormsTool struct {
	api    FormsAPI
	schema *openapi3.Schema
}

// NewListFormsTool wires the list_forms tool.
func NewListFormsTool(api FormsAPI) *ListFormsTool {
	return &ListFormsTool{api: api, schema: openapi3.NewObjectSchema()}
}

// Definition describes the tool to MCP clients.
func (t *ListFormsTool) Definition() mcp.Tool {
	return defineTool("list_forms", "List all forms with their ids, titles, and entry counts.", t.schema)
}

// Handle runs one list_forms call.
func (t *ListFormsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summaries, err := t.api.ListForms(ctx)
	if err != nil {
		return upstreamError(err)
	}
	return jsonResult(struct {
		Count int                  `json:"count"`
		Forms []gforms.FormSummary `json:"forms"`
	}{Count: len(summaries), Forms: summaries})
}

// GetFormTool fetches one form's full schema.
type GetFormTool struct {
	api    FormsAPI
	schema *openapi3.Schema
}

// NewGetFormTool wires the get_form tool.
func NewGetFormTool(api FormsAPI) *GetFormTool {
	s := openapi3.NewObjectSchema()
	s.WithProperty("form_id", openapi3.NewStringSchema().WithMinLength(1))
	s.Required = []string{"form_id"}
	return &GetFormTool{api: api, schema: s}
}

// Definition describes the tool to MCP clients.
func (t *GetFormTool) Definition() mcp.Tool {
	return defineTool("get_form",
		"Fetch a form's full schema: fields, notifications, confirmations, and page layout.",
		t.schema)
}

// Handle runs one get_form call.
func (t *GetFormTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := validateArgs(req, t.schema)
	if err != nil {
		return errorResult("%v", err)
	}
	f, err := t.api.FetchForm(ctx, stringArg(args, "form_id"))
	if err != nil {
		return upstreamError(err)
	}
	return jsonResult(struct {
		Form  *form.Form `json:"form"`
		Pages int        `json:"pages"`
	}{Form: f, Pages: fieldops.PageCount(f.Fields)})
}

// CreateFormTool creates a new form, optionally with an initial field list.
type CreateFormTool struct {
	api    FormsAPI
	schema *openapi3.Schema
}

// NewCreateFormTool wires the create_form tool.
func NewCreateFormTool(api FormsAPI) *CreateFormTool {
	s := openapi3.NewObjectSchema()
	s.WithProperty("title", openapi3.NewStringSchema().WithMinLength(1))
	s.WithProperty("description", openapi3.NewStringSchema())
	s.WithProperty("fields", describe(
		openapi3.NewArraySchema().WithItems(openapi3.NewObjectSchema().WithAnyAdditionalProperties()),
		"Optional initial fields, as raw field objects with ids assigned by the caller."))
	s.Required = []string{"title"}
	return &CreateFormTool{api: api, schema: s}
}

// Definition describes the tool to MCP clients.
func (t *CreateFormTool) Definition() mcp.Tool {
	return defineTool("create_form", "Create a new form and return the stored schema with its assigned id.", t.schema)
}

// Handle runs one create_form call.
func (t *CreateFormTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := validateArgs(req, t.schema)
	if err != nil {
		return errorResult("%v", err)
	}

	f := &form.Form{
		Title:       stringArg(args, "title"),
		Description: stringArg(args, "description"),
		Fields:      []form.Field{},
	}
	if rawFields, ok := args["fields"].([]any); ok && len(rawFields) > 0 {
		encoded, err := json.Marshal(rawFields)
		if err != nil {
			return errorResult("invalid fields payload: %v", err)
		}
		if err := json.Unmarshal(encoded, &f.Fields); err != nil {
			return errorResult("invalid fields payload: %v", err)
		}
	}

	created, err := t.api.CreateForm(ctx, f)
	if err != nil {
		return upstreamError(err)
	}
	return jsonResult(struct {
		Success bool       `json:"success"`
		Form    *form.Form `json:"form"`
	}{Success: true, Form: created})
}

// DeleteFormTool trashes or permanently deletes a form.
type DeleteFormTool struct {
	api    FormsAPI
	schema *openapi3.Schema
}

// NewDeleteFormTool wires the delete_form tool.
func NewDeleteFormTool(api FormsAPI) *DeleteFormTool {
	s := openapi3.NewObjectSchema()
	s.WithProperty("form_id", openapi3.NewStringSchema().WithMinLength(1))
	s.WithProperty("force", describe(openapi3.NewBoolSchema(), "Skip the trash and delete permanently."))
	s.Required = []string{"form_id"}
	return &DeleteFormTool{api: api, schema: s}
}

// Definition describes the tool to MCP clients.
func (t *DeleteFormTool) Definition() mcp.Tool {
	return defineTool("delete_form", "Move a form to the trash, or delete it permanently with force.", t.schema)
}

// Handle runs one delete_form call.
func (t *DeleteFormTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := validateArgs(req, t.schema)
	if err != nil {
		return errorResult("%v", err)
	}
	formID := stringArg(args, "form_id")
	if err := t.api.DeleteForm(ctx, formID, boolArg(args, "force")); err != nil {
		return upstreamError(err)
	}
	return jsonResult(struct {
		Success bool   `json:"success"`
		FormID  string `json:"form_id"`
	}{Success: true, FormID: formID})
}
