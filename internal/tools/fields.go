package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/formbridge/formbridge/internal/fieldops"
	"github.com/formbridge/formbridge/internal/sanitize"
	"github.com/formbridge/formbridge/pkg/fieldtype"
	"github.com/formbridge/formbridge/pkg/form"
)

// FieldManager is the slice of the field operations engine the field tools
// consume.
type FieldManager interface {
	AddField(ctx context.Context, formID, typeTag string, props map[string]any, pos fieldops.PositionSpec) (*fieldops.AddResult, error)
	UpdateField(ctx context.Context, formID string, fieldID form.FieldID, props map[string]any) (*fieldops.UpdateResult, error)
	DeleteField(ctx context.Context, formID string, fieldID form.FieldID, opts fieldops.DeleteOptions) (*fieldops.DeleteResult, error)
}

func positionSchema() *openapi3.Schema {
	s := openapi3.NewObjectSchema()
	s.WithProperty("mode", describe(
		openapi3.NewStringSchema().WithEnum("append", "prepend", "after", "before", "index"),
		"Where to insert relative to the existing sequence. Defaults to append."))
	s.WithProperty("reference", describe(openapi3.NewIntegerSchema(),
		"Field id the after/before modes are relative to."))
	s.WithProperty("index", describe(openapi3.NewIntegerSchema().WithMin(0),
		"Absolute insertion index for the index mode."))
	s.WithProperty("page", describe(openapi3.NewIntegerSchema().WithMin(1),
		"1-indexed page for page-aware append/prepend."))
	return s
}

func positionFromArgs(args map[string]any) fieldops.PositionSpec {
	pos := mapArg(args, "position")
	if pos == nil {
		return fieldops.PositionSpec{}
	}
	return fieldops.PositionSpec{
		Mode:      fieldops.Mode(stringArg(pos, "mode")),
		Reference: form.FieldID(intArg(pos, "reference")),
		Index:     intArg(pos, "index"),
		Page:      intArg(pos, "page"),
	}
}

// AddFieldTool appends or inserts a new field into a form's schema.
type AddFieldTool struct {
	manager FieldManager
	schema  *openapi3.Schema
}

// NewAddFieldTool wires the add_field tool.
func NewAddFieldTool(manager FieldManager) *AddFieldTool {
	s := openapi3.NewObjectSchema()
	s.WithProperty("form_id", describe(openapi3.NewStringSchema().WithMinLength(1), "Form to modify."))
	s.WithProperty("type", describe(openapi3.NewStringSchema().WithMinLength(1),
		"Field type tag, e.g. text, select, name, address. See list_field_types."))
	s.WithProperty("properties", describe(openapi3.NewObjectSchema().WithAnyAdditionalProperties(),
		"Field properties layered over the type's defaults; the caller always wins."))
	s.WithProperty("position", positionSchema())
	s.Required = []string{"form_id", "type"}

	return &AddFieldTool{manager: manager, schema: s}
}

// Definition describes the tool to MCP clients.
func (t *AddFieldTool) Definition() mcp.Tool {
	return defineTool("add_field",
		"Add a field to a form. Allocates the next field id, applies type defaults, generates compound sub-inputs, and inserts at the requested position (page-aware).",
		t.schema)
}

// Handle runs one add_field call.
func (t *AddFieldTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := validateArgs(req, t.schema)
	if err != nil {
		return errorResult("%v", err)
	}

	props := sanitize.FieldProperties(mapArg(args, "properties"))
	result, err := t.manager.AddField(ctx, stringArg(args, "form_id"), stringArg(args, "type"), props, positionFromArgs(args))
	if err != nil {
		if errors.Is(err, fieldops.ErrUnknownFieldType) {
			return errorResult("unknown field type %q; call list_field_types for the catalog", stringArg(args, "type"))
		}
		return upstreamError(err)
	}

	return jsonResult(struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		*fieldops.AddResult
	}{
		Success: true,
		Message: fmt.Sprintf("Added %s field %d at index %d (page %d of %d)",
			result.Field.Type, result.Field.ID, result.Position.Index,
			result.Position.Summary.Page, result.Position.Summary.TotalPages),
		AddResult: result,
	})
}

// UpdateFieldTool merges properties over an existing field.
type UpdateFieldTool struct {
	manager FieldManager
	schema  *openapi3.Schema
}

// NewUpdateFieldTool wires the update_field tool.
func NewUpdateFieldTool(manager FieldManager) *UpdateFieldTool {
	s := openapi3.NewObjectSchema()
	s.WithProperty("form_id", openapi3.NewStringSchema().WithMinLength(1))
	s.WithProperty("field_id", describe(openapi3.NewIntegerSchema().WithMin(1), "Field to update; the id itself is immutable."))
	s.WithProperty("properties", describe(openapi3.NewObjectSchema().WithAnyAdditionalProperties(),
		"Properties to merge over the existing field. Omitted properties are untouched."))
	s.Required = []string{"form_id", "field_id", "properties"}

	return &UpdateFieldTool{manager: manager, schema: s}
}

// Definition describes the tool to MCP clients.
func (t *UpdateFieldTool) Definition() mcp.Tool {
	return defineTool("update_field",
		"Update a field's properties. Reports fields, formulas, merge tags, and population links that reference the target as warnings; the update always proceeds.",
		t.schema)
}

// Handle runs one update_field call.
func (t *UpdateFieldTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := validateArgs(req, t.schema)
	if err != nil {
		return errorResult("%v", err)
	}

	fieldID := form.FieldID(intArg(args, "field_id"))
	props := sanitize.FieldProperties(mapArg(args, "properties"))
	result, err := t.manager.UpdateField(ctx, stringArg(args, "form_id"), fieldID, props)
	if err != nil {
		if errors.Is(err, fieldops.ErrFieldNotFound) {
			return errorResult("field %d not found in form %s", fieldID, stringArg(args, "form_id"))
		}
		return upstreamError(err)
	}

	payload := struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		*fieldops.UpdateResult
	}{
		Success:      true,
		Message:      fmt.Sprintf("Updated field %d (%s)", result.Field.ID, result.Field.Type),
		UpdateResult: result,
	}
	if result.Warnings.Dependencies != nil {
		payload.Message += "; " + fieldops.DependencySummary(*result.Warnings.Dependencies)
	}
	return jsonResult(payload)
}

// DeleteFieldTool removes a field, refusing while conditional logic still
// references it unless forced.
type DeleteFieldTool struct {
	manager FieldManager
	schema  *openapi3.Schema
}

// NewDeleteFieldTool wires the delete_field tool.
func NewDeleteFieldTool(manager FieldManager) *DeleteFieldTool {
	s := openapi3.NewObjectSchema()
	s.WithProperty("form_id", openapi3.NewStringSchema().WithMinLength(1))
	s.WithProperty("field_id", openapi3.NewIntegerSchema().WithMin(1))
	s.WithProperty("force", describe(openapi3.NewBoolSchema(),
		"Delete even when other fields' conditional logic references the target."))
	s.WithProperty("cascade", describe(openapi3.NewBoolSchema(),
		"With force: also strip the referencing conditional logic rules."))
	s.Required = []string{"form_id", "field_id"}

	return &DeleteFieldTool{manager: manager, schema: s}
}

// Definition describes the tool to MCP clients.
func (t *DeleteFieldTool) Definition() mcp.Tool {
	return defineTool("delete_field",
		"Delete a field from a form. Scans conditional logic, calculations, merge tags, and dynamic population first; a breaking reference refuses the delete unless force is set.",
		t.schema)
}

// Handle runs one delete_field call.
func (t *DeleteFieldTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := validateArgs(req, t.schema)
	if err != nil {
		return errorResult("%v", err)
	}

	fieldID := form.FieldID(intArg(args, "field_id"))
	result, err := t.manager.DeleteField(ctx, stringArg(args, "form_id"), fieldID, fieldops.DeleteOptions{
		Force:   boolArg(args, "force"),
		Cascade: boolArg(args, "cascade"),
	})
	if err != nil {
		if errors.Is(err, fieldops.ErrFieldNotFound) {
			return errorResult("field %d not found in form %s", fieldID, stringArg(args, "form_id"))
		}
		return upstreamError(err)
	}

	// A refusal is a structured result, not a tool error: the payload
	// carries the dependency report and the force=true suggestion.
	return jsonResult(struct {
		Message string `json:"message"`
		*fieldops.DeleteResult
	}{
		Message:      fieldops.DependencySummary(result.Dependencies),
		DeleteResult: result,
	})
}

// ListFieldTypesTool exposes the static field type catalog.
type ListFieldTypesTool struct {
	registry *fieldtype.Registry
	schema   *openapi3.Schema
}

// NewListFieldTypesTool wires the list_field_types tool.
func NewListFieldTypesTool(registry *fieldtype.Registry) *ListFieldTypesTool {
	if registry == nil {
		registry = fieldtype.Default()
	}
	s := openapi3.NewObjectSchema()
	s.WithProperty("kind", describe(
		openapi3.NewStringSchema().WithEnum("standard", "advanced", "post", "pricing"),
		"Restrict the catalog to one group."))

	return &ListFieldTypesTool{registry: registry, schema: s}
}

// Definition describes the tool to MCP clients.
func (t *ListFieldTypesTool) Definition() mcp.Tool {
	return defineTool("list_field_types",
		"List the available field types with their labels, groups, defaults, and whether they generate compound sub-inputs.",
		t.schema)
}

// Handle runs one list_field_types call.
func (t *ListFieldTypesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := validateArgs(req, t.schema)
	if err != nil {
		return errorResult("%v", err)
	}

	var defs []fieldtype.Definition
	if kind := stringArg(args, "kind"); kind != "" {
		defs = t.registry.ListKind(fieldtype.Kind(kind))
	} else {
		defs = t.registry.List()
	}

	return jsonResult(struct {
		Count int                    `json:"count"`
		Types []fieldtype.Definition `json:"types"`
	}{Count: len(defs), Types: defs})
}
