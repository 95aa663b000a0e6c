// Package tools defines the MCP tool surface: one Definition/Handle pair
// per operation, registered by NewServer. Tool argument schemas double as
// the validation chain: the same document advertised to clients is
// enforced against every call before its handler runs.
package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/mark3labs/mcp-go/mcp"
)

// defineTool renders an argument schema into a tool definition. The schema
// is the single source of truth: clients see exactly what validateArgs
// later enforces.
func defineTool(name, description string, schema *openapi3.Schema) mcp.Tool {
	raw, err := json.Marshal(schema)
	if err != nil {
		panic(fmt.Sprintf("tools: schema for %s does not marshal: %v", name, err))
	}
	return mcp.NewToolWithRawSchema(name, description, raw)
}

// validateArgs runs a call's arguments through the tool's schema and
// returns them typed as a map. Violations are reported all at once.
func validateArgs(req mcp.CallToolRequest, schema *openapi3.Schema) (map[string]any, error) {
	args := req.GetArguments()
	if args == nil {
		args = map[string]any{}
	}
	if err := schema.VisitJSON(args, openapi3.MultiErrors()); err != nil {
		return nil, fmt.Errorf("invalid arguments: %s", flattenSchemaError(err))
	}
	return args, nil
}

// flattenSchemaError renders kin-openapi's nested validation errors as one
// readable line per violation.
func flattenSchemaError(err error) string {
	var multi openapi3.MultiError
	if !asMultiError(err, &multi) {
		return err.Error()
	}
	parts := make([]string, 0, len(multi))
	for _, issue := range multi {
		var schemaErr *openapi3.SchemaError
		if asSchemaError(issue, &schemaErr) {
			path := strings.Join(schemaErr.JSONPointer(), ".")
			if path == "" {
				parts = append(parts, schemaErr.Reason)
			} else {
				parts = append(parts, fmt.Sprintf("%s: %s", path, schemaErr.Reason))
			}
			continue
		}
		parts = append(parts, issue.Error())
	}
	return strings.Join(parts, "; ")
}

func asMultiError(err error, target *openapi3.MultiError) bool {
	multi, ok := err.(openapi3.MultiError)
	if ok {
		*target = multi
	}
	return ok
}

func asSchemaError(err error, target **openapi3.SchemaError) bool {
	schemaErr, ok := err.(*openapi3.SchemaError)
	if ok {
		*target = schemaErr
	}
	return ok
}

// Typed extraction helpers for validated argument maps. Validation has
// already run; these only normalise JSON's favourite encodings.

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return strings.TrimSpace(s)
}

func intArg(args map[string]any, key string) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		var n int
		_, _ = fmt.Sscanf(v, "%d", &n)
		return n
	default:
		return 0
	}
}

func boolArg(args map[string]any, key string) bool {
	b, _ := args[key].(bool)
	return b
}

func mapArg(args map[string]any, key string) map[string]any {
	m, _ := args[key].(map[string]any)
	return m
}

// describe sets a schema description in place; kin-openapi has chainable
// helpers for everything except this.
func describe(s *openapi3.Schema, description string) *openapi3.Schema {
	s.Description = description
	return s
}
