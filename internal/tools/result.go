package tools

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/formbridge/formbridge/pkg/gforms"
)

// jsonResult renders a payload as an indented JSON text result.
func jsonResult(payload any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("tools: encode result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// errorResult is a tool-level failure: the protocol call succeeds, the
// tool reports what went wrong. Used for validation failures and upstream
// API errors alike, so clients can show the message to an end user.
func errorResult(format string, args ...any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(fmt.Sprintf(format, args...)), nil
}

// upstreamError distinguishes the platform saying no (a tool-level error
// the client can show) from everything else (a real failure the protocol
// layer should see).
func upstreamError(err error) (*mcp.CallToolResult, error) {
	var apiErr *gforms.APIError
	if errors.As(err, &apiErr) {
		return errorResult("%v", apiErr)
	}
	return nil, err
}
