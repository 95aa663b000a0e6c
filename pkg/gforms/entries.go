package gforms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// Entry is one submission. Field values are keyed by field id ("3") or
// sub-input id ("3.6"); the platform mixes strings and numbers freely, so
// values stay untyped.
type Entry map[string]any

// ID returns the entry's id, or an empty string when absent.
func (e Entry) ID() string {
	switch v := e["id"].(type) {
	case string:
		return v
	case float64:
		return strconv.Itoa(int(v))
	default:
		return ""
	}
}

// EntrySearch narrows and pages a ListEntries call. The zero value lists
// the first page with the server's default size.
type EntrySearch struct {
	// Search is the platform's JSON search expression, passed through
	// verbatim (e.g. {"field_filters":[{"key":"1","value":"alice"}]}).
	Search   string
	PageSize int
	Page     int
	SortKey  string
	SortDir  string
}

// EntryPage is one page of entries plus the total across all pages.
type EntryPage struct {
	TotalCount int     `json:"total_count"`
	Entries    []Entry `json:"entries"`
}

// ListEntries returns entries for one form.
func (c *Client) ListEntries(ctx context.Context, formID string, search EntrySearch) (*EntryPage, error) {
	if formID == "" {
		return nil, fmt.Errorf("gforms: form id is required")
	}

	query := url.Values{}
	if search.Search != "" {
		query.Set("search", search.Search)
	}
	if search.PageSize > 0 {
		query.Set("paging[page_size]", strconv.Itoa(search.PageSize))
	}
	if search.Page > 0 {
		query.Set("paging[current_page]", strconv.Itoa(search.Page))
	}
	if search.SortKey != "" {
		query.Set("sorting[key]", search.SortKey)
		if search.SortDir != "" {
			query.Set("sorting[direction]", search.SortDir)
		}
	}

	var page EntryPage
	if err := c.do(ctx, http.MethodGet, "/forms/"+url.PathEscape(formID)+"/entries", query, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetEntry retrieves one entry by id.
func (c *Client) GetEntry(ctx context.Context, entryID string) (Entry, error) {
	if entryID == "" {
		return nil, fmt.Errorf("gforms: entry id is required")
	}
	var entry Entry
	if err := c.do(ctx, http.MethodGet, "/entries/"+url.PathEscape(entryID), nil, nil, &entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// CreateEntry submits a new entry for a form. The form id goes into the
// payload as form_id, as the API expects.
func (c *Client) CreateEntry(ctx context.Context, formID string, values Entry) (Entry, error) {
	if formID == "" {
		return nil, fmt.Errorf("gforms: form id is required")
	}

	payload := make(map[string]any, len(values)+1)
	for key, value := range values {
		payload[key] = value
	}
	payload["form_id"] = formID

	var created Entry
	if err := c.do(ctx, http.MethodPost, "/entries", nil, payload, &created); err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateEntry overwrites the stored values of one entry.
func (c *Client) UpdateEntry(ctx context.Context, entryID string, values Entry) (Entry, error) {
	if entryID == "" {
		return nil, fmt.Errorf("gforms: entry id is required")
	}
	var updated Entry
	if err := c.do(ctx, http.MethodPut, "/entries/"+url.PathEscape(entryID), nil, values, &updated); err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteEntry moves an entry to the trash, or deletes it permanently with
// force.
func (c *Client) DeleteEntry(ctx context.Context, entryID string, force bool) error {
	if entryID == "" {
		return fmt.Errorf("gforms: entry id is required")
	}
	query := url.Values{}
	if force {
		query.Set("force", "1")
	}
	return c.do(ctx, http.MethodDelete, "/entries/"+url.PathEscape(entryID), query, nil, nil)
}

// DecodeEntryValues converts a raw JSON object into an Entry, for callers
// that accept arbitrary value payloads.
func DecodeEntryValues(raw json.RawMessage) (Entry, error) {
	if len(raw) == 0 {
		return Entry{}, nil
	}
	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("gforms: decode entry values: %w", err)
	}
	return entry, nil
}
