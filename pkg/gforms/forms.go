package gforms

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"

	"github.com/formbridge/formbridge/pkg/form"
)

// FormSummary is the listing view of a form: identity and entry counts,
// without the field schema.
type FormSummary struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	EntryCount string `json:"entries,omitempty"`
}

// ListForms returns the summaries of every form on the site, sorted by id.
func (c *Client) ListForms(ctx context.Context) ([]FormSummary, error) {
	// The endpoint returns an object keyed by form id, not an array.
	var raw map[string]FormSummary
	if err := c.do(ctx, http.MethodGet, "/forms", nil, nil, &raw); err != nil {
		return nil, err
	}

	summaries := make([]FormSummary, 0, len(raw))
	for id, summary := range raw {
		if summary.ID == "" {
			summary.ID = id
		}
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })
	return summaries, nil
}

// FetchForm retrieves the full schema for one form.
func (c *Client) FetchForm(ctx context.Context, formID string) (*form.Form, error) {
	if formID == "" {
		return nil, fmt.Errorf("gforms: form id is required")
	}
	var f form.Form
	if err := c.do(ctx, http.MethodGet, "/forms/"+url.PathEscape(formID), nil, nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// CreateForm creates a new form and returns the stored schema, including
// the server-assigned id.
func (c *Client) CreateForm(ctx context.Context, f *form.Form) (*form.Form, error) {
	if f == nil {
		return nil, fmt.Errorf("gforms: form is required")
	}
	var created form.Form
	if err := c.do(ctx, http.MethodPost, "/forms", nil, f, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ReplaceForm overwrites the stored schema for a form with the given
// document. The API has no partial update: whatever is absent from f is
// gone after this call, and a concurrent writer's changes are silently
// lost. Callers needing safety must serialise writes per form id.
func (c *Client) ReplaceForm(ctx context.Context, formID string, f *form.Form) (*form.Form, error) {
	if formID == "" {
		return nil, fmt.Errorf("gforms: form id is required")
	}
	if f == nil {
		return nil, fmt.Errorf("gforms: form is required")
	}
	var stored form.Form
	if err := c.do(ctx, http.MethodPut, "/forms/"+url.PathEscape(formID), nil, f, &stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

// DeleteForm moves a form to the trash. With force it is deleted
// permanently.
func (c *Client) DeleteForm(ctx context.Context, formID string, force bool) error {
	if formID == "" {
		return fmt.Errorf("gforms: form id is required")
	}
	query := url.Values{}
	if force {
		query.Set("force", "1")
	}
	return c.do(ctx, http.MethodDelete, "/forms/"+url.PathEscape(formID), query, nil, nil)
}
