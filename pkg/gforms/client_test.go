package gforms_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formbridge/formbridge/pkg/form"
	"github.com/formbridge/formbridge/pkg/gforms"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *gforms.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := gforms.New(srv.URL, "ck_test", "cs_secret")
	require.NoError(t, err)
	return client
}

func TestNewValidation(t *testing.T) {
	_, err := gforms.New("", "k", "s")
	assert.Error(t, err)

	_, err = gforms.New("https://example.com", "", "s")
	assert.Error(t, err)

	_, err = gforms.New("https://example.com/", "k", "s")
	assert.NoError(t, err)
}

func TestNewWithOptions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "formbridge/test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(srv.Close)

	client, err := gforms.New(srv.URL, "ck_test", "cs_secret",
		gforms.WithTimeout(5*time.Second),
		gforms.WithUserAgent("formbridge/test"),
	)
	require.NoError(t, err)

	_, err = client.ListForms(context.Background())
	require.NoError(t, err)
}

func TestAuthorizationHeader(t *testing.T) {
	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("ck_test:cs_secret"))

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, wantAuth, r.Header.Get("Authorization"))
		assert.Equal(t, "/wp-json/gf/v2/forms/3", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))
		_ = json.NewEncoder(w).Encode(form.Form{ID: "3", Title: "Contact"})
	})

	f, err := client.FetchForm(context.Background(), "3")
	require.NoError(t, err)
	assert.Equal(t, "3", f.ID)
	assert.Equal(t, "Contact", f.Title)
}

func TestFetchFormDecodesFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"id": 9,
			"title": "Order",
			"fields": [
				{"id": "1", "type": "name", "nameFormat": "simple"},
				{"id": 2, "type": "page"}
			],
			"button": {"type": "text", "text": "Submit"}
		}`))
	})

	f, err := client.FetchForm(context.Background(), "9")
	require.NoError(t, err)
	assert.Equal(t, "9", f.ID)
	require.Len(t, f.Fields, 2)
	assert.Equal(t, form.FieldID(1), f.Fields[0].ID)
	assert.True(t, f.Fields[1].IsPageBreak())
	assert.Contains(t, f.Extra, "button", "unknown form properties must survive")
}

func TestReplaceFormSendsFullSchema(t *testing.T) {
	var sent map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/wp-json/gf/v2/forms/9", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		_, _ = w.Write([]byte(`{"id": 9, "title": "Order"}`))
	})

	f := &form.Form{
		ID:     "9",
		Title:  "Order",
		Fields: []form.Field{{ID: 1, Type: "text", Label: "Name"}},
		Extra:  map[string]any{"button": map[string]any{"text": "Go"}},
	}
	_, err := client.ReplaceForm(context.Background(), "9", f)
	require.NoError(t, err)

	assert.Equal(t, "Order", sent["title"])
	assert.Contains(t, sent, "button", "unmodeled properties must be written back")
	fields, ok := sent["fields"].([]any)
	require.True(t, ok)
	require.Len(t, fields, 1)
}

func TestListForms(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"3": {"id": "3", "title": "Contact", "entries": "12"},
			"1": {"title": "Order"}
		}`))
	})

	forms, err := client.ListForms(context.Background())
	require.NoError(t, err)
	require.Len(t, forms, 2)
	assert.Equal(t, "1", forms[0].ID, "missing id falls back to the map key, list is sorted")
	assert.Equal(t, "3", forms[1].ID)
	assert.Equal(t, "12", forms[1].EntryCount)
}

func TestAPIErrorDecoding(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code": "rest_form_not_found", "message": "Form not found"}`))
	})

	_, err := client.FetchForm(context.Background(), "404")
	require.Error(t, err)
	assert.True(t, gforms.IsNotFound(err))

	var apiErr *gforms.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "rest_form_not_found", apiErr.Code)
	assert.Contains(t, apiErr.Error(), "Form not found")
}

func TestListEntriesQuery(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "25", q.Get("paging[page_size]"))
		assert.Equal(t, "2", q.Get("paging[current_page]"))
		assert.Equal(t, "date_created", q.Get("sorting[key]"))
		_, _ = w.Write([]byte(`{"total_count": 40, "entries": [{"id": "17", "1": "alice"}]}`))
	})

	page, err := client.ListEntries(context.Background(), "9", gforms.EntrySearch{
		PageSize: 25,
		Page:     2,
		SortKey:  "date_created",
	})
	require.NoError(t, err)
	assert.Equal(t, 40, page.TotalCount)
	require.Len(t, page.Entries, 1)
	assert.Equal(t, "17", page.Entries[0].ID())
}

func TestCreateEntryInjectsFormID(t *testing.T) {
	var sent map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/wp-json/gf/v2/entries", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		_, _ = w.Write([]byte(`{"id": "21"}`))
	})

	created, err := client.CreateEntry(context.Background(), "9", gforms.Entry{"1": "alice"})
	require.NoError(t, err)
	assert.Equal(t, "21", created.ID())
	assert.Equal(t, "9", sent["form_id"])
	assert.Equal(t, "alice", sent["1"])
}

func TestDeleteFormForce(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "1", r.URL.Query().Get("force"))
		w.WriteHeader(http.StatusOK)
	})

	require.NoError(t, client.DeleteForm(context.Background(), "9", true))
}
