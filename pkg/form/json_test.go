package form_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/formbridge/formbridge/pkg/form"
)

func TestFieldIDAcceptsNumberAndString(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want form.FieldID
	}{
		{"number", `{"id": 5, "type": "text"}`, 5},
		{"string", `{"id": "5", "type": "text"}`, 5},
		{"null", `{"id": null, "type": "text"}`, 0},
		{"non-numeric", `{"id": "abc", "type": "text"}`, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var f form.Field
			if err := json.Unmarshal([]byte(tc.raw), &f); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if f.ID != tc.want {
				t.Fatalf("id = %d, want %d", f.ID, tc.want)
			}
		})
	}
}

func TestFieldIDNonNumericCollapsesToZeroOnRoundTrip(t *testing.T) {
	// Out-of-model ids are tolerated on read but not preserved: the
	// numeric form is what goes back on replace.
	var f form.Field
	if err := json.Unmarshal([]byte(`{"id": "abc", "type": "text"}`), &f); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if f.ID != 0 {
		t.Fatalf("id = %d, want 0", f.ID)
	}

	out, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("re-unmarshal: %v", err)
	}
	if got["id"] != float64(0) {
		t.Fatalf(`id round-tripped as %v, want the number 0, not "abc"`, got["id"])
	}
}

func TestFieldRoundTripKeepsUnknownProperties(t *testing.T) {
	raw := `{
		"id": 3,
		"type": "select",
		"label": "Color",
		"enableChoiceValue": true,
		"size": "medium"
	}`

	var f form.Field
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if f.Extra["enableChoiceValue"] != true {
		t.Fatalf("expected unknown property retained, got %#v", f.Extra)
	}

	out, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var got map[string]any
	if err := json.Unmarshal(out, &got); err != nil {
		t.Fatalf("re-unmarshal: %v", err)
	}
	if got["size"] != "medium" || got["enableChoiceValue"] != true {
		t.Fatalf("round trip dropped properties: %v", got)
	}
	if got["label"] != "Color" {
		t.Fatalf("typed property lost: %v", got)
	}
}

func TestFormRoundTrip(t *testing.T) {
	raw := `{
		"id": 12,
		"title": "Contact",
		"fields": [
			{"id": 1, "type": "text", "label": "Name", "isRequired": true},
			{"id": 2, "type": "page"},
			{"id": 3, "type": "email", "label": "Email", "isRequired": false}
		],
		"notifications": {
			"n1": {"id": "n1", "subject": "New entry from {Name:1}"}
		},
		"is_active": "1",
		"version": "2.9"
	}`

	var f form.Form
	if err := json.Unmarshal([]byte(raw), &f); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if f.ID != "12" {
		t.Fatalf("form id = %q, want 12", f.ID)
	}
	if len(f.Fields) != 3 {
		t.Fatalf("fields = %d, want 3", len(f.Fields))
	}
	if !f.Fields[1].IsPageBreak() {
		t.Fatalf("expected field 2 to be a page break")
	}
	if f.Extra["version"] != "2.9" {
		t.Fatalf("expected form-level unknown properties retained, got %#v", f.Extra)
	}

	out, err := json.Marshal(f)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var echo form.Form
	if err := json.Unmarshal(out, &echo); err != nil {
		t.Fatalf("re-unmarshal: %v", err)
	}
	if diff := cmp.Diff(f, echo); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestFieldByID(t *testing.T) {
	f := form.Form{Fields: []form.Field{
		{ID: 1, Type: "text"},
		{ID: 4, Type: "email", Label: "Email"},
	}}
	got := f.FieldByID(4)
	if got == nil || got.Label != "Email" {
		t.Fatalf("FieldByID(4) = %#v", got)
	}
	if f.FieldByID(9) != nil {
		t.Fatalf("expected nil for missing id")
	}
}
