package fieldops_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/formbridge/formbridge/internal/fieldops"
	"github.com/formbridge/formbridge/pkg/form"
)

type stubStore struct {
	form       *form.Form
	fetchErr   error
	replaceErr error

	fetches  int
	replaces int
	replaced *form.Form
}

func (s *stubStore) FetchForm(ctx context.Context, formID string) (*form.Form, error) {
	s.fetches++
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.form, nil
}

func (s *stubStore) ReplaceForm(ctx context.Context, formID string, f *form.Form) (*form.Form, error) {
	s.replaces++
	if s.replaceErr != nil {
		return nil, s.replaceErr
	}
	s.replaced = f
	return f, nil
}

type stubValidator struct {
	warnings []string
}

func (v stubValidator) Warnings(form.Field) []string { return v.warnings }

func TestNextFieldID(t *testing.T) {
	cases := []struct {
		name   string
		fields []form.Field
		want   form.FieldID
	}{
		{"empty sequence starts at 1", nil, 1},
		{"gaps are not reused", []form.Field{{ID: 1}, {ID: 3}, {ID: 5}}, 6},
		{"non-numeric ids contribute zero", []form.Field{{ID: 0}, {ID: 2}}, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := fieldops.NextFieldID(tc.fields); got != tc.want {
				t.Fatalf("NextFieldID = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestCreateFieldUnknownType(t *testing.T) {
	m := fieldops.NewManager(&stubStore{})

	_, err := m.CreateField(1, "hologram", nil)
	if !errors.Is(err, fieldops.ErrUnknownFieldType) {
		t.Fatalf("err = %v, want ErrUnknownFieldType", err)
	}
}

func TestCreateFieldLayering(t *testing.T) {
	m := fieldops.NewManager(&stubStore{})

	t.Run("choice fields get placeholder choices", func(t *testing.T) {
		f, err := m.CreateField(2, "select", map[string]any{"label": "Color"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if len(f.Choices) != 3 || f.Choices[0].Text != "First Choice" {
			t.Fatalf("choices = %+v", f.Choices)
		}
		if f.Label != "Color" {
			t.Fatalf("label = %q", f.Label)
		}
	})

	t.Run("caller choices win over placeholders", func(t *testing.T) {
		f, err := m.CreateField(2, "radio", map[string]any{
			"choices": []map[string]any{{"text": "Yes", "value": "1"}},
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if len(f.Choices) != 1 || f.Choices[0].Text != "Yes" {
			t.Fatalf("choices = %+v", f.Choices)
		}
	})

	t.Run("date defaults apply", func(t *testing.T) {
		f, err := m.CreateField(3, "date", nil)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if f.DateFormat != "mdy" || f.DateType != "datepicker" {
			t.Fatalf("date defaults = %q/%q", f.DateFormat, f.DateType)
		}
	})

	t.Run("caller overrides defaults", func(t *testing.T) {
		f, err := m.CreateField(3, "date", map[string]any{"dateFormat": "dmy"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if f.DateFormat != "dmy" {
			t.Fatalf("dateFormat = %q", f.DateFormat)
		}
	})

	t.Run("unmodeled properties survive", func(t *testing.T) {
		f, err := m.CreateField(4, "text", map[string]any{"maxLength": 80})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if f.Extra["maxLength"] != float64(80) {
			t.Fatalf("extra = %#v", f.Extra)
		}
	})
}

func TestCreateFieldCompoundInputs(t *testing.T) {
	m := fieldops.NewManager(&stubStore{})

	cases := []struct {
		name  string
		typ   string
		props map[string]any
		want  int
	}{
		{"address default", "address", nil, 6},
		{"address international", "address", map[string]any{"addressType": "international"}, 6},
		{"name advanced default", "name", nil, 5},
		{"name simple", "name", map[string]any{"nameFormat": "simple"}, 2},
		{"creditcard", "creditcard", nil, 5},
		{"consent", "consent", nil, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := m.CreateField(7, tc.typ, tc.props)
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			if len(f.Inputs) != tc.want {
				t.Fatalf("inputs = %d, want %d: %+v", len(f.Inputs), tc.want, f.Inputs)
			}
			if !strings.HasPrefix(f.Inputs[0].ID, "7.") {
				t.Fatalf("sub-input id = %q", f.Inputs[0].ID)
			}
		})
	}

	t.Run("non-compound has no inputs", func(t *testing.T) {
		f, err := m.CreateField(7, "text", nil)
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if f.Inputs != nil {
			t.Fatalf("inputs = %+v, want none", f.Inputs)
		}
	})

	t.Run("international relabels state and zip", func(t *testing.T) {
		f, err := m.CreateField(7, "address", map[string]any{"addressType": "international"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if f.Inputs[3].Label != "State / Province" || f.Inputs[4].Label != "ZIP / Postal Code" {
			t.Fatalf("inputs = %+v", f.Inputs)
		}
	})
}

func TestAddFieldAppends(t *testing.T) {
	store := &stubStore{form: &form.Form{
		ID:     "11",
		Fields: []form.Field{{ID: 1}, {ID: 2}, {ID: 3}},
	}}
	m := fieldops.NewManager(store)

	result, err := m.AddField(context.Background(), "11", "text", map[string]any{"label": "Notes"}, fieldops.PositionSpec{Mode: fieldops.ModeAppend})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if result.Field.ID != 4 {
		t.Fatalf("new id = %d, want 4", result.Field.ID)
	}
	if result.Position.Index != 3 {
		t.Fatalf("index = %d, want 3", result.Position.Index)
	}
	if store.fetches != 1 || store.replaces != 1 {
		t.Fatalf("store calls = %d fetches, %d replaces; want exactly one of each", store.fetches, store.replaces)
	}
	if got := len(store.replaced.Fields); got != 4 {
		t.Fatalf("written fields = %d", got)
	}
	if store.replaced.Fields[3].Label != "Notes" {
		t.Fatalf("written sequence = %+v", store.replaced.Fields)
	}
}

func TestAddFieldUnknownTypeFailsBeforeWrite(t *testing.T) {
	store := &stubStore{form: &form.Form{ID: "11", Fields: []form.Field{{ID: 1}}}}
	m := fieldops.NewManager(store)

	_, err := m.AddField(context.Background(), "11", "hologram", nil, fieldops.PositionSpec{})
	if !errors.Is(err, fieldops.ErrUnknownFieldType) {
		t.Fatalf("err = %v", err)
	}
	if store.replaces != 0 {
		t.Fatalf("unknown type must not reach the store")
	}
}

func TestAddFieldInvalidPositionFailsBeforeWrite(t *testing.T) {
	store := &stubStore{form: &form.Form{ID: "11", Fields: []form.Field{{ID: 1}}}}
	m := fieldops.NewManager(store)

	_, err := m.AddField(context.Background(), "11", "text", nil, fieldops.PositionSpec{Mode: "sideways"})
	if err == nil || !strings.Contains(err.Error(), "invalid position config") {
		t.Fatalf("err = %v", err)
	}
	if store.replaces != 0 {
		t.Fatalf("invalid position must not reach the store")
	}
}

func TestAddFieldPageAware(t *testing.T) {
	store := &stubStore{form: &form.Form{ID: "11", Fields: pagedFields()}}
	m := fieldops.NewManager(store)

	result, err := m.AddField(context.Background(), "11", "text", nil, fieldops.PositionSpec{Mode: fieldops.ModeAppend, Page: 2})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if result.Position.Index != 5 {
		t.Fatalf("index = %d, want 5 (before the second page break)", result.Position.Index)
	}
	if result.Position.Summary.Page != 2 {
		t.Fatalf("summary page = %d, want 2", result.Position.Summary.Page)
	}
}

func TestUpdateField(t *testing.T) {
	store := &stubStore{form: dependencyFixture()}
	m := fieldops.NewManager(store, fieldops.WithValidator(stubValidator{warnings: []string{"label is very short"}}))

	result, err := m.UpdateField(context.Background(), "7", 5, map[string]any{
		"label": "VAT",
		"id":    999,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if result.Field.ID != 5 {
		t.Fatalf("id must be immutable, got %d", result.Field.ID)
	}
	if result.Field.Label != "VAT" {
		t.Fatalf("label = %q", result.Field.Label)
	}
	if result.Changes.Before.Label != "Tax" || result.Changes.After.Label != "VAT" {
		t.Fatalf("changes = %+v", result.Changes)
	}
	if result.Field.InputName != "tax_rate" {
		t.Fatalf("untouched properties must survive the merge, got %+v", result.Field)
	}

	// Field 5 is referenced by logic, a formula, merge tags, and dynamic
	// population; all of that surfaces as warnings, none of it blocks.
	if result.Warnings.Dependencies == nil || result.Warnings.Dependencies.Total() == 0 {
		t.Fatalf("expected dependency warnings, got %+v", result.Warnings)
	}
	if len(result.Warnings.Validation) != 1 {
		t.Fatalf("validator warnings = %+v", result.Warnings.Validation)
	}
	if store.replaces != 1 {
		t.Fatalf("update must write exactly once")
	}
}

func TestUpdateFieldNotFound(t *testing.T) {
	store := &stubStore{form: &form.Form{ID: "7", Fields: []form.Field{{ID: 1}}}}
	m := fieldops.NewManager(store)

	_, err := m.UpdateField(context.Background(), "7", 42, map[string]any{"label": "x"})
	if !errors.Is(err, fieldops.ErrFieldNotFound) {
		t.Fatalf("err = %v", err)
	}
	if store.replaces != 0 {
		t.Fatalf("missing field must not reach the store")
	}
}

func TestUpdateFieldRegeneratesSubInputs(t *testing.T) {
	name := form.Field{ID: 3, Type: "name", Label: "Full Name", NameFormat: "advanced"}
	name.Inputs = fieldops.GenerateSubInputs(3, "name", map[string]any{"nameFormat": "advanced"})

	store := &stubStore{form: &form.Form{ID: "7", Fields: []form.Field{name}}}
	m := fieldops.NewManager(store)

	result, err := m.UpdateField(context.Background(), "7", 3, map[string]any{"nameFormat": "simple"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if len(result.Field.Inputs) != 2 {
		t.Fatalf("inputs = %+v, want the simple 2-entry set", result.Field.Inputs)
	}
	if result.Field.Inputs[0].Label != "First" || result.Field.Inputs[1].Label != "Last" {
		t.Fatalf("inputs = %+v", result.Field.Inputs)
	}
}

func TestDeleteFieldBlockedWithoutForce(t *testing.T) {
	store := &stubStore{form: dependencyFixture()}
	m := fieldops.NewManager(store)

	result, err := m.DeleteField(context.Background(), "7", 5, fieldops.DeleteOptions{})
	if err != nil {
		t.Fatalf("refusal must not be an error: %v", err)
	}
	if result.Success {
		t.Fatalf("expected refusal, got %+v", result)
	}
	if !strings.Contains(result.Suggestion, "force=true") {
		t.Fatalf("suggestion = %q", result.Suggestion)
	}
	if store.replaces != 0 {
		t.Fatalf("refused delete must not write")
	}
}

func TestDeleteFieldForce(t *testing.T) {
	store := &stubStore{form: dependencyFixture()}
	m := fieldops.NewManager(store)

	result, err := m.DeleteField(context.Background(), "7", 5, fieldops.DeleteOptions{Force: true})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !result.Success {
		t.Fatalf("result = %+v", result)
	}
	if result.DeletedField == nil || result.DeletedField.ID != 5 || result.DeletedField.Label != "Tax" {
		t.Fatalf("deleted_field = %+v", result.DeletedField)
	}
	if store.replaced.FieldByID(5) != nil {
		t.Fatalf("field still present after delete")
	}
	// Without cascade the referencing rule stays behind.
	coupon := store.replaced.FieldByID(7)
	if coupon.ConditionalLogic == nil || len(coupon.ConditionalLogic.Rules) != 2 {
		t.Fatalf("rules should be untouched without cascade: %+v", coupon.ConditionalLogic)
	}
}

func TestDeleteFieldForceCascade(t *testing.T) {
	store := &stubStore{form: dependencyFixture()}
	m := fieldops.NewManager(store)

	result, err := m.DeleteField(context.Background(), "7", 5, fieldops.DeleteOptions{Force: true, Cascade: true})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !result.Success {
		t.Fatalf("result = %+v", result)
	}

	coupon := store.replaced.FieldByID(7)
	if coupon.ConditionalLogic == nil {
		t.Fatalf("logic block should survive, one rule remains")
	}
	if len(coupon.ConditionalLogic.Rules) != 1 || coupon.ConditionalLogic.Rules[0].FieldID != 4 {
		t.Fatalf("rules = %+v", coupon.ConditionalLogic.Rules)
	}
	if len(result.ActionsTaken) != 2 {
		t.Fatalf("actions = %+v", result.ActionsTaken)
	}
}

func TestDeleteFieldNotFound(t *testing.T) {
	store := &stubStore{form: &form.Form{ID: "7", Fields: []form.Field{{ID: 1}}}}
	m := fieldops.NewManager(store)

	_, err := m.DeleteField(context.Background(), "7", 42, fieldops.DeleteOptions{})
	if !errors.Is(err, fieldops.ErrFieldNotFound) {
		t.Fatalf("err = %v", err)
	}
}

func TestDeleteFieldUnreferencedNeedsNoForce(t *testing.T) {
	store := &stubStore{form: dependencyFixture()}
	m := fieldops.NewManager(store)

	// Field 8 only consumes a population parameter; nothing breaks.
	result, err := m.DeleteField(context.Background(), "7", 8, fieldops.DeleteOptions{})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !result.Success {
		t.Fatalf("result = %+v", result)
	}
}

func TestStoreErrorsPropagate(t *testing.T) {
	wantErr := errors.New("upstream down")
	m := fieldops.NewManager(&stubStore{fetchErr: wantErr})

	_, err := m.AddField(context.Background(), "11", "text", nil, fieldops.PositionSpec{})
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v", err)
	}
}
