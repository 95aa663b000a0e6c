// Package fieldops mutates a form's field collection while preserving the
// structural correctness of everything that references fields from the side:
// conditional logic, calculation formulas, merge tags, dynamic population,
// and the page-partitioned field order.
//
// Every operation is one fetch and, on success, one full-schema replace
// against the Store. The backing platform has no partial-update primitive,
// so two concurrent operations on the same form race and the later replace
// silently wins. Callers needing safety must serialise per form id.
package fieldops

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/formbridge/formbridge/pkg/fieldtype"
	"github.com/formbridge/formbridge/pkg/form"
)

// Store is the persistence boundary: the external system of record for form
// schemas. Implementations must treat ReplaceForm as a full overwrite.
type Store interface {
	FetchForm(ctx context.Context, formID string) (*form.Form, error)
	ReplaceForm(ctx context.Context, formID string, f *form.Form) (*form.Form, error)
}

// Validator supplies advisory, non-blocking warnings for a field about to
// be written.
type Validator interface {
	Warnings(f form.Field) []string
}

// Sentinel errors for structural impossibilities. Both fail fast, before
// any write.
var (
	ErrUnknownFieldType = errors.New("unknown field type")
	ErrFieldNotFound    = errors.New("field not found")
)

// Manager implements add/update/delete over a form's field collection.
type Manager struct {
	store     Store
	registry  *fieldtype.Registry
	validator Validator
}

// Option configures a Manager.
type Option func(*Manager)

// WithRegistry overrides the field type catalog. Defaults to the built-in
// catalog.
func WithRegistry(reg *fieldtype.Registry) Option {
	return func(m *Manager) {
		if reg != nil {
			m.registry = reg
		}
	}
}

// WithValidator attaches an advisory field validator. Its warnings are
// reported alongside successful results and never block a write.
func WithValidator(v Validator) Option {
	return func(m *Manager) { m.validator = v }
}

// NewManager creates a Manager over the given store.
func NewManager(store Store, options ...Option) *Manager {
	m := &Manager{
		store:    store,
		registry: fieldtype.Default(),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

// NextFieldID allocates the id for a new field: one past the highest
// numeric id in the sequence. Ids that never parsed as numbers contribute
// zero, so an empty or all-non-numeric sequence starts at 1. Pure and
// deterministic.
func NextFieldID(fields []form.Field) form.FieldID {
	max := form.FieldID(0)
	for _, f := range fields {
		if f.ID > max {
			max = f.ID
		}
	}
	return max + 1
}

// CreateField builds a field of the given type without touching the store.
// Properties are layered: catalog defaults first, then type-specific
// structural defaults, then caller properties (the caller always wins), and
// finally the forced id. Compound types get their sub-inputs generated from
// the merged properties.
func (m *Manager) CreateField(id form.FieldID, typeTag string, props map[string]any) (form.Field, error) {
	def, ok := m.registry.Get(typeTag)
	if !ok {
		return form.Field{}, fmt.Errorf("fieldops: type %q: %w", typeTag, ErrUnknownFieldType)
	}

	merged := make(map[string]any, len(def.Defaults)+len(props)+2)
	for key, value := range def.Defaults {
		merged[key] = value
	}
	if def.HasChoices && !hasChoices(merged, props) {
		merged["choices"] = placeholderChoices()
	}
	for key, value := range props {
		merged[key] = value
	}
	merged["type"] = def.Type
	merged["id"] = int(id)

	field, err := decodeField(merged)
	if err != nil {
		return form.Field{}, fmt.Errorf("fieldops: build %q field: %w", typeTag, err)
	}
	field.ID = id
	field.Type = def.Type
	if field.Label == "" {
		field.Label = def.Label
	}
	if def.Compound {
		field.Inputs = GenerateSubInputs(id, def.Type, merged)
	}
	return field, nil
}

// InsertedPosition reports where AddField placed the new field.
type InsertedPosition struct {
	Index   int             `json:"index"`
	Summary PositionSummary `json:"summary"`
}

// AddResult is the outcome of a successful AddField.
type AddResult struct {
	Field    form.Field       `json:"field"`
	Position InsertedPosition `json:"position"`
	Warnings []string         `json:"warnings,omitempty"`
}

// AddField creates a field of the given type and inserts it where pos
// resolves to. The type is checked before any mutation; an unusable
// position spec also fails before the write.
func (m *Manager) AddField(ctx context.Context, formID, typeTag string, props map[string]any, pos PositionSpec) (*AddResult, error) {
	f, err := m.store.FetchForm(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("fieldops: fetch form %s: %w", formID, err)
	}

	id := NextFieldID(f.Fields)
	field, err := m.CreateField(id, typeTag, props)
	if err != nil {
		return nil, err
	}

	check := ValidatePositionConfig(pos, f.Fields)
	if !check.Valid {
		return nil, fmt.Errorf("fieldops: invalid position config: %s", check.Errors[0])
	}

	index := CalculatePosition(f.Fields, pos)
	f.Fields = insertField(f.Fields, index, field)

	if _, err := m.store.ReplaceForm(ctx, formID, f); err != nil {
		return nil, fmt.Errorf("fieldops: replace form %s: %w", formID, err)
	}

	result := &AddResult{
		Field: field,
		Position: InsertedPosition{
			Index:   index,
			Summary: SummarizePosition(f.Fields, index, field),
		},
		Warnings: check.Warnings,
	}
	if m.validator != nil {
		result.Warnings = append(result.Warnings, m.validator.Warnings(field)...)
	}
	return result, nil
}

// FieldChanges captures the before/after snapshots of an update.
type FieldChanges struct {
	Before form.Field `json:"before"`
	After  form.Field `json:"after"`
}

// UpdateWarnings carries the advisory findings reported alongside a
// successful update.
type UpdateWarnings struct {
	Dependencies *Dependencies `json:"dependencies,omitempty"`
	Validation   []string      `json:"validation,omitempty"`
}

// UpdateResult is the outcome of a successful UpdateField.
type UpdateResult struct {
	Field    form.Field     `json:"field"`
	Changes  FieldChanges   `json:"changes"`
	Warnings UpdateWarnings `json:"warnings"`
}

// UpdateField merges the given properties over the existing field. The id
// is immutable: whatever the properties say, the existing id sticks.
// Dependency findings are computed against the pre-update schema and
// reported as warnings; the update always proceeds.
func (m *Manager) UpdateField(ctx context.Context, formID string, fieldID form.FieldID, props map[string]any) (*UpdateResult, error) {
	f, err := m.store.FetchForm(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("fieldops: fetch form %s: %w", formID, err)
	}

	index := indexOf(f.Fields, fieldID)
	if index < 0 {
		return nil, fmt.Errorf("fieldops: field %d in form %s: %w", fieldID, formID, ErrFieldNotFound)
	}
	before := f.Fields[index]

	deps := ScanFormDependencies(f, fieldID)

	merged, err := mergeField(before, props)
	if err != nil {
		return nil, fmt.Errorf("fieldops: merge field %d: %w", fieldID, err)
	}
	updated, err := decodeField(merged)
	if err != nil {
		return nil, fmt.Errorf("fieldops: apply properties to field %d: %w", fieldID, err)
	}
	updated.ID = before.ID

	// Compound sub-inputs are derived state: regenerate them from the
	// merged properties rather than trusting hand-edited input lists.
	if def, ok := m.registry.Get(updated.Type); ok && def.Compound {
		updated.Inputs = GenerateSubInputs(updated.ID, def.Type, merged)
	}

	f.Fields[index] = updated
	if _, err := m.store.ReplaceForm(ctx, formID, f); err != nil {
		return nil, fmt.Errorf("fieldops: replace form %s: %w", formID, err)
	}

	result := &UpdateResult{
		Field:   updated,
		Changes: FieldChanges{Before: before, After: updated},
	}
	if deps.Total() > 0 {
		result.Warnings.Dependencies = &deps
	}
	if m.validator != nil {
		result.Warnings.Validation = m.validator.Warnings(updated)
	}
	return result, nil
}

// DeleteOptions controls DeleteField behaviour. Force overrides a breaking
// dependency refusal; Cascade additionally strips the breaking references
// from the schema before the field is removed.
type DeleteOptions struct {
	Force   bool `json:"force,omitempty"`
	Cascade bool `json:"cascade,omitempty"`
}

// DeletedField is the identity summary of a removed field.
type DeletedField struct {
	ID    form.FieldID `json:"id"`
	Type  string       `json:"type"`
	Label string       `json:"label"`
}

// DeleteResult is the outcome of DeleteField. A dependency-blocked delete
// is a refusal, not an error: Success is false and Suggestion tells the
// caller how to proceed.
type DeleteResult struct {
	Success      bool          `json:"success"`
	Error        string        `json:"error,omitempty"`
	Suggestion   string        `json:"suggestion,omitempty"`
	DeletedField *DeletedField `json:"deleted_field,omitempty"`
	Dependencies Dependencies  `json:"dependencies"`
	ActionsTaken []string      `json:"actions_taken,omitempty"`
}

// DeleteField removes a field from the form. When other fields' conditional
// logic still references the target and Force is unset, the delete is
// refused with a structured result instead of an error. Cascade removes the
// breaking references from the in-memory schema before the field itself.
func (m *Manager) DeleteField(ctx context.Context, formID string, fieldID form.FieldID, opts DeleteOptions) (*DeleteResult, error) {
	f, err := m.store.FetchForm(ctx, formID)
	if err != nil {
		return nil, fmt.Errorf("fieldops: fetch form %s: %w", formID, err)
	}

	index := indexOf(f.Fields, fieldID)
	if index < 0 {
		return nil, fmt.Errorf("fieldops: field %d in form %s: %w", fieldID, formID, ErrFieldNotFound)
	}
	target := f.Fields[index]

	deps := ScanFormDependencies(f, fieldID)
	if HasBreakingDependencies(deps) && !opts.Force {
		return &DeleteResult{
			Success:      false,
			Error:        fmt.Sprintf("field %d is referenced by conditional logic on %d other field(s): %s", fieldID, len(deps.ConditionalLogic), DependencySummary(deps)),
			Suggestion:   "retry with force=true to delete anyway, optionally with cascade=true to strip the referencing rules",
			Dependencies: deps,
		}, nil
	}

	var actions []string
	if opts.Cascade {
		actions = cascadeConditionalLogic(f, fieldID)
	}

	f.Fields = append(f.Fields[:index], f.Fields[index+1:]...)
	actions = append(actions, fmt.Sprintf("removed field %d (%s)", fieldID, target.Type))

	if _, err := m.store.ReplaceForm(ctx, formID, f); err != nil {
		return nil, fmt.Errorf("fieldops: replace form %s: %w", formID, err)
	}

	return &DeleteResult{
		Success: true,
		DeletedField: &DeletedField{
			ID:    target.ID,
			Type:  target.Type,
			Label: target.Label,
		},
		Dependencies: deps,
		ActionsTaken: actions,
	}, nil
}

// cascadeConditionalLogic strips every conditional-logic rule pointing at
// the target field. Rules lists that end up empty take their whole logic
// block with them.
func cascadeConditionalLogic(f *form.Form, target form.FieldID) []string {
	var actions []string
	for i := range f.Fields {
		field := &f.Fields[i]
		if field.ConditionalLogic == nil {
			continue
		}
		kept := field.ConditionalLogic.Rules[:0:0]
		removed := 0
		for _, rule := range field.ConditionalLogic.Rules {
			if rule.FieldID == target {
				removed++
				continue
			}
			kept = append(kept, rule)
		}
		if removed == 0 {
			continue
		}
		if len(kept) == 0 {
			field.ConditionalLogic = nil
			actions = append(actions, fmt.Sprintf("removed conditional logic from field %d", field.ID))
		} else {
			field.ConditionalLogic.Rules = kept
			actions = append(actions, fmt.Sprintf("removed %d conditional logic rule(s) from field %d", removed, field.ID))
		}
	}
	return actions
}

func insertField(fields []form.Field, index int, field form.Field) []form.Field {
	index = clamp(index, 0, len(fields))
	fields = append(fields, form.Field{})
	copy(fields[index+1:], fields[index:])
	fields[index] = field
	return fields
}

// mergeField overlays caller properties on a field's wire representation,
// giving the caller the last word on every key except id.
func mergeField(existing form.Field, props map[string]any) (map[string]any, error) {
	raw, err := json.Marshal(existing)
	if err != nil {
		return nil, err
	}
	merged := make(map[string]any)
	if err := json.Unmarshal(raw, &merged); err != nil {
		return nil, err
	}
	for key, value := range props {
		merged[key] = value
	}
	merged["id"] = int(existing.ID)
	return merged, nil
}

func decodeField(props map[string]any) (form.Field, error) {
	raw, err := json.Marshal(props)
	if err != nil {
		return form.Field{}, err
	}
	var field form.Field
	if err := json.Unmarshal(raw, &field); err != nil {
		return form.Field{}, err
	}
	return field, nil
}

func hasChoices(merged, props map[string]any) bool {
	if _, ok := props["choices"]; ok {
		return true
	}
	_, ok := merged["choices"]
	return ok
}

func placeholderChoices() []map[string]any {
	return []map[string]any{
		{"text": "First Choice", "value": "First Choice"},
		{"text": "Second Choice", "value": "Second Choice"},
		{"text": "Third Choice", "value": "Third Choice"},
	}
}
