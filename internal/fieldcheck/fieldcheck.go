// Package fieldcheck produces advisory warnings for a field about to be
// written. Nothing here blocks a write; the warnings ride along in the
// operation result so the caller can decide what matters.
package fieldcheck

import (
	"fmt"
	"strings"

	"github.com/formbridge/formbridge/pkg/fieldtype"
	"github.com/formbridge/formbridge/pkg/form"
)

var dateFormats = map[string]struct{}{
	"mdy": {}, "dmy": {}, "dmy_dash": {}, "dmy_dot": {},
	"ymd_slash": {}, "ymd_dash": {}, "ymd_dot": {},
}

// Checker inspects fields against the type catalog.
type Checker struct {
	registry *fieldtype.Registry
}

// New creates a Checker over the given catalog.
func New(registry *fieldtype.Registry) *Checker {
	if registry == nil {
		registry = fieldtype.Default()
	}
	return &Checker{registry: registry}
}

// Warnings reports everything about the field a human would want flagged
// before it lands on the live form.
func (c *Checker) Warnings(f form.Field) []string {
	var warnings []string

	def, known := c.registry.Get(f.Type)

	if strings.TrimSpace(f.Label) == "" && f.Type != "html" && f.Type != form.TypePage {
		warnings = append(warnings, fmt.Sprintf("field %d has no label", f.ID))
	}

	if known && def.HasChoices {
		switch {
		case len(f.Choices) == 0:
			warnings = append(warnings, fmt.Sprintf("%s field %d has no choices", f.Type, f.ID))
		default:
			if dup := duplicateChoiceValue(f.Choices); dup != "" {
				warnings = append(warnings, fmt.Sprintf("field %d has duplicate choice value %q", f.ID, dup))
			}
		}
	}

	if known && def.Compound && len(f.Inputs) == 0 {
		warnings = append(warnings, fmt.Sprintf("%s field %d has no sub-inputs", f.Type, f.ID))
	}

	if f.Type == "date" && f.DateFormat != "" {
		if _, ok := dateFormats[f.DateFormat]; !ok {
			warnings = append(warnings, fmt.Sprintf("field %d has unrecognised date format %q", f.ID, f.DateFormat))
		}
	}

	if f.EnableCalculation && strings.TrimSpace(f.CalculationFormula) == "" {
		warnings = append(warnings, fmt.Sprintf("field %d enables calculation but has no formula", f.ID))
	}

	if f.ConditionalLogic != nil && len(f.ConditionalLogic.Rules) == 0 {
		warnings = append(warnings, fmt.Sprintf("field %d has conditional logic with no rules", f.ID))
	}

	if f.AllowsPrepopulate && strings.TrimSpace(f.InputName) == "" {
		warnings = append(warnings, fmt.Sprintf("field %d allows dynamic population but names no parameter", f.ID))
	}

	return warnings
}

func duplicateChoiceValue(choices []form.Choice) string {
	seen := make(map[string]struct{}, len(choices))
	for _, choice := range choices {
		value := choice.Value
		if value == "" {
			value = choice.Text
		}
		if _, ok := seen[value]; ok {
			return value
		}
		seen[value] = struct{}{}
	}
	return ""
}
