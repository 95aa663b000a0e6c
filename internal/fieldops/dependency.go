package fieldops

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/formbridge/formbridge/pkg/form"
)

// Dependencies is the combined result of the four reference scans for one
// target field. Computed on demand, never persisted.
type Dependencies struct {
	ConditionalLogic  []LogicDependency       `json:"conditionalLogic"`
	Calculations      []CalculationDependency `json:"calculations"`
	MergeTags         []MergeTagDependency    `json:"mergeTags"`
	DynamicPopulation []PopulationDependency  `json:"dynamicPopulation"`
}

// LogicDependency records another field whose conditional logic references
// the target.
type LogicDependency struct {
	FieldID    form.FieldID `json:"field_id"`
	FieldLabel string       `json:"field_label"`
	RuleCount  int          `json:"rule_count"`
}

// CalculationDependency records a calculation formula that embeds a merge
// tag pointing at the target. Matches holds every reference found, since a
// formula may mention several fields.
type CalculationDependency struct {
	FieldID    form.FieldID `json:"field_id"`
	FieldLabel string       `json:"field_label"`
	Formula    string       `json:"formula"`
	Matches    []string     `json:"matches"`
}

// MergeTagDependency records merge-tag text that references the target. The
// location is notification, confirmation, or field; Property names the text
// property that held the tag.
type MergeTagDependency struct {
	Location string       `json:"location"`
	Name     string       `json:"name,omitempty"`
	Property string       `json:"field"`
	FieldID  form.FieldID `json:"field_id,omitempty"`
}

// PopulationDependency records one side of a dynamic-population link: the
// target accepting a URL parameter, or another field consuming the same
// parameter through its default value.
type PopulationDependency struct {
	FieldID    form.FieldID `json:"field_id"`
	FieldLabel string       `json:"field_label"`
	Usage      string       `json:"usage"`
	Parameter  string       `json:"parameter,omitempty"`
}

const (
	usageAcceptsPopulation = "accepts_population"
	usageConsumesParameter = "consumes_parameter"
)

// mergeTagPattern matches every {Label:id} style merge tag referencing the
// given field id, including sub-input (:id.n) and modifier (:id:mod) forms.
func mergeTagPattern(id form.FieldID) *regexp.Regexp {
	return regexp.MustCompile(`\{[^{}]*:` + id.String() + `(\.\d+)?(:[^{}]*)?\}`)
}

// ScanConditionalLogic finds fields other than the target whose conditional
// logic rules reference the target id.
func ScanConditionalLogic(f *form.Form, target form.FieldID) []LogicDependency {
	var deps []LogicDependency
	for _, field := range f.Fields {
		if field.ID == target || field.ConditionalLogic == nil {
			continue
		}
		count := 0
		for _, rule := range field.ConditionalLogic.Rules {
			if rule.FieldID == target {
				count++
			}
		}
		if count > 0 {
			deps = append(deps, LogicDependency{
				FieldID:    field.ID,
				FieldLabel: field.Label,
				RuleCount:  count,
			})
		}
	}
	return deps
}

// ScanCalculations finds calculation-enabled fields whose formula embeds a
// merge tag referencing the target id.
func ScanCalculations(f *form.Form, target form.FieldID) []CalculationDependency {
	pattern := mergeTagPattern(target)
	var deps []CalculationDependency
	for _, field := range f.Fields {
		if field.ID == target || !field.EnableCalculation || field.CalculationFormula == "" {
			continue
		}
		matches := pattern.FindAllString(field.CalculationFormula, -1)
		if len(matches) == 0 {
			continue
		}
		deps = append(deps, CalculationDependency{
			FieldID:    field.ID,
			FieldLabel: field.Label,
			Formula:    field.CalculationFormula,
			Matches:    matches,
		})
	}
	return deps
}

// ScanMergeTags finds merge-tag references to the target in notification
// subject/message/recipient text, confirmation messages, and field content
// or default values.
func ScanMergeTags(f *form.Form, target form.FieldID) []MergeTagDependency {
	pattern := mergeTagPattern(target)
	var deps []MergeTagDependency

	for _, id := range sortedKeys(f.Notifications) {
		n := f.Notifications[id]
		for property, text := range map[string]string{
			"subject": n.Subject,
			"message": n.Message,
			"to":      n.To,
		} {
			if pattern.MatchString(text) {
				deps = append(deps, MergeTagDependency{
					Location: "notification",
					Name:     id,
					Property: property,
				})
			}
		}
	}

	for _, id := range sortedKeys(f.Confirmations) {
		c := f.Confirmations[id]
		if pattern.MatchString(c.Message) {
			deps = append(deps, MergeTagDependency{
				Location: "confirmation",
				Name:     id,
				Property: "message",
			})
		}
	}

	for _, field := range f.Fields {
		if field.ID == target {
			continue
		}
		if pattern.MatchString(field.Content) {
			deps = append(deps, MergeTagDependency{
				Location: "field",
				Property: "content",
				FieldID:  field.ID,
			})
		}
		if pattern.MatchString(field.DefaultValue) {
			deps = append(deps, MergeTagDependency{
				Location: "field",
				Property: "defaultValue",
				FieldID:  field.ID,
			})
		}
	}

	sortMergeTagDeps(deps)
	return deps
}

// ScanDynamicPopulation reports both directions of a dynamic-population
// link for the target: the target itself when it accepts a URL parameter,
// and any other field whose default value consumes that parameter.
func ScanDynamicPopulation(f *form.Form, target form.FieldID) []PopulationDependency {
	field := f.FieldByID(target)
	if field == nil || !field.AllowsPrepopulate || field.InputName == "" {
		return nil
	}

	deps := []PopulationDependency{{
		FieldID:    field.ID,
		FieldLabel: field.Label,
		Usage:      usageAcceptsPopulation,
		Parameter:  field.InputName,
	}}

	consumed := "{" + field.InputName + "}"
	for _, other := range f.Fields {
		if other.ID == target {
			continue
		}
		if other.DefaultValue == consumed {
			deps = append(deps, PopulationDependency{
				FieldID:    other.ID,
				FieldLabel: other.Label,
				Usage:      usageConsumesParameter,
				Parameter:  field.InputName,
			})
		}
	}
	return deps
}

// ScanFormDependencies runs all four scans against the form for one target
// field id.
func ScanFormDependencies(f *form.Form, target form.FieldID) Dependencies {
	return Dependencies{
		ConditionalLogic:  ScanConditionalLogic(f, target),
		Calculations:      ScanCalculations(f, target),
		MergeTags:         ScanMergeTags(f, target),
		DynamicPopulation: ScanDynamicPopulation(f, target),
	}
}

// HasBreakingDependencies reports whether deleting the scanned field would
// leave another field's conditional logic structurally invalid. Calculation,
// merge-tag, and dynamic-population references are reported but never
// blocking: removing their target leaves dangling text, which the platform
// tolerates at render time.
func HasBreakingDependencies(deps Dependencies) bool {
	return len(deps.ConditionalLogic) > 0
}

// Total counts every recorded dependency across the four categories.
func (d Dependencies) Total() int {
	return len(d.ConditionalLogic) + len(d.Calculations) + len(d.MergeTags) + len(d.DynamicPopulation)
}

// DependencySummary renders a one-line count per non-empty category.
func DependencySummary(deps Dependencies) string {
	var parts []string
	if n := len(deps.ConditionalLogic); n > 0 {
		parts = append(parts, fmt.Sprintf("%d conditional logic %s", n, plural(n, "reference", "references")))
	}
	if n := len(deps.Calculations); n > 0 {
		parts = append(parts, fmt.Sprintf("%d calculation %s", n, plural(n, "formula", "formulas")))
	}
	if n := len(deps.MergeTags); n > 0 {
		parts = append(parts, fmt.Sprintf("%d merge %s", n, plural(n, "tag", "tags")))
	}
	if n := len(deps.DynamicPopulation); n > 0 {
		parts = append(parts, fmt.Sprintf("%d dynamic population %s", n, plural(n, "link", "links")))
	}
	if len(parts) == 0 {
		return "No dependencies found"
	}
	return strings.Join(parts, ", ")
}

func plural(n int, singular, pluralForm string) string {
	if n == 1 {
		return singular
	}
	return pluralForm
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// sortMergeTagDeps keeps scan output deterministic: map iteration order must
// not leak into results.
func sortMergeTagDeps(deps []MergeTagDependency) {
	sort.SliceStable(deps, func(i, j int) bool {
		if deps[i].Location != deps[j].Location {
			return deps[i].Location < deps[j].Location
		}
		if deps[i].Name != deps[j].Name {
			return deps[i].Name < deps[j].Name
		}
		return deps[i].Property < deps[j].Property
	})
}
