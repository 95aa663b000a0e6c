package fieldops

import (
	"fmt"

	"github.com/formbridge/formbridge/pkg/form"
)

// Mode selects how an insertion index is derived from a PositionSpec.
type Mode string

const (
	ModeAppend  Mode = "append"
	ModePrepend Mode = "prepend"
	ModeAfter   Mode = "after"
	ModeBefore  Mode = "before"
	ModeIndex   Mode = "index"
)

// PositionSpec describes where a new field should land in the sequence. The
// zero value means plain append. Page is 1-indexed; zero means the spec is
// not page aware.
type PositionSpec struct {
	Mode      Mode         `json:"mode,omitempty"`
	Reference form.FieldID `json:"reference,omitempty"`
	Index     int          `json:"index,omitempty"`
	Page      int          `json:"page,omitempty"`
}

// PositionValidation is the outcome of a non-mutating pre-check of a
// PositionSpec. Errors make the spec unusable; warnings mean the spec still
// resolves, just not necessarily to what the caller pictured.
type PositionValidation struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// PageBoundaries returns the indices of the page-break sentinel fields in
// sequence order.
func PageBoundaries(fields []form.Field) []int {
	var bounds []int
	for i, f := range fields {
		if f.IsPageBreak() {
			bounds = append(bounds, i)
		}
	}
	return bounds
}

// PageCount reports how many pages the sequence has. A form with no page
// breaks is a single page.
func PageCount(fields []form.Field) int {
	return len(PageBoundaries(fields)) + 1
}

// FieldsForPage returns the non-sentinel fields strictly inside page n
// (1-indexed). Out-of-range pages yield nil.
func FieldsForPage(fields []form.Field, page int) []form.Field {
	start, end, ok := pageSpan(fields, page)
	if !ok {
		return nil
	}
	var out []form.Field
	for _, f := range fields[start:end] {
		if !f.IsPageBreak() {
			out = append(out, f)
		}
	}
	return out
}

// FieldPage returns the 1-based page holding the field with the given id.
// The boolean is false when the field is absent from the sequence.
func FieldPage(fields []form.Field, id form.FieldID) (int, bool) {
	page := 1
	for _, f := range fields {
		if f.IsPageBreak() {
			page++
			continue
		}
		if f.ID == id {
			return page, true
		}
	}
	return 0, false
}

// pageSpan resolves page n to a half-open [start, end) slice of the field
// sequence, excluding nothing: the span may include the trailing sentinel
// index as its end bound. Adjacent sentinels produce an empty span.
func pageSpan(fields []form.Field, page int) (int, int, bool) {
	if page < 1 {
		return 0, 0, false
	}
	bounds := PageBoundaries(fields)
	if page > len(bounds)+1 {
		return 0, 0, false
	}
	start := 0
	if page > 1 {
		start = bounds[page-2] + 1
	}
	end := len(fields)
	if page <= len(bounds) {
		end = bounds[page-1]
	}
	return start, end, true
}

// CalculatePosition resolves a PositionSpec to an insertion index in
// [0, len(fields)]. An unset mode appends. A reference id missing from the
// sequence falls back to append; ValidatePositionConfig surfaces that case
// as a warning beforehand.
func CalculatePosition(fields []form.Field, spec PositionSpec) int {
	mode := spec.Mode
	if mode == "" {
		mode = ModeAppend
	}

	if spec.Page > 0 && (mode == ModeAppend || mode == ModePrepend) {
		return pagePosition(fields, mode, spec.Page)
	}

	switch mode {
	case ModePrepend:
		return 0
	case ModeAfter:
		if i := indexOf(fields, spec.Reference); i >= 0 {
			return i + 1
		}
		return len(fields)
	case ModeBefore:
		if i := indexOf(fields, spec.Reference); i >= 0 {
			return i
		}
		return len(fields)
	case ModeIndex:
		return clamp(spec.Index, 0, len(fields))
	default:
		return len(fields)
	}
}

// pagePosition resolves append/prepend against a 1-indexed page. Appending
// to page n lands immediately before that page's trailing boundary; a page
// past the last boundary (including a page number beyond the current count)
// lands at the end of the sequence, opening a new trailing page.
func pagePosition(fields []form.Field, mode Mode, page int) int {
	bounds := PageBoundaries(fields)

	if mode == ModePrepend {
		if page <= 1 {
			return 0
		}
		if page-1 <= len(bounds) {
			return bounds[page-2] + 1
		}
		return len(fields)
	}

	if page <= len(bounds) {
		return bounds[page-1]
	}
	return len(fields)
}

// ValidatePositionConfig pre-checks a spec against the current sequence.
// It never mutates and is safe to call repeatedly with identical results.
func ValidatePositionConfig(spec PositionSpec, fields []form.Field) PositionValidation {
	result := PositionValidation{Valid: true}

	mode := spec.Mode
	if mode == "" {
		mode = ModeAppend
	}
	switch mode {
	case ModeAppend, ModePrepend, ModeAfter, ModeBefore, ModeIndex:
	default:
		result.Errors = append(result.Errors, fmt.Sprintf("unknown position mode %q", spec.Mode))
	}

	if spec.Page < 0 {
		result.Errors = append(result.Errors, fmt.Sprintf("page must be a positive integer, got %d", spec.Page))
	}

	if mode == ModeAfter || mode == ModeBefore {
		switch {
		case spec.Reference == 0:
			result.Warnings = append(result.Warnings, fmt.Sprintf("mode %q without a reference field falls back to append", mode))
		case indexOf(fields, spec.Reference) < 0:
			result.Warnings = append(result.Warnings, fmt.Sprintf("reference field %d not found; falling back to append", spec.Reference))
		}
	}

	if spec.Page > 0 {
		if total := PageCount(fields); spec.Page > total {
			result.Warnings = append(result.Warnings, fmt.Sprintf("page %d exceeds current page count %d; field will start a new trailing page", spec.Page, total))
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// PositionSummary describes where an insertion landed, for human-readable
// confirmations.
type PositionSummary struct {
	Index       int          `json:"index"`
	TotalFields int          `json:"total_fields"`
	TotalPages  int          `json:"total_pages"`
	Page        int          `json:"page,omitempty"`
	PreviousID  form.FieldID `json:"previous_field_id,omitempty"`
	NextID      form.FieldID `json:"next_field_id,omitempty"`
}

// SummarizePosition reports the neighbourhood of an insertion after the new
// field is already part of the sequence.
func SummarizePosition(fields []form.Field, insertedIndex int, inserted form.Field) PositionSummary {
	summary := PositionSummary{
		Index:       insertedIndex,
		TotalFields: len(fields),
		TotalPages:  PageCount(fields),
	}
	if page, ok := FieldPage(fields, inserted.ID); ok {
		summary.Page = page
	}
	if insertedIndex > 0 && insertedIndex-1 < len(fields) {
		summary.PreviousID = fields[insertedIndex-1].ID
	}
	if insertedIndex+1 < len(fields) {
		summary.NextID = fields[insertedIndex+1].ID
	}
	return summary
}

func indexOf(fields []form.Field, id form.FieldID) int {
	if id == 0 {
		return -1
	}
	for i, f := range fields {
		if f.ID == id {
			return i
		}
	}
	return -1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
