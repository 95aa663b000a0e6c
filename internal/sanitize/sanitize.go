// Package sanitize scrubs HTML-bearing field properties before they reach
// the form store. The platform renders labels, HTML blocks, and default
// values verbatim in the browser, so tool input is treated as untrusted.
package sanitize

import (
	"github.com/microcosm-cc/bluemonday"

	"github.com/formbridge/formbridge/pkg/form"
)

var (
	// ugc keeps the markup a form author legitimately uses in content
	// blocks and confirmation text.
	ugc = bluemonday.UGCPolicy()
	// strict strips all markup; labels and choice text are plain text.
	strict = bluemonday.StrictPolicy()
)

// HTML sanitizes rich-text content, keeping common formatting tags.
func HTML(s string) string {
	return ugc.Sanitize(s)
}

// Text strips all markup from a plain-text property.
func Text(s string) string {
	return strict.Sanitize(s)
}

// FieldProperties scrubs the HTML-bearing keys of a raw property map in
// place and returns it. Unknown keys pass through untouched: the form
// store, not this layer, decides what they mean.
func FieldProperties(props map[string]any) map[string]any {
	if props == nil {
		return nil
	}
	for key, value := range props {
		s, ok := value.(string)
		if !ok {
			continue
		}
		switch key {
		case "content", "description", "defaultValue", "checkboxLabel":
			props[key] = HTML(s)
		case "label", "placeholder", "inputName":
			props[key] = Text(s)
		}
	}
	if choices, ok := props["choices"].([]any); ok {
		for _, c := range choices {
			choice, ok := c.(map[string]any)
			if !ok {
				continue
			}
			if text, ok := choice["text"].(string); ok {
				choice["text"] = Text(text)
			}
			if value, ok := choice["value"].(string); ok {
				choice["value"] = Text(value)
			}
		}
	}
	return props
}

// Field scrubs a decoded field's text properties in place.
func Field(f *form.Field) {
	f.Label = Text(f.Label)
	f.Placeholder = Text(f.Placeholder)
	f.Description = HTML(f.Description)
	f.Content = HTML(f.Content)
	f.DefaultValue = HTML(f.DefaultValue)
	for i := range f.Choices {
		f.Choices[i].Text = Text(f.Choices[i].Text)
		f.Choices[i].Value = Text(f.Choices[i].Value)
	}
}
