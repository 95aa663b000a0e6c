package fieldtype

import "sync"

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the shared registry preloaded with the built-in catalog.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
		for _, def := range catalog {
			defaultRegistry.MustRegister(def)
		}
	})
	return defaultRegistry
}

// catalog mirrors the platform's built-in field types. Defaults are the
// properties a new field of that type starts from before caller input is
// layered on top.
var catalog = []Definition{
	{Type: "text", Label: "Single Line Text", Kind: KindStandard},
	{Type: "textarea", Label: "Paragraph Text", Kind: KindStandard},
	{Type: "select", Label: "Drop Down", Kind: KindStandard, HasChoices: true},
	{Type: "multiselect", Label: "Multi Select", Kind: KindStandard, HasChoices: true},
	{Type: "number", Label: "Number", Kind: KindStandard, Defaults: map[string]any{"numberFormat": "decimal_dot"}},
	{Type: "checkbox", Label: "Checkboxes", Kind: KindStandard, HasChoices: true},
	{Type: "radio", Label: "Radio Buttons", Kind: KindStandard, HasChoices: true},
	{Type: "hidden", Label: "Hidden", Kind: KindStandard},
	{Type: "html", Label: "HTML", Kind: KindStandard, Description: "Arbitrary HTML content block; stores no entry value."},
	{Type: "section", Label: "Section Break", Kind: KindStandard},
	{Type: "page", Label: "Page Break", Kind: KindStandard, Description: "Splits the form into pages; stores no entry value."},

	{Type: "name", Label: "Name", Kind: KindAdvanced, Compound: true, Defaults: map[string]any{"nameFormat": "advanced"}},
	{Type: "date", Label: "Date", Kind: KindAdvanced, Defaults: map[string]any{"dateFormat": "mdy", "dateType": "datepicker"}},
	{Type: "time", Label: "Time", Kind: KindAdvanced, Defaults: map[string]any{"timeFormat": "12"}},
	{Type: "phone", Label: "Phone", Kind: KindAdvanced, Defaults: map[string]any{"phoneFormat": "standard"}},
	{Type: "address", Label: "Address", Kind: KindAdvanced, Compound: true, Defaults: map[string]any{"addressType": "us"}},
	{Type: "website", Label: "Website", Kind: KindAdvanced},
	{Type: "email", Label: "Email", Kind: KindAdvanced},
	{Type: "fileupload", Label: "File Upload", Kind: KindAdvanced},
	{Type: "captcha", Label: "CAPTCHA", Kind: KindAdvanced},
	{Type: "list", Label: "List", Kind: KindAdvanced},
	{Type: "consent", Label: "Consent", Kind: KindAdvanced, Compound: true, Defaults: map[string]any{"checkboxLabel": "I agree to the privacy policy."}},

	{Type: "post_title", Label: "Post Title", Kind: KindPost},
	{Type: "post_content", Label: "Post Body", Kind: KindPost},
	{Type: "post_excerpt", Label: "Post Excerpt", Kind: KindPost},
	{Type: "post_tags", Label: "Post Tags", Kind: KindPost},
	{Type: "post_category", Label: "Post Category", Kind: KindPost, HasChoices: true},
	{Type: "post_image", Label: "Post Image", Kind: KindPost},

	{Type: "product", Label: "Product", Kind: KindPricing},
	{Type: "quantity", Label: "Quantity", Kind: KindPricing},
	{Type: "option", Label: "Option", Kind: KindPricing, HasChoices: true},
	{Type: "shipping", Label: "Shipping", Kind: KindPricing},
	{Type: "total", Label: "Total", Kind: KindPricing},
	{Type: "creditcard", Label: "Credit Card", Kind: KindPricing, Compound: true},
}
