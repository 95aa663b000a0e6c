package fieldops

import (
	"fmt"
	"strings"

	"github.com/formbridge/formbridge/pkg/form"
)

type subInputSpec struct {
	suffix int
	label  string
}

// Sub-input layouts keyed by type and variant. Suffixes are sparse on
// purpose: the platform reserves unused slots (e.g. name .5 and .7) for
// formats this catalog does not expose.
var (
	addressDomestic = []subInputSpec{
		{1, "Street Address"},
		{2, "Address Line 2"},
		{3, "City"},
		{4, "State"},
		{5, "ZIP Code"},
		{6, "Country"},
	}
	addressInternational = []subInputSpec{
		{1, "Street Address"},
		{2, "Address Line 2"},
		{3, "City"},
		{4, "State / Province"},
		{5, "ZIP / Postal Code"},
		{6, "Country"},
	}
	nameAdvanced = []subInputSpec{
		{2, "Prefix"},
		{3, "First"},
		{4, "Middle"},
		{6, "Last"},
		{8, "Suffix"},
	}
	nameSimple = []subInputSpec{
		{3, "First"},
		{6, "Last"},
	}
	creditCard = []subInputSpec{
		{1, "Card Number"},
		{2, "Expiration Date"},
		{3, "Security Code"},
		{4, "Cardholder Name"},
		{5, "Card Type"},
	}
	consent = []subInputSpec{
		{1, "Consent"},
		{2, "Text"},
		{3, "Description"},
	}
)

// GenerateSubInputs builds the sub-input set for a compound field from its
// type tag and properties. The variant discriminator is type specific:
// addressType for address fields, nameFormat for name fields. Non-compound
// or unrecognised types yield nil.
func GenerateSubInputs(id form.FieldID, typeTag string, props map[string]any) []form.SubInput {
	var specs []subInputSpec

	switch typeTag {
	case "address":
		switch stringProp(props, "addressType") {
		case "international":
			specs = addressInternational
		default:
			// us and canadian share the domestic layout
			specs = addressDomestic
		}
	case "name":
		switch stringProp(props, "nameFormat") {
		case "simple":
			specs = nameSimple
		default:
			specs = nameAdvanced
		}
	case "creditcard":
		specs = creditCard
	case "consent":
		specs = consent
	default:
		return nil
	}

	inputs := make([]form.SubInput, 0, len(specs))
	for _, spec := range specs {
		inputs = append(inputs, form.SubInput{
			ID:    fmt.Sprintf("%d.%d", id, spec.suffix),
			Label: spec.label,
			Name:  storageName(spec.label),
		})
	}
	return inputs
}

func stringProp(props map[string]any, key string) string {
	if props == nil {
		return ""
	}
	s, _ := props[key].(string)
	return strings.TrimSpace(s)
}

// storageName derives the parameter-friendly name for a sub-input label.
func storageName(label string) string {
	name := strings.ToLower(label)
	name = strings.NewReplacer(" / ", "_", " ", "_", "/", "_").Replace(name)
	return name
}
