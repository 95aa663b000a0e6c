package form

// TypePage is the sentinel field type that partitions a form into pages.
// A page field carries no data; the fields between two page sentinels make
// up one page, 1-indexed from the start of the sequence.
const TypePage = "page"

// Form is the schema document the platform stores for a single form. The
// field sequence order is authoritative: it is the rendering and tab order.
// Properties the model does not know about are preserved in Extra so a
// fetch/mutate/replace round trip never drops them.
type Form struct {
	ID            string                  `json:"id"`
	Title         string                  `json:"title,omitempty"`
	Description   string                  `json:"description,omitempty"`
	Fields        []Field                 `json:"fields"`
	Notifications map[string]Notification `json:"notifications,omitempty"`
	Confirmations map[string]Confirmation `json:"confirmations,omitempty"`

	Extra map[string]any `json:"-"`
}

// Field is a single input inside a form. ID is unique within the form and
// stable once assigned. Type is an open string tag resolved against the
// field type catalog; unknown tags still round-trip.
type Field struct {
	ID                 FieldID           `json:"id"`
	Type               string            `json:"type"`
	Label              string            `json:"label,omitempty"`
	Description        string            `json:"description,omitempty"`
	IsRequired         bool              `json:"isRequired"`
	Placeholder        string            `json:"placeholder,omitempty"`
	DefaultValue       string            `json:"defaultValue,omitempty"`
	Content            string            `json:"content,omitempty"`
	CSSClass           string            `json:"cssClass,omitempty"`
	Choices            []Choice          `json:"choices,omitempty"`
	Inputs             []SubInput        `json:"inputs,omitempty"`
	ConditionalLogic   *ConditionalLogic `json:"conditionalLogic,omitempty"`
	EnableCalculation  bool              `json:"enableCalculation,omitempty"`
	CalculationFormula string            `json:"calculationFormula,omitempty"`
	AllowsPrepopulate  bool              `json:"allowsPrepopulate,omitempty"`
	InputName          string            `json:"inputName,omitempty"`
	PageNumber         int               `json:"pageNumber,omitempty"`
	AddressType        string            `json:"addressType,omitempty"`
	NameFormat         string            `json:"nameFormat,omitempty"`
	DateFormat         string            `json:"dateFormat,omitempty"`
	DateType           string            `json:"dateType,omitempty"`

	Extra map[string]any `json:"-"`
}

// SubInput is one named slot of a compound field (address, name, ...). IDs
// follow the "{fieldID}.{n}" convention and are generated from the owning
// field's properties, never edited independently.
type SubInput struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Name  string `json:"name,omitempty"`
}

// Choice is a selectable option on choice-style fields.
type Choice struct {
	Text       string `json:"text"`
	Value      string `json:"value"`
	IsSelected bool   `json:"isSelected,omitempty"`
	Price      string `json:"price,omitempty"`
}

// ConditionalLogic shows or hides its owner depending on the values of other
// fields. Rules reference those fields by id.
type ConditionalLogic struct {
	ActionType string `json:"actionType,omitempty"`
	LogicType  string `json:"logicType,omitempty"`
	Rules      []Rule `json:"rules"`
}

// Rule is a single conditional-logic predicate against another field.
type Rule struct {
	FieldID  FieldID `json:"fieldId"`
	Operator string  `json:"operator"`
	Value    string  `json:"value"`
}

// Notification is an outbound message template attached to a form. Subject,
// message and recipient may embed merge tags referencing fields.
type Notification struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	To      string `json:"to,omitempty"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message,omitempty"`
}

// Confirmation is the post-submission message or redirect for a form.
type Confirmation struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name,omitempty"`
	Type    string `json:"type,omitempty"`
	Message string `json:"message,omitempty"`
	URL     string `json:"url,omitempty"`
}

// FieldByID returns a pointer to the field with the given id, or nil when no
// such field exists in the sequence.
func (f *Form) FieldByID(id FieldID) *Field {
	for i := range f.Fields {
		if f.Fields[i].ID == id {
			return &f.Fields[i]
		}
	}
	return nil
}

// IsPageBreak reports whether the field is a page-break sentinel.
func (f Field) IsPageBreak() bool {
	return f.Type == TypePage
}
