package models

import (
	"encoding/json"
	"time"
)

// Category is a resource category key as stored on distribution records.
type Category string

const (
	CategorySLM            Category = "SLM/SLAS"
	CategoryEquipment      Category = "Equipment"
	CategoryTVL            Category = "TVL"
	CategoryLessonExemplar Category = "Lesson Exemplar(Matatag)"
	CategoryOthers         Category = "Others"
)

// FieldKind describes how a catalog field is entered and stored.
type FieldKind string

const (
	FieldText     FieldKind = "text"
	FieldNumber   FieldKind = "number"
	FieldTextarea FieldKind = "textarea"
)

// Field describes one editable field of a category.
type Field struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Kind     FieldKind `json:"kind"`
	Required bool      `json:"required"`
	// Column is the backing column; empty for fields with no catalog table.
	Column string `json:"-"`
	// Rule is an extra validator tag applied to present values.
	Rule string `json:"-"`
}

// Common catalog field names.
const (
	FieldQuantity    = "Quantity"
	FieldStatus      = "Status"
	FieldDescription = "Description"
	FieldCreatedBy   = "CreatedBy"
	FieldModifiedBy  = "ModifiedBy"
)

// DefaultItemStatus is applied when a payload leaves Status empty.
const DefaultItemStatus = "Available"

// CatalogSchema is the table layout of one catalog category.
type CatalogSchema struct {
	Table            string
	IDField          string
	IDColumn         string
	Name             Field
	Attributes       []Field
	QuantityRequired bool
}

// Fields returns every editable field in display order.
func (s CatalogSchema) Fields() []Field {
	fields := make([]Field, 0, len(s.Attributes)+4)
	fields = append(fields, s.Name)
	fields = append(fields, s.Attributes...)
	fields = append(fields,
		Field{Name: FieldQuantity, Label: "Quantity", Kind: FieldNumber, Required: s.QuantityRequired, Column: "quantity", Rule: "gte=0,lte=2147483647"},
		Field{Name: FieldStatus, Label: "Status", Kind: FieldText, Column: "status", Rule: "max=50"},
		Field{Name: FieldDescription, Label: "Description", Kind: FieldTextarea, Column: "description"},
	)
	return fields
}

// CatalogItem is one row of a catalog table. Attributes holds the
// category-specific fields keyed by field name: strings for text fields and
// ints for number fields.
type CatalogItem struct {
	ID           int64
	Category     Category
	Name         string
	Attributes   map[string]interface{}
	Quantity     int
	Status       string
	Description  string
	CreatedBy    string
	ModifiedBy   *string
	DateAdded    time.Time
	DateModified *time.Time
	IsActive     bool

	Schema *CatalogSchema
}

// Attribute returns a category-specific value or nil.
func (i CatalogItem) Attribute(name string) interface{} {
	if i.Attributes == nil {
		return nil
	}
	return i.Attributes[name]
}

// MarshalJSON flattens the item into the category's own field names, e.g.
// {"SLMItemID": 1, "Title": "...", "Subject": "...", ...}.
func (i CatalogItem) MarshalJSON() ([]byte, error) {
	idField, nameField := "ID", "Name"
	if i.Schema != nil {
		idField, nameField = i.Schema.IDField, i.Schema.Name.Name
	}

	out := make(map[string]interface{}, len(i.Attributes)+11)
	for k, v := range i.Attributes {
		out[k] = v
	}
	out[idField] = i.ID
	out[nameField] = i.Name
	out["ResourceCategory"] = i.Category
	out[FieldQuantity] = i.Quantity
	out[FieldStatus] = i.Status
	out[FieldDescription] = i.Description
	out[FieldCreatedBy] = i.CreatedBy
	out[FieldModifiedBy] = i.ModifiedBy
	out["DateAdded"] = i.DateAdded
	out["DateModified"] = i.DateModified
	out["IsActive"] = i.IsActive
	return json.Marshal(out)
}
