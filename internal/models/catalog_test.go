package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogItemMarshalUsesSchemaFieldNames(t *testing.T) {
	schema := &CatalogSchema{
		IDField: "TVLItemID",
		Name:    Field{Name: "ItemName"},
	}
	item := CatalogItem{
		ID:         7,
		Category:   CategoryTVL,
		Name:       "Welding Kit",
		Attributes: map[string]interface{}{"Track": "TVL", "Strand": "SMAW"},
		Quantity:   3,
		Status:     DefaultItemStatus,
		CreatedBy:  "Admin",
		DateAdded:  time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		IsActive:   true,
		Schema:     schema,
	}

	raw, err := json.Marshal(item)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, float64(7), decoded["TVLItemID"])
	assert.Equal(t, "Welding Kit", decoded["ItemName"])
	assert.Equal(t, "SMAW", decoded["Strand"])
	assert.Equal(t, "TVL", decoded["ResourceCategory"])
	assert.Equal(t, true, decoded["IsActive"])
	assert.Nil(t, decoded["ModifiedBy"])
}

func TestSchemaFieldsOrder(t *testing.T) {
	schema := CatalogSchema{
		Name:             Field{Name: "EquipmentName"},
		Attributes:       []Field{{Name: "EquipmentType"}},
		QuantityRequired: true,
	}
	fields := schema.Fields()
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"EquipmentName", "EquipmentType", "Quantity", "Status", "Description"}, names)
	assert.True(t, fields[2].Required)
}

func TestSchoolLevelValid(t *testing.T) {
	assert.True(t, SchoolLevelSeniorHigh.Valid())
	assert.False(t, SchoolLevel("College").Valid())
}
