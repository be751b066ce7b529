package catalog

import (
	"fmt"
	"strings"

	"github.com/noah-isme/lris-api/internal/models"
)

const endpointPrefix = "/items/"

var (
	slmSchema = models.CatalogSchema{
		Table:    "slm_items",
		IDField:  "SLMItemID",
		IDColumn: "slm_item_id",
		Name:     models.Field{Name: "Title", Label: "Title", Kind: models.FieldText, Required: true, Column: "title", Rule: "max=255"},
		Attributes: []models.Field{
			{Name: "Subject", Label: "Subject", Kind: models.FieldText, Required: true, Column: "subject", Rule: "max=100"},
			{Name: "GradeLevel", Label: "Grade Level", Kind: models.FieldText, Required: true, Column: "grade_level", Rule: "max=50"},
			{Name: "Quarter", Label: "Quarter", Kind: models.FieldText, Required: true, Column: "quarter", Rule: "max=50"},
		},
		QuantityRequired: true,
	}

	equipmentSchema = models.CatalogSchema{
		Table:    "equipment_items",
		IDField:  "EquipmentID",
		IDColumn: "equipment_id",
		Name:     models.Field{Name: "EquipmentName", Label: "Equipment Name", Kind: models.FieldText, Required: true, Column: "equipment_name", Rule: "max=255"},
		Attributes: []models.Field{
			{Name: "EquipmentType", Label: "Equipment Type", Kind: models.FieldText, Required: true, Column: "equipment_type", Rule: "max=100"},
		},
		QuantityRequired: true,
	}

	tvlSchema = models.CatalogSchema{
		Table:    "tvl_items",
		IDField:  "TVLItemID",
		IDColumn: "tvl_item_id",
		Name:     models.Field{Name: "ItemName", Label: "Item Name", Kind: models.FieldText, Required: true, Column: "item_name", Rule: "max=255"},
		Attributes: []models.Field{
			{Name: "Track", Label: "Track", Kind: models.FieldText, Required: true, Column: "track", Rule: "max=100"},
			{Name: "Strand", Label: "Strand", Kind: models.FieldText, Required: true, Column: "strand", Rule: "max=100"},
			{Name: "GradeLevel", Label: "Grade Level", Kind: models.FieldText, Required: true, Column: "grade_level", Rule: "max=50"},
		},
		QuantityRequired: true,
	}

	// Lesson exemplars are tracked per week; quantity is optional.
	lessonExemplarSchema = models.CatalogSchema{
		Table:    "lesson_exemplar_items",
		IDField:  "LessonID",
		IDColumn: "lesson_id",
		Name:     models.Field{Name: "LessonTitle", Label: "Lesson Title", Kind: models.FieldText, Required: true, Column: "lesson_title", Rule: "max=255"},
		Attributes: []models.Field{
			{Name: "Subject", Label: "Subject", Kind: models.FieldText, Required: true, Column: "subject", Rule: "max=100"},
			{Name: "GradeLevel", Label: "Grade Level", Kind: models.FieldText, Required: true, Column: "grade_level", Rule: "max=50"},
			{Name: "Quarter", Label: "Quarter", Kind: models.FieldText, Required: true, Column: "quarter", Rule: "max=50"},
			{Name: "Week", Label: "Week", Kind: models.FieldNumber, Required: true, Column: "week", Rule: "min=1,max=53"},
		},
	}
)

func builtinDescriptors() []Descriptor {
	return []Descriptor{
		catalogDescriptor(models.CategorySLM, "slm", "SLM/SLAS Item", slmSchema, RetireHardDelete,
			func(item models.CatalogItem) string {
				return labelWith(item.Name, item.Attribute("Subject"), item.Attribute("GradeLevel"), item.Attribute("Quarter"))
			}),
		catalogDescriptor(models.CategoryEquipment, "equipment", "Equipment Item", equipmentSchema, RetireSoftDelete,
			func(item models.CatalogItem) string {
				return labelWith(item.Name, item.Attribute("EquipmentType"))
			}),
		catalogDescriptor(models.CategoryTVL, "tvl", "TVL Item", tvlSchema, RetireSoftDelete,
			func(item models.CatalogItem) string {
				return labelWith(item.Name, item.Attribute("Track"), item.Attribute("Strand"))
			}),
		catalogDescriptor(models.CategoryLessonExemplar, "lesson", "Lesson Exemplar Item", lessonExemplarSchema, RetireHardDelete,
			func(item models.CatalogItem) string {
				week := item.Attribute("Week")
				if week != nil {
					week = fmt.Sprintf("Week %v", week)
				}
				return labelWith(item.Name, item.Attribute("Subject"), item.Attribute("GradeLevel"), item.Attribute("Quarter"), week)
			}),
		{
			Category:  models.CategoryOthers,
			ItemLabel: "Resource Name",
			Fields: []models.Field{
				{Name: ResourceNameField, Label: "Resource Name", Kind: models.FieldText, Required: true, Rule: "max=255"},
			},
		},
	}
}

func catalogDescriptor(category models.Category, segment, itemLabel string, schema models.CatalogSchema, retire RetirePolicy, label func(models.CatalogItem) string) Descriptor {
	s := schema
	return Descriptor{
		Category:        category,
		ItemLabel:       itemLabel,
		Segment:         segment,
		EndpointPath:    endpointPrefix + segment,
		IdentifierField: s.IDField,
		Fields:          s.Fields(),
		Retire:          retire,
		Schema:          &s,
		DisplayLabel:    label,
	}
}

// labelWith renders "Name (a, b, c)" skipping empty parts.
func labelWith(name string, parts ...interface{}) string {
	var details []string
	for _, p := range parts {
		if p == nil {
			continue
		}
		if s := strings.TrimSpace(fmt.Sprint(p)); s != "" {
			details = append(details, s)
		}
	}
	if len(details) == 0 {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, strings.Join(details, ", "))
}
