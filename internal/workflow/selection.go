// Package workflow holds the resource selection state machine: a category,
// school and quarter are chosen first, then an item and quantity, and the
// result is written to the distribution ledger.
package workflow

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/noah-isme/lris-api/internal/catalog"
	"github.com/noah-isme/lris-api/internal/dto"
	"github.com/noah-isme/lris-api/internal/models"
	appErrors "github.com/noah-isme/lris-api/pkg/errors"
)

// State is a step of the selection workflow.
type State string

const (
	StateCategorySelection State = "CategorySelection"
	StateItemSelection     State = "ItemSelection"
	StateSubmitted         State = "Submitted"
)

// Option is one pickable catalog item.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Selection is the state of one submission. It is a plain value so it can be
// stored between requests.
type Selection struct {
	ID        string                     `json:"id"`
	State     State                      `json:"state"`
	Category  models.Category            `json:"category,omitempty"`
	SchoolID  string                     `json:"schoolId,omitempty"`
	Quarter   string                     `json:"quarter,omitempty"`
	ItemLabel string                     `json:"itemLabel,omitempty"`
	FreeText  bool                       `json:"freeText"`
	Options   []Option                   `json:"options"`
	Record    *models.DistributionRecord `json:"record,omitempty"`
	CreatedAt time.Time                  `json:"createdAt"`
}

// New starts a selection in CategorySelection.
func New(id string, now time.Time) *Selection {
	return &Selection{ID: id, State: StateCategorySelection, Options: []Option{}, CreatedAt: now}
}

// CategoryChoice is the input of the first step.
type CategoryChoice struct {
	Category string
	SchoolID string
	Quarter  string
}

// Submission is the input of the second step. ItemID is the option value.
type Submission struct {
	ItemID       string
	ResourceName string
	Quantity     int
	Notes        string
}

// Catalog supplies descriptors and the items currently on offer.
type Catalog interface {
	Describe(key string) (*catalog.Descriptor, error)
	ActiveItems(ctx context.Context, category models.Category) ([]models.CatalogItem, error)
}

// Ledger stores the finished selection.
type Ledger interface {
	Record(ctx context.Context, req dto.RecordDistributionRequest) (*models.DistributionRecord, error)
}

// Machine drives selections through their transitions. A failed transition
// leaves the selection untouched.
type Machine struct {
	catalog Catalog
	ledger  Ledger
}

// NewMachine creates a workflow machine.
func NewMachine(c Catalog, l Ledger) *Machine {
	return &Machine{catalog: c, ledger: l}
}

// ChooseCategory moves the selection to ItemSelection and loads the options.
// It may be repeated while in ItemSelection to change the earlier choices.
func (m *Machine) ChooseCategory(ctx context.Context, sel *Selection, choice CategoryChoice) error {
	if sel.State == StateSubmitted {
		return appErrors.Clone(appErrors.ErrInvalidState, "selection already submitted")
	}

	choice.Category = strings.TrimSpace(choice.Category)
	choice.SchoolID = strings.TrimSpace(choice.SchoolID)
	choice.Quarter = strings.TrimSpace(choice.Quarter)
	switch {
	case choice.Category == "":
		return appErrors.Clone(appErrors.ErrValidation, "please select a category")
	case choice.SchoolID == "":
		return appErrors.Clone(appErrors.ErrValidation, "please select a school")
	case choice.Quarter == "":
		return appErrors.Clone(appErrors.ErrValidation, "please select a quarter")
	}

	desc, err := m.catalog.Describe(choice.Category)
	if err != nil {
		return err
	}

	options := []Option{}
	if desc.HasCatalog() {
		items, err := m.catalog.ActiveItems(ctx, desc.Category)
		if err != nil {
			return err
		}
		for _, item := range items {
			options = append(options, Option{Value: strconv.FormatInt(item.ID, 10), Label: desc.Label(item)})
		}
	}

	sel.State = StateItemSelection
	sel.Category = desc.Category
	sel.SchoolID = choice.SchoolID
	sel.Quarter = choice.Quarter
	sel.ItemLabel = desc.ItemLabel
	sel.FreeText = !desc.HasCatalog()
	sel.Options = options
	return nil
}

// Submit records the chosen item and moves the selection to Submitted.
func (m *Machine) Submit(ctx context.Context, sel *Selection, sub Submission) error {
	if sel.State != StateItemSelection {
		return appErrors.Clone(appErrors.ErrInvalidState, fmt.Sprintf("cannot submit from %s", sel.State))
	}
	if sub.Quantity < 1 {
		return appErrors.Clone(appErrors.ErrValidation, "quantity must be at least 1")
	}

	req := dto.RecordDistributionRequest{
		SchoolID:         sel.SchoolID,
		ResourceCategory: sel.Category,
		Quantity:         sub.Quantity,
	}
	if notes := strings.TrimSpace(sub.Notes); notes != "" {
		req.Notes = &notes
	}

	if sel.FreeText {
		name := strings.TrimSpace(sub.ResourceName)
		if name == "" {
			return appErrors.Clone(appErrors.ErrValidation, "please enter a resource name")
		}
		req.ResourceName = &name
	} else {
		id, err := m.pickItem(sel, sub.ItemID)
		if err != nil {
			return err
		}
		if err := m.stillActive(ctx, sel.Category, id); err != nil {
			return err
		}
		req.ResourceItemID = &id
	}

	record, err := m.ledger.Record(ctx, req)
	if err != nil {
		return err
	}
	sel.Record = record
	sel.State = StateSubmitted
	return nil
}

func (m *Machine) pickItem(sel *Selection, raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, appErrors.Clone(appErrors.ErrValidation, "please select an item")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, appErrors.Clone(appErrors.ErrValidation, "item id must be an integer")
	}
	value := strconv.FormatInt(id, 10)
	for _, opt := range sel.Options {
		if opt.Value == value {
			return id, nil
		}
	}
	return 0, appErrors.Clone(appErrors.ErrValidation, "item is not among the offered options")
}

// stillActive guards against items retired after the options were loaded.
func (m *Machine) stillActive(ctx context.Context, category models.Category, id int64) error {
	items, err := m.catalog.ActiveItems(ctx, category)
	if err != nil {
		return err
	}
	for _, item := range items {
		if item.ID == id {
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrValidation, "item is no longer available")
}
