package catalog

import (
	"fmt"
	"strings"

	"github.com/noah-isme/lris-api/internal/models"
	appErrors "github.com/noah-isme/lris-api/pkg/errors"
)

// Dispatcher maps category keys and URL segments to their descriptors.
// It is the only place that knows every category schema.
type Dispatcher struct {
	order     []*Descriptor
	byKey     map[models.Category]*Descriptor
	bySegment map[string]*Descriptor
}

// NewDispatcher registers the built-in categories. The factory supplies the
// store for each catalog schema; a nil factory leaves stores unset.
func NewDispatcher(factory StoreFactory) *Dispatcher {
	d := &Dispatcher{
		byKey:     make(map[models.Category]*Descriptor),
		bySegment: make(map[string]*Descriptor),
	}
	for _, desc := range builtinDescriptors() {
		if desc.Schema != nil && factory != nil {
			desc.Repository = factory(desc.Category, *desc.Schema)
		}
		d.register(desc)
	}
	return d
}

func (d *Dispatcher) register(desc Descriptor) {
	if _, exists := d.byKey[desc.Category]; exists {
		panic(fmt.Sprintf("catalog: category %q registered twice", desc.Category))
	}
	registered := desc
	d.order = append(d.order, &registered)
	d.byKey[desc.Category] = &registered
	if desc.Segment != "" {
		d.bySegment[desc.Segment] = &registered
	}
}

// Describe returns the descriptor for a category key.
func (d *Dispatcher) Describe(key string) (*Descriptor, error) {
	desc, ok := d.byKey[models.Category(key)]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrUnknownCategory, fmt.Sprintf("unknown resource category %q", key))
	}
	return desc, nil
}

// BySegment resolves the URL segment of a catalog endpoint, e.g. "slm".
func (d *Dispatcher) BySegment(segment string) (*Descriptor, error) {
	desc, ok := d.bySegment[strings.ToLower(segment)]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown catalog %q", segment))
	}
	return desc, nil
}

// Descriptors lists every category in registration order.
func (d *Dispatcher) Descriptors() []*Descriptor {
	out := make([]*Descriptor, len(d.order))
	copy(out, d.order)
	return out
}

// Catalogs lists the categories that have a backing catalog table.
func (d *Dispatcher) Catalogs() []*Descriptor {
	out := make([]*Descriptor, 0, len(d.order))
	for _, desc := range d.order {
		if desc.HasCatalog() {
			out = append(out, desc)
		}
	}
	return out
}
