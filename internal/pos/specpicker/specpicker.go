// Package specpicker drives the dialog that collects a specification choice
// per relevant axis (and a color when the product has colors) before a
// configurable product can join the cart.
package specpicker

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/hsallam/matjar-pos/pkg/types"
)

// Selection is the confirmed outcome handed back to the workspace.
type Selection struct {
	Product        types.Product
	Quantity       int
	Specifications []types.SpecificationChoice
	Colors         []types.ColorChoice
}

// Picker holds the in-progress choice state for one product.
type Picker struct {
	product types.Product
	axes    []types.Specification

	mu       sync.Mutex
	values   map[uuid.UUID]uuid.UUID
	color    *types.ProductColor
	quantity int
}

// Relevant returns the specification axes the product actually references,
// each trimmed to the values the product carries.
func Relevant(product types.Product, all []types.Specification) []types.Specification {
	if len(product.SpecificationValues) == 0 {
		return nil
	}
	wanted := map[uuid.UUID]map[uuid.UUID]bool{}
	for _, sv := range product.SpecificationValues {
		if wanted[sv.SpecificationID] == nil {
			wanted[sv.SpecificationID] = map[uuid.UUID]bool{}
		}
		wanted[sv.SpecificationID][sv.ValueID] = true
	}

	var axes []types.Specification
	for _, spec := range all {
		valueIDs, ok := wanted[spec.ID]
		if !ok {
			continue
		}
		trimmed := types.Specification{ID: spec.ID, Title: spec.Title}
		for _, v := range spec.Values {
			if valueIDs[v.ID] {
				trimmed.Values = append(trimmed.Values, v)
			}
		}
		if len(trimmed.Values) > 0 {
			axes = append(axes, trimmed)
		}
	}
	return axes
}

// New builds a picker for the product. The caller passes the full
// specification catalog; only the relevant axes are kept.
func New(product types.Product, all []types.Specification) *Picker {
	return &Picker{
		product:  product,
		axes:     Relevant(product, all),
		values:   map[uuid.UUID]uuid.UUID{},
		quantity: 1,
	}
}

// Axes returns the specification axes the dialog must render.
func (p *Picker) Axes() []types.Specification {
	return append([]types.Specification(nil), p.axes...)
}

// Required reports whether the product needs this dialog at all. A product
// referencing spec values whose axes are missing from the catalog still
// requires it, rather than silently skipping the choice.
func (p *Picker) Required() bool {
	return len(p.product.SpecificationValues) > 0 || len(p.product.Colors) > 0
}

// SelectValue records the choice for one axis. A value whose tracked stock is
// exhausted cannot be selected.
func (p *Picker) SelectValue(specID, valueID uuid.UUID) error {
	axis := p.axis(specID)
	if axis == nil {
		return fmt.Errorf("specification %s does not apply to this product", specID)
	}
	found := false
	for _, v := range axis.Values {
		if v.ID == valueID {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("value %s is not offered for this product", valueID)
	}
	if qty, tracked := p.trackedQuantity(specID, valueID); tracked && qty <= 0 {
		return fmt.Errorf("selected value is out of stock")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[specID] = valueID
	if c := p.ceilingLocked(); c > 0 && p.quantity > c {
		p.quantity = c
	}
	return nil
}

// SelectColor records the color choice.
func (p *Picker) SelectColor(colorID uuid.UUID) error {
	for _, c := range p.product.Colors {
		if c.ID == colorID {
			p.mu.Lock()
			defer p.mu.Unlock()
			chosen := c
			p.color = &chosen
			return nil
		}
	}
	return fmt.Errorf("color %s is not offered for this product", colorID)
}

// StockCeiling is the maximum quantity the current selection allows: the
// smallest tracked remaining stock across the selected values, or the
// product's own stock when nothing tracked is selected.
func (p *Picker) StockCeiling() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.ceilingLocked()
}

func (p *Picker) ceilingLocked() int {
	ceiling := -1
	for specID, valueID := range p.values {
		if qty, tracked := p.trackedQuantity(specID, valueID); tracked {
			if ceiling < 0 || qty < ceiling {
				ceiling = qty
			}
		}
	}
	if ceiling < 0 {
		return p.product.Stock
	}
	return ceiling
}

// StepperEnabled reports whether the quantity stepper is usable: every axis
// chosen, a color chosen when the product has colors, and stock remaining.
func (p *Picker) StepperEnabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completeLocked() && p.ceilingLocked() > 0
}

func (p *Picker) completeLocked() bool {
	for _, axis := range p.axes {
		if _, ok := p.values[axis.ID]; !ok {
			return false
		}
	}
	if len(p.product.Colors) > 0 && p.color == nil {
		return false
	}
	return true
}

// Quantity returns the pending quantity.
func (p *Picker) Quantity() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.quantity
}

// SetQuantity moves the stepper within [1, StockCeiling]. It requires a
// complete selection first.
func (p *Picker) SetQuantity(quantity int) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.completeLocked() {
		return fmt.Errorf("complete the selection before changing quantity")
	}
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1")
	}
	if ceiling := p.ceilingLocked(); quantity > ceiling {
		return fmt.Errorf("only %d in stock for this selection", ceiling)
	}
	p.quantity = quantity
	return nil
}

// Confirm finalizes the dialog into a Selection.
func (p *Picker) Confirm() (Selection, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.completeLocked() {
		return Selection{}, fmt.Errorf("selection is incomplete")
	}
	if p.ceilingLocked() <= 0 {
		return Selection{}, fmt.Errorf("selection is out of stock")
	}

	sel := Selection{Product: p.product, Quantity: p.quantity}
	for _, axis := range p.axes {
		valueID := p.values[axis.ID]
		choice := types.SpecificationChoice{
			SpecificationID: axis.ID,
			ValueID:         valueID,
			Title:           axis.Title.En,
		}
		for _, v := range axis.Values {
			if v.ID == valueID {
				choice.Value = v.Value.En
				break
			}
		}
		sel.Specifications = append(sel.Specifications, choice)
	}
	if p.color != nil {
		sel.Colors = append(sel.Colors, types.ColorChoice{
			ColorID: p.color.ID,
			Name:    p.color.Name,
			Value:   p.color.Value,
		})
	}
	return sel, nil
}

func (p *Picker) axis(specID uuid.UUID) *types.Specification {
	for i := range p.axes {
		if p.axes[i].ID == specID {
			return &p.axes[i]
		}
	}
	return nil
}

// trackedQuantity returns the remaining stock for one (axis, value) pair and
// whether that pair is stock-tracked at all.
func (p *Picker) trackedQuantity(specID, valueID uuid.UUID) (int, bool) {
	for _, sv := range p.product.SpecificationValues {
		if sv.SpecificationID == specID && sv.ValueID == valueID {
			if sv.Quantity == nil {
				return 0, false
			}
			return *sv.Quantity, true
		}
	}
	return 0, false
}
