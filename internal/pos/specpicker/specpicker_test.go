package specpicker

import (
	"testing"

	"github.com/google/uuid"

	"github.com/hsallam/matjar-pos/pkg/types"
)

var (
	sizeSpec  = uuid.New()
	smallID   = uuid.New()
	largeID   = uuid.New()
	fabricID  = uuid.New()
	cottonID  = uuid.New()
	linenID   = uuid.New()
	otherSpec = uuid.New()
)

func intp(v int) *int { return &v }

func catalogSpecs() []types.Specification {
	return []types.Specification{
		{
			ID:    sizeSpec,
			Title: types.LocalizedText{En: "Size", Ar: "المقاس"},
			Values: []types.SpecificationValue{
				{ID: smallID, Value: types.LocalizedText{En: "Small", Ar: "صغير"}},
				{ID: largeID, Value: types.LocalizedText{En: "Large", Ar: "كبير"}},
			},
		},
		{
			ID:    fabricID,
			Title: types.LocalizedText{En: "Fabric", Ar: "القماش"},
			Values: []types.SpecificationValue{
				{ID: cottonID, Value: types.LocalizedText{En: "Cotton", Ar: "قطن"}},
				{ID: linenID, Value: types.LocalizedText{En: "Linen", Ar: "كتان"}},
			},
		},
		{
			ID:    otherSpec,
			Title: types.LocalizedText{En: "Irrelevant"},
			Values: []types.SpecificationValue{
				{ID: uuid.New(), Value: types.LocalizedText{En: "x"}},
			},
		},
	}
}

func shirt() types.Product {
	return types.Product{
		ID:    uuid.New(),
		Name:  types.LocalizedText{En: "Shirt", Ar: "قميص"},
		Stock: 50,
		SpecificationValues: []types.ProductSpecValue{
			{SpecificationID: sizeSpec, ValueID: smallID, Quantity: intp(3)},
			{SpecificationID: sizeSpec, ValueID: largeID, Quantity: intp(0)},
			{SpecificationID: fabricID, ValueID: cottonID, Quantity: intp(7)},
			{SpecificationID: fabricID, ValueID: linenID},
		},
	}
}

func TestRelevantTrimsToProductAxes(t *testing.T) {
	axes := Relevant(shirt(), catalogSpecs())
	if len(axes) != 2 {
		t.Fatalf("expected 2 relevant axes, got %d", len(axes))
	}
	for _, axis := range axes {
		if axis.ID == otherSpec {
			t.Fatal("unrelated axis leaked into the picker")
		}
	}
}

func TestSelectValueRejectsExhaustedStock(t *testing.T) {
	p := New(shirt(), catalogSpecs())
	if err := p.SelectValue(sizeSpec, largeID); err == nil {
		t.Fatal("expected rejection for a value with zero tracked stock")
	}
	if err := p.SelectValue(sizeSpec, smallID); err != nil {
		t.Fatalf("SelectValue: %v", err)
	}
}

func TestStockCeilingIsMinOfTrackedSelections(t *testing.T) {
	p := New(shirt(), catalogSpecs())
	if err := p.SelectValue(sizeSpec, smallID); err != nil {
		t.Fatalf("SelectValue size: %v", err)
	}
	if err := p.SelectValue(fabricID, cottonID); err != nil {
		t.Fatalf("SelectValue fabric: %v", err)
	}
	if got := p.StockCeiling(); got != 3 {
		t.Fatalf("ceiling = %d, want min(3, 7) = 3", got)
	}
}

func TestUntrackedSelectionFallsBackToProductStock(t *testing.T) {
	product := types.Product{
		ID:    uuid.New(),
		Stock: 12,
		SpecificationValues: []types.ProductSpecValue{
			{SpecificationID: fabricID, ValueID: linenID},
		},
	}
	p := New(product, catalogSpecs())
	if err := p.SelectValue(fabricID, linenID); err != nil {
		t.Fatalf("SelectValue: %v", err)
	}
	if got := p.StockCeiling(); got != 12 {
		t.Fatalf("ceiling = %d, want product stock 12", got)
	}
}

func TestStepperGatedOnCompleteSelection(t *testing.T) {
	p := New(shirt(), catalogSpecs())
	if p.StepperEnabled() {
		t.Fatal("stepper must stay disabled before any selection")
	}
	if err := p.SetQuantity(2); err == nil {
		t.Fatal("quantity change must be rejected before the selection completes")
	}

	if err := p.SelectValue(sizeSpec, smallID); err != nil {
		t.Fatalf("SelectValue: %v", err)
	}
	if p.StepperEnabled() {
		t.Fatal("stepper must stay disabled with one axis missing")
	}

	if err := p.SelectValue(fabricID, cottonID); err != nil {
		t.Fatalf("SelectValue: %v", err)
	}
	if !p.StepperEnabled() {
		t.Fatal("stepper should enable once every axis is chosen")
	}
}

func TestSetQuantityRespectsCeiling(t *testing.T) {
	p := New(shirt(), catalogSpecs())
	if err := p.SelectValue(sizeSpec, smallID); err != nil {
		t.Fatalf("SelectValue: %v", err)
	}
	if err := p.SelectValue(fabricID, cottonID); err != nil {
		t.Fatalf("SelectValue: %v", err)
	}

	if err := p.SetQuantity(3); err != nil {
		t.Fatalf("SetQuantity at ceiling: %v", err)
	}
	if err := p.SetQuantity(4); err == nil {
		t.Fatal("expected rejection above the ceiling")
	}
	if err := p.SetQuantity(0); err == nil {
		t.Fatal("expected rejection below 1")
	}
}

func TestConfirmBuildsChoices(t *testing.T) {
	p := New(shirt(), catalogSpecs())
	if _, err := p.Confirm(); err == nil {
		t.Fatal("incomplete selection must not confirm")
	}

	if err := p.SelectValue(sizeSpec, smallID); err != nil {
		t.Fatalf("SelectValue: %v", err)
	}
	if err := p.SelectValue(fabricID, cottonID); err != nil {
		t.Fatalf("SelectValue: %v", err)
	}
	if err := p.SetQuantity(2); err != nil {
		t.Fatalf("SetQuantity: %v", err)
	}

	sel, err := p.Confirm()
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if sel.Quantity != 2 {
		t.Fatalf("quantity = %d", sel.Quantity)
	}
	if len(sel.Specifications) != 2 {
		t.Fatalf("expected 2 choices, got %d", len(sel.Specifications))
	}
	byAxis := map[uuid.UUID]types.SpecificationChoice{}
	for _, c := range sel.Specifications {
		byAxis[c.SpecificationID] = c
	}
	if byAxis[sizeSpec].Value != "Small" || byAxis[sizeSpec].Title != "Size" {
		t.Fatalf("size choice = %+v", byAxis[sizeSpec])
	}
}

func TestColorRequiredWhenProductHasColors(t *testing.T) {
	product := shirt()
	red := types.ProductColor{ID: uuid.New(), Name: "Red", Value: "#ff0000"}
	product.Colors = []types.ProductColor{red}

	p := New(product, catalogSpecs())
	if err := p.SelectValue(sizeSpec, smallID); err != nil {
		t.Fatalf("SelectValue: %v", err)
	}
	if err := p.SelectValue(fabricID, cottonID); err != nil {
		t.Fatalf("SelectValue: %v", err)
	}
	if p.StepperEnabled() {
		t.Fatal("stepper must wait for the color choice")
	}

	if err := p.SelectColor(red.ID); err != nil {
		t.Fatalf("SelectColor: %v", err)
	}
	sel, err := p.Confirm()
	if err != nil {
		t.Fatalf("Confirm: %v", err)
	}
	if len(sel.Colors) != 1 || sel.Colors[0].Name != "Red" {
		t.Fatalf("color choice = %+v", sel.Colors)
	}
}
