package reconcile

import (
	"testing"

	"ehurt-storefront/internal/cart"
	"ehurt-storefront/internal/catalog"
	"ehurt-storefront/internal/model"
)

func price(t *testing.T, s string) model.Money {
	t.Helper()
	m, err := model.ParseMoney(s)
	if err != nil {
		t.Fatalf("ParseMoney(%q): %v", s, err)
	}
	return m
}

func snapshot(t *testing.T) *catalog.Snapshot {
	t.Helper()
	return catalog.NewSnapshot([]model.CatalogItem{
		{ID: "1", Name: "Flour", Price: price(t, "4.50")},
		{ID: "2", Name: "Sugar", Price: price(t, "3.20")},
		{ID: "3", Name: "Salt", Price: price(t, "1.10")},
	}, nil)
}

func TestCheckLines_Clean(t *testing.T) {
	lines := []cart.Line{
		{ItemID: "1", Quantity: 2, UnitPrice: price(t, "4.50")},
		{ItemID: "3", Quantity: 1, UnitPrice: price(t, "1.10")},
	}

	report := CheckLines(lines, snapshot(t))
	if !report.IsClean() {
		t.Errorf("report = %+v, want clean", report)
	}
}

func TestCheckLines_UnknownProducts(t *testing.T) {
	lines := []cart.Line{
		{ItemID: "zzz", Quantity: 1, UnitPrice: price(t, "9.99")},
		{ItemID: "1", Quantity: 1, UnitPrice: price(t, "4.50")},
		{ItemID: "aaa", Quantity: 1, UnitPrice: price(t, "9.99")},
	}

	report := CheckLines(lines, snapshot(t))
	if len(report.Unknown) != 2 || report.Unknown[0] != "aaa" || report.Unknown[1] != "zzz" {
		t.Errorf("Unknown = %v, want [aaa zzz]", report.Unknown)
	}
	if len(report.PriceChanges) != 0 {
		t.Errorf("PriceChanges = %v, want none", report.PriceChanges)
	}
	if report.IsClean() {
		t.Error("report with unknown products reported clean")
	}
}

func TestCheckLines_PriceDrift(t *testing.T) {
	lines := []cart.Line{
		{ItemID: "1", Quantity: 2, UnitPrice: price(t, "4.00")}, // was cheaper at add time
		{ItemID: "2", Quantity: 1, UnitPrice: price(t, "3.20")}, // unchanged
	}

	report := CheckLines(lines, snapshot(t))
	if len(report.PriceChanges) != 1 {
		t.Fatalf("PriceChanges = %v, want one entry", report.PriceChanges)
	}

	change := report.PriceChanges[0]
	if change.ItemID != "1" {
		t.Errorf("ItemID = %s, want 1", change.ItemID)
	}
	if change.OldPrice != price(t, "4.00") {
		t.Errorf("OldPrice = %v, want 4.00", change.OldPrice)
	}
	if change.NewPrice != price(t, "4.50") {
		t.Errorf("NewPrice = %v, want 4.50", change.NewPrice)
	}
}

func TestCheckLines_MixedDiscrepancies(t *testing.T) {
	lines := []cart.Line{
		{ItemID: "ghost", Quantity: 1, UnitPrice: price(t, "2.00")},
		{ItemID: "2", Quantity: 4, UnitPrice: price(t, "2.90")},
	}

	report := CheckLines(lines, snapshot(t))
	if len(report.Unknown) != 1 || report.Unknown[0] != "ghost" {
		t.Errorf("Unknown = %v, want [ghost]", report.Unknown)
	}
	if len(report.PriceChanges) != 1 || report.PriceChanges[0].ItemID != "2" {
		t.Errorf("PriceChanges = %v, want drift on item 2", report.PriceChanges)
	}
}

func TestCheckLines_EmptyCart(t *testing.T) {
	report := CheckLines(nil, snapshot(t))
	if !report.IsClean() {
		t.Errorf("report = %+v, want clean for empty cart", report)
	}
}
