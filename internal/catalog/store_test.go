package catalog

import (
	"context"
	"errors"
	"testing"

	"ehurt-storefront/internal/bus"
	"ehurt-storefront/internal/model"
)

type fakeFetcher struct {
	items      []model.CatalogItem
	categories []string
	err        error
	calls      int
}

func (f *fakeFetcher) FetchCatalog(ctx context.Context) ([]model.CatalogItem, []string, error) {
	f.calls++
	return f.items, f.categories, f.err
}

func price(t *testing.T, s string) model.Money {
	t.Helper()
	m, err := model.ParseMoney(s)
	if err != nil {
		t.Fatalf("ParseMoney(%q): %v", s, err)
	}
	return m
}

func TestRefreshSwapsSnapshotAndPublishes(t *testing.T) {
	fetcher := &fakeFetcher{
		items: []model.CatalogItem{
			{ID: "1", Name: "Flour", Price: price(t, "4.50"), Category: "Baking"},
		},
		categories: []string{"Baking"},
	}
	b := bus.New()

	events := 0
	b.Subscribe(bus.TopicCatalogUpdated, func(bus.Event) { events++ })

	store := NewStore(fetcher, b)
	before := store.Snapshot()

	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	after := store.Snapshot()
	if after == before {
		t.Error("Refresh did not replace the snapshot")
	}
	if len(after.Items) != 1 || after.Items[0].ID != "1" {
		t.Errorf("snapshot items = %+v", after.Items)
	}
	if events != 1 {
		t.Errorf("catalog-updated published %d times, want 1", events)
	}
}

func TestRefreshFailureKeepsSnapshotSilently(t *testing.T) {
	fetcher := &fakeFetcher{
		items: []model.CatalogItem{{ID: "1", Name: "Flour", Price: price(t, "4.50")}},
	}
	b := bus.New()
	store := NewStore(fetcher, b)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("seed Refresh: %v", err)
	}

	events := 0
	b.Subscribe(bus.TopicCatalogUpdated, func(bus.Event) { events++ })

	fetcher.err = errors.New("upstream down")
	before := store.Snapshot()

	if err := store.Refresh(context.Background()); err == nil {
		t.Fatal("Refresh should surface the fetch error")
	}

	if store.Snapshot() != before {
		t.Error("failed refresh replaced the snapshot")
	}
	if events != 0 {
		t.Error("failed refresh published catalog-updated")
	}
}

func TestSnapshotLookup(t *testing.T) {
	snap := NewSnapshot([]model.CatalogItem{
		{ID: "a", Name: "Sugar"},
		{ID: "b", Name: "Salt"},
	}, nil)

	if item, ok := snap.Item("b"); !ok || item.Name != "Salt" {
		t.Errorf("Item(b) = %+v, %v", item, ok)
	}
	if _, ok := snap.Item("missing"); ok {
		t.Error("Item(missing) reported present")
	}
}
