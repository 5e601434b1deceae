package geo

import (
	"testing"

	"geofeed/internal/domain/content"
	"geofeed/internal/domain/geo"
)

func proximityItems() []content.Item {
	return []content.Item{
		{ID: "here", Location: &content.Location{Latitude: 40.0, Longitude: -75.0}},
		{ID: "next-door", Location: &content.Location{Latitude: 40.0001, Longitude: -75.0}},
		{ID: "across-town", Location: &content.Location{Latitude: 40.05, Longitude: -75.0}},
		{ID: "other-side", Location: &content.Location{Latitude: -40.0, Longitude: 105.0}},
		{ID: "no-coords"},
	}
}

func ids(items []content.Item) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestFilterByProximity_NilLocationReturnsInput(t *testing.T) {
	items := proximityItems()

	got := FilterByProximity(items, nil, geo.ModeLocal)
	if len(got) != len(items) {
		t.Fatalf("expected %d items, got %d", len(items), len(got))
	}
	for i := range items {
		if got[i].ID != items[i].ID {
			t.Errorf("item %d: expected %s, got %s", i, items[i].ID, got[i].ID)
		}
	}
}

func TestFilterByProximity_Local(t *testing.T) {
	current := &content.Location{Latitude: 40.0, Longitude: -75.0}

	got := ids(FilterByProximity(proximityItems(), current, geo.ModeLocal))
	want := []string{"here", "next-door"}

	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected %v, got %v", want, got)
		}
	}
}

func TestFilterByProximity_GlobalDropsOnlyMissingCoordinates(t *testing.T) {
	current := &content.Location{Latitude: 40.0, Longitude: -75.0}

	got := ids(FilterByProximity(proximityItems(), current, geo.ModeGlobal))
	if len(got) != 4 {
		t.Fatalf("expected 4 geotagged items, got %v", got)
	}
	for _, id := range got {
		if id == "no-coords" {
			t.Error("item without coordinates should be excluded")
		}
	}
}

func TestParseProximityMode(t *testing.T) {
	if geo.ParseProximityMode("local") != geo.ModeLocal {
		t.Error("expected local")
	}
	for _, s := range []string{"", "global", "LOCAL", "nearby"} {
		if geo.ParseProximityMode(s) != geo.ModeGlobal {
			t.Errorf("expected %q to parse as global", s)
		}
	}
}

func TestBucket(t *testing.T) {
	if Bucket(nil, 0.01) != GlobalBucket {
		t.Error("expected global bucket for nil location")
	}

	a := Bucket(&content.Location{Latitude: 40.71231, Longitude: -74.00601}, 0.01)
	b := Bucket(&content.Location{Latitude: 40.71479, Longitude: -74.00899}, 0.01)
	c := Bucket(&content.Location{Latitude: 40.75, Longitude: -74.00601}, 0.01)

	if a != b {
		t.Errorf("expected nearby points to share a bucket: %s vs %s", a, b)
	}
	if a == c {
		t.Errorf("expected distant points to differ: %s", a)
	}
}
