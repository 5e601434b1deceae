package geo

import (
	"testing"

	"geofeed/internal/domain/content"
	"geofeed/internal/domain/geo"
)

var testVenues = []geo.Venue{
	{Name: "Stadium", Latitude: 40.0, Longitude: -75.0, RadiusMeters: 500},
	{Name: "Stadium Plaza", Latitude: 40.001, Longitude: -75.0, RadiusMeters: 500},
	{Name: "Museum", Latitude: 41.0, Longitude: -75.0, RadiusMeters: 100},
}

func TestDetectVenue(t *testing.T) {
	tests := []struct {
		name     string
		location *content.Location
		want     string
	}{
		{"nil location", nil, ""},
		{"center of museum", &content.Location{Latitude: 41.0, Longitude: -75.0}, "Museum"},
		{"overlap resolves to first", &content.Location{Latitude: 40.0005, Longitude: -75.0}, "Stadium"},
		{"only second venue", &content.Location{Latitude: 40.005, Longitude: -75.0}, "Stadium Plaza"},
		{"nowhere", &content.Location{Latitude: 0, Longitude: 0}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectVenue(tt.location, testVenues)
			if tt.want == "" {
				if got != nil {
					t.Fatalf("expected no venue, got %q", got.Name)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected %q, got nil", tt.want)
			}
			if got.Name != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got.Name)
			}
		})
	}
}

func TestDetectVenue_Deterministic(t *testing.T) {
	loc := &content.Location{Latitude: 40.0005, Longitude: -75.0}
	first := DetectVenue(loc, testVenues)

	for i := 0; i < 50; i++ {
		if got := DetectVenue(loc, testVenues); got == nil || got.Name != first.Name {
			t.Fatalf("iteration %d returned a different venue", i)
		}
	}
}

func TestDetectVenue_RadiusInclusive(t *testing.T) {
	v := geo.Venue{Name: "Edge", Latitude: 0, Longitude: 0}
	v.RadiusMeters = DistanceMeters(0.001, 0, 0, 0)

	if DetectVenue(&content.Location{Latitude: 0.001}, []geo.Venue{v}) == nil {
		t.Error("expected point exactly on the radius to match")
	}
}

func TestVenueDetector_CopiesInput(t *testing.T) {
	venues := []geo.Venue{{Name: "Cafe", RadiusMeters: 50}}
	d := NewVenueDetector(venues)

	venues[0].Name = "Changed"

	got := d.Detect(&content.Location{})
	if got == nil || got.Name != "Cafe" {
		t.Errorf("expected detector to keep original list, got %+v", got)
	}
	if len(d.Venues()) != 1 {
		t.Errorf("expected 1 venue, got %d", len(d.Venues()))
	}
}

func TestVenueDetector_ReturnsCopy(t *testing.T) {
	d := NewVenueDetector([]geo.Venue{{Name: "Cafe", RadiusMeters: 10}})

	got := d.Detect(&content.Location{})
	if got == nil {
		t.Fatal("expected a venue")
	}
	got.Name = "Renamed"
	got.RadiusMeters = 1e9

	again := d.Detect(&content.Location{})
	if again == nil || again.Name != "Cafe" || again.RadiusMeters != 10 {
		t.Errorf("expected detector list to be unaffected, got %+v", again)
	}
}
