package geo

import (
	"math"
	"testing"

	"fixme/internal/types"
)

func TestHaversineKm_KnownDistances(t *testing.T) {
	tests := []struct {
		name      string
		a, b      types.Point
		wantKm    float64
		tolerance float64
	}{
		{
			name:      "same point",
			a:         types.Point{Lat: 32.0, Lng: 34.8},
			b:         types.Point{Lat: 32.0, Lng: 34.8},
			wantKm:    0,
			tolerance: 0.001,
		},
		{
			name:      "one degree of latitude (~111.2km)",
			a:         types.Point{Lat: 32.0, Lng: 34.8},
			b:         types.Point{Lat: 33.0, Lng: 34.8},
			wantKm:    111.2,
			tolerance: 0.3,
		},
		{
			name:      "Tel Aviv to Haifa (~85km)",
			a:         types.Point{Lat: 32.0853, Lng: 34.7818},
			b:         types.Point{Lat: 32.7940, Lng: 34.9896},
			wantKm:    81,
			tolerance: 5,
		},
		{
			name:      "New York to Los Angeles (~3944km)",
			a:         types.Point{Lat: 40.7128, Lng: -74.0060},
			b:         types.Point{Lat: 34.0522, Lng: -118.2437},
			wantKm:    3944,
			tolerance: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineKm(tt.a, tt.b)
			if math.Abs(got-tt.wantKm) > tt.tolerance {
				t.Errorf("HaversineKm() = %f, want %f (±%f)", got, tt.wantKm, tt.tolerance)
			}
		})
	}
}

func TestHaversineKm_Symmetry(t *testing.T) {
	a := types.Point{Lat: 25.0, Lng: 121.0}
	b := types.Point{Lat: 26.0, Lng: 122.0}
	d1 := HaversineKm(a, b)
	d2 := HaversineKm(b, a)
	if math.Abs(d1-d2) > 0.0001 {
		t.Errorf("haversine is not symmetric: %f vs %f", d1, d2)
	}
	if d1 < 0 {
		t.Errorf("negative distance: %f", d1)
	}
}

// One degree of latitude must fall outside a 10km radius and inside a 120km
// radius; the boundary itself is inclusive.
func TestWithinRadius(t *testing.T) {
	d := HaversineKm(
		types.Point{Lat: 32.0, Lng: 34.8},
		types.Point{Lat: 33.0, Lng: 34.8},
	)
	if WithinRadius(d, 10) {
		t.Errorf("%.1fkm should be outside a 10km radius", d)
	}
	if !WithinRadius(d, 120) {
		t.Errorf("%.1fkm should be inside a 120km radius", d)
	}
	if !WithinRadius(5.0, 5.0) {
		t.Error("radius boundary should be inclusive")
	}
}

type rankedItem struct {
	ID       types.ID
	Distance float64
}

func TestSortByDistance(t *testing.T) {
	items := []rankedItem{
		{ID: "c", Distance: 5.0},
		{ID: "a", Distance: 1.0},
		{ID: "b", Distance: 3.0},
	}

	SortByDistance(items, func(it rankedItem) float64 { return it.Distance })

	if items[0].ID != "a" || items[1].ID != "b" || items[2].ID != "c" {
		t.Errorf("unexpected sort order: %v", items)
	}
}

func TestSortByDistance_StableOnTies(t *testing.T) {
	items := []rankedItem{
		{ID: "first", Distance: 2.0},
		{ID: "second", Distance: 2.0},
		{ID: "third", Distance: 2.0},
	}

	SortByDistance(items, func(it rankedItem) float64 { return it.Distance })

	if items[0].ID != "first" || items[1].ID != "second" || items[2].ID != "third" {
		t.Errorf("tie order not preserved: %v", items)
	}
}

func TestSortByDistance_EmptyAndSingle(t *testing.T) {
	var empty []rankedItem
	SortByDistance(empty, func(it rankedItem) float64 { return it.Distance })

	single := []rankedItem{{ID: "a", Distance: 2.0}}
	SortByDistance(single, func(it rankedItem) float64 { return it.Distance })
	if single[0].ID != "a" {
		t.Errorf("single element sort failed")
	}
}
