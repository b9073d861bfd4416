package geo

import (
	"math"
	"testing"
)

func TestHaversineKm(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
		want                   float64
		tolerance              float64
	}{
		{"same_point", 48.8566, 2.3522, 48.8566, 2.3522, 0, 0.001},
		{"paris_to_london", 48.8566, 2.3522, 51.5074, -0.1278, 343.5, 2},
		{"equator_degree_of_longitude", 0, 0, 0, 1, 111.2, 1},
		{"antipodes", 0, 0, 0, 180, 20015, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HaversineKm(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("HaversineKm() = %v; want %v ± %v", got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestHaversineSymmetric(t *testing.T) {
	a := HaversineKm(40.7, -74.0, 34.0, -118.2)
	b := HaversineKm(34.0, -118.2, 40.7, -74.0)
	if math.Abs(a-b) > 1e-9 {
		t.Errorf("distance not symmetric: %v != %v", a, b)
	}
}
