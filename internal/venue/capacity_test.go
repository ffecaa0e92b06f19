package venue

import (
	"testing"

	"github.com/achadr/gigseeker/internal/domain"
)

func TestCapacityExactMatch(t *testing.T) {
	if got := Capacity("Madison Square Garden", "New York", "USA"); got != 20789 {
		t.Errorf("Capacity(MSG) = %d, want 20789", got)
	}
	if got := Capacity("Wembley Stadium", "London", "UK"); got != 90000 {
		t.Errorf("Capacity(Wembley) = %d, want 90000", got)
	}
}

func TestCapacityNormalizedMatch(t *testing.T) {
	// Trailing venue-type word is stripped before comparing.
	if got := Capacity("Manchester", "Manchester", "UK"); got != 21000 {
		t.Errorf("Capacity(Manchester) = %d, want 21000", got)
	}
}

func TestCapacitySubstringNeedsCity(t *testing.T) {
	if got := Capacity("The Hydro", "Glasgow", ""); got != 14300 {
		t.Errorf("Capacity(The Hydro, Glasgow) = %d, want 14300", got)
	}
	// No city given: the fuzzy step is skipped entirely.
	if got := Capacity("The Hydro", "", ""); got != 0 {
		t.Errorf("Capacity(The Hydro, no city) = %d, want 0", got)
	}
}

func TestEstimateByType(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{"Estadio Nacional", 50000},
		{"City Arena", 15000},
		{"Lakeside Amphitheatre", 10000},
		{"Civic Auditorium", 5000},
		{"Orpheum Theatre", 2000},
		{"The Basement Club", 500},
		{"Someplace", 0},
	}
	for _, tt := range tests {
		if got := EstimateByType(tt.name); got != tt.want {
			t.Errorf("EstimateByType(%q) = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestCapacityWithFallback(t *testing.T) {
	// Known venue wins over the keyword estimate.
	if got := CapacityWithFallback("O2 Arena", "London", "UK"); got != 20000 {
		t.Errorf("CapacityWithFallback(O2 Arena) = %d, want 20000", got)
	}
	// Unknown venue falls back to the type estimate.
	if got := CapacityWithFallback("City Arena", "Springfield", "USA"); got != 15000 {
		t.Errorf("CapacityWithFallback(City Arena) = %d, want 15000", got)
	}
	// The sentinel must yield no capacity, not a "venue" estimate.
	if got := CapacityWithFallback(domain.UnknownVenue, "", ""); got != 0 {
		t.Errorf("CapacityWithFallback(sentinel) = %d, want 0", got)
	}
}
