// Package venue provides capacity lookups for well-known concert
// venues, with a keyword-based size estimate as fallback for venues
// not in the table.
package venue

import (
	"regexp"
	"strings"

	"github.com/achadr/gigseeker/internal/country"
	"github.com/achadr/gigseeker/internal/domain"
)

type venueInfo struct {
	name     string
	capacity int
	city     string
	country  string
}

// Capacities for major concert venues worldwide. Hand-maintained.
var venues = []venueInfo{
	// USA
	{"Madison Square Garden", 20789, "New York", "USA"},
	{"The Forum", 17500, "Los Angeles", "USA"},
	{"United Center", 23500, "Chicago", "USA"},
	{"Staples Center", 20000, "Los Angeles", "USA"},
	{"Crypto.com Arena", 20000, "Los Angeles", "USA"},
	{"TD Garden", 19580, "Boston", "USA"},
	{"Barclays Center", 19000, "New York", "USA"},
	{"American Airlines Center", 20000, "Dallas", "USA"},
	{"T-Mobile Arena", 20000, "Las Vegas", "USA"},
	{"Red Rocks Amphitheatre", 9525, "Denver", "USA"},
	{"Hollywood Bowl", 17500, "Los Angeles", "USA"},
	{"Greek Theatre", 5900, "Los Angeles", "USA"},
	{"Radio City Music Hall", 6015, "New York", "USA"},
	{"The Wiltern", 1850, "Los Angeles", "USA"},

	// UK
	{"O2 Arena", 20000, "London", "UK"},
	{"Wembley Stadium", 90000, "London", "UK"},
	{"Royal Albert Hall", 5272, "London", "UK"},
	{"Roundhouse", 3300, "London", "UK"},
	{"Brixton Academy", 4921, "London", "UK"},
	{"Manchester Arena", 21000, "Manchester", "UK"},
	{"Hydro", 14300, "Glasgow", "UK"},
	{"Apollo", 3500, "Manchester", "UK"},

	// France
	{"Accor Arena", 20300, "Paris", "France"},
	{"Stade de France", 80000, "Paris", "France"},
	{"Olympia", 2000, "Paris", "France"},
	{"Zenith Paris", 6293, "Paris", "France"},

	// Germany
	{"Mercedes-Benz Arena", 17000, "Berlin", "Germany"},
	{"Olympiahalle", 15500, "Munich", "Germany"},
	{"Lanxess Arena", 18500, "Cologne", "Germany"},

	// Spain
	{"WiZink Center", 17000, "Madrid", "Spain"},
	{"Palau Sant Jordi", 17000, "Barcelona", "Spain"},

	// Italy
	{"Mediolanum Forum", 12700, "Milan", "Italy"},
	{"Palalottomatica", 11000, "Rome", "Italy"},

	// Brazil
	{"Allianz Parque", 43600, "São Paulo", "Brazil"},
	{"Maracanã", 78838, "Rio de Janeiro", "Brazil"},
	{"Estádio do Morumbi", 66795, "São Paulo", "Brazil"},

	// Japan
	{"Tokyo Dome", 55000, "Tokyo", "Japan"},
	{"Nippon Budokan", 14471, "Tokyo", "Japan"},
	{"Osaka-jō Hall", 16000, "Osaka", "Japan"},

	// Australia
	{"Rod Laver Arena", 15000, "Melbourne", "Australia"},
	{"Sydney Opera House", 5738, "Sydney", "Australia"},
	{"Marvel Stadium", 56347, "Melbourne", "Australia"},

	// Canada
	{"Scotiabank Arena", 19800, "Toronto", "Canada"},
	{"Bell Centre", 22114, "Montreal", "Canada"},
	{"Rogers Arena", 19700, "Vancouver", "Canada"},

	// Mexico
	{"Foro Sol", 65000, "Mexico City", "Mexico"},
	{"Arena Ciudad de México", 22300, "Mexico City", "Mexico"},

	// Argentina
	{"Estadio River Plate", 70074, "Buenos Aires", "Argentina"},
	{"Luna Park", 8000, "Buenos Aires", "Argentina"},

	// Netherlands
	{"Ziggo Dome", 17000, "Amsterdam", "Netherlands"},
	{"Paradiso", 1500, "Amsterdam", "Netherlands"},

	// Portugal
	{"Altice Arena", 20000, "Lisbon", "Portugal"},

	// Sweden
	{"Ericsson Globe", 16000, "Stockholm", "Sweden"},

	// Denmark
	{"Royal Arena", 16000, "Copenhagen", "Denmark"},
}

var typeSuffix = regexp.MustCompile(`\s+(arena|stadium|theatre|theater|hall|center|centre|dome|park)$`)

// normalizeName lowercases, trims and strips the trailing venue-type
// word so "Manchester Arena" and "manchester" compare equal.
func normalizeName(name string) string {
	return strings.TrimSpace(typeSuffix.ReplaceAllString(strings.ToLower(name), ""))
}

// Capacity returns the tabulated capacity for a venue, or 0 when the
// venue is unknown. Matching relaxes in two steps: exact normalized
// name (with city and country when given), then substring name
// corroborated by a matching city. The substring step requires the
// city so that generic fragments ("city", "park") cannot latch onto
// unrelated venues.
func Capacity(name, city, country string) int {
	if name == "" || name == domain.UnknownVenue {
		return 0
	}

	search := normalizeName(name)

	for _, v := range venues {
		if normalizeName(v.name) == search &&
			(city == "" || strings.EqualFold(v.city, city)) &&
			countryMatches(v.country, country) {
			return v.capacity
		}
	}

	if city == "" {
		return 0
	}
	for _, v := range venues {
		vn := normalizeName(v.name)
		if (strings.Contains(vn, search) || strings.Contains(search, vn)) &&
			strings.EqualFold(v.city, city) {
			return v.capacity
		}
	}

	return 0
}

// countryMatches compares country labels through their ISO codes so
// "USA", "United States" and "US" all agree.
func countryMatches(tabulated, queried string) bool {
	if queried == "" || queried == domain.UnknownCountry {
		return true
	}
	return strings.EqualFold(country.ToISO(tabulated), country.ToISO(queried))
}

// EstimateByType guesses a capacity from venue-type keywords in the
// name. Returns 0 when no keyword matches.
func EstimateByType(name string) int {
	n := strings.ToLower(name)

	switch {
	case strings.Contains(n, "stadium") || strings.Contains(n, "estadio"):
		return 50000
	case strings.Contains(n, "arena"):
		return 15000
	case strings.Contains(n, "amphitheatre") || strings.Contains(n, "amphitheater"):
		return 10000
	case strings.Contains(n, "hall") || strings.Contains(n, "auditorium"):
		return 5000
	case strings.Contains(n, "theater") || strings.Contains(n, "theatre"):
		return 2000
	case strings.Contains(n, "club") || strings.Contains(n, "bar"):
		return 500
	}
	return 0
}

// CapacityWithFallback is what adapters call: tabulated capacity when
// the venue is known, type-based estimate otherwise, 0 when neither
// applies (including the Unknown Venue sentinel).
func CapacityWithFallback(name, city, country string) int {
	if name == "" || name == domain.UnknownVenue {
		return 0
	}
	if c := Capacity(name, city, country); c > 0 {
		return c
	}
	return EstimateByType(name)
}
