// Package country normalizes the inconsistent country representations
// returned by the upstream APIs: ISO-3166 alpha-2 codes, full names,
// historical names and demonyms.
package country

import "strings"

// nameVariations maps lowercase variations of a country name to the
// canonical name used in Event records.
var nameVariations = map[string]string{
	"united states of america": "United States",
	"united states":            "United States",
	"usa":                      "United States",
	"us":                       "United States",

	"united kingdom": "United Kingdom",
	"uk":             "United Kingdom",
	"great britain":  "United Kingdom",
	"britain":        "United Kingdom",
	"england":        "United Kingdom",
	"scotland":       "United Kingdom",
	"wales":          "United Kingdom",

	"south korea":       "South Korea",
	"korea":             "South Korea",
	"republic of korea": "South Korea",

	"uae":                  "United Arab Emirates",
	"united arab emirates": "United Arab Emirates",

	"czech republic": "Czech Republic",
	"czechia":        "Czech Republic",
}

// codeToName maps ISO-3166 alpha-2 codes to canonical country names.
// Hand-maintained and partial: unmapped codes pass through unchanged.
var codeToName = map[string]string{
	// North America
	"US": "United States",
	"CA": "Canada",
	"MX": "Mexico",

	// Europe
	"GB": "United Kingdom",
	"UK": "United Kingdom",
	"DE": "Germany",
	"FR": "France",
	"IT": "Italy",
	"ES": "Spain",
	"PT": "Portugal",
	"NL": "Netherlands",
	"BE": "Belgium",
	"CH": "Switzerland",
	"AT": "Austria",
	"SE": "Sweden",
	"NO": "Norway",
	"DK": "Denmark",
	"FI": "Finland",
	"IE": "Ireland",
	"PL": "Poland",
	"CZ": "Czech Republic",
	"GR": "Greece",
	"HU": "Hungary",
	"RO": "Romania",
	"SK": "Slovakia",
	"HR": "Croatia",
	"SI": "Slovenia",

	// South America
	"BR": "Brazil",
	"AR": "Argentina",
	"CL": "Chile",
	"CO": "Colombia",
	"PE": "Peru",
	"VE": "Venezuela",
	"UY": "Uruguay",

	// Asia
	"JP": "Japan",
	"CN": "China",
	"KR": "South Korea",
	"IN": "India",
	"TH": "Thailand",
	"SG": "Singapore",
	"MY": "Malaysia",
	"ID": "Indonesia",
	"PH": "Philippines",
	"VN": "Vietnam",
	"TW": "Taiwan",
	"HK": "Hong Kong",

	// Oceania
	"AU": "Australia",
	"NZ": "New Zealand",

	// Middle East
	"AE": "United Arab Emirates",
	"SA": "Saudi Arabia",
	"IL": "Israel",
	"TR": "Turkey",

	// Africa
	"ZA": "South Africa",
	"EG": "Egypt",
	"NG": "Nigeria",
	"KE": "Kenya",
}

// nameToCode maps lowercase country names and demonyms to ISO alpha-2
// codes, for translating a caller's free-text country into what the
// event APIs expect. Built from codeToName at init, then extended with
// the variation and demonym entries the reverse mapping cannot produce.
var nameToCode = map[string]string{}

func init() {
	for code, name := range codeToName {
		if code == "UK" {
			continue // GB is the canonical code
		}
		nameToCode[strings.ToLower(name)] = code
	}
	for variation, name := range nameVariations {
		if code, ok := nameToCode[strings.ToLower(name)]; ok {
			nameToCode[variation] = code
		}
	}
	// Common demonyms seen in free-text queries.
	for demonym, code := range map[string]string{
		"american":  "US",
		"british":   "GB",
		"english":   "GB",
		"french":    "FR",
		"german":    "DE",
		"spanish":   "ES",
		"italian":   "IT",
		"dutch":     "NL",
		"brazilian": "BR",
		"japanese":  "JP",
		"canadian":  "CA",
		"mexican":   "MX",
		"australian": "AU",
	} {
		nameToCode[demonym] = code
	}
}

// Name returns the canonical country name for an ISO alpha-2 code, or
// "" when the code is not in the table.
func Name(code string) string {
	if code == "" {
		return ""
	}
	return codeToName[strings.ToUpper(code)]
}

// Normalize canonicalizes country name variations ("USA", "england")
// to a single display name. Unrecognized names pass through unchanged.
func Normalize(name string) string {
	if canonical, ok := nameVariations[strings.ToLower(name)]; ok {
		return canonical
	}
	return name
}

// Extract picks the best country value from a provider's (name, code)
// pair: a usable name wins, then the mapped code, then "".
func Extract(name, code string) string {
	if name != "" && !strings.EqualFold(name, "unknown") {
		return Normalize(name)
	}
	if code != "" {
		if mapped := Name(code); mapped != "" {
			return mapped
		}
	}
	return ""
}

// ToISO translates a caller-supplied country (name, demonym or code)
// into an ISO alpha-2 code for providers that filter server-side. A
// 2-letter input is assumed to already be a code and is uppercased.
// Unrecognized input passes through unchanged, which providers treat
// as a no-match filter rather than an error.
func ToISO(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	if code, ok := nameToCode[strings.ToLower(trimmed)]; ok {
		return code
	}
	if len(trimmed) == 2 {
		return strings.ToUpper(trimmed)
	}
	return trimmed
}
