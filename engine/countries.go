package engine

// =============================================================================
// SCHENGEN AREA - Country and nationality lookups
// =============================================================================
// Membership is a lookup table, not engine math. Codes are ISO 3166-1
// alpha-2. The exempt-nationality set covers free-movement nationals for
// whom the 90/180 rule does not apply.

// schengenCountries is the set of countries where presence days count.
var schengenCountries = map[string]string{
	"AT": "Austria",
	"BE": "Belgium",
	"BG": "Bulgaria",
	"CH": "Switzerland",
	"CZ": "Czechia",
	"DE": "Germany",
	"DK": "Denmark",
	"EE": "Estonia",
	"ES": "Spain",
	"FI": "Finland",
	"FR": "France",
	"GR": "Greece",
	"HR": "Croatia",
	"HU": "Hungary",
	"IS": "Iceland",
	"IT": "Italy",
	"LI": "Liechtenstein",
	"LT": "Lithuania",
	"LU": "Luxembourg",
	"LV": "Latvia",
	"MT": "Malta",
	"NL": "Netherlands",
	"NO": "Norway",
	"PL": "Poland",
	"PT": "Portugal",
	"RO": "Romania",
	"SE": "Sweden",
	"SI": "Slovenia",
	"SK": "Slovakia",
}

// exemptExtra covers EU nationals outside the Schengen area itself who
// still enjoy free movement (no day counting).
var exemptExtra = map[string]bool{
	"IE": true, // Ireland
	"CY": true, // Cyprus
}

// IsSchengenCountry reports whether the ISO code is a Schengen-area country.
func IsSchengenCountry(code string) bool {
	_, ok := schengenCountries[code]
	return ok
}

// CountryName returns the display name for a Schengen country code,
// empty string for unknown codes.
func CountryName(code string) string {
	return schengenCountries[code]
}

// SchengenCountryCodes returns all member codes (unordered).
func SchengenCountryCodes() []string {
	codes := make([]string, 0, len(schengenCountries))
	for c := range schengenCountries {
		codes = append(codes, c)
	}
	return codes
}

// CategoryForNationality maps a nationality to its rule category.
// Free-movement nationals are exempt; everyone else is subject to the rule.
func CategoryForNationality(code string) NationalityCategory {
	if IsSchengenCountry(code) || exemptExtra[code] {
		return CategoryExempt
	}
	return CategorySubject
}

// IsSubjectToRule reports whether the engine's day counting applies to the
// employee. Consult this BEFORE any engine call; exempt employees bypass
// the engine entirely.
func IsSubjectToRule(emp Employee) bool {
	if emp.Category != "" {
		return emp.Category == CategorySubject
	}
	return CategoryForNationality(emp.Nationality) == CategorySubject
}
