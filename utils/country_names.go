// utils/country_names.go
package utils

// catalogCountryNames holds the HDX preferred names for codes where the CLDR
// English region name differs, plus codes CLDR does not know at all (XKX).
// Dataset titles and slugs are derived from these names, so they must match
// the catalog exactly.
var catalogCountryNames = map[string]string{
	"ATG": "Antigua and Barbuda",
	"BIH": "Bosnia and Herzegovina",
	"BOL": "Bolivia (Plurinational State of)",
	"BRN": "Brunei Darussalam",
	"CIV": "Côte d'Ivoire",
	"COD": "Democratic Republic of the Congo",
	"COG": "Congo",
	"CPV": "Cabo Verde",
	"FSM": "Micronesia (Federated States of)",
	"GBR": "United Kingdom of Great Britain and Northern Ireland",
	"IRN": "Iran (Islamic Republic of)",
	"KNA": "Saint Kitts and Nevis",
	"KOR": "Republic of Korea",
	"LAO": "Lao People's Democratic Republic",
	"LCA": "Saint Lucia",
	"MDA": "Republic of Moldova",
	"MKD": "North Macedonia",
	"MMR": "Myanmar",
	"PRK": "Democratic People's Republic of Korea",
	"PSE": "State of Palestine",
	"RUS": "Russian Federation",
	"STP": "Sao Tome and Principe",
	"SWZ": "Eswatini",
	"SYR": "Syrian Arab Republic",
	"TLS": "Timor-Leste",
	"TTO": "Trinidad and Tobago",
	"TUR": "Türkiye",
	"TZA": "United Republic of Tanzania",
	"USA": "United States",
	"VAT": "Holy See",
	"VCT": "Saint Vincent and the Grenadines",
	"VEN": "Venezuela (Bolivarian Republic of)",
	"VNM": "Viet Nam",
	"XKX": "Kosovo",
}
