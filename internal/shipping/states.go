package shipping

import "strings"

// states maps postal abbreviations to lowercase full names.
var states = map[string]string{
	"al": "alabama",
	"ak": "alaska",
	"as": "american samoa",
	"az": "arizona",
	"ar": "arkansas",
	"ca": "california",
	"co": "colorado",
	"ct": "connecticut",
	"de": "delaware",
	"dc": "district of columbia",
	"fl": "florida",
	"ga": "georgia",
	"gu": "guam",
	"hi": "hawaii",
	"id": "idaho",
	"il": "illinois",
	"in": "indiana",
	"ia": "iowa",
	"ks": "kansas",
	"ky": "kentucky",
	"la": "louisiana",
	"me": "maine",
	"md": "maryland",
	"ma": "massachusetts",
	"mi": "michigan",
	"mn": "minnesota",
	"ms": "mississippi",
	"mo": "missouri",
	"mt": "montana",
	"ne": "nebraska",
	"nv": "nevada",
	"nh": "new hampshire",
	"nj": "new jersey",
	"nm": "new mexico",
	"ny": "new york",
	"nc": "north carolina",
	"nd": "north dakota",
	"mp": "northern mariana islands",
	"oh": "ohio",
	"ok": "oklahoma",
	"or": "oregon",
	"pa": "pennsylvania",
	"pr": "puerto rico",
	"ri": "rhode island",
	"sc": "south carolina",
	"sd": "south dakota",
	"tn": "tennessee",
	"tx": "texas",
	"ut": "utah",
	"vt": "vermont",
	"vi": "virgin islands",
	"va": "virginia",
	"wa": "washington",
	"wv": "west virginia",
	"wi": "wisconsin",
	"wy": "wyoming",
}

var stateByName = func() map[string]string {
	out := make(map[string]string, len(states))
	for abbr, name := range states {
		out[name] = abbr
	}
	return out
}()

// NormalizeState returns the uppercased abbreviation when s is a known full
// state name (any case), otherwise s trimmed and uppercased. Blank stays blank.
func NormalizeState(s string) string {
	s = strings.TrimSpace(s)
	if abbr, ok := stateByName[strings.ToLower(s)]; ok {
		return strings.ToUpper(abbr)
	}
	return strings.ToUpper(s)
}

// StateName returns the lowercase full name for an abbreviation.
func StateName(abbr string) (string, bool) {
	name, ok := states[strings.ToLower(strings.TrimSpace(abbr))]
	return name, ok
}
