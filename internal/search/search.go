// Package search matches a text fragment against the union of every
// loaded country's CountryIndexEntry set. It deliberately stays thin:
// a substring/prefix/whole-word comparison over a name field, not an
// inverted index or a scoring model.
package search

import (
	"strings"

	"github.com/kestreldata/geofleet/internal/geonames"
)

// MinTermLength is the shortest search_term the admin surface accepts.
const MinTermLength = 3

// Request is one search call, grounded on
// Khanh-21522203-GoSearch/internal/query's request-shape convention
// (a plain struct naming the term plus boolean match modifiers) without
// that package's query AST or scoring machinery.
type Request struct {
	Term       string
	StartsWith bool
	WholeWord  bool
}

// CityObject is the public shape of one matched place, field-named for
// the JSON the admin surface renders.
type CityObject struct {
	Name         string  `json:"name"`
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	FeatureClass string  `json:"featureClass"`
	FeatureCode  string  `json:"featureCode"`
	CountryCode  string  `json:"countryCode"`
	Admin1Txt    string  `json:"admin1Txt"`
	Admin2Txt    string  `json:"admin2Txt"`
	Admin3Txt    string  `json:"admin3Txt"`
	Admin4Txt    string  `json:"admin4Txt"`
	Timezone     string  `json:"timezone"`
}

// Match runs req against entries, the concatenation of every loaded
// country's index, and returns every entry whose name satisfies it.
// starts_with=true,whole_word=true together mean an exact (case
// insensitive) match on the whole name — the strictest of the three
// modes.
func Match(entries []geonames.CountryIndexEntry, req Request) []CityObject {
	term := strings.ToLower(strings.TrimSpace(req.Term))
	if len(term) < MinTermLength {
		return nil
	}

	out := make([]CityObject, 0)
	for _, e := range entries {
		if matches(strings.ToLower(e.Name), term, req.StartsWith, req.WholeWord) {
			out = append(out, toCityObject(e))
		}
	}
	return out
}

func matches(name, term string, startsWith, wholeWord bool) bool {
	switch {
	case startsWith && wholeWord:
		return name == term
	case wholeWord:
		return containsWholeWord(name, term)
	case startsWith:
		return strings.HasPrefix(name, term)
	default:
		return strings.Contains(name, term)
	}
}

// containsWholeWord reports whether term occurs in name bounded by
// non-letter/digit characters (or string edges) on both sides — a
// "whole word" without starts_with still has to occur somewhere in a
// multi-word name, e.g. "San Jose" matching the term "jose".
func containsWholeWord(name, term string) bool {
	idx := 0
	for {
		pos := strings.Index(name[idx:], term)
		if pos < 0 {
			return false
		}
		start := idx + pos
		end := start + len(term)
		if boundaryOK(name, start-1) && boundaryOK(name, end) {
			return true
		}
		idx = start + 1
		if idx >= len(name) {
			return false
		}
	}
}

func boundaryOK(s string, i int) bool {
	if i < 0 || i >= len(s) {
		return true
	}
	c := s[i]
	return !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9')
}

func toCityObject(e geonames.CountryIndexEntry) CityObject {
	return CityObject{
		Name:         e.Name,
		Lat:          e.Lat,
		Lng:          e.Lng,
		FeatureClass: e.FeatureClass,
		FeatureCode:  e.FeatureCode,
		CountryCode:  e.CountryCode,
		Admin1Txt:    e.Admin1,
		Admin2Txt:    e.Admin2,
		Admin3Txt:    e.Admin3,
		Admin4Txt:    e.Admin4,
		Timezone:     e.Timezone,
	}
}
