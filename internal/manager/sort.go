package manager

import "sort"

// SortColumn is one of the columns the sort command may reorder the
// status list by.
type SortColumn int

const (
	SortByContinent SortColumn = iota
	SortByCountryName
	SortByCountryCode
	SortByCityCount
	SortByMemUsage
	SortByStartupTime
)

// SortDirection controls comparator argument order. Any value other
// than SortAscending is treated as descending.
type SortDirection int

const (
	SortDescending SortDirection = iota
	SortAscending
)

// compare returns a negative, zero, or positive number for a versus b
// on the given column, in ascending sense, applying the rule that an
// absent/undefined value compares greater than any present value. The
// source system left this as an incidental consequence of comparing
// a bare atom against an integer; here it is an explicit comparator
// rule instead.
func compare(a, b *CountryStatus, col SortColumn) int {
	switch col {
	case SortByContinent:
		return stringCompare(a.Continent, b.Continent)
	case SortByCountryName:
		return stringCompare(a.CountryName, b.CountryName)
	case SortByCountryCode:
		return stringCompare(a.CountryCode, b.CountryCode)
	case SortByCityCount:
		return intCompare(a.Status == StatusStarted, b.Status == StatusStarted, a.CityCount, b.CityCount)
	case SortByMemUsage:
		return intCompare(a.Status == StatusStarted, b.Status == StatusStarted, int(a.MemUsage), int(b.MemUsage))
	case SortByStartupTime:
		return intCompare(a.Status == StatusStarted, b.Status == StatusStarted, int(a.StartupTime), int(b.StartupTime))
	default:
		return 0
	}
}

func stringCompare(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// intCompare implements "undefined sorts as maximal": a value that
// isn't defined (aDefined/bDefined false) compares greater than any
// defined value; two undefined values compare equal.
func intCompare(aDefined, bDefined bool, a, b int) int {
	if !aDefined && !bDefined {
		return 0
	}
	if !aDefined {
		return 1
	}
	if !bDefined {
		return -1
	}
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// sortRecords returns a freshly sorted copy of records by column and
// direction. compare is ascending, so descending is implemented by
// swapping the comparator arguments. The continent column's
// tie-break fallthrough to country_name is always applied in ascending
// sense regardless of the requested direction, matching the default
// presentation order's "continent descending then country_name"
// (ascending is the only sensible reading of a plain name tie-break).
func sortRecords(records []*CountryStatus, col SortColumn, dir SortDirection) []*CountryStatus {
	out := make([]*CountryStatus, len(records))
	copy(out, records)

	sort.SliceStable(out, func(i, j int) bool {
		ai, bi := out[i], out[j]
		if dir != SortAscending {
			ai, bi = bi, ai
		}
		if c := compare(ai, bi, col); c != 0 {
			return c < 0
		}
		if col == SortByContinent {
			return out[i].CountryName < out[j].CountryName
		}
		return false
	})
	return out
}

// defaultOrder sorts by continent descending then country_name
// ascending — the manager's initial presentation order.
func defaultOrder(records []*CountryStatus) []*CountryStatus {
	return sortRecords(records, SortByContinent, SortDescending)
}
