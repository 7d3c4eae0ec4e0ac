package manager

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSortRecords_ContinentTieBreaksOnCountryNameAscending(t *testing.T) {
	records := []*CountryStatus{
		{CountryCode: "GB", CountryName: "United Kingdom", Continent: "Europe"},
		{CountryCode: "FR", CountryName: "France", Continent: "Europe"},
		{CountryCode: "US", CountryName: "United States", Continent: "North America"},
	}

	desc := sortRecords(records, SortByContinent, SortDescending)
	assert.Equal(t, []string{"US", "FR", "GB"}, codesOf(desc))

	asc := sortRecords(records, SortByContinent, SortAscending)
	assert.Equal(t, []string{"FR", "GB", "US"}, codesOf(asc))
}

func TestSortRecords_UndefinedCityCountIsMaximal(t *testing.T) {
	records := []*CountryStatus{
		{CountryCode: "A", Status: StatusStopped},
		{CountryCode: "B", Status: StatusStarted, CityCount: 5},
		{CountryCode: "C", Status: StatusStarted, CityCount: 1},
	}

	asc := sortRecords(records, SortByCityCount, SortAscending)
	assert.Equal(t, []string{"C", "B", "A"}, codesOf(asc))

	desc := sortRecords(records, SortByCityCount, SortDescending)
	assert.Equal(t, []string{"A", "B", "C"}, codesOf(desc))
}

func TestDefaultOrder(t *testing.T) {
	records := []*CountryStatus{
		{CountryCode: "GB", CountryName: "United Kingdom", Continent: "Europe"},
		{CountryCode: "FR", CountryName: "France", Continent: "Europe"},
		{CountryCode: "EG", CountryName: "Egypt", Continent: "Africa"},
	}

	out := defaultOrder(records)
	assert.Equal(t, []string{"FR", "GB", "EG"}, codesOf(out))
}
