package geonames

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildIndex_JoinsAdminParents(t *testing.T) {
	places := []rawRecord{
		{Name: "London", CountryCode: "GB", Admin1: "ENG", Admin2: "GLA"},
		{Name: "Cardiff", CountryCode: "GB", Admin1: "WLS"},
	}
	admins := []rawRecord{
		{Name: "England", CountryCode: "GB", Admin1: "ENG"},
		{Name: "Wales", CountryCode: "GB", Admin1: "WLS"},
		{Name: "Greater London", CountryCode: "GB", Admin1: "ENG", Admin2: "GLA"},
	}

	out := BuildIndex(places, admins)
	assert.Len(t, out, 2)

	assert.Equal(t, "England", out[0].Admin1)
	assert.Equal(t, "Greater London", out[0].Admin2)

	assert.Equal(t, "Wales", out[1].Admin1)
	assert.Equal(t, "", out[1].Admin2, "Cardiff has no admin2 segment, so Admin2 stays empty")
}

func TestBuildIndex_MissingParentLeavesNameEmpty(t *testing.T) {
	places := []rawRecord{
		{Name: "Nowhere", CountryCode: "ZZ", Admin1: "ZZ1"},
	}

	out := BuildIndex(places, nil)
	assert.Len(t, out, 1)
	assert.Equal(t, "", out[0].Admin1)
}
