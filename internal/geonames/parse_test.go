package geonames

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func geonamesLine(fields ...string) string {
	return strings.Join(fields, "\t")
}

func TestParseCountryFile_FiltersByFeatureClassAndPopulation(t *testing.T) {
	data := strings.Join([]string{
		geonamesLine("1", "London", "", "", "51.5", "-0.1", "P", "PPLC", "GB", "", "ENG", "", "", "", "8900000", "", "", "Europe/London", ""),
		geonamesLine("2", "Tinytown", "", "", "51.0", "0.0", "P", "PPL", "GB", "", "ENG", "", "", "", "10", "", "", "Europe/London", ""),
		geonamesLine("3", "England", "", "", "52.0", "0.0", "A", "ADM1", "GB", "", "ENG", "", "", "", "0", "", "", "Europe/London", ""),
		geonamesLine("4", "Some River", "", "", "52.0", "0.0", "H", "STM", "GB", "", "ENG", "", "", "", "0", "", "", "Europe/London", ""),
	}, "\n")

	places, admins, err := ParseCountryFile(strings.NewReader(data))
	require.NoError(t, err)

	require.Len(t, places, 1, "Tinytown is below POPULATION_MIN and should be dropped; the H record isn't P or A")
	assert.Equal(t, "London", places[0].Name)

	require.Len(t, admins, 1)
	assert.Equal(t, "England", admins[0].Name)
}

func TestParseCountryFile_MalformedLineFailsStop(t *testing.T) {
	data := geonamesLine("1", "London") // far fewer than 19 fields

	_, _, err := ParseCountryFile(strings.NewReader(data))
	assert.Error(t, err)
}

func TestParseCountryFile_UnparseableCoordinateFailsStop(t *testing.T) {
	data := geonamesLine("1", "London", "", "", "not-a-number", "-0.1", "P", "PPLC", "GB", "", "ENG", "", "", "", "8900000", "", "", "Europe/London", "")

	_, _, err := ParseCountryFile(strings.NewReader(data))
	assert.Error(t, err)
}
