package geonames

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadFCP_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	entries := []CountryIndexEntry{
		{Name: "London", Lat: 51.5, Lng: -0.1, FeatureClass: "P", FeatureCode: "PPLC", CountryCode: "GB", Admin1: "England", Timezone: "Europe/London"},
	}

	require.NoError(t, WriteFCP(dir, "GB", entries, `W/"abc123"`, time.Unix(1700000000, 0)))

	assert.True(t, HasCache(dir, "gb"), "HasCache should be case-insensitive on country code")

	back, err := ReadFCP(dir, "GB")
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.Equal(t, entries[0], back[0])

	rec, ok := ReadEtag(dir, "GB")
	require.True(t, ok)
	assert.Equal(t, `W/"abc123"`, rec.ETag)
	assert.Equal(t, time.Unix(1700000000, 0), rec.DownloadedAt)
}

func TestEtagRecord_IsFresh(t *testing.T) {
	now := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	fresh := etagRecord{DownloadedAt: now.Add(-23 * time.Hour)}
	assert.True(t, fresh.IsFresh(now))

	stale := etagRecord{DownloadedAt: now.Add(-25 * time.Hour)}
	assert.False(t, stale.IsFresh(now))
}

func TestHasCache_FalseWhenAbsent(t *testing.T) {
	assert.False(t, HasCache(t.TempDir(), "XX"))
}
