package geonames

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// CacheStaleness is the maximum age of a cached FCP file before a data
// server re-checks the upstream validator token. A var, not a const,
// so a deployment's configured tunable can override the default at
// boot.
var CacheStaleness = 24 * time.Hour

// fcpPath and etagPath return the on-disk locations of a country's FCP
// cache file and its validator sidecar, grounded on
// andreiashu-geobed's cache-file-plus-validator convention (its
// store()/ValidateCache() pair), adapted from a single combined gob
// blob to two small text files.
func fcpPath(dir, code string) string  { return filepath.Join(dir, strings.ToUpper(code)+".fcp") }
func etagPath(dir, code string) string { return filepath.Join(dir, strings.ToUpper(code)+".etag") }

// etagRecord is the sidecar file's content: the upstream validator
// token plus the timestamp it was recorded at. Staleness is judged
// against DownloadedAt, never the FCP file's own mtime, since a
// filesystem copy or restore could otherwise make a stale cache look
// fresh again.
type etagRecord struct {
	ETag         string
	DownloadedAt time.Time
}

// ReadEtag loads the recorded validator token for a country, reporting
// whether a cache exists at all.
func ReadEtag(dir, code string) (etagRecord, bool) {
	data, err := os.ReadFile(etagPath(dir, code))
	if err != nil {
		return etagRecord{}, false
	}
	lines := strings.SplitN(strings.TrimSpace(string(data)), "\n", 2)
	if len(lines) != 2 {
		return etagRecord{}, false
	}
	ts, err := strconv.ParseInt(lines[1], 10, 64)
	if err != nil {
		return etagRecord{}, false
	}
	return etagRecord{ETag: lines[0], DownloadedAt: time.Unix(ts, 0)}, true
}

// IsFresh reports whether a cache recorded at rec.DownloadedAt is still
// within CacheStaleness of now.
func (rec etagRecord) IsFresh(now time.Time) bool {
	return now.Sub(rec.DownloadedAt) < CacheStaleness
}

// WriteFCP writes the joined index plus its validator sidecar
// atomically: both files are written to temporary paths and renamed
// into place only once fully flushed, so a crash mid-write never
// leaves a reader with a half-written cache.
func WriteFCP(dir, code string, entries []CountryIndexEntry, etag string, downloadedAt time.Time) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating cache dir %s: %w", dir, err)
	}

	fcpTmp := fcpPath(dir, code) + ".tmp"
	if err := writeFCPFile(fcpTmp, entries); err != nil {
		return err
	}
	if err := os.Rename(fcpTmp, fcpPath(dir, code)); err != nil {
		return fmt.Errorf("renaming FCP file: %w", err)
	}

	etagTmp := etagPath(dir, code) + ".tmp"
	content := fmt.Sprintf("%s\n%d\n", etag, downloadedAt.Unix())
	if err := os.WriteFile(etagTmp, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing etag sidecar: %w", err)
	}
	if err := os.Rename(etagTmp, etagPath(dir, code)); err != nil {
		return fmt.Errorf("renaming etag sidecar: %w", err)
	}
	return nil
}

func writeFCPFile(path string, entries []CountryIndexEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating FCP file %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%g\t%g\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.Name, e.Lat, e.Lng, e.FeatureClass, e.FeatureCode, e.CountryCode,
			e.Admin1, e.Admin2, e.Admin3, e.Admin4, e.Timezone)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing FCP file %s: %w", path, err)
	}
	return f.Close()
}

// ReadFCP reads a previously written cache file back into entries,
// used when stage 2 of the startup pipeline finds a fresh local cache
// and skips the download/parse/join stages entirely.
func ReadFCP(dir, code string) ([]CountryIndexEntry, error) {
	f, err := os.Open(fcpPath(dir, code))
	if err != nil {
		return nil, fmt.Errorf("opening FCP file: %w", err)
	}
	defer f.Close()

	var out []CountryIndexEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Split(scanner.Text(), "\t")
		if len(fields) != 11 {
			return nil, fmt.Errorf("malformed FCP line: %d fields, want 11", len(fields))
		}
		lat, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing latitude: %w", err)
		}
		lng, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("parsing longitude: %w", err)
		}
		out = append(out, CountryIndexEntry{
			Name:         fields[0],
			Lat:          lat,
			Lng:          lng,
			FeatureClass: fields[3],
			FeatureCode:  fields[4],
			CountryCode:  fields[5],
			Admin1:       fields[6],
			Admin2:       fields[7],
			Admin3:       fields[8],
			Admin4:       fields[9],
			Timezone:     fields[10],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning FCP file: %w", err)
	}
	return out, nil
}

// HasCache reports whether a country has any cached FCP file at all,
// regardless of freshness — used to decide between "skip to stage 6"
// and "HEAD the upstream to compare validators" in stage 2.
func HasCache(dir, code string) bool {
	_, err := os.Stat(fcpPath(dir, code))
	return err == nil
}
