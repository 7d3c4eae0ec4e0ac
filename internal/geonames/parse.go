package geonames

import (
	"bufio"
	"fmt"
	"io"
)

// PopulationMin is the minimum population a class-P record must carry
// to be retained. A var, not a const, so a deployment's configured
// tunable can override the default at boot.
var PopulationMin = 500

// ParseCountryFile scans a raw geonames per-country dump (the single
// text member extracted from the upstream ZIP) and splits it into the retained populated places (feature_class "P",
// population >= PopulationMin) and the administrative records
// (feature_class "A") later joined against them.
//
// Grounded on andreiashu-geobed/geobed.go's processZipEntry scanner
// loop; diverges from it by treating a malformed line as a hard error
// rather than skipping it, failing the whole country rather than
// silently serving a partial index.
func ParseCountryFile(r io.Reader) (places []rawRecord, admins []rawRecord, err error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if line == "" {
			continue
		}

		rec, perr := parseRawRecord(line)
		if perr != nil {
			return nil, nil, fmt.Errorf("line %d: %w", lineNo, perr)
		}

		switch rec.FeatureClass {
		case "P":
			if rec.Population >= PopulationMin {
				places = append(places, rec)
			}
		case "A":
			admins = append(admins, rec)
		default:
			// Every other feature class is out of scope for this index.
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("scanning country file: %w", err)
	}
	return places, admins, nil
}
