package geonames

import "strings"

// adminKey joins a country code with the admin-code segments that lead
// to one administrative record, the same "CC.CODE" composite scheme
// andreiashu-geobed/admin_divisions.go uses for its single-level
// admin1CodesASCII.txt lookup, generalized here to four levels drawn
// from the per-country dump itself rather than a separate reference
// file.
func adminKey(parts ...string) string {
	return strings.Join(parts, ".")
}

// buildAdminNames indexes the class-A records of a country's dump by
// the composite code path of each of the four administrative levels,
// mirroring admin_divisions.go's map-of-maps lookup generalized from
// one level to four.
func buildAdminNames(admins []rawRecord) (lvl1, lvl2, lvl3, lvl4 map[string]string) {
	lvl1 = make(map[string]string)
	lvl2 = make(map[string]string)
	lvl3 = make(map[string]string)
	lvl4 = make(map[string]string)

	for _, a := range admins {
		switch {
		case a.Admin4 != "":
			lvl4[adminKey(a.CountryCode, a.Admin1, a.Admin2, a.Admin3, a.Admin4)] = a.Name
		case a.Admin3 != "":
			lvl3[adminKey(a.CountryCode, a.Admin1, a.Admin2, a.Admin3)] = a.Name
		case a.Admin2 != "":
			lvl2[adminKey(a.CountryCode, a.Admin1, a.Admin2)] = a.Name
		case a.Admin1 != "":
			lvl1[adminKey(a.CountryCode, a.Admin1)] = a.Name
		}
	}
	return lvl1, lvl2, lvl3, lvl4
}

// BuildIndex joins every retained populated place with its
// administrative parent names, producing one CountryIndexEntry per
// place. Places whose admin segments have no matching class-A record
// simply get an empty name for that level — the join is best-effort,
// not a referential-integrity check, since a parent record can
// legitimately be absent from the dump.
func BuildIndex(places, admins []rawRecord) []CountryIndexEntry {
	lvl1, lvl2, lvl3, lvl4 := buildAdminNames(admins)

	out := make([]CountryIndexEntry, 0, len(places))
	for _, p := range places {
		e := CountryIndexEntry{
			Name:         p.Name,
			Lat:          p.Lat,
			Lng:          p.Lng,
			FeatureClass: p.FeatureClass,
			FeatureCode:  p.FeatureCode,
			CountryCode:  p.CountryCode,
			Timezone:     p.Timezone,
		}
		if p.Admin1 != "" {
			e.Admin1 = lvl1[adminKey(p.CountryCode, p.Admin1)]
		}
		if p.Admin2 != "" {
			e.Admin2 = lvl2[adminKey(p.CountryCode, p.Admin1, p.Admin2)]
		}
		if p.Admin3 != "" {
			e.Admin3 = lvl3[adminKey(p.CountryCode, p.Admin1, p.Admin2, p.Admin3)]
		}
		if p.Admin4 != "" {
			e.Admin4 = lvl4[adminKey(p.CountryCode, p.Admin1, p.Admin2, p.Admin3, p.Admin4)]
		}
		out = append(out, e)
	}
	return out
}
