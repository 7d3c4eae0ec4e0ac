// Package geonames parses the geonames.org per-country dump into the
// filtered, joined CountryIndexEntry set a Country Data Server serves,
// and manages the on-disk FCP cache file that materializes it.
//
// The pipeline has three stages, each in its own file:
//
//   - parse.go splits the raw tab-separated dump into populated-place
//     (feature_class=P) and administrative (feature_class=A) records,
//     applying the population floor to the former.
//   - join.go joins each populated place with its administrative parent
//     names by hierarchical admin code, producing one CountryIndexEntry
//     per retained place.
//   - download.go fetches the dump through the configured proxy with
//     bounded retries, and cache.go reads/writes the FCP file plus its
//     etag sidecar that lets a later incarnation skip the download
//     entirely when nothing has changed upstream.
package geonames
