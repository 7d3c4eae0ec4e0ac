// Package catalog loads the boot-time list of recognized countries.
//
// The catalog is an external input: the core control plane never
// derives it from the geonames data itself, it only reads the ordered
// list of (code, name, continent) tuples that the Country Manager uses
// to seed its status table. In this repository the catalog lives in
// the same YAML configuration file as the rest of the boot-time
// settings (see internal/config), mirroring how
// tamzrod-modbus-replicator keeps its per-unit topology in one YAML
// document rather than a separate discovery service.
package catalog
