// Package adminhttp is the one network-facing boundary of the fleet:
// it translates operator HTTP calls into manager.Command sends and
// renders the reply. Grounded on johnjansen-torua/cmd/coordinator's
// handler style (plain http.ServeMux, explicit status codes,
// json.NewEncoder for responses) moved from a second-process registry
// to an in-process command channel.
package adminhttp

import (
	"time"

	"github.com/kestreldata/geofleet/internal/format"
	"github.com/kestreldata/geofleet/internal/manager"
)

// countryStatusDTO is the JSON-serializable view of a manager.CountryStatus:
// manager.Handle is an interface with no JSON mapping, so it is reduced
// here to the boolean presence an operator actually needs — whether a
// data server is attached at all.
type countryStatusDTO struct {
	CountryCode string `json:"country_code"`
	ServerName  string `json:"server_name"`
	CountryName string `json:"country_name"`
	Continent   string `json:"continent"`

	HasHandle   bool          `json:"has_handle"`
	Status      string        `json:"status"`
	Substatus   string        `json:"substatus,omitempty"`
	Progress    int           `json:"progress"`
	Children    []string      `json:"children,omitempty"`
	StartedAt   time.Time     `json:"started_at,omitempty"`
	StartupTime time.Duration `json:"startup_time,omitempty"`
	CityCount   int           `json:"city_count"`
	MemUsage    uint64        `json:"mem_usage"`
	Trace       bool          `json:"trace"`
}

func toDTO(s *manager.CountryStatus) countryStatusDTO {
	return countryStatusDTO{
		CountryCode: s.CountryCode,
		ServerName:  s.ServerName,
		CountryName: s.CountryName,
		Continent:   s.Continent,
		HasHandle:   s.Handle != nil,
		Status:      string(s.Status),
		Substatus:   s.Substatus,
		Progress:    s.Progress,
		Children:    s.Children,
		StartedAt:   s.StartedAt,
		StartupTime: s.StartupTime,
		CityCount:   s.CityCount,
		MemUsage:    s.MemUsage,
		Trace:       s.Trace,
	}
}

func toDTOs(records []*manager.CountryStatus) []countryStatusDTO {
	out := make([]countryStatusDTO, len(records))
	for i, s := range records {
		out[i] = toDTO(s)
	}
	return out
}

// statusResponse is the JSON shape of GET /server_status.
type statusResponse struct {
	CountryManagerTrace bool               `json:"country_manager_trace"`
	ErlangMemoryUsage   string             `json:"erlang_memory_usage"`
	Servers             []countryStatusDTO `json:"servers"`
}

func formatMemUsage(n uint64) string {
	return format.ByteSize(n)
}
