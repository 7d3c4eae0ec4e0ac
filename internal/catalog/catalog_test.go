package catalog

import "testing"

func TestNew_RejectsDuplicateCode(t *testing.T) {
	_, err := New([]Entry{
		{Code: "GB", Name: "United Kingdom", Continent: "Europe"},
		{Code: "GB", Name: "Great Britain", Continent: "Europe"},
	})
	if err == nil {
		t.Fatal("expected error for duplicate country code, got nil")
	}
}

func TestNew_RejectsEmptyCodeOrName(t *testing.T) {
	if _, err := New([]Entry{{Code: "", Name: "Nowhere"}}); err == nil {
		t.Error("expected error for empty code")
	}
	if _, err := New([]Entry{{Code: "ZZ", Name: ""}}); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestLookup(t *testing.T) {
	c, err := New([]Entry{
		{Code: "GB", Name: "United Kingdom", Continent: "Europe"},
		{Code: "FR", Name: "France", Continent: "Europe"},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, ok := c.Lookup("XX"); ok {
		t.Error("Lookup(XX) should report not found")
	}
	e, ok := c.Lookup("FR")
	if !ok || e.Name != "France" {
		t.Errorf("Lookup(FR) = %+v, %v", e, ok)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestAll_ReturnsCopy(t *testing.T) {
	c, _ := New([]Entry{{Code: "GB", Name: "United Kingdom", Continent: "Europe"}})
	all := c.All()
	all[0].Name = "mutated"
	if e, _ := c.Lookup("GB"); e.Name != "United Kingdom" {
		t.Error("mutating All() result leaked into catalog")
	}
}
