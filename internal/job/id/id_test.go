package id

import (
	"testing"
)

func TestDerive_Stable(t *testing.T) {
	a := Derive("adzuna", "123", "Frontend Developer", "Acme")
	b := Derive("adzuna", "123", "Frontend Developer", "Acme")
	if a != b {
		t.Errorf("expected identical IDs, got %d and %d", a, b)
	}
}

func TestDerive_NonNegative(t *testing.T) {
	for i := 0; i < 1000; i++ {
		v := Derive("src", string(rune('a'+i%26)), "title", string(rune(i)))
		if v < 0 {
			t.Fatalf("negative ID %d", v)
		}
	}
}

func TestDerive_NormalizesCaseAndSpace(t *testing.T) {
	a := Derive("Adzuna", "123", "  frontend developer", "ACME ")
	b := Derive("adzuna", "123", "Frontend Developer", "acme")
	if a != b {
		t.Errorf("expected case/space-insensitive IDs, got %d and %d", a, b)
	}
}

func TestDerive_DistinctTuples(t *testing.T) {
	seen := make(map[int64]bool)
	tuples := [][4]string{
		{"adzuna", "1", "Go Engineer", "Acme"},
		{"adzuna", "2", "Go Engineer", "Acme"},
		{"jsearch", "1", "Go Engineer", "Acme"},
		{"adzuna", "1", "Go Engineer", "Globex"},
		{"adzuna", "1go", " Engineer", "Acme"},
	}
	for _, tu := range tuples {
		v := Derive(tu[0], tu[1], tu[2], tu[3])
		if seen[v] {
			t.Errorf("duplicate ID for %v", tu)
		}
		seen[v] = true
	}
}
