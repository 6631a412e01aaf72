package db

import "testing"

func TestMigrations_OrderedAndUnique(t *testing.T) {
	seen := make(map[int]bool)
	last := 0
	for _, m := range Migrations {
		if m.Version <= last {
			t.Errorf("migration %q out of order (version %d after %d)", m.Name, m.Version, last)
		}
		if seen[m.Version] {
			t.Errorf("duplicate migration version %d", m.Version)
		}
		if m.SQL == "" {
			t.Errorf("migration %q has empty SQL", m.Name)
		}
		seen[m.Version] = true
		last = m.Version
	}
}
