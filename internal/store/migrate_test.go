package store

import (
	"strings"
	"testing"
)

func TestLoadMigrations(t *testing.T) {
	migrations, err := LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations() error: %v", err)
	}
	if len(migrations) == 0 {
		t.Fatal("expected at least one embedded migration")
	}

	for i, m := range migrations {
		if m.Version <= 0 {
			t.Errorf("migration %q has non-positive version %d", m.Name, m.Version)
		}
		if strings.TrimSpace(m.SQL) == "" {
			t.Errorf("migration %q has empty SQL", m.Name)
		}
		if i > 0 && migrations[i-1].Version >= m.Version {
			t.Errorf("migrations not sorted: %d before %d", migrations[i-1].Version, m.Version)
		}
	}
}

func TestInitialMigrationCreatesBookingBackstop(t *testing.T) {
	migrations, err := LoadMigrations()
	if err != nil {
		t.Fatalf("LoadMigrations() error: %v", err)
	}

	if !strings.Contains(migrations[0].SQL, "uq_appointments_active_session") {
		t.Error("initial migration is missing the active-session unique index")
	}
}
