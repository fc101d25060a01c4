package store

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sweeney/daylight-sensor/internal/logic"
	"github.com/sweeney/daylight-sensor/internal/world"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "detectors.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenEmptyPath(t *testing.T) {
	if _, err := Open("", zerolog.Nop()); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestUpsertAndLoadAll(t *testing.T) {
	s := openTest(t)

	a := world.BlockPos{X: 1, Y: 64, Z: -3}
	b := world.BlockPos{X: 0, Y: 70, Z: 9}
	if err := s.Upsert(a, logic.Properties{Inverted: true, Power: 11}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	if err := s.Upsert(b, logic.Properties{Power: 15}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("loaded %d rows, want 2", len(got))
	}
	if p := got[a]; !p.Inverted || p.Power != 11 {
		t.Errorf("a: got %+v, want inverted=true power=11", p)
	}
	if p := got[b]; p.Inverted || p.Power != 15 {
		t.Errorf("b: got %+v, want inverted=false power=15", p)
	}
}

func TestUpsertReplacesExisting(t *testing.T) {
	s := openTest(t)
	pos := world.BlockPos{X: 2, Y: 64, Z: 2}

	s.Upsert(pos, logic.Properties{Power: 15})
	s.Upsert(pos, logic.Properties{Inverted: true, Power: 0})

	got, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("loaded %d rows, want 1", len(got))
	}
	if p := got[pos]; !p.Inverted || p.Power != 0 {
		t.Errorf("got %+v, want inverted=true power=0", p)
	}
}

func TestDelete(t *testing.T) {
	s := openTest(t)
	pos := world.BlockPos{X: 3, Y: 64, Z: 3}

	s.Upsert(pos, logic.Properties{Power: 7})
	if err := s.Delete(pos); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	got, _ := s.LoadAll()
	if len(got) != 0 {
		t.Errorf("loaded %d rows after delete, want 0", len(got))
	}

	// Deleting again is fine.
	if err := s.Delete(pos); err != nil {
		t.Errorf("Delete absent row: %v", err)
	}
}

func TestLoadAllSkipsInvalidIndex(t *testing.T) {
	s := openTest(t)

	s.Upsert(world.BlockPos{X: 0, Y: 64, Z: 0}, logic.Properties{Power: 5})
	if _, err := s.db.Exec(
		`INSERT INTO detectors (x, y, z, state_index, updated_at) VALUES (9, 9, 9, 99, '');`,
	); err != nil {
		t.Fatalf("insert bad row: %v", err)
	}

	got, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("loaded %d rows, want 1 (bad row skipped)", len(got))
	}
}

func TestOnChangeUpserts(t *testing.T) {
	s := openTest(t)
	pos := world.BlockPos{X: 4, Y: 64, Z: 4}

	s.OnChange(world.Change{
		Pos:    pos,
		Props:  logic.Properties{Inverted: true, Power: 3},
		Notify: world.NotifyAll,
	})

	got, err := s.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if p := got[pos]; !p.Inverted || p.Power != 3 {
		t.Errorf("got %+v, want inverted=true power=3", p)
	}
}

func TestReopenPersists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "detectors.db")
	pos := world.BlockPos{X: 5, Y: 64, Z: 5}

	s1, err := Open(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	s1.Upsert(pos, logic.Properties{Power: 12})
	s1.Close()

	s2, err := Open(path, zerolog.Nop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()

	got, err := s2.LoadAll()
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if p := got[pos]; p.Power != 12 {
		t.Errorf("got %+v, want power=12", p)
	}
}
