package cache

import (
	"os"
	"path/filepath"
	"testing"
)

type request struct {
	Job  string  `json:"job"`
	Time float64 `json:"time"`
}

type entry struct {
	Dps  float64  `json:"dps"`
	Rows []string `json:"rows"`
}

func TestSaveLoad(t *testing.T) {
	c, err := New(filepath.Join(t.TempDir(), "reports"))
	if err != nil {
		t.Fatal(err)
	}
	key := request{Job: "PLD", Time: 360}

	var got entry
	if c.Load(key, &got) {
		t.Fatal("hit on an empty cache")
	}
	want := entry{Dps: 12345.5, Rows: []string{"Fast Blade", "Riot Blade"}}
	if !c.Save(key, want) {
		t.Fatal("save failed")
	}
	if !c.Load(key, &got) {
		t.Fatal("miss after save")
	}
	if got.Dps != want.Dps || len(got.Rows) != 2 || got.Rows[1] != "Riot Blade" {
		t.Errorf("loaded %+v", got)
	}
	if c.Load(request{Job: "PLD", Time: 120}, &got) {
		t.Error("different key hit")
	}
}

func TestSkipWhileSaving(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := request{Job: "SCH"}
	c.Save(key, entry{Dps: 1})

	h, err := hashKey(key)
	if err != nil {
		t.Fatal(err)
	}
	if !c.lock(h) {
		t.Fatal("lock taken")
	}
	var got entry
	if c.Load(key, &got) {
		t.Error("loaded an entry that is being written")
	}
	if c.Save(key, entry{Dps: 2}) {
		t.Error("second writer not refused")
	}
	c.unlock(h)
	if !c.Load(key, &got) || got.Dps != 1 {
		t.Errorf("after unlock %+v", got)
	}
}

func TestCorruptEntryIsAMiss(t *testing.T) {
	c, err := New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := request{Job: "WHM"}
	h, err := hashKey(key)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(c.path(h), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	var got entry
	if c.Load(key, &got) {
		t.Error("corrupt entry loaded")
	}
}
