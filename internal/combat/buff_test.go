package combat

import (
	"math"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
)

func TestCombineMultipliesDamage(t *testing.T) {
	a := Buff{Name: "A", Duration: 20, Effects: Effects{DmgIncrease: 0.1}}
	b := Buff{Name: "B", Duration: 20, Effects: Effects{DmgIncrease: 0.1}}
	got := Combine(a, b).DmgMultiplier
	if math.Abs(got-1.21) > 1e-12 {
		t.Fatalf("combined multiplier %v, want 1.21", got)
	}
	if Combine().DmgMultiplier != 1 {
		t.Error("no buffs should leave damage unchanged")
	}
}

func TestCombineIsOrderIndependent(t *testing.T) {
	buffs := []Buff{
		{Name: "Divination", Effects: Effects{DmgIncrease: 0.06}},
		{Name: "Arcane Circle", Effects: Effects{DmgIncrease: 0.03}},
		{Name: "Chain Stratagem", Effects: Effects{CritChanceIncrease: 0.1}},
		{Name: "Battle Litany", Effects: Effects{CritChanceIncrease: 0.1}},
		{Name: "Embolden", Effects: Effects{DmgIncrease: 0.05, Haste: 3}},
	}
	want := Combine(buffs...)
	perms := [][]int{{4, 3, 2, 1, 0}, {2, 0, 4, 1, 3}, {1, 4, 0, 3, 2}}
	for _, perm := range perms {
		var shuffled []Buff
		for _, i := range perm {
			shuffled = append(shuffled, buffs[i])
		}
		if got := Combine(shuffled...); !reflect.DeepEqual(got, want) {
			t.Errorf("order %v: %+v != %+v", perm, got, want)
		}
	}
	if math.Abs(want.CritChanceIncrease-0.2) > 1e-12 || want.Haste != 3 {
		t.Errorf("additive fields %+v", want)
	}
}

func TestBuffTrackerRefreshExtends(t *testing.T) {
	bt := NewBuffTracker(zerolog.Nop())
	fof := testBuffSkill.ActivatesBuffs[0]
	bt.Activate(fof, 0)
	bt.Activate(fof, 10)
	if got := len(bt.ActiveAt(15)); got != 1 {
		t.Fatalf("refresh stacked %d windows", got)
	}
	if got := bt.Remaining(fof.Name, 15); got != 15 {
		t.Errorf("remaining %v, want 15", got)
	}
	if !bt.IsActive(fof.Name, 29.9) || bt.IsActive(fof.Name, 30) {
		t.Error("window should be [0, 30)")
	}
}

func TestBuffTrackerRemove(t *testing.T) {
	bt := NewBuffTracker(zerolog.Nop())
	fof := testBuffSkill.ActivatesBuffs[0]
	bt.Activate(fof, 0)
	if !bt.Remove(fof.Name, 5) {
		t.Fatal("remove of a running buff failed")
	}
	if !bt.IsActive(fof.Name, 4) || bt.IsActive(fof.Name, 5) {
		t.Error("removal should end the window at 5")
	}
	if bt.Remove(fof.Name, 6) {
		t.Error("removing an expired buff should report false")
	}
	if bt.ActiveEffectsAt(6).DmgMultiplier != 1 {
		t.Error("removed buff still applies")
	}
}

func TestBuffTrackerRejectsEmptyWindow(t *testing.T) {
	bt := NewBuffTracker(zerolog.Nop())
	if bt.Activate(Buff{Name: "Nothing"}, 0) {
		t.Fatal("zero duration buff accepted")
	}
	if len(bt.ActiveAt(0)) != 0 {
		t.Error("zero duration buff is active")
	}
}

func TestPartyBuffByName(t *testing.T) {
	b, ok := PartyBuffByName("chain stratagem")
	if !ok || b.Job != "SCH" || b.Effects.CritChanceIncrease != 0.1 {
		t.Fatalf("lookup returned %+v, %v", b, ok)
	}
	got, unknown := PartyBuffsByName([]string{"Divination", "Nope", "Embolden"})
	if len(got) != 2 || len(unknown) != 1 || unknown[0] != "Nope" {
		t.Errorf("resolved %v, unknown %v", got, unknown)
	}
}

func TestPartyBuffsByNameDropsRepeats(t *testing.T) {
	got, unknown := PartyBuffsByName([]string{"Divination", "divination", "DIVINATION"})
	if len(got) != 1 || got[0].Name != "Divination" || len(unknown) != 0 {
		t.Errorf("resolved %v, unknown %v", got, unknown)
	}
}
