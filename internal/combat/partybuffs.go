package combat

import "strings"

func partyBuff(name, job string, eff Effects) Buff {
	return Buff{Name: name, Job: job, Duration: 20, Cooldown: 120, Effects: eff}
}

// PartyBuffs lists the two-minute raid buffs other jobs bring.
var PartyBuffs = []Buff{
	partyBuff("Chain Stratagem", "SCH", Effects{CritChanceIncrease: 0.10}),
	partyBuff("Battle Litany", "DRG", Effects{CritChanceIncrease: 0.10}),
	partyBuff("Battle Voice", "BRD", Effects{DhitChanceIncrease: 0.20}),
	partyBuff("Radiant Finale", "BRD", Effects{DmgIncrease: 0.06}),
	partyBuff("Divination", "AST", Effects{DmgIncrease: 0.06}),
	partyBuff("Brotherhood", "MNK", Effects{DmgIncrease: 0.05}),
	partyBuff("Arcane Circle", "RPR", Effects{DmgIncrease: 0.03}),
	partyBuff("Embolden", "RDM", Effects{DmgIncrease: 0.05}),
	partyBuff("Technical Finish", "DNC", Effects{DmgIncrease: 0.05}),
	partyBuff("Searing Light", "SMN", Effects{DmgIncrease: 0.05}),
	partyBuff("Dokumori", "NIN", Effects{DmgIncrease: 0.05}),
	partyBuff("Starry Muse", "PCT", Effects{DmgIncrease: 0.05}),
}

func PartyBuffByName(name string) (Buff, bool) {
	for _, b := range PartyBuffs {
		if strings.EqualFold(b.Name, name) {
			return b, true
		}
	}
	return Buff{}, false
}

// PartyBuffsByName resolves names in order, skipping unknown ones and
// repeats of a buff already listed. The second return lists the names that
// did not resolve.
func PartyBuffsByName(names []string) ([]Buff, []string) {
	var out []Buff
	var unknown []string
	seen := map[string]bool{}
	for _, n := range names {
		b, ok := PartyBuffByName(n)
		if !ok {
			unknown = append(unknown, n)
			continue
		}
		if seen[b.Name] {
			continue
		}
		seen[b.Name] = true
		out = append(out, b)
	}
	return out, unknown
}
