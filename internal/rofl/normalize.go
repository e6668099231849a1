package rofl

import (
	"github.com/scrimstats/go-scrim-stats/internal/model"
	"github.com/scrimstats/go-scrim-stats/internal/refdata"
)

// Normalize maps one raw telemetry bag into a typed ParticipantStats,
// resolving item, rune and summoner spell ids through the catalog. Numeric
// values stay decimal strings; missing values default to "0" ("" for names).
// Normalization never fails.
func Normalize(raw RawParticipant, catalog *refdata.Catalog) model.ParticipantStats {
	return model.ParticipantStats{
		Kills:   orZero(raw.ChampionsKilled),
		Deaths:  orZero(raw.NumDeaths),
		Assists: orZero(raw.Assists),

		DoubleKills: orZero(raw.DoubleKills),
		TripleKills: orZero(raw.TripleKills),
		QuadraKills: orZero(raw.QuadraKills),
		PentaKills:  orZero(raw.PentaKills),

		GoldEarned: orZero(raw.GoldEarned),
		Items: []model.RefValue{
			catalog.Item(orZero(raw.Item0)),
			catalog.Item(orZero(raw.Item1)),
			catalog.Item(orZero(raw.Item2)),
			catalog.Item(orZero(raw.Item3)),
			catalog.Item(orZero(raw.Item4)),
			catalog.Item(orZero(raw.Item5)),
			catalog.Item(orZero(raw.Item6)),
		},

		Level: orZero(raw.Level),

		MagicDamageDealt:          orZero(raw.MagicDamageDealt),
		MagicDamageToChampions:    orZero(raw.MagicDamageToChampions),
		MagicDamageTaken:          orZero(raw.MagicDamageTaken),
		PhysicalDamageDealt:       orZero(raw.PhysicalDamageDealt),
		PhysicalDamageToChampions: orZero(raw.PhysicalDamageToChamps),
		PhysicalDamageTaken:       orZero(raw.PhysicalDamageTaken),
		TrueDamageDealt:           orZero(raw.TrueDamageDealt),
		TrueDamageToChampions:     orZero(raw.TrueDamageToChampions),
		TrueDamageTaken:           orZero(raw.TrueDamageTaken),
		TotalDamageDealt:          orZero(raw.TotalDamageDealt),
		TotalDamageToChampions:    orZero(raw.TotalDamageToChampions),
		TotalDamageTaken:          orZero(raw.TotalDamageTaken),
		CreepScore:                orZero(raw.MissionsCreepScore),

		VisionScore:        orZero(raw.VisionScore),
		ControlWardsBought: orZero(raw.VisionWardsBoughtInGame),
		WardsKilled:        orZero(raw.WardKilled),
		WardsPlaced:        orZero(raw.WardPlaced),

		Perks: model.Perks{
			PrimaryStyle: model.RuneStyle{
				Style:    catalog.RuneStyle(orZero(raw.PerkPrimaryStyle)),
				Keystone: catalog.Rune(orZero(raw.Perk0)),
				Slots: []model.RefValue{
					catalog.Rune(orZero(raw.Perk1)),
					catalog.Rune(orZero(raw.Perk2)),
					catalog.Rune(orZero(raw.Perk3)),
				},
			},
			SubStyle: model.RuneStyle{
				Style: catalog.RuneStyle(orZero(raw.PerkSubStyle)),
				Slots: []model.RefValue{
					catalog.Rune(orZero(raw.Perk4)),
					catalog.Rune(orZero(raw.Perk5)),
				},
			},
			StatPerks: []string{
				orZero(raw.StatPerk0),
				orZero(raw.StatPerk1),
				orZero(raw.StatPerk2),
			},
		},

		SummonerSpells: []model.RefValue{
			catalog.SummonerSpell(orZero(raw.SummonerSpell1)),
			catalog.SummonerSpell(orZero(raw.SummonerSpell2)),
		},

		RiotIDGameName: raw.RiotIDGameName,
		RiotIDTagLine:  raw.RiotIDTagLine,
		Champion:       raw.Skin,
		Team:           model.TeamFromCode(raw.Team),
		Role:           model.Role(raw.TeamPosition),
		Win:            raw.Win == "Win",
	}
}

// NormalizeAll normalizes every raw participant in order.
func NormalizeAll(raws []RawParticipant, catalog *refdata.Catalog) []model.ParticipantStats {
	out := make([]model.ParticipantStats, 0, len(raws))
	for _, raw := range raws {
		out = append(out, Normalize(raw, catalog))
	}
	return out
}

func orZero(s string) string {
	if s == "" {
		return "0"
	}
	return s
}
