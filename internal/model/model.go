package model

import (
	"math"
	"time"
)

// Team represents which side of the map a participant played on.
type Team string

const (
	TeamBlue Team = "BLUE"
	TeamRed  Team = "RED"
)

// TeamFromCode converts the replay's numeric side code to a Team.
// "100" is BLUE; anything else is RED.
func TeamFromCode(code string) Team {
	if code == "100" {
		return TeamBlue
	}
	return TeamRed
}

// Role is one of the five fixed positions of a participant.
type Role string

const (
	RoleTop     Role = "TOP"
	RoleJungle  Role = "JUNGLE"
	RoleMiddle  Role = "MIDDLE"
	RoleBottom  Role = "BOTTOM"
	RoleUtility Role = "UTILITY"
)

// Roles returns the five roles in draft display order.
func Roles() []Role {
	return []Role{RoleTop, RoleJungle, RoleMiddle, RoleBottom, RoleUtility}
}

// RoleOrder returns the display rank of a role, with unknown roles sorted last.
func RoleOrder(r Role) int {
	for i, known := range Roles() {
		if r == known {
			return i
		}
	}
	return len(Roles())
}

// RefValue pairs a raw content id with its resolved display name.
// Name is nil when the id is unknown to the reference catalog (or an empty
// item slot), never an error.
type RefValue struct {
	ID   string  `json:"id"`
	Name *string `json:"name"`
}

// GameMetadata is the per-match header extracted from the replay trailer.
type GameMetadata struct {
	GameLength   int64 `json:"gameLength"`   // milliseconds
	GameDuration int64 `json:"gameDuration"` // seconds, floor(GameLength/1000)
	WinTeam      Team  `json:"winTeam"`
	PlayTime     int64 `json:"playTime"` // seconds, first participant's elapsed time
}

// RuneStyle is a selected rune tree (primary or secondary).
type RuneStyle struct {
	Style    RefValue   `json:"style"`
	Keystone RefValue   `json:"keystone,omitzero"`
	Slots    []RefValue `json:"slots"`
}

// Perks is a participant's full rune selection.
type Perks struct {
	PrimaryStyle RuneStyle `json:"primaryStyle"`
	SubStyle     RuneStyle `json:"subStyle"`
	StatPerks    []string  `json:"statPerks"`
}

// ParticipantStats is one normalized participant row. Numeric telemetry is
// kept as the decimal strings the replay reports; only team and win are
// semantically decoded.
type ParticipantStats struct {
	ID      int64 `json:"-"`
	MatchID int64 `json:"-"`
	// PlayerID is the mapped stored player, 0 before the match is saved.
	PlayerID int64 `json:"playerId,omitempty"`

	RiotIDGameName string `json:"riotIdGameName"`
	RiotIDTagLine  string `json:"riotIdTagLine"`
	Champion       string `json:"champion"`
	Team           Team   `json:"team"`
	Role           Role   `json:"position"`
	Win            bool   `json:"win"`
	Level          string `json:"level"`

	Kills   string `json:"kills"`
	Deaths  string `json:"deaths"`
	Assists string `json:"assists"`

	DoubleKills string `json:"doubleKills"`
	TripleKills string `json:"tripleKills"`
	QuadraKills string `json:"quadraKills"`
	PentaKills  string `json:"pentaKills"`

	GoldEarned string `json:"goldEarned"`
	CreepScore string `json:"creepScore"`

	MagicDamageDealt       string `json:"magicDamageDealt"`
	MagicDamageToChampions string `json:"magicDamageToChampions"`
	MagicDamageTaken       string `json:"magicDamageTaken"`

	PhysicalDamageDealt       string `json:"physicalDamageDealt"`
	PhysicalDamageToChampions string `json:"physicalDamageToChampions"`
	PhysicalDamageTaken       string `json:"physicalDamageTaken"`

	TrueDamageDealt       string `json:"trueDamageDealt"`
	TrueDamageToChampions string `json:"trueDamageToChampions"`
	TrueDamageTaken       string `json:"trueDamageTaken"`

	TotalDamageDealt       string `json:"totalDamageDealt"`
	TotalDamageToChampions string `json:"totalDamageToChampions"`
	TotalDamageTaken       string `json:"totalDamageTaken"`

	VisionScore        string `json:"visionScore"`
	ControlWardsBought string `json:"controlWardsBought"`
	WardsKilled        string `json:"wardsKilled"`
	WardsPlaced        string `json:"wardsPlaced"`

	Items          []RefValue `json:"items"` // seven slots, trinket last
	Perks          Perks      `json:"perks"`
	SummonerSpells []RefValue `json:"summonerSpells"` // two slots

	CreatedAt time.Time `json:"-"`
}

// Preview is the parsed, normalized view of a replay returned to the caller
// for confirmation before saving.
type Preview struct {
	Metadata GameMetadata       `json:"metadata"`
	BlueTeam []ParticipantStats `json:"blueTeam"`
	RedTeam  []ParticipantStats `json:"redTeam"`
}

// PlayerMapping assigns one roster slot to a stored player.
type PlayerMapping struct {
	Team     Team  `json:"team"`
	Index    int   `json:"index"`
	PlayerID int64 `json:"playerId"`
}

// BanRef references a banned champion by id.
type BanRef struct {
	ChampionID string `json:"championId"`
}

// SaveMatchRequest is the confirmed payload persisted by the orchestrator.
type SaveMatchRequest struct {
	Metadata       GameMetadata       `json:"metadata"`
	BlueTeam       []ParticipantStats `json:"blueTeam"`
	RedTeam        []ParticipantStats `json:"redTeam"`
	PlayerMappings []PlayerMapping    `json:"playerMappings"`
	BanChampions   []BanRef           `json:"banChampions"`
	PlayedAt       *time.Time         `json:"playedAt,omitempty"`
}

// Match is a persisted match header.
type Match struct {
	ID           int64        `json:"id"`
	Metadata     GameMetadata `json:"metadata"`
	BanChampions []BanRef     `json:"banChampions"`
	PlayedAt     time.Time    `json:"playedAt"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// Player is a registered player that roster slots map onto.
type Player struct {
	ID           int64     `json:"id"`
	RealName     string    `json:"realName"`
	GameName     string    `json:"gameName"`
	TagLine      string    `json:"tagLine"`
	MainPosition Role      `json:"mainPosition"`
	SubPositions []Role    `json:"subPositions"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ---- Denormalized aggregates ----

// RoleStats is the per-role sub-record of a champion aggregate.
type RoleStats struct {
	Games   int     `json:"games"`
	Wins    int     `json:"wins"`
	WinRate float64 `json:"winRate"`
}

// ChampionAggregate is the incrementally maintained per-champion rollup.
// TotalGames == Wins + Losses always holds.
type ChampionAggregate struct {
	ChampionID string  `json:"championId"`
	TotalGames int     `json:"totalGames"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	WinRate    float64 `json:"winRate"`  // % of TotalGames won
	PickRate   float64 `json:"pickRate"` // % of all matches picked
	BanCount   int     `json:"banCount"`
	BanRate    float64 `json:"banRate"` // % of all bans

	ByRole map[Role]RoleStats `json:"byRole"`
}

// PlayerAggregate is the per-player lifetime win-rate rollup used for ranking.
type PlayerAggregate struct {
	PlayerID   int64   `json:"playerId"`
	TotalGames int     `json:"totalGames"`
	Wins       int     `json:"wins"`
	Losses     int     `json:"losses"`
	WinRate    float64 `json:"winRate"`
}

// PlayerRecentForm is a player's rolling window over their 10 most recent
// participant rows. Always recomputed from source rows, never incremented.
type PlayerRecentForm struct {
	PlayerID int64   `json:"playerId"`
	Games    int     `json:"games"`
	Wins     int     `json:"wins"`
	Losses   int     `json:"losses"`
	WinAvg   float64 `json:"winAvg"`
	Kills    int     `json:"kills"`
	Deaths   int     `json:"deaths"`
	Assists  int     `json:"assists"`
	KDAAvg   float64 `json:"kdaAvg"`
}

// GlobalTotals holds the denominators shared by pick and ban rates.
type GlobalTotals struct {
	TotalMatches int `json:"totalMatches"`
	TotalBans    int `json:"totalBans"`
}

// Round2 rounds to two decimals; every stored rate goes through it.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Rate returns num/den as a two-decimal percentage, 0 when den is 0.
func Rate(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return Round2(float64(num) / float64(den) * 100)
}
