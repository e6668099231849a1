// Package rofl parses League of Legends replay containers (.rofl files).
//
// A container ends with a 4-byte little-endian length L; the L bytes
// immediately before it are a JSON trailer holding the game length and,
// for completed games, a nested JSON string with the per-participant
// telemetry dictionaries.
package rofl

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/scrimstats/go-scrim-stats/internal/model"
)

// ErrMalformedContainer reports a trailer length inconsistent with the buffer
// or a trailer payload that is not valid JSON. Not recoverable.
var ErrMalformedContainer = errors.New("malformed replay container")

const trailerLenSize = 4

// rawMetadata is the JSON trailer document. StatsJSON is empty for games that
// ended without stats (remakes).
type rawMetadata struct {
	GameLength      int64  `json:"gameLength"`
	GameVersion     string `json:"gameVersion"`
	LastGameChunkID int    `json:"lastGameChunkId"`
	LastKeyFrameID  int    `json:"lastKeyFrameId"`
	StatsJSON       string `json:"statsJson"`
}

// RawParticipant is the closed set of known telemetry keys of one participant,
// verbatim decimal strings as the client wrote them. Keys absent from the
// trailer decode to "" and are defaulted during normalization.
type RawParticipant struct {
	ChampionsKilled string `json:"CHAMPIONS_KILLED"`
	NumDeaths       string `json:"NUM_DEATHS"`
	Assists         string `json:"ASSISTS"`

	DoubleKills string `json:"DOUBLE_KILLS"`
	TripleKills string `json:"TRIPLE_KILLS"`
	QuadraKills string `json:"QUADRA_KILLS"`
	PentaKills  string `json:"PENTA_KILLS"`

	GoldEarned string `json:"GOLD_EARNED"`
	Item0      string `json:"ITEM0"`
	Item1      string `json:"ITEM1"`
	Item2      string `json:"ITEM2"`
	Item3      string `json:"ITEM3"`
	Item4      string `json:"ITEM4"`
	Item5      string `json:"ITEM5"`
	Item6      string `json:"ITEM6"`

	Level string `json:"LEVEL"`

	MagicDamageDealt        string `json:"MAGIC_DAMAGE_DEALT_PLAYER"`
	MagicDamageToChampions  string `json:"MAGIC_DAMAGE_DEALT_TO_CHAMPIONS"`
	MagicDamageTaken        string `json:"MAGIC_DAMAGE_TAKEN"`
	PhysicalDamageDealt     string `json:"PHYSICAL_DAMAGE_DEALT_PLAYER"`
	PhysicalDamageToChamps  string `json:"PHYSICAL_DAMAGE_DEALT_TO_CHAMPIONS"`
	PhysicalDamageTaken     string `json:"PHYSICAL_DAMAGE_TAKEN"`
	TrueDamageDealt         string `json:"TRUE_DAMAGE_DEALT_PLAYER"`
	TrueDamageToChampions   string `json:"TRUE_DAMAGE_DEALT_TO_CHAMPIONS"`
	TrueDamageTaken         string `json:"TRUE_DAMAGE_TAKEN"`
	TotalDamageDealt        string `json:"TOTAL_DAMAGE_DEALT"`
	TotalDamageToChampions  string `json:"TOTAL_DAMAGE_DEALT_TO_CHAMPIONS"`
	TotalDamageTaken        string `json:"TOTAL_DAMAGE_TAKEN"`

	MissionsCreepScore string `json:"Missions_CreepScore"`

	VisionScore            string `json:"VISION_SCORE"`
	VisionWardsBoughtInGame string `json:"VISION_WARDS_BOUGHT_IN_GAME"`
	WardKilled             string `json:"WARD_KILLED"`
	WardPlaced             string `json:"WARD_PLACED"`

	Perk0            string `json:"PERK0"`
	Perk1            string `json:"PERK1"`
	Perk2            string `json:"PERK2"`
	Perk3            string `json:"PERK3"`
	Perk4            string `json:"PERK4"`
	Perk5            string `json:"PERK5"`
	StatPerk0        string `json:"STAT_PERK_0"`
	StatPerk1        string `json:"STAT_PERK_1"`
	StatPerk2        string `json:"STAT_PERK_2"`
	PerkPrimaryStyle string `json:"PERK_PRIMARY_STYLE"`
	PerkSubStyle     string `json:"PERK_SUB_STYLE"`

	SummonerSpell1 string `json:"SUMMONER_SPELL_1"`
	SummonerSpell2 string `json:"SUMMONER_SPELL_2"`

	RiotIDGameName string `json:"RIOT_ID_GAME_NAME"`
	RiotIDTagLine  string `json:"RIOT_ID_TAG_LINE"`
	Skin           string `json:"SKIN"`
	Team           string `json:"TEAM"`
	TeamPosition   string `json:"TEAM_POSITION"`
	TimePlayed     string `json:"TIME_PLAYED"`
	Win            string `json:"WIN"`
}

// Replay is the parsed container: header metadata plus the raw participant
// telemetry, or nil Raw when the trailer carried no stats payload.
type Replay struct {
	Metadata model.GameMetadata
	Raw      []RawParticipant
}

// ParseFile reads and parses the replay at path. A missing file surfaces as
// the wrapped fs.ErrNotExist from os.ReadFile.
func ParseFile(path string) (*Replay, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read replay: %w", err)
	}
	return Parse(buf)
}

// Parse parses a replay container from an in-memory buffer.
func Parse(buf []byte) (*Replay, error) {
	if len(buf) < trailerLenSize {
		return nil, fmt.Errorf("%w: %d bytes is too short to hold a trailer length", ErrMalformedContainer, len(buf))
	}

	length := int(binary.LittleEndian.Uint32(buf[len(buf)-trailerLenSize:]))
	if length > len(buf)-trailerLenSize {
		return nil, fmt.Errorf("%w: trailer length %d exceeds %d available bytes",
			ErrMalformedContainer, length, len(buf)-trailerLenSize)
	}

	trailer := buf[len(buf)-trailerLenSize-length : len(buf)-trailerLenSize]
	var meta rawMetadata
	if err := json.Unmarshal(trailer, &meta); err != nil {
		return nil, fmt.Errorf("%w: decode trailer: %v", ErrMalformedContainer, err)
	}

	var raw []RawParticipant
	if meta.StatsJSON != "" {
		if err := json.Unmarshal([]byte(meta.StatsJSON), &raw); err != nil {
			return nil, fmt.Errorf("%w: decode stats payload: %v", ErrMalformedContainer, err)
		}
	}

	return &Replay{
		Metadata: buildMetadata(meta, raw),
		Raw:      raw,
	}, nil
}

// buildMetadata derives the header fields. The winning side is the side of the
// first participant flagged as a winner; when no participant carries the flag
// (aborted games) it deliberately defaults to BLUE, matching the replay
// client's own behavior.
func buildMetadata(meta rawMetadata, raw []RawParticipant) model.GameMetadata {
	winTeam := model.TeamBlue
	for _, p := range raw {
		if p.Win == "Win" {
			winTeam = model.TeamFromCode(p.Team)
			break
		}
	}

	var playTime int64
	if len(raw) > 0 && raw[0].TimePlayed != "" {
		playTime, _ = strconv.ParseInt(raw[0].TimePlayed, 10, 64)
	}

	return model.GameMetadata{
		GameLength:   meta.GameLength,
		GameDuration: meta.GameLength / 1000,
		WinTeam:      winTeam,
		PlayTime:     playTime,
	}
}
