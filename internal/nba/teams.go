package nba

import (
	"strings"

	"github.com/fortuna/propscout/internal/engine"
)

// The league's team directory is static between expansions, so it ships with
// the binary instead of costing an API round trip per lookup.
var teamDirectory = []engine.TeamRef{
	{ID: 1610612737, FullName: "Atlanta Hawks", Nickname: "Hawks", Abbreviation: "ATL"},
	{ID: 1610612738, FullName: "Boston Celtics", Nickname: "Celtics", Abbreviation: "BOS"},
	{ID: 1610612751, FullName: "Brooklyn Nets", Nickname: "Nets", Abbreviation: "BKN"},
	{ID: 1610612766, FullName: "Charlotte Hornets", Nickname: "Hornets", Abbreviation: "CHA"},
	{ID: 1610612741, FullName: "Chicago Bulls", Nickname: "Bulls", Abbreviation: "CHI"},
	{ID: 1610612739, FullName: "Cleveland Cavaliers", Nickname: "Cavaliers", Abbreviation: "CLE"},
	{ID: 1610612742, FullName: "Dallas Mavericks", Nickname: "Mavericks", Abbreviation: "DAL"},
	{ID: 1610612743, FullName: "Denver Nuggets", Nickname: "Nuggets", Abbreviation: "DEN"},
	{ID: 1610612765, FullName: "Detroit Pistons", Nickname: "Pistons", Abbreviation: "DET"},
	{ID: 1610612744, FullName: "Golden State Warriors", Nickname: "Warriors", Abbreviation: "GSW"},
	{ID: 1610612745, FullName: "Houston Rockets", Nickname: "Rockets", Abbreviation: "HOU"},
	{ID: 1610612754, FullName: "Indiana Pacers", Nickname: "Pacers", Abbreviation: "IND"},
	{ID: 1610612746, FullName: "LA Clippers", Nickname: "Clippers", Abbreviation: "LAC"},
	{ID: 1610612747, FullName: "Los Angeles Lakers", Nickname: "Lakers", Abbreviation: "LAL"},
	{ID: 1610612763, FullName: "Memphis Grizzlies", Nickname: "Grizzlies", Abbreviation: "MEM"},
	{ID: 1610612748, FullName: "Miami Heat", Nickname: "Heat", Abbreviation: "MIA"},
	{ID: 1610612749, FullName: "Milwaukee Bucks", Nickname: "Bucks", Abbreviation: "MIL"},
	{ID: 1610612750, FullName: "Minnesota Timberwolves", Nickname: "Timberwolves", Abbreviation: "MIN"},
	{ID: 1610612740, FullName: "New Orleans Pelicans", Nickname: "Pelicans", Abbreviation: "NOP"},
	{ID: 1610612752, FullName: "New York Knicks", Nickname: "Knicks", Abbreviation: "NYK"},
	{ID: 1610612760, FullName: "Oklahoma City Thunder", Nickname: "Thunder", Abbreviation: "OKC"},
	{ID: 1610612753, FullName: "Orlando Magic", Nickname: "Magic", Abbreviation: "ORL"},
	{ID: 1610612755, FullName: "Philadelphia 76ers", Nickname: "76ers", Abbreviation: "PHI"},
	{ID: 1610612756, FullName: "Phoenix Suns", Nickname: "Suns", Abbreviation: "PHX"},
	{ID: 1610612757, FullName: "Portland Trail Blazers", Nickname: "Trail Blazers", Abbreviation: "POR"},
	{ID: 1610612758, FullName: "Sacramento Kings", Nickname: "Kings", Abbreviation: "SAC"},
	{ID: 1610612759, FullName: "San Antonio Spurs", Nickname: "Spurs", Abbreviation: "SAS"},
	{ID: 1610612761, FullName: "Toronto Raptors", Nickname: "Raptors", Abbreviation: "TOR"},
	{ID: 1610612762, FullName: "Utah Jazz", Nickname: "Jazz", Abbreviation: "UTA"},
	{ID: 1610612764, FullName: "Washington Wizards", Nickname: "Wizards", Abbreviation: "WAS"},
}

// Teams returns a copy of the full team directory.
func Teams() []engine.TeamRef {
	out := make([]engine.TeamRef, len(teamDirectory))
	copy(out, teamDirectory)
	return out
}

// lookupTeam resolves a team by full-name substring, nickname substring or
// exact abbreviation, first match in directory order. Nil when nothing fits.
func lookupTeam(query string) *engine.TeamRef {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil
	}
	lower := strings.ToLower(q)
	upper := strings.ToUpper(q)

	for i := range teamDirectory {
		t := &teamDirectory[i]
		if strings.Contains(strings.ToLower(t.FullName), lower) ||
			strings.Contains(strings.ToLower(t.Nickname), lower) ||
			upper == t.Abbreviation {
			ref := *t
			return &ref
		}
	}
	return nil
}

// lookupTeamByID returns the directory entry for a team ID, nil when unknown.
func lookupTeamByID(id int) *engine.TeamRef {
	for i := range teamDirectory {
		if teamDirectory[i].ID == id {
			ref := teamDirectory[i]
			return &ref
		}
	}
	return nil
}
