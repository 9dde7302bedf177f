package nba

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fortuna/propscout/internal/cache"
	"github.com/fortuna/propscout/internal/engine"
	"github.com/fortuna/propscout/internal/metrics"
)

// Provider is the read-through data source for both analysis engines. Every
// fetch checks the cache first; misses hit the stats client and write back
// with a TTL matched to how fast the payload goes stale.
type Provider struct {
	client *Client
	cache  cache.Store
	log    *logrus.Entry
	now    func() time.Time
}

// NewProvider creates a provider over the given client and cache store.
func NewProvider(client *Client, store cache.Store, log *logrus.Logger) *Provider {
	if log == nil {
		log = logrus.New()
	}
	return &Provider{
		client: client,
		cache:  store,
		log:    log.WithField("component", "nba-provider"),
		now:    time.Now,
	}
}

var (
	_ engine.PlayerSource = (*Provider)(nil)
	_ engine.TeamSource   = (*Provider)(nil)
)

func (p *Provider) season(requested string) string {
	if requested != "" {
		return requested
	}
	return CurrentSeason(p.now())
}

// cached runs fetch on a cache miss and stores the JSON-encoded result.
// Cache failures are logged and bypassed, never surfaced.
func cached[T any](ctx context.Context, p *Provider, key string, ttl time.Duration, fetch func() (T, error)) (T, error) {
	var zero T

	if raw, err := p.cache.Get(ctx, key); err == nil {
		var out T
		if err := json.Unmarshal([]byte(raw), &out); err == nil {
			metrics.CacheHitsTotal.Inc()
			return out, nil
		}
		p.log.WithField("key", key).Warn("dropping undecodable cache entry")
		_ = p.cache.Delete(ctx, key)
	}
	metrics.CacheMissesTotal.Inc()

	out, err := fetch()
	if err != nil {
		return zero, err
	}

	if encoded, err := json.Marshal(out); err == nil {
		if err := p.cache.Set(ctx, key, string(encoded), ttl); err != nil {
			p.log.WithField("key", key).WithError(err).Warn("cache write failed")
		}
	}
	return out, nil
}

// FindPlayers filters the league roster by a case-insensitive name fragment.
// The roster itself is one cached fetch per day.
func (p *Provider) FindPlayers(ctx context.Context, name string) ([]engine.PlayerRef, error) {
	season := CurrentSeason(p.now())

	roster, err := cached(ctx, p, "nba:roster:"+season, cache.TTLPlayerInfo, func() ([]engine.PlayerRef, error) {
		return p.fetchRoster(ctx, season)
	})
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(strings.TrimSpace(name))
	if q == "" {
		return nil, nil
	}
	var matches []engine.PlayerRef
	for _, ref := range roster {
		if strings.Contains(strings.ToLower(ref.FullName), q) {
			matches = append(matches, ref)
		}
	}
	return matches, nil
}

func (p *Provider) fetchRoster(ctx context.Context, season string) ([]engine.PlayerRef, error) {
	params := url.Values{}
	params.Set("LeagueID", "00")
	params.Set("Season", season)
	params.Set("IsOnlyCurrentSeason", "1")

	resp, err := p.client.get(ctx, "commonallplayers", params)
	if err != nil {
		return nil, err
	}
	rs, err := resp.set("CommonAllPlayers")
	if err != nil {
		return nil, err
	}

	players := make([]engine.PlayerRef, 0, len(rs.RowSet))
	for _, r := range rs.rows() {
		players = append(players, engine.PlayerRef{
			ID:       r.int("PERSON_ID"),
			FullName: r.str("DISPLAY_FIRST_LAST"),
		})
	}
	return players, nil
}

// PlayerDetail returns roster context for one player.
func (p *Provider) PlayerDetail(ctx context.Context, playerID int) (*engine.PlayerDetail, error) {
	key := fmt.Sprintf("nba:player_info:%d", playerID)
	return cached(ctx, p, key, cache.TTLPlayerInfo, func() (*engine.PlayerDetail, error) {
		params := url.Values{}
		params.Set("PlayerID", fmt.Sprint(playerID))

		resp, err := p.client.get(ctx, "commonplayerinfo", params)
		if err != nil {
			return nil, err
		}
		rs, err := resp.set("CommonPlayerInfo")
		if err != nil {
			return nil, err
		}
		rows := rs.rows()
		if len(rows) == 0 {
			return nil, fmt.Errorf("player %d: %w", playerID, engine.ErrPlayerNotFound)
		}
		r := rows[0]

		name := r.str("TEAM_NAME")
		if city := r.str("TEAM_CITY"); city != "" && name != "" {
			name = city + " " + name
		}
		return &engine.PlayerDetail{
			TeamName:         name,
			TeamAbbreviation: r.str("TEAM_ABBREVIATION"),
			Position:         r.str("POSITION"),
		}, nil
	})
}

// seasonAggregatePayload pairs the aggregate with the season it came from so
// the fallback decision survives the cache round trip.
type seasonAggregatePayload struct {
	Aggregate *engine.SeasonAggregate `json:"aggregate"`
	Season    string                  `json:"season"`
}

// SeasonAggregate returns season totals. When the requested season has no
// career row the most recent season with data is served instead, and the
// resolved label is returned alongside.
func (p *Provider) SeasonAggregate(ctx context.Context, playerID int, season string) (*engine.SeasonAggregate, string, error) {
	season = p.season(season)

	key := fmt.Sprintf("nba:season_stats:%d:%s", playerID, season)
	payload, err := cached(ctx, p, key, cache.TTLSeasonStats, func() (seasonAggregatePayload, error) {
		return p.fetchSeasonAggregate(ctx, playerID, season)
	})
	if err != nil {
		return nil, season, err
	}
	if payload.Season == "" {
		payload.Season = season
	}
	return payload.Aggregate, payload.Season, nil
}

func (p *Provider) fetchSeasonAggregate(ctx context.Context, playerID int, season string) (seasonAggregatePayload, error) {
	params := url.Values{}
	params.Set("PlayerID", fmt.Sprint(playerID))
	params.Set("PerMode", "Totals")

	resp, err := p.client.get(ctx, "playercareerstats", params)
	if err != nil {
		return seasonAggregatePayload{}, err
	}
	rs, err := resp.set("SeasonTotalsRegularSeason")
	if err != nil {
		return seasonAggregatePayload{}, err
	}
	rows := rs.rows()
	if len(rows) == 0 {
		return seasonAggregatePayload{Season: season}, nil
	}

	// Prefer the requested season; otherwise fall back to the newest row,
	// which careerstats lists last.
	pick := rows[len(rows)-1]
	resolved := pick.str("SEASON_ID")
	for _, r := range rows {
		if r.str("SEASON_ID") == season {
			pick, resolved = r, season
			break
		}
	}
	if resolved != season {
		p.log.WithFields(logrus.Fields{
			"player":    playerID,
			"requested": season,
			"resolved":  resolved,
		}).Info("season not found, serving most recent")
	}

	return seasonAggregatePayload{
		Season: resolved,
		Aggregate: &engine.SeasonAggregate{
			GamesPlayed: pick.int("GP"),
			Minutes:     pick.float("MIN"),
			Points:      pick.float("PTS"),
			Rebounds:    pick.float("REB"),
			Assists:     pick.float("AST"),
		},
	}, nil
}

// GameLog returns a player's games for a season, most recent first (the feed's
// native order).
func (p *Provider) GameLog(ctx context.Context, playerID int, season string) ([]engine.GameRow, error) {
	season = p.season(season)

	key := fmt.Sprintf("nba:game_log:%d:%s", playerID, season)
	return cached(ctx, p, key, cache.TTLGameLog, func() ([]engine.GameRow, error) {
		params := url.Values{}
		params.Set("PlayerID", fmt.Sprint(playerID))
		params.Set("Season", season)
		params.Set("SeasonType", "Regular Season")

		resp, err := p.client.get(ctx, "playergamelog", params)
		if err != nil {
			return nil, err
		}
		rs, err := resp.set("PlayerGameLog")
		if err != nil {
			return nil, err
		}

		log := make([]engine.GameRow, 0, len(rs.RowSet))
		for _, r := range rs.rows() {
			log = append(log, engine.GameRow{
				GameDate:      r.str("GAME_DATE"),
				Matchup:       r.str("MATCHUP"),
				Points:        r.int("PTS"),
				Rebounds:      r.int("REB"),
				OffRebounds:   r.int("OREB"),
				DefRebounds:   r.int("DREB"),
				Assists:       r.int("AST"),
				Steals:        r.int("STL"),
				Blocks:        r.int("BLK"),
				Turnovers:     r.int("TOV"),
				PersonalFouls: r.int("PF"),
				Minutes:       r.float("MIN"),
				FGM:           r.int("FGM"),
				FGA:           r.int("FGA"),
				FG3M:          r.int("FG3M"),
				FG3A:          r.int("FG3A"),
				FTM:           r.int("FTM"),
				FTA:           r.int("FTA"),
				FGPct:         r.float("FG_PCT"),
				FG3Pct:        r.float("FG3_PCT"),
				FTPct:         r.float("FT_PCT"),
				PlusMinus:     r.float("PLUS_MINUS"),
			})
		}
		return log, nil
	})
}

// FindTeam resolves a team from the static directory.
func (p *Provider) FindTeam(ctx context.Context, name string) (*engine.TeamRef, error) {
	return lookupTeam(name), nil
}

// TeamSeasonStats returns per-game scoring rates for one team, from the
// league-wide per-game table (one cached fetch covers all thirty teams).
func (p *Provider) TeamSeasonStats(ctx context.Context, teamID int, season string) (*engine.TeamSeasonStats, error) {
	season = p.season(season)

	key := "nba:team_stats:" + season
	table, err := cached(ctx, p, key, cache.TTLTeamStats, func() (map[int]engine.TeamSeasonStats, error) {
		return p.fetchTeamTable(ctx, season)
	})
	if err != nil {
		return nil, err
	}
	stats, ok := table[teamID]
	if !ok {
		return nil, nil
	}
	return &stats, nil
}

func (p *Provider) fetchTeamTable(ctx context.Context, season string) (map[int]engine.TeamSeasonStats, error) {
	params := url.Values{}
	params.Set("Season", season)
	params.Set("PerModeDetailed", "PerGame")
	params.Set("SeasonTypeAllStar", "Regular Season")

	resp, err := p.client.get(ctx, "leaguedashteamstats", params)
	if err != nil {
		return nil, err
	}
	rs, err := resp.set("LeagueDashTeamStats")
	if err != nil {
		return nil, err
	}

	table := make(map[int]engine.TeamSeasonStats, len(rs.RowSet))
	for _, r := range rs.rows() {
		pts := r.float("PTS")
		opp := pts - 5 // the base table omits opponent scoring
		if r.has("OPP_PTS") {
			opp = r.float("OPP_PTS")
		}
		table[r.int("TEAM_ID")] = engine.TeamSeasonStats{
			PointsPerGame:    pts,
			OppPointsPerGame: opp,
		}
	}
	return table, nil
}

// TeamAdvancedStats returns pace and ratings from the league-wide advanced
// table. Nil (with no error) when the season has no row for the team.
func (p *Provider) TeamAdvancedStats(ctx context.Context, teamID int, season string) (*engine.TeamAdvanced, error) {
	season = p.season(season)

	key := "nba:team_adv:" + season
	table, err := cached(ctx, p, key, cache.TTLTeamStats, func() (map[int]engine.TeamAdvanced, error) {
		return p.fetchAdvancedTable(ctx, season)
	})
	if err != nil {
		return nil, err
	}
	adv, ok := table[teamID]
	if !ok {
		return nil, nil
	}
	return &adv, nil
}

func (p *Provider) fetchAdvancedTable(ctx context.Context, season string) (map[int]engine.TeamAdvanced, error) {
	params := url.Values{}
	params.Set("Season", season)
	params.Set("MeasureTypeDetailedDefense", "Advanced")
	params.Set("SeasonTypeAllStar", "Regular Season")

	resp, err := p.client.get(ctx, "leaguedashteamstats", params)
	if err != nil {
		return nil, err
	}
	rs, err := resp.set("LeagueDashTeamStats")
	if err != nil {
		return nil, err
	}

	table := make(map[int]engine.TeamAdvanced, len(rs.RowSet))
	for _, r := range rs.rows() {
		table[r.int("TEAM_ID")] = engine.TeamAdvanced{
			Pace:      r.float("PACE"),
			OffRating: r.float("OFF_RATING"),
			DefRating: r.float("DEF_RATING"),
		}
	}
	return table, nil
}

// TeamLastFive summarizes a team's five most recent games. Opponent scores
// come from plus/minus since the game-finder rows carry only the team's side.
func (p *Provider) TeamLastFive(ctx context.Context, teamID int, season string) (*engine.TeamLastFive, error) {
	season = p.season(season)

	key := fmt.Sprintf("nba:team_last5:%d:%s", teamID, season)
	return cached(ctx, p, key, cache.TTLGameLog, func() (*engine.TeamLastFive, error) {
		rows, err := p.fetchTeamGames(ctx, teamID, season)
		if err != nil {
			return nil, err
		}
		if len(rows) == 0 {
			// Early-season gap: fall back to the previous season's form.
			rows, err = p.fetchTeamGames(ctx, teamID, previousSeason(season))
			if err != nil {
				return nil, err
			}
		}
		if len(rows) == 0 {
			return nil, nil
		}
		if len(rows) > 5 {
			rows = rows[:5]
		}

		var out engine.TeamLastFive
		var fgSum, fg3Sum float64
		var fgN int
		for _, r := range rows {
			pts := r.float("PTS")
			margin := r.float("PLUS_MINUS")
			opp := pts - margin

			out.PointsFor += pts
			out.PointsAgainst += opp
			out.TotalScore += pts + opp
			out.AvgMargin += margin
			if r.has("FG_PCT") {
				fgSum += r.float("FG_PCT") * 100
				fg3Sum += r.float("FG3_PCT") * 100
				fgN++
			}
		}

		n := float64(len(rows))
		out.Games = len(rows)
		out.PointsFor /= n
		out.PointsAgainst /= n
		out.TotalScore /= n
		out.AvgMargin /= n
		if fgN > 0 {
			out.FGPct = fgSum / float64(fgN)
			out.FG3Pct = fg3Sum / float64(fgN)
		} else {
			// League-typical shooting when the feed drops the columns.
			out.FGPct, out.FG3Pct = 45.0, 35.0
		}
		return &out, nil
	})
}

func (p *Provider) fetchTeamGames(ctx context.Context, teamID int, season string) ([]row, error) {
	params := url.Values{}
	params.Set("TeamIDNullable", fmt.Sprint(teamID))
	params.Set("SeasonNullable", season)
	params.Set("SeasonTypeNullable", "Regular Season")

	resp, err := p.client.get(ctx, "leaguegamefinder", params)
	if err != nil {
		return nil, err
	}
	rs, err := resp.set("LeagueGameFinderResults")
	if err != nil {
		return nil, err
	}
	return rs.rows(), nil
}

// previousSeason shifts a season label back one year.
func previousSeason(season string) string {
	var startYear int
	if _, err := fmt.Sscanf(season, "%d-", &startYear); err != nil || startYear == 0 {
		return season
	}
	return formatSeason(startYear - 1)
}
