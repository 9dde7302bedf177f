package nba

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/propscout/internal/cache"
)

// statsStub serves canned result-set payloads keyed by endpoint and counts
// how often each is hit.
type statsStub struct {
	payloads map[string]statsResponse
	hits     map[string]int
}

func newStatsStub() *statsStub {
	return &statsStub{
		payloads: map[string]statsResponse{},
		hits:     map[string]int{},
	}
}

func (s *statsStub) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		endpoint := r.URL.Path[1:]
		s.hits[endpoint]++
		payload, ok := s.payloads[endpoint]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	})
}

func newTestProvider(t *testing.T, stub *statsStub) *Provider {
	t.Helper()

	srv := httptest.NewServer(stub.handler())
	t.Cleanup(srv.Close)

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	cfg := DefaultClientConfig()
	cfg.BaseURL = srv.URL
	cfg.RateLimit = 1000
	cfg.MaxRetries = 0

	p := NewProvider(NewClient(cfg, log), cache.NewMemoryCache(), log)
	p.now = func() time.Time { return time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC) }
	return p
}

func TestFindPlayersCachesRoster(t *testing.T) {
	stub := newStatsStub()
	stub.payloads["commonallplayers"] = statsResponse{ResultSets: []resultSet{{
		Name:    "CommonAllPlayers",
		Headers: []string{"PERSON_ID", "DISPLAY_FIRST_LAST"},
		RowSet: [][]any{
			{float64(2544), "LeBron James"},
			{float64(201939), "Stephen Curry"},
			{float64(203999), "Nikola Jokic"},
		},
	}}}

	p := newTestProvider(t, stub)
	ctx := context.Background()

	matches, err := p.FindPlayers(ctx, "james")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 2544, matches[0].ID)
	assert.Equal(t, "LeBron James", matches[0].FullName)

	// Second search over a different fragment reuses the cached roster.
	matches, err = p.FindPlayers(ctx, "curry")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 1, stub.hits["commonallplayers"])

	none, err := p.FindPlayers(ctx, "zzz")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestSeasonAggregateFallsBackToLatest(t *testing.T) {
	stub := newStatsStub()
	stub.payloads["playercareerstats"] = statsResponse{ResultSets: []resultSet{{
		Name:    "SeasonTotalsRegularSeason",
		Headers: []string{"SEASON_ID", "GP", "MIN", "PTS", "REB", "AST"},
		RowSet: [][]any{
			{"2023-24", float64(70), float64(2400), float64(1800), float64(500), float64(580)},
			{"2024-25", float64(68), float64(2300), float64(1750), float64(480), float64(560)},
		},
	}}}

	p := newTestProvider(t, stub)
	ctx := context.Background()

	t.Run("requested season present", func(t *testing.T) {
		agg, resolved, err := p.SeasonAggregate(ctx, 2544, "2023-24")
		require.NoError(t, err)
		require.NotNil(t, agg)
		assert.Equal(t, "2023-24", resolved)
		assert.Equal(t, 70, agg.GamesPlayed)
		assert.InDelta(t, 1800.0, agg.Points, 1e-9)
	})

	t.Run("missing season serves newest", func(t *testing.T) {
		agg, resolved, err := p.SeasonAggregate(ctx, 2544, "2025-26")
		require.NoError(t, err)
		require.NotNil(t, agg)
		assert.Equal(t, "2024-25", resolved)
		assert.Equal(t, 68, agg.GamesPlayed)
	})
}

func TestGameLogMapsRows(t *testing.T) {
	stub := newStatsStub()
	stub.payloads["playergamelog"] = statsResponse{ResultSets: []resultSet{{
		Name: "PlayerGameLog",
		Headers: []string{
			"GAME_DATE", "MATCHUP", "PTS", "REB", "AST", "MIN",
			"FGM", "FGA", "FG_PCT", "PLUS_MINUS",
		},
		RowSet: [][]any{
			{"JAN 14, 2026", "LAL vs. BOS", float64(31), float64(8), float64(9), float64(36), float64(12), float64(22), 0.545, float64(7)},
			{"JAN 12, 2026", "LAL @ DEN", float64(24), float64(10), float64(11), float64(38), float64(9), float64(20), 0.45, float64(-3)},
		},
	}}}

	p := newTestProvider(t, stub)
	log, err := p.GameLog(context.Background(), 2544, "2025-26")
	require.NoError(t, err)
	require.Len(t, log, 2)

	assert.Equal(t, 31, log[0].Points)
	assert.True(t, log[0].IsHome())
	assert.True(t, log[1].IsAway())
	assert.InDelta(t, 0.545, log[0].FGPct, 1e-9)
	assert.InDelta(t, -3.0, log[1].PlusMinus, 1e-9)

	// Cached on the second read.
	_, err = p.GameLog(context.Background(), 2544, "2025-26")
	require.NoError(t, err)
	assert.Equal(t, 1, stub.hits["playergamelog"])
}

func TestTeamSeasonStatsFromLeagueTable(t *testing.T) {
	stub := newStatsStub()
	stub.payloads["leaguedashteamstats"] = statsResponse{ResultSets: []resultSet{{
		Name:    "LeagueDashTeamStats",
		Headers: []string{"TEAM_ID", "PTS"},
		RowSet: [][]any{
			{float64(1610612747), float64(114.2)},
			{float64(1610612738), float64(118.9)},
		},
	}}}

	p := newTestProvider(t, stub)
	ctx := context.Background()

	stats, err := p.TeamSeasonStats(ctx, 1610612747, "2025-26")
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.InDelta(t, 114.2, stats.PointsPerGame, 1e-9)
	// No opponent column in the base table; the stand-in applies.
	assert.InDelta(t, 109.2, stats.OppPointsPerGame, 1e-9)

	missing, err := p.TeamSeasonStats(ctx, 42, "2025-26")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTeamLastFive(t *testing.T) {
	stub := newStatsStub()
	stub.payloads["leaguegamefinder"] = statsResponse{ResultSets: []resultSet{{
		Name:    "LeagueGameFinderResults",
		Headers: []string{"PTS", "PLUS_MINUS", "FG_PCT", "FG3_PCT"},
		RowSet: [][]any{
			{float64(120), float64(12), 0.50, 0.40},
			{float64(110), float64(-5), 0.44, 0.33},
			{float64(115), float64(8), 0.47, 0.36},
			{float64(108), float64(2), 0.45, 0.35},
			{float64(125), float64(15), 0.52, 0.41},
			{float64(99), float64(-20), 0.40, 0.30}, // sixth game is ignored
		},
	}}}

	p := newTestProvider(t, stub)
	last5, err := p.TeamLastFive(context.Background(), 1610612747, "2025-26")
	require.NoError(t, err)
	require.NotNil(t, last5)

	assert.Equal(t, 5, last5.Games)
	assert.InDelta(t, (120+110+115+108+125)/5.0, last5.PointsFor, 1e-9)
	assert.InDelta(t, (12-5+8+2+15)/5.0, last5.AvgMargin, 1e-9)
	// Opponent score derives from plus/minus.
	assert.InDelta(t, (108+115+107+106+110)/5.0, last5.PointsAgainst, 1e-9)
	assert.InDelta(t, (50+44+47+45+52)/5.0, last5.FGPct, 1e-6)
}
