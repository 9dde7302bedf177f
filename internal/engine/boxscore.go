package engine

// Box-score enrichment: pure, stateless transforms over raw counting stats.
// The zero-division policies here are deliberate and documented; none of
// these functions can fail.

// TrueShootingPct computes TS% = PTS / (2 * (FGA + 0.44 * FTA)).
// Defined as 0 when the denominator is 0.
func TrueShootingPct(points, fga int, fta int) float64 {
	denom := 2 * (float64(fga) + 0.44*float64(fta))
	return safeDiv(float64(points), denom)
}

// EffectiveFGPct computes eFG% = (FGM + 0.5 * FG3M) / FGA, 0 when FGA is 0.
func EffectiveFGPct(fgm, fg3m, fga int) float64 {
	return safeDiv(float64(fgm)+0.5*float64(fg3m), float64(fga))
}

// AssistTurnoverRatio computes AST/TOV with an asymmetric zero policy: with
// zero turnovers the ratio reports the raw assist count (5 assists, 0
// turnovers reads "5", not infinity), and 0 when both are 0. Callers must
// not treat the zero-turnover value as a true ratio.
func AssistTurnoverRatio(ast, tov int) float64 {
	if tov == 0 {
		if ast > 0 {
			return float64(ast)
		}
		return 0
	}
	return float64(ast) / float64(tov)
}

// countDoubleDigitCategories counts how many of the five counting categories
// reached 10.
func countDoubleDigitCategories(pts, reb, ast, stl, blk int) int {
	n := 0
	for _, v := range [5]int{pts, reb, ast, stl, blk} {
		if v >= 10 {
			n++
		}
	}
	return n
}

// IsDoubleDouble reports 10+ in at least two of points, rebounds, assists,
// steals and blocks.
func IsDoubleDouble(pts, reb, ast, stl, blk int) bool {
	return countDoubleDigitCategories(pts, reb, ast, stl, blk) >= 2
}

// IsTripleDouble reports 10+ in at least three categories.
func IsTripleDouble(pts, reb, ast, stl, blk int) bool {
	return countDoubleDigitCategories(pts, reb, ast, stl, blk) >= 3
}

// EnrichedRow is a GameRow with derived per-game metrics attached.
type EnrichedRow struct {
	GameRow

	TSPct        float64 `json:"ts_pct"`
	EFGPct       float64 `json:"efg_pct"`
	AstTovRatio  float64 `json:"ast_tov_ratio"`
	DoubleDouble bool    `json:"double_double"`
	TripleDouble bool    `json:"triple_double"`
}

// EnrichRow computes the derived metrics for a single game.
func EnrichRow(g GameRow) EnrichedRow {
	return EnrichedRow{
		GameRow:      g,
		TSPct:        TrueShootingPct(g.Points, g.FGA, g.FTA),
		EFGPct:       EffectiveFGPct(g.FGM, g.FG3M, g.FGA),
		AstTovRatio:  AssistTurnoverRatio(g.Assists, g.Turnovers),
		DoubleDouble: IsDoubleDouble(g.Points, g.Rebounds, g.Assists, g.Steals, g.Blocks),
		TripleDouble: IsTripleDouble(g.Points, g.Rebounds, g.Assists, g.Steals, g.Blocks),
	}
}

// EnrichRows enriches a full game log.
func EnrichRows(rows []GameRow) []EnrichedRow {
	out := make([]EnrichedRow, len(rows))
	for i, g := range rows {
		out[i] = EnrichRow(g)
	}
	return out
}

// SeasonStats is the season-level rollup of enriched per-game metrics.
type SeasonStats struct {
	TotalGames int `json:"total_games"`

	AvgMinutes   float64 `json:"avg_minutes"`
	AvgPoints    float64 `json:"avg_points"`
	AvgRebounds  float64 `json:"avg_rebounds"`
	AvgOffReb    float64 `json:"avg_off_rebounds"`
	AvgDefReb    float64 `json:"avg_def_rebounds"`
	AvgAssists   float64 `json:"avg_assists"`
	AvgSteals    float64 `json:"avg_steals"`
	AvgBlocks    float64 `json:"avg_blocks"`
	AvgTurnovers float64 `json:"avg_turnovers"`
	AvgFouls     float64 `json:"avg_fouls"`
	AvgPlusMinus float64 `json:"avg_plus_minus"`

	AvgFGPct  float64 `json:"avg_fg_pct"`
	AvgFG3Pct float64 `json:"avg_fg3_pct"`
	AvgFTPct  float64 `json:"avg_ft_pct"`

	AvgTSPct       float64 `json:"avg_ts_pct"`
	AvgEFGPct      float64 `json:"avg_efg_pct"`
	AvgAstTovRatio float64 `json:"avg_ast_tov_ratio"`

	AvgFGM  float64 `json:"avg_fgm"`
	AvgFGA  float64 `json:"avg_fga"`
	AvgFG3M float64 `json:"avg_fg3m"`
	AvgFG3A float64 `json:"avg_fg3a"`
	AvgFTM  float64 `json:"avg_ftm"`
	AvgFTA  float64 `json:"avg_fta"`

	// Two-point split derived from total minus three-point figures.
	AvgFG2M   float64 `json:"avg_fg2m"`
	AvgFG2A   float64 `json:"avg_fg2a"`
	AvgFG2Pct float64 `json:"avg_fg2_pct"`

	DoubleDoubles    int     `json:"double_doubles"`
	TripleDoubles    int     `json:"triple_doubles"`
	DoubleDoublePct  float64 `json:"double_double_pct"`
}

// SeasonRollup computes the arithmetic mean of each enriched column across
// all games, plus double/triple-double counts. Returns nil for an empty log.
func SeasonRollup(rows []GameRow) *SeasonStats {
	if len(rows) == 0 {
		return nil
	}

	enriched := EnrichRows(rows)
	n := float64(len(enriched))
	stats := &SeasonStats{TotalGames: len(enriched)}

	var fg2a, fg2PctSum float64
	var fg2PctGames int
	for _, r := range enriched {
		stats.AvgMinutes += r.Minutes
		stats.AvgPoints += float64(r.Points)
		stats.AvgRebounds += float64(r.Rebounds)
		stats.AvgOffReb += float64(r.OffRebounds)
		stats.AvgDefReb += float64(r.DefRebounds)
		stats.AvgAssists += float64(r.Assists)
		stats.AvgSteals += float64(r.Steals)
		stats.AvgBlocks += float64(r.Blocks)
		stats.AvgTurnovers += float64(r.Turnovers)
		stats.AvgFouls += float64(r.PersonalFouls)
		stats.AvgPlusMinus += r.PlusMinus

		stats.AvgFGPct += r.FGPct
		stats.AvgFG3Pct += r.FG3Pct
		stats.AvgFTPct += r.FTPct

		stats.AvgTSPct += r.TSPct
		stats.AvgEFGPct += r.EFGPct
		stats.AvgAstTovRatio += r.AstTovRatio

		stats.AvgFGM += float64(r.FGM)
		stats.AvgFGA += float64(r.FGA)
		stats.AvgFG3M += float64(r.FG3M)
		stats.AvgFG3A += float64(r.FG3A)
		stats.AvgFTM += float64(r.FTM)
		stats.AvgFTA += float64(r.FTA)

		stats.AvgFG2M += float64(r.FGM - r.FG3M)
		fg2a += float64(r.FGA - r.FG3A)
		if a := r.FGA - r.FG3A; a > 0 {
			fg2PctSum += float64(r.FGM-r.FG3M) / float64(a)
			fg2PctGames++
		}

		if r.DoubleDouble {
			stats.DoubleDoubles++
		}
		if r.TripleDouble {
			stats.TripleDoubles++
		}
	}

	stats.AvgMinutes /= n
	stats.AvgPoints /= n
	stats.AvgRebounds /= n
	stats.AvgOffReb /= n
	stats.AvgDefReb /= n
	stats.AvgAssists /= n
	stats.AvgSteals /= n
	stats.AvgBlocks /= n
	stats.AvgTurnovers /= n
	stats.AvgFouls /= n
	stats.AvgPlusMinus /= n
	stats.AvgFGPct /= n
	stats.AvgFG3Pct /= n
	stats.AvgFTPct /= n
	stats.AvgTSPct /= n
	stats.AvgEFGPct /= n
	stats.AvgAstTovRatio /= n
	stats.AvgFGM /= n
	stats.AvgFGA /= n
	stats.AvgFG3M /= n
	stats.AvgFG3A /= n
	stats.AvgFTM /= n
	stats.AvgFTA /= n
	stats.AvgFG2M /= n
	stats.AvgFG2A = fg2a / n
	stats.AvgFG2Pct = safeDiv(fg2PctSum, float64(fg2PctGames))

	stats.DoubleDoublePct = float64(stats.DoubleDoubles) / n * 100

	return stats
}
