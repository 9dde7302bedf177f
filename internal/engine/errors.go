package engine

import "errors"

// Sentinel errors crossing the engine boundary. Transient provider failures
// (network, rate limits) are retried below the data source and never surface
// here; callers only ever see not-found, no-data, or success.
var (
	// ErrPlayerNotFound means the fuzzy name search matched nothing.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrTeamNotFound means no team matched the name, nickname or abbreviation.
	ErrTeamNotFound = errors.New("team not found")

	// ErrNoSeasonData means the player resolved but has no season aggregate.
	ErrNoSeasonData = errors.New("no season data")

	// ErrNoGameLog means the player resolved but has an empty game log.
	ErrNoGameLog = errors.New("no game log")

	// ErrNoData means a team stat payload came back empty for the season.
	ErrNoData = errors.New("no data")
)

// IsAbsence reports whether err is one of the terminal "nothing to analyze"
// conditions, as opposed to an unexpected failure. Handlers use this to render
// a clean "analysis unavailable" response.
func IsAbsence(err error) bool {
	return errors.Is(err, ErrPlayerNotFound) ||
		errors.Is(err, ErrTeamNotFound) ||
		errors.Is(err, ErrNoSeasonData) ||
		errors.Is(err, ErrNoGameLog) ||
		errors.Is(err, ErrNoData)
}
