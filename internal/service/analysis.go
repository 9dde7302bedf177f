// Package service orchestrates the analysis engines against the data
// provider, history store and event fanout.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fortuna/propscout/internal/engine"
	"github.com/fortuna/propscout/internal/metrics"
	"github.com/fortuna/propscout/internal/odds"
	"github.com/fortuna/propscout/internal/store"
	"github.com/fortuna/propscout/internal/store/repository"
)

// Publisher pushes completed analyses to a message stream.
type Publisher interface {
	PublishPlayerAnalysis(ctx context.Context, result interface{}) error
	PublishMatchupAnalysis(ctx context.Context, result interface{}) error
}

// Broadcaster fans completed analyses out to live subscribers.
type Broadcaster interface {
	BroadcastAnalysis(data []byte)
}

// OddsFetcher looks up bookmaker odds for a matchup.
type OddsFetcher interface {
	FetchMatchOdds(ctx context.Context, homeTeam, awayTeam string) (*odds.MatchOdds, error)
}

// AnalysisService ties the engines to persistence and fanout. History,
// publisher, broadcaster and odds are all optional; a nil dependency just
// skips that side effect so the service degrades instead of failing.
type AnalysisService struct {
	thresholds *engine.ThresholdEngine
	matchups   *engine.TeamTotalEngine

	history     *repository.HistoryRepository
	publisher   Publisher
	broadcaster Broadcaster
	odds        OddsFetcher

	log *logrus.Entry
}

// NewAnalysisService creates the orchestration service.
func NewAnalysisService(
	thresholds *engine.ThresholdEngine,
	matchups *engine.TeamTotalEngine,
	history *repository.HistoryRepository,
	publisher Publisher,
	broadcaster Broadcaster,
	oddsFetcher OddsFetcher,
	log *logrus.Logger,
) *AnalysisService {
	if log == nil {
		log = logrus.New()
	}
	return &AnalysisService{
		thresholds:  thresholds,
		matchups:    matchups,
		history:     history,
		publisher:   publisher,
		broadcaster: broadcaster,
		odds:        oddsFetcher,
		log:         log.WithField("component", "analysis-service"),
	}
}

// AnalyzePlayer runs a player threshold analysis, persists it and fans the
// result out.
func (s *AnalysisService) AnalyzePlayer(ctx context.Context, req *PlayerRequest) (*engine.PredictionResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()

	q := engine.ThresholdQuery{
		PlayerName:  req.PlayerName,
		Threshold:   req.Threshold.Value,
		Combination: engine.ParseCombination(req.Combination),
		Venue:       engine.ParseVenue(req.Venue),
		Odds:        req.Odds.Ptr(),
		Season:      req.Season,
	}

	if q.Odds == nil {
		q.Odds = s.lookupOdds(ctx, req.HomeTeam, req.AwayTeam)
	}

	result, err := s.thresholds.Analyze(ctx, q)
	if err != nil {
		metrics.AnalysisErrorsTotal.WithLabelValues("player").Inc()
		return nil, err
	}

	metrics.AnalysesTotal.WithLabelValues("player").Inc()
	metrics.AnalysisDuration.WithLabelValues("player").Observe(time.Since(start).Seconds())

	s.recordPlayer(ctx, req, result)
	s.fanOut(ctx, "player_analysis", result, s.publishPlayer)

	return result, nil
}

// AnalyzeMatchup runs a team total analysis, persists it and fans the result
// out.
func (s *AnalysisService) AnalyzeMatchup(ctx context.Context, req *MatchupRequest) (*engine.TeamPrediction, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()

	q := engine.MatchupQuery{
		HomeTeam:  req.HomeTeam,
		AwayTeam:  req.AwayTeam,
		Season:    req.Season,
		Threshold: req.Threshold.Ptr(),
		Model:     engine.ParseModel(req.Model),
		Side:      engine.ParseBetSide(req.Side),
	}

	result, err := s.matchups.Analyze(ctx, q)
	if err != nil {
		metrics.AnalysisErrorsTotal.WithLabelValues("matchup").Inc()
		return nil, err
	}

	metrics.AnalysesTotal.WithLabelValues("matchup").Inc()
	metrics.AnalysisDuration.WithLabelValues("matchup").Observe(time.Since(start).Seconds())

	s.recordMatchup(ctx, req, result)
	s.fanOut(ctx, "matchup_analysis", result, s.publishMatchup)

	return result, nil
}

// PlayerHistory returns recent player analyses, optionally filtered by name.
func (s *AnalysisService) PlayerHistory(ctx context.Context, playerName string, limit int) ([]*store.PlayerAnalysis, error) {
	if s.history == nil {
		return nil, fmt.Errorf("history store not configured")
	}
	return s.history.RecentPlayerAnalyses(ctx, playerName, limit)
}

// MatchupHistory returns recent matchup analyses.
func (s *AnalysisService) MatchupHistory(ctx context.Context, limit int) ([]*store.MatchupAnalysis, error) {
	if s.history == nil {
		return nil, fmt.Errorf("history store not configured")
	}
	return s.history.RecentMatchupAnalyses(ctx, limit)
}

// lookupOdds scrapes the bookmaker favorite odds for a matchup. Failures are
// logged and swallowed; a missing number only disables the garbage-time
// check.
func (s *AnalysisService) lookupOdds(ctx context.Context, homeTeam, awayTeam string) *float64 {
	if s.odds == nil || homeTeam == "" || awayTeam == "" {
		return nil
	}

	metrics.OddsFetchesTotal.Inc()
	match, err := s.odds.FetchMatchOdds(ctx, homeTeam, awayTeam)
	if err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"home": homeTeam,
			"away": awayTeam,
		}).Warn("odds lookup failed")
		return nil
	}

	fav := match.FavoriteOdds()
	if fav == 0 {
		return nil
	}
	return &fav
}

func (s *AnalysisService) recordPlayer(ctx context.Context, req *PlayerRequest, result *engine.PredictionResult) {
	if s.history == nil {
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		s.log.WithError(err).Error("failed to marshal player result")
		return
	}

	rec := &store.PlayerAnalysis{
		RequestedBy: req.RequestedBy,
		PlayerName:  result.Player,
		Combination: result.Combination,
		Threshold:   result.Threshold,
		Season:      result.Season,
		Result:      payload,
		RiskLabel:   result.RiskLabel,
		Confidence:  result.Confidence,
	}
	if err := s.history.SavePlayerAnalysis(ctx, rec); err != nil {
		s.log.WithError(err).Error("failed to persist player analysis")
	}
}

func (s *AnalysisService) recordMatchup(ctx context.Context, req *MatchupRequest, result *engine.TeamPrediction) {
	if s.history == nil {
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		s.log.WithError(err).Error("failed to marshal matchup result")
		return
	}

	decision := result.Decision
	if decision == "" {
		decision = result.Verdict
	}

	rec := &store.MatchupAnalysis{
		RequestedBy: req.RequestedBy,
		HomeTeam:    result.HomeTeam,
		AwayTeam:    result.AwayTeam,
		Model:       result.Model,
		Threshold:   result.Threshold,
		Season:      result.Season,
		Result:      payload,
		Decision:    decision,
	}
	if err := s.history.SaveMatchupAnalysis(ctx, rec); err != nil {
		s.log.WithError(err).Error("failed to persist matchup analysis")
	}
}

func (s *AnalysisService) publishPlayer(ctx context.Context, result interface{}) error {
	return s.publisher.PublishPlayerAnalysis(ctx, result)
}

func (s *AnalysisService) publishMatchup(ctx context.Context, result interface{}) error {
	return s.publisher.PublishMatchupAnalysis(ctx, result)
}

// fanOut publishes to the stream and broadcasts to live subscribers. Both
// paths are best effort.
func (s *AnalysisService) fanOut(ctx context.Context, event string, result interface{}, publish func(context.Context, interface{}) error) {
	if s.publisher != nil {
		if err := publish(ctx, result); err != nil {
			s.log.WithError(err).WithField("event", event).Warn("stream publish failed")
		}
	}

	if s.broadcaster != nil {
		envelope := map[string]interface{}{
			"type":      event,
			"data":      result,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		}
		data, err := json.Marshal(envelope)
		if err != nil {
			s.log.WithError(err).Error("failed to marshal broadcast envelope")
			return
		}
		s.broadcaster.BroadcastAnalysis(data)
	}
}
