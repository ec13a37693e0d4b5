package rating

import (
	"strings"

	"github.com/cypherlabdev/odds-insight-service/internal/models"
)

// Strategy estimates a home-side win probability for one matchup, together
// with the weight it should carry when blended against the market consensus.
// ok=false means the strategy has nothing to say about this matchup.
type Strategy interface {
	HomeWinProb(homeName, awayName string) (prob, weight float64, ok bool)
}

// Builder constructs a strategy from a chronologically ordered result
// history window.
type Builder func(results []models.Result) Strategy

// Registry selects a strategy builder by sport-key prefix, so new sport
// verticals can plug in their own blending model without touching the
// suggestion loop.
type Registry struct {
	builders map[string]Builder
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{builders: make(map[string]Builder)}
}

// Register binds a builder to a sport-key prefix (e.g. "tennis_").
func (r *Registry) Register(prefix string, b Builder) {
	r.builders[prefix] = b
}

// BuilderFor returns the builder whose prefix matches the sport key. The
// longest matching prefix wins.
func (r *Registry) BuilderFor(sportKey string) (Builder, string, bool) {
	var (
		best    Builder
		bestLen = -1
		prefix  string
	)
	for p, b := range r.builders {
		if strings.HasPrefix(sportKey, p) && len(p) > bestLen {
			best, bestLen, prefix = b, len(p), p
		}
	}
	return best, prefix, bestLen >= 0
}

// EloStrategy blends Elo-derived win probabilities into the market
// consensus, ramping its weight up as both players accumulate rated history.
type EloStrategy struct {
	index     *Index
	maxWeight float64
	rampGames float64
}

// NewEloStrategy wraps an index with the default ramp: weight climbs from 0
// to a 0.6 cap as both players reach 20 rated matches.
func NewEloStrategy(index *Index) *EloStrategy {
	return &EloStrategy{index: index, maxWeight: 0.6, rampGames: 20}
}

// EloBuilder is the Registry builder for Elo-rated verticals.
func EloBuilder(results []models.Result) Strategy {
	return NewEloStrategy(BuildIndex(results, DefaultKFactor))
}

// HomeWinProb implements Strategy.
func (s *EloStrategy) HomeWinProb(homeName, awayName string) (float64, float64, bool) {
	minGames := s.index.GamesPlayed(homeName)
	if g := s.index.GamesPlayed(awayName); g < minGames {
		minGames = g
	}

	weight := float64(minGames) / s.rampGames
	if weight > s.maxWeight {
		weight = s.maxWeight
	}
	if weight <= 0 {
		return 0, 0, false
	}

	prob := WinProbability(s.index.Rating(homeName), s.index.Rating(awayName))
	return prob, weight, true
}
