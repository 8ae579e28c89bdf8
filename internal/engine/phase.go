package engine

import "github.com/bmatcuk/doublestar/v4"

// PhaseTracker remembers the last observed backup phase.
type PhaseTracker struct {
	prev string
}

// Observe records phase and reports whether it differs from the previous one.
func (p *PhaseTracker) Observe(phase string) bool {
	if phase == p.prev {
		return false
	}

	p.prev = phase

	return true
}

// Previous returns the last observed phase.
func (p *PhaseTracker) Previous() string {
	return p.prev
}

// PhaseClassifier matches phase names against glob patterns.
type PhaseClassifier struct {
	patterns []string
}

// NewPhaseClassifier creates a PhaseClassifier after validating patterns.
func NewPhaseClassifier(patterns []string) (PhaseClassifier, error) {
	if err := validatePatterns(patterns); err != nil {
		return PhaseClassifier{}, err
	}

	return PhaseClassifier{patterns: append([]string(nil), patterns...)}, nil
}

// Match reports whether phase matches any pattern.
func (c PhaseClassifier) Match(phase string) bool {
	for _, pattern := range c.patterns {
		if doublestar.MatchUnvalidated(pattern, phase) {
			return true
		}
	}

	return false
}
