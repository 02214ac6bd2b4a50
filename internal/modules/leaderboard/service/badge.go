package service

import (
	"fmt"
	"math"
)

// BadgeTier is one rung of the badge ladder. A team holds the highest tier
// whose threshold is at or below its points.
type BadgeTier struct {
	Name      string `json:"name"`
	Threshold int    `json:"threshold"`
}

// DefaultBadgeTiers returns the campaign's standard ladder.
func DefaultBadgeTiers() []BadgeTier {
	return []BadgeTier{
		{Name: "Bronze", Threshold: 0},
		{Name: "Silver", Threshold: 101},
		{Name: "Gold", Threshold: 301},
		{Name: "Platinum", Threshold: 601},
		{Name: "Diamond", Threshold: 901},
	}
}

// BadgeStatus is the full badge picture for a team, including progress
// toward the next tier for the profile and leaderboard views.
type BadgeStatus struct {
	Badge         string  `json:"badge"`
	NextBadge     string  `json:"next_badge"` // "Max Level" at the top tier
	CurrentPoints int     `json:"current_points"`
	TargetPoints  int     `json:"target_points"`
	Progress      float64 `json:"progress"` // 0-100 toward the next tier
}

// BadgeClassifier maps a point total to a badge tier. Construction validates
// the ladder once; misconfiguration is fatal at startup, never a wrong badge
// at query time.
type BadgeClassifier struct {
	tiers []BadgeTier // ascending by threshold
}

func NewBadgeClassifier(tiers []BadgeTier) (*BadgeClassifier, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("badge config: at least one tier is required")
	}
	for i, tier := range tiers {
		if tier.Name == "" {
			return nil, fmt.Errorf("badge config: tier %d has no name", i)
		}
		if tier.Threshold < 0 {
			return nil, fmt.Errorf("badge config: tier %q has negative threshold %d", tier.Name, tier.Threshold)
		}
		if i > 0 && tier.Threshold <= tiers[i-1].Threshold {
			return nil, fmt.Errorf("badge config: thresholds must be strictly increasing, %q (%d) follows %q (%d)",
				tier.Name, tier.Threshold, tiers[i-1].Name, tiers[i-1].Threshold)
		}
	}
	if tiers[0].Threshold != 0 {
		return nil, fmt.Errorf("badge config: lowest tier %q must start at 0, got %d", tiers[0].Name, tiers[0].Threshold)
	}

	out := make([]BadgeTier, len(tiers))
	copy(out, tiers)
	return &BadgeClassifier{tiers: out}, nil
}

// BadgeFor returns the highest tier whose threshold is <= points.
// Points below every threshold still earn the lowest tier, never "no badge".
func (c *BadgeClassifier) BadgeFor(points int) string {
	for i := len(c.tiers) - 1; i > 0; i-- {
		if points >= c.tiers[i].Threshold {
			return c.tiers[i].Name
		}
	}
	return c.tiers[0].Name
}

// StatusFor computes the badge plus next-tier progress.
func (c *BadgeClassifier) StatusFor(points int) BadgeStatus {
	status := BadgeStatus{CurrentPoints: points}

	current := 0
	for i := len(c.tiers) - 1; i > 0; i-- {
		if points >= c.tiers[i].Threshold {
			current = i
			break
		}
	}

	status.Badge = c.tiers[current].Name
	if current == len(c.tiers)-1 {
		status.NextBadge = "Max Level"
		status.TargetPoints = c.tiers[current].Threshold
		status.Progress = 100
		return status
	}

	next := c.tiers[current+1]
	status.NextBadge = next.Name
	status.TargetPoints = next.Threshold
	if points > 0 {
		status.Progress = float64(points) / float64(next.Threshold) * 100
	}
	status.Progress = math.Round(status.Progress*100) / 100
	return status
}

// Tiers returns a copy of the configured ladder.
func (c *BadgeClassifier) Tiers() []BadgeTier {
	out := make([]BadgeTier, len(c.tiers))
	copy(out, c.tiers)
	return out
}
