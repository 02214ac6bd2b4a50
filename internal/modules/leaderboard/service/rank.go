package service

import (
	"sort"
	"strings"

	"sahaaya.org/actionhub/internal/entity"
)

type SortKey string

const (
	SortByPoints    SortKey = "points"
	SortByDonations SortKey = "donations"
	SortByName      SortKey = "name"
)

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// RankOptions controls the leaderboard projection. Zero value means
// points descending with no filter.
type RankOptions struct {
	SortKey   SortKey
	Direction Direction
	Filter    string // case-insensitive substring match on name or team ID
}

// RankedEntry is a ledger entry with its 1-based position and badge attached.
type RankedEntry struct {
	Rank          int         `json:"rank"`
	TeamID        string      `json:"team_id"`
	DisplayName   string      `json:"display_name"`
	Points        int         `json:"points"`
	DonationCount int         `json:"donation_count"`
	Badge         string      `json:"badge"`
	BadgeStatus   BadgeStatus `json:"badge_status"`
}

// Rank produces the ordered leaderboard view over a set of ledger entries.
// Ties always break by team ID ascending so equal-point teams keep a stable
// order across calls. The input slice is never mutated.
func Rank(entries []entity.LedgerEntry, classifier *BadgeClassifier, opts RankOptions) []RankedEntry {
	if opts.SortKey == "" {
		opts.SortKey = SortByPoints
	}
	if opts.Direction == "" {
		opts.Direction = Descending
	}

	filtered := make([]entity.LedgerEntry, 0, len(entries))
	if filter := strings.ToLower(strings.TrimSpace(opts.Filter)); filter != "" {
		for _, e := range entries {
			if strings.Contains(strings.ToLower(e.DisplayName), filter) ||
				strings.Contains(strings.ToLower(e.TeamID), filter) {
				filtered = append(filtered, e)
			}
		}
	} else {
		filtered = append(filtered, entries...)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]

		var less, equal bool
		switch opts.SortKey {
		case SortByDonations:
			less, equal = a.DonationCount < b.DonationCount, a.DonationCount == b.DonationCount
		case SortByName:
			an, bn := strings.ToLower(a.DisplayName), strings.ToLower(b.DisplayName)
			less, equal = an < bn, an == bn
		default:
			less, equal = a.Points < b.Points, a.Points == b.Points
		}

		if equal {
			return a.TeamID < b.TeamID
		}
		if opts.Direction == Ascending {
			return less
		}
		return !less
	})

	ranked := make([]RankedEntry, 0, len(filtered))
	for i, e := range filtered {
		ranked = append(ranked, RankedEntry{
			Rank:          i + 1,
			TeamID:        e.TeamID,
			DisplayName:   e.DisplayName,
			Points:        e.Points,
			DonationCount: e.DonationCount,
			Badge:         classifier.BadgeFor(e.Points),
			BadgeStatus:   classifier.StatusFor(e.Points),
		})
	}

	return ranked
}
