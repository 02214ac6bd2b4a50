package service

import (
	"testing"

	"sahaaya.org/actionhub/internal/entity"
)

func sampleEntries() []entity.LedgerEntry {
	return []entity.LedgerEntry{
		{TeamID: "team-c", DisplayName: "Chennai Champs", Points: 200, DonationCount: 4},
		{TeamID: "team-a", DisplayName: "Alpha Givers", Points: 350, DonationCount: 2},
		{TeamID: "team-b", DisplayName: "Bangalore Helpers", Points: 200, DonationCount: 9},
		{TeamID: "team-d", DisplayName: "Delhi Donors", Points: 50, DonationCount: 1},
	}
}

func TestRankDefaultsPointsDescending(t *testing.T) {
	c := mustClassifier(t)

	ranked := Rank(sampleEntries(), c, RankOptions{})

	wantOrder := []string{"team-a", "team-b", "team-c", "team-d"}
	if len(ranked) != len(wantOrder) {
		t.Fatalf("len = %d, want %d", len(ranked), len(wantOrder))
	}
	for i, want := range wantOrder {
		if ranked[i].TeamID != want {
			t.Errorf("ranked[%d].TeamID = %q, want %q", i, ranked[i].TeamID, want)
		}
		if ranked[i].Rank != i+1 {
			t.Errorf("ranked[%d].Rank = %d, want %d", i, ranked[i].Rank, i+1)
		}
	}
}

func TestRankTieBreaksByTeamID(t *testing.T) {
	c := mustClassifier(t)

	// team-b and team-c both have 200 points; team-b must come first in
	// both directions so ties are stable across calls.
	desc := Rank(sampleEntries(), c, RankOptions{Direction: Descending})
	asc := Rank(sampleEntries(), c, RankOptions{Direction: Ascending})

	if desc[1].TeamID != "team-b" || desc[2].TeamID != "team-c" {
		t.Errorf("desc tie order = %q, %q; want team-b, team-c", desc[1].TeamID, desc[2].TeamID)
	}
	if asc[1].TeamID != "team-b" || asc[2].TeamID != "team-c" {
		t.Errorf("asc tie order = %q, %q; want team-b, team-c", asc[1].TeamID, asc[2].TeamID)
	}
}

func TestRankSortByDonations(t *testing.T) {
	c := mustClassifier(t)

	ranked := Rank(sampleEntries(), c, RankOptions{SortKey: SortByDonations, Direction: Descending})
	if ranked[0].TeamID != "team-b" {
		t.Errorf("top by donations = %q, want team-b", ranked[0].TeamID)
	}
}

func TestRankSortByName(t *testing.T) {
	c := mustClassifier(t)

	ranked := Rank(sampleEntries(), c, RankOptions{SortKey: SortByName, Direction: Ascending})
	if ranked[0].DisplayName != "Alpha Givers" {
		t.Errorf("first by name = %q, want Alpha Givers", ranked[0].DisplayName)
	}
}

func TestRankFilter(t *testing.T) {
	c := mustClassifier(t)

	ranked := Rank(sampleEntries(), c, RankOptions{Filter: "bangalore"})
	if len(ranked) != 1 || ranked[0].TeamID != "team-b" {
		t.Fatalf("filter result = %+v, want only team-b", ranked)
	}

	// Filter also matches team IDs.
	ranked = Rank(sampleEntries(), c, RankOptions{Filter: "TEAM-D"})
	if len(ranked) != 1 || ranked[0].TeamID != "team-d" {
		t.Fatalf("filter by ID result = %+v, want only team-d", ranked)
	}
}

func TestRankAttachesBadges(t *testing.T) {
	c := mustClassifier(t)

	ranked := Rank(sampleEntries(), c, RankOptions{})
	if ranked[0].Badge != "Gold" {
		t.Errorf("350 points badge = %q, want Gold", ranked[0].Badge)
	}
	if ranked[3].Badge != "Bronze" {
		t.Errorf("50 points badge = %q, want Bronze", ranked[3].Badge)
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	c := mustClassifier(t)

	entries := sampleEntries()
	original := make([]entity.LedgerEntry, len(entries))
	copy(original, entries)

	Rank(entries, c, RankOptions{SortKey: SortByName})

	for i := range entries {
		if entries[i].TeamID != original[i].TeamID {
			t.Fatalf("input mutated at index %d: %q != %q", i, entries[i].TeamID, original[i].TeamID)
		}
	}
}

func TestRankEmptyInput(t *testing.T) {
	c := mustClassifier(t)

	ranked := Rank(nil, c, RankOptions{})
	if len(ranked) != 0 {
		t.Errorf("Rank(nil) = %+v, want empty", ranked)
	}
}
