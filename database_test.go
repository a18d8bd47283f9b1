package main

import (
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRecordAndQueryMatch(t *testing.T) {
	db := openTestDB(t)

	res := MatchResult{
		Winner:   "Rue",
		Duration: 42.5,
		Players: []MatchPlayerResult{
			{Name: "Rue", District: "District 11", Ability: "Climbing", Kills: 2, Placement: 1},
			{Name: "Cato", District: "District 2", Ability: "Sword Fighting", Kills: 3, Placement: 2},
		},
	}
	if err := db.RecordMatch(res); err != nil {
		t.Fatalf("record match: %v", err)
	}

	rows, err := db.RecentMatches(10)
	if err != nil {
		t.Fatalf("recent matches: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 match, got %d", len(rows))
	}
	m := rows[0]
	if m.Winner != "Rue" || m.Duration != 42.5 || m.Participants != 2 {
		t.Errorf("unexpected match row %+v", m)
	}

	players, err := db.MatchPlayers(m.ID)
	if err != nil {
		t.Fatalf("match players: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("expected 2 player rows, got %d", len(players))
	}
	if players[0].Name != "Rue" || players[0].Placement != 1 {
		t.Errorf("rows should be ordered by placement, got %+v", players[0])
	}
	if players[1].Kills != 3 {
		t.Errorf("expected 3 kills for Cato, got %d", players[1].Kills)
	}
}

func TestRecentMatchesOrderAndLimit(t *testing.T) {
	db := openTestDB(t)

	for _, w := range []string{"First", "Second", "Third"} {
		if err := db.RecordMatch(MatchResult{Winner: w}); err != nil {
			t.Fatalf("record match: %v", err)
		}
	}

	rows, err := db.RecentMatches(2)
	if err != nil {
		t.Fatalf("recent matches: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Winner != "Third" || rows[1].Winner != "Second" {
		t.Errorf("expected newest first, got %q then %q", rows[0].Winner, rows[1].Winner)
	}
}

func TestGameOverWritesArchive(t *testing.T) {
	db := openTestDB(t)

	g := NewGame(db)
	g.Join("c1", JoinGameMsg{Name: "Alice"}, &mockBroadcaster{})
	g.Join("c2", JoinGameMsg{Name: "Bob"}, &mockBroadcaster{})
	g.Start("c1")
	g.EarlyMove("c1")

	// The archive write is asynchronous
	var rows []MatchRow
	waitFor(t, func() bool {
		var err error
		rows, err = db.RecentMatches(1)
		return err == nil && len(rows) == 1
	})
	if rows[0].Winner != "Bob" || rows[0].Participants != 2 {
		t.Errorf("unexpected archived match %+v", rows[0])
	}
}
