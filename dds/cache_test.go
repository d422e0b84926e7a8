package dds

import (
	"context"
	"errors"
	"testing"

	"voyager.com/bridgebot/bridge"
)

type countingSolver struct {
	calls  int
	result []CardTricks
	err    error
}

func (s *countingSolver) Solve(ctx context.Context, position Position) ([]CardTricks, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func cachePosition(t *testing.T, leader bridge.Seat) Position {
	t.Helper()
	hand, err := bridge.ParseLINHand("SAKQJHAKQJDAKC432")
	if err != nil {
		t.Fatalf("ParseLINHand returned error [%s]", err)
	}
	return Position{
		Hands:  map[bridge.Seat]bridge.Hand{bridge.North: hand},
		Trump:  bridge.NoTrump,
		Leader: leader,
	}
}

func TestCachingSolverMemoizes(t *testing.T) {
	inner := &countingSolver{result: []CardTricks{{Card: bridge.MustCard("SA"), Tricks: 13}}}
	solver, err := NewCachingSolver(inner, 8)
	if err != nil {
		t.Fatalf("NewCachingSolver returned error [%s]", err)
	}

	position := cachePosition(t, bridge.East)
	for i := 0; i < 3; i++ {
		result, err := solver.Solve(context.Background(), position)
		if err != nil {
			t.Fatalf("Solve returned error [%s]", err)
		}
		if len(result) != 1 || result[0].Card != bridge.MustCard("SA") {
			t.Fatalf("Solve returned unexpected result %v", result)
		}
	}
	if inner.calls != 1 {
		t.Errorf("inner solver called %d times for identical positions, expected 1", inner.calls)
	}

	// A different leader is a different position.
	if _, err := solver.Solve(context.Background(), cachePosition(t, bridge.West)); err != nil {
		t.Fatalf("Solve returned error [%s]", err)
	}
	if inner.calls != 2 {
		t.Errorf("inner solver called %d times after second position, expected 2", inner.calls)
	}
}

func TestCachingSolverDoesNotCacheErrors(t *testing.T) {
	inner := &countingSolver{err: errors.New("solver down")}
	solver, err := NewCachingSolver(inner, 8)
	if err != nil {
		t.Fatalf("NewCachingSolver returned error [%s]", err)
	}

	position := cachePosition(t, bridge.East)
	if _, err := solver.Solve(context.Background(), position); err == nil {
		t.Fatal("expected solve error")
	}

	// The solver recovers; the earlier failure must not be served.
	inner.err = nil
	inner.result = []CardTricks{{Card: bridge.MustCard("SK"), Tricks: 7}}
	result, err := solver.Solve(context.Background(), position)
	if err != nil {
		t.Fatalf("Solve returned error [%s]", err)
	}
	if len(result) != 1 || result[0].Tricks != 7 {
		t.Fatalf("Solve returned unexpected result %v", result)
	}
	if inner.calls != 2 {
		t.Errorf("inner solver called %d times, expected 2", inner.calls)
	}
}

func TestBestCard(t *testing.T) {
	result := []CardTricks{
		{Card: bridge.MustCard("H2"), Tricks: 4},
		{Card: bridge.MustCard("HA"), Tricks: 9},
		{Card: bridge.MustCard("HK"), Tricks: 9},
	}
	best, found := BestCard(result)
	if !found {
		t.Fatal("BestCard found nothing")
	}
	if best.Card != bridge.MustCard("HA") || best.Tricks != 9 {
		t.Errorf("BestCard = %v, expected first card with 9 tricks", best)
	}

	if _, found := BestCard(nil); found {
		t.Error("BestCard reported a result for an empty solve")
	}
}
