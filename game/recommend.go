package game

import (
	"context"
	"fmt"

	"voyager.com/bridgebot/bridge"
	"voyager.com/bridgebot/dds"
	"voyager.com/bridgebot/logging"
	"voyager.com/bridgebot/util"
)

var recommendLogger = logging.GetZeroLogger("game::recommend", nil)

// Recommendation is a legal card suggestion for the seat on turn.
type Recommendation struct {
	Seat        bridge.Seat `json:"seat"`
	Card        bridge.Card `json:"card"`
	Explanation string      `json:"explanation"`
	// Degraded marks a recommendation produced after the live oracle
	// failed or returned an invalid card.
	Degraded bool `json:"degraded"`
}

// RecommendRequest is an immutable snapshot of everything the engine
// needs, captured on the table loop at request time. Seq fingerprints
// the position so the table can reject the result if the deal has moved
// on by the time it is ready.
type RecommendRequest struct {
	Seq          string
	Seat         bridge.Seat
	Remaining    bridge.Hand
	CurrentTrick []Play
	Trump        *bridge.Suit

	// Position for the live solver; nil when any hand is unknown.
	Position *dds.Position

	// Static opening-lead table, when the analysis backend sent one.
	LeadTable *dds.LeadTable
}

// Recommender chooses an optimal legal card using a live double-dummy
// solver when possible and layered heuristics otherwise. It never
// mutates table state and never lets an oracle failure escape.
type Recommender struct {
	solver dds.Solver
}

func NewRecommender(solver dds.Solver) *Recommender {
	return &Recommender{solver: solver}
}

// Recommend computes a suggestion for the snapshot in req. The returned
// card is always present in req.Remaining.
func (r *Recommender) Recommend(ctx context.Context, req RecommendRequest) Recommendation {
	if rec, ok := r.trySolver(ctx, req); ok {
		util.Metrics.RecommendationServed()
		return rec
	}

	rec := r.heuristic(req)
	if r.solver != nil && req.Position != nil {
		// A live solver was configured but unusable for this position.
		rec.Degraded = true
		rec.Explanation = rec.Explanation + " (solver unavailable)"
	}
	util.Metrics.RecommendationServed()
	return rec
}

// trySolver runs the live oracle and validates its answer against the
// derived remaining hand. Any failure falls through to the heuristic.
func (r *Recommender) trySolver(ctx context.Context, req RecommendRequest) (Recommendation, bool) {
	if r.solver == nil || req.Position == nil {
		return Recommendation{}, false
	}

	result, err := r.solver.Solve(ctx, *req.Position)
	if err != nil {
		util.Metrics.SolverError()
		recommendLogger.Warn().
			Err(err).
			Str(logging.SeatKey, req.Seat.String()).
			Msg("Solver failed, falling back to heuristic")
		return Recommendation{}, false
	}

	best, found := dds.BestCard(result)
	if !found {
		return Recommendation{}, false
	}
	if !req.Remaining.Contains(best.Card) {
		// Correctness signal for the oracle integration; recover locally.
		util.Metrics.SolverError()
		recommendLogger.Warn().
			Str(logging.SeatKey, req.Seat.String()).
			Str(logging.CardKey, best.Card.String()).
			Msg(ValidationMismatchError{Seat: req.Seat, Card: best.Card}.Error())
		return Recommendation{}, false
	}

	return Recommendation{
		Seat:        req.Seat,
		Card:        best.Card,
		Explanation: fmt.Sprintf("double-dummy: best play makes %d tricks", best.Tricks),
	}, true
}

func (r *Recommender) heuristic(req RecommendRequest) Recommendation {
	if len(req.CurrentTrick) > 0 {
		return r.followTrick(req)
	}
	return r.openingLead(req)
}

// followTrick applies the in-trick heuristic: win cheaply-highest when
// following suit, otherwise ruff low, otherwise discard low from the
// longest suit.
func (r *Recommender) followTrick(req RecommendRequest) Recommendation {
	ledSuit := req.CurrentTrick[0].Card.Suit
	ofLed := req.Remaining.OfSuit(ledSuit)

	if len(ofLed) > 0 {
		winning := currentlyWinningCard(req.CurrentTrick, req.Trump)
		highest := highestCard(ofLed)
		if highest.Beats(winning, ledSuit, req.Trump) {
			return Recommendation{
				Seat:        req.Seat,
				Card:        highest,
				Explanation: fmt.Sprintf("follow suit high, %s wins the trick", highest),
			}
		}
		lowest := lowestCard(ofLed)
		return Recommendation{
			Seat:        req.Seat,
			Card:        lowest,
			Explanation: "follow suit low, cannot beat the current winner",
		}
	}

	if req.Trump != nil {
		trumps := req.Remaining.OfSuit(*req.Trump)
		if len(trumps) > 0 {
			lowest := lowestCard(trumps)
			return Recommendation{
				Seat:        req.Seat,
				Card:        lowest,
				Explanation: fmt.Sprintf("void in %s, ruff with lowest trump", ledSuit),
			}
		}
	}

	longest := req.Remaining.LongestSuit()
	lowest := lowestCard(req.Remaining.OfSuit(longest))
	return Recommendation{
		Seat:        req.Seat,
		Card:        lowest,
		Explanation: fmt.Sprintf("discard low from longest suit (%s)", longest),
	}
}

// openingLead prefers the static double-dummy table's best suit for this
// seat, leading its highest card; without a usable table entry it leads
// high from the longest suit.
func (r *Recommender) openingLead(req RecommendRequest) Recommendation {
	if suit, tricks, ok := req.LeadTable.BestLead(req.Seat); ok {
		cards := req.Remaining.OfSuit(suit)
		if len(cards) > 0 {
			return Recommendation{
				Seat:        req.Seat,
				Card:        highestCard(cards),
				Explanation: fmt.Sprintf("double-dummy table prefers %s lead (%d tricks)", suit, tricks),
			}
		}
	}

	longest := req.Remaining.LongestSuit()
	cards := req.Remaining.OfSuit(longest)
	return Recommendation{
		Seat:        req.Seat,
		Card:        highestCard(cards),
		Explanation: fmt.Sprintf("lead high from longest suit (%s)", longest),
	}
}

// currentlyWinningCard returns the card winning the open trick so far.
func currentlyWinningCard(trick []Play, trump *bridge.Suit) bridge.Card {
	ledSuit := trick[0].Card.Suit
	best := trick[0].Card
	for _, p := range trick[1:] {
		if p.Card.Beats(best, ledSuit, trump) {
			best = p.Card
		}
	}
	return best
}

func highestCard(cards []bridge.Card) bridge.Card {
	best := cards[0]
	for _, c := range cards[1:] {
		if c.Rank > best.Rank {
			best = c
		}
	}
	return best
}

func lowestCard(cards []bridge.Card) bridge.Card {
	best := cards[0]
	for _, c := range cards[1:] {
		if c.Rank < best.Rank {
			best = c
		}
	}
	return best
}
