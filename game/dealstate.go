package game

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"voyager.com/bridgebot/bridge"
	"voyager.com/bridgebot/util/hashing"
)

// Play is one (seat, card) entry in the deal's play log.
type Play struct {
	Seat bridge.Seat `json:"seat"`
	Card bridge.Card `json:"card"`
}

// CompletedTrick archives a finished trick and its winner.
type CompletedTrick struct {
	Plays  []Play      `json:"plays"`
	Winner bridge.Seat `json:"winner"`
}

// DealState is the aggregate state of one deal. The play log is
// authoritative: each seat's remaining cards are re-derived from the
// original deal minus the logged plays, so a hand can never desync from
// what was actually played.
type DealState struct {
	DealID        string
	Board         int
	Dealer        bridge.Seat
	Vulnerability string

	original map[bridge.Seat]bridge.Hand

	Auction  *Auction
	Contract *bridge.Contract

	playLog      []Play
	currentTrick []Play
	trickHistory []CompletedTrick
	tricksWon    [2]int

	// Seat expected to play next, once the opening lead is known.
	nextToPlay *bridge.Seat

	// Tricks conceded to each side by an accepted claim.
	claimed       [2]int
	claimResolved bool
}

// NewDealState parses the per-seat hand strings (LIN or dot encoding)
// and opens the auction.
func NewDealState(board int, dealer bridge.Seat, vulnerability string, hands map[string]string) (*DealState, error) {
	parsed := make(map[bridge.Seat]bridge.Hand, 4)
	for seatStr, handStr := range hands {
		seat, err := bridge.ParseSeat(seatStr)
		if err != nil {
			return nil, fmt.Errorf("deal has invalid seat [%s]", seatStr)
		}
		hand, err := bridge.ParseHand(handStr)
		if err != nil {
			return nil, err
		}
		parsed[seat] = hand
	}

	return &DealState{
		DealID:        uuid.New().String(),
		Board:         board,
		Dealer:        dealer,
		Vulnerability: vulnerability,
		original:      parsed,
		Auction:       NewAuction(dealer),
	}, nil
}

// Hash fingerprints the deal's content so a re-sent NewDeal for the same
// board is recognized and ignored.
func DealHash(board int, dealer string, hands map[string]string) string {
	keys := make([]string, 0, len(hands))
	for k := range hands {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	fmt.Fprintf(&b, "%d|%s", board, dealer)
	for _, k := range keys {
		fmt.Fprintf(&b, "|%s=%s", k, hands[k])
	}
	return hashing.GenerateStringHash(b.String())
}

// OriginalHand returns the 13 cards dealt to the seat.
func (d *DealState) OriginalHand(seat bridge.Seat) bridge.Hand {
	return d.original[seat]
}

// OriginalHands returns all four dealt hands, keyed by seat.
func (d *DealState) OriginalHands() map[bridge.Seat]bridge.Hand {
	return d.original
}

// HasAllHands reports whether all four hands are known (required for
// double-dummy solving and honors).
func (d *DealState) HasAllHands() bool {
	return len(d.original) == 4
}

// RemainingCards re-derives the seat's current hand from the play log.
// With includeCurrentTrick, cards this seat has played to the still-open
// trick count as held — the oracle needs them "in the air" as trick
// context — while legality checks pass false to see only what the seat
// can still play.
func (d *DealState) RemainingCards(seat bridge.Seat, includeCurrentTrick bool) bridge.Hand {
	played := make(map[bridge.Card]bool)
	for _, p := range d.playLog {
		if p.Seat == seat {
			played[p.Card] = true
		}
	}
	if includeCurrentTrick {
		for _, p := range d.currentTrick {
			if p.Seat == seat {
				delete(played, p.Card)
			}
		}
	}

	var remaining bridge.Hand
	for _, c := range d.original[seat] {
		if !played[c] {
			remaining = append(remaining, c)
		}
	}
	return remaining
}

// seatHoldsCard checks the derived remaining hand, current trick excluded.
func (d *DealState) seatHoldsCard(seat bridge.Seat, card bridge.Card) bool {
	return d.RemainingCards(seat, false).Contains(card)
}

// recordPlay validates and appends a play to the authoritative log.
func (d *DealState) recordPlay(seat bridge.Seat, card bridge.Card) error {
	playsBySeat := 0
	for _, p := range d.playLog {
		if p.Seat == seat {
			playsBySeat++
		}
	}
	if playsBySeat >= 13 {
		return HandExhaustedError{Seat: seat}
	}
	if len(d.original[seat]) > 0 && !d.seatHoldsCard(seat, card) {
		return CardNotInHandError{Seat: seat, Card: card}
	}
	d.playLog = append(d.playLog, Play{Seat: seat, Card: card})
	return nil
}

// PlayCount is the number of cards played this deal; together with the
// deal ID it fingerprints the position for stale-result rejection.
func (d *DealState) PlayCount() int {
	return len(d.playLog)
}

// PositionSeq fingerprints the deal position an oracle request was made
// for.
func (d *DealState) PositionSeq() string {
	return fmt.Sprintf("%s:%d", d.DealID, len(d.playLog))
}

// CurrentTrick returns the plays of the still-open trick in play order.
func (d *DealState) CurrentTrick() []Play {
	return d.currentTrick
}

// TrickHistory returns the completed tricks of this deal.
func (d *DealState) TrickHistory() []CompletedTrick {
	return d.trickHistory
}

// TricksWon returns the completed-trick count for the partnership,
// including tricks conceded by an accepted claim.
func (d *DealState) TricksWon(p bridge.Partnership) int {
	return d.tricksWon[p] + d.claimed[p]
}

// NextToPlay is the seat expected to act, if known.
func (d *DealState) NextToPlay() *bridge.Seat {
	return d.nextToPlay
}

// PlayComplete reports whether all 13 tricks are resolved, by play or by
// claim.
func (d *DealState) PlayComplete() bool {
	if d.claimResolved {
		return true
	}
	return len(d.trickHistory) == 13
}

// AcceptClaim credits the remaining tricks: the claiming side takes
// tricksClaimed and the balance goes to the opponents.
func (d *DealState) AcceptClaim(claimer bridge.Seat, tricksClaimed int) {
	remaining := 13 - len(d.trickHistory)
	if tricksClaimed > remaining {
		tricksClaimed = remaining
	}
	side := claimer.Side()
	d.claimed[side] += tricksClaimed
	d.claimed[side.Opponent()] += remaining - tricksClaimed
	d.claimResolved = true
	d.nextToPlay = nil
}
