package game

import (
	"voyager.com/bridgebot/bridge"
)

// PlayOutcome is the result of feeding one card to the trick engine.
type PlayOutcome struct {
	// Seat the play was attributed to after inference and dummy
	// re-attribution.
	Seat bridge.Seat

	TrickComplete bool
	Winner        *bridge.Seat
}

// PlayCard consumes one played card, resolving an unknown player, fixing
// declarer-for-dummy attribution, and completing the trick when it holds
// four cards.
func (d *DealState) PlayCard(ref bridge.PlayerRef, card bridge.Card) (PlayOutcome, error) {
	seat, err := d.resolveSeat(ref, card)
	if err != nil {
		return PlayOutcome{}, err
	}

	// The upstream reports dummy's cards as played by declarer (declarer
	// controls dummy). The derived hands are the source of truth: if the
	// declarer does not hold the card but dummy does, it was dummy's play.
	if d.Contract != nil && seat == d.Contract.Declarer && !d.seatHoldsCard(seat, card) {
		dummy := d.Contract.Dummy()
		if d.seatHoldsCard(dummy, card) {
			seat = dummy
		}
	}

	// Each seat contributes exactly one card per trick; a second card
	// from the same seat is an inconsistent upstream event.
	for _, p := range d.currentTrick {
		if p.Seat == seat {
			return PlayOutcome{}, DuplicatePlayError{Seat: seat, Card: card}
		}
	}

	if err := d.recordPlay(seat, card); err != nil {
		return PlayOutcome{}, err
	}
	d.currentTrick = append(d.currentTrick, Play{Seat: seat, Card: card})

	if len(d.currentTrick) < 4 {
		next := seat.Next()
		d.nextToPlay = &next
		return PlayOutcome{Seat: seat}, nil
	}

	winner := d.trickWinner()
	d.trickHistory = append(d.trickHistory, CompletedTrick{
		Plays:  d.currentTrick,
		Winner: winner,
	})
	d.tricksWon[winner.Side()]++
	d.currentTrick = nil
	w := winner
	d.nextToPlay = &w
	return PlayOutcome{Seat: seat, TrickComplete: true, Winner: &w}, nil
}

func (d *DealState) resolveSeat(ref bridge.PlayerRef, card bridge.Card) (bridge.Seat, error) {
	if ref.Known {
		return ref.Seat, nil
	}
	if len(d.currentTrick) > 0 {
		return d.currentTrick[len(d.currentTrick)-1].Seat.Next(), nil
	}
	if d.nextToPlay != nil {
		return *d.nextToPlay, nil
	}
	return 0, AmbiguousPlayerError{Card: card}
}

// trickWinner walks the full trick tracking the best play so far. A
// trump beats any non-trump; otherwise only cards of the relevant suit
// (trump if present, else the led suit) compete on rank. Before the
// contract is known the trick is ranked as at notrump; the engine never
// refuses a trick for lack of a contract.
func (d *DealState) trickWinner() bridge.Seat {
	var trump *bridge.Suit
	if d.Contract != nil {
		trump = d.Contract.Strain.TrumpSuit()
	}

	ledSuit := d.currentTrick[0].Card.Suit
	best := d.currentTrick[0]
	for _, p := range d.currentTrick[1:] {
		if p.Card.Beats(best.Card, ledSuit, trump) {
			best = p
		}
	}
	return best.Seat
}

// SetContract installs the finalized contract and the opening leader.
func (d *DealState) SetContract(contract *bridge.Contract) {
	d.Contract = contract
	if contract != nil {
		leader := contract.OpeningLeader()
		d.nextToPlay = &leader
	}
}
