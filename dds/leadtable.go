package dds

import (
	"fmt"

	"voyager.com/bridgebot/bridge"
)

// LeadTable is the static double-dummy opening-lead table published by
// the analysis backend alongside the deal: for each seat and each suit it
// could lead, the tricks the leading side can achieve. It is computed for
// the untouched deal, so it is only accurate before any card is played;
// after that it degrades to a heuristic signal.
type LeadTable struct {
	tricks map[bridge.Seat]map[bridge.Suit]int
}

// NewLeadTable builds a table from the wire payload shape
// {"N": {"S": 10, "H": 7, ...}, ...}.
func NewLeadTable(raw map[string]map[string]int) (*LeadTable, error) {
	table := &LeadTable{tricks: make(map[bridge.Seat]map[bridge.Suit]int)}
	for seatStr, suits := range raw {
		seat, err := bridge.ParseSeat(seatStr)
		if err != nil {
			return nil, fmt.Errorf("lead table has invalid seat [%s]", seatStr)
		}
		table.tricks[seat] = make(map[bridge.Suit]int)
		for suitStr, tricks := range suits {
			card, err := bridge.NewCard(suitStr + "2")
			if err != nil {
				return nil, fmt.Errorf("lead table has invalid suit [%s]", suitStr)
			}
			table.tricks[seat][card.Suit] = tricks
		}
	}
	return table, nil
}

// TricksForLead returns the table entry for leading the suit from seat.
func (t *LeadTable) TricksForLead(seat bridge.Seat, suit bridge.Suit) int {
	if t == nil {
		return 0
	}
	return t.tricks[seat][suit]
}

// BestLead returns the suit this seat should lead to maximize its side's
// tricks, if the seat has an entry.
func (t *LeadTable) BestLead(seat bridge.Seat) (bridge.Suit, int, bool) {
	if t == nil {
		return 0, 0, false
	}
	suits, ok := t.tricks[seat]
	if !ok || len(suits) == 0 {
		return 0, 0, false
	}
	var best bridge.Suit
	bestTricks := -1
	for _, suit := range []bridge.Suit{bridge.Clubs, bridge.Diamonds, bridge.Hearts, bridge.Spades} {
		tricks, ok := suits[suit]
		if ok && tricks > bestTricks {
			best = suit
			bestTricks = tricks
		}
	}
	return best, bestTricks, true
}
