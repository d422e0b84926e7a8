package game

import (
	"voyager.com/bridgebot/bridge"
	"voyager.com/bridgebot/logging"
)

var auctionLogger = logging.GetZeroLogger("game::auction", nil)

// AuctionCall is one (seat, call) entry in the auction log.
type AuctionCall struct {
	Seat bridge.Seat `json:"seat"`
	Call bridge.Call `json:"call"`
}

// Auction consumes turn-ordered calls and detects completion: three
// consecutive passes following at least one bid. Call legality beyond
// that is the caller's responsibility.
type Auction struct {
	Dealer bridge.Seat
	Calls  []AuctionCall
	closed bool
}

func NewAuction(dealer bridge.Seat) *Auction {
	return &Auction{Dealer: dealer}
}

// Closed reports whether the auction has ended. An all-pass auction
// closes without ever producing a contract.
func (a *Auction) Closed() bool {
	return a.closed
}

// AddCall appends a call. When the call closes the auction and a bid was
// made, the derived contract is returned.
func (a *Auction) AddCall(seat bridge.Seat, call bridge.Call) (*bridge.Contract, bool) {
	if a.closed {
		return nil, false
	}
	a.Calls = append(a.Calls, AuctionCall{Seat: seat, Call: call})

	if !call.IsPass() || len(a.Calls) < 4 {
		return nil, false
	}
	for _, c := range a.Calls[len(a.Calls)-3:] {
		if !c.Call.IsPass() {
			return nil, false
		}
	}

	a.closed = true
	contract := a.finalizeContract()
	if contract == nil {
		auctionLogger.Info().Msg("Auction passed out, no contract")
		return nil, true
	}
	return contract, true
}

// finalizeContract derives the contract from a closed auction. The
// nominal level and strain come from the last genuine bid; the doubling
// state from any X/XX between that bid and the closing passes, redouble
// superseding double. The declarer is not necessarily the final bidder:
// it is the first member of the declaring partnership to have named the
// winning strain.
func (a *Auction) finalizeContract() *bridge.Contract {
	lastBidIdx := -1
	for i := len(a.Calls) - 1; i >= 0; i-- {
		if a.Calls[i].Call.Type == bridge.CallBid {
			lastBidIdx = i
			break
		}
	}
	if lastBidIdx < 0 {
		return nil
	}

	winning := a.Calls[lastBidIdx]
	doubled := bridge.Undoubled
	for _, c := range a.Calls[lastBidIdx+1:] {
		switch c.Call.Type {
		case bridge.CallDouble:
			if doubled == bridge.Undoubled {
				doubled = bridge.Doubled
			}
		case bridge.CallRedouble:
			doubled = bridge.Redoubled
		}
	}

	declarer := winning.Seat
	declaringSide := winning.Seat.Side()
	for _, c := range a.Calls {
		if c.Call.Type == bridge.CallBid &&
			c.Call.Strain == winning.Call.Strain &&
			c.Seat.Side() == declaringSide {
			declarer = c.Seat
			break
		}
	}

	return &bridge.Contract{
		Level:    winning.Call.Level,
		Strain:   winning.Call.Strain,
		Doubled:  doubled,
		Declarer: declarer,
	}
}
