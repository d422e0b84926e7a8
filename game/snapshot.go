package game

import (
	"voyager.com/bridgebot/bridge"
	"voyager.com/bridgebot/scoring"
)

// SeatView is one seat's remaining cards for display.
type SeatView struct {
	Cards []string `json:"cards"`
	HCP   int      `json:"hcp"`
	Known bool     `json:"known"`
}

type CallView struct {
	Seat string `json:"seat"`
	Call string `json:"call"`
}

type PlayView struct {
	Seat string `json:"seat"`
	Card string `json:"card"`
}

type TrickView struct {
	Plays  []PlayView `json:"plays"`
	Winner string     `json:"winner"`
}

// TableSnapshot is the full table state exported to the dashboard. It is
// built on the table loop and safe to serialize from any goroutine.
type TableSnapshot struct {
	TableID         string              `json:"tableId"`
	HaveDeal        bool                `json:"haveDeal"`
	Board           int                 `json:"board"`
	Dealer          string              `json:"dealer,omitempty"`
	Vulnerability   string              `json:"vul,omitempty"`
	BottomSeat      string              `json:"bottomSeat"`
	Hands           map[string]SeatView `json:"hands,omitempty"`
	Bidding         []CallView          `json:"bidding"`
	BiddingClosed   bool                `json:"biddingClosed"`
	Contract        string              `json:"contract,omitempty"`
	Declarer        string              `json:"declarer,omitempty"`
	Dummy           string              `json:"dummy,omitempty"`
	CurrentTrick    []PlayView          `json:"currentTrick"`
	Tricks          []TrickView         `json:"tricks"`
	TricksWonNS     int                 `json:"tricksWonNS"`
	TricksWonEW     int                 `json:"tricksWonEW"`
	ActivePlayer    string              `json:"activePlayer,omitempty"`
	LastTrickWinner string              `json:"lastTrickWinner,omitempty"`
	PlayComplete    bool                `json:"playComplete"`
	Recommendation  *Recommendation     `json:"recommendation,omitempty"`
	HaveLeadTable   bool                `json:"haveLeadTable"`
	Rubber          scoring.Status      `json:"rubber"`
}

func playViews(plays []Play) []PlayView {
	views := make([]PlayView, 0, len(plays))
	for _, p := range plays {
		views = append(views, PlayView{Seat: p.Seat.Name(), Card: p.Card.String()})
	}
	return views
}

// buildSnapshot runs on the table loop; it copies everything it exports.
func (t *Table) buildSnapshot() TableSnapshot {
	snapshot := TableSnapshot{
		TableID:      t.tableID,
		BottomSeat:   t.bottomSeat.Name(),
		Bidding:      []CallView{},
		CurrentTrick: []PlayView{},
		Tricks:       []TrickView{},
		Rubber:       t.rubber.GetStatus(),
	}
	if t.lastRecommendation != nil {
		rec := *t.lastRecommendation
		snapshot.Recommendation = &rec
	}
	if t.leadTable != nil {
		snapshot.HaveLeadTable = true
	}

	deal := t.deal
	if deal == nil {
		return snapshot
	}

	snapshot.HaveDeal = true
	snapshot.Board = deal.Board
	snapshot.Dealer = deal.Dealer.Name()
	snapshot.Vulnerability = deal.Vulnerability
	snapshot.PlayComplete = deal.PlayComplete()
	snapshot.TricksWonNS = deal.TricksWon(bridge.NorthSouth)
	snapshot.TricksWonEW = deal.TricksWon(bridge.EastWest)

	snapshot.Hands = make(map[string]SeatView)
	for _, seat := range bridge.Seats() {
		view := SeatView{Cards: []string{}, Known: len(deal.OriginalHand(seat)) > 0}
		if view.Known {
			remaining := deal.RemainingCards(seat, false)
			bridge.SortCards(remaining)
			for _, c := range remaining {
				view.Cards = append(view.Cards, c.String())
			}
			view.HCP = deal.OriginalHand(seat).HCP()
		}
		snapshot.Hands[seat.Name()] = view
	}

	for _, call := range deal.Auction.Calls {
		snapshot.Bidding = append(snapshot.Bidding, CallView{
			Seat: call.Seat.Name(),
			Call: call.Call.String(),
		})
	}
	snapshot.BiddingClosed = deal.Auction.Closed()

	if deal.Contract != nil {
		snapshot.Contract = deal.Contract.String()
		snapshot.Declarer = deal.Contract.Declarer.Name()
		snapshot.Dummy = deal.Contract.Dummy().Name()
	}

	snapshot.CurrentTrick = playViews(deal.CurrentTrick())
	for _, trick := range deal.TrickHistory() {
		snapshot.Tricks = append(snapshot.Tricks, TrickView{
			Plays:  playViews(trick.Plays),
			Winner: trick.Winner.Name(),
		})
	}
	if n := len(deal.TrickHistory()); n > 0 {
		snapshot.LastTrickWinner = deal.TrickHistory()[n-1].Winner.Name()
	}
	if next := deal.NextToPlay(); next != nil {
		snapshot.ActivePlayer = next.Name()
	}
	return snapshot
}
