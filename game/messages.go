package game

import (
	"voyager.com/bridgebot/bridge"
)

// Event type tokens carried on the wire from the upstream extension and
// on NATS subjects to the dashboard. They must be preserved exactly for
// compatibility with the collaborating systems.
const (
	EventNewDeal        string = "new_deal"
	EventBidMade        string = "bid_made"
	EventCardPlayed     string = "card_played"
	EventClaimAccepted  string = "claim_accepted"
	EventDDResult       string = "dd_result"
	EventContractSet    string = "contract_set"
	EventTrickWon       string = "trick_won"
	EventRecommendation string = "recommendation"
	EventRubberScore    string = "rubber_score"
	EventHandResult     string = "hand_result"
	EventNewRubber      string = "new_rubber"
)

// NewDealEvent starts a new deal. Hands are keyed by seat letter and may
// be in LIN or dot encoding.
type NewDealEvent struct {
	Board         int               `json:"board"`
	Dealer        string            `json:"dealer"`
	Vulnerability string            `json:"vul"`
	Hands         map[string]string `json:"hands"`
}

// BidMadeEvent appends one auction call.
type BidMadeEvent struct {
	Bidder string `json:"bidder"`
	Call   string `json:"call"`
}

// CardPlayedEvent records one played card. Player may be any non-seat
// token (commonly "?") when the upstream cannot identify who played.
type CardPlayedEvent struct {
	Player string `json:"player"`
	Card   string `json:"card"`
}

// ClaimAcceptedEvent resolves the remaining tricks: the claiming seat's
// partnership takes TricksClaimed and the deal is over.
type ClaimAcceptedEvent struct {
	Claimer       string `json:"claimer"`
	TricksClaimed int    `json:"tricks_claimed"`
}

// DDResultEvent delivers the static double-dummy lead table for the
// current deal: seat -> suit -> tricks achievable.
type DDResultEvent struct {
	Board  int                       `json:"board"`
	Tricks map[string]map[string]int `json:"tricks"`
}

// HandResultEvent reports a manually scored hand, bypassing play
// tracking. Used by the dashboard to enter results for deals the
// assistant did not follow card by card.
type HandResultEvent struct {
	Contract   string `json:"contract"`
	Declarer   string `json:"declarer"`
	TricksMade int    `json:"tricks_made"`
}

// TableEvent is the tagged union enqueued into the table actor. Exactly
// one of the pointer fields is set, matching Type (NewRubber carries no
// payload).
type TableEvent struct {
	Type          string              `json:"type"`
	NewDeal       *NewDealEvent       `json:"newDeal,omitempty"`
	BidMade       *BidMadeEvent       `json:"bidMade,omitempty"`
	CardPlayed    *CardPlayedEvent    `json:"cardPlayed,omitempty"`
	ClaimAccepted *ClaimAcceptedEvent `json:"claimAccepted,omitempty"`
	DDResult      *DDResultEvent      `json:"ddResult,omitempty"`
	HandResult    *HandResultEvent    `json:"handResult,omitempty"`

	// optional reply channel; the table sends exactly one result if set
	chResult chan EventResult
}

// EventResult tells the enqueuer what happened to its event. A rejected
// event never mutates state; Err carries the typed rejection reason.
type EventResult struct {
	Applied bool
	Err     error

	// Set when the event completed a trick.
	TrickComplete bool
	TrickWinner   *bridge.Seat

	// Seat the play was finally attributed to, after inference and
	// dummy re-attribution.
	ResolvedSeat *bridge.Seat
}

// WithReply attaches a reply channel so the caller can synchronously
// observe the event outcome. The channel must have capacity 1.
func (e *TableEvent) WithReply() chan EventResult {
	e.chResult = make(chan EventResult, 1)
	return e.chResult
}

func (e *TableEvent) reply(result EventResult) {
	if e.chResult != nil {
		e.chResult <- result
	}
}
