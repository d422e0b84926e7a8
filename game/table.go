package game

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"voyager.com/bridgebot/bridge"
	"voyager.com/bridgebot/dds"
	"voyager.com/bridgebot/logging"
	"voyager.com/bridgebot/scoring"
	"voyager.com/bridgebot/util"
)

var tableLogger = logging.GetZeroLogger("game::table", nil)

// TableMessageReceiver pushes table updates out to the dashboard. The
// table actor calls it inline, so implementations must not block.
type TableMessageReceiver interface {
	BroadcastTableUpdate(eventType string, payload interface{})
}

type solveResult struct {
	seq string
	rec Recommendation
}

// Table is the actor owning one bridge table. All state behind it is
// touched only from runTable(), so none of it needs locking; the rest of
// the process talks to the table through channels.
type Table struct {
	tableID         string
	config          TableConfig
	bottomSeat      bridge.Seat
	manager         *Manager
	messageReceiver *TableMessageReceiver
	recommender     *Recommender

	rubber    *scoring.RubberState
	deal      *DealState
	leadTable *dds.LeadTable

	lastRecommendation *Recommendation

	// Deal hashes already accepted; duplicate new_deal events from a
	// reconnecting upstream are dropped.
	seenDeals map[string]bool

	end chan bool
	// done is closed when the loop exits so in-flight solve goroutines
	// never block on a channel nobody drains.
	done       chan struct{}
	chEvent    chan TableEvent
	chSolve    chan solveResult
	chSnapshot chan chan TableSnapshot
}

// TableID is the session identifier stamped on logs and broadcasts.
func (t *Table) TableID() string {
	return t.tableID
}

// SubmitEvent enqueues one event for the table loop. Attach a reply
// channel with WithReply to observe the outcome.
func (t *Table) SubmitEvent(event TableEvent) {
	t.chEvent <- event
}

// GetSnapshot asks the table loop for a consistent state snapshot.
func (t *Table) GetSnapshot() TableSnapshot {
	reply := make(chan TableSnapshot, 1)
	t.chSnapshot <- reply
	return <-reply
}

func (t *Table) Stop() {
	t.end <- true
}

func (t *Table) runTable() {
	ended := false
	for !ended {
		select {
		case <-t.end:
			ended = true
		case event := <-t.chEvent:
			t.handleEvent(&event)
		case result := <-t.chSolve:
			t.handleSolveResult(result)
		case reply := <-t.chSnapshot:
			reply <- t.buildSnapshot()
		}
	}
	close(t.done)
	t.manager.tableEnded(t)
}

func (t *Table) handleEvent(event *TableEvent) {
	util.Metrics.EventReceived()

	var result EventResult
	switch event.Type {
	case EventNewDeal:
		result = t.handleNewDeal(event.NewDeal)
	case EventBidMade:
		result = t.handleBidMade(event.BidMade)
	case EventCardPlayed:
		result = t.handleCardPlayed(event.CardPlayed)
	case EventClaimAccepted:
		result = t.handleClaimAccepted(event.ClaimAccepted)
	case EventDDResult:
		result = t.handleDDResult(event.DDResult)
	case EventHandResult:
		result = t.handleHandResult(event.HandResult)
	case EventNewRubber:
		result = t.handleNewRubber()
	default:
		result = EventResult{Err: InvalidMessageError{Msg: "unknown event type: " + event.Type}}
	}

	if result.Err != nil {
		util.Metrics.EventRejected()
		tableLogger.Warn().
			Str(logging.SessionIDKey, t.tableID).
			Str(logging.MsgTypeKey, event.Type).
			Msgf("Event rejected: %v", result.Err)
	}
	event.reply(result)
}

func (t *Table) handleNewDeal(e *NewDealEvent) EventResult {
	if e == nil {
		return EventResult{Err: InvalidMessageError{Msg: "new_deal event missing payload"}}
	}
	hash := DealHash(e.Board, e.Dealer, e.Hands)
	if t.seenDeals[hash] {
		tableLogger.Info().
			Str(logging.SessionIDKey, t.tableID).
			Int(logging.BoardNumKey, e.Board).
			Msg("Duplicate deal dropped")
		return EventResult{}
	}

	dealer, err := bridge.ParseSeat(e.Dealer)
	if err != nil {
		return EventResult{Err: errors.Wrap(err, "new_deal dealer")}
	}
	deal, err := NewDealState(e.Board, dealer, e.Vulnerability, e.Hands)
	if err != nil {
		return EventResult{Err: errors.Wrap(err, "new_deal hands")}
	}

	// A completed rubber rolls over when the next deal starts.
	if t.rubber.RubberComplete() {
		t.rubber.StartNewRubber()
		t.broadcast(EventRubberScore, t.rubber.GetStatus())
	}

	t.seenDeals[hash] = true
	t.deal = deal
	t.leadTable = nil
	t.lastRecommendation = nil
	util.Metrics.SetTricksCompleted(0)

	tableLogger.Info().
		Str(logging.SessionIDKey, t.tableID).
		Int(logging.BoardNumKey, deal.Board).
		Str(logging.SeatKey, deal.Dealer.Name()).
		Msgf("New deal: vul %s", deal.Vulnerability)
	t.broadcast(EventNewDeal, t.buildSnapshot())
	return EventResult{Applied: true}
}

func (t *Table) handleBidMade(e *BidMadeEvent) EventResult {
	if e == nil {
		return EventResult{Err: InvalidMessageError{Msg: "bid_made event missing payload"}}
	}
	if t.deal == nil {
		return EventResult{Err: NoDealError{}}
	}
	auction := t.deal.Auction
	if auction.Closed() {
		return EventResult{Err: InvalidMessageError{Msg: "auction already closed"}}
	}

	// The upstream may not know who bid; the auction is strictly turn
	// ordered, so the seat follows from the dealer and the call count.
	seat := auction.Dealer
	for i := 0; i < len(auction.Calls); i++ {
		seat = seat.Next()
	}
	if ref := bridge.ParsePlayerRef(e.Bidder); ref.Known {
		seat = ref.Seat
	}

	call, err := bridge.ParseCall(e.Call)
	if err != nil {
		return EventResult{Err: errors.Wrap(err, "bid_made call")}
	}

	contract, closed := auction.AddCall(seat, call)
	seatPtr := seat
	result := EventResult{Applied: true, ResolvedSeat: &seatPtr}
	if !closed {
		return result
	}

	if contract == nil {
		tableLogger.Info().
			Str(logging.SessionIDKey, t.tableID).
			Int(logging.BoardNumKey, t.deal.Board).
			Msg("Deal passed out")
		t.broadcast(EventContractSet, map[string]string{"contract": ""})
		return result
	}

	t.deal.SetContract(contract)
	tableLogger.Info().
		Str(logging.SessionIDKey, t.tableID).
		Int(logging.BoardNumKey, t.deal.Board).
		Str(logging.ContractKey, contract.String()).
		Str(logging.SeatKey, contract.Declarer.Name()).
		Msg("Contract set")
	t.broadcast(EventContractSet, map[string]string{
		"contract": contract.String(),
		"declarer": contract.Declarer.Name(),
	})
	t.requestRecommendation()
	return result
}

func (t *Table) handleCardPlayed(e *CardPlayedEvent) EventResult {
	if e == nil {
		return EventResult{Err: InvalidMessageError{Msg: "card_played event missing payload"}}
	}
	if t.deal == nil {
		return EventResult{Err: NoDealError{}}
	}

	card, err := bridge.NewCard(e.Card)
	if err != nil {
		return EventResult{Err: errors.Wrap(err, "card_played card")}
	}
	outcome, err := t.deal.PlayCard(bridge.ParsePlayerRef(e.Player), card)
	if err != nil {
		return EventResult{Err: err}
	}

	seat := outcome.Seat
	result := EventResult{
		Applied:       true,
		ResolvedSeat:  &seat,
		TrickComplete: outcome.TrickComplete,
		TrickWinner:   outcome.Winner,
	}

	tableLogger.Debug().
		Str(logging.SessionIDKey, t.tableID).
		Str(logging.SeatKey, seat.Name()).
		Str(logging.CardKey, card.String()).
		Msg("Card played")

	if outcome.TrickComplete {
		util.Metrics.SetTricksCompleted(len(t.deal.TrickHistory()))
		t.broadcast(EventTrickWon, map[string]interface{}{
			"winner":      outcome.Winner.Name(),
			"tricksNS":    t.deal.TricksWon(bridge.NorthSouth),
			"tricksEW":    t.deal.TricksWon(bridge.EastWest),
			"trickNumber": len(t.deal.TrickHistory()),
		})
	}

	if t.deal.PlayComplete() {
		t.scoreDeal()
	} else {
		t.requestRecommendation()
	}
	return result
}

func (t *Table) handleClaimAccepted(e *ClaimAcceptedEvent) EventResult {
	if e == nil {
		return EventResult{Err: InvalidMessageError{Msg: "claim_accepted event missing payload"}}
	}
	if t.deal == nil {
		return EventResult{Err: NoDealError{}}
	}
	ref := bridge.ParsePlayerRef(e.Claimer)
	if !ref.Known {
		return EventResult{Err: InvalidMessageError{Msg: "claim_accepted claimer unknown"}}
	}

	t.deal.AcceptClaim(ref.Seat, e.TricksClaimed)
	tableLogger.Info().
		Str(logging.SessionIDKey, t.tableID).
		Str(logging.SeatKey, ref.Seat.Name()).
		Msgf("Claim accepted for %d tricks", e.TricksClaimed)
	t.scoreDeal()
	return EventResult{Applied: true, ResolvedSeat: &ref.Seat}
}

func (t *Table) handleDDResult(e *DDResultEvent) EventResult {
	if e == nil {
		return EventResult{Err: InvalidMessageError{Msg: "dd_result event missing payload"}}
	}
	if t.deal != nil && e.Board != 0 && e.Board != t.deal.Board {
		return EventResult{Err: InvalidMessageError{Msg: "dd_result for a different board"}}
	}
	table, err := dds.NewLeadTable(e.Tricks)
	if err != nil {
		return EventResult{Err: errors.Wrap(err, "dd_result table")}
	}
	t.leadTable = table
	tableLogger.Info().
		Str(logging.SessionIDKey, t.tableID).
		Int(logging.BoardNumKey, e.Board).
		Msg("Static lead table installed")
	return EventResult{Applied: true}
}

func (t *Table) handleHandResult(e *HandResultEvent) EventResult {
	if e == nil {
		return EventResult{Err: InvalidMessageError{Msg: "hand_result event missing payload"}}
	}
	declarer, err := bridge.ParseSeat(e.Declarer)
	if err != nil {
		return EventResult{Err: errors.Wrap(err, "hand_result declarer")}
	}
	outcome, err := t.rubber.RecordContractString(e.Contract, declarer, e.TricksMade)
	if err != nil {
		return EventResult{Err: err}
	}
	util.Metrics.HandScored()
	t.logHandOutcome(e.Contract, outcome)
	t.broadcast(EventRubberScore, t.rubber.GetStatus())
	return EventResult{Applied: true}
}

func (t *Table) handleNewRubber() EventResult {
	t.rubber.StartNewRubber()
	tableLogger.Info().
		Str(logging.SessionIDKey, t.tableID).
		Int(logging.RubberNumKey, t.rubber.GetStatus().RubberNumber).
		Msg("New rubber started")
	t.broadcast(EventRubberScore, t.rubber.GetStatus())
	return EventResult{Applied: true}
}

// scoreDeal scores the finished deal into the rubber, including any
// honors bonus when all four hands are known.
func (t *Table) scoreDeal() {
	contract := t.deal.Contract
	if contract == nil {
		return
	}

	tricksMade := t.deal.TricksWon(contract.Declarer.Side())
	outcome := t.rubber.RecordHandResult(*contract, tricksMade)
	util.Metrics.HandScored()

	if t.deal.HasAllHands() {
		if honors, ok := scoring.ScoreHonors(t.deal.OriginalHands(), contract.Strain); ok {
			t.rubber.RecordHonors(honors)
			tableLogger.Info().
				Str(logging.SessionIDKey, t.tableID).
				Msgf("Honors: %s to %s", honors.Description, honors.Partnership)
		}
	}

	t.logHandOutcome(contract.String(), outcome)
	t.broadcast(EventRubberScore, t.rubber.GetStatus())
}

func (t *Table) logHandOutcome(contract string, outcome scoring.HandOutcome) {
	event := tableLogger.Info().
		Str(logging.SessionIDKey, t.tableID).
		Str(logging.ContractKey, contract).
		Bool("gameWon", outcome.GameWon).
		Bool("rubberComplete", outcome.RubberComplete)
	if outcome.RubberComplete {
		event = event.Int("rubberBonus", outcome.RubberBonus)
	}
	event.Msg("Hand scored")
}

// requestRecommendation snapshots the position for the seat on turn and
// computes a suggestion off the table loop. The result is dropped if the
// deal has moved on by the time it arrives.
func (t *Table) requestRecommendation() {
	req, err := t.buildRecommendRequest()
	if err != nil {
		tableLogger.Debug().
			Str(logging.SessionIDKey, t.tableID).
			Msgf("No recommendation: %v", err)
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(),
			2*time.Duration(t.config.Solver.TimeoutMillis)*time.Millisecond)
		defer cancel()
		rec := t.recommender.Recommend(ctx, req)
		t.deliverSolveResult(solveResult{seq: req.Seq, rec: rec})
	}()
}

func (t *Table) buildRecommendRequest() (RecommendRequest, error) {
	deal := t.deal
	if deal == nil {
		return RecommendRequest{}, NoDealError{}
	}
	if deal.Contract == nil || deal.NextToPlay() == nil {
		return RecommendRequest{}, NoActivePlayerError{}
	}

	seat := *deal.NextToPlay()
	remaining := deal.RemainingCards(seat, false)
	if len(remaining) == 0 {
		return RecommendRequest{}, HandExhaustedError{Seat: seat}
	}

	req := RecommendRequest{
		Seq:          deal.PositionSeq(),
		Seat:         seat,
		Remaining:    remaining,
		CurrentTrick: append([]Play(nil), deal.CurrentTrick()...),
		Trump:        deal.Contract.Strain.TrumpSuit(),
		LeadTable:    t.leadTable,
	}

	if deal.HasAllHands() {
		hands := make(map[bridge.Seat]bridge.Hand)
		for _, s := range bridge.Seats() {
			hands[s] = deal.RemainingCards(s, false)
		}
		trick := deal.CurrentTrick()
		leader := seat
		if len(trick) > 0 {
			leader = trick[0].Seat
		}
		cards := make([]bridge.Card, 0, len(trick))
		for _, p := range trick {
			cards = append(cards, p.Card)
		}
		req.Position = &dds.Position{
			Hands:        hands,
			Trump:        deal.Contract.Strain,
			Leader:       leader,
			CurrentTrick: cards,
		}
	}
	return req, nil
}

// deliverSolveResult hands a finished recommendation to the loop,
// abandoning it if the table has already stopped.
func (t *Table) deliverSolveResult(result solveResult) {
	select {
	case t.chSolve <- result:
	case <-t.done:
	}
}

func (t *Table) handleSolveResult(result solveResult) {
	if t.deal == nil || result.seq != t.deal.PositionSeq() {
		util.Metrics.StaleSolveDropped()
		tableLogger.Debug().
			Str(logging.SessionIDKey, t.tableID).
			Msgf("Stale recommendation dropped (seq %s)", result.seq)
		return
	}
	rec := result.rec
	t.lastRecommendation = &rec
	tableLogger.Info().
		Str(logging.SessionIDKey, t.tableID).
		Str(logging.SeatKey, rec.Seat.Name()).
		Str(logging.CardKey, rec.Card.String()).
		Bool("degraded", rec.Degraded).
		Msg(rec.Explanation)
	t.broadcast(EventRecommendation, rec)
}

func (t *Table) broadcast(eventType string, payload interface{}) {
	if t.messageReceiver != nil {
		(*t.messageReceiver).BroadcastTableUpdate(eventType, payload)
	}
}
