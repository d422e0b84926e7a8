package game

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyager.com/bridgebot/bridge"
	"voyager.com/bridgebot/scoring"
)

// recordingReceiver captures broadcasts so tests can assert on the
// update stream.
type recordingReceiver struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingReceiver) BroadcastTableUpdate(eventType string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, eventType)
}

func (r *recordingReceiver) eventTypes() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func newTestTable(recorder *recordingReceiver) *Table {
	table := &Table{
		tableID:     "test-table",
		config:      TableConfig{Solver: SolverConfig{TimeoutMillis: 50}},
		bottomSeat:  bridge.South,
		recommender: NewRecommender(nil),
		rubber:      scoring.NewRubberState(),
		seenDeals:   make(map[string]bool),
		done:        make(chan struct{}),
		// Large enough that a scripted full deal never blocks a
		// recommendation goroutine; these tests do not drain it.
		chSolve: make(chan solveResult, 64),
	}
	if recorder != nil {
		var receiver TableMessageReceiver = recorder
		table.messageReceiver = &receiver
	}
	return table
}

func newDealEvent() *NewDealEvent {
	return &NewDealEvent{
		Board:         7,
		Dealer:        "N",
		Vulnerability: "none",
		Hands:         testHands,
	}
}

func TestTableNewDealAndDuplicate(t *testing.T) {
	table := newTestTable(nil)

	result := table.handleNewDeal(newDealEvent())
	require.NoError(t, result.Err)
	assert.True(t, result.Applied)
	require.NotNil(t, table.deal)
	assert.Equal(t, 7, table.deal.Board)

	// The same deal arriving again (reconnect replay) is dropped
	// without an error.
	result = table.handleNewDeal(newDealEvent())
	assert.NoError(t, result.Err)
	assert.False(t, result.Applied)
}

func TestTableNewDealInvalid(t *testing.T) {
	table := newTestTable(nil)

	result := table.handleNewDeal(&NewDealEvent{Board: 1, Dealer: "Q", Hands: testHands})
	assert.Error(t, result.Err)
	assert.Nil(t, table.deal)

	result = table.handleNewDeal(nil)
	assert.Error(t, result.Err)
}

func TestTableBidderInference(t *testing.T) {
	table := newTestTable(nil)
	require.NoError(t, table.handleNewDeal(newDealEvent()).Err)

	// Unknown bidders resolve by rotation from the dealer.
	result := table.handleBidMade(&BidMadeEvent{Bidder: "?", Call: "1C"})
	require.NoError(t, result.Err)
	require.NotNil(t, result.ResolvedSeat)
	assert.Equal(t, bridge.North, *result.ResolvedSeat)

	result = table.handleBidMade(&BidMadeEvent{Bidder: "?", Call: "p"})
	require.NoError(t, result.Err)
	require.NotNil(t, result.ResolvedSeat)
	assert.Equal(t, bridge.East, *result.ResolvedSeat)

	// An explicit seat overrides the rotation.
	result = table.handleBidMade(&BidMadeEvent{Bidder: "W", Call: "1S"})
	require.NoError(t, result.Err)
	require.NotNil(t, result.ResolvedSeat)
	assert.Equal(t, bridge.West, *result.ResolvedSeat)
}

func TestTableBidWithoutDeal(t *testing.T) {
	table := newTestTable(nil)
	result := table.handleBidMade(&BidMadeEvent{Bidder: "N", Call: "1S"})
	assert.Error(t, result.Err)
}

func TestTableBiddingToContract(t *testing.T) {
	recorder := &recordingReceiver{}
	table := newTestTable(recorder)
	require.NoError(t, table.handleNewDeal(newDealEvent()).Err)

	for _, bid := range []struct{ bidder, call string }{
		{"N", "1S"}, {"E", "p"}, {"S", "p"}, {"W", "p"},
	} {
		result := table.handleBidMade(&BidMadeEvent{Bidder: bid.bidder, Call: bid.call})
		require.NoError(t, result.Err, "call %s by %s", bid.call, bid.bidder)
	}

	require.NotNil(t, table.deal.Contract)
	assert.Equal(t, "1S", table.deal.Contract.String())
	assert.Equal(t, bridge.North, table.deal.Contract.Declarer)
	assert.Contains(t, recorder.eventTypes(), EventContractSet)
}

func TestTablePassedOut(t *testing.T) {
	recorder := &recordingReceiver{}
	table := newTestTable(recorder)
	require.NoError(t, table.handleNewDeal(newDealEvent()).Err)

	for i := 0; i < 4; i++ {
		result := table.handleBidMade(&BidMadeEvent{Bidder: "?", Call: "p"})
		require.NoError(t, result.Err)
	}

	assert.Nil(t, table.deal.Contract)
	assert.True(t, table.deal.Auction.Closed())
	assert.Contains(t, recorder.eventTypes(), EventContractSet)
}

func TestTableClaimScoresRubberWithHonors(t *testing.T) {
	recorder := &recordingReceiver{}
	table := newTestTable(recorder)
	require.NoError(t, table.handleNewDeal(newDealEvent()).Err)

	for _, bid := range []struct{ bidder, call string }{
		{"N", "4S"}, {"E", "p"}, {"S", "p"}, {"W", "p"},
	} {
		require.NoError(t, table.handleBidMade(&BidMadeEvent{Bidder: bid.bidder, Call: bid.call}).Err)
	}

	result := table.handleClaimAccepted(&ClaimAcceptedEvent{Claimer: "N", TricksClaimed: 10})
	require.NoError(t, result.Err)
	assert.True(t, result.Applied)

	// 4S made exactly: 120 trick points win the game and fold into
	// the running total, plus 100 honors for AKQJ of trumps in one hand.
	status := table.rubber.GetStatus()
	assert.Equal(t, 1, status.NS.Games)
	assert.True(t, status.NS.Vulnerable)
	assert.Equal(t, 0, status.NS.Below)
	assert.Equal(t, 220, status.NS.Total)
	assert.Contains(t, recorder.eventTypes(), EventRubberScore)
}

func TestTableClaimRequiresKnownClaimer(t *testing.T) {
	table := newTestTable(nil)
	require.NoError(t, table.handleNewDeal(newDealEvent()).Err)

	result := table.handleClaimAccepted(&ClaimAcceptedEvent{Claimer: "?", TricksClaimed: 8})
	assert.Error(t, result.Err)
}

func TestTableHandResult(t *testing.T) {
	recorder := &recordingReceiver{}
	table := newTestTable(recorder)

	// Manual result entry works without any tracked deal.
	result := table.handleHandResult(&HandResultEvent{Contract: "3NT", Declarer: "S", TricksMade: 9})
	require.NoError(t, result.Err)
	assert.True(t, result.Applied)

	status := table.rubber.GetStatus()
	assert.Equal(t, 1, status.NS.Games)
	assert.True(t, status.NS.Vulnerable)
	assert.Contains(t, recorder.eventTypes(), EventRubberScore)

	result = table.handleHandResult(&HandResultEvent{Contract: "9NT", Declarer: "S", TricksMade: 9})
	assert.Error(t, result.Err)
}

func TestTableNewRubber(t *testing.T) {
	table := newTestTable(nil)
	_, err := table.rubber.RecordContractString("2S", bridge.North, 8)
	require.NoError(t, err)

	result := table.handleNewRubber()
	require.NoError(t, result.Err)

	status := table.rubber.GetStatus()
	assert.Equal(t, 2, status.RubberNumber)
	assert.Equal(t, 0, status.NS.Below)
	assert.Equal(t, 0, status.NS.Total)
}

func TestTableDDResult(t *testing.T) {
	table := newTestTable(nil)
	require.NoError(t, table.handleNewDeal(newDealEvent()).Err)

	tricks := map[string]map[string]int{
		"E": {"S": 4, "H": 7, "D": 5, "C": 2},
	}

	result := table.handleDDResult(&DDResultEvent{Board: 8, Tricks: tricks})
	assert.Error(t, result.Err, "lead table for a different board accepted")
	assert.Nil(t, table.leadTable)

	result = table.handleDDResult(&DDResultEvent{Board: 7, Tricks: tricks})
	require.NoError(t, result.Err)
	assert.True(t, result.Applied)
	assert.NotNil(t, table.leadTable)
}

func TestTableRejectsUnknownEventType(t *testing.T) {
	table := newTestTable(nil)
	event := TableEvent{Type: "bogus"}
	reply := event.WithReply()
	table.handleEvent(&event)
	result := <-reply
	assert.Error(t, result.Err)
	assert.False(t, result.Applied)
}

func TestTableSnapshotFields(t *testing.T) {
	table := newTestTable(nil)

	snapshot := table.buildSnapshot()
	assert.False(t, snapshot.HaveDeal)
	assert.Equal(t, "test-table", snapshot.TableID)

	require.NoError(t, table.handleNewDeal(newDealEvent()).Err)
	for _, bid := range []struct{ bidder, call string }{
		{"N", "1NT"}, {"E", "p"}, {"S", "p"}, {"W", "p"},
	} {
		require.NoError(t, table.handleBidMade(&BidMadeEvent{Bidder: bid.bidder, Call: bid.call}).Err)
	}

	snapshot = table.buildSnapshot()
	assert.True(t, snapshot.HaveDeal)
	assert.Equal(t, 7, snapshot.Board)
	assert.Equal(t, "North", snapshot.Dealer)
	assert.True(t, snapshot.BiddingClosed)
	assert.Equal(t, "1NT", snapshot.Contract)
	assert.Equal(t, "North", snapshot.Declarer)
	assert.Equal(t, "South", snapshot.Dummy)
	require.Contains(t, snapshot.Hands, "East")
	assert.Equal(t, 13, len(snapshot.Hands["East"].Cards))
	assert.Equal(t, 4, snapshot.Hands["East"].HCP)
	assert.Equal(t, "East", snapshot.ActivePlayer)
}

func TestManagerTableLoop(t *testing.T) {
	recorder := &recordingReceiver{}
	manager := NewTableManager(recorder, nil)
	table := manager.InitializeTable(TableConfig{
		BottomSeat: "S",
		Solver:     SolverConfig{TimeoutMillis: 50},
	})
	require.NotNil(t, table)
	assert.NotEmpty(t, table.TableID())
	assert.Same(t, table, manager.Table())

	event := TableEvent{Type: EventNewDeal, NewDeal: newDealEvent()}
	reply := event.WithReply()
	table.SubmitEvent(event)
	result := <-reply
	require.NoError(t, result.Err)
	assert.True(t, result.Applied)

	snapshot := table.GetSnapshot()
	assert.True(t, snapshot.HaveDeal)
	assert.Equal(t, 7, snapshot.Board)

	table.Stop()
	for i := 0; i < 200 && manager.Table() != nil; i++ {
		time.Sleep(time.Millisecond)
	}
	assert.Nil(t, manager.Table())
}

func TestSolveResultAfterStopIsAbandoned(t *testing.T) {
	table := &Table{
		done:    make(chan struct{}),
		chSolve: make(chan solveResult),
	}
	close(table.done)

	// Nobody drains chSolve; a stopped table must not hold the sender.
	finished := make(chan struct{})
	go func() {
		table.deliverSolveResult(solveResult{seq: "gone"})
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("solve delivery blocked after the table stopped")
	}
}
