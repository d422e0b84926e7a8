package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voyager.com/bridgebot/bridge"
)

func recordHand(t *testing.T, rs *RubberState, contract string, declarer bridge.Seat, tricksMade int) HandOutcome {
	t.Helper()
	outcome, err := rs.RecordContractString(contract, declarer, tricksMade)
	require.NoError(t, err)
	return outcome
}

func TestPartScoresAccumulateToGame(t *testing.T) {
	rs := NewRubberState()

	outcome := recordHand(t, rs, "2C", bridge.South, 8)
	assert.False(t, outcome.GameWon)
	assert.Equal(t, 40, rs.GetStatus().NS.Below)
	assert.False(t, rs.Vulnerable(bridge.NorthSouth))

	// EW also collect a part score.
	recordHand(t, rs, "2D", bridge.East, 8)
	assert.Equal(t, 40, rs.GetStatus().EW.Below)

	// 60 more brings NS to 100: game, and both part scores are wiped.
	outcome = recordHand(t, rs, "2S", bridge.South, 8)
	assert.True(t, outcome.GameWon)
	assert.False(t, outcome.RubberComplete)

	status := rs.GetStatus()
	assert.Equal(t, 0, status.NS.Below)
	assert.Equal(t, 0, status.EW.Below)
	assert.Equal(t, 1, status.NS.Games)
	assert.True(t, status.NS.Vulnerable)
	assert.False(t, status.EW.Vulnerable)
}

func TestVulnerabilityAffectsScoring(t *testing.T) {
	rs := NewRubberState()
	recordHand(t, rs, "3NT", bridge.South, 9)
	require.True(t, rs.Vulnerable(bridge.NorthSouth))

	// NS are now vulnerable: down two costs 200.
	recordHand(t, rs, "3NT", bridge.South, 7)
	assert.Equal(t, 200, rs.GetStatus().EW.Above)
}

func TestRubberBonusTwoNil(t *testing.T) {
	rs := NewRubberState()
	recordHand(t, rs, "3NT", bridge.South, 9)
	outcome := recordHand(t, rs, "4S", bridge.North, 10)

	require.True(t, outcome.RubberComplete)
	assert.Equal(t, 500, outcome.RubberBonus)
	assert.True(t, rs.RubberComplete())

	status := rs.GetStatus()
	assert.Equal(t, 1, status.NS.Rubbers)
	// 100 + 120 below, 500 bonus above.
	assert.Equal(t, 720, status.NS.Total)
	require.Len(t, status.RubberHistory, 1)
	assert.Equal(t, bridge.NorthSouth, status.RubberHistory[0].Winner)
	assert.Equal(t, 500, status.RubberHistory[0].Bonus)
}

func TestRubberBonusTwoOne(t *testing.T) {
	rs := NewRubberState()
	recordHand(t, rs, "3NT", bridge.South, 9)
	recordHand(t, rs, "4H", bridge.East, 10)
	outcome := recordHand(t, rs, "5D", bridge.North, 11)

	require.True(t, outcome.RubberComplete)
	assert.Equal(t, 700, outcome.RubberBonus)
}

func TestPartScoreConsolation(t *testing.T) {
	rs := NewRubberState()
	recordHand(t, rs, "3NT", bridge.South, 9)
	// EW hold a standing part score when the rubber ends.
	recordHand(t, rs, "2C", bridge.East, 8)
	ewAboveBefore := rs.GetStatus().EW.Above
	outcome := recordHand(t, rs, "4S", bridge.North, 10)

	require.True(t, outcome.RubberComplete)
	status := rs.GetStatus()
	// The part score moves above the line when the final game draws the
	// line, and the 50 consolation is added on top.
	assert.Equal(t, 0, status.EW.Below)
	assert.Equal(t, ewAboveBefore+40+50, status.EW.Above)
}

func TestStartNewRubber(t *testing.T) {
	rs := NewRubberState()
	recordHand(t, rs, "3NT", bridge.South, 9)
	recordHand(t, rs, "4S", bridge.North, 10)
	require.True(t, rs.RubberComplete())
	handCount := rs.GetStatus().HandCount

	rs.StartNewRubber()
	status := rs.GetStatus()
	assert.Equal(t, 2, status.RubberNumber)
	assert.False(t, rs.RubberComplete())
	assert.Equal(t, 0, status.NS.Below)
	assert.Equal(t, 0, status.NS.Above)
	assert.False(t, status.NS.Vulnerable)
	// Lifetime rubber wins and history survive.
	assert.Equal(t, 1, status.NS.Rubbers)
	assert.Equal(t, handCount, status.HandCount)
	assert.Len(t, status.RubberHistory, 1)
}

func TestRecordHonors(t *testing.T) {
	rs := NewRubberState()
	recordHand(t, rs, "4S", bridge.North, 10)
	rs.RecordHonors(HonorResult{Partnership: bridge.EastWest, Points: 100, Description: "four trump honors in East hand"})

	status := rs.GetStatus()
	assert.Equal(t, 100, status.EW.Above)
	require.NotNil(t, status.LastHand)
	require.NotNil(t, status.LastHand.Honors)
	assert.Equal(t, 100, status.LastHand.Honors.Points)
}

func TestRecordContractStringInvalid(t *testing.T) {
	rs := NewRubberState()
	_, err := rs.RecordContractString("banana", bridge.South, 9)
	require.Error(t, err)
	// Nothing was applied.
	assert.Equal(t, 0, rs.GetStatus().HandCount)
}
