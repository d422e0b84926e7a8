package scoring

import (
	"voyager.com/bridgebot/bridge"
)

// SideScore is one partnership's running totals within a rubber.
type SideScore struct {
	Below      int  `json:"below"`
	Above      int  `json:"above"`
	Total      int  `json:"total"`
	Games      int  `json:"games"`
	Vulnerable bool `json:"vulnerable"`
	Rubbers    int  `json:"rubbers"`
}

// HandRecord archives one scored hand.
type HandRecord struct {
	Contract     string       `json:"contract"`
	Declarer     bridge.Seat  `json:"declarer"`
	TricksMade   int          `json:"tricksMade"`
	Score        Result       `json:"score"`
	Honors       *HonorResult `json:"honors,omitempty"`
	RubberNumber int          `json:"rubberNumber"`
}

// RubberRecord archives one completed rubber.
type RubberRecord struct {
	RubberNumber int                `json:"rubberNumber"`
	Winner       bridge.Partnership `json:"winner"`
	Games        [2]int             `json:"games"`
	Totals       [2]int             `json:"totals"`
	Bonus        int                `json:"bonus"`
}

// HandOutcome is what RecordHandResult returns to the caller: the hand's
// score plus whether it ended a game or the rubber.
type HandOutcome struct {
	Score          Result `json:"score"`
	GameWon        bool   `json:"gameWon"`
	RubberComplete bool   `json:"rubberComplete"`
	RubberBonus    int    `json:"rubberBonus"`
}

// RubberState tracks rubber-bridge scoring across a session. It is not
// safe for concurrent use; the table actor owns it.
type RubberState struct {
	below      [2]int
	above      [2]int
	games      [2]int
	vulnerable [2]bool
	rubbers    [2]int

	handHistory   []HandRecord
	rubberHistory []RubberRecord

	rubberNumber   int
	rubberComplete bool
}

// NewRubberState starts a fresh session at rubber 1.
func NewRubberState() *RubberState {
	return &RubberState{rubberNumber: 1}
}

// Vulnerable reports whether the partnership has won a game this rubber.
func (rs *RubberState) Vulnerable(p bridge.Partnership) bool {
	return rs.vulnerable[p]
}

// RubberComplete reports whether the current rubber has finished.
func (rs *RubberState) RubberComplete() bool {
	return rs.rubberComplete
}

// RecordHandResult scores a finished contract and applies it to the
// rubber: below/above-line totals, game and vulnerability progression,
// and rubber completion with its bonuses.
func (rs *RubberState) RecordHandResult(contract bridge.Contract, tricksMade int) HandOutcome {
	result := Score(contract, tricksMade, rs.vulnerable[contract.Declarer.Side()])
	outcome := rs.apply(result)
	rs.handHistory = append(rs.handHistory, HandRecord{
		Contract:     contract.String(),
		Declarer:     contract.Declarer,
		TricksMade:   tricksMade,
		Score:        result,
		RubberNumber: rs.rubberNumber,
	})
	return outcome
}

// RecordContractString is RecordHandResult for callers holding the
// contract in its string form. A malformed contract is a typed error and
// leaves the rubber untouched.
func (rs *RubberState) RecordContractString(contract string, declarer bridge.Seat, tricksMade int) (HandOutcome, error) {
	parsed, err := bridge.ParseContract(contract)
	if err != nil {
		return HandOutcome{}, err
	}
	parsed.Declarer = declarer
	return rs.RecordHandResult(parsed, tricksMade), nil
}

// RecordHonors credits an honors bonus straight to the holding
// partnership's above-line total.
func (rs *RubberState) RecordHonors(honors HonorResult) {
	rs.above[honors.Partnership] += honors.Points
	if n := len(rs.handHistory); n > 0 {
		h := honors
		rs.handHistory[n-1].Honors = &h
	}
}

func (rs *RubberState) apply(result Result) HandOutcome {
	side := result.Partnership
	rs.below[side] += result.BelowLine
	rs.above[side] += result.AboveLine

	outcome := HandOutcome{Score: result}

	if result.MakesGame || rs.below[side] >= 100 {
		rs.games[side]++
		rs.vulnerable[side] = true
		// A won game draws the line: both sides' trick points stop
		// counting toward the next game but stay in the running totals.
		// The loser's standing part score matters again only if this game
		// ends the rubber (the 50-point consolation below).
		opponentPartScore := rs.below[side.Opponent()]
		rs.above[bridge.NorthSouth] += rs.below[bridge.NorthSouth]
		rs.above[bridge.EastWest] += rs.below[bridge.EastWest]
		rs.below[bridge.NorthSouth] = 0
		rs.below[bridge.EastWest] = 0
		outcome.GameWon = true

		if rs.games[side] >= 2 {
			bonus := rs.completeRubber(side, opponentPartScore)
			outcome.RubberComplete = true
			outcome.RubberBonus = bonus
		}
	}

	return outcome
}

func (rs *RubberState) completeRubber(winner bridge.Partnership, opponentPartScore int) int {
	rs.rubberComplete = true
	loser := winner.Opponent()

	if opponentPartScore > 0 {
		rs.above[loser] += 50
	}

	bonus := 700
	if rs.games[loser] == 0 {
		bonus = 500
	}
	rs.above[winner] += bonus
	rs.rubbers[winner]++

	rubberLogger.Info().
		Str("winner", winner.String()).
		Int("bonus", bonus).
		Int("rubber", rs.rubberNumber).
		Msg("Rubber complete")

	rs.rubberHistory = append(rs.rubberHistory, RubberRecord{
		RubberNumber: rs.rubberNumber,
		Winner:       winner,
		Games:        rs.games,
		Totals: [2]int{
			rs.below[bridge.NorthSouth] + rs.above[bridge.NorthSouth],
			rs.below[bridge.EastWest] + rs.above[bridge.EastWest],
		},
		Bonus: bonus,
	})
	return bonus
}

// StartNewRubber resets per-rubber state while preserving lifetime rubber
// counts and the full history.
func (rs *RubberState) StartNewRubber() {
	rubbers := rs.rubbers
	handHistory := rs.handHistory
	rubberHistory := rs.rubberHistory

	*rs = RubberState{
		rubbers:       rubbers,
		handHistory:   handHistory,
		rubberHistory: rubberHistory,
		rubberNumber:  len(rubberHistory) + 1,
	}
}

// Status is the exported rubber snapshot for the UI layer.
type Status struct {
	RubberNumber   int            `json:"rubberNumber"`
	NS             SideScore      `json:"ns"`
	EW             SideScore      `json:"ew"`
	RubberComplete bool           `json:"rubberComplete"`
	HandCount      int            `json:"handCount"`
	LastHand       *HandRecord    `json:"lastHand,omitempty"`
	RubberHistory  []RubberRecord `json:"rubberHistory"`
}

// GetStatus snapshots the rubber for export.
func (rs *RubberState) GetStatus() Status {
	status := Status{
		RubberNumber:   rs.rubberNumber,
		NS:             rs.sideScore(bridge.NorthSouth),
		EW:             rs.sideScore(bridge.EastWest),
		RubberComplete: rs.rubberComplete,
		HandCount:      len(rs.handHistory),
		RubberHistory:  append([]RubberRecord(nil), rs.rubberHistory...),
	}
	if n := len(rs.handHistory); n > 0 {
		last := rs.handHistory[n-1]
		status.LastHand = &last
	}
	return status
}

func (rs *RubberState) sideScore(p bridge.Partnership) SideScore {
	return SideScore{
		Below:      rs.below[p],
		Above:      rs.above[p],
		Total:      rs.below[p] + rs.above[p],
		Games:      rs.games[p],
		Vulnerable: rs.vulnerable[p],
		Rubbers:    rs.rubbers[p],
	}
}
