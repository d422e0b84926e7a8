package scoring

import (
	"fmt"

	"voyager.com/bridgebot/bridge"
	"voyager.com/bridgebot/logging"
)

var rubberLogger = logging.GetZeroLogger("scoring::rubber", nil)

// Result is the scoring breakdown of a single completed hand. BelowLine
// counts toward game for the partnership named in Partnership; AboveLine
// is premium points. For a defeated contract, Partnership is the
// defending side and the whole penalty goes above the line.
type Result struct {
	Partnership bridge.Partnership `json:"partnership"`
	BelowLine   int                `json:"belowLine"`
	AboveLine   int                `json:"aboveLine"`
	Total       int                `json:"total"`
	MakesGame   bool               `json:"makesGame"`
	Overtricks  int                `json:"overtricks"`
	Undertricks int                `json:"undertricks"`
	Vulnerable  bool               `json:"vulnerable"`
	Description string             `json:"description"`
}

// Score computes the score of a completed contract. It is a pure
// function; vulnerability is the declaring side's at the time of play.
//
// Per-hand game and part-score bonuses are deliberately not awarded here.
// In rubber bridge those materialize only at rubber completion (the
// rubber bonus and the 50-point part-score consolation), unlike duplicate
// scoring.
func Score(contract bridge.Contract, tricksMade int, vulnerable bool) Result {
	needed := contract.TricksNeeded()
	if tricksMade < needed {
		return scorePenalty(contract, needed-tricksMade, vulnerable)
	}
	return scoreMade(contract, tricksMade-needed, vulnerable)
}

// ScoreContractString parses a contract string such as "3NT" or "4Hx"
// and scores it. A malformed string is a typed error; no score is guessed.
func ScoreContractString(contract string, declarer bridge.Seat, tricksMade int, vulnerable bool) (Result, error) {
	parsed, err := bridge.ParseContract(contract)
	if err != nil {
		return Result{}, err
	}
	parsed.Declarer = declarer
	return Score(parsed, tricksMade, vulnerable), nil
}

func trickValue(strain bridge.Strain) int {
	switch strain {
	case bridge.StrainClubs, bridge.StrainDiamonds:
		return 20
	default:
		return 30
	}
}

func scoreMade(contract bridge.Contract, overtricks int, vulnerable bool) Result {
	// Below the line: 20/trick for minors, 30 for majors and notrump,
	// with the first notrump trick worth 40.
	var below int
	if contract.Strain == bridge.NoTrump {
		below = 40 + (contract.Level-1)*30
	} else {
		below = contract.Level * trickValue(contract.Strain)
	}
	switch contract.Doubled {
	case bridge.Doubled:
		below *= 2
	case bridge.Redoubled:
		below *= 4
	}

	above := 0
	if overtricks > 0 {
		switch contract.Doubled {
		case bridge.Undoubled:
			above += overtricks * trickValue(contract.Strain)
		case bridge.Doubled:
			if vulnerable {
				above += overtricks * 200
			} else {
				above += overtricks * 100
			}
		case bridge.Redoubled:
			if vulnerable {
				above += overtricks * 400
			} else {
				above += overtricks * 200
			}
		}
	}

	// "Insult" bonus for making a doubled or redoubled contract.
	switch contract.Doubled {
	case bridge.Doubled:
		above += 50
	case bridge.Redoubled:
		above += 100
	}

	switch contract.Level {
	case 6:
		if vulnerable {
			above += 750
		} else {
			above += 500
		}
	case 7:
		if vulnerable {
			above += 1500
		} else {
			above += 1000
		}
	}

	desc := fmt.Sprintf("%s made", contract.String())
	if overtricks > 0 {
		desc = fmt.Sprintf("%s +%d", desc, overtricks)
	}

	return Result{
		Partnership: contract.Declarer.Side(),
		BelowLine:   below,
		AboveLine:   above,
		Total:       below + above,
		MakesGame:   below >= 100,
		Overtricks:  overtricks,
		Vulnerable:  vulnerable,
		Description: desc,
	}
}

func scorePenalty(contract bridge.Contract, undertricks int, vulnerable bool) Result {
	penalty := 0
	if contract.Doubled == bridge.Undoubled {
		if vulnerable {
			penalty = undertricks * 100
		} else {
			penalty = undertricks * 50
		}
	} else {
		for i := 0; i < undertricks; i++ {
			switch {
			case i == 0:
				if vulnerable {
					penalty += 200
				} else {
					penalty += 100
				}
			case i <= 2:
				if vulnerable {
					penalty += 300
				} else {
					penalty += 200
				}
			default:
				penalty += 300
			}
		}
		if contract.Doubled == bridge.Redoubled {
			penalty *= 2
		}
	}

	return Result{
		Partnership: contract.Declarer.Side().Opponent(),
		BelowLine:   0,
		AboveLine:   penalty,
		Total:       penalty,
		Undertricks: undertricks,
		Vulnerable:  vulnerable,
		Description: fmt.Sprintf("%s down %d", contract.String(), undertricks),
	}
}

// trumpHonors are the five honor ranks for honor bonuses.
var trumpHonors = [5]bridge.Rank{bridge.Ace, bridge.King, bridge.Queen, bridge.Jack, bridge.Ten}

// HonorResult reports an honors bonus held by one partnership.
type HonorResult struct {
	Partnership bridge.Partnership `json:"partnership"`
	Points      int                `json:"points"`
	Description string             `json:"description"`
}

// ScoreHonors inspects the four original hands for honor bonuses: four of
// the five trump honors in a single hand scores 100, all five 150, and
// all four aces in one hand at notrump 150. Honors go to the holding
// partnership regardless of the contract outcome.
//
// Honors split between two hands of the same partnership do not score;
// only single-hand concentration is checked.
func ScoreHonors(hands map[bridge.Seat]bridge.Hand, strain bridge.Strain) (HonorResult, bool) {
	for _, seat := range bridge.Seats() {
		hand, ok := hands[seat]
		if !ok {
			continue
		}
		if strain == bridge.NoTrump {
			aces := 0
			for _, c := range hand {
				if c.Rank == bridge.Ace {
					aces++
				}
			}
			if aces == 4 {
				return HonorResult{
					Partnership: seat.Side(),
					Points:      150,
					Description: fmt.Sprintf("four aces in %s hand", seat.Name()),
				}, true
			}
			continue
		}
		trump := bridge.Suit(strain)
		held := 0
		for _, honor := range trumpHonors {
			if hand.Contains(bridge.Card{Suit: trump, Rank: honor}) {
				held++
			}
		}
		switch held {
		case 4:
			return HonorResult{
				Partnership: seat.Side(),
				Points:      100,
				Description: fmt.Sprintf("four trump honors in %s hand", seat.Name()),
			}, true
		case 5:
			return HonorResult{
				Partnership: seat.Side(),
				Points:      150,
				Description: fmt.Sprintf("five trump honors in %s hand", seat.Name()),
			}, true
		}
	}
	return HonorResult{}, false
}
