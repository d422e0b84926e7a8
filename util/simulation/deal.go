package simulation

import (
	"fmt"

	"voyager.com/bridgebot/bridge"
	"voyager.com/bridgebot/scoring"
)

// Run deals numDeals random deals and prints high-card-point and honors
// statistics. Used to sanity check the deck and the scoring helpers
// against the known distributions.
func Run(numDeals int) error {
	hcpCounts := make(map[int]int)
	suitLengthCounts := make(map[int]int)
	numHandsEval := 0
	numHonorDeals := 0
	numAceDeals := 0

	deck := bridge.NewDeck(nil)
	for i := 0; i < numDeals; i++ {
		if i > 0 && i%10000 == 0 {
			fmt.Printf("Deal %d\n", i)
		}

		deck.Shuffle()
		hands := deck.Deal()
		if err := checkDeal(hands); err != nil {
			return err
		}

		totalHCP := 0
		for _, hand := range hands {
			hcp := hand.HCP()
			hcpCounts[hcp]++
			totalHCP += hcp
			suitLengthCounts[len(hand.OfSuit(hand.LongestSuit()))]++
			numHandsEval++
		}
		if totalHCP != 40 {
			return fmt.Errorf("HCP does not sum to 40: %d", totalHCP)
		}

		// Honors frequency across the four trump suits.
		honorsFound := false
		for suit := bridge.Clubs; suit <= bridge.Spades; suit++ {
			strain := bridge.Strain(suit)
			if _, ok := scoring.ScoreHonors(hands, strain); ok {
				honorsFound = true
			}
		}
		if honorsFound {
			numHonorDeals++
		}
		if _, ok := scoring.ScoreHonors(hands, bridge.NoTrump); ok {
			numAceDeals++
		}
	}

	fmt.Printf("%d deals completed\n\nResult:\n", numDeals)
	fmt.Printf("HCP distribution:\n")
	for hcp := 0; hcp <= 37; hcp++ {
		count := hcpCounts[hcp]
		if count == 0 {
			continue
		}
		fmt.Printf("|%3d|%8d|%f\n", hcp, count, float32(count)/float32(numHandsEval))
	}
	fmt.Printf("Longest suit length distribution:\n")
	for length := 4; length <= 13; length++ {
		count := suitLengthCounts[length]
		if count == 0 {
			continue
		}
		fmt.Printf("|%3d|%8d|%f\n", length, count, float32(count)/float32(numHandsEval))
	}
	fmt.Printf("Trump honors deals : %d/%d (%f)\n", numHonorDeals, numDeals, float32(numHonorDeals)/float32(numDeals))
	fmt.Printf("Four-ace deals     : %d/%d (%f)\n", numAceDeals, numDeals, float32(numAceDeals)/float32(numDeals))

	return nil
}

func checkDeal(hands map[bridge.Seat]bridge.Hand) error {
	seen := make(map[bridge.Card]bool)
	for seat, hand := range hands {
		if len(hand) != 13 {
			return fmt.Errorf("Misdeal %s %d", seat, len(hand))
		}
		for _, c := range hand {
			if seen[c] {
				return fmt.Errorf("Duplicate card %s", c)
			}
			seen[c] = true
		}
	}
	if len(seen) != 52 {
		return fmt.Errorf("Misdeal: %d distinct cards", len(seen))
	}
	return nil
}
