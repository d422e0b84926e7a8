package bridge

import (
	"fmt"
	"strings"
)

// Hand holds the cards dealt to one seat.
type Hand []Card

// hcpPoints are the standard high card point values.
var hcpPoints = map[Rank]int{
	Ace:   4,
	King:  3,
	Queen: 2,
	Jack:  1,
}

// ParseLINHand parses the LIN hand encoding used by the upstream
// extension: suit letters followed by that suit's ranks, e.g.
// "SAKQHT93D85CJT742".
func ParseLINHand(s string) (Hand, error) {
	var hand Hand
	var suit Suit
	haveSuit := false
	for i := 0; i < len(s); i++ {
		ch := toUpperByte(s[i])
		if sv, ok := charToSuit[ch]; ok {
			// "S" etc. is ambiguous only as a rank; LIN has no rank 'S'..'C'
			// so a suit letter always switches the active suit.
			suit = sv
			haveSuit = true
			continue
		}
		rank, ok := charToRank[ch]
		if !ok {
			return nil, fmt.Errorf("invalid LIN hand character %q in [%s]", s[i], s)
		}
		if !haveSuit {
			return nil, fmt.Errorf("LIN hand [%s] starts with a rank", s)
		}
		hand = append(hand, Card{Suit: suit, Rank: rank})
	}
	return hand, nil
}

// ParseDotHand parses the dot hand encoding: four rank groups separated by
// dots, in the order spades.hearts.diamonds.clubs, e.g. "AKQ.T93.85.JT742".
func ParseDotHand(s string) (Hand, error) {
	groups := strings.Split(s, ".")
	if len(groups) > 4 {
		return nil, fmt.Errorf("invalid dot hand [%s]", s)
	}
	suitOrder := [4]Suit{Spades, Hearts, Diamonds, Clubs}
	var hand Hand
	for i, group := range groups {
		for j := 0; j < len(group); j++ {
			rank, ok := charToRank[toUpperByte(group[j])]
			if !ok {
				return nil, fmt.Errorf("invalid dot hand character %q in [%s]", group[j], s)
			}
			hand = append(hand, Card{Suit: suitOrder[i], Rank: rank})
		}
	}
	return hand, nil
}

// ParseHand accepts either encoding, detecting dot format by its separator.
func ParseHand(s string) (Hand, error) {
	if strings.Contains(s, ".") {
		return ParseDotHand(s)
	}
	return ParseLINHand(s)
}

// Contains reports whether the hand holds the card.
func (h Hand) Contains(card Card) bool {
	for _, c := range h {
		if c == card {
			return true
		}
	}
	return false
}

// OfSuit returns the cards of the given suit, in hand order.
func (h Hand) OfSuit(suit Suit) []Card {
	var cards []Card
	for _, c := range h {
		if c.Suit == suit {
			cards = append(cards, c)
		}
	}
	return cards
}

// LongestSuit returns the suit with the most cards. Ties go to the
// higher-ranking suit.
func (h Hand) LongestSuit() Suit {
	counts := map[Suit]int{}
	for _, c := range h {
		counts[c.Suit]++
	}
	best := Clubs
	bestCount := -1
	for _, suit := range []Suit{Clubs, Diamonds, Hearts, Spades} {
		if counts[suit] >= bestCount {
			best = suit
			bestCount = counts[suit]
		}
	}
	return best
}

// HCP returns the hand's high card points.
func (h Hand) HCP() int {
	total := 0
	for _, c := range h {
		total += hcpPoints[c.Rank]
	}
	return total
}

// LIN renders the hand in LIN encoding with suits in SHDC order and
// descending ranks, the canonical form for deal hashing.
func (h Hand) LIN() string {
	sorted := make([]Card, len(h))
	copy(sorted, h)
	SortCards(sorted)
	var b strings.Builder
	for _, suit := range [4]Suit{Spades, Hearts, Diamonds, Clubs} {
		b.WriteString(suit.String())
		for _, c := range sorted {
			if c.Suit == suit {
				b.WriteString(c.Rank.String())
			}
		}
	}
	return b.String()
}

func (h Hand) String() string {
	return CardsToString(h)
}
