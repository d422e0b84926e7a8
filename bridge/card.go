package bridge

import (
	"fmt"
	"sort"
	"strings"
)

// Suit of a card. The numeric order matches bridge's strain ranking
// (clubs lowest, spades highest).
type Suit int

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

var suitChars = "CDHS"

var charToSuit = map[uint8]Suit{
	'C': Clubs,
	'D': Diamonds,
	'H': Hearts,
	'S': Spades,
}

var prettySuits = map[Suit]string{
	Spades:   "♠",
	Hearts:   "♥",
	Diamonds: "♦",
	Clubs:    "♣",
}

func (s Suit) String() string {
	if s < Clubs || s > Spades {
		return "?"
	}
	return string(suitChars[s])
}

// IsMajor reports whether the suit scores 30 per trick.
func (s Suit) IsMajor() bool {
	return s == Hearts || s == Spades
}

// Rank of a card. Two is lowest, ace is highest.
type Rank int

const (
	Two Rank = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

var rankChars = "23456789TJQKA"

var charToRank = map[uint8]Rank{}

func init() {
	for i := range rankChars {
		charToRank[rankChars[i]] = Rank(i + 2)
	}
}

func (r Rank) String() string {
	if r < Two || r > Ace {
		return "?"
	}
	return string(rankChars[r-2])
}

// Card is an immutable (suit, rank) value. Cards of the same suit are
// totally ordered by rank.
type Card struct {
	Suit Suit
	Rank Rank
}

// NewCard parses the two-character interchange encoding: suit letter
// followed by rank letter/digit, e.g. "SA" is the ace of spades. This is
// the exact wire format used by the browser extension and the solver.
func NewCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid card string [%s]", s)
	}
	suit, ok := charToSuit[toUpperByte(s[0])]
	if !ok {
		return Card{}, fmt.Errorf("invalid card suit [%s]", s)
	}
	rank, ok := charToRank[toUpperByte(s[1])]
	if !ok {
		return Card{}, fmt.Errorf("invalid card rank [%s]", s)
	}
	return Card{Suit: suit, Rank: rank}, nil
}

// MustCard is NewCard for literals in tests and tables.
func MustCard(s string) Card {
	c, err := NewCard(s)
	if err != nil {
		panic(err)
	}
	return c
}

func toUpperByte(b uint8) uint8 {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}

func (c Card) String() string {
	return c.Suit.String() + c.Rank.String()
}

// PrettyString renders the card with a unicode suit symbol for logs.
func (c Card) PrettyString() string {
	return prettySuits[c.Suit] + c.Rank.String()
}

func (c *Card) MarshalJSON() ([]byte, error) {
	return []byte("\"" + c.String() + "\""), nil
}

func (c *Card) UnmarshalJSON(b []byte) error {
	if len(b) != 4 {
		return fmt.Errorf("invalid card json %s", string(b))
	}
	card, err := NewCard(string(b[1:3]))
	if err != nil {
		return err
	}
	*c = card
	return nil
}

// Beats reports whether c wins over other given the led suit and trump.
// A trump beats any non-trump. Among two trumps or two cards of the led
// suit, the higher rank wins. A card that is neither trump nor of the led
// suit cannot beat anything.
func (c Card) Beats(other Card, ledSuit Suit, trump *Suit) bool {
	cTrump := trump != nil && c.Suit == *trump
	oTrump := trump != nil && other.Suit == *trump
	if cTrump != oTrump {
		return cTrump
	}
	if cTrump {
		return c.Rank > other.Rank
	}
	if c.Suit != other.Suit {
		return c.Suit == ledSuit
	}
	if c.Suit != ledSuit {
		return false
	}
	return c.Rank > other.Rank
}

// SortCards orders cards by suit (spades first) then descending rank,
// the conventional hand display order.
func SortCards(cards []Card) {
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].Suit != cards[j].Suit {
			return cards[i].Suit > cards[j].Suit
		}
		return cards[i].Rank > cards[j].Rank
	})
}

func CardsToString(cards []Card) string {
	var b strings.Builder
	b.Grow(32)
	fmt.Fprintf(&b, "[")
	for _, c := range cards {
		fmt.Fprintf(&b, " %s ", c.PrettyString())
	}
	fmt.Fprintf(&b, "]")
	return b.String()
}
