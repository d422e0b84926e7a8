package bridge

import (
	crypto_rand "crypto/rand"
	"encoding/binary"
	"math/rand"
)

var fullDeck []Card

func init() {
	fullDeck = make([]Card, 0, 52)
	for suit := Clubs; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			fullDeck = append(fullDeck, Card{Suit: suit, Rank: rank})
		}
	}
}

// Deck is a full 52-card deck used to generate random deals for the
// simulation mode. Live deals come from upstream events, not from here.
type Deck struct {
	cards   []Card
	randGen *rand.Rand
}

func newSeed() rand.Source {
	var b [8]byte
	_, err := crypto_rand.Read(b[:])
	if err != nil {
		panic("cannot seed math/rand package with cryptographically secure random number generator")
	}
	return rand.NewSource(int64(binary.LittleEndian.Uint64(b[:])))
}

func NewDeck(source rand.Source) *Deck {
	if source == nil {
		source = newSeed()
	}
	deck := &Deck{randGen: rand.New(source)}
	deck.Shuffle()
	return deck
}

func (deck *Deck) Shuffle() *Deck {
	deck.cards = make([]Card, len(fullDeck))
	copy(deck.cards, fullDeck)
	for i := range deck.cards {
		loc := int(deck.randGen.Uint32() % 52)
		deck.cards[i], deck.cards[loc] = deck.cards[loc], deck.cards[i]
	}
	return deck
}

// Deal splits the shuffled deck into four 13-card hands in seat order.
func (deck *Deck) Deal() map[Seat]Hand {
	hands := make(map[Seat]Hand, 4)
	for i, seat := range Seats() {
		hand := make(Hand, 13)
		copy(hand, deck.cards[i*13:(i+1)*13])
		hands[seat] = hand
	}
	return hands
}
