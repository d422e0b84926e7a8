package bridge

import "fmt"

// Strain is what a bid names: one of the four suits or notrump.
type Strain int

const (
	StrainClubs Strain = iota
	StrainDiamonds
	StrainHearts
	StrainSpades
	NoTrump
)

func (s Strain) String() string {
	if s == NoTrump {
		return "NT"
	}
	return Suit(s).String()
}

// ParseStrain accepts "C", "D", "H", "S", "N" and "NT".
func ParseStrain(s string) (Strain, error) {
	switch s {
	case "C", "c":
		return StrainClubs, nil
	case "D", "d":
		return StrainDiamonds, nil
	case "H", "h":
		return StrainHearts, nil
	case "S", "s":
		return StrainSpades, nil
	case "N", "n", "NT", "nt":
		return NoTrump, nil
	}
	return 0, fmt.Errorf("invalid strain [%s]", s)
}

// TrumpSuit returns the trump suit of the strain, or nil for notrump.
func (s Strain) TrumpSuit() *Suit {
	if s == NoTrump {
		return nil
	}
	suit := Suit(s)
	return &suit
}
