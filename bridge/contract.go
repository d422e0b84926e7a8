package bridge

import (
	"fmt"
	"strconv"
	"strings"
)

// DoubledState of a contract.
type DoubledState int

const (
	Undoubled DoubledState = iota
	Doubled
	Redoubled
)

func (d DoubledState) String() string {
	switch d {
	case Doubled:
		return "X"
	case Redoubled:
		return "XX"
	default:
		return ""
	}
}

// Contract is the result of a completed auction. It is derived state:
// undefined until the auction closes, immutable for the rest of the deal.
type Contract struct {
	Level    int
	Strain   Strain
	Doubled  DoubledState
	Declarer Seat
}

// InvalidContractError reports a malformed contract string handed to the
// scoring layer. It is fatal for that scoring call only; the caller must
// not fall back to a guessed score.
type InvalidContractError struct {
	Contract string
}

func (e InvalidContractError) Error() string {
	return fmt.Sprintf("invalid contract string [%s]", e.Contract)
}

// ParseContract parses strings like "3NT", "1N", "4H", "2Cx", "5Dxx".
// A trailing "x"/"xx" marks a doubled/redoubled contract. The declarer is
// not part of the string and is left at its zero value.
func ParseContract(s string) (Contract, error) {
	if len(s) < 2 {
		return Contract{}, InvalidContractError{Contract: s}
	}
	level, err := strconv.Atoi(s[:1])
	if err != nil || level < 1 || level > 7 {
		return Contract{}, InvalidContractError{Contract: s}
	}
	rest := s[1:]
	doubled := Undoubled
	lower := strings.ToLower(rest)
	if strings.HasSuffix(lower, "xx") {
		doubled = Redoubled
		rest = rest[:len(rest)-2]
	} else if strings.HasSuffix(lower, "x") {
		doubled = Doubled
		rest = rest[:len(rest)-1]
	}
	strain, err := ParseStrain(rest)
	if err != nil {
		return Contract{}, InvalidContractError{Contract: s}
	}
	return Contract{Level: level, Strain: strain, Doubled: doubled}, nil
}

func (c Contract) String() string {
	return fmt.Sprintf("%d%s%s", c.Level, c.Strain, strings.ToLower(c.Doubled.String()))
}

// Dummy is the declarer's partner.
func (c Contract) Dummy() Seat {
	return c.Declarer.Partner()
}

// OpeningLeader is the declarer's left-hand opponent.
func (c Contract) OpeningLeader() Seat {
	return c.Declarer.Next()
}

// TricksNeeded is the number of tricks the declaring side must take.
func (c Contract) TricksNeeded() int {
	return 6 + c.Level
}
