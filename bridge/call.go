package bridge

import (
	"fmt"
	"strconv"
	"strings"
)

// CallType distinguishes the four kinds of auction calls.
type CallType int

const (
	CallPass CallType = iota
	CallDouble
	CallRedouble
	CallBid
)

// Call is one auction action: a pass, a double, a redouble, or a bid of
// level 1-7 in a strain.
type Call struct {
	Type   CallType
	Level  int
	Strain Strain
}

func Pass() Call     { return Call{Type: CallPass} }
func Double() Call   { return Call{Type: CallDouble} }
func Redouble() Call { return Call{Type: CallRedouble} }

func Bid(level int, strain Strain) Call {
	return Call{Type: CallBid, Level: level, Strain: strain}
}

// ParseCall parses the upstream call tokens: "p"/"pass", "d"/"x",
// "r"/"xx", or a bid like "1c", "3n", "4H", "3NT".
func ParseCall(s string) (Call, error) {
	switch strings.ToUpper(s) {
	case "P", "PASS":
		return Pass(), nil
	case "D", "X", "DBL":
		return Double(), nil
	case "R", "XX", "RDBL":
		return Redouble(), nil
	}
	if len(s) < 2 {
		return Call{}, fmt.Errorf("invalid call [%s]", s)
	}
	level, err := strconv.Atoi(s[:1])
	if err != nil || level < 1 || level > 7 {
		return Call{}, fmt.Errorf("invalid bid level in call [%s]", s)
	}
	strain, err := ParseStrain(s[1:])
	if err != nil {
		return Call{}, fmt.Errorf("invalid bid strain in call [%s]", s)
	}
	return Bid(level, strain), nil
}

func (c Call) String() string {
	switch c.Type {
	case CallPass:
		return "P"
	case CallDouble:
		return "X"
	case CallRedouble:
		return "XX"
	default:
		return fmt.Sprintf("%d%s", c.Level, c.Strain)
	}
}

// IsPass reports whether the call is a pass.
func (c Call) IsPass() bool {
	return c.Type == CallPass
}
