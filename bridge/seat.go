package bridge

import "fmt"

// Seat at the table. Rotation is N -> E -> S -> W -> N.
type Seat int

const (
	North Seat = iota
	East
	South
	West
)

var seatChars = "NESW"

var seatNames = map[Seat]string{
	North: "North",
	East:  "East",
	South: "South",
	West:  "West",
}

func (s Seat) String() string {
	if s < North || s > West {
		return "?"
	}
	return string(seatChars[s])
}

func (s Seat) Name() string {
	return seatNames[s]
}

// ParseSeat accepts "N"/"North" etc., case-insensitively on the long form.
func ParseSeat(s string) (Seat, error) {
	switch s {
	case "N", "North", "north":
		return North, nil
	case "E", "East", "east":
		return East, nil
	case "S", "South", "south":
		return South, nil
	case "W", "West", "west":
		return West, nil
	}
	return 0, fmt.Errorf("invalid seat [%s]", s)
}

// Next is the seat to the left (next to act in rotation).
func (s Seat) Next() Seat {
	return (s + 1) % 4
}

// Partner is the seat across the table.
func (s Seat) Partner() Seat {
	return (s + 2) % 4
}

// Partnership is one of the two sides: NS or EW.
type Partnership int

const (
	NorthSouth Partnership = iota
	EastWest
)

func (p Partnership) String() string {
	if p == NorthSouth {
		return "NS"
	}
	return "EW"
}

// Opponent returns the other partnership.
func (p Partnership) Opponent() Partnership {
	return 1 - p
}

// Side returns the partnership the seat belongs to.
func (s Seat) Side() Partnership {
	if s == North || s == South {
		return NorthSouth
	}
	return EastWest
}

// Seats lists all four seats in rotation order starting from North.
func Seats() [4]Seat {
	return [4]Seat{North, East, South, West}
}

// PlayerRef is a possibly-unknown seat reference. Upstream systems cannot
// always identify who played a card; the trick engine resolves an unknown
// ref to a concrete seat before any state mutation.
type PlayerRef struct {
	Seat  Seat
	Known bool
}

func KnownSeat(s Seat) PlayerRef {
	return PlayerRef{Seat: s, Known: true}
}

func UnknownSeat() PlayerRef {
	return PlayerRef{}
}

// ParsePlayerRef maps a seat token to a PlayerRef, treating anything that
// is not a valid seat (e.g. "?") as unknown rather than an error.
func ParsePlayerRef(s string) PlayerRef {
	seat, err := ParseSeat(s)
	if err != nil {
		return UnknownSeat()
	}
	return KnownSeat(seat)
}
