// Package dds integrates double-dummy solving. The solver itself is an
// external oracle: given a full deal position it returns, for every card
// the player on turn can legally play, the number of tricks achievable.
package dds

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"voyager.com/bridgebot/bridge"
)

// ErrUnavailable indicates the oracle cannot be reached at all.
var ErrUnavailable = errors.New("double-dummy solver unavailable")

// ErrTimeout indicates the oracle did not answer within the deadline.
var ErrTimeout = errors.New("double-dummy solver timed out")

// Position is a full deal snapshot handed to the solver: every seat's
// remaining cards, the trump strain, who led the current trick, and the
// cards already played to it in order. Cards in CurrentTrick are still
// "in the air": they are excluded from the hands.
type Position struct {
	Hands        map[bridge.Seat]bridge.Hand
	Trump        bridge.Strain
	Leader       bridge.Seat
	CurrentTrick []bridge.Card
}

// CardTricks pairs a playable card with the tricks the side on turn can
// take by playing it.
type CardTricks struct {
	Card   bridge.Card
	Tricks int
}

// Solver is the oracle contract. Implementations must honor the context
// deadline and return ErrTimeout / ErrUnavailable as appropriate.
type Solver interface {
	Solve(ctx context.Context, position Position) ([]CardTricks, error)
}

// Fingerprint canonicalizes the position for caching and stale-result
// rejection. Two positions with the same fingerprint are identical.
func (p Position) Fingerprint() string {
	var b strings.Builder
	for _, seat := range bridge.Seats() {
		fmt.Fprintf(&b, "%s=%s;", seat, p.Hands[seat].LIN())
	}
	fmt.Fprintf(&b, "t=%s;l=%s;", p.Trump, p.Leader)
	for _, c := range p.CurrentTrick {
		b.WriteString(c.String())
	}
	return b.String()
}

// BestCard picks the play achieving the most tricks from a solve result.
func BestCard(result []CardTricks) (CardTricks, bool) {
	var best CardTricks
	found := false
	for _, ct := range result {
		if !found || ct.Tricks > best.Tricks {
			best = ct
			found = true
		}
	}
	return best, found
}
