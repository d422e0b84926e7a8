package game

import (
	"fmt"

	"voyager.com/bridgebot/bridge"
)

// CardNotInHandError reports a play of a card the seat does not hold.
// The triggering event is rejected; no state is mutated.
type CardNotInHandError struct {
	Seat bridge.Seat
	Card bridge.Card
}

func (e CardNotInHandError) Error() string {
	return fmt.Sprintf("%s does not hold %s", e.Seat.Name(), e.Card)
}

// HandExhaustedError reports a play from a seat that has already played
// all 13 of its cards this deal.
type HandExhaustedError struct {
	Seat bridge.Seat
}

func (e HandExhaustedError) Error() string {
	return fmt.Sprintf("%s has no cards remaining", e.Seat.Name())
}

// DuplicatePlayError reports a second card from one seat within the
// same trick. The triggering event is rejected; no state is mutated.
type DuplicatePlayError struct {
	Seat bridge.Seat
	Card bridge.Card
}

func (e DuplicatePlayError) Error() string {
	return fmt.Sprintf("%s already played to this trick (rejected %s)", e.Seat.Name(), e.Card)
}

// AmbiguousPlayerError reports a card event whose seat is unknown and
// cannot be inferred (e.g. the current trick is empty and no lead seat
// has been established).
type AmbiguousPlayerError struct {
	Card bridge.Card
}

func (e AmbiguousPlayerError) Error() string {
	return fmt.Sprintf("cannot infer which seat played %s", e.Card)
}

// NoActivePlayerError reports a recommendation request before the
// auction has produced a contract.
type NoActivePlayerError struct{}

func (e NoActivePlayerError) Error() string {
	return "no active player (waiting for auction to complete)"
}

// NoDealError reports an event that requires a deal in progress.
type NoDealError struct{}

func (e NoDealError) Error() string {
	return "no deal in progress"
}

// ValidationMismatchError reports an oracle suggestion of a card the
// player does not actually hold. It is always recovered locally by
// falling back to the next-best method, but is logged as a correctness
// signal for the oracle integration.
type ValidationMismatchError struct {
	Seat bridge.Seat
	Card bridge.Card
}

func (e ValidationMismatchError) Error() string {
	return fmt.Sprintf("oracle suggested %s which %s does not hold", e.Card, e.Seat.Name())
}

// InvalidMessageError reports an inbound event that could not be decoded
// into a table event.
type InvalidMessageError struct {
	Msg string
}

func (e InvalidMessageError) Error() string {
	return e.Msg
}
