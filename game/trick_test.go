package game

import (
	"testing"

	"voyager.com/bridgebot/bridge"
)

func playCard(t *testing.T, deal *DealState, player string, card string) PlayOutcome {
	t.Helper()
	outcome, err := deal.PlayCard(bridge.ParsePlayerRef(player), bridge.MustCard(card))
	if err != nil {
		t.Fatalf("PlayCard(%s, %s) returned error [%s]", player, card, err)
	}
	return outcome
}

func spadeContract(declarer bridge.Seat) *bridge.Contract {
	return &bridge.Contract{Level: 4, Strain: bridge.StrainSpades, Declarer: declarer}
}

func TestTrickWinnerLedSuit(t *testing.T) {
	deal := newTestDeal(t)
	deal.SetContract(spadeContract(bridge.North))

	// East leads a diamond; no trumps played, highest diamond wins.
	playCard(t, deal, "E", "DQ")
	playCard(t, deal, "S", "D9")
	playCard(t, deal, "W", "D2")
	outcome := playCard(t, deal, "N", "DA")

	if !outcome.TrickComplete {
		t.Fatal("fourth card did not complete the trick")
	}
	if outcome.Winner == nil || *outcome.Winner != bridge.North {
		t.Fatalf("winner = %v, expected North", outcome.Winner)
	}
	if got := deal.TricksWon(bridge.NorthSouth); got != 1 {
		t.Errorf("NS tricks = %d, expected 1", got)
	}
	// The winner leads the next trick.
	if next := deal.NextToPlay(); next == nil || *next != bridge.North {
		t.Errorf("next to play = %v, expected North", next)
	}
}

func TestTrickDiscardCannotWin(t *testing.T) {
	deal := newTestDeal(t)
	deal.SetContract(spadeContract(bridge.North))

	// West is void in hearts and holds no trumps; its discard cannot
	// win the trick.
	playCard(t, deal, "E", "HT")
	playCard(t, deal, "S", "H2")
	outcome := playCard(t, deal, "W", "C5")
	if outcome.TrickComplete {
		t.Fatal("trick completed early")
	}
	outcome = playCard(t, deal, "N", "HA")

	// West discarded a club (no trump), North's ace wins.
	if outcome.Winner == nil || *outcome.Winner != bridge.North {
		t.Fatalf("winner = %v, expected North", outcome.Winner)
	}
}

func TestTrickRejectsSecondCardFromSameSeat(t *testing.T) {
	deal := newTestDeal(t)
	deal.SetContract(spadeContract(bridge.North))

	playCard(t, deal, "E", "DQ")
	_, err := deal.PlayCard(bridge.ParsePlayerRef("E"), bridge.MustCard("DJ"))
	if err == nil {
		t.Fatal("second card from East in the same trick accepted")
	}
	if _, ok := err.(DuplicatePlayError); !ok {
		t.Fatalf("error = %T, expected DuplicatePlayError", err)
	}
	if got := len(deal.CurrentTrick()); got != 1 {
		t.Errorf("current trick holds %d plays after rejection, expected 1", got)
	}
	// The rejected card is still in hand.
	if !deal.RemainingCards(bridge.East, false).Contains(bridge.MustCard("DJ")) {
		t.Error("rejected card removed from East's hand")
	}
}

func TestTrickWinnerTrumpBeatsAce(t *testing.T) {
	deal := newTestDeal(t)
	// Diamonds are trump; West is void in hearts and long in diamonds.
	deal.SetContract(&bridge.Contract{Level: 2, Strain: bridge.StrainDiamonds, Declarer: bridge.South})

	// East leads a heart, South follows, West ruffs with a small
	// diamond, North's heart ace is out-trumped.
	playCard(t, deal, "E", "HT")
	playCard(t, deal, "S", "H2")
	playCard(t, deal, "W", "D2")
	outcome := playCard(t, deal, "N", "HA")

	if outcome.Winner == nil || *outcome.Winner != bridge.West {
		t.Fatalf("winner = %v, expected West (ruffed)", outcome.Winner)
	}
}

func TestUnknownPlayerInference(t *testing.T) {
	deal := newTestDeal(t)
	deal.SetContract(spadeContract(bridge.North))

	// Opening leader is East (declarer North's LHO); "?" resolves to it.
	outcome := playCard(t, deal, "?", "DQ")
	if outcome.Seat != bridge.East {
		t.Fatalf("lead attributed to %s, expected East", outcome.Seat)
	}
	// Mid-trick, "?" resolves to the successor of the previous player.
	outcome = playCard(t, deal, "?", "D9")
	if outcome.Seat != bridge.South {
		t.Fatalf("second play attributed to %s, expected South", outcome.Seat)
	}
}

func TestUnknownPlayerAmbiguous(t *testing.T) {
	deal := newTestDeal(t)
	// No contract, no opening leader: an unknown lead cannot be placed.
	_, err := deal.PlayCard(bridge.UnknownSeat(), bridge.MustCard("DQ"))
	if err == nil {
		t.Fatal("expected AmbiguousPlayerError")
	}
	if _, ok := err.(AmbiguousPlayerError); !ok {
		t.Errorf("error is %T, expected AmbiguousPlayerError", err)
	}
}

func TestDummyReattribution(t *testing.T) {
	deal := newTestDeal(t)
	deal.SetContract(spadeContract(bridge.North))

	playCard(t, deal, "E", "DQ")
	// The upstream says North played D9, but D9 is dummy's (South's)
	// card; the engine re-attributes it.
	outcome := playCard(t, deal, "N", "D9")
	if outcome.Seat != bridge.South {
		t.Fatalf("play attributed to %s, expected South (dummy)", outcome.Seat)
	}
	if deal.RemainingCards(bridge.South, false).Contains(bridge.MustCard("D9")) {
		t.Error("dummy still holds the re-attributed card")
	}
	if len(deal.RemainingCards(bridge.North, false)) != 13 {
		t.Error("declarer's hand was charged for dummy's card")
	}
}

func TestPlayCardNotInHand(t *testing.T) {
	deal := newTestDeal(t)
	deal.SetContract(spadeContract(bridge.North))

	// East does not hold the DA (North does).
	_, err := deal.PlayCard(bridge.KnownSeat(bridge.East), bridge.MustCard("DA"))
	if err == nil {
		t.Fatal("expected CardNotInHandError")
	}
	if _, ok := err.(CardNotInHandError); !ok {
		t.Errorf("error is %T, expected CardNotInHandError", err)
	}
	// The rejected play mutated nothing.
	if deal.PlayCount() != 0 {
		t.Error("rejected play was recorded")
	}
}

func TestTrickBeforeContractRanksAsNotrump(t *testing.T) {
	deal := newTestDeal(t)
	// No contract set; feed a full trick with known seats.
	playCard(t, deal, "E", "DQ")
	playCard(t, deal, "S", "D9")
	playCard(t, deal, "W", "D2")
	outcome := playCard(t, deal, "N", "DA")
	if outcome.Winner == nil || *outcome.Winner != bridge.North {
		t.Fatalf("winner = %v, expected North at notrump ranking", outcome.Winner)
	}
}
