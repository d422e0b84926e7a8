package ws

import (
	"testing"

	"voyager.com/bridgebot/game"
)

func TestDecodeFrameExtensionGameEvents(t *testing.T) {
	testCases := []struct {
		name  string
		frame string
		check func(t *testing.T, event game.TableEvent)
	}{
		{
			name:  "card played",
			frame: `{"type":"game_event","event_type":"card_played","data":{"player":"E","card":"DQ"}}`,
			check: func(t *testing.T, event game.TableEvent) {
				if event.Type != game.EventCardPlayed {
					t.Fatalf("type = %q, expected card_played", event.Type)
				}
				if event.CardPlayed == nil || event.CardPlayed.Player != "E" || event.CardPlayed.Card != "DQ" {
					t.Fatalf("payload = %+v", event.CardPlayed)
				}
			},
		},
		{
			name: "new deal",
			frame: `{"type":"game_event","event_type":"new_deal","data":` +
				`{"board":7,"dealer":"N","vul":"none","hands":{"N":"SAKQJHAKQJDAKC432"}}}`,
			check: func(t *testing.T, event game.TableEvent) {
				if event.NewDeal == nil || event.NewDeal.Board != 7 || event.NewDeal.Dealer != "N" {
					t.Fatalf("payload = %+v", event.NewDeal)
				}
				if event.NewDeal.Vulnerability != "none" {
					t.Errorf("vul = %q", event.NewDeal.Vulnerability)
				}
				if event.NewDeal.Hands["N"] != "SAKQJHAKQJDAKC432" {
					t.Errorf("hands = %v", event.NewDeal.Hands)
				}
			},
		},
		{
			name:  "bid made",
			frame: `{"type":"game_event","event_type":"bid_made","data":{"bidder":"?","call":"1NT"}}`,
			check: func(t *testing.T, event game.TableEvent) {
				if event.BidMade == nil || event.BidMade.Bidder != "?" || event.BidMade.Call != "1NT" {
					t.Fatalf("payload = %+v", event.BidMade)
				}
			},
		},
		{
			name:  "claim accepted",
			frame: `{"type":"game_event","event_type":"claim_accepted","data":{"claimer":"S","tricks_claimed":9}}`,
			check: func(t *testing.T, event game.TableEvent) {
				if event.ClaimAccepted == nil || event.ClaimAccepted.Claimer != "S" || event.ClaimAccepted.TricksClaimed != 9 {
					t.Fatalf("payload = %+v", event.ClaimAccepted)
				}
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			event, err := decodeFrame([]byte(tc.frame))
			if err != nil {
				t.Fatalf("decodeFrame returned error [%s]", err)
			}
			tc.check(t, event)
		})
	}
}

func TestDecodeFrameDDResult(t *testing.T) {
	// The extension sends the lead table at the top level of the frame.
	frame := `{"type":"dd_result","board":7,"tricks":{"E":{"S":4,"H":7,"D":5,"C":2}}}`
	event, err := decodeFrame([]byte(frame))
	if err != nil {
		t.Fatalf("decodeFrame returned error [%s]", err)
	}
	if event.Type != game.EventDDResult || event.DDResult == nil {
		t.Fatalf("event = %+v", event)
	}
	if event.DDResult.Board != 7 {
		t.Errorf("board = %d, expected 7", event.DDResult.Board)
	}
	if event.DDResult.Tricks["E"]["H"] != 7 {
		t.Errorf("tricks = %v", event.DDResult.Tricks)
	}
}

func TestDecodeFrameNativeEnvelope(t *testing.T) {
	// The dashboard replays events in the table's own envelope.
	frame := `{"type":"card_played","cardPlayed":{"player":"N","card":"SA"}}`
	event, err := decodeFrame([]byte(frame))
	if err != nil {
		t.Fatalf("decodeFrame returned error [%s]", err)
	}
	if event.CardPlayed == nil || event.CardPlayed.Card != "SA" {
		t.Fatalf("payload = %+v", event.CardPlayed)
	}

	frame = `{"type":"dd_result","ddResult":{"board":3,"tricks":{"W":{"S":2}}}}`
	event, err = decodeFrame([]byte(frame))
	if err != nil {
		t.Fatalf("decodeFrame returned error [%s]", err)
	}
	if event.DDResult == nil || event.DDResult.Board != 3 {
		t.Fatalf("payload = %+v", event.DDResult)
	}
}

func TestDecodeFrameRejectsBadInput(t *testing.T) {
	if _, err := decodeFrame([]byte(`{"type":"game_event","event_type":"shuffle","data":{}}`)); err == nil {
		t.Error("unknown game event type accepted")
	}
	if _, err := decodeFrame([]byte(`not json`)); err == nil {
		t.Error("non-JSON frame accepted")
	}
	if _, err := decodeFrame([]byte(`{"type":"game_event","event_type":"card_played","data":[1,2]}`)); err == nil {
		t.Error("mistyped payload accepted")
	}
}
