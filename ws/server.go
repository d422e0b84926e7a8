package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"nhooyr.io/websocket"

	"voyager.com/bridgebot/game"
	"voyager.com/bridgebot/logging"
)

var wsLogger = logging.GetZeroLogger("ws::server", nil)

var wsJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// eventAck is sent back on the same socket after each event, so the
// extension can surface rejected plays to the user.
type eventAck struct {
	Type    string `json:"type"`
	Applied bool   `json:"applied"`
	Error   string `json:"error,omitempty"`
	Seat    string `json:"seat,omitempty"`
}

// Server accepts the browser extension's websocket connection and feeds
// its table events into the live table. One extension connects at a
// time; a second connection simply shares the same table.
type Server struct {
	manager    *game.Manager
	httpServer *http.Server
}

func NewServer(manager *game.Manager, port int) *Server {
	server := &Server{manager: manager}
	mux := http.NewServeMux()
	mux.HandleFunc("/events", server.handleEvents)
	server.httpServer = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
	return server
}

// Serve blocks until the listener fails or Shutdown is called.
func (s *Server) Serve() error {
	wsLogger.Info().Msg(fmt.Sprintf("Websocket ingestion listening on %s", s.httpServer.Addr))
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		// The extension runs on the browser's origin, not ours.
		InsecureSkipVerify: true,
	})
	if err != nil {
		wsLogger.Error().Msg(fmt.Sprintf("Websocket accept failed: %v", err))
		return
	}
	defer conn.Close(websocket.StatusInternalError, "closing")

	wsLogger.Info().Msg(fmt.Sprintf("Extension connected from %s", r.RemoteAddr))
	s.readLoop(r.Context(), conn)
	conn.Close(websocket.StatusNormalClosure, "")
}

func (s *Server) readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				wsLogger.Info().Msg("Extension disconnected")
			} else {
				wsLogger.Warn().Msg(fmt.Sprintf("Websocket read failed: %v", err))
			}
			return
		}

		event, err := decodeFrame(data)
		if err != nil {
			s.writeAck(ctx, conn, eventAck{Type: "ack", Error: err.Error()})
			continue
		}

		table := s.manager.Table()
		if table == nil {
			s.writeAck(ctx, conn, eventAck{Type: "ack", Error: "no table"})
			continue
		}

		reply := event.WithReply()
		table.SubmitEvent(event)
		result := <-reply

		ack := eventAck{Type: "ack", Applied: result.Applied}
		if result.Err != nil {
			ack.Error = result.Err.Error()
		}
		if result.ResolvedSeat != nil {
			ack.Seat = result.ResolvedSeat.Name()
		}
		s.writeAck(ctx, conn, ack)
	}
}

// extensionFrame is the envelope the browser extension sends: game
// events wrap their payload under data with the event name in
// event_type; dd_result carries its fields at the top level.
type extensionFrame struct {
	Type      string                    `json:"type"`
	EventType string                    `json:"event_type"`
	Data      json.RawMessage           `json:"data"`
	Board     int                       `json:"board"`
	Tricks    map[string]map[string]int `json:"tricks"`
}

// decodeFrame maps one inbound frame onto a table event. The extension
// envelope is translated; anything else is read as a native table event,
// which the dashboard uses when replaying.
func decodeFrame(data []byte) (game.TableEvent, error) {
	var frame extensionFrame
	if err := wsJSON.Unmarshal(data, &frame); err != nil {
		return game.TableEvent{}, game.InvalidMessageError{Msg: fmt.Sprintf("undecodable frame: %v", err)}
	}

	switch frame.Type {
	case "game_event":
		return decodeGameEvent(frame)
	case "dd_result":
		// The extension puts tricks at the top level; a native replay
		// frame nests them under ddResult and decodes below.
		if frame.Tricks != nil {
			return game.TableEvent{
				Type:     game.EventDDResult,
				DDResult: &game.DDResultEvent{Board: frame.Board, Tricks: frame.Tricks},
			}, nil
		}
	}

	var event game.TableEvent
	if err := wsJSON.Unmarshal(data, &event); err != nil {
		return game.TableEvent{}, game.InvalidMessageError{Msg: fmt.Sprintf("undecodable event: %v", err)}
	}
	return event, nil
}

func decodeGameEvent(frame extensionFrame) (game.TableEvent, error) {
	event := game.TableEvent{Type: frame.EventType}

	var payload interface{}
	switch frame.EventType {
	case game.EventNewDeal:
		event.NewDeal = &game.NewDealEvent{}
		payload = event.NewDeal
	case game.EventBidMade:
		event.BidMade = &game.BidMadeEvent{}
		payload = event.BidMade
	case game.EventCardPlayed:
		event.CardPlayed = &game.CardPlayedEvent{}
		payload = event.CardPlayed
	case game.EventClaimAccepted:
		event.ClaimAccepted = &game.ClaimAcceptedEvent{}
		payload = event.ClaimAccepted
	default:
		return game.TableEvent{}, game.InvalidMessageError{Msg: "unknown game event type: " + frame.EventType}
	}

	if len(frame.Data) > 0 {
		if err := wsJSON.Unmarshal(frame.Data, payload); err != nil {
			return game.TableEvent{}, game.InvalidMessageError{Msg: fmt.Sprintf("undecodable %s payload: %v", frame.EventType, err)}
		}
	}
	return event, nil
}

func (s *Server) writeAck(ctx context.Context, conn *websocket.Conn, ack eventAck) {
	data, err := wsJSON.Marshal(&ack)
	if err != nil {
		return
	}
	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := conn.Write(writeCtx, websocket.MessageText, data); err != nil {
		wsLogger.Warn().Msg(fmt.Sprintf("Failed to write ack: %v", err))
	}
}
