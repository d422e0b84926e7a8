package nats

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
	natsgo "github.com/nats-io/nats.go"

	"voyager.com/bridgebot/game"
	"voyager.com/bridgebot/logging"
)

// NatsTable is the adapter between the NATS server and the table actor.
// Inbound table events arrive on a shared subject and are queued into
// the table; every table update the actor emits is published for the
// dashboard.
//
// protocols supported
// bridge.table.events          extension/relay -> table
// bridge.table.update          table -> all dashboards
// bridge.table.<id>.update     table -> dashboards tracking this table

var natsLogger = logging.GetZeroLogger("nats::table", nil)

var natsJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// tableUpdateMessage is the outbound envelope.
type tableUpdateMessage struct {
	Type    string      `json:"type"`
	TableID string      `json:"tableId"`
	Payload interface{} `json:"payload"`
}

type NatsTable struct {
	natsConn *natsgo.Conn

	tableUpdateSubject string

	eventSubscription *natsgo.Subscription

	serverTable *game.Table
	tableID     string
}

// Connect opens the NATS connection used by the adapter.
func Connect(url string) (*natsgo.Conn, error) {
	nc, err := natsgo.Connect(url)
	if err != nil {
		natsLogger.Error().Msg(fmt.Sprintf("Failed to connect to NATS server at %s", url))
		return nil, err
	}
	return nc, nil
}

func NewNatsTable(nc *natsgo.Conn) *NatsTable {
	return &NatsTable{natsConn: nc}
}

// AttachTable binds the adapter to the live table and subscribes to the
// inbound event subject. Must be called once, after the table is
// initialized.
func (n *NatsTable) AttachTable(table *game.Table, tableID string) error {
	n.serverTable = table
	n.tableID = tableID
	n.tableUpdateSubject = GetTableUpdateSubject(tableID)

	subject := GetTableEventSubject()
	var err error
	n.eventSubscription, err = n.natsConn.Subscribe(subject, n.onTableEvent)
	if err != nil {
		natsLogger.Error().Msg(fmt.Sprintf("Failed to subscribe to %s", subject))
		return err
	}
	natsLogger.Info().
		Str(logging.SessionIDKey, tableID).
		Msg(fmt.Sprintf("Listening for table events on %s", subject))
	return nil
}

func (n *NatsTable) Cleanup() {
	if n.eventSubscription != nil {
		n.eventSubscription.Unsubscribe()
	}
}

// message sent from the extension relay to the table
func (n *NatsTable) onTableEvent(msg *natsgo.Msg) {
	var event game.TableEvent
	if err := natsJSON.Unmarshal(msg.Data, &event); err != nil {
		natsLogger.Warn().
			Str(logging.SessionIDKey, n.tableID).
			Msg(fmt.Sprintf("Dropping undecodable table event: %v", err))
		return
	}
	if n.serverTable == nil {
		return
	}
	n.serverTable.SubmitEvent(event)
}

// BroadcastTableUpdate implements game.TableMessageReceiver. Publishes
// never block; a marshal or publish failure is logged and dropped.
func (n *NatsTable) BroadcastTableUpdate(eventType string, payload interface{}) {
	message := tableUpdateMessage{
		Type:    eventType,
		TableID: n.tableID,
		Payload: payload,
	}
	data, err := natsJSON.Marshal(&message)
	if err != nil {
		natsLogger.Error().
			Str(logging.SessionIDKey, n.tableID).
			Msg(fmt.Sprintf("Failed to marshal %s update: %v", eventType, err))
		return
	}
	if err := n.natsConn.Publish(GetBroadcastSubject(), data); err != nil {
		natsLogger.Error().
			Str(logging.SessionIDKey, n.tableID).
			Msg(fmt.Sprintf("Failed to publish %s update: %v", eventType, err))
	}
	if n.tableUpdateSubject != "" {
		n.natsConn.Publish(n.tableUpdateSubject, data)
	}
}
