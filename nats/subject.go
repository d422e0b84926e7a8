package nats

import (
	"fmt"
)

// Inbound table events relayed from the browser extension.
func GetTableEventSubject() string {
	return "bridge.table.events"
}

// Outbound per-table updates consumed by the dashboard.
func GetTableUpdateSubject(tableID string) string {
	return fmt.Sprintf("bridge.table.%s.update", tableID)
}

// Outbound updates on a fixed subject for dashboards that do not track
// the table id.
func GetBroadcastSubject() string {
	return "bridge.table.update"
}
