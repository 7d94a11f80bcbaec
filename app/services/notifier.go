package services

// Notifier is the port services emit store events through. The websocket hub
// implements it in production; tests substitute a recorder. Events must only
// be emitted after the transaction that produced them commits.
type Notifier interface {
	Emit(event string, payload interface{})
}

// Event names and their payload actions.
const (
	EventSupplierUpdate     = "supplier-update"
	EventUpdate             = "update"
	EventOrderAdded         = "order-added"
	EventOrderStatusUpdated = "order-status-updated"
)

// NopNotifier discards every event.
type NopNotifier struct{}

// Emit implements Notifier.
func (NopNotifier) Emit(string, interface{}) {}
