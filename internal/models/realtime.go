package models

import "encoding/json"

// EventTypeDM is the only realtime event type: an inbound send request and
// an outbound delivery share it.
const EventTypeDM = "dm"

// InboundEvent is what a client writes to its websocket.
// ToUserID is kept as a json.Number so a malformed recipient reference can
// be dropped by the router instead of failing the decode.
type InboundEvent struct {
	Type     string      `json:"type"`
	ToUserID json.Number `json:"to_user_id"`
	Text     string      `json:"text"`
}

// OutboundEvent is pushed to every live handle of the sender and receiver
// once a message is persisted.
type OutboundEvent struct {
	Type    string  `json:"type"`
	Message Message `json:"message"`
}

// NewDelivery wraps a persisted message into its outbound event.
func NewDelivery(msg Message) OutboundEvent {
	return OutboundEvent{Type: EventTypeDM, Message: msg}
}
