package events

import (
	"context"
	"encoding/json"
)

// Broadcaster is the part of the websocket hub the publisher needs.
type Broadcaster interface {
	Broadcast(ctx context.Context, message []byte) error
}

type HubPublisher struct {
	hub Broadcaster
}

func NewHubPublisher(hub Broadcaster) *HubPublisher {
	return &HubPublisher{hub: hub}
}

func (p *HubPublisher) Publish(ctx context.Context, evt Event) error {
	msg, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return p.hub.Broadcast(ctx, msg)
}
