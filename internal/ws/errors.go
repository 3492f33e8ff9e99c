package ws

import "errors"

var ErrHubStopped = errors.New("websocket hub stopped")
