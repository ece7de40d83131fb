package engine

import "errors"

// ErrClosed is returned by NextNotification once the engine has stopped and
// every notification has been received.
var ErrClosed = errors.New("engine: closed")
