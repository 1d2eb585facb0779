package sse

import "errors"

// ErrHubFull is returned when a hub's broadcast buffer is full
var ErrHubFull = errors.New("sse hub buffer full")
