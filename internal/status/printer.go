package status

import (
	"sync"

	"github.com/arcyniiegas/elysium/internal/broadcast"
)

var (
	mu               sync.RWMutex
	printerConnected bool
	callbacks        []func(bool)
)

type printerStatusMessage struct {
	Type      string `json:"type"`
	Connected bool   `json:"connected"`
}

func SetPrinterConnected(connected bool) {
	mu.Lock()
	changed := printerConnected != connected
	printerConnected = connected
	cbs := make([]func(bool), len(callbacks))
	copy(cbs, callbacks)
	mu.Unlock()

	if !changed {
		return
	}
	for _, cb := range cbs {
		cb(connected)
	}
	broadcast.Send(printerStatusMessage{Type: "printer_status", Connected: connected})
}

func IsPrinterConnected() bool {
	mu.RLock()
	defer mu.RUnlock()
	return printerConnected
}

// OnPrinterStatusChange registers a callback fired on every transition.
func OnPrinterStatusChange(cb func(bool)) {
	mu.Lock()
	defer mu.Unlock()
	callbacks = append(callbacks, cb)
}
