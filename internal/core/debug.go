package core

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// debugEnabled is a static toggle (not a per-call option, per the host API
// surface's diagnostics contract): once set, every object-header message
// parsed anywhere in the process logs its kind, address, and length.
var debugEnabled atomic.Bool

// SetDebug enables or disables per-message parse logging.
func SetDebug(enabled bool) {
	debugEnabled.Store(enabled)
}

// DebugEnabled reports the current debug toggle state.
func DebugEnabled() bool {
	return debugEnabled.Load()
}

func logParsedMessage(msgType MessageType, address uint64, length int) {
	if !debugEnabled.Load() {
		return
	}
	logrus.WithFields(logrus.Fields{
		"kind":    msgType,
		"address": address,
		"length":  length,
	}).Debug("parsed object header message")
}
