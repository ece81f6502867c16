package monitoring

import (
	"sync"
	"time"
)

// Monitor reports unexpected errors to an external tracker.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	CaptureMessage(msg string, tags map[string]string)
	Recover()
	Flush(timeout time.Duration)
}

type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) CaptureMessage(string, map[string]string)  {}
func (NopMonitor) Recover()                                  {}
func (NopMonitor) Flush(time.Duration)                       {}

var (
	mu      sync.RWMutex
	current Monitor = NopMonitor{}
)

// Init sets the global monitor implementation. A nil monitor is ignored.
func Init(m Monitor) {
	if m == nil {
		return
	}
	mu.Lock()
	current = m
	mu.Unlock()
}

// Current returns the global monitor.
func Current() Monitor {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// CaptureException records the error with optional tags.
func CaptureException(err error, tags map[string]string) {
	if err == nil {
		return
	}
	Current().CaptureException(err, tags)
}

func CaptureMessage(msg string, tags map[string]string) {
	Current().CaptureMessage(msg, tags)
}

// Recover captures panics in goroutines. It must be deferred directly.
func Recover() {
	if r := recover(); r != nil {
		m := Current()
		if rp, ok := m.(RecoveredPanicReporter); ok {
			rp.ReportPanic(r)
		}
		panic(r)
	}
}

// RecoveredPanicReporter is implemented by monitors able to record a value
// recovered by Recover.
type RecoveredPanicReporter interface {
	ReportPanic(v any)
}

// Flush flushes buffered events.
func Flush(d time.Duration) {
	Current().Flush(d)
}
