// Package metrics defines the sinks quotes are reported to. Sinks such as
// PromSink and InfluxSink record computed quotes and vehicle selections and
// can be combined with NewMultiSink. NewQuoteSink builds the configured sinks
// from the factory registry and returns a MultiSink when more than one is
// configured.
package metrics
