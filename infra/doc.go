// Package infra contains the technical adapters behind the interfaces
// declared in core, such as the MQTT quote publisher, metrics exporters
// and the toll service client.
package infra
