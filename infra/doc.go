// Package infra groups the adapters behind the core interfaces: the MQTT
// plan publisher, the metrics sinks, KPI storage and logging.
package infra
