// Package mqtt provides the MQTT client used to publish Inspectra events.
//
// The service publishes fire-and-forget notifications when inspections
// start or finalise and when a panel's device registry changes, plus a
// retained online/offline status with an LWT for crash detection. The
// broker is optional; when disabled in config the service runs without
// event publishing and every publisher receives a nil client.
package mqtt
