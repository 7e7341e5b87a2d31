package mqtt

import "fmt"

// Topic prefixes for the Inspectra MQTT hierarchy.
//
// Events are fire-and-forget notifications about registry and inspection
// activity; status is a retained presence topic for the service itself.
const (
	// TopicPrefixEvent is the base for all event topics.
	TopicPrefixEvent = "inspectra/event"

	// TopicPrefixSystem is the base for system topics.
	TopicPrefixSystem = "inspectra/system"
)

// Topics provides builders for Inspectra MQTT topics.
// Using these helpers ensures consistent topic naming across the codebase.
//
//	topics := mqtt.Topics{}
//	topic := topics.InspectionEvent("started", inspectionID)
//	// Returns: "inspectra/event/inspection/started/<id>"
type Topics struct{}

// InspectionEvent returns the topic for inspection lifecycle events.
//
// Example: inspectra/event/inspection/finalized/insp-abc123
func (Topics) InspectionEvent(event, inspectionID string) string {
	return fmt.Sprintf("%s/inspection/%s/%s", TopicPrefixEvent, event, inspectionID)
}

// DeviceEvent returns the topic for device registry events on a panel.
//
// Example: inspectra/event/devices/replaced/panel-abc123
func (Topics) DeviceEvent(event, panelID string) string {
	return fmt.Sprintf("%s/devices/%s/%s", TopicPrefixEvent, event, panelID)
}

// PanelEvent returns the topic for panel lifecycle events.
//
// Example: inspectra/event/panel/created/panel-abc123
func (Topics) PanelEvent(event, panelID string) string {
	return fmt.Sprintf("%s/panel/%s/%s", TopicPrefixEvent, event, panelID)
}

// SystemStatus returns the system status topic.
//
// Example: inspectra/system/status
func (Topics) SystemStatus() string {
	return fmt.Sprintf("%s/status", TopicPrefixSystem)
}

// AllEvents returns a pattern matching all event topics.
//
// Pattern: inspectra/event/#
func (Topics) AllEvents() string {
	return TopicPrefixEvent + "/#"
}
