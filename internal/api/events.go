package api

import "github.com/inspectra/inspectra-core/internal/infrastructure/mqtt"

// publishEvent sends a fire-and-forget event to the broker.
//
// Events are best-effort: a missing client or a failed publish is
// logged and never fails the request that produced the event.
func (s *Server) publishEvent(topic string, payload any) {
	if s.mqtt == nil {
		return
	}
	if err := s.mqtt.PublishEvent(topic, payload); err != nil {
		s.logger.Warn("event publish failed", "topic", topic, "error", err)
	}
}

// topics is a shared instance of the topic builders.
var topics = mqtt.Topics{}
