package ws

import (
	"encoding/json"
	"time"
)

type PreviewUpdatedEvent struct {
	Type      string      `json:"type"`
	SessionID string      `json:"session_id"`
	Preview   interface{} `json:"preview"`
	Timestamp string      `json:"timestamp"`
}

type SaveCompletedEvent struct {
	Type      string      `json:"type"`
	SessionID string      `json:"session_id"`
	Outcome   interface{} `json:"outcome"`
	Timestamp string      `json:"timestamp"`
}

// NotifyPreview pushes a freshly projected preview to the session's clients.
func (h *Hub) NotifyPreview(sessionID string, preview interface{}) {
	h.publish(sessionID, PreviewUpdatedEvent{
		Type:      "preview_updated",
		SessionID: sessionID,
		Preview:   preview,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Hub) NotifySaved(sessionID string, outcome interface{}) {
	h.publish(sessionID, SaveCompletedEvent{
		Type:      "save_completed",
		SessionID: sessionID,
		Outcome:   outcome,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Hub) publish(sessionID string, evt interface{}) {
	if h == nil || sessionID == "" {
		return
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	h.Broadcast(sessionID, b)
}
