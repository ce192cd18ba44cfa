package assistant

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Fixed user-facing chat strings. Tests assert on these; changing them is a
// product decision, not a refactor.
const (
	// ChatFallbackText replaces a reply whose ai_response field is absent.
	ChatFallbackText = "I'm sorry, I couldn't come up with a response. Please try asking again."
	// ChatErrorText is appended as an error bubble on any transport or HTTP
	// failure. The underlying status is never surfaced to the user.
	ChatErrorText = "I'm having trouble responding right now. Please try again in a moment."
)

// SendMessage runs one chat turn. It is a no-op (ok=false) when the trimmed
// text is empty or another request is already in flight; rejected sends are
// not queued. On success the returned message is the assistant reply; on
// transport/HTTP failure it is an error bubble. Failures are terminal and
// local: they are rendered into the transcript, never returned as errors.
func (c *Controller) SendMessage(ctx context.Context, text string) (ChatMessage, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return ChatMessage{}, false
	}

	c.mu.Lock()
	if c.typing {
		c.mu.Unlock()
		c.record(ctx, "assistant.chat.rejected", map[string]any{"username": c.viewer.Username})
		return ChatMessage{}, false
	}
	c.typing = true
	user := newChatMessage(text, SenderUser, false)
	c.transcript = append(c.transcript, user)
	c.mu.Unlock()

	c.broadcast(ctx, EventChatSent, map[string]any{"message_id": user.ID})

	reply, err := c.opts.Client.Chat(ctx, ChatRequest{
		Message:  text,
		Username: c.viewer.Username,
	})

	var msg ChatMessage
	switch {
	case err != nil:
		msg = newChatMessage(ChatErrorText, SenderAssistant, true)
		c.record(ctx, "assistant.chat.error", map[string]any{
			"username": c.viewer.Username,
			"error":    err.Error(),
		})
	case strings.TrimSpace(reply.AIResponse) == "":
		msg = newChatMessage(ChatFallbackText, SenderAssistant, false)
	default:
		msg = newChatMessage(reply.AIResponse, SenderAssistant, false)
	}

	c.mu.Lock()
	c.transcript = append(c.transcript, msg)
	c.typing = false
	c.mu.Unlock()

	c.broadcast(ctx, EventChatReplied, map[string]any{
		"message_id": msg.ID,
		"is_error":   msg.IsError,
	})
	c.record(ctx, "assistant.chat.turn", map[string]any{
		"username": c.viewer.Username,
		"is_error": msg.IsError,
	})
	return msg, true
}

// ToggleChat flips the expanded/collapsed state. Pure state flip; the only
// side channel is persisting the preference for the viewer.
func (c *Controller) ToggleChat(ctx context.Context) bool {
	c.mu.Lock()
	c.expanded = !c.expanded
	expanded := c.expanded
	c.mu.Unlock()

	prefs, err := c.opts.Preferences.Preferences(ctx, c.viewer)
	if err == nil {
		prefs.ChatExpanded = expanded
		_ = c.opts.Preferences.SavePreferences(ctx, c.viewer, prefs)
	}

	c.broadcast(ctx, EventChatToggled, map[string]any{"expanded": expanded})
	return expanded
}

// Expanded reports whether the chat box is open.
func (c *Controller) Expanded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expanded
}

// Typing reports whether a chat request is in flight.
func (c *Controller) Typing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.typing
}

// Transcript returns a copy of the ordered chat transcript.
func (c *Controller) Transcript() []ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]ChatMessage, len(c.transcript))
	copy(out, c.transcript)
	return out
}

func newChatMessage(text string, sender Sender, isError bool) ChatMessage {
	return ChatMessage{
		ID:      uuid.NewString(),
		Text:    text,
		Sender:  sender,
		IsError: isError,
		SentAt:  time.Now().UTC(),
	}
}
