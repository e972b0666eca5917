package model

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"pmdash/api"
	"pmdash/config"
	"pmdash/storage"
)

// The agent can take a while when it runs retrieval on top of generation.
const chatTimeout = 120 * time.Second

// DefaultImagePrompt is substituted when the operator attaches an image
// without any text, so the agent always receives a non-empty instruction.
const DefaultImagePrompt = "Please review the attached image."

type outgoingMessage struct {
	Text        string
	ImageBase64 string
}

// CanSend reports whether a new send can be accepted right now. Sends are
// serialized per session through a single-slot queue: one request in flight,
// at most one staged behind it.
func (m *Model) CanSend() bool {
	return !(m.Sending && m.pendingSend != nil)
}

// SendMessage appends the operator's message to the transcript and issues
// the chat request. Empty text with no staged image is a no-op. The user
// message is appended immediately (optimistic) and the staged image is
// consumed, regardless of how the round-trip ends. When a send is already in
// flight the message is staged in the queue slot and dispatched once the
// in-flight send resolves, so transcript order always matches call order.
func (m *Model) SendMessage(text string) tea.Cmd {
	text = strings.TrimSpace(text)
	if text == "" && m.StagedImage == nil {
		return nil
	}
	if !m.CanSend() {
		return nil
	}
	if text == "" {
		text = DefaultImagePrompt
	}

	var imageBase64 string
	if m.StagedImage != nil {
		imageBase64 = m.StagedImage.Base64
	}
	m.StagedImage = nil

	m.Messages = append(m.Messages, Message{
		Role:      "user",
		Content:   text,
		HasImage:  imageBase64 != "",
		Timestamp: time.Now(),
	})

	out := &outgoingMessage{Text: text, ImageBase64: imageBase64}
	if m.Sending {
		m.pendingSend = out
		return nil
	}

	m.Sending = true
	return m.dispatchSend(out)
}

func (m *Model) dispatchSend(out *outgoingMessage) tea.Cmd {
	client := m.Client
	sessionID := m.SessionID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), chatTimeout)
		defer cancel()

		reply, err := client.Chat(ctx, api.ChatRequest{
			Message:     out.Text,
			SessionID:   sessionID,
			ImageBase64: out.ImageBase64,
		})
		return ChatReplyMsg{SessionID: sessionID, Reply: reply, Err: err}
	}
}

// ApplyChatReply folds the agent's reply into the transcript, arms the draft
// indicator when the reply carries draft content, and dispatches any staged
// send. The loading flag is cleared on every path. Replies belonging to a
// session that has since been reset are dropped.
func (m *Model) ApplyChatReply(msg ChatReplyMsg) tea.Cmd {
	if msg.SessionID != m.SessionID {
		return nil
	}

	if msg.Err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Chat] send failed: %v", msg.Err)
		}
		m.Messages = append(m.Messages, Message{
			Role:      "assistant",
			Content:   "I could not reach the maintenance agent. Please try again.",
			IsError:   true,
			Timestamp: time.Now(),
		})
	} else {
		m.Messages = append(m.Messages, Message{
			Role:      "assistant",
			Content:   msg.Reply.Response,
			Timestamp: time.Now(),
		})
		if draft := strings.TrimSpace(msg.Reply.Draft); draft != "" {
			// A new proposed draft replaces any prior one, no merge.
			m.Draft = draft
			m.DraftPending = true
		}
	}

	m.Sending = false

	cmds := []tea.Cmd{m.saveTranscript()}
	if m.pendingSend != nil {
		out := m.pendingSend
		m.pendingSend = nil
		m.Sending = true
		cmds = append(cmds, m.dispatchSend(out))
	}
	return tea.Batch(cmds...)
}

// ApproveDraft commits the pending draft. Valid only when a draft is present
// and no approval is already in flight.
func (m *Model) ApproveDraft() tea.Cmd {
	if m.Draft == "" || m.Approving {
		return nil
	}
	m.Approving = true

	client := m.Client
	sessionID := m.SessionID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		result, err := client.ApproveWorkOrder(ctx, sessionID)
		return ApprovalMsg{SessionID: sessionID, Result: result, Err: err}
	}
}

// ApplyApproval folds an approval completion back in. On failure the draft
// is left intact so the operator can retry with the same session; the UI
// raises the blocking alert. The approving flag clears on every path.
func (m *Model) ApplyApproval(msg ApprovalMsg) tea.Cmd {
	if msg.SessionID != m.SessionID {
		return nil
	}

	m.Approving = false
	if msg.Err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Chat] approval failed: %v", msg.Err)
		}
		return nil
	}

	m.Draft = ""
	m.DraftPending = false
	m.Messages = append(m.Messages, Message{
		Role:      "assistant",
		Content:   fmt.Sprintf("Work order %s has been approved and filed.", msg.Result.WorkOrderID),
		Timestamp: time.Now(),
	})
	return m.saveTranscript()
}

// DismissDraft clears the pending draft locally. No network call; the
// server-side draft store simply gets replaced on the next proposal.
func (m *Model) DismissDraft() {
	m.Draft = ""
	m.DraftPending = false
}

// ResetSession clears the transcript, the draft, the staged image and any
// staged send, and issues a fresh session identifier. The server is not
// notified; its session state is orphaned. Late completions carrying the old
// session id are discarded by the Apply methods.
func (m *Model) ResetSession() {
	m.SessionID = uuid.New().String()
	m.Messages = nil
	m.Draft = ""
	m.DraftPending = false
	m.StagedImage = nil
	m.pendingSend = nil
	m.Sending = false
	m.Approving = false
}

// saveTranscript persists the current transcript to the local archive.
func (m *Model) saveTranscript() tea.Cmd {
	if m.Archive == nil {
		return nil
	}

	archive := m.Archive
	sessionID := m.SessionID
	transcript := make([]storage.TranscriptMessage, 0, len(m.Messages))
	for _, msg := range m.Messages {
		if msg.Role != "user" && msg.Role != "assistant" {
			continue
		}
		transcript = append(transcript, storage.TranscriptMessage{
			Role:      msg.Role,
			Content:   msg.Content,
			HasImage:  msg.HasImage,
			Timestamp: msg.Timestamp,
		})
	}

	return func() tea.Msg {
		return TranscriptSavedMsg{Err: archive.SaveTranscript(sessionID, transcript)}
	}
}
