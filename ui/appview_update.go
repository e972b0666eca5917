package ui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"pmdash/config"
	appmodel "pmdash/model"
)

func (a AppView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.resize()
		a.refreshTranscript()
		return a, nil

	case fastTickMsg:
		// Teardown guard: once quitting, stop re-arming; scheduled work dies
		// with this tick.
		if a.quitting {
			return a, nil
		}
		return a, tea.Batch(
			a.dataModel.PollFast(),
			appmodel.FastTickCmd(a.dataModel.Config.FastRefresh),
		)

	case slowTickMsg:
		if a.quitting {
			return a, nil
		}
		return a, tea.Batch(
			a.dataModel.FetchWorkOrders(),
			appmodel.SlowTickCmd(a.dataModel.Config.SlowRefresh),
		)

	case summaryMsg:
		if a.quitting {
			return a, nil
		}
		a.dataModel.ApplySummary(msg)
		return a, nil

	case metricDataMsg:
		if a.quitting {
			return a, nil
		}
		a.dataModel.ApplyMetricData(msg)
		return a, nil

	case workOrdersMsg:
		if a.quitting {
			return a, nil
		}
		a.dataModel.ApplyWorkOrders(msg)
		a.refreshOrderFilter()
		return a, nil

	case chatReplyMsg:
		if a.quitting {
			return a, nil
		}
		var cmds []tea.Cmd
		cmds = append(cmds, a.dataModel.ApplyChatReply(msg))

		// Render the newest assistant reply as markdown off the loop.
		if idx := len(a.dataModel.Messages) - 1; idx >= 0 {
			last := a.dataModel.Messages[idx]
			if last.Role == "assistant" && !last.IsError {
				cmds = append(cmds, renderMarkdownCmd(idx, last.Content, a.transcript.Width))
			}
		}
		if a.dataModel.Sending {
			cmds = append(cmds, a.loadingSpinner.Tick)
		}
		a.refreshTranscript()
		a.transcript.GotoBottom()
		return a, tea.Batch(cmds...)

	case approvalMsg:
		if a.quitting {
			return a, nil
		}
		cmd := a.dataModel.ApplyApproval(msg)
		if msg.SessionID != a.dataModel.SessionID {
			return a, nil
		}
		if msg.Err != nil {
			// Blocking alert; the draft stays available for a retry.
			a.mode = modeAlert
			a.alertTitle = "Approval Failed"
			a.alertText = fmt.Sprintf(
				"The work order could not be filed:\n%v\n\nThe draft was kept - you can retry.", msg.Err)
			return a, cmd
		}
		if a.mode == modeDraft {
			a.mode = modeNormal
		}
		a.notice = "Work order filed."
		a.refreshTranscript()
		a.transcript.GotoBottom()
		return a, cmd

	case transcriptSavedMsg:
		if msg.Err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[UI] transcript save failed: %v", msg.Err)
		}
		return a, nil

	case imageStagedMsg:
		if msg.Err != nil {
			a.notice = fmt.Sprintf("Could not read image: %v", msg.Err)
			return a, nil
		}
		a.dataModel.StagedImage = msg.Attachment
		if msg.Attachment.Width > 0 {
			a.notice = fmt.Sprintf("Image staged (%dx%d).", msg.Attachment.Width, msg.Attachment.Height)
		} else {
			a.notice = "Image staged (original encoding)."
		}
		return a, nil

	case markdownRenderedMsg:
		if msg.MessageIndex < len(a.dataModel.Messages) {
			a.dataModel.Messages[msg.MessageIndex].Rendered = msg.Rendered
			a.refreshTranscript()
			a.transcript.GotoBottom()
		}
		return a, nil

	case spinner.TickMsg:
		if !a.dataModel.Sending && !a.dataModel.Approving {
			return a, nil
		}
		var cmd tea.Cmd
		a.loadingSpinner, cmd = a.loadingSpinner.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	return a, nil
}

func (a AppView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		a.quitting = true
		a.dataModel.Quitting = true
		return a, tea.Quit
	}

	switch a.mode {
	case modeAlert:
		return a.handleAlertKey(msg)
	case modeDraft:
		return a.handleDraftKey(msg)
	case modeMetricPicker:
		return a.handleMetricPickerKey(msg)
	case modeOrderDetail:
		return a.handleOrderDetailKey(msg)
	case modeImagePrompt:
		return a.handleImagePromptKey(msg)
	}
	return a.handleNormalKey(msg)
}

func (a AppView) handleNormalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a.notice = ""

	if a.orderFilterMode {
		switch msg.String() {
		case "enter", "esc":
			a.orderFilterMode = false
			a.orderFilterInput.Blur()
			if msg.String() == "esc" {
				a.orderFilterInput.Reset()
				a.refreshOrderFilter()
			}
			return a, nil
		}
		var cmd tea.Cmd
		a.orderFilterInput, cmd = a.orderFilterInput.Update(msg)
		a.refreshOrderFilter()
		return a, cmd
	}

	switch msg.String() {
	case "tab":
		if a.focus == focusChat {
			a.focus = focusOrders
			a.input.Blur()
		} else {
			a.focus = focusChat
			a.input.Focus()
		}
		return a, nil

	case "ctrl+p":
		if len(a.dataModel.MetricNames()) > 0 {
			a.mode = modeMetricPicker
			a.selectedMetricIdx = a.currentMetricIndex()
		}
		return a, nil

	case "ctrl+r":
		return a, tea.Batch(a.dataModel.PollFast(), a.dataModel.FetchWorkOrders())

	case "ctrl+n":
		a.dataModel.ResetSession()
		a.refreshTranscript()
		a.notice = "New session started."
		return a, nil

	case "ctrl+d":
		if a.dataModel.DraftPending {
			a.mode = modeDraft
		}
		return a, nil

	case "ctrl+o":
		if a.dataModel.StagedImage != nil {
			a.dataModel.RemoveStagedImage()
			a.notice = "Staged image removed."
			return a, nil
		}
		a.mode = modeImagePrompt
		a.imageInput.Reset()
		a.imageInput.Focus()
		return a, nil
	}

	if a.focus == focusOrders {
		return a.handleOrdersKey(msg)
	}

	switch msg.String() {
	case "pgup", "pgdown", "ctrl+u", "ctrl+f":
		var cmd tea.Cmd
		a.transcript, cmd = a.transcript.Update(msg)
		return a, cmd
	}

	if msg.String() == "enter" {
		text := strings.TrimSpace(a.input.Value())
		if text == "" && a.dataModel.StagedImage == nil {
			return a, nil
		}
		if !a.dataModel.CanSend() {
			a.notice = "A message is already queued - wait for the agent."
			return a, nil
		}
		cmd := a.dataModel.SendMessage(text)
		a.input.Reset()
		a.refreshTranscript()
		a.transcript.GotoBottom()
		return a, tea.Batch(cmd, a.loadingSpinner.Tick)
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a AppView) handleOrdersKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if a.selectedOrderIdx > 0 {
			a.selectedOrderIdx--
		}
	case "down", "j":
		if a.selectedOrderIdx < len(a.filteredOrders)-1 {
			a.selectedOrderIdx++
		}
	case "/":
		a.orderFilterMode = true
		a.orderFilterInput.Focus()
	case "enter":
		if _, ok := a.selectedOrder(); ok {
			a.mode = modeOrderDetail
		}
	case "c":
		if order, ok := a.selectedOrder(); ok {
			content := order.Content
			if content == "" {
				content = order.Preview
			}
			if err := clipboard.WriteAll(content); err == nil {
				a.notice = "Work order copied to clipboard."
			}
		}
	}
	return a, nil
}

func (a AppView) handleDraftKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y":
		cmd := a.dataModel.ApproveDraft()
		if cmd == nil {
			return a, nil
		}
		return a, tea.Batch(cmd, a.loadingSpinner.Tick)
	case "d":
		a.dataModel.DismissDraft()
		a.mode = modeNormal
		a.notice = "Draft dismissed."
		return a, nil
	case "c":
		if err := clipboard.WriteAll(a.dataModel.Draft); err == nil {
			a.notice = "Draft copied to clipboard."
		}
		return a, nil
	case "esc":
		// Close the review; the draft stays pending.
		a.mode = modeNormal
		return a, nil
	}
	return a, nil
}

func (a AppView) handleAlertKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		a.mode = modeNormal
		a.alertTitle = ""
		a.alertText = ""
	}
	return a, nil
}

func (a AppView) handleMetricPickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	names := a.dataModel.MetricNames()
	switch msg.String() {
	case "up", "k":
		if a.selectedMetricIdx > 0 {
			a.selectedMetricIdx--
		}
	case "down", "j":
		if a.selectedMetricIdx < len(names)-1 {
			a.selectedMetricIdx++
		}
	case "enter":
		a.mode = modeNormal
		if a.selectedMetricIdx < len(names) {
			return a, a.dataModel.SelectMetric(names[a.selectedMetricIdx])
		}
	case "esc":
		a.mode = modeNormal
	}
	return a, nil
}

func (a AppView) handleOrderDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter", "q":
		a.mode = modeNormal
	case "c":
		if order, ok := a.selectedOrder(); ok {
			content := order.Content
			if content == "" {
				content = order.Preview
			}
			if err := clipboard.WriteAll(content); err == nil {
				a.notice = "Work order copied to clipboard."
			}
		}
	}
	return a, nil
}

func (a AppView) handleImagePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		path := strings.TrimSpace(a.imageInput.Value())
		a.mode = modeNormal
		a.imageInput.Blur()
		if path == "" {
			return a, nil
		}
		return a, appmodel.StageImageCmd(path)
	case "esc":
		a.mode = modeNormal
		a.imageInput.Blur()
		return a, nil
	}
	var cmd tea.Cmd
	a.imageInput, cmd = a.imageInput.Update(msg)
	return a, cmd
}

// currentMetricIndex finds the selected metric's position in the picker list.
func (a AppView) currentMetricIndex() int {
	for i, name := range a.dataModel.MetricNames() {
		if name == a.dataModel.SelectedMetric {
			return i
		}
	}
	return 0
}
