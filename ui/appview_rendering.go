package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"pmdash/api"
)

func (a AppView) View() string {
	if !a.ready {
		return "Initializing..."
	}
	if a.width < 60 || a.height < 20 {
		return "Terminal too small - pmdash needs at least 60x20."
	}

	switch a.mode {
	case modeDraft:
		return a.renderDraftModal()
	case modeAlert:
		return a.renderAlertModal()
	case modeMetricPicker:
		return a.renderMetricPicker()
	case modeOrderDetail:
		return a.renderOrderDetail()
	case modeImagePrompt:
		return a.renderImagePrompt()
	}

	header := a.renderHeader()
	chat := a.renderChatPanel()
	footer := a.renderFooter()

	bodyHeight := a.height - lipgloss.Height(header) - lipgloss.Height(chat) - lipgloss.Height(footer)
	if bodyHeight < 6 {
		bodyHeight = 6
	}

	leftWidth := (a.width * 3) / 5
	rightWidth := a.width - leftWidth

	left := lipgloss.JoinVertical(lipgloss.Left,
		a.renderSummaryPanel(leftWidth),
		a.renderSeriesPanel(leftWidth),
		a.renderAnomalyPanel(leftWidth),
	)
	right := lipgloss.JoinVertical(lipgloss.Left,
		a.renderImportancePanel(rightWidth),
		a.renderWorkOrdersPanel(rightWidth, bodyHeight),
	)

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, chat, footer)
}

func (a AppView) renderHeader() string {
	title := TitleStyle.Render("PMDASH") + DimStyle.Render("  "+a.dataModel.Version)

	status := DimStyle.Render("waiting for summary...")
	if summary := a.dataModel.Summary; summary != nil {
		zone := zoneStyle(summary.ISOZone).Render("Zone " + summary.ISOZone)
		status = fmt.Sprintf("%s  %s  %s",
			zone,
			summary.Status,
			DimStyle.Render("reading "+formatTimestamp(summary.DataTimestamp)))
	}

	line := lipgloss.JoinHorizontal(lipgloss.Center, title, "   ", status)

	// The staleness signal is recomputed on every render; "now" moves even
	// when the data does not.
	if a.dataModel.Stale(time.Now().UTC()) {
		banner := StaleBannerStyle.Render(
			"DATA IS STALE - last reading " + staleAge(a.dataModel.Summary.DataTimestamp, time.Now().UTC()) + " old")
		return lipgloss.JoinVertical(lipgloss.Left, line, banner)
	}
	return line
}

func (a AppView) renderSummaryPanel(width int) string {
	inner := width - 4
	var lines []string
	lines = append(lines, PanelTitleStyle.Render("Sensors"))

	summary := a.dataModel.Summary
	if summary == nil {
		lines = append(lines, DimStyle.Render("no data"))
	} else {
		for _, name := range a.dataModel.MetricNames() {
			value := formatValue(summary.Metrics[name])
			label := name
			if name == a.dataModel.SelectedMetric {
				label = SelectedStyle.Render(name)
			}
			line := fmt.Sprintf("%s  %s", label, value)
			if summary.Metrics[name+"_error_flag"] != 0 {
				line += " " + ErrorStyle.Render("!")
			}
			lines = append(lines, truncate(line, inner))
		}
	}

	return PanelStyle.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func (a AppView) renderSeriesPanel(width int) string {
	inner := width - 4
	title := PanelTitleStyle.Render("Forecast: " + a.dataModel.SelectedMetric)
	if a.dataModel.SeriesUnit != "" {
		title += DimStyle.Render(" (" + a.dataModel.SeriesUnit + ")")
	}

	spark := renderSparkline(a.dataModel.Series, inner)
	legend := DimStyle.Render("legend: ") +
		ObservedStyle.Render("observed ") +
		ErrorPointStyle.Render("flagged ") +
		ForecastStyle.Render("forecast")

	return PanelStyle.Width(width - 2).Render(strings.Join([]string{title, spark, legend}, "\n"))
}

func (a AppView) renderAnomalyPanel(width int) string {
	var lines []string
	lines = append(lines, PanelTitleStyle.Render("Anomaly Detection"))

	if latest, ok := a.dataModel.LatestAnomaly(); ok {
		state := GoodStyle.Render("Normal")
		if latest.Classification == "Anomaly" {
			state = ErrorStyle.Render("ANOMALY")
		}
		count := 0
		for _, p := range a.dataModel.Anomalies {
			if p.Classification == "Anomaly" {
				count++
			}
		}
		lines = append(lines,
			fmt.Sprintf("latest: %s  score %.4f  threshold %.4f", state, latest.Score, a.dataModel.AnomalyThreshold),
			DimStyle.Render(fmt.Sprintf("%d of %d recent points flagged", count, len(a.dataModel.Anomalies))),
		)
	} else {
		lines = append(lines, DimStyle.Render("no data"))
	}

	return PanelStyle.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func (a AppView) renderImportancePanel(width int) string {
	inner := width - 4
	var lines []string
	lines = append(lines, PanelTitleStyle.Render("Feature Importance"))

	entries := a.dataModel.Importance
	if len(entries) == 0 {
		lines = append(lines, DimStyle.Render("no data"))
	} else {
		if len(entries) > 10 {
			entries = entries[:10]
		}
		maxWeight := entries[0].Importance
		for _, entry := range entries {
			if entry.Importance > maxWeight {
				maxWeight = entry.Importance
			}
		}
		if maxWeight == 0 {
			maxWeight = 1
		}
		nameWidth := inner / 2
		barWidth := inner - nameWidth - 1
		for _, entry := range entries {
			bar := int(entry.Importance / maxWeight * float64(barWidth))
			if bar < 1 {
				bar = 1
			}
			lines = append(lines, fmt.Sprintf("%-*s %s",
				nameWidth, truncate(entry.Feature, nameWidth),
				AssistantStyle.Render(strings.Repeat("█", bar))))
		}
	}

	return PanelStyle.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func (a AppView) renderWorkOrdersPanel(width, maxHeight int) string {
	inner := width - 4
	title := PanelTitleStyle.Render("Work Orders")
	if a.focus == focusOrders {
		title = PanelTitleStyle.Render("Work Orders") + SelectedStyle.Render(" *")
	}

	var lines []string
	lines = append(lines, title)
	if a.orderFilterMode || a.orderFilterInput.Value() != "" {
		lines = append(lines, DimStyle.Render("/")+a.orderFilterInput.View())
	}

	if len(a.filteredOrders) == 0 {
		lines = append(lines, DimStyle.Render("no work orders"))
	}
	for pos, idx := range a.filteredOrders {
		if idx >= len(a.dataModel.WorkOrders) {
			continue
		}
		order := a.dataModel.WorkOrders[idx]
		line := fmt.Sprintf("%s  %s", formatTimestamp(order.CreatedAt), order.Preview)
		line = truncate(line, inner)
		if pos == a.selectedOrderIdx && a.focus == focusOrders {
			line = SelectedStyle.Render("> ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
		if len(lines) >= maxHeight-2 {
			break
		}
	}

	return PanelStyle.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func (a AppView) renderChatPanel() string {
	var statusParts []string
	if a.dataModel.Sending {
		statusParts = append(statusParts, a.loadingSpinner.View()+AssistantStyle.Render(" agent is thinking..."))
	}
	if a.dataModel.Approving {
		statusParts = append(statusParts, a.loadingSpinner.View()+AssistantStyle.Render(" filing work order..."))
	}
	if a.dataModel.StagedImage != nil {
		statusParts = append(statusParts, DimStyle.Render("[image staged: "+a.dataModel.StagedImage.SourcePath+"]"))
	}
	if a.dataModel.DraftPending {
		statusParts = append(statusParts, WarnStyle.Render("Draft ready - ctrl+d to review"))
	}
	if a.notice != "" {
		statusParts = append(statusParts, DimStyle.Render(a.notice))
	}
	status := strings.Join(statusParts, "  ")

	content := lipgloss.JoinVertical(lipgloss.Left,
		a.transcript.View(),
		status,
		a.input.View(),
	)
	return PanelStyle.Width(a.width - 2).Render(content)
}

func (a AppView) renderFooter() string {
	return HelpStyle.Render(
		"enter send · tab focus · ctrl+p metric · ctrl+d draft · ctrl+o image · ctrl+n new session · ctrl+r refresh · ctrl+c quit")
}

func (a AppView) renderDraftModal() string {
	modalWidth := a.width * 3 / 4
	if modalWidth > 100 {
		modalWidth = 100
	}

	title := TitleStyle.Render("Work Order Draft")
	body := strings.TrimRight(renderMarkdownText(a.dataModel.Draft, modalWidth), "\n")
	footer := HelpStyle.Render("y approve · d dismiss · c copy · esc keep for later")
	if a.dataModel.Approving {
		footer = a.loadingSpinner.View() + AssistantStyle.Render(" filing work order...")
	}

	modal := PanelStyle.Width(modalWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, "", body, "", footer))
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, modal)
}

func (a AppView) renderAlertModal() string {
	modalWidth := 64
	if a.width < modalWidth+6 {
		modalWidth = a.width - 6
	}

	title := ErrorStyle.Render(a.alertTitle)
	footer := HelpStyle.Render("Press Enter to acknowledge")
	modal := PanelStyle.BorderForeground(dangerColor).Width(modalWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, "", a.alertText, "", footer))
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, modal)
}

func (a AppView) renderMetricPicker() string {
	names := a.dataModel.MetricNames()
	var lines []string
	lines = append(lines, TitleStyle.Render("Select Metric"), "")
	for i, name := range names {
		if i == a.selectedMetricIdx {
			lines = append(lines, SelectedStyle.Render("> "+name))
		} else {
			lines = append(lines, "  "+name)
		}
	}
	lines = append(lines, "", HelpStyle.Render("j/k navigate · enter select · esc cancel"))

	modal := PanelStyle.Width(40).Render(strings.Join(lines, "\n"))
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, modal)
}

func (a AppView) renderOrderDetail() string {
	order, ok := a.selectedOrder()
	if !ok {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
			PanelStyle.Render("work order unavailable"))
	}

	modalWidth := a.width * 3 / 4
	if modalWidth > 100 {
		modalWidth = 100
	}

	content := order.Content
	if content == "" {
		content = order.Preview
	}

	title := TitleStyle.Render(order.ID) + DimStyle.Render("  "+formatTimestamp(order.CreatedAt))
	footer := HelpStyle.Render("c copy · esc close")
	modal := PanelStyle.Width(modalWidth).Render(
		lipgloss.JoinVertical(lipgloss.Left, title, "", renderMarkdownText(content, modalWidth), "", footer))
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, modal)
}

func (a AppView) renderImagePrompt() string {
	modalWidth := 64
	if a.width < modalWidth+6 {
		modalWidth = a.width - 6
	}

	lines := []string{
		TitleStyle.Render("Attach Image"),
		"",
		"Path to an image file. It will be scaled to fit 1024px",
		"and attached to your next message.",
		"",
		a.imageInput.View(),
		"",
		HelpStyle.Render("enter stage · esc cancel"),
	}
	modal := PanelStyle.Width(modalWidth).Render(strings.Join(lines, "\n"))
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, modal)
}

// selectedOrder resolves the highlighted work-order row, if any.
func (a AppView) selectedOrder() (api.WorkOrder, bool) {
	if a.selectedOrderIdx < 0 || a.selectedOrderIdx >= len(a.filteredOrders) {
		return api.WorkOrder{}, false
	}
	idx := a.filteredOrders[a.selectedOrderIdx]
	if idx < 0 || idx >= len(a.dataModel.WorkOrders) {
		return api.WorkOrder{}, false
	}
	return a.dataModel.WorkOrders[idx], true
}
