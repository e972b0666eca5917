package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	appmodel "pmdash/model"
)

type focusArea int

const (
	focusChat focusArea = iota
	focusOrders
)

type uiMode int

const (
	modeNormal uiMode = iota
	modeDraft
	modeAlert
	modeMetricPicker
	modeOrderDetail
	modeImagePrompt
)

// AppView owns presentation state and the bubbletea loop; all business
// state lives on the core data model.
type AppView struct {
	dataModel *appmodel.Model

	// UI Components
	transcript     viewport.Model
	input          textarea.Model
	loadingSpinner spinner.Model

	// Window state
	width  int
	height int
	ready  bool

	focus focusArea
	mode  uiMode

	// Blocking alert modal (approval failure)
	alertTitle string
	alertText  string

	// Transient one-line status notice
	notice string

	// Work-order panel state
	orderFilterInput textinput.Model
	orderFilterMode  bool
	selectedOrderIdx int
	filteredOrders   []int

	// Metric picker state
	selectedMetricIdx int

	// Image staging prompt
	imageInput textinput.Model

	quitting bool
}

// NewAppView creates the root view around the core data model.
func NewAppView(dataModel *appmodel.Model) AppView {
	input := textarea.New()
	input.Placeholder = "Ask the maintenance agent..."
	input.ShowLineNumbers = false
	input.SetHeight(2)
	input.CharLimit = 4000
	input.KeyMap.InsertNewline.SetEnabled(false)
	input.Focus()

	loadingSpinner := spinner.New()
	loadingSpinner.Spinner = spinner.Dot
	loadingSpinner.Style = AssistantStyle

	orderFilter := textinput.New()
	orderFilter.Placeholder = "filter work orders"
	orderFilter.CharLimit = 120

	imageInput := textinput.New()
	imageInput.Placeholder = "~/photos/bearing.jpg"
	imageInput.CharLimit = 400

	return AppView{
		dataModel:        dataModel,
		input:            input,
		loadingSpinner:   loadingSpinner,
		orderFilterInput: orderFilter,
		imageInput:       imageInput,
	}
}

// Init starts the polling timers and kicks off the first fetch cycle so the
// dashboard isn't empty while the first tick is pending.
func (a AppView) Init() tea.Cmd {
	cfg := a.dataModel.Config
	return tea.Batch(
		textarea.Blink,
		a.dataModel.PollFast(),
		a.dataModel.FetchWorkOrders(),
		appmodel.FastTickCmd(cfg.FastRefresh),
		appmodel.SlowTickCmd(cfg.SlowRefresh),
	)
}

// refreshTranscript rebuilds the viewport content from the transcript.
func (a *AppView) refreshTranscript() {
	var b strings.Builder
	for _, msg := range a.dataModel.Messages {
		switch msg.Role {
		case "user":
			prefix := UserStyle.Render("You ")
			if msg.HasImage {
				prefix += DimStyle.Render("[image] ")
			}
			b.WriteString(prefix + msg.Content + "\n\n")
		case "assistant":
			label := AssistantStyle.Render("Agent")
			if msg.IsError {
				label = ErrorStyle.Render("Agent")
			}
			body := msg.Content
			if msg.Rendered != "" {
				body = strings.TrimRight(msg.Rendered, "\n")
			}
			b.WriteString(label + "\n" + body + "\n\n")
		}
	}
	a.transcript.SetContent(b.String())
}

// refreshOrderFilter recomputes the visible work-order indexes from the
// current filter query.
func (a *AppView) refreshOrderFilter() {
	orders := a.dataModel.WorkOrders
	query := strings.TrimSpace(a.orderFilterInput.Value())

	a.filteredOrders = a.filteredOrders[:0]
	if query == "" {
		for i := range orders {
			a.filteredOrders = append(a.filteredOrders, i)
		}
	} else {
		targets := make([]string, len(orders))
		for i, order := range orders {
			targets[i] = order.ID + " " + order.Preview
		}
		for _, match := range fuzzyFind(query, targets) {
			a.filteredOrders = append(a.filteredOrders, match)
		}
	}

	if a.selectedOrderIdx >= len(a.filteredOrders) {
		a.selectedOrderIdx = len(a.filteredOrders) - 1
	}
	if a.selectedOrderIdx < 0 {
		a.selectedOrderIdx = 0
	}
}

func (a *AppView) resize() {
	chatHeight := a.height / 3
	if chatHeight < 8 {
		chatHeight = 8
	}
	inputHeight := 2

	a.transcript.Width = a.width - 4
	a.transcript.Height = chatHeight - inputHeight - 3
	if a.transcript.Height < 3 {
		a.transcript.Height = 3
	}
	a.input.SetWidth(a.width - 6)
	a.input.SetHeight(inputHeight)
}
