package ui

import (
	appmodel "pmdash/model"
)

// Message type alias so rendering code reads naturally
type Message = appmodel.Message

// Core message aliases - these are defined in the model package
type fastTickMsg = appmodel.FastTickMsg
type slowTickMsg = appmodel.SlowTickMsg
type summaryMsg = appmodel.SummaryMsg
type metricDataMsg = appmodel.MetricDataMsg
type workOrdersMsg = appmodel.WorkOrdersMsg
type chatReplyMsg = appmodel.ChatReplyMsg
type approvalMsg = appmodel.ApprovalMsg
type transcriptSavedMsg = appmodel.TranscriptSavedMsg
type imageStagedMsg = appmodel.ImageStagedMsg

// Presentation-only messages

type markdownRenderedMsg struct {
	MessageIndex int
	Rendered     string
}
