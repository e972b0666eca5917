package model

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/disintegration/imaging"

	"pmdash/config"
)

// Staged images are capped at 1024 on the longest edge and re-encoded as
// JPEG at quality 80 before being attached to a chat request.
const (
	maxImageEdge = 1024
	jpegQuality  = 80
)

// Attachment is a staged, send-ready image.
type Attachment struct {
	SourcePath string
	Base64     string
	Width      int
	Height     int
}

// StageImageCmd loads and prepares an image off the update loop.
func StageImageCmd(path string) tea.Cmd {
	return func() tea.Msg {
		attachment, err := PrepareImage(path)
		return ImageStagedMsg{Attachment: attachment, Err: err}
	}
}

// PrepareImage produces a bounded, base64-encoded representation of the
// image file. Decode or re-encode failures degrade to the original bytes
// encoded as-is; only an unreadable file is an error.
func PrepareImage(path string) (*Attachment, error) {
	raw, err := os.ReadFile(config.ExpandPath(path))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(raw))
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Image] decode failed, sending original bytes: %v", err)
		}
		return &Attachment{SourcePath: path, Base64: base64.StdEncoding.EncodeToString(raw)}, nil
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width > maxImageEdge || height > maxImageEdge {
		// One uniform scale factor; the shorter edge follows proportionally.
		if width >= height {
			img = imaging.Resize(img, maxImageEdge, 0, imaging.Lanczos)
		} else {
			img = imaging.Resize(img, 0, maxImageEdge, imaging.Lanczos)
		}
		bounds = img.Bounds()
		width, height = bounds.Dx(), bounds.Dy()
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(jpegQuality)); err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Image] re-encode failed, sending original bytes: %v", err)
		}
		return &Attachment{SourcePath: path, Base64: base64.StdEncoding.EncodeToString(raw), Width: width, Height: height}, nil
	}

	return &Attachment{
		SourcePath: path,
		Base64:     base64.StdEncoding.EncodeToString(buf.Bytes()),
		Width:      width,
		Height:     height,
	}, nil
}

// RemoveStagedImage clears any staged image without sending it.
func (m *Model) RemoveStagedImage() {
	m.StagedImage = nil
}
