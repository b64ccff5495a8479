package components

import (
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"rts-lobby/internal/controllers"
)

// MaxChatLines bounds the scrollback kept by the chat log.
const MaxChatLines = 500

// ChatPanel is the group room chat log with its input line.
type ChatPanel struct {
	container  *fyne.Container
	log        *widget.List
	entry      *widget.Entry
	sendButton *widget.Button
	lines      []controllers.ChatLine

	submitHandler func(string)
}

func NewChatPanel(text Text) *ChatPanel {
	cp := &ChatPanel{}
	cp.createComponents(text)
	cp.buildLayout()
	cp.setupEventHandlers()
	return cp
}

func (cp *ChatPanel) createComponents(text Text) {
	cp.log = widget.NewList(
		func() int { return len(cp.lines) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id < 0 || id >= len(cp.lines) {
				return
			}
			line := cp.lines[id]
			label := obj.(*widget.Label)
			label.TextStyle = fyne.TextStyle{Italic: line.Action || line.System}
			switch {
			case line.System:
				label.Importance = widget.LowImportance
			case line.Private:
				label.Importance = widget.WarningImportance
			default:
				label.Importance = widget.MediumImportance
			}
			label.SetText(FormatChatLine(line))
		},
	)
	cp.log.OnSelected = func(widget.ListItemID) { cp.log.UnselectAll() }

	cp.entry = widget.NewEntry()
	cp.sendButton = widget.NewButton(text("button.send"), nil)
}

func (cp *ChatPanel) buildLayout() {
	input := container.NewBorder(nil, nil, nil, cp.sendButton, cp.entry)
	cp.container = container.NewBorder(nil, input, nil, nil, cp.log)
}

func (cp *ChatPanel) setupEventHandlers() {
	cp.entry.OnSubmitted = func(string) { cp.submit() }
	cp.sendButton.OnTapped = cp.submit
}

func (cp *ChatPanel) submit() {
	text := cp.entry.Text
	cp.entry.SetText("")
	if strings.TrimSpace(text) == "" || cp.submitHandler == nil {
		return
	}
	cp.submitHandler(text)
}

// FormatChatLine renders a line the way the chat log displays it.
func FormatChatLine(line controllers.ChatLine) string {
	switch {
	case line.System:
		return line.Text
	case line.Action:
		return "* " + line.From + " " + line.Text
	case line.Private:
		return "[" + line.From + "] " + line.Text
	default:
		return line.From + ": " + line.Text
	}
}

func (cp *ChatPanel) SetSubmitHandler(handler func(string)) {
	cp.submitHandler = handler
}

// Append adds a line and scrolls to it, dropping the oldest lines past
// MaxChatLines.
func (cp *ChatPanel) Append(line controllers.ChatLine) {
	cp.lines = append(cp.lines, line)
	if over := len(cp.lines) - MaxChatLines; over > 0 {
		cp.lines = append(cp.lines[:0], cp.lines[over:]...)
	}
	cp.log.Refresh()
	cp.log.ScrollToBottom()
}

func (cp *ChatPanel) Lines() []controllers.ChatLine {
	return cp.lines
}

func (cp *ChatPanel) Entry() *widget.Entry {
	return cp.entry
}

func (cp *ChatPanel) SendButton() *widget.Button {
	return cp.sendButton
}

// GetContainer returns the main container
func (cp *ChatPanel) GetContainer() *fyne.Container {
	return cp.container
}
