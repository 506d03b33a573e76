package screen

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/lazybranch/internal/theme"
	"github.com/muesli/reflow/wordwrap"
)

// Key constants for navigation.
const (
	keyEnter    = "enter"
	keyEsc      = "esc"
	keyEscRaw   = "\x1b" // Raw escape byte for terminals that send ESC as a rune
	keyTab      = "tab"
	keyShiftTab = "shift+tab"
	keySpace    = " "
	keyQ        = "q"
	keyCtrlC    = "ctrl+c"
)

const (
	modalWidth = 60
	buttonGap  = "  "
)

// ConfirmScreen displays a modal confirmation prompt with Accept/Cancel buttons.
type ConfirmScreen struct {
	Message        string
	ConfirmLabel   string
	CancelLabel    string
	Destructive    bool // Render the confirm button in the error colour
	SelectedButton int  // 0 = Confirm, 1 = Cancel
	Thm            *theme.Theme

	// Callbacks
	OnConfirm func() tea.Cmd
	OnCancel  func() tea.Cmd
}

// NewConfirmScreen creates a confirm screen preloaded with a message.
func NewConfirmScreen(message string, thm *theme.Theme) *ConfirmScreen {
	return &ConfirmScreen{
		Message:      message,
		ConfirmLabel: "Confirm",
		CancelLabel:  "Cancel",
		Thm:          thm,
	}
}

// NewDestructiveConfirmScreen creates a confirmation modal for an irreversible
// action. Cancel is focused by default.
func NewDestructiveConfirmScreen(message, confirmLabel string, thm *theme.Theme) *ConfirmScreen {
	s := NewConfirmScreen(message, thm)
	s.ConfirmLabel = confirmLabel
	s.Destructive = true
	s.SelectedButton = 1
	return s
}

// Type returns the screen type.
func (s *ConfirmScreen) Type() Type {
	return TypeConfirm
}

func (s *ConfirmScreen) confirm() (Screen, tea.Cmd) {
	if s.OnConfirm != nil {
		return nil, s.OnConfirm()
	}
	return nil, nil
}

func (s *ConfirmScreen) cancel() (Screen, tea.Cmd) {
	if s.OnCancel != nil {
		return nil, s.OnCancel()
	}
	return nil, nil
}

// Update processes keyboard events for the confirmation dialog.
// Returns nil to signal that the screen should be closed.
func (s *ConfirmScreen) Update(msg tea.KeyMsg) (Screen, tea.Cmd) {
	switch msg.String() {
	case keyTab, "right", "l":
		s.SelectedButton = (s.SelectedButton + 1) % 2
	case keyShiftTab, "left", "h":
		s.SelectedButton = (s.SelectedButton + 1) % 2
	case "y", "Y":
		return s.confirm()
	case "n", "N", keyEsc, keyEscRaw, keyQ, keyCtrlC:
		return s.cancel()
	case keyEnter:
		if s.SelectedButton == 0 {
			return s.confirm()
		}
		return s.cancel()
	}
	return s, nil
}

// View renders the confirmation UI box with focused button highlighting.
func (s *ConfirmScreen) View() string {
	border := s.Thm.Accent
	confirmBg := s.Thm.Accent
	if s.Destructive {
		border = s.Thm.WarnFg
		confirmBg = s.Thm.ErrorFg
	}

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(1, 2).
		Width(modalWidth)

	messageStyle := lipgloss.NewStyle().
		Width(modalWidth - 4).
		Align(lipgloss.Center).
		Foreground(s.Thm.TextFg)

	buttonWidth := (modalWidth - 6) / 2
	confirmButton := renderButton(s.ConfirmLabel, buttonWidth, s.SelectedButton == 0, confirmBg, s.Thm)
	cancelButton := renderButton(s.CancelLabel, buttonWidth, s.SelectedButton == 1, s.Thm.Accent, s.Thm)

	content := fmt.Sprintf("%s\n\n%s%s%s",
		messageStyle.Render(wordwrap.String(s.Message, modalWidth-4)),
		confirmButton,
		buttonGap,
		cancelButton,
	)

	return boxStyle.Render(content)
}

// renderButton draws a bracketed button label, filled with focusBg when focused.
func renderButton(label string, width int, focused bool, focusBg lipgloss.Color, thm *theme.Theme) string {
	style := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 2)
	if focused {
		style = style.
			Foreground(thm.AccentFg).
			Background(focusBg).
			Bold(true)
	} else {
		style = style.
			Foreground(thm.MutedFg).
			Background(thm.BorderDim)
	}
	return style.Render("[" + label + "]")
}
