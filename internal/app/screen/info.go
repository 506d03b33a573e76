package screen

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/chmouel/lazybranch/internal/theme"
	"github.com/muesli/reflow/wordwrap"
)

// InfoScreen displays a modal message with an OK button.
type InfoScreen struct {
	Message string
	IsError bool
	Thm     *theme.Theme

	// Callback
	OnClose func() tea.Cmd
}

// NewInfoScreen creates an informational modal with an OK button.
func NewInfoScreen(message string, thm *theme.Theme) *InfoScreen {
	return &InfoScreen{
		Message: message,
		Thm:     thm,
	}
}

// NewErrorScreen creates an informational modal styled as an error.
func NewErrorScreen(message string, thm *theme.Theme) *InfoScreen {
	s := NewInfoScreen(message, thm)
	s.IsError = true
	return s
}

// Type returns the screen type.
func (s *InfoScreen) Type() Type {
	return TypeInfo
}

// Update processes keyboard events for the info dialog.
// Returns nil to signal that the screen should be closed.
func (s *InfoScreen) Update(msg tea.KeyMsg) (Screen, tea.Cmd) {
	switch msg.String() {
	case keyEnter, keyEsc, keyEscRaw, keyQ, keyCtrlC, keySpace:
		if s.OnClose != nil {
			return nil, s.OnClose()
		}
		return nil, nil
	}
	return s, nil
}

// View renders the informational UI box with a single OK button.
func (s *InfoScreen) View() string {
	border := s.Thm.Accent
	if s.IsError {
		border = s.Thm.ErrorFg
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

	content := fmt.Sprintf("%s\n\n%s",
		messageStyle.Render(wordwrap.String(s.Message, modalWidth-4)),
		renderButton("OK", modalWidth-6, true, border, s.Thm),
	)

	return boxStyle.Render(content)
}
