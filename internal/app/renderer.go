package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// View renders the branch list and any active modal screen.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	// Wait for window size before rendering full UI
	if !m.state.view.Ready() {
		return "Loading..."
	}

	header := m.renderHeader()
	footer := m.renderFooter()
	body := m.renderBody()

	maxBodyLines := m.state.view.WindowHeight - 2 // 1 for header, 1 for footer
	body = truncateToHeight(body, maxBodyLines)

	baseView := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)

	if m.state.ui.screenManager.IsActive() {
		return m.overlayPopup(baseView, m.state.ui.screenManager.Current().View(), 3)
	}
	return baseView
}

func (m *Model) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(m.theme.Accent).Render("lazybranch")
	repo := lipgloss.NewStyle().Foreground(m.theme.MutedFg).Render(m.repo.Name)
	count := ""
	if m.state.data.loaded {
		count = lipgloss.NewStyle().Foreground(m.theme.MutedFg).
			Render(fmt.Sprintf("(%d branches)", len(m.state.data.branches)))
	}
	return strings.TrimRight(strings.Join([]string{title, repo, count}, " "), " ")
}

func (m *Model) renderBody() string {
	if m.state.data.loaded && len(m.state.data.branches) == 0 {
		return lipgloss.NewStyle().Foreground(m.theme.MutedFg).Render("No local branches.")
	}
	return m.state.ui.branchTable.View()
}

func (m *Model) renderFooter() string {
	muted := lipgloss.NewStyle().Foreground(m.theme.MutedFg)
	if m.loading {
		label := "Loading branches..."
		if m.statusMessage != "" {
			label = m.statusMessage
		}
		return m.state.ui.spinner.View() + " " + muted.Render(label)
	}
	hints := muted.Render("D: delete  r: reload  q: quit")
	if m.statusMessage == "" {
		return hints
	}
	status := lipgloss.NewStyle().Foreground(m.theme.SuccessFg).Render(m.statusMessage)
	return status + "  " + hints
}

// overlayPopup overlays a popup on top of the base view, preserving
// the portions of the base that fall outside the popup bounds so that
// underlying box borders remain visible.
func (m *Model) overlayPopup(base, popup string, marginTop int) string {
	if base == "" || popup == "" {
		return base
	}

	baseLines := strings.Split(base, "\n")
	popupLines := strings.Split(popup, "\n")

	baseWidth := max(lipgloss.Width(base), m.state.view.WindowWidth)
	popupWidth := lipgloss.Width(popup)
	leftPad := max((baseWidth-popupWidth)/2, 0)

	// pad the base so the popup is never clipped on a short list
	for len(baseLines) < marginTop+len(popupLines) {
		baseLines = append(baseLines, "")
	}

	for i, line := range popupLines {
		row := marginTop + i

		// Preserve left and right portions of the base line using
		// ANSI-aware truncation so box borders stay intact.
		leftPart := ansi.Truncate(baseLines[row], leftPad, "")
		if w := lipgloss.Width(leftPart); w < leftPad {
			leftPart += strings.Repeat(" ", leftPad-w)
		}
		rightPart := ansi.TruncateLeft(baseLines[row], leftPad+popupWidth, "")

		baseLines[row] = leftPart + line + rightPart
	}

	return strings.Join(baseLines, "\n")
}

// truncateToHeight ensures output doesn't exceed maxLines.
func truncateToHeight(s string, maxLines int) string {
	lines := strings.Split(s, "\n")
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
	}
	return strings.Join(lines, "\n")
}
