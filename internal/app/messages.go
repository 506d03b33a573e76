package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	appscreen "github.com/chmouel/lazybranch/internal/app/screen"
	"github.com/chmouel/lazybranch/internal/git"
	"github.com/chmouel/lazybranch/internal/models"
)

// Message types for the Bubble Tea app
type (
	errMsg            struct{ err error }
	branchesLoadedMsg struct {
		branches []models.Branch
		err      error
	}
	branchDeletedMsg struct {
		repo          models.Repository
		branch        models.Branch
		includeRemote bool
		force         bool
		err           error
	}
	gitDirChangedMsg struct{}
)

func (m *Model) loadBranches() tea.Cmd {
	if m.services.git == nil {
		return nil
	}
	m.loading = true
	svc, ctx, repo := m.services.git, m.ctx, m.repo
	load := func() tea.Msg {
		branches, err := svc.ListBranches(ctx, repo)
		return branchesLoadedMsg{branches: branches, err: err}
	}
	return tea.Batch(load, m.state.ui.spinner.Tick)
}

func (m *Model) handleBranchesLoaded(msg branchesLoadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		m.showError(fmt.Sprintf("Error loading branches: %v", msg.err))
		return m, nil
	}

	selected := m.state.pending.SelectBranch
	if selected == "" {
		if b, ok := m.selectedBranch(); ok {
			selected = b.Name
		}
	}
	m.state.data.branches = msg.branches
	m.state.data.loaded = true
	m.updateTable(selected)
	m.state.pending.SelectBranch = ""

	if name := m.state.pending.OpenBranch; name != "" {
		m.state.pending.OpenBranch = ""
		for _, b := range msg.branches {
			if b.Name == name {
				m.selectBranch(name)
				return m, m.openDeleteDialog(b)
			}
		}
		m.showError(fmt.Sprintf("Branch %q not found in %s", name, m.repo.Name))
	}
	return m, nil
}

func (m *Model) updateTable(selected string) {
	rows := make([]table.Row, 0, len(m.state.data.branches))
	for _, b := range m.state.data.branches {
		name := "  " + b.Name
		if b.IsCurrent {
			name = "* " + b.Name
		}
		rows = append(rows, table.Row{name, b.Upstream, b.Hash, b.LastCommit})
	}
	m.state.ui.branchTable.SetRows(rows)

	if !m.selectBranch(selected) && m.state.ui.branchTable.Cursor() >= len(rows) {
		m.state.ui.branchTable.SetCursor(max(len(rows)-1, 0))
	}
}

func (m *Model) selectBranch(name string) bool {
	if name == "" {
		return false
	}
	for i, b := range m.state.data.branches {
		if b.Name == name {
			m.state.ui.branchTable.SetCursor(i)
			return true
		}
	}
	return false
}

// handleRemoteExistence routes a check result to the dialog that asked for it,
// which may sit below another screen.
func (m *Model) handleRemoteExistence(msg appscreen.RemoteExistenceMsg) {
	found := m.state.ui.screenManager.Find(func(s appscreen.Screen) bool {
		d, ok := s.(*appscreen.DeleteBranchScreen)
		return ok && d.ID() == msg.DialogID
	})
	if found == nil {
		m.debugf("dropping remote existence result for closed dialog %d", msg.DialogID)
		return
	}
	dialog := found.(*appscreen.DeleteBranchScreen)
	if dialog.ApplyRemoteExistence(msg) {
		m.debugf("remote existence for %s: %s", dialog.Branch.Name, dialog.RemoteExistence)
	}
}

func (m *Model) handleBranchDeleted(msg branchDeletedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	switch {
	case msg.err == nil:
		m.statusMessage = deletedStatus(msg)
		return m, m.loadBranches()
	case errors.Is(msg.err, git.ErrBranchNotMerged) && !msg.force:
		m.statusMessage = ""
		return m, m.confirmForceDelete(msg)
	default:
		m.statusMessage = ""
		m.showError(msg.err.Error())
		// a remote failure still removed the local branch
		return m, m.loadBranches()
	}
}

func deletedStatus(msg branchDeletedMsg) string {
	if msg.includeRemote && msg.branch.IsRemoteTracking() {
		return fmt.Sprintf("Deleted branch %s and %s", msg.branch.Name, msg.branch.Upstream)
	}
	return fmt.Sprintf("Deleted branch %s", msg.branch.Name)
}

func (m *Model) handleGitDirChanged() (tea.Model, tea.Cmd) {
	if m.services.watch == nil || !m.services.watch.Started {
		return m, nil
	}
	m.services.watch.ResetWaiting()
	cmds := []tea.Cmd{m.waitForGitWatchEvent()}
	if !m.loading && m.shouldRefreshGitEvent(time.Now()) {
		m.debugf("refs changed, reloading branches")
		cmds = append(cmds, m.loadBranches())
	}
	return m, tea.Batch(cmds...)
}
