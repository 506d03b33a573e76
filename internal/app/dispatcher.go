package app

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	appscreen "github.com/chmouel/lazybranch/internal/app/screen"
	"github.com/chmouel/lazybranch/internal/models"
)

// DeleteBranch starts the deletion chosen in the delete dialog. The force
// flag comes from configuration.
func (m *Model) DeleteBranch(repo models.Repository, branch models.Branch, includeRemote bool) tea.Cmd {
	return m.deleteBranchCmd(repo, branch, includeRemote, m.config.ForceDelete)
}

// CloseDialog removes the delete dialog if it is the active screen.
func (m *Model) CloseDialog() tea.Cmd {
	if m.state.ui.screenManager.PopType(appscreen.TypeDeleteBranch) == nil {
		m.debugf("close dialog: no delete dialog on screen")
	}
	return nil
}

func (m *Model) deleteBranchCmd(repo models.Repository, branch models.Branch, includeRemote, force bool) tea.Cmd {
	if m.services.git == nil {
		return nil
	}
	m.debugf("deleting branch %s (remote=%v force=%v)", branch.Name, includeRemote, force)
	m.loading = true
	m.statusMessage = fmt.Sprintf("Deleting %s...", branch.Name)
	m.state.pending.SelectBranch = ""

	svc, ctx := m.services.git, m.ctx
	del := func() tea.Msg {
		err := svc.DeleteBranch(ctx, repo, branch, includeRemote, force)
		return branchDeletedMsg{repo: repo, branch: branch, includeRemote: includeRemote, force: force, err: err}
	}
	return tea.Batch(del, m.state.ui.spinner.Tick)
}

func (m *Model) openDeleteDialog(branch models.Branch) tea.Cmd {
	if branch.IsCurrent {
		m.showInfo(fmt.Sprintf("Cannot delete %s: it is the checked-out branch.", branch.Name))
		return nil
	}

	var checker appscreen.RemoteChecker
	if m.services.git != nil {
		checker = m.services.git.CheckBranchExistsOnRemote
	}
	dialog := appscreen.NewDeleteBranchScreen(appscreen.DeleteBranchOptions{
		Context:    m.ctx,
		Repository: m.repo,
		Branch:     branch,
		Platform:   m.config.Platform,
		Checker:    checker,
		Dispatcher: m,
		Logger:     m.logger,
		Theme:      m.theme,
		OnDismissed: func() tea.Cmd {
			m.debugf("delete dialog dismissed for %s", branch.Name)
			return nil
		},
	})
	m.debugf("open delete dialog %d for %s", dialog.ID(), branch.Name)
	return m.state.ui.screenManager.Push(dialog)
}

func (m *Model) confirmForceDelete(msg branchDeletedMsg) tea.Cmd {
	confirm := appscreen.NewDestructiveConfirmScreen(
		fmt.Sprintf("Branch %s is not fully merged.\nDelete it anyway? Its unmerged commits will be lost.", msg.branch.Name),
		"Force delete",
		m.theme,
	)
	confirm.OnConfirm = func() tea.Cmd {
		return m.deleteBranchCmd(msg.repo, msg.branch, msg.includeRemote, true)
	}
	confirm.OnCancel = func() tea.Cmd {
		m.statusMessage = fmt.Sprintf("Kept branch %s", msg.branch.Name)
		return nil
	}
	return m.state.ui.screenManager.Push(confirm)
}

func (m *Model) showInfo(message string) {
	m.state.ui.screenManager.Push(appscreen.NewInfoScreen(message, m.theme))
}

func (m *Model) showError(message string) {
	m.logger.Warnf("%s", message)
	m.state.ui.screenManager.Push(appscreen.NewErrorScreen(message, m.theme))
}
