package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/chmouel/lazybranch/internal/app/services"
)

func (m *Model) startGitWatcher() tea.Cmd {
	if m.services.watch != nil && m.services.watch.Started {
		return nil
	}
	if m.services.git == nil {
		return nil
	}
	watch := services.NewGitWatchService(m.services.git, m.debugf)
	started, err := watch.Start(m.ctx, m.repo, m.config.AutoRefresh)
	if err != nil {
		return func() tea.Msg {
			return errMsg{err: err}
		}
	}
	if !started {
		return nil
	}
	m.services.watch = watch
	return m.waitForGitWatchEvent()
}

func (m *Model) stopGitWatcher() {
	if m.services.watch == nil || !m.services.watch.Started {
		return
	}
	m.services.watch.Stop()
}

func (m *Model) waitForGitWatchEvent() tea.Cmd {
	if m.services.watch == nil {
		return nil
	}
	events := m.services.watch.NextEvent()
	if events == nil {
		return nil
	}
	done := m.services.watch.Done
	return func() tea.Msg {
		select {
		case _, ok := <-events:
			if !ok {
				return nil
			}
			return gitDirChangedMsg{}
		case <-done:
			return nil
		}
	}
}

func (m *Model) shouldRefreshGitEvent(now time.Time) bool {
	if m.services.watch == nil {
		return false
	}
	return m.services.watch.ShouldRefresh(now)
}
