// Package app implements the lazybranch Bubble Tea model.
package app

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	appscreen "github.com/chmouel/lazybranch/internal/app/screen"
	"github.com/chmouel/lazybranch/internal/app/services"
	"github.com/chmouel/lazybranch/internal/app/state"
	"github.com/chmouel/lazybranch/internal/config"
	log "github.com/chmouel/lazybranch/internal/log"
	"github.com/chmouel/lazybranch/internal/models"
	"github.com/chmouel/lazybranch/internal/theme"
)

// BranchService is the git surface used by the model.
type BranchService interface {
	ListBranches(ctx context.Context, repo models.Repository) ([]models.Branch, error)
	CheckBranchExistsOnRemote(ctx context.Context, repo models.Repository, branch models.Branch) (bool, error)
	DeleteBranch(ctx context.Context, repo models.Repository, branch models.Branch, includeRemote, force bool) error
	GitCommonDir(ctx context.Context, repo models.Repository) (string, error)
}

// Options tweak model start-up.
type Options struct {
	// InitialBranch opens the delete dialog for this branch after the first load.
	InitialBranch string
	Logger        log.Logger
}

type uiState struct {
	screenManager *appscreen.Manager
	branchTable   table.Model
	spinner       spinner.Model
}

type dataState struct {
	branches []models.Branch
	loaded   bool
}

type modelState struct {
	ui      uiState
	view    state.ViewState
	pending state.PendingState
	data    dataState
}

type modelServices struct {
	git   BranchService
	watch *services.GitWatchService
}

// Model is the Bubble Tea model listing branches and hosting the
// delete-branch dialog.
type Model struct {
	config   *config.AppConfig
	theme    *theme.Theme
	repo     models.Repository
	logger   log.Logger
	state    modelState
	services modelServices

	ctx    context.Context
	cancel context.CancelFunc

	loading       bool
	statusMessage string
	quitting      bool
}

var _ appscreen.BranchDispatcher = (*Model)(nil)

// NewModel creates the model for repo.
func NewModel(cfg *config.AppConfig, svc BranchService, repo models.Repository, opts Options) *Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Nop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	thm := theme.GetTheme(cfg.Theme)

	m := &Model{
		config: cfg,
		theme:  thm,
		repo:   repo,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
	m.services.git = svc
	m.state.ui.screenManager = appscreen.NewManager()
	m.state.ui.branchTable = newBranchTable(thm)
	m.state.ui.spinner = spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(thm.Accent)),
	)
	m.state.pending.OpenBranch = opts.InitialBranch
	return m
}

func newBranchTable(thm *theme.Theme) table.Model {
	columns := []table.Column{
		{Title: "Branch", Width: 30},
		{Title: "Upstream", Width: 30},
		{Title: "Commit", Width: 9},
		{Title: "Subject", Width: 40},
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		Foreground(thm.MutedFg).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(thm.BorderDim).
		BorderBottom(true).
		Bold(true)
	s.Cell = s.Cell.Foreground(thm.TextFg)
	s.Selected = s.Selected.
		Foreground(thm.AccentFg).
		Background(thm.Accent).
		Bold(true)
	t.SetStyles(s)
	return t
}

// Init loads the branches and starts the ref watcher.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadBranches(), m.startGitWatcher())
}

// Close releases the watcher and cancels in-flight git commands.
func (m *Model) Close() {
	m.stopGitWatcher()
	m.cancel()
}

// Update handles Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.state.view.WindowWidth = msg.Width
		m.state.view.WindowHeight = msg.Height
		m.resizeTable()
		return m, nil
	case tea.KeyMsg:
		if m.state.ui.screenManager.IsActive() {
			return m.handleScreenKey(msg)
		}
		return m.handleKeyMsg(msg)
	case appscreen.RemoteExistenceMsg:
		m.handleRemoteExistence(msg)
		return m, nil
	case branchesLoadedMsg:
		return m.handleBranchesLoaded(msg)
	case branchDeletedMsg:
		return m.handleBranchDeleted(msg)
	case gitDirChangedMsg:
		return m.handleGitDirChanged()
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.state.ui.spinner, cmd = m.state.ui.spinner.Update(msg)
		return m, cmd
	case errMsg:
		m.loading = false
		m.showError(msg.err.Error())
		return m, nil
	}
	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		m.Close()
		return m, tea.Quit
	case "r":
		m.statusMessage = ""
		return m, m.loadBranches()
	case "D", "delete":
		branch, ok := m.selectedBranch()
		if !ok {
			return m, nil
		}
		return m, m.openDeleteDialog(branch)
	}

	var cmd tea.Cmd
	m.state.ui.branchTable, cmd = m.state.ui.branchTable.Update(msg)
	return m, cmd
}

func (m *Model) handleScreenKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !m.state.ui.screenManager.IsActive() {
		return m, nil
	}
	current := m.state.ui.screenManager.Current()
	scr, cmd := current.Update(msg)
	if scr == nil {
		// Only pop if the current screen hasn't already changed.
		if m.state.ui.screenManager.Current() == current {
			m.state.ui.screenManager.Pop()
		}
	} else {
		m.state.ui.screenManager.Set(scr)
	}
	return m, cmd
}

func (m *Model) selectedBranch() (models.Branch, bool) {
	idx := m.state.ui.branchTable.Cursor()
	if idx < 0 || idx >= len(m.state.data.branches) {
		return models.Branch{}, false
	}
	return m.state.data.branches[idx], true
}

func (m *Model) resizeTable() {
	width := m.state.view.WindowWidth
	// header, footer and the table's own header row
	height := max(m.state.view.WindowHeight-4, 3)
	m.state.ui.branchTable.SetWidth(width)
	m.state.ui.branchTable.SetHeight(height)

	fixed := 9 + 8 // commit column and cell padding
	flexible := max(width-fixed, 30)
	m.state.ui.branchTable.SetColumns([]table.Column{
		{Title: "Branch", Width: flexible * 3 / 10},
		{Title: "Upstream", Width: flexible * 3 / 10},
		{Title: "Commit", Width: 9},
		{Title: "Subject", Width: flexible - 2*(flexible*3/10)},
	})
}

func (m *Model) debugf(format string, args ...any) {
	m.logger.Printf(format, args...)
}
