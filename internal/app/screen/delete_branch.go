package screen

import (
	"context"
	"strings"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/chmouel/lazybranch/internal/log"
	"github.com/chmouel/lazybranch/internal/models"
	"github.com/chmouel/lazybranch/internal/theme"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/reflow/wrap"
)

const platformDarwin = "darwin"

// SeverityWarning marks dialogs guarding a destructive action.
const SeverityWarning = "warning"

// Dialog text.
const (
	deleteBranchRemotePrompt = "The branch also exists on the remote, do you wish to delete it there as well?"
	deleteBranchRemoteLabel  = "Yes, delete this branch on the remote"
	deleteBranchIrreversible = "This action cannot be undone."
)

// RemoteChecker reports whether branch exists on its remote.
type RemoteChecker func(ctx context.Context, repo models.Repository, branch models.Branch) (bool, error)

// BranchDispatcher executes the deletion chosen in a DeleteBranchScreen and
// closes the dialog afterwards.
type BranchDispatcher interface {
	DeleteBranch(repo models.Repository, branch models.Branch, includeRemote bool) tea.Cmd
	CloseDialog() tea.Cmd
}

// RemoteExistenceMsg carries the result of a dialog's remote existence check.
type RemoteExistenceMsg struct {
	DialogID uint64
	Exists   bool
	Err      error
}

type deleteFocus int

const (
	focusCheckbox deleteFocus = iota
	focusCancel
	focusDelete
)

var dialogSeq atomic.Uint64

// DeleteBranchOptions configures a DeleteBranchScreen.
type DeleteBranchOptions struct {
	Context    context.Context // Parent of the existence check context; defaults to Background
	Repository models.Repository
	Branch     models.Branch
	Platform   string
	Checker    RemoteChecker
	Dispatcher BranchDispatcher
	Logger     log.Logger
	Theme      *theme.Theme

	// OnDismissed is called when the user cancels the dialog.
	OnDismissed func() tea.Cmd
}

// DeleteBranchScreen asks the user to confirm deleting a local branch and,
// when the branch still exists on its remote, offers to delete it there too.
type DeleteBranchScreen struct {
	Repository models.Repository
	Branch     models.Branch
	Platform   string
	Thm        *theme.Theme

	RemoteExistence       models.RemoteExistence
	IncludeRemoteDeletion bool

	OnDismissed func() tea.Cmd

	id         uint64
	focus      deleteFocus
	live       bool
	checking   bool
	ctx        context.Context
	cancel     context.CancelFunc
	checker    RemoteChecker
	dispatcher BranchDispatcher
	logger     log.Logger
}

// NewDeleteBranchScreen creates the dialog. The remote check starts with Init.
func NewDeleteBranchScreen(opts DeleteBranchOptions) *DeleteBranchScreen {
	parent := opts.Context
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)

	logger := log.Tagged(opts.Logger, "delete-branch", opts.Branch.Name)
	thm := opts.Theme
	if thm == nil {
		thm = theme.Dracula()
	}

	return &DeleteBranchScreen{
		Repository:  opts.Repository,
		Branch:      opts.Branch,
		Platform:    opts.Platform,
		Thm:         thm,
		OnDismissed: opts.OnDismissed,
		id:          dialogSeq.Add(1),
		focus:       focusCancel,
		live:        true,
		ctx:         ctx,
		cancel:      cancel,
		checker:     opts.Checker,
		dispatcher:  opts.Dispatcher,
		logger:      logger,
	}
}

// ID identifies this dialog instance in RemoteExistenceMsg.
func (s *DeleteBranchScreen) ID() uint64 {
	return s.id
}

// Type returns the screen type.
func (s *DeleteBranchScreen) Type() Type {
	return TypeDeleteBranch
}

// Title returns the dialog title using the platform's capitalisation.
func (s *DeleteBranchScreen) Title() string {
	if s.Platform == platformDarwin {
		return "Delete Branch"
	}
	return "Delete branch"
}

// Severity returns the dialog severity marker.
func (s *DeleteBranchScreen) Severity() string {
	return SeverityWarning
}

// Live reports whether the dialog is still on screen.
func (s *DeleteBranchScreen) Live() bool {
	return s.live
}

// Init starts the remote existence check. It runs at most once per dialog and
// never again after the result is known, even if Branch is replaced.
func (s *DeleteBranchScreen) Init() tea.Cmd {
	if !s.live || s.checking || s.RemoteExistence != models.RemoteUnknown || s.checker == nil {
		return nil
	}
	s.checking = true

	ctx, id, check := s.ctx, s.id, s.checker
	repo, branch := s.Repository, s.Branch
	return func() tea.Msg {
		exists, err := check(ctx, repo, branch)
		return RemoteExistenceMsg{DialogID: id, Exists: exists, Err: err}
	}
}

// ApplyRemoteExistence records the check result. Results for another dialog,
// results arriving after dismissal and repeated results are ignored; the
// return value reports whether the state changed.
func (s *DeleteBranchScreen) ApplyRemoteExistence(msg RemoteExistenceMsg) bool {
	if !s.live || msg.DialogID != s.id || s.RemoteExistence != models.RemoteUnknown {
		return false
	}
	s.checking = false

	if msg.Err != nil {
		s.logger.Warnf("unable to resolve remote branch %s: %v", s.Branch.Upstream, msg.Err)
		s.RemoteExistence = models.RemoteAbsent
		return true
	}
	s.RemoteExistence = models.RemoteExistenceFrom(msg.Exists)
	return true
}

// ShowsRemoteOption reports whether the remote deletion prompt is rendered.
func (s *DeleteBranchScreen) ShowsRemoteOption() bool {
	return s.Branch.IsRemoteTracking() && s.RemoteExistence == models.RemoteExists
}

// ToggleIncludeRemoteDeletion sets whether the remote branch is deleted too.
func (s *DeleteBranchScreen) ToggleIncludeRemoteDeletion(checked bool) {
	s.IncludeRemoteDeletion = checked
}

// Confirm hands the deletion to the dispatcher and then asks it to close
// the dialog. The outcome of the deletion is not awaited.
func (s *DeleteBranchScreen) Confirm() tea.Cmd {
	var cmds []tea.Cmd
	if s.dispatcher != nil {
		cmds = append(cmds,
			s.dispatcher.DeleteBranch(s.Repository, s.Branch, s.IncludeRemoteDeletion),
			s.dispatcher.CloseDialog(),
		)
	}
	s.dispose()
	return tea.Batch(cmds...)
}

// Cancel dismisses the dialog without deleting anything.
func (s *DeleteBranchScreen) Cancel() tea.Cmd {
	s.dispose()
	if s.OnDismissed != nil {
		return s.OnDismissed()
	}
	return nil
}

// dispose stops any in-flight check; late results are dropped by ApplyRemoteExistence.
func (s *DeleteBranchScreen) dispose() {
	s.live = false
	s.cancel()
}

func (s *DeleteBranchScreen) focusOrder() []deleteFocus {
	if s.ShowsRemoteOption() {
		return []deleteFocus{focusCheckbox, focusCancel, focusDelete}
	}
	return []deleteFocus{focusCancel, focusDelete}
}

func (s *DeleteBranchScreen) moveFocus(delta int) {
	order := s.focusOrder()
	idx := 0
	for i, f := range order {
		if f == s.focus {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(order)) % len(order)
	s.focus = order[idx]
}

// Update processes keyboard events for the dialog.
// Returns nil to signal that the screen should be closed.
func (s *DeleteBranchScreen) Update(msg tea.KeyMsg) (Screen, tea.Cmd) {
	switch msg.String() {
	case keyTab, "right", "l", "down", "j":
		s.moveFocus(1)
	case keyShiftTab, "left", "h", "up", "k":
		s.moveFocus(-1)
	case keySpace:
		if s.ShowsRemoteOption() {
			s.ToggleIncludeRemoteDeletion(!s.IncludeRemoteDeletion)
		}
	case keyEnter:
		switch s.focus {
		case focusCheckbox:
			s.ToggleIncludeRemoteDeletion(!s.IncludeRemoteDeletion)
		case focusDelete:
			return nil, s.Confirm()
		default:
			return nil, s.Cancel()
		}
	case "y", "Y", "d":
		return nil, s.Confirm()
	case "n", "N", keyEsc, keyEscRaw, keyQ, keyCtrlC:
		return nil, s.Cancel()
	}
	return s, nil
}

// View renders the dialog.
func (s *DeleteBranchScreen) View() string {
	inner := modalWidth - 4

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Thm.WarnFg).
		Padding(1, 2).
		Width(modalWidth)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(s.Thm.WarnFg)
	textStyle := lipgloss.NewStyle().Foreground(s.Thm.TextFg)
	refStyle := lipgloss.NewStyle().Bold(true).Foreground(s.Thm.Cyan)
	mutedStyle := lipgloss.NewStyle().Foreground(s.Thm.MutedFg)

	var b strings.Builder
	b.WriteString(titleStyle.Render(s.Title()))
	b.WriteString("\n\n")
	b.WriteString(textStyle.Render("Delete branch ") + refStyle.Render(wrap.String(s.Branch.Name, inner)) + textStyle.Render("?"))
	b.WriteString("\n")
	b.WriteString(textStyle.Render(deleteBranchIrreversible))

	if s.ShowsRemoteOption() {
		b.WriteString("\n\n")
		b.WriteString(textStyle.Bold(true).Render(wordwrap.String(deleteBranchRemotePrompt, inner)))
		b.WriteString("\n")
		b.WriteString(s.renderCheckbox())
	}

	buttonWidth := (modalWidth - 6) / 2
	cancelButton := renderButton("Cancel", buttonWidth, s.focus == focusCancel, s.Thm.Accent, s.Thm)
	deleteButton := s.renderDeleteButton(buttonWidth)

	b.WriteString("\n\n")
	b.WriteString(cancelButton + buttonGap + deleteButton)
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render(s.hint()))

	return boxStyle.Render(b.String())
}

func (s *DeleteBranchScreen) renderCheckbox() string {
	box := "[ ]"
	if s.IncludeRemoteDeletion {
		box = "[x]"
	}
	style := lipgloss.NewStyle().Foreground(s.Thm.TextFg)
	if s.focus == focusCheckbox {
		style = style.Foreground(s.Thm.AccentFg).Background(s.Thm.Accent).Bold(true)
	}
	return style.Render(box + " " + deleteBranchRemoteLabel)
}

// renderDeleteButton draws the destructive button, in the error colour whether focused or not.
func (s *DeleteBranchScreen) renderDeleteButton(width int) string {
	if s.focus == focusDelete {
		return renderButton("Delete", width, true, s.Thm.ErrorFg, s.Thm)
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Padding(0, 2).
		Foreground(s.Thm.ErrorFg).
		Background(s.Thm.BorderDim).
		Render("[Delete]")
}

func (s *DeleteBranchScreen) hint() string {
	if s.ShowsRemoteOption() {
		return "tab: move  space: toggle  enter: select  esc: cancel"
	}
	return "tab: move  enter: select  y: delete  esc: cancel"
}
