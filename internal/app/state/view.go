// Package state holds plain state structs shared by the TUI model.
package state

// ViewState holds UI-related state for the model.
type ViewState struct {
	WindowWidth  int
	WindowHeight int
}

// Ready reports whether a window size has been received.
func (v ViewState) Ready() bool {
	return v.WindowWidth > 0 && v.WindowHeight > 0
}

// PendingState keeps actions deferred until branches are loaded.
type PendingState struct {
	// OpenBranch names a branch whose delete dialog opens once the list loads.
	OpenBranch string
	// SelectBranch keeps the cursor on a branch across reloads.
	SelectBranch string
}
