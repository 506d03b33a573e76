package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chmouel/lazybranch/internal/models"
)

// confirmDeletion asks on stderr and reads a y/N answer from stdin.
func confirmDeletion(branch models.Branch, includeRemote bool, stdin io.Reader, stderr io.Writer) bool {
	if stdin == nil {
		return false
	}
	target := branch.Name
	if includeRemote {
		target = fmt.Sprintf("%s and %s/%s", branch.Name, branch.Remote, branch.UpstreamName())
	}
	fmt.Fprintf(stderr, "Delete branch %s? This action cannot be undone. [y/N]: ", target)

	scanner := bufio.NewScanner(stdin)
	if !scanner.Scan() {
		fmt.Fprintln(stderr)
		return false
	}
	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
