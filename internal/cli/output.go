package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/JonMunkholm/RdgUpload/internal/core"
)

var (
	errorLabel = color.New(color.FgRed, color.Bold)
	hintLabel  = color.New(color.FgYellow)
	okLabel    = color.New(color.FgGreen, color.Bold)
	nameLabel  = color.New(color.FgCyan)
)

// printError writes err to w the way the web UI shows it: the mapped user
// message with its support code, then the suggested action.
func printError(w io.Writer, err error) {
	errorLabel.Fprint(w, "error: ")

	var ue *usageError
	if errors.As(err, &ue) {
		fmt.Fprintln(w, ue.Error())
		hintLabel.Fprintln(w, "Run 'rdgconv --help' for usage.")
		return
	}

	uerr := core.NewUserError(err)
	fmt.Fprintf(w, "%s [%s]\n", uerr.User.Message, uerr.User.Code)
	if uerr.User.Action != "" {
		hintLabel.Fprintln(w, uerr.User.Action)
	}
	// The generic message hides what went wrong; show the cause too.
	if !core.IsUserFacing(err) {
		fmt.Fprintf(w, "  %v\n", uerr.Technical)
	}
}
