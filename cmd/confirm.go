package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// prompter asks yes/no questions before destructive or overwriting actions.
type prompter struct {
	in          io.Reader
	out         io.Writer
	interactive bool
	assumeYes   bool
}

// newPrompter reads answers from the command's input. Without --yes, a
// non-terminal stdin declines every question instead of blocking.
func newPrompter(cmd *cobra.Command, assumeYes bool) *prompter {
	return &prompter{
		in:          cmd.InOrStdin(),
		out:         cmd.OutOrStdout(),
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
		assumeYes:   assumeYes,
	}
}

// Confirm prints question and waits for "yes".
func (p *prompter) Confirm(question string) bool {
	if p.assumeYes {
		fmt.Fprintf(p.out, "%s\n✓ Auto-confirmed via --yes flag\n", question)
		return true
	}
	if !p.interactive {
		fmt.Fprintf(p.out, "%s\nNot a terminal; pass --yes to confirm.\n", question)
		return false
	}

	fmt.Fprintf(p.out, "%s Type 'yes' to confirm: ", question)
	response, err := bufio.NewReader(p.in).ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "yes" || response == "y"
}
