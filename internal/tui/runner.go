package tui

import (
	"fmt"
	"os"
)

func PromptContinue(message string) bool {
	if !IsInteractive() {
		return true
	}

	fmt.Printf("%s [Y/n]: ", message)

	var response string
	fmt.Scanln(&response)

	return response == "" || response == "y" || response == "Y"
}

// ProgressDisplay prints phase markers for long-running operations.
// Output goes to stderr so piped stdout stays clean.
type ProgressDisplay struct{}

func NewProgressDisplay() *ProgressDisplay {
	return &ProgressDisplay{}
}

func (p *ProgressDisplay) Start(message string) {
	if !IsInteractive() {
		fmt.Fprintln(os.Stderr, message)
		return
	}
	fmt.Fprintf(os.Stderr, "%s %s\n", SymbolSpinner, message)
}

func (p *ProgressDisplay) Success(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", SuccessStyle.Render(SymbolCheck), message)
}

func (p *ProgressDisplay) Error(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render(SymbolCross), message)
}
