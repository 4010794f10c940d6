package cmd

import (
	"github.com/pterm/pterm"
)

// Prompter asks the user for input.
type Prompter interface {
	Input(prompt string, mask bool) (string, error)
	Select(prompt string, options []string) (string, error)
}

type ptermPrompter struct{}

func (ptermPrompter) Input(prompt string, mask bool) (string, error) {
	input := pterm.DefaultInteractiveTextInput
	if mask {
		return input.WithMask("*").Show(prompt)
	}
	return input.Show(prompt)
}

func (ptermPrompter) Select(prompt string, options []string) (string, error) {
	return pterm.DefaultInteractiveSelect.
		WithOptions(options).
		WithMaxHeight(15).
		Show(prompt)
}
