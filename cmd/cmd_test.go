package cmd

import (
	"bytes"
	"io"
	"os"
	"testing"

	"github.com/pterm/pterm"
)

var outBuf bytes.Buffer

// setupStdoutCapture routes pterm output into outBuf for the duration of a test.
// The prefix printers hold their own writer, so they are redirected as well.
func setupStdoutCapture(t *testing.T) {
	t.Helper()
	outBuf.Reset()

	printers := []*pterm.PrefixPrinter{&pterm.Info, &pterm.Success, &pterm.Warning, &pterm.Error}
	saved := make([]io.Writer, len(printers))
	for i, p := range printers {
		saved[i] = p.Writer
		p.Writer = &outBuf
	}
	pterm.SetDefaultOutput(&outBuf)
	pterm.DisableStyling()

	t.Cleanup(func() {
		for i, p := range printers {
			p.Writer = saved[i]
		}
		pterm.SetDefaultOutput(os.Stdout)
		pterm.EnableStyling()
	})
}

// captureOSStdout collects what fn writes to os.Stdout, such as JSON output.
func captureOSStdout(t *testing.T, fn func()) string {
	t.Helper()
	oldStdout := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w
	t.Cleanup(func() {
		os.Stdout = oldStdout
	})

	fn()

	w.Close()
	os.Stdout = oldStdout
	var stdoutBuf bytes.Buffer
	_, _ = io.Copy(&stdoutBuf, r)
	return stdoutBuf.String()
}

type FakePrompter struct {
	InputFunc  func(prompt string, mask bool) (string, error)
	SelectFunc func(prompt string, options []string) (string, error)
}

func (f *FakePrompter) Input(prompt string, mask bool) (string, error) {
	if f.InputFunc != nil {
		return f.InputFunc(prompt, mask)
	}
	return "", nil
}

func (f *FakePrompter) Select(prompt string, options []string) (string, error) {
	if f.SelectFunc != nil {
		return f.SelectFunc(prompt, options)
	}
	if len(options) == 0 {
		return "", nil
	}
	return options[0], nil
}
