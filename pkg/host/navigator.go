package host

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/browser"
)

// BrowserNavigator opens URLs in the user's default browser.
type BrowserNavigator struct {
	open func(url string) error
}

func NewBrowserNavigator() *BrowserNavigator {
	return &BrowserNavigator{open: browser.OpenURL}
}

func (n *BrowserNavigator) Navigate(ctx context.Context, url string) error {
	if err := n.open(url); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

// PrintNavigator writes URLs to w instead of opening them.
type PrintNavigator struct {
	W io.Writer
}

func (n PrintNavigator) Navigate(ctx context.Context, url string) error {
	_, err := fmt.Fprintln(n.W, url)
	return err
}
