package app

import "github.com/atotto/clipboard"

// Clipboard copies explorer links.
type Clipboard interface {
	Copy(text string) error
}

// SystemClipboard uses the OS clipboard.
type SystemClipboard struct{}

// Copy implements Clipboard.
func (SystemClipboard) Copy(text string) error {
	return clipboard.WriteAll(text)
}
