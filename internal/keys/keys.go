// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// DemoKeys are the bindings of the demo board. Letter keys only apply while
// the chat entry is not focused.
type DemoKeys struct {
	Restart  key.Binding
	Advance  key.Binding
	Generate key.Binding
	Deploy   key.Binding

	CopyContract key.Binding
	CopyTx       key.Binding
	CyclePayload key.Binding

	Submit     key.Binding
	Focus      key.Binding
	Tips       key.Binding
	LogOverlay key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding
}

// Demo holds the board bindings.
var Demo = DemoKeys{
	Restart: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "restart"),
	),
	Advance: key.NewBinding(
		key.WithKeys(" "),
		key.WithHelp("space", "next step"),
	),
	Generate: key.NewBinding(
		key.WithKeys("g"),
		key.WithHelp("g", "generate"),
	),
	Deploy: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "deploy"),
	),
	CopyContract: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "copy contract url"),
	),
	CopyTx: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "copy tx url"),
	),
	CyclePayload: key.NewBinding(
		key.WithKeys("p"),
		key.WithHelp("p", "switch network"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "send"),
	),
	Focus: key.NewBinding(
		key.WithKeys("esc", "tab"),
		key.WithHelp("esc/tab", "toggle input"),
	),
	Tips: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "presenter tips"),
	),
	LogOverlay: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("ctrl+x", "logs"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q"),
		key.WithHelp("q", "quit"),
	),
	ForceQuit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

// ShortHelp returns the bindings shown in the footer.
func (k DemoKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Advance, k.Restart, k.Focus, k.Tips, k.Quit}
}

// FullHelp returns the bindings grouped for the tips overlay.
func (k DemoKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Advance, k.Generate, k.Deploy, k.Restart},     // Flow
		{k.CopyContract, k.CopyTx, k.CyclePayload},       // Results
		{k.Submit, k.Focus, k.Tips, k.LogOverlay, k.Quit}, // General
	}
}

// TipsKeys are the bindings of the presenter tips overlay.
type TipsKeys struct {
	Close key.Binding
}

// Tips holds the tips overlay bindings.
var Tips = TipsKeys{
	Close: key.NewBinding(
		key.WithKeys("esc", "?", "q"),
		key.WithHelp("esc/?", "close"),
	),
}
