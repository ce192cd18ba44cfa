// Package widget is the public entry point for embedding the assistant
// widget in a host application.
package widget

import (
	core "github.com/balajinrrbgm/go-assistant-widget/components/assistant"
)

// Manager exposes the underlying components/assistant.Manager type.
type Manager = core.Manager

// Options re-export for convenience.
type Options = core.Options

// NewManager proxies to the internal constructor.
func NewManager(opts Options) (*Manager, error) {
	return core.NewManager(opts)
}
