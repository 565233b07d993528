package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bicolour/pkg/observability"
)

// logHooks reports editor, render and cache events to the CLI logger at
// debug level.
type logHooks struct {
	logger *log.Logger
}

func (c *CLI) installHooks() {
	h := logHooks{logger: c.Logger}
	observability.SetEditorHooks(h)
	observability.SetRenderHooks(h)
	observability.SetCacheHooks(h)
}

func (h logHooks) OnMutation(_ context.Context, m observability.Mutation) {
	if m.Err != nil {
		h.logger.Debug("mutation rejected", "action", m.Action, "err", m.Err)
		return
	}
	h.logger.Debug("mutation", "action", m.Action,
		"added", m.Added, "removed", m.Removed, "recoloured", m.Recoloured,
		"took", m.Duration.Round(time.Microsecond))
}

func (h logHooks) OnTextIO(_ context.Context, direction string, size int, err error) {
	h.logger.Debug("text io", "direction", direction, "bytes", size, "err", err)
}

func (h logHooks) OnRenderStart(_ context.Context, engine string, vertices int) {
	h.logger.Debug("render", "engine", engine, "vertices", vertices)
}

func (h logHooks) OnRenderComplete(_ context.Context, engine string, d time.Duration, err error) {
	h.logger.Debug("render done", "engine", engine, "took", d.Round(time.Millisecond), "err", err)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}
