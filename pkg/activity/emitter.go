package activity

import (
	"context"
	"strings"
)

// DefaultChannel is stamped on events that do not name a channel.
const DefaultChannel = "fakevalues"

// Config controls the defaults an Emitter applies to outgoing events.
type Config struct {
	Enabled bool
	Channel string
	// ActorID and TenantID attribute loads that carry no actor of their own,
	// typically a service account running fixture generation.
	ActorID  string
	TenantID string
}

// Emitter fans out events to hooks while applying defaults.
type Emitter struct {
	hooks  Hooks
	config Config
}

// NewEmitter constructs an emitter from hooks and configuration.
func NewEmitter(hooks Hooks, cfg Config) *Emitter {
	cfg.Channel = strings.TrimSpace(cfg.Channel)
	if cfg.Channel == "" {
		cfg.Channel = DefaultChannel
	}
	cfg.ActorID = strings.TrimSpace(cfg.ActorID)
	cfg.TenantID = strings.TrimSpace(cfg.TenantID)
	hooks = compactHooks(hooks)
	cfg.Enabled = cfg.Enabled && len(hooks) > 0
	return &Emitter{hooks: hooks, config: cfg}
}

// Enabled reports whether emissions should be attempted.
func (e *Emitter) Enabled() bool {
	return e != nil && e.config.Enabled
}

// Channel returns the default channel.
func (e *Emitter) Channel() string {
	if e == nil {
		return DefaultChannel
	}
	return e.config.Channel
}

// Emit applies the configured defaults and forwards the event to all hooks.
func (e *Emitter) Emit(ctx context.Context, event Event) error {
	if !e.Enabled() {
		return nil
	}
	if strings.TrimSpace(event.Channel) == "" {
		event.Channel = e.config.Channel
	}
	if strings.TrimSpace(event.ActorID) == "" {
		event.ActorID = e.config.ActorID
	}
	if strings.TrimSpace(event.TenantID) == "" {
		event.TenantID = e.config.TenantID
	}
	return e.hooks.Notify(ctx, event)
}

func compactHooks(hooks Hooks) Hooks {
	if len(hooks) == 0 {
		return nil
	}
	out := make(Hooks, 0, len(hooks))
	for _, hook := range hooks {
		if hook != nil {
			out = append(out, hook)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
