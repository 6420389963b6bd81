package fakevalues

import (
	"github.com/goliatone/go-fakevalues/pkg/activity"
)

// WithActivityHooks notifies hooks with a source event after every load.
// Nil entries are dropped. Repeated calls append.
func WithActivityHooks(hooks activity.Hooks) Option {
	normalized := make(activity.Hooks, 0, len(hooks))
	for _, hook := range hooks {
		if hook != nil {
			normalized = append(normalized, hook)
		}
	}
	return func(cfg *config) {
		if len(normalized) == 0 {
			return
		}
		cfg.activityHooks = append(append(activity.Hooks{}, cfg.activityHooks...), normalized...)
	}
}

// WithActivityChannel overrides the channel stamped on load events. Defaults
// to activity.DefaultChannel.
func WithActivityChannel(channel string) Option {
	return func(cfg *config) {
		cfg.activityCfg.Channel = channel
	}
}

// WithActivityActor attributes load events to actorID and tenantID, usually
// the service account generating fixtures.
func WithActivityActor(actorID, tenantID string) Option {
	return func(cfg *config) {
		cfg.activityCfg.ActorID = actorID
		cfg.activityCfg.TenantID = tenantID
	}
}
