package activity

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Event describes one fake value source outcome that can be fanned out to
// hooks. Actor and tenant IDs are strings so callers are not tied to a UUID
// type.
type Event struct {
	Verb       string
	ActorID    string
	TenantID   string
	ObjectType string
	ObjectID   string
	LoadID     string
	Locale     string
	Resource   string
	Channel    string
	Metadata   map[string]any
	OccurredAt time.Time
}

// ActivityHook receives normalized activity events.
type ActivityHook interface {
	Notify(ctx context.Context, event Event) error
}

// HookFunc allows plain functions to satisfy ActivityHook.
type HookFunc func(ctx context.Context, event Event) error

// Notify dispatches to the underlying function.
func (fn HookFunc) Notify(ctx context.Context, event Event) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, event)
}

// Hooks fans out events to zero or more hooks.
type Hooks []ActivityHook

// Enabled reports whether there are any hooks to notify.
func (h Hooks) Enabled() bool {
	for _, hook := range h {
		if hook != nil {
			return true
		}
	}
	return false
}

// Notify forwards the event to every hook and joins their errors. Events
// without a verb or object id are dropped.
func (h Hooks) Notify(ctx context.Context, event Event) error {
	if len(h) == 0 {
		return nil
	}

	normalized := NormalizeEvent(event)
	if normalized.Verb == "" || normalized.ObjectID == "" {
		return nil
	}

	if ctx == nil {
		ctx = context.Background()
	}

	var errs []error
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.Notify(ctx, normalized); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// VerbFilter lists the verbs a hook is interested in. An empty filter allows
// every verb.
type VerbFilter []string

// Allows reports whether verb passes the filter.
func (f VerbFilter) Allows(verb string) bool {
	if len(f) == 0 {
		return true
	}
	verb = strings.TrimSpace(verb)
	for _, allowed := range f {
		if strings.TrimSpace(allowed) == verb {
			return true
		}
	}
	return false
}

// Only wraps hook so it is notified of the listed verbs alone.
func Only(hook ActivityHook, verbs ...string) ActivityHook {
	if hook == nil {
		return nil
	}
	filter := VerbFilter(append([]string{}, verbs...))
	return HookFunc(func(ctx context.Context, event Event) error {
		if !filter.Allows(event.Verb) {
			return nil
		}
		return hook.Notify(ctx, event)
	})
}

// NormalizeEvent trims string fields, clones metadata, defaults the object
// type to ObjectTypeSource and stamps a UTC timestamp when missing.
func NormalizeEvent(event Event) Event {
	normalized := event
	normalized.Verb = strings.TrimSpace(event.Verb)
	normalized.ActorID = strings.TrimSpace(event.ActorID)
	normalized.TenantID = strings.TrimSpace(event.TenantID)
	normalized.ObjectType = strings.TrimSpace(event.ObjectType)
	normalized.ObjectID = strings.TrimSpace(event.ObjectID)
	normalized.LoadID = strings.TrimSpace(event.LoadID)
	normalized.Locale = strings.TrimSpace(event.Locale)
	normalized.Resource = strings.TrimSpace(event.Resource)
	normalized.Channel = strings.TrimSpace(event.Channel)
	normalized.Metadata = cloneMap(event.Metadata)
	if normalized.ObjectType == "" {
		normalized.ObjectType = ObjectTypeSource
	}
	if normalized.OccurredAt.IsZero() {
		normalized.OccurredAt = time.Now().UTC()
	}
	return normalized
}

func cloneMap(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]any, len(src))
	for key, value := range src {
		if list, ok := value.([]string); ok {
			value = append([]string{}, list...)
		}
		dst[key] = value
	}
	return dst
}
