package activity

import (
	"strings"
	"time"
)

const (
	// VerbSourceLoaded marks a source that resolved to data.
	VerbSourceLoaded = "fakevalues.loaded"
	// VerbSourceEmpty marks a source that found no data for any candidate.
	VerbSourceEmpty = "fakevalues.empty"
	// VerbSourceFailed marks an explicit resource that could not be read.
	VerbSourceFailed = "fakevalues.failed"

	// ObjectTypeSource is the object type of every source event.
	ObjectTypeSource = "fakevalues.source"
)

// SourceEventInput describes the outcome of one source load.
type SourceEventInput struct {
	ActorID    string
	TenantID   string
	Identifier string
	LoadID     string
	Locale     string
	Resource   string
	Key        string
	Keys       []string
	Channel    string
	Metadata   map[string]any
	Duration   time.Duration
	Err        error
	OccurredAt time.Time
}

// BuildSourceLoadedEvent constructs the event for a source that found data.
func BuildSourceLoadedEvent(input SourceEventInput) Event {
	return buildSourceEvent(VerbSourceLoaded, input)
}

// BuildSourceEmptyEvent constructs the event for a source without data.
func BuildSourceEmptyEvent(input SourceEventInput) Event {
	return buildSourceEvent(VerbSourceEmpty, input)
}

// BuildSourceFailedEvent constructs the event for an unreadable resource.
func BuildSourceFailedEvent(input SourceEventInput) Event {
	return buildSourceEvent(VerbSourceFailed, input)
}

func buildSourceEvent(verb string, input SourceEventInput) Event {
	metadata := cloneMap(input.Metadata)
	set := func(key string, value any) {
		if metadata == nil {
			metadata = map[string]any{}
		}
		metadata[key] = value
	}
	if input.Key != "" {
		set("key", input.Key)
	}
	if len(input.Keys) > 0 {
		set("keys", append([]string{}, input.Keys...))
	}
	if input.Duration > 0 {
		set("duration_ms", input.Duration.Milliseconds())
	}
	if input.Err != nil {
		set("error", input.Err.Error())
	}

	objectID := strings.TrimSpace(input.Identifier)
	if objectID == "" {
		objectID = strings.TrimSpace(input.Resource)
	}
	if objectID == "" {
		objectID = ObjectTypeSource
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: ObjectTypeSource,
		ObjectID:   objectID,
		LoadID:     strings.TrimSpace(input.LoadID),
		Locale:     strings.TrimSpace(input.Locale),
		Resource:   strings.TrimSpace(input.Resource),
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}
