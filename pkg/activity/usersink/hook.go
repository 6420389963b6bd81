package usersink

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-fakevalues/pkg/activity"
	usertypes "github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
)

// Hook adapts fake value source events to a go-users ActivitySink so loads
// show up in the same activity feed as user actions.
type Hook struct {
	Sink usertypes.ActivitySink
	// ActorID is recorded when an event carries no actor. Loads are usually
	// triggered by the library itself, so a service account id fits here.
	ActorID uuid.UUID
	// Verbs restricts forwarding to the listed verbs. Empty forwards all.
	Verbs activity.VerbFilter
}

// Notify maps the event into an ActivityRecord and forwards it to the sink.
func (h Hook) Notify(ctx context.Context, event activity.Event) error {
	if h.Sink == nil {
		return nil
	}

	normalized := activity.NormalizeEvent(event)
	if normalized.Verb == "" || normalized.ObjectID == "" {
		return nil
	}
	if !h.Verbs.Allows(normalized.Verb) {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	actorID := parseUUID(normalized.ActorID)
	if actorID == uuid.Nil {
		actorID = h.ActorID
	}

	record := usertypes.ActivityRecord{
		ActorID:    actorID,
		TenantID:   parseUUID(normalized.TenantID),
		Verb:       normalized.Verb,
		ObjectType: normalized.ObjectType,
		ObjectID:   normalized.ObjectID,
		Channel:    normalized.Channel,
		Data:       sourceData(normalized),
		OccurredAt: normalized.OccurredAt,
	}
	if record.OccurredAt.IsZero() {
		record.OccurredAt = time.Now().UTC()
	}

	return h.Sink.Log(ctx, record)
}

func parseUUID(input string) uuid.UUID {
	value := strings.TrimSpace(input)
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// sourceData flattens the load fields into the record payload next to the
// event metadata. Load fields win on collision.
func sourceData(event activity.Event) map[string]any {
	data := make(map[string]any, len(event.Metadata)+3)
	for key, value := range event.Metadata {
		data[key] = value
	}
	if event.LoadID != "" {
		data["load_id"] = event.LoadID
	}
	if event.Locale != "" {
		data["locale"] = event.Locale
	}
	if event.Resource != "" {
		data["resource"] = event.Resource
	}
	if len(data) == 0 {
		return nil
	}
	return data
}
