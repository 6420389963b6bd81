package fakevalues

import (
	"context"
	"errors"
	"io/fs"
	"path"
	"sort"
	"time"

	"github.com/goliatone/go-fakevalues/cowmap"
	"github.com/goliatone/go-fakevalues/layering"
	"github.com/goliatone/go-fakevalues/pkg/activity"
	"github.com/google/uuid"
)

func (v *Values) loadOnce() *loadResult {
	start := time.Now()
	loadID := uuid.NewString()

	var (
		doc      map[string]any
		resource string
		err      error
	)
	if locator := v.desc.Locator(); locator != nil {
		resource = locator.String()
		doc, err = v.readLocator(locator)
	} else {
		doc, resource = v.probe(loadID)
	}
	if key := v.desc.Key(); key != "" {
		doc = selectKey(doc, key)
	}

	data := cowmap.New[string, any](nil)
	if err == nil {
		// Documents may hold explicit nulls; a nil value means absent.
		entries := make(map[string]any, len(doc))
		for key, value := range doc {
			if value != nil {
				entries[key] = value
			}
		}
		if putErr := data.PutAll(entries); putErr != nil {
			err = &LoadError{Resource: resource, Locale: v.desc.Locale(), Err: putErr}
		}
	}
	if data.IsEmpty() && err == nil {
		resource = ""
	}

	result := &loadResult{data: data, resource: resource, err: err}
	v.report(loadID, result, time.Since(start))
	return result
}

func (v *Values) readLocator(locator Locator) (map[string]any, error) {
	resource := locator.String()
	rc, err := locator.Open()
	if err != nil {
		return nil, &LoadError{Resource: resource, Locale: v.desc.Locale(), Err: err}
	}
	defer rc.Close()

	doc, err := v.cfg.decoder.Decode(resource, rc)
	if err != nil {
		return nil, &LoadError{Resource: resource, Locale: v.desc.Locale(), Err: err}
	}
	return doc, nil
}

// probe walks the locale fragments, most specific first, and returns the
// first non-empty document. With a key set, documents lacking the key are
// skipped so a broader locale can supply it.
func (v *Values) probe(loadID string) (map[string]any, string) {
	key := v.desc.Key()
	for _, fragment := range v.desc.CandidatePaths() {
		doc, resource := v.probeFragment(loadID, fragment)
		if len(doc) == 0 {
			continue
		}
		if key != "" {
			if value, ok := doc[key]; !ok || value == nil {
				continue
			}
		}
		return doc, resource
	}
	return nil, ""
}

func (v *Values) probeFragment(loadID, fragment string) (map[string]any, string) {
	if v.desc.path != "" {
		name := path.Join(fragment, v.desc.path)
		return v.readFS(loadID, name), name
	}

	name := fragment + documentExt
	if doc := v.readFS(loadID, name); len(doc) > 0 {
		return doc, name
	}

	// A locale may also be split into one document per category.
	matches, err := fs.Glob(v.cfg.fsys, path.Join(fragment, "*"+documentExt))
	if err != nil || len(matches) == 0 {
		return nil, ""
	}
	sort.Strings(matches)
	layers := make([]map[string]any, 0, len(matches))
	for _, match := range matches {
		if doc := v.readFS(loadID, match); len(doc) > 0 {
			layers = append(layers, doc)
		}
	}
	if len(layers) == 0 {
		return nil, ""
	}
	return layering.MergeDocuments(layers...), fragment + "/"
}

// readFS returns nil for missing or unreadable documents. Decode failures
// are logged and skipped so later candidates still get a chance.
func (v *Values) readFS(loadID, name string) map[string]any {
	file, err := v.cfg.fsys.Open(name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			v.logSkipped(loadID, name, err)
		}
		return nil
	}
	defer file.Close()

	doc, err := v.cfg.decoder.Decode(name, file)
	if err != nil {
		v.logSkipped(loadID, name, err)
		return nil
	}
	return doc
}

func (v *Values) logSkipped(loadID, name string, err error) {
	v.cfg.loadLogger.LogLoad(LoadEvent{
		LoadID:   loadID,
		Locale:   v.desc.Locale(),
		Resource: name,
		Key:      v.desc.Key(),
		Err:      err,
	})
}

func selectKey(doc map[string]any, key string) map[string]any {
	value, ok := doc[key]
	if !ok || value == nil {
		return nil
	}
	return map[string]any{key: value}
}

func (v *Values) report(loadID string, result *loadResult, elapsed time.Duration) {
	found := result.err == nil && !result.data.IsEmpty()
	v.cfg.loadLogger.LogLoad(LoadEvent{
		LoadID:   loadID,
		Locale:   v.desc.Locale(),
		Resource: result.resource,
		Key:      v.desc.Key(),
		Found:    found,
		Duration: elapsed,
		Err:      result.err,
	})

	emitter := v.cfg.emitter()
	if !emitter.Enabled() {
		return
	}
	input := activity.SourceEventInput{
		Identifier: v.desc.Identifier(),
		LoadID:     loadID,
		Locale:     v.desc.Locale(),
		Resource:   result.resource,
		Key:        v.desc.Key(),
		Duration:   elapsed,
		Err:        result.err,
	}
	var event activity.Event
	switch {
	case result.err != nil:
		event = activity.BuildSourceFailedEvent(input)
	case found:
		input.Keys = KeysOf(result.data.Snapshot())
		event = activity.BuildSourceLoadedEvent(input)
	default:
		event = activity.BuildSourceEmptyEvent(input)
	}
	if err := emitter.Emit(context.Background(), event); err != nil {
		v.logSkipped(loadID, "activity", err)
	}
}
