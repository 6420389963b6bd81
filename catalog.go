package fakevalues

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-fakevalues/cowmap"
	"github.com/goliatone/go-fakevalues/schema/openapi"
	"gopkg.in/yaml.v3"
)

// ManifestEntry names one category file. Key defaults to the file stem.
type ManifestEntry struct {
	File string `yaml:"file"`
	Key  string `yaml:"key,omitempty"`
}

// GroupKey returns the key the entry is registered under in a Grouping.
func (e ManifestEntry) GroupKey() string {
	if e.Key != "" {
		return e.Key
	}
	return strings.TrimSuffix(path.Base(e.File), path.Ext(e.File))
}

// Manifest lists the category files probed for every locale.
type Manifest struct {
	Files []ManifestEntry `yaml:"files"`
}

// ReadManifest decodes and validates the manifest stored at name in fsys.
func ReadManifest(fsys fs.FS, name string) (Manifest, error) {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return Manifest{}, fmt.Errorf("%w: read %s: %w", ErrInvalidManifest, name, err)
	}
	var manifest Manifest
	if err := yaml.Unmarshal(raw, &manifest); err != nil {
		return Manifest{}, fmt.Errorf("%w: parse %s: %w", ErrInvalidManifest, name, err)
	}
	if err := manifest.Validate(); err != nil {
		return Manifest{}, err
	}
	return manifest, nil
}

// Validate checks that every entry names a file and that group keys are
// unique.
func (m Manifest) Validate() error {
	seen := make(map[string]string, len(m.Files))
	for i, entry := range m.Files {
		if strings.TrimSpace(entry.File) == "" {
			return fmt.Errorf("%w: entry %d has no file", ErrInvalidManifest, i)
		}
		key := entry.GroupKey()
		if previous, ok := seen[key]; ok {
			return fmt.Errorf("%w: %s and %s both register key %q", ErrInvalidManifest, previous, entry.File, key)
		}
		seen[key] = entry.File
	}
	return nil
}

// Catalog serves per-locale groupings built from a manifest. Groupings are
// built on first use and cached for the catalog's lifetime.
type Catalog struct {
	cfg       config
	manifest  Manifest
	evaluator Evaluator

	mu        sync.Mutex
	groupings *cowmap.Map[string, *Grouping]
}

// NewCatalog reads the manifest eagerly; data documents are read lazily.
func NewCatalog(opts ...Option) (*Catalog, error) {
	cfg := applyOptions(opts)
	manifest, err := ReadManifest(cfg.fsys, cfg.manifest)
	if err != nil {
		return nil, err
	}
	evaluator, err := cfg.resolveEvaluator()
	if err != nil {
		return nil, err
	}
	return &Catalog{
		cfg:       cfg,
		manifest:  manifest,
		evaluator: evaluator,
		groupings: cowmap.New[string, *Grouping](nil),
	}, nil
}

// Manifest returns a copy of the manifest the catalog was built from.
func (c *Catalog) Manifest() Manifest {
	return Manifest{Files: append([]ManifestEntry(nil), c.manifest.Files...)}
}

// DefaultLocale returns the fallback locale.
func (c *Catalog) DefaultLocale() string {
	return c.cfg.defaultLocale
}

// Grouping returns the grouping for locale, building it on first use.
func (c *Catalog) Grouping(locale string) *Grouping {
	id := normalizeLocale(locale)
	if grouping, ok := c.groupings.Get(id); ok {
		return grouping
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if grouping, ok := c.groupings.Get(id); ok {
		return grouping
	}
	grouping := NewGrouping()
	for _, entry := range c.manifest.Files {
		desc := NewPathDescriptor(id, entry.File, entry.Key)
		// Add only fails for foreign provider kinds.
		_ = grouping.Add(newValues(desc, c.cfg))
	}
	_, _ = c.groupings.Put(id, grouping)
	return grouping
}

// Locales returns the locales whose groupings have been built.
func (c *Catalog) Locales() []string {
	locales := c.groupings.Keys()
	sort.Strings(locales)
	return locales
}

// Resolve returns the value for key in locale, falling back to the default
// locale. Missing data yields nil with a nil error.
func (c *Catalog) Resolve(locale, key string) (any, error) {
	for _, candidate := range c.fallbackChain(locale) {
		value, err := c.Grouping(candidate).Get(key)
		if err != nil {
			return nil, err
		}
		if value != nil {
			return value, nil
		}
	}
	return nil, nil
}

// ResolveWithTrace is Resolve plus a record of every locale consulted.
func (c *Catalog) ResolveWithTrace(locale, key string) (any, Trace, error) {
	trace := Trace{Key: key}
	var resolved any
	for _, candidate := range c.fallbackChain(locale) {
		grouping := c.Grouping(candidate)
		value, err := grouping.Get(key)
		if err != nil {
			return nil, trace, err
		}
		layer := Provenance{Locale: candidate, Found: value != nil}
		if value != nil {
			layer.Value = value
			if provider, ok := grouping.Provider(key); ok {
				if values, ok := provider.(*Values); ok {
					layer.Resource = values.Resource()
				}
			}
			if resolved == nil {
				resolved = value
			}
		}
		trace.Layers = append(trace.Layers, layer)
	}
	return resolved, trace, nil
}

// Data resolves every manifest key for locale into one map. Keys without
// data in either locale are omitted.
func (c *Catalog) Data(locale string) (map[string]any, error) {
	data := make(map[string]any, len(c.manifest.Files))
	for _, entry := range c.manifest.Files {
		key := entry.GroupKey()
		value, err := c.Resolve(locale, key)
		if err != nil {
			return nil, err
		}
		if value != nil {
			data[key] = value
		}
	}
	return data, nil
}

// Evaluate runs expr against Data(locale). Every category key is a
// top-level variable, e.g. "address.city_prefix[0]".
func (c *Catalog) Evaluate(locale, expr string) (any, error) {
	return c.EvaluateWith(EvalContext{Locale: locale}, expr)
}

// EvaluateWith is Evaluate with caller supplied arguments and clock. When
// ctx.Data is nil it is filled from ctx.Locale.
func (c *Catalog) EvaluateWith(ctx EvalContext, expr string) (any, error) {
	if ctx.Data == nil {
		data, err := c.Data(ctx.Locale)
		if err != nil {
			return nil, err
		}
		ctx.Data = data
	}
	return evaluate(c.evaluator, c.cfg.evalLogger, ctx, expr)
}

// Describe returns field descriptors for the data resolved for locale.
func (c *Catalog) Describe(locale string) ([]FieldDescriptor, error) {
	data, err := c.Data(locale)
	if err != nil {
		return nil, err
	}
	return DescribeValue(data), nil
}

// OpenAPI describes the data set of locale as an OpenAPI document with one
// component per manifest category.
func (c *Catalog) OpenAPI(locale string, opts ...openapi.GeneratorOption) (map[string]any, error) {
	data, err := c.Data(locale)
	if err != nil {
		return nil, err
	}
	return openapi.NewGenerator(opts...).Generate(data)
}

func (c *Catalog) fallbackChain(locale string) []string {
	requested := normalizeLocale(locale)
	if requested == "" {
		return []string{c.cfg.defaultLocale}
	}
	if requested == c.cfg.defaultLocale || c.cfg.defaultLocale == "" {
		return []string{requested}
	}
	return []string{requested, c.cfg.defaultLocale}
}
