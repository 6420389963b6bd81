package fakevalues

import (
	"io"
	"io/fs"
	"strings"

	"github.com/goliatone/go-fakevalues/internal/hydrate"
	"github.com/goliatone/go-fakevalues/locales"
	"github.com/goliatone/go-fakevalues/pkg/activity"
)

const (
	// DefaultLocale is the fallback locale used by Catalog lookups.
	DefaultLocale = "en"
	// DefaultManifest is the manifest file name read by NewCatalog.
	DefaultManifest = "manifest.yml"
)

// Decoder turns one resource into a document. A nil document with a nil
// error means the resource holds no data.
type Decoder interface {
	Decode(resource string, r io.Reader) (map[string]any, error)
}

// DefaultDecoder returns the YAML decoder used when none is configured. It
// strips the "<locale>: faker:" envelope of bundled documents.
func DefaultDecoder() Decoder {
	return hydrate.NewDecoder(hydrate.WithPreHook(hydrate.UnwrapEnvelope))
}

// Option configures Values and Catalog instances.
type Option func(*config)

type config struct {
	fsys          fs.FS
	decoder       Decoder
	loadLogger    LoadLogger
	activityHooks activity.Hooks
	activityCfg   activity.Config
	defaultLocale string
	manifest      string
	evaluator     Evaluator
	programCache  ProgramCache
	functions     *FunctionRegistry
	evalLogger    EvaluatorLogger
}

func applyOptions(opts []Option) config {
	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.fsys == nil {
		cfg.fsys = locales.Data()
	}
	if cfg.decoder == nil {
		cfg.decoder = DefaultDecoder()
	}
	if cfg.loadLogger == nil {
		cfg.loadLogger = noopLoadLogger{}
	}
	if cfg.evalLogger == nil {
		cfg.evalLogger = noopEvaluatorLogger{}
	}
	if cfg.defaultLocale == "" {
		cfg.defaultLocale = DefaultLocale
	}
	if cfg.manifest == "" {
		cfg.manifest = DefaultManifest
	}
	return cfg
}

func (cfg config) emitter() *activity.Emitter {
	settings := cfg.activityCfg
	settings.Enabled = cfg.activityHooks.Enabled()
	return activity.NewEmitter(cfg.activityHooks, settings)
}

// WithFS sets the filesystem probed for locale documents. Defaults to the
// bundled locales.
func WithFS(fsys fs.FS) Option {
	return func(cfg *config) {
		cfg.fsys = fsys
	}
}

// WithDecoder replaces the document decoder.
func WithDecoder(decoder Decoder) Option {
	return func(cfg *config) {
		cfg.decoder = decoder
	}
}

// WithLoadLogger attaches a logger for load events.
func WithLoadLogger(logger LoadLogger) Option {
	return func(cfg *config) {
		cfg.loadLogger = logger
	}
}

// WithDefaultLocale sets the locale Catalog falls back to.
func WithDefaultLocale(locale string) Option {
	return func(cfg *config) {
		cfg.defaultLocale = normalizeLocale(locale)
	}
}

// WithManifest sets the manifest file name read by NewCatalog.
func WithManifest(name string) Option {
	return func(cfg *config) {
		cfg.manifest = strings.TrimSpace(name)
	}
}

// WithEvaluator sets the engine used by Catalog.Evaluate. Defaults to expr.
func WithEvaluator(e Evaluator) Option {
	return func(cfg *config) {
		cfg.evaluator = e
	}
}

// WithProgramCache sets the cache handed to the default evaluator.
func WithProgramCache(cache ProgramCache) Option {
	return func(cfg *config) {
		cfg.programCache = cache
	}
}

// WithEvaluatorLogger attaches a logger for evaluation events.
func WithEvaluatorLogger(logger EvaluatorLogger) Option {
	return func(cfg *config) {
		cfg.evalLogger = logger
	}
}
