package fakevalues

import (
	"path"
	"strings"
)

const documentExt = ".yml"

// Descriptor identifies one data source: a locale, an optional path relative
// to each locale directory, an optional top-level key and an optional
// explicit resource. Descriptors are immutable and comparable with Equal.
type Descriptor struct {
	locale  string
	path    string
	key     string
	locator Locator
}

// NewDescriptor describes the whole document for locale.
func NewDescriptor(locale string) Descriptor {
	return Descriptor{locale: normalizeLocale(locale)}
}

// NewPathDescriptor describes path (e.g. "address.yml") for locale, exposing
// only key when key is not empty.
func NewPathDescriptor(locale, path, key string) Descriptor {
	return Descriptor{
		locale: normalizeLocale(locale),
		path:   strings.TrimSpace(path),
		key:    strings.TrimSpace(key),
	}
}

// NewLocatorDescriptor is NewPathDescriptor with an explicit resource that is
// read instead of probing locale candidates.
func NewLocatorDescriptor(locale, path, key string, locator Locator) Descriptor {
	d := NewPathDescriptor(locale, path, key)
	d.locator = locator
	return d
}

// Locale returns the requested locale in BCP 47 form.
func (d Descriptor) Locale() string {
	return d.locale
}

// Path returns the explicit path, or a file name derived from the locale.
func (d Descriptor) Path() string {
	if d.path != "" {
		return d.path
	}
	return remapLegacy(d.locale) + documentExt
}

// Key returns the exposed top-level key; empty means the whole document.
func (d Descriptor) Key() string {
	return d.key
}

// Locator returns the explicit resource, or nil.
func (d Descriptor) Locator() Locator {
	return d.locator
}

// CandidatePaths returns the locale fragments probed for data, most specific
// first. Legacy language codes are already remapped.
func (d Descriptor) CandidatePaths() []string {
	return localeChain(d.locale)
}

// Equal reports whether both descriptors name the same locale, path, key and
// explicit resource.
func (d Descriptor) Equal(other Descriptor) bool {
	return d.locale == other.locale &&
		d.path == other.path &&
		d.key == other.key &&
		locatorID(d.locator) == locatorID(other.locator)
}

// Identifier returns a stable string covering every field, suitable as a map
// key wherever Equal descriptors must collide.
func (d Descriptor) Identifier() string {
	return strings.Join([]string{d.locale, d.path, d.key, locatorID(d.locator)}, "|")
}

// groupKey is the grouping key: the exposed key, or the path stem.
func (d Descriptor) groupKey() string {
	if d.key != "" {
		return d.key
	}
	return strings.TrimSuffix(path.Base(d.Path()), path.Ext(d.Path()))
}

func (d Descriptor) String() string {
	return d.Identifier()
}

func locatorID(l Locator) string {
	if l == nil {
		return ""
	}
	if identified, ok := l.(IdentifiedLocator); ok {
		return identified.Identity()
	}
	return l.String()
}
