// Package fakevalues resolves locale specific fake data sets ("address",
// "creature", "color") from YAML documents.
//
// A Descriptor names what to load: a locale, an optional file path relative
// to each locale directory, an optional top-level key and an optional
// explicit resource. Values loads a descriptor lazily, probing the locale
// chain from most to least specific ("en-CA" then "en") until a document
// with data is found:
//
//	v := fakevalues.New(fakevalues.NewPathDescriptor("en-CA", "address.yml", "address"))
//	address, err := v.Get("address")
//
// Missing data is never an error; only explicit resources that cannot be
// read report a *LoadError. A Grouping merges several Values into one key
// space and a Catalog builds one Grouping per locale from a manifest, with a
// default locale fallback and expression evaluation over the result:
//
//	catalog, err := fakevalues.NewCatalog(
//		fakevalues.WithFunctionRegistry(fakevalues.BuiltinFunctions(nil)),
//	)
//	postcode, err := catalog.Evaluate("en-CA", "bothify(pick(address.postcode))")
//
// Every type is safe for concurrent use.
package fakevalues
