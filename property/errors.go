package property

import "errors"

// ErrSchemaInvalid means the schema metadata itself is malformed — a
// caller-contract violation, fatal to the run (spec.md §7).
var ErrSchemaInvalid = errors.New("property: invalid schema")

// ErrTypeMismatch is reported (never silently coerced) when a typed
// accessor is called against a property of a different declared type.
var ErrTypeMismatch = errors.New("property: type mismatch")

// ErrNotArray is reported when an array setter targets a scalar property
// or an array property of a different element type.
var ErrNotArray = errors.New("property: property is not an array")

// ErrArrayIndexRange is reported when an array accessor index is out of
// the property's declared bounds, and by every setter when the property
// id itself is outside the schema.
var ErrArrayIndexRange = errors.New("property: array index out of range")
