// Copyright (C) 2020-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package property implements the galaxy property store: a typed,
// metadata-driven key-value table attached to every galaxy record. The
// store is the single canonical representation for galaxy-owned state —
// core fields that spec.md's data model names as struct-resident live on
// galaxy.Record directly, everything else lives here.
package property

import (
	"fmt"

	"github.com/luxfi/log"

	"github.com/galform/engine/utils/wrappers"
)

// Type is a recognised scalar storage type.
type Type int

const (
	TypeInvalid Type = iota
	TypeF32
	TypeF64
	TypeI32
	TypeI64
	TypeU64
)

func (t Type) String() string {
	switch t {
	case TypeF32:
		return "f32"
	case TypeF64:
		return "f64"
	case TypeI32:
		return "i32"
	case TypeI64:
		return "i64"
	case TypeU64:
		return "u64"
	default:
		return "invalid"
	}
}

// Meta is the immutable, process-wide description of one property.
type Meta struct {
	ID        int
	Name      string
	Type      Type
	IsArray   bool
	ArraySize int // meaningful only when IsArray
	Core      bool
	Default   Value
}

// Value is a tagged union big enough to hold any recognised scalar, or the
// default element of an array property.
type Value struct {
	F32 float32
	F64 float64
	I32 int32
	I64 int64
	U64 uint64
}

// InvalidID is returned by IDOf for unknown names.
const InvalidID = -1

// nameCacheCap bounds the id_of name->id cache, per spec.md §4.A.
const nameCacheCap = 64

// Schema is the process-wide, immutable-once-loaded property metadata
// table. Build one with NewSchema and share the returned pointer
// everywhere a property.Store is allocated.
type Schema struct {
	metas     []Meta
	byName    map[string]int
	coreCount int

	cache     map[string]int
	cacheKeys []string // FIFO eviction order, bounded to nameCacheCap

	log log.Logger
}

// NewSchema builds a Schema from an ordered metadata list. Core properties
// (Core == true) must be contiguous and id-ordered starting at 0; this is
// what makes IsCore a single comparison.
func NewSchema(metas []Meta, logger log.Logger) (*Schema, error) {
	if logger == nil {
		logger = log.NewNoOpLogger()
	}
	s := &Schema{
		metas:  make([]Meta, len(metas)),
		byName: make(map[string]int, len(metas)),
		cache:  make(map[string]int, nameCacheCap),
		log:    logger,
	}
	var errs wrappers.Errs
	coreCount := 0
	seenNonCore := false
	for i, m := range metas {
		if m.ID != i {
			errs.Add(fmt.Errorf("%w: property %q declares id %d at position %d", ErrSchemaInvalid, m.Name, m.ID, i))
		}
		if _, dup := s.byName[m.Name]; dup {
			errs.Add(fmt.Errorf("%w: duplicate property name %q", ErrSchemaInvalid, m.Name))
		}
		if m.IsArray && m.ArraySize <= 0 {
			errs.Add(fmt.Errorf("%w: array property %q has non-positive size %d", ErrSchemaInvalid, m.Name, m.ArraySize))
		}
		if m.Core {
			if seenNonCore {
				errs.Add(fmt.Errorf("%w: core property %q declared after a non-core property", ErrSchemaInvalid, m.Name))
			}
			coreCount++
		} else {
			seenNonCore = true
		}
		s.metas[i] = m
		s.byName[m.Name] = i
	}
	if errs.Errored() {
		return nil, errs.Err()
	}
	s.coreCount = coreCount
	return s, nil
}

// Len returns the number of properties in the schema.
func (s *Schema) Len() int { return len(s.metas) }

// Meta returns the metadata for id, or false if out of range.
func (s *Schema) Meta(id int) (Meta, bool) {
	if id < 0 || id >= len(s.metas) {
		return Meta{}, false
	}
	return s.metas[id], true
}

// IsCore reports whether id is one of the always-present core properties.
func (s *Schema) IsCore(id int) bool {
	return id >= 0 && id < s.coreCount
}

// IDOf maps a property name to its id, consulting and maintaining a bounded
// cache ahead of the authoritative name map. Unknown names return
// InvalidID.
func (s *Schema) IDOf(name string) int {
	if id, ok := s.cache[name]; ok {
		return id
	}
	id, ok := s.byName[name]
	if !ok {
		return InvalidID
	}
	s.cachePut(name, id)
	return id
}

func (s *Schema) cachePut(name string, id int) {
	if len(s.cacheKeys) >= nameCacheCap {
		oldest := s.cacheKeys[0]
		s.cacheKeys = s.cacheKeys[1:]
		delete(s.cache, oldest)
	}
	s.cache[name] = id
	s.cacheKeys = append(s.cacheKeys, name)
}
