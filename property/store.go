package property

// slot is the backing storage for one property. Only the field matching
// the property's declared Type is meaningful; arr holds per-element data
// for array properties, sized to Meta.ArraySize at allocation time.
type slot struct {
	f32 float32
	f64 float64
	i32 int32
	i64 int64
	u64 uint64

	arrF32 []float32
	arrF64 []float64
	arrI32 []int32
	arrI64 []int64
	arrU64 []uint64
}

// Store is one galaxy's property table. The zero value is not usable;
// build one with Allocate.
type Store struct {
	schema *Schema
	slots  []slot
}

// Allocate allocates backing storage for every property in schema.
// Idempotent: calling it again on an already-allocated Store against the
// same schema just resets to defaults.
func (s *Store) Allocate(schema *Schema) {
	if s.schema == schema && len(s.slots) == schema.Len() {
		s.ResetToDefaults()
		return
	}
	s.schema = schema
	s.slots = make([]slot, schema.Len())
	s.allocateArrays()
	s.ResetToDefaults()
}

func (s *Store) allocateArrays() {
	for i := range s.slots {
		m := s.schema.metas[i]
		if !m.IsArray {
			continue
		}
		switch m.Type {
		case TypeF32:
			s.slots[i].arrF32 = make([]float32, m.ArraySize)
		case TypeF64:
			s.slots[i].arrF64 = make([]float64, m.ArraySize)
		case TypeI32:
			s.slots[i].arrI32 = make([]int32, m.ArraySize)
		case TypeI64:
			s.slots[i].arrI64 = make([]int64, m.ArraySize)
		case TypeU64:
			s.slots[i].arrU64 = make([]uint64, m.ArraySize)
		}
	}
}

// ResetToDefaults writes each property's declared default over the
// current contents.
func (s *Store) ResetToDefaults() {
	for i := range s.slots {
		m := s.schema.metas[i]
		d := m.Default
		if m.IsArray {
			resetArray(&s.slots[i], m, d)
			continue
		}
		s.slots[i].f32, s.slots[i].f64 = d.F32, d.F64
		s.slots[i].i32, s.slots[i].i64, s.slots[i].u64 = d.I32, d.I64, d.U64
	}
}

func resetArray(sl *slot, m Meta, d Value) {
	switch m.Type {
	case TypeF32:
		for i := range sl.arrF32 {
			sl.arrF32[i] = d.F32
		}
	case TypeF64:
		for i := range sl.arrF64 {
			sl.arrF64[i] = d.F64
		}
	case TypeI32:
		for i := range sl.arrI32 {
			sl.arrI32[i] = d.I32
		}
	case TypeI64:
		for i := range sl.arrI64 {
			sl.arrI64[i] = d.I64
		}
	case TypeU64:
		for i := range sl.arrU64 {
			sl.arrU64[i] = d.U64
		}
	}
}

// Free releases the backing storage. The Store is unusable until
// Allocate is called again.
func (s *Store) Free() {
	s.schema = nil
	s.slots = nil
}

// Allocated reports whether the store has backing storage.
func (s *Store) Allocated() bool { return s.schema != nil }

func (s *Store) reportMismatch(id int, want Type) {
	if s.schema == nil {
		return
	}
	m, ok := s.schema.Meta(id)
	name := "<unknown>"
	got := TypeInvalid
	if ok {
		name, got = m.Name, m.Type
	}
	s.schema.log.Error("property: type mismatch",
		"id", id,
		"name", name,
		"want", want.String(),
		"got", got.String(),
	)
}

// GetF32 returns the stored f32 value, or fallback if id is out of range
// or not an f32 property (the mismatch is logged, never coerced).
func (s *Store) GetF32(id int, fallback float32) float32 {
	if id < 0 || id >= len(s.slots) {
		return fallback
	}
	if s.schema.metas[id].Type != TypeF32 {
		s.reportMismatch(id, TypeF32)
		return fallback
	}
	return s.slots[id].f32
}

// SetF32 writes v to property id. No-op on an invalid id or type
// mismatch; returns the error describing why.
func (s *Store) SetF32(id int, v float32) error {
	if id < 0 || id >= len(s.slots) {
		return ErrArrayIndexRange
	}
	if s.schema.metas[id].Type != TypeF32 {
		s.reportMismatch(id, TypeF32)
		return ErrTypeMismatch
	}
	s.slots[id].f32 = v
	return nil
}

// GetF64 returns the stored f64 value, or fallback on range/type error.
func (s *Store) GetF64(id int, fallback float64) float64 {
	if id < 0 || id >= len(s.slots) {
		return fallback
	}
	if s.schema.metas[id].Type != TypeF64 {
		s.reportMismatch(id, TypeF64)
		return fallback
	}
	return s.slots[id].f64
}

// SetF64 writes v to property id.
func (s *Store) SetF64(id int, v float64) error {
	if id < 0 || id >= len(s.slots) {
		return ErrArrayIndexRange
	}
	if s.schema.metas[id].Type != TypeF64 {
		s.reportMismatch(id, TypeF64)
		return ErrTypeMismatch
	}
	s.slots[id].f64 = v
	return nil
}

// GetI32 returns the stored i32 value, or fallback on range/type error.
func (s *Store) GetI32(id int, fallback int32) int32 {
	if id < 0 || id >= len(s.slots) {
		return fallback
	}
	if s.schema.metas[id].Type != TypeI32 {
		s.reportMismatch(id, TypeI32)
		return fallback
	}
	return s.slots[id].i32
}

// SetI32 writes v to property id.
func (s *Store) SetI32(id int, v int32) error {
	if id < 0 || id >= len(s.slots) {
		return ErrArrayIndexRange
	}
	if s.schema.metas[id].Type != TypeI32 {
		s.reportMismatch(id, TypeI32)
		return ErrTypeMismatch
	}
	s.slots[id].i32 = v
	return nil
}

// GetI64 returns the stored i64 value, or fallback on range/type error.
func (s *Store) GetI64(id int, fallback int64) int64 {
	if id < 0 || id >= len(s.slots) {
		return fallback
	}
	if s.schema.metas[id].Type != TypeI64 {
		s.reportMismatch(id, TypeI64)
		return fallback
	}
	return s.slots[id].i64
}

// SetI64 writes v to property id.
func (s *Store) SetI64(id int, v int64) error {
	if id < 0 || id >= len(s.slots) {
		return ErrArrayIndexRange
	}
	if s.schema.metas[id].Type != TypeI64 {
		s.reportMismatch(id, TypeI64)
		return ErrTypeMismatch
	}
	s.slots[id].i64 = v
	return nil
}

// GetU64 returns the stored u64 value, or fallback on range/type error.
func (s *Store) GetU64(id int, fallback uint64) uint64 {
	if id < 0 || id >= len(s.slots) {
		return fallback
	}
	if s.schema.metas[id].Type != TypeU64 {
		s.reportMismatch(id, TypeU64)
		return fallback
	}
	return s.slots[id].u64
}

// SetU64 writes v to property id.
func (s *Store) SetU64(id int, v uint64) error {
	if id < 0 || id >= len(s.slots) {
		return ErrArrayIndexRange
	}
	if s.schema.metas[id].Type != TypeU64 {
		s.reportMismatch(id, TypeU64)
		return ErrTypeMismatch
	}
	s.slots[id].u64 = v
	return nil
}

// GetArrayElementF32 returns element i of an f32 array property, bounds
// checked by the property's declared IsArray/ArraySize metadata.
func (s *Store) GetArrayElementF32(id, i int, fallback float32) float32 {
	if id < 0 || id >= len(s.slots) {
		return fallback
	}
	m := s.schema.metas[id]
	if !m.IsArray || m.Type != TypeF32 {
		s.reportMismatch(id, TypeF32)
		return fallback
	}
	if i < 0 || i >= len(s.slots[id].arrF32) {
		return fallback
	}
	return s.slots[id].arrF32[i]
}

// SetArrayElementF32 writes element i of an f32 array property.
func (s *Store) SetArrayElementF32(id, i int, v float32) error {
	if id < 0 || id >= len(s.slots) {
		return ErrArrayIndexRange
	}
	m := s.schema.metas[id]
	if !m.IsArray || m.Type != TypeF32 {
		s.reportMismatch(id, TypeF32)
		return ErrNotArray
	}
	if i < 0 || i >= len(s.slots[id].arrF32) {
		return ErrArrayIndexRange
	}
	s.slots[id].arrF32[i] = v
	return nil
}

// GetArrayElementF64 returns element i of an f64 array property.
func (s *Store) GetArrayElementF64(id, i int, fallback float64) float64 {
	if id < 0 || id >= len(s.slots) {
		return fallback
	}
	m := s.schema.metas[id]
	if !m.IsArray || m.Type != TypeF64 {
		s.reportMismatch(id, TypeF64)
		return fallback
	}
	if i < 0 || i >= len(s.slots[id].arrF64) {
		return fallback
	}
	return s.slots[id].arrF64[i]
}

// SetArrayElementF64 writes element i of an f64 array property.
func (s *Store) SetArrayElementF64(id, i int, v float64) error {
	if id < 0 || id >= len(s.slots) {
		return ErrArrayIndexRange
	}
	m := s.schema.metas[id]
	if !m.IsArray || m.Type != TypeF64 {
		s.reportMismatch(id, TypeF64)
		return ErrNotArray
	}
	if i < 0 || i >= len(s.slots[id].arrF64) {
		return ErrArrayIndexRange
	}
	s.slots[id].arrF64[i] = v
	return nil
}

// DeepCopy allocates dst's storage against schema and copies every
// property from src by value. dst never aliases src's backing arrays
// (spec.md invariant 7 / Testable Property 7).
func DeepCopy(dst, src *Store, schema *Schema) {
	dst.Allocate(schema)
	for i := range src.slots {
		m := schema.metas[i]
		if !m.IsArray {
			dst.slots[i].f32 = src.slots[i].f32
			dst.slots[i].f64 = src.slots[i].f64
			dst.slots[i].i32 = src.slots[i].i32
			dst.slots[i].i64 = src.slots[i].i64
			dst.slots[i].u64 = src.slots[i].u64
			continue
		}
		switch m.Type {
		case TypeF32:
			copy(dst.slots[i].arrF32, src.slots[i].arrF32)
		case TypeF64:
			copy(dst.slots[i].arrF64, src.slots[i].arrF64)
		case TypeI32:
			copy(dst.slots[i].arrI32, src.slots[i].arrI32)
		case TypeI64:
			copy(dst.slots[i].arrI64, src.slots[i].arrI64)
		case TypeU64:
			copy(dst.slots[i].arrU64, src.slots[i].arrU64)
		}
	}
}
