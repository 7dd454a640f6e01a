package property

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testSchema(t *testing.T) *Schema {
	t.Helper()
	metas := []Meta{
		{ID: 0, Name: "ColdGas", Type: TypeF64, Core: true, Default: Value{F64: 0}},
		{ID: 1, Name: "Sfr", Type: TypeF32, Core: true, Default: Value{F32: 0}},
		{ID: 2, Name: "SfrBins", Type: TypeF32, IsArray: true, ArraySize: 4, Default: Value{F32: -1}},
		{ID: 3, Name: "NumMergers", Type: TypeI32, Default: Value{I32: 0}},
	}
	s, err := NewSchema(metas, nil)
	require.NoError(t, err)
	return s
}

func TestResetToDefaults(t *testing.T) {
	s := testSchema(t)
	var st Store
	st.Allocate(s)

	require.Equal(t, float64(0), st.GetF64(0, -9))
	require.Equal(t, float32(-1), st.GetArrayElementF32(2, 3, -9))

	require.NoError(t, st.SetF64(0, 12.5))
	st.ResetToDefaults()
	require.Equal(t, float64(0), st.GetF64(0, -9))
}

func TestTypeMismatchReturnsFallback(t *testing.T) {
	s := testSchema(t)
	var st Store
	st.Allocate(s)

	require.Equal(t, float32(-5), st.GetF32(0, -5)) // id 0 is f64, not f32
	require.ErrorIs(t, st.SetF32(0, 1), ErrTypeMismatch)
}

func TestArrayBounds(t *testing.T) {
	s := testSchema(t)
	var st Store
	st.Allocate(s)

	require.NoError(t, st.SetArrayElementF32(2, 0, 3.5))
	require.Equal(t, float32(3.5), st.GetArrayElementF32(2, 0, -1))
	require.Equal(t, float32(-1), st.GetArrayElementF32(2, 99, -1))
	require.ErrorIs(t, st.SetArrayElementF32(2, 99, 1), ErrArrayIndexRange)
}

func TestDeepCopyIsAliasFree(t *testing.T) {
	s := testSchema(t)
	var src Store
	src.Allocate(s)
	require.NoError(t, src.SetF64(0, 42))
	require.NoError(t, src.SetArrayElementF32(2, 1, 7))

	var dst Store
	DeepCopy(&dst, &src, s)

	require.NoError(t, dst.SetF64(0, 100))
	require.NoError(t, dst.SetArrayElementF32(2, 1, 99))

	require.Equal(t, float64(42), src.GetF64(0, -1))
	require.Equal(t, float32(7), src.GetArrayElementF32(2, 1, -1))
	require.Equal(t, float64(100), dst.GetF64(0, -1))
}

func TestIDOfAndIsCore(t *testing.T) {
	s := testSchema(t)
	require.Equal(t, 0, s.IDOf("ColdGas"))
	require.Equal(t, InvalidID, s.IDOf("DoesNotExist"))
	require.True(t, s.IsCore(1))
	require.False(t, s.IsCore(3))
}

func TestSchemaRejectsCoreAfterNonCore(t *testing.T) {
	_, err := NewSchema([]Meta{
		{ID: 0, Name: "Ext", Type: TypeF32},
		{ID: 1, Name: "Core", Type: TypeF32, Core: true},
	}, nil)
	require.ErrorIs(t, err, ErrSchemaInvalid)
}
