package property

import (
	"math"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntDelta(t *testing.T) {
	v := NewInt(10)
	v.Set(12)
	assert.True(t, v.IsDifferentFromCloud(2))
	assert.False(t, v.IsDifferentFromCloud(3))
	assert.True(t, v.IsDifferentFromCloud(0))
}

func TestIntDeltaExtremes(t *testing.T) {
	v := NewInt(math.MaxInt64)
	require.NoError(t, v.SetCloud(int64(-math.MaxInt64)))
	assert.True(t, v.IsDifferentFromCloud(5))
	assert.True(t, v.IsDifferentFromCloud(1e18))

	v = NewInt(math.MinInt64)
	require.NoError(t, v.SetCloud(int64(math.MaxInt64)))
	assert.True(t, v.IsDifferentFromCloud(math.MaxUint64/2))

	v = NewInt(math.MaxInt64)
	require.NoError(t, v.SetCloud(int64(math.MaxInt64-1)))
	assert.True(t, v.IsDifferentFromCloud(1))
	assert.False(t, v.IsDifferentFromCloud(2))
}

func TestIntSetCloudCoercesNumbers(t *testing.T) {
	v := NewInt(0)
	require.NoError(t, v.SetCloud(float64(41.9)))
	assert.Equal(t, int64(41), v.Cloud())

	require.NoError(t, v.SetCloud(cbor.RawMessage{0xf9, 0x3c, 0x00}))
	assert.Equal(t, int64(1), v.Cloud())

	assert.ErrorIs(t, v.SetCloud("7"), ErrTypeMismatch)
	assert.ErrorIs(t, v.SetCloud(math.NaN()), ErrTypeMismatch)
}

func TestFloatSetLocalAcceptsIntegers(t *testing.T) {
	v := NewFloat(0)
	require.NoError(t, v.SetLocal(int64(3)))
	assert.Equal(t, 3.0, v.Get())
	assert.ErrorIs(t, v.SetLocal(true), ErrTypeMismatch)
}

func TestBoolAndString(t *testing.T) {
	b := NewBool(false)
	require.NoError(t, b.SetCloud(true))
	assert.True(t, b.IsDifferentFromCloud(100), "delta is ignored for bools")
	b.FromCloudToLocal()
	assert.True(t, b.Get())
	assert.ErrorIs(t, b.SetLocal(1), ErrTypeMismatch)

	s := NewString("x")
	require.NoError(t, s.SetCloud("y"))
	assert.True(t, s.IsDifferentFromCloud(0))
	s.FromCloudToLocal()
	assert.Equal(t, "y", s.Get())
	assert.ErrorIs(t, s.SetCloud(1.0), ErrTypeMismatch)
}

func TestPrimitiveAttributes(t *testing.T) {
	v := NewFloat(1)
	attrs := v.Attributes()
	require.Len(t, attrs, 1)
	assert.Equal(t, "", attrs[0].Name)
	assert.Same(t, v, attrs[0].Scalar)
}

func TestLocation(t *testing.T) {
	loc := NewLocation(45.0, 7.0)
	assert.False(t, loc.IsPrimitive())
	assert.Equal(t, KindLocation, loc.Kind())

	attrs := loc.Attributes()
	require.Len(t, attrs, 2)
	assert.Equal(t, "lat", attrs[0].Name)
	assert.Equal(t, "lon", attrs[1].Name)

	loc.Set(45.05, 7.0)
	assert.False(t, loc.IsDifferentFromCloud(0.1))
	assert.True(t, loc.IsDifferentFromCloud(0.01))

	require.NoError(t, attrs[1].Scalar.SetCloud(8.0))
	loc.FromCloudToLocal()
	lat, lon := loc.Get()
	assert.Equal(t, 45.0, lat)
	assert.Equal(t, 8.0, lon)

	loc.Set(1, 2)
	loc.FromLocalToCloud()
	assert.False(t, loc.IsDifferentFromCloud(0))
}

func TestNewValue(t *testing.T) {
	for _, k := range []Kind{KindBool, KindInt, KindFloat, KindString, KindLocation} {
		v, err := NewValue(k)
		require.NoError(t, err)
		assert.Equal(t, k, v.Kind())
	}

	_, err := NewValue(KindUnknown)
	assert.ErrorIs(t, err, ErrUnknownKind)

	k, err := ParseKind("Number")
	require.NoError(t, err)
	assert.Equal(t, KindFloat, k)

	_, err = ParseKind("color")
	assert.ErrorIs(t, err, ErrUnknownKind)
}
