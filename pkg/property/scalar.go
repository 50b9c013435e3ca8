package property

import (
	"fmt"
	"math"

	"github.com/thingsync/thing-go/pkg/numeric"
)

// Bool is a boolean property value.
type Bool struct {
	local, cloud bool
}

// NewBool creates a Bool with both copies set to v.
func NewBool(v bool) *Bool { return &Bool{local: v, cloud: v} }

// Get returns the local value.
func (b *Bool) Get() bool { return b.local }

// Set sets the local value.
func (b *Bool) Set(v bool) { b.local = v }

func (b *Bool) Kind() Kind { return KindBool }
func (b *Bool) IsPrimitive() bool { return true }
func (b *Bool) IsDifferentFromCloud(float64) bool { return b.local != b.cloud }
func (b *Bool) FromCloudToLocal() { b.local = b.cloud }
func (b *Bool) FromLocalToCloud() { b.cloud = b.local }
func (b *Bool) Attributes() []Attribute { return []Attribute{{Scalar: b}} }
func (b *Bool) Local() any { return b.local }
func (b *Bool) Cloud() any { return b.cloud }

func (b *Bool) SetLocal(v any) error { return setBool(&b.local, v) }
func (b *Bool) SetCloud(v any) error { return setBool(&b.cloud, v) }

func setBool(dst *bool, v any) error {
	bv, ok := v.(bool)
	if !ok {
		return fmt.Errorf("%w: expected bool, got %T", ErrTypeMismatch, v)
	}
	*dst = bv
	return nil
}

// Int is an integer property value.
type Int struct {
	local, cloud int64
}

// NewInt creates an Int with both copies set to v.
func NewInt(v int64) *Int { return &Int{local: v, cloud: v} }

// Get returns the local value.
func (i *Int) Get() int64 { return i.local }

// Set sets the local value.
func (i *Int) Set(v int64) { i.local = v }

func (i *Int) Kind() Kind { return KindInt }
func (i *Int) IsPrimitive() bool { return true }

func (i *Int) IsDifferentFromCloud(minDelta float64) bool {
	if i.local == i.cloud {
		return false
	}
	return float64(intGap(i.local, i.cloud)) >= minDelta
}

// intGap returns |a-b| without overflowing.
func intGap(a, b int64) uint64 {
	if a < b {
		a, b = b, a
	}
	return uint64(a) - uint64(b)
}

func (i *Int) FromCloudToLocal() { i.local = i.cloud }
func (i *Int) FromLocalToCloud() { i.cloud = i.local }
func (i *Int) Attributes() []Attribute { return []Attribute{{Scalar: i}} }
func (i *Int) Local() any { return i.local }
func (i *Int) Cloud() any { return i.cloud }

func (i *Int) SetLocal(v any) error { return setInt(&i.local, v) }
func (i *Int) SetCloud(v any) error { return setInt(&i.cloud, v) }

// setInt truncates fractional numbers toward zero.
func setInt(dst *int64, v any) error {
	if n, ok := v.(int64); ok {
		*dst = n
		return nil
	}
	f, ok := numeric.ToFloat64(v)
	if !ok {
		return fmt.Errorf("%w: expected number, got %T", ErrTypeMismatch, v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("%w: %v is not representable as an integer", ErrTypeMismatch, f)
	}
	*dst = int64(f)
	return nil
}

// Float is a floating-point property value.
type Float struct {
	local, cloud float64
}

// NewFloat creates a Float with both copies set to v.
func NewFloat(v float64) *Float { return &Float{local: v, cloud: v} }

// Get returns the local value.
func (f *Float) Get() float64 { return f.local }

// Set sets the local value.
func (f *Float) Set(v float64) { f.local = v }

func (f *Float) Kind() Kind { return KindFloat }
func (f *Float) IsPrimitive() bool { return true }

func (f *Float) IsDifferentFromCloud(minDelta float64) bool {
	return f.local != f.cloud && math.Abs(f.local-f.cloud) >= minDelta
}

func (f *Float) FromCloudToLocal() { f.local = f.cloud }
func (f *Float) FromLocalToCloud() { f.cloud = f.local }
func (f *Float) Attributes() []Attribute { return []Attribute{{Scalar: f}} }
func (f *Float) Local() any { return f.local }
func (f *Float) Cloud() any { return f.cloud }

func (f *Float) SetLocal(v any) error { return setFloat(&f.local, v) }
func (f *Float) SetCloud(v any) error { return setFloat(&f.cloud, v) }

func setFloat(dst *float64, v any) error {
	n, ok := numeric.ToFloat64(v)
	if !ok {
		return fmt.Errorf("%w: expected number, got %T", ErrTypeMismatch, v)
	}
	*dst = n
	return nil
}

// String is a text property value.
type String struct {
	local, cloud string
}

// NewString creates a String with both copies set to v.
func NewString(v string) *String { return &String{local: v, cloud: v} }

// Get returns the local value.
func (s *String) Get() string { return s.local }

// Set sets the local value.
func (s *String) Set(v string) { s.local = v }

func (s *String) Kind() Kind { return KindString }
func (s *String) IsPrimitive() bool { return true }
func (s *String) IsDifferentFromCloud(float64) bool { return s.local != s.cloud }
func (s *String) FromCloudToLocal() { s.local = s.cloud }
func (s *String) FromLocalToCloud() { s.cloud = s.local }
func (s *String) Attributes() []Attribute { return []Attribute{{Scalar: s}} }
func (s *String) Local() any { return s.local }
func (s *String) Cloud() any { return s.cloud }

func (s *String) SetLocal(v any) error { return setString(&s.local, v) }
func (s *String) SetCloud(v any) error { return setString(&s.cloud, v) }

func setString(dst *string, v any) error {
	sv, ok := v.(string)
	if !ok {
		return fmt.Errorf("%w: expected string, got %T", ErrTypeMismatch, v)
	}
	*dst = sv
	return nil
}

// Compile-time interface satisfaction checks.
var (
	_ Scalar = (*Bool)(nil)
	_ Scalar = (*Int)(nil)
	_ Scalar = (*Float)(nil)
	_ Scalar = (*String)(nil)
)
