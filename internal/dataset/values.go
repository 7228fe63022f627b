package dataset

import (
	"bytes"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// IsNull reports whether v is nil or a floating-point NaN.
func IsNull(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(t)
	case float32:
		return math.IsNaN(float64(t))
	}
	return false
}

// IsNumeric reports whether v holds an integer or floating-point value. Booleans,
// strings and byte slices are not numeric even when they look like numbers.
func IsNumeric(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}

// AsFloat converts a numeric value to float64.
func AsFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case int:
		return float64(t), true
	case int8:
		return float64(t), true
	case int16:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint8:
		return float64(t), true
	case uint16:
		return float64(t), true
	case uint32:
		return float64(t), true
	case uint64:
		return float64(t), true
	case float32:
		return float64(t), true
	case float64:
		return t, true
	}
	return 0, false
}

// AsInt64 converts integers, integral floats, and numeric strings or byte slices to int64.
func AsInt64(v any) (int64, error) {
	switch t := v.(type) {
	case int:
		return int64(t), nil
	case int8:
		return int64(t), nil
	case int16:
		return int64(t), nil
	case int32:
		return int64(t), nil
	case int64:
		return t, nil
	case uint:
		return int64(t), nil
	case uint8:
		return int64(t), nil
	case uint16:
		return int64(t), nil
	case uint32:
		return int64(t), nil
	case uint64:
		if t > math.MaxInt64 {
			return 0, fmt.Errorf("value %d overflows int64", t)
		}
		return int64(t), nil
	case float32, float64:
		f, _ := AsFloat(t)
		if f != math.Trunc(f) {
			return 0, fmt.Errorf("value %v is not integral", f)
		}
		return int64(f), nil
	case []byte:
		return AsInt64(string(t))
	case string:
		n, err := ParseNumber(t)
		if err != nil {
			return 0, err
		}
		return AsInt64(n)
	case nil:
		return 0, fmt.Errorf("value is null")
	}
	return 0, fmt.Errorf("cannot convert %T to int64", v)
}

// AsBigInt returns integer kinds as an exact big.Int. Floats are not integers
// here, even when integral.
func AsBigInt(v any) (*big.Int, bool) {
	switch t := v.(type) {
	case int:
		return big.NewInt(int64(t)), true
	case int8:
		return big.NewInt(int64(t)), true
	case int16:
		return big.NewInt(int64(t)), true
	case int32:
		return big.NewInt(int64(t)), true
	case int64:
		return big.NewInt(t), true
	case uint:
		return new(big.Int).SetUint64(uint64(t)), true
	case uint8:
		return big.NewInt(int64(t)), true
	case uint16:
		return big.NewInt(int64(t)), true
	case uint32:
		return big.NewInt(int64(t)), true
	case uint64:
		return new(big.Int).SetUint64(t), true
	}
	return nil, false
}

// ParseNumber parses s as an int64 when possible, otherwise as a float64.
func ParseNumber(s string) (any, error) {
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("parsing %q as number: %w", s, err)
	}
	return f, nil
}

// Equal reports whether two cell values are the same. Numerics compare by value
// across integer and float kinds; two nulls are equal.
func Equal(a, b any) bool {
	if IsNull(a) || IsNull(b) {
		return IsNull(a) && IsNull(b)
	}
	if IsNumeric(a) && IsNumeric(b) {
		if ai, ok := AsBigInt(a); ok {
			if bi, ok := AsBigInt(b); ok {
				return ai.Cmp(bi) == 0
			}
		}
		af, _ := AsFloat(a)
		bf, _ := AsFloat(b)
		return af == bf
	}
	switch at := a.(type) {
	case time.Time:
		bt, ok := b.(time.Time)
		return ok && at.Equal(bt)
	case []byte:
		switch bt := b.(type) {
		case []byte:
			return bytes.Equal(at, bt)
		case string:
			return string(at) == bt
		}
		return false
	case string:
		if bt, ok := b.([]byte); ok {
			return at == string(bt)
		}
	}
	return reflect.DeepEqual(a, b)
}

// CompareFloats reports whether a and b differ by at most tolerance.
func CompareFloats(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}
