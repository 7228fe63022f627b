package dataset

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// KeyOf encodes the values of cols in r as a single string such that two rows
// share a key exactly when their values are Equal column by column. Each part
// is length-prefixed, so no string value can run into the next column.
func KeyOf(r Row, cols []string) string {
	var b strings.Builder
	for _, c := range cols {
		enc := encodeKeyValue(r[c])
		b.WriteString(strconv.Itoa(len(enc)))
		b.WriteByte(':')
		b.WriteString(enc)
	}
	return b.String()
}

func encodeKeyValue(v any) string {
	if IsNull(v) {
		return "\x00"
	}
	if n, ok := AsBigInt(v); ok {
		return "n:" + n.String()
	}
	switch t := v.(type) {
	case string:
		return "s:" + t
	case []byte:
		return "s:" + string(t)
	case bool:
		return "b:" + strconv.FormatBool(t)
	case time.Time:
		return "t:" + t.UTC().Format(time.RFC3339Nano)
	}
	if f, ok := AsFloat(v); ok {
		if f == math.Trunc(f) && !math.IsInf(f, 0) {
			n, _ := big.NewFloat(f).Int(nil)
			return "n:" + n.String()
		}
		return "n:" + strconv.FormatFloat(f, 'g', -1, 64)
	}
	return fmt.Sprintf("%T:%v", v, v)
}
