package graphgen

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

// The Coerce functions convert a caller-supplied filter value to the Go type
// the driver sends for a property type. Each makes a single attempt and
// returns the value unchanged when it already has the target type.

// CoerceString converts v to a string. Strings pass through; numbers,
// booleans and byte slices are formatted.
func CoerceString(v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case fmt.Stringer:
		return x.String(), nil
	case bool:
		return strconv.FormatBool(x), nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64), nil
	}
	return "", unsupported(v)
}

// CoerceInt64 converts v to an int64. It accepts every integer kind that fits,
// floats without a fractional part, and decimal strings.
func CoerceInt64(v any) (int64, error) {
	if x, ok := v.(int64); ok {
		return x, nil
	}
	if s, ok := v.(string); ok {
		return strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if u := rv.Uint(); u <= math.MaxInt64 {
			return int64(u), nil
		}
		return 0, fmt.Errorf("value %v overflows int64", v)
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || math.IsInf(f, 0) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, fmt.Errorf("value %v is not integral", v)
		}
		return int64(f), nil
	}
	return 0, unsupported(v)
}

// CoerceFloat64 converts v to a float64 from any numeric kind or a decimal string.
func CoerceFloat64(v any) (float64, error) {
	if x, ok := v.(float64); ok {
		return x, nil
	}
	if s, ok := v.(string); ok {
		return strconv.ParseFloat(strings.TrimSpace(s), 64)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	}
	return 0, unsupported(v)
}

// CoerceBool converts v to a bool. Strings are parsed with strconv.ParseBool
// and the integers 0 and 1 map to false and true.
func CoerceBool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(x))
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch rv.Int() {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
		return false, fmt.Errorf("value %v is not 0 or 1", v)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		switch rv.Uint() {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
		return false, fmt.Errorf("value %v is not 0 or 1", v)
	}
	return false, unsupported(v)
}

// dateLayout is the layout of a DATE value in its string form.
const dateLayout = "2006-01-02"

// CoerceDate converts v to a dbtype.Date. It accepts time.Time and strings in
// the form 2006-01-02 or RFC 3339, keeping only the calendar date.
func CoerceDate(v any) (dbtype.Date, error) {
	switch x := v.(type) {
	case dbtype.Date:
		return x, nil
	case time.Time:
		return dbtype.Date(x), nil
	case dbtype.LocalDateTime:
		return dbtype.Date(x.Time()), nil
	case string:
		t, err := parseTime(x)
		if err != nil {
			return dbtype.Date{}, err
		}
		return dbtype.Date(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)), nil
	}
	return dbtype.Date{}, unsupported(v)
}

// CoerceDateTime converts v to a time.Time. It accepts driver temporal values
// and strings in RFC 3339 or 2006-01-02 form.
func CoerceDateTime(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case dbtype.Date:
		return x.Time(), nil
	case dbtype.LocalDateTime:
		return x.Time(), nil
	case string:
		return parseTime(x)
	}
	return time.Time{}, unsupported(v)
}

// localDateTimeLayout is the layout of a LOCAL DATETIME value in its string
// form. The fraction is optional when parsing.
const localDateTimeLayout = "2006-01-02T15:04:05.999999999"

// CoerceLocalDateTime converts v to a dbtype.LocalDateTime. It accepts driver
// temporal values, time.Time, and strings without a zone in the form
// 2006-01-02T15:04:05 or 2006-01-02. Zoned values keep their wall clock.
func CoerceLocalDateTime(v any) (dbtype.LocalDateTime, error) {
	switch x := v.(type) {
	case dbtype.LocalDateTime:
		return x, nil
	case time.Time:
		return dbtype.LocalDateTime(x), nil
	case dbtype.Date:
		return dbtype.LocalDateTime(x.Time()), nil
	case string:
		s := strings.TrimSpace(x)
		if t, err := time.Parse(localDateTimeLayout, s); err == nil {
			return dbtype.LocalDateTime(t), nil
		}
		t, err := parseTime(s)
		if err != nil {
			return dbtype.LocalDateTime{}, err
		}
		return dbtype.LocalDateTime(t), nil
	}
	return dbtype.LocalDateTime{}, unsupported(v)
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse(dateLayout, s)
}

// CoerceList converts v to a []any. Any slice or array is accepted, and so is
// a string holding a JSON array.
func CoerceList(v any) ([]any, error) {
	switch x := v.(type) {
	case []any:
		return x, nil
	case string:
		var l []any
		if err := json.Unmarshal([]byte(x), &l); err != nil {
			return nil, err
		}
		if l == nil {
			return nil, fmt.Errorf("value %q is not a list", x)
		}
		return l, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return []any{}, nil
		}
		l := make([]any, rv.Len())
		for i := range l {
			l[i] = rv.Index(i).Interface()
		}
		return l, nil
	}
	return nil, unsupported(v)
}

// CoerceMap converts v to a map[string]any. Any map with string keys is
// accepted, and so is a string holding a JSON object.
func CoerceMap(v any) (map[string]any, error) {
	switch x := v.(type) {
	case map[string]any:
		return x, nil
	case string:
		var m map[string]any
		if err := json.Unmarshal([]byte(x), &m); err != nil {
			return nil, err
		}
		if m == nil {
			return nil, fmt.Errorf("value %q is not a map", x)
		}
		return m, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[iter.Key().String()] = iter.Value().Interface()
		}
		return m, nil
	}
	return nil, unsupported(v)
}

func unsupported(v any) error {
	return fmt.Errorf("unsupported value of type %T", v)
}

// TypeName returns the Go type name of v as reported in validation errors.
func TypeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}
