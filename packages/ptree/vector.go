package ptree

import (
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

// Scalar enumerates the element types a JSON array can be extracted into.
type Scalar interface {
	string | int | int64 | float64 | bool
}

// Vector appends every direct child of t to dst in document order, coercing
// each element to T, and returns the number of elements appended. Coercion
// is strict: the first element that cannot represent a T stops the walk and
// returns an error alongside the count appended so far. Values already in
// dst are left untouched.
func Vector[T Scalar](t *Tree, dst *[]T) (int, error) {
	if t == nil || !t.isContainer() {
		return 0, nil
	}

	count := 0
	var convErr error
	t.res.ForEach(func(_, value gjson.Result) bool {
		v, err := coerce[T](value)
		if err != nil {
			convErr = fmt.Errorf("ptree: element %d: %w", count, err)
			return false
		}
		*dst = append(*dst, v)
		count++
		return true
	})

	return count, convErr
}

func coerce[T Scalar](res gjson.Result) (T, error) {
	var out T
	switch p := any(&out).(type) {
	case *string:
		s, err := toString(res)
		if err != nil {
			return out, err
		}
		*p = s
	case *int:
		n, err := toInt(res)
		if err != nil {
			return out, err
		}
		*p = int(n)
	case *int64:
		n, err := toInt(res)
		if err != nil {
			return out, err
		}
		*p = n
	case *float64:
		f, err := toFloat(res)
		if err != nil {
			return out, err
		}
		*p = f
	case *bool:
		b, err := toBool(res)
		if err != nil {
			return out, err
		}
		*p = b
	}
	return out, nil
}

func toString(res gjson.Result) (string, error) {
	if res.Type == gjson.JSON {
		return "", fmt.Errorf("cannot convert %s to string", kindName(res))
	}
	return res.String(), nil
}

func toInt(res gjson.Result) (int64, error) {
	switch res.Type {
	case gjson.Number:
		// Parse the raw text first so integers beyond 2^53 stay exact.
		if n, err := strconv.ParseInt(res.Raw, 10, 64); err == nil {
			return n, nil
		}
		n := int64(res.Num)
		if float64(n) != res.Num {
			return 0, fmt.Errorf("number %v is not an integer", res.Num)
		}
		return n, nil
	case gjson.String:
		n, err := strconv.ParseInt(res.Str, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert %q to integer", res.Str)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("cannot convert %s to integer", kindName(res))
	}
}

func toFloat(res gjson.Result) (float64, error) {
	switch res.Type {
	case gjson.Number:
		return res.Num, nil
	case gjson.String:
		f, err := strconv.ParseFloat(res.Str, 64)
		if err != nil {
			return 0, fmt.Errorf("cannot convert %q to float", res.Str)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("cannot convert %s to float", kindName(res))
	}
}

func toBool(res gjson.Result) (bool, error) {
	switch res.Type {
	case gjson.True:
		return true, nil
	case gjson.False:
		return false, nil
	case gjson.String:
		b, err := strconv.ParseBool(res.Str)
		if err != nil {
			return false, fmt.Errorf("cannot convert %q to bool", res.Str)
		}
		return b, nil
	default:
		return false, fmt.Errorf("cannot convert %s to bool", kindName(res))
	}
}

func kindName(res gjson.Result) string {
	switch res.Type {
	case gjson.Null:
		return "null"
	case gjson.True, gjson.False:
		return "boolean"
	case gjson.Number:
		return "number"
	case gjson.String:
		return "string"
	default:
		if res.IsArray() {
			return "array"
		}
		return "object"
	}
}
