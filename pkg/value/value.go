// Package value implements the typed setting-value variant used throughout
// the engine. A value is one of: string, integer, real, or boolean. The
// richer JSON tree (null, arrays, objects) is confined to the parser boundary
// and is rejected here.
package value

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/glxtools/appconf/pkg/jsonx"
)

// Kind identifies the concrete type held by a [Value].
type Kind int

const (
	// KindBoolean is first so the zero Value is the boolean false.
	KindBoolean Kind = iota
	KindString
	KindInteger
	KindReal
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindBoolean:
		return "boolean"
	}

	return "unknown"
}

// ParseError is returned when user-entered text cannot be converted to a
// legal setting value. IllegalType is set when the text parsed to a JSON
// type that is not allowed in a configuration (null, object, array).
type ParseError struct {
	Text        string
	IllegalType string
}

func (e *ParseError) Error() string {
	if e.IllegalType != "" {
		return fmt.Sprintf("a value of type %q is not allowed in the configuration", e.IllegalType)
	}

	return fmt.Sprintf("the value %q was not understood by the JSON parser", e.Text)
}

// Value is a closed tagged variant over the four legal setting value types.
// The zero Value is the boolean false, which doubles as the placeholder
// substituted when user input cannot be parsed.
type Value struct {
	s    string
	i    int64
	f    float64
	kind Kind
	b    bool
}

// String constructs a string value.
func String(s string) Value {
	return Value{kind: KindString, s: s}
}

// Integer constructs an integer value.
func Integer(i int64) Value {
	return Value{kind: KindInteger, i: i}
}

// Real constructs a real (floating point) value.
func Real(f float64) Value {
	return Value{kind: KindReal, f: f}
}

// Boolean constructs a boolean value.
func Boolean(b bool) Value {
	return Value{kind: KindBoolean, b: b}
}

// False returns the placeholder value used when parsing fails.
func False() Value {
	return Boolean(false)
}

func (v Value) Kind() Kind { return v.kind }

// Equal reports structural equality: same kind and same payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}

	switch v.kind {
	case KindString:
		return v.s == o.s
	case KindInteger:
		return v.i == o.i
	case KindReal:
		return v.f == o.f
	case KindBoolean:
		return v.b == o.b
	}

	return false
}

// StringValue returns the payload of a string value.
func (v Value) StringValue() string { return v.s }

// IntValue returns the payload of an integer value.
func (v Value) IntValue() int64 { return v.i }

// RealValue returns the payload of a real value.
func (v Value) RealValue() float64 { return v.f }

// BoolValue returns the payload of a boolean value.
func (v Value) BoolValue() bool { return v.b }

// String renders the canonical display text for the value. Integers are
// rendered in hexadecimal, matching the driver convention.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return jsonx.QuoteString(v.s)
	case KindInteger:
		if v.i < 0 {
			// Negate in uint64 space so MinInt64 keeps its magnitude.
			return "-0x" + strconv.FormatUint(-uint64(v.i), 16) //nolint:gosec // G115: two's complement magnitude.
		}

		return "0x" + strconv.FormatInt(v.i, 16)
	case KindReal:
		return formatReal(v.f)
	case KindBoolean:
		return strconv.FormatBool(v.b)
	}

	return ""
}

// AppendJSON appends the value as a raw JSON token. Integers are emitted in
// decimal since JSON has no hexadecimal literals; hex rendering is a display
// concern only.
func (v Value) AppendJSON(dst []byte) []byte {
	switch v.kind {
	case KindString:
		return jsonx.AppendString(dst, v.s)
	case KindInteger:
		return strconv.AppendInt(dst, v.i, 10)
	case KindReal:
		return append(dst, formatReal(v.f)...)
	case KindBoolean:
		return strconv.AppendBool(dst, v.b)
	}

	return dst
}

// formatReal renders a real so that it reads back as a real: an integral
// payload such as 2.0 would otherwise shorten to "2" and reload as an
// integer, losing its kind.
func formatReal(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}

	return s
}

// hexPattern matches the driver config-file hexadecimal integer syntax,
// which JSON itself does not allow.
var hexPattern = regexp.MustCompile(`^[+-]?0[xX][0-9a-fA-F]+$`)

// Parse converts user-entered text to a typed value. The accepted syntax is
// any JSON scalar, plus 0x-prefixed hexadecimal integers as an extension.
// A null, object, or array parses but is rejected with the illegal type name.
// Callers that need a value regardless should substitute [False] on error.
func Parse(text string) (Value, error) {
	trimmed := strings.TrimSpace(text)

	if hexPattern.MatchString(trimmed) {
		neg := strings.HasPrefix(trimmed, "-")
		digits := strings.TrimLeft(trimmed, "+-")

		u, err := strconv.ParseUint(digits[2:], 16, 64)
		if err != nil {
			return False(), &ParseError{Text: text}
		}

		i := int64(u) //nolint:gosec // G115: wraparound matches the C parser.
		if neg {
			i = -i
		}

		return Integer(i), nil
	}

	if !gjson.Valid(trimmed) {
		return False(), &ParseError{Text: text}
	}

	return fromResult(gjson.Parse(trimmed), text)
}

// FromJSON converts a parsed JSON token into a typed value, rejecting the
// types that are not legal settings.
func FromJSON(res gjson.Result) (Value, error) {
	return fromResult(res, res.Raw)
}

func fromResult(res gjson.Result, text string) (Value, error) {
	switch res.Type {
	case gjson.String:
		return String(res.Str), nil

	case gjson.True:
		return Boolean(true), nil

	case gjson.False:
		return Boolean(false), nil

	case gjson.Number:
		if isIntegerLiteral(res.Raw) {
			i, err := strconv.ParseInt(strings.TrimSpace(res.Raw), 10, 64)
			if err == nil {
				return Integer(i), nil
			}
		}
		if f := res.Num; !math.IsInf(f, 0) && !math.IsNaN(f) {
			return Real(f), nil
		}

		return False(), &ParseError{Text: text}

	case gjson.Null:
		return False(), &ParseError{Text: text, IllegalType: "null"}

	case gjson.JSON:
		typeName := "object"
		if strings.HasPrefix(strings.TrimSpace(res.Raw), "[") {
			typeName = "array"
		}

		return False(), &ParseError{Text: text, IllegalType: typeName}
	}

	return False(), &ParseError{Text: text}
}

func isIntegerLiteral(raw string) bool {
	return !strings.ContainsAny(raw, ".eE")
}
