package value_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glxtools/appconf/pkg/value"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		want value.Value
		text string
	}{
		"decimal integer": {
			text: "16",
			want: value.Integer(16),
		},
		"negative decimal integer": {
			text: "-5",
			want: value.Integer(-5),
		},
		"hex integer": {
			text: "0x10",
			want: value.Integer(16),
		},
		"hex integer uppercase": {
			text: "0XFF",
			want: value.Integer(255),
		},
		"negative hex integer": {
			text: "-0x2",
			want: value.Integer(-2),
		},
		"real": {
			text: "1.5",
			want: value.Real(1.5),
		},
		"real with exponent": {
			text: "2e3",
			want: value.Real(2000),
		},
		"quoted string": {
			text: `"abc"`,
			want: value.String("abc"),
		},
		"true": {
			text: "true",
			want: value.Boolean(true),
		},
		"false": {
			text: "false",
			want: value.Boolean(false),
		},
		"surrounding whitespace": {
			text: "  0x5  ",
			want: value.Integer(5),
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := value.Parse(tc.text)

			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "got %s, want %s", got, tc.want)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		text        string
		wantMsg     string
		illegalType string
	}{
		"bare word": {
			text:    "not valid json",
			wantMsg: `the value "not valid json" was not understood by the JSON parser`,
		},
		"null": {
			text:        "null",
			illegalType: "null",
			wantMsg:     `a value of type "null" is not allowed in the configuration`,
		},
		"object": {
			text:        `{"a": 1}`,
			illegalType: "object",
			wantMsg:     `a value of type "object" is not allowed in the configuration`,
		},
		"array": {
			text:        "[1, 2]",
			illegalType: "array",
			wantMsg:     `a value of type "array" is not allowed in the configuration`,
		},
		"empty": {
			text:    "",
			wantMsg: `the value "" was not understood by the JSON parser`,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := value.Parse(tc.text)

			require.Error(t, err)
			assert.Equal(t, tc.wantMsg, err.Error())

			perr := &value.ParseError{}
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tc.illegalType, perr.IllegalType)

			// The placeholder is returned so callers can proceed.
			assert.True(t, value.False().Equal(got))
		})
	}
}

func TestValue_String(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		want string
		v    value.Value
	}{
		"integer renders hex": {
			v:    value.Integer(59),
			want: "0x3b",
		},
		"negative integer renders hex": {
			v:    value.Integer(-2),
			want: "-0x2",
		},
		"zero": {
			v:    value.Integer(0),
			want: "0x0",
		},
		"string renders quoted": {
			v:    value.String(`a "b" c`),
			want: `"a \"b\" c"`,
		},
		"real": {
			v:    value.Real(1.5),
			want: "1.5",
		},
		"integral real keeps fraction": {
			v:    value.Real(2),
			want: "2.0",
		},
		"most negative integer": {
			v:    value.Integer(math.MinInt64),
			want: "-0x8000000000000000",
		},
		"boolean": {
			v:    value.Boolean(true),
			want: "true",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, tc.v.String())
		})
	}
}

func TestValue_AppendJSON(t *testing.T) {
	t.Parallel()

	// JSON has no hex literals, so integers round-trip through decimal.
	assert.Equal(t, "59", string(value.Integer(59).AppendJSON(nil)))
	assert.Equal(t, `"x"`, string(value.String("x").AppendJSON(nil)))
	assert.Equal(t, "false", string(value.False().AppendJSON(nil)))
}

func TestValue_AppendJSON_IntegralRealKeepsKind(t *testing.T) {
	t.Parallel()

	// A real with an integral payload must still read back as a real.
	parsed, err := value.Parse("2.0")
	require.NoError(t, err)
	require.Equal(t, value.KindReal, parsed.Kind())

	raw := string(parsed.AppendJSON(nil))
	assert.Equal(t, "2.0", raw)

	reparsed, err := value.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, value.KindReal, reparsed.Kind())
	assert.True(t, parsed.Equal(reparsed))
}

func TestValue_Equal(t *testing.T) {
	t.Parallel()

	assert.True(t, value.Integer(1).Equal(value.Integer(1)))
	assert.False(t, value.Integer(1).Equal(value.Integer(2)))
	assert.False(t, value.Integer(1).Equal(value.Real(1)))
	assert.False(t, value.Boolean(false).Equal(value.String("")))

	// The zero Value is the boolean false.
	assert.True(t, value.False().Equal(value.Value{}))
}

func TestParse_HexWraparound(t *testing.T) {
	t.Parallel()

	// 64-bit hex input wraps into the signed range rather than failing.
	got, err := value.Parse("0xffffffffffffffff")

	require.NoError(t, err)
	assert.Equal(t, int64(-1), got.IntValue())
}
