// Package jsonx wraps the JSON parsing and serialization libraries used for
// the on-disk configuration format. The rest of the engine treats this package
// as the boundary between typed entities and raw file bytes.
package jsonx

import (
	"fmt"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

// ParseError describes malformed JSON input.
type ParseError struct {
	Path string
	Msg  string
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: parse json: %s", e.Path, e.Msg)
	}

	return fmt.Sprintf("parse json: %s", e.Msg)
}

// Parse validates and parses a complete JSON document.
func Parse(data []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, &ParseError{Msg: "invalid document"}
	}

	return gjson.ParseBytes(data), nil
}

// ParseFile validates and parses a JSON document read from path.
// The path is only used for error reporting.
func ParseFile(path string, data []byte) (gjson.Result, error) {
	if !gjson.ValidBytes(data) {
		return gjson.Result{}, &ParseError{Path: path, Msg: "invalid document"}
	}

	return gjson.ParseBytes(data), nil
}

// Format normalizes a raw JSON document into the indented on-disk style.
func Format(raw []byte) []byte {
	return pretty.PrettyOptions(raw, &pretty.Options{
		Indent:   "    ",
		SortKeys: false,
	})
}

// AppendString appends s to dst as a quoted, escaped JSON string.
func AppendString(dst []byte, s string) []byte {
	return gjson.AppendJSONString(dst, s)
}

// QuoteString returns s as a quoted, escaped JSON string.
func QuoteString(s string) string {
	return string(gjson.AppendJSONString(nil, s))
}
