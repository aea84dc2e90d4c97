package yaml

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/token"
)

func NewPathBuilder() *yaml.PathBuilder {
	return &yaml.PathBuilder{}
}

// Error represents a YAML error: the original error plus, when available,
// the [*token.Token] or [*yaml.Path] where it occurred.
type Error struct {
	Err   error
	Path  *yaml.Path
	Token *token.Token
}

func (e *Error) Error() string {
	switch {
	case e.Token != nil:
		return fmt.Sprintf("[%d:%d] %v", e.Token.Position.Line, e.Token.Position.Column, e.Err)

	case e.Path != nil:
		return fmt.Sprintf("%s: %v", e.Path.String(), e.Err)
	}

	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}
