package render

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	mdwerror "github.com/msto63/fnlang/foundation/core/error"
)

// Format names a structured output encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Encode writes v to w as indented JSON or YAML
func Encode(w io.Writer, format Format, v interface{}) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return mdwerror.Newf("unsupported output format: %s", format).
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation("render.encode")
	}
}
