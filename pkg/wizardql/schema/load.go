package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/nonibytes/wizardql/pkg/wizardql/query"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
)

// FormatFromPath picks the document format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".cue":
		return FormatCUE, nil
	}
	return "", &Error{File: path, Msg: "unsupported constraints file extension"}
}

// Load reads and decodes a constraints file.
func Load(path string) (Schema, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Schema{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Schema{}, &Error{File: path, Msg: "read", Cause: err}
	}
	s, err := Parse(data, format)
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			e.File = path
		}
		return Schema{}, err
	}
	return s, nil
}

// LoadConstraints reads a constraints file and compiles it.
func LoadConstraints(path string) (*query.Constraints, error) {
	s, err := Load(path)
	if err != nil {
		return nil, err
	}
	c, err := s.Compile()
	if err != nil {
		var e *Error
		if errors.As(err, &e) {
			e.File = path
		}
		return nil, err
	}
	return c, nil
}

// Parse decodes a constraints document in the given format.
func Parse(data []byte, format Format) (Schema, error) {
	var raw map[string]any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return Schema{}, wrap("json parse", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return Schema{}, wrap("yaml parse", err)
		}
	case FormatCUE:
		v := cuecontext.New().CompileBytes(data)
		if err := v.Err(); err != nil {
			return Schema{}, wrap("cue compile", err)
		}
		if err := v.Validate(cue.Concrete(true)); err != nil {
			return Schema{}, wrap("cue validate", err)
		}
		if err := v.Decode(&raw); err != nil {
			return Schema{}, wrap("cue decode", err)
		}
	default:
		return Schema{}, wrap("parse", fmt.Errorf("unknown format %q", format))
	}
	return decode(raw)
}

func decode(raw map[string]any) (Schema, error) {
	var s Schema
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "wizardql",
		Result:           &s,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return Schema{}, wrap("decode", err)
	}
	if err := dec.Decode(raw); err != nil {
		return Schema{}, wrap("decode", err)
	}
	if s.Fields == nil {
		s.Fields = map[string]FieldSpec{}
	}
	return s, nil
}
