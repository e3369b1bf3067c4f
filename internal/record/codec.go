package record

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat is returned by CodecFor for an unsupported format name.
var ErrUnknownFormat = errors.New("unknown record format")

// Codec encodes records to and from file contents.
type Codec interface {
	Ext() string
	Marshal(r *Record) ([]byte, error)
	Unmarshal(data []byte, r *Record) error
}

// CodecFor returns the codec for "toml" (the default when empty) or "yaml".
func CodecFor(format string) (Codec, error) {
	switch format {
	case "", "toml":
		return TOML{}, nil
	case "yaml", "yml":
		return YAML{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// TOML is the default codec.
type TOML struct{}

func (TOML) Ext() string { return "toml" }

func (TOML) Marshal(r *Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (TOML) Unmarshal(data []byte, r *Record) error {
	_, err := toml.Decode(string(data), r)
	return err
}

// YAML stores records as YAML documents.
type YAML struct{}

func (YAML) Ext() string { return "yaml" }

func (YAML) Marshal(r *Record) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (YAML) Unmarshal(data []byte, r *Record) error {
	return yaml.Unmarshal(data, r)
}
