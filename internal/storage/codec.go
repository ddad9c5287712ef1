package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/maauso/vacancy-assistant/internal/vacancy"
)

// ErrUnknownFormat is returned for a document format other than json or yaml.
var ErrUnknownFormat = errors.New("storage: unknown document format")

// Codec converts between a serialized document and its raw records.
type Codec interface {
	Decode(data []byte) ([]vacancy.Record, error)
	Encode(records []vacancy.Record) ([]byte, error)
	// Name is the format name ("json" or "yaml").
	Name() string
}

// CodecFor returns the codec for format. An empty format is inferred from
// the path extension: .yaml and .yml select YAML, anything else JSON.
func CodecFor(format, path string) (Codec, error) {
	if format == "" {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			format = "yaml"
		default:
			format = "json"
		}
	}

	switch strings.ToLower(format) {
	case "json":
		return JSONCodec{}, nil
	case "yaml", "yml":
		return YAMLCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// JSONCodec stores the collection as a JSON array of objects.
// Numbers are decoded as json.Number so stored values keep their text.
type JSONCodec struct{}

// Name implements Codec.
func (JSONCodec) Name() string { return "json" }

// Decode implements Codec.
func (JSONCodec) Decode(data []byte) ([]vacancy.Record, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var recs []vacancy.Record
	if err := dec.Decode(&recs); err != nil {
		return nil, fmt.Errorf("decode json document: %w", err)
	}
	return recs, nil
}

// Encode implements Codec.
func (JSONCodec) Encode(records []vacancy.Record) ([]byte, error) {
	if records == nil {
		records = []vacancy.Record{}
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode json document: %w", err)
	}
	return data, nil
}

// YAMLCodec stores the collection as a YAML sequence of mappings.
type YAMLCodec struct{}

// Name implements Codec.
func (YAMLCodec) Name() string { return "yaml" }

// Decode implements Codec.
func (YAMLCodec) Decode(data []byte) ([]vacancy.Record, error) {
	var recs []vacancy.Record
	if err := yaml.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decode yaml document: %w", err)
	}
	return recs, nil
}

// Encode implements Codec.
func (YAMLCodec) Encode(records []vacancy.Record) ([]byte, error) {
	out := make([]vacancy.Record, len(records))
	for i, rec := range records {
		out[i] = yamlSafe(rec)
	}
	data, err := yaml.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode yaml document: %w", err)
	}
	return data, nil
}

// yamlSafe converts json.Number values, which yaml would quote as strings.
func yamlSafe(rec vacancy.Record) vacancy.Record {
	out := make(vacancy.Record, len(rec))
	for k, v := range rec {
		if n, ok := v.(json.Number); ok {
			if f, err := n.Float64(); err == nil {
				out[k] = f
				continue
			}
		}
		out[k] = v
	}
	return out
}
