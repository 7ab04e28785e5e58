// Package schema reads declarative game descriptions into the engine's data
// model. Descriptions are JSON or YAML documents using the externally tagged
// variant encoding: unit variants are bare strings and data variants are
// single-key objects.
//
// This package depends on engine but engine does not depend on schema.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/wee/internal/engine"
)

// FormatVersion is the description format this package reads.
const FormatVersion = "0.2"

// ErrUnsupportedVersion is returned for descriptions in another format version.
var ErrUnsupportedVersion = errors.New("unsupported format version")

// Header is the part of a description read without decoding its objects.
type Header struct {
	FormatVersion string
	GameType      engine.GameType
	Published     bool
	Objects       int
}

// Extensions returns the file extensions Load understands.
func Extensions() []string {
	return []string{".json", ".yaml", ".yml"}
}

// IsSupported reports whether path has a description extension.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions() {
		if ext == e {
			return true
		}
	}
	return false
}

// Load reads, decodes and validates a description file.
func Load(path string) (engine.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return engine.Definition{}, fmt.Errorf("schema: reading %s: %w", path, err)
	}
	doc, err := toJSON(data, filepath.Ext(path))
	if err != nil {
		return engine.Definition{}, fmt.Errorf("schema: %s: %w", path, err)
	}
	def, err := Parse(doc)
	if err != nil {
		return engine.Definition{}, fmt.Errorf("%s: %w", path, err)
	}
	if problems := Validate(def); len(problems) > 0 {
		return def, fmt.Errorf("%s: %w", path, joinProblems(problems))
	}
	return def, nil
}

// LoadHeader reads only the header of a description file.
func LoadHeader(path string) (Header, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Header{}, fmt.Errorf("schema: reading %s: %w", path, err)
	}
	doc, err := toJSON(data, filepath.Ext(path))
	if err != nil {
		return Header{}, fmt.Errorf("schema: %s: %w", path, err)
	}
	return Probe(doc)
}

// ParseYAML decodes a YAML description. It is converted to JSON first so
// both formats share one decoder.
func ParseYAML(data []byte) (engine.Definition, error) {
	doc, err := yamlToJSON(data)
	if err != nil {
		return engine.Definition{}, fmt.Errorf("schema: %w", err)
	}
	return Parse(doc)
}

// Probe reads the header fields of a JSON description and checks the
// format version.
func Probe(doc []byte) (Header, error) {
	if !gjson.ValidBytes(doc) {
		return Header{}, errors.New("schema: invalid JSON")
	}
	root := gjson.ParseBytes(doc)
	if !root.IsObject() {
		return Header{}, errors.New("schema: description must be an object")
	}

	version := root.Get("format_version")
	if !version.Exists() {
		return Header{}, errors.New("schema: missing format_version")
	}
	if version.String() != FormatVersion {
		return Header{}, fmt.Errorf("schema: %w: %q (want %q)", ErrUnsupportedVersion, version.String(), FormatVersion)
	}

	h := Header{
		FormatVersion: version.String(),
		Published:     root.Get("published").Bool(),
		Objects:       len(root.Get("objects").Array()),
	}
	if gt := root.Get("game_type"); gt.Exists() {
		t, err := gameType(gt, "game_type")
		if err != nil {
			return Header{}, err
		}
		h.GameType = t
	}
	return h, nil
}

// Parse decodes a JSON description. It does not validate object and asset
// references; see Validate.
func Parse(doc []byte) (engine.Definition, error) {
	if _, err := Probe(doc); err != nil {
		return engine.Definition{}, err
	}
	return decodeDefinition(gjson.ParseBytes(doc))
}

func toJSON(data []byte, ext string) ([]byte, error) {
	switch strings.ToLower(ext) {
	case ".json":
		return data, nil
	case ".yaml", ".yml":
		return yamlToJSON(data)
	}
	return nil, fmt.Errorf("unsupported extension: %s", ext)
}

func yamlToJSON(data []byte) ([]byte, error) {
	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}
	var problems []ValidationError
	tree = normalize(tree, "", &problems)
	if len(problems) > 0 {
		return nil, joinProblems(problems)
	}
	out, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("yaml to json: %w", err)
	}
	return out, nil
}

// normalize rewrites YAML maps with non-string keys so they marshal as JSON
// and reports the non-finite numbers JSON cannot carry.
func normalize(v any, path string, problems *[]ValidationError) any {
	switch v := v.(type) {
	case map[string]any:
		for k, e := range v {
			v[k] = normalize(e, join(path, k), problems)
		}
		return v
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			key := fmt.Sprint(k)
			out[key] = normalize(e, join(path, key), problems)
		}
		return out
	case []any:
		for i, e := range v {
			v[i] = normalize(e, index(path, i), problems)
		}
		return v
	case float64:
		if math.IsInf(v, 0) || math.IsNaN(v) {
			code := CodeInvalidNumber
			if strings.Contains(path, "size") {
				code = CodeInvalidSize
			}
			*problems = append(*problems, ValidationError{Code: code, Message: fmt.Sprintf("non-finite number %v at %s", v, path)})
			return 0.0
		}
	}
	return v
}

// Convert rewrites a description between JSON and YAML by extension.
// Field order of the output is not preserved.
func Convert(data []byte, fromExt, toExt string) ([]byte, error) {
	doc, err := toJSON(data, fromExt)
	if err != nil {
		return nil, fmt.Errorf("schema: %w", err)
	}
	switch strings.ToLower(toExt) {
	case ".json":
		var tree any
		if err := json.Unmarshal(doc, &tree); err != nil {
			return nil, fmt.Errorf("schema: %w", err)
		}
		return json.MarshalIndent(tree, "", "  ")
	case ".yaml", ".yml":
		var tree any
		if err := json.Unmarshal(doc, &tree); err != nil {
			return nil, fmt.Errorf("schema: %w", err)
		}
		return yaml.Marshal(tree)
	}
	return nil, fmt.Errorf("schema: unsupported extension: %s", toExt)
}
