package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dukex/operion-analyzer/pkg/models"
	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidSpecs indicates a node data spec document that does not match specsSchema.
var ErrInvalidSpecs = errors.New("invalid node data specs")

// SpecsDocument is the on-disk format of user supplied node data specs.
type SpecsDocument struct {
	Specs []models.NodeDataSpec `json:"specs"`
}

const specsSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["specs"],
	"definitions": {
		"dataType": {
			"type": "string",
			"enum": ["json", "string", "number", "boolean", "array", "object", "binary", "null", "undefined", "any"]
		}
	},
	"properties": {
		"specs": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["node_type"],
				"properties": {
					"node_type": {"type": "string", "minLength": 1},
					"description": {"type": "string"},
					"trigger": {"type": "boolean"},
					"permissive": {"type": "boolean"},
					"parameters": {"type": "object"},
					"inputs": {
						"type": "object",
						"additionalProperties": {
							"type": "object",
							"required": ["type"],
							"properties": {
								"type": {"$ref": "#/definitions/dataType"},
								"required": {"type": "boolean"}
							},
							"additionalProperties": false
						}
					},
					"outputs": {
						"type": "object",
						"additionalProperties": {
							"type": "object",
							"required": ["type"],
							"properties": {
								"type": {"$ref": "#/definitions/dataType"},
								"guaranteed": {"type": "boolean"},
								"transform": {"type": "string"}
							},
							"additionalProperties": false
						}
					}
				}
			}
		}
	}
}`

var specsSchemaLoader = gojsonschema.NewStringLoader(specsSchema)

// LoadSpecs reads a SpecsDocument, validates it and registers every spec.
// It returns the number of specs registered.
func (r *Registry) LoadSpecs(reader io.Reader) (int, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return 0, fmt.Errorf("failed to read node data specs: %w", err)
	}

	result, err := gojsonschema.Validate(specsSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidSpecs, err)
	}

	if !result.Valid() {
		messages := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			messages = append(messages, desc.String())
		}

		return 0, fmt.Errorf("%w: %s", ErrInvalidSpecs, strings.Join(messages, "; "))
	}

	var document SpecsDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidSpecs, err)
	}

	for _, spec := range document.Specs {
		r.Register(spec)
	}

	return len(document.Specs), nil
}

// LoadSpecsFile loads specs from a single JSON file.
func (r *Registry) LoadSpecsFile(path string) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open node data specs: %w", err)
	}
	defer file.Close()

	count, err := r.LoadSpecs(file)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}

	return count, nil
}

// LoadSpecsPath loads specs from a file, or from every *.json file of a directory.
func (r *Registry) LoadSpecsPath(path string) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("failed to stat node data specs: %w", err)
	}

	if !info.IsDir() {
		return r.LoadSpecsFile(path)
	}

	files, err := fs.Glob(os.DirFS(path), "*.json")
	if err != nil {
		return 0, err
	}

	l := r.logger.With(slog.String("path", path))
	l.Info("Loading node data specs", "files", len(files))

	total := 0

	for _, name := range files {
		count, err := r.LoadSpecsFile(filepath.Join(path, name))
		if err != nil {
			return total, err
		}

		total += count

		l.Info("Loaded node data specs", slog.String("file", name), slog.Int("specs", count))
	}

	return total, nil
}
