package openapi2agent

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// SpecFile pairs a parsed OpenAPI document with the agent name derived from
// its filename.
type SpecFile struct {
	Name string
	Path string
	Doc  *openapi3.T
}

// LoadSpec loads and validates a single OpenAPI specification file
func LoadSpec(ctx context.Context, path string) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI spec %s: %w", path, err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("OpenAPI spec validation failed for %s: %w", path, err)
	}
	return doc, nil
}

// LoadDir loads every .json/.yaml/.yml specification in the directory.
// Files that fail to parse or validate are logged and skipped so one broken
// spec does not take down the batch.
func LoadDir(ctx context.Context, dir string) ([]SpecFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec directory %s: %w", dir, err)
	}

	var specs []SpecFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".json" && ext != ".yaml" && ext != ".yml" {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		doc, err := LoadSpec(ctx, path)
		if err != nil {
			log.Printf("Failed to load spec from file %s: %v", path, err)
			continue
		}
		specs = append(specs, SpecFile{
			Name: EndpointFromFilename(entry.Name()),
			Path: path,
			Doc:  doc,
		})
	}
	return specs, nil
}

// EndpointFromFilename derives an agent name from a spec filename:
// "Weather_API.json" becomes "weather-api".
func EndpointFromFilename(filename string) string {
	base := filepath.Base(filename)
	if idx := strings.LastIndex(base, "."); idx != -1 {
		base = base[:idx]
	}
	return strings.ToLower(strings.ReplaceAll(base, "_", "-"))
}
