package assistant

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	manifestVersionV1 = "1"
	// ManifestVersion exposes the current manifest format version for tooling.
	ManifestVersion = manifestVersionV1
)

// SurfaceManifestDocument models a YAML manifest describing chart surfaces.
// Deployments use manifests to bind advisor datasets to chart surfaces
// without recompiling.
type SurfaceManifestDocument struct {
	Version  string              `json:"version" yaml:"version"`
	Name     string              `json:"name,omitempty" yaml:"name,omitempty"`
	Package  string              `json:"package,omitempty" yaml:"package,omitempty"`
	Surfaces []SurfaceDefinition `json:"surfaces" yaml:"surfaces"`
	Source   string              `json:"-" yaml:"-"`
}

// LoadManifestFile reads a manifest from disk, registers its surfaces against
// the registry, and returns the document.
func (r *SurfaceRegistry) LoadManifestFile(path string) (*SurfaceManifestDocument, error) {
	doc, err := ReadSurfaceManifest(path)
	if err != nil {
		return nil, err
	}
	if err := r.LoadManifestDocument(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadManifestDocument registers surface definitions from a decoded manifest.
func (r *SurfaceRegistry) LoadManifestDocument(doc *SurfaceManifestDocument) error {
	if doc == nil {
		return fmt.Errorf("assistant: manifest document is nil")
	}
	for _, surface := range doc.Surfaces {
		if err := r.RegisterSurface(surface); err != nil {
			return fmt.Errorf("assistant: register surface %s from %s: %w", surface.ID, doc.Source, err)
		}
	}
	return nil
}

// ReadSurfaceManifest loads a manifest file from disk without registering it.
func ReadSurfaceManifest(path string) (*SurfaceManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("assistant: open manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeSurfaceManifest(f)
	if err != nil {
		return nil, fmt.Errorf("assistant: decode manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeSurfaceManifest reads a manifest from any reader.
func DecodeSurfaceManifest(r io.Reader) (*SurfaceManifestDocument, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc SurfaceManifestDocument
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("assistant: manifest is empty")
		}
		return nil, fmt.Errorf("assistant: parse manifest: %w", err)
	}
	doc.applyDefaults()
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate ensures the manifest satisfies required fields.
func (doc *SurfaceManifestDocument) Validate() error {
	if doc.Version != manifestVersionV1 {
		return fmt.Errorf("assistant: unsupported manifest version %q", doc.Version)
	}
	seenIDs := make(map[string]struct{}, len(doc.Surfaces))
	seenDatasets := make(map[string]struct{}, len(doc.Surfaces))
	for idx, surface := range doc.Surfaces {
		if surface.ID == "" {
			return fmt.Errorf("assistant: manifest surface at index %d is missing id", idx)
		}
		if surface.Dataset == "" {
			return fmt.Errorf("assistant: manifest surface %s is missing dataset", surface.ID)
		}
		if _, exists := seenIDs[surface.ID]; exists {
			return fmt.Errorf("assistant: manifest duplicates surface id %s", surface.ID)
		}
		if _, exists := seenDatasets[surface.Dataset]; exists {
			return fmt.Errorf("assistant: manifest duplicates dataset %s", surface.Dataset)
		}
		seenIDs[surface.ID] = struct{}{}
		seenDatasets[surface.Dataset] = struct{}{}
	}
	return nil
}

func (doc *SurfaceManifestDocument) applyDefaults() {
	if doc.Version == "" {
		doc.Version = manifestVersionV1
	}
}
