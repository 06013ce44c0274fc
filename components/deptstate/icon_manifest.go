package deptstate

import (
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// IconManifestVersion is the current icon manifest format version.
const IconManifestVersion = "1"

// IconManifest models a YAML document extending the sidebar icon table.
type IconManifest struct {
	Version string              `json:"version" yaml:"version"`
	Icons   []IconManifestEntry `json:"icons" yaml:"icons"`
	Source  string              `json:"-" yaml:"-"`
}

// IconManifestEntry binds a department to an icon.
type IconManifestEntry struct {
	Code       string `json:"code,omitempty" yaml:"code,omitempty"`
	Department string `json:"department" yaml:"department"`
	Icon       string `json:"icon" yaml:"icon"`
}

// ReadIconManifest loads a manifest file from disk.
func ReadIconManifest(path string) (*IconManifest, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("deptstate: open icon manifest %s: %w", path, err)
	}
	defer f.Close()
	doc, err := DecodeIconManifest(f)
	if err != nil {
		return nil, fmt.Errorf("deptstate: decode icon manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeIconManifest reads a manifest from any reader.
func DecodeIconManifest(r io.Reader) (*IconManifest, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	var doc IconManifest
	if err := decoder.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("deptstate: icon manifest is empty")
		}
		return nil, fmt.Errorf("deptstate: parse icon manifest: %w", err)
	}
	if doc.Version == "" {
		doc.Version = IconManifestVersion
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate ensures every entry names a department and an icon once.
func (doc *IconManifest) Validate() error {
	if doc.Version != IconManifestVersion {
		return fmt.Errorf("deptstate: unsupported icon manifest version %q", doc.Version)
	}
	seen := make(map[string]struct{}, len(doc.Icons))
	for idx, entry := range doc.Icons {
		if strings.TrimSpace(entry.Department) == "" {
			return fmt.Errorf("deptstate: icon manifest entry %d is missing department", idx)
		}
		if strings.TrimSpace(entry.Icon) == "" {
			return fmt.Errorf("deptstate: icon manifest entry %s is missing icon", entry.Department)
		}
		key := iconKey(entry.Department)
		if _, exists := seen[key]; exists {
			return fmt.Errorf("deptstate: icon manifest duplicates department %s", entry.Department)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// Apply writes the manifest entries into table.
func (doc *IconManifest) Apply(table *IconTable) {
	for _, entry := range doc.Icons {
		table.Set(entry.Department, strings.TrimSpace(entry.Icon))
	}
}
