package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ettle/strcase"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-deptboard/components/deptstate"
)

type iconsCmd struct {
	Add iconsAddCmd `cmd:"" help:"Add or replace a department icon in the manifest."`
}

type iconsAddCmd struct {
	Department   string `required:"" help:"Department name as reported by the backend."`
	Icon         string `required:"" help:"Icon name rendered in the sidebar."`
	ManifestPath string `required:"" name:"manifest" type:"path" help:"Path to the icon manifest YAML file to update."`
	Overwrite    bool   `help:"Replace an existing entry for the department."`
}

func (cmd *iconsAddCmd) Run(_ context.Context, _ *Globals) error {
	department := strings.TrimSpace(cmd.Department)
	if department == "" {
		return errors.New("deptboard: department is required")
	}
	manifestPath, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("deptboard: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(manifestPath)
	if err != nil {
		return err
	}
	entry := deptstate.IconManifestEntry{
		Code:       iconCode(department),
		Department: department,
		Icon:       strings.TrimSpace(cmd.Icon),
	}
	if err := upsertEntry(doc, entry, cmd.Overwrite); err != nil {
		return err
	}
	if err := doc.Validate(); err != nil {
		return err
	}
	if err := writeManifest(manifestPath, doc); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ %s → %s in %s\n", department, entry.Icon, manifestPath)
	return nil
}

func upsertEntry(doc *deptstate.IconManifest, entry deptstate.IconManifestEntry, overwrite bool) error {
	replaced := false
	for idx := range doc.Icons {
		if !strings.EqualFold(doc.Icons[idx].Department, entry.Department) {
			continue
		}
		if !overwrite {
			return fmt.Errorf("deptboard: manifest already maps %s (use --overwrite to replace)", entry.Department)
		}
		doc.Icons[idx] = entry
		replaced = true
	}
	if !replaced {
		doc.Icons = append(doc.Icons, entry)
	}
	sort.Slice(doc.Icons, func(i, j int) bool {
		return doc.Icons[i].Code < doc.Icons[j].Code
	})
	return nil
}

func iconCode(department string) string {
	return "department." + strcase.ToCamel(department)
}

func loadOrInitManifest(path string) (*deptstate.IconManifest, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &deptstate.IconManifest{
				Version: deptstate.IconManifestVersion,
				Icons:   []deptstate.IconManifestEntry{},
				Source:  path,
			}, nil
		}
		return nil, fmt.Errorf("deptboard: stat manifest: %w", err)
	}
	return deptstate.ReadIconManifest(path)
}

func writeManifest(path string, doc *deptstate.IconManifest) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("deptboard: mkdir %s: %w", filepath.Dir(path), err)
	}
	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("deptboard: create manifest %s: %w", path, err)
	}
	defer file.Close()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	defer encoder.Close()
	if err := encoder.Encode(doc); err != nil {
		return fmt.Errorf("deptboard: write manifest: %w", err)
	}
	return nil
}
