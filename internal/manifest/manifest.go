// Package manifest reads the ordered list of repositories that make up the source tree.
package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"getsrc/internal/ext"
	"getsrc/internal/gitrepo"
)

const DefaultFileName = "repos.json"

// Load reads a JSON array of {"path", "url"} objects. Order is preserved.
func Load(manifestPath string) ([]gitrepo.Descriptor, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("could not read manifest: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) ([]gitrepo.Descriptor, error) {
	var descriptors []gitrepo.Descriptor
	if err := json.Unmarshal(data, &descriptors); err != nil {
		return nil, fmt.Errorf("could not parse manifest: %w", err)
	}
	if err := Validate(descriptors); err != nil {
		return nil, err
	}
	return descriptors, nil
}

func Validate(descriptors []gitrepo.Descriptor) error {
	for i, descriptor := range descriptors {
		if strings.TrimSpace(descriptor.Path) == "" {
			return fmt.Errorf("manifest entry %d has no path", i)
		}
		if strings.TrimSpace(descriptor.URL) == "" {
			return fmt.Errorf("manifest entry %s has no url", descriptor.Path)
		}
		if _, err := ext.JoinUnder("/manifest-root", descriptor.Path); err != nil {
			return fmt.Errorf("manifest entry %d: %w", i, err)
		}
	}

	duplicates := lo.FindDuplicatesBy(descriptors, func(d gitrepo.Descriptor) string {
		return filepath.Clean(d.Path)
	})
	if len(duplicates) > 0 {
		paths := lo.Map(duplicates, func(d gitrepo.Descriptor, _ int) string { return d.Path })
		return fmt.Errorf("duplicate manifest paths: %s", strings.Join(paths, ", "))
	}
	return nil
}
