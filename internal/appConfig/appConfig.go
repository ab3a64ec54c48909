package appConfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"getsrc/internal/ext"
	"getsrc/internal/gitrepo"
	"getsrc/internal/manifest"
	"getsrc/internal/patch"
	"getsrc/internal/preflight"
)

const ConfigFileName = "getsrc.yaml"

const (
	CloneBackendGit   = "git"
	CloneBackendGoGit = "go-git"
)

type AppConfig struct {
	Root             string         `yaml:"root"`             // Directory the tree is assembled in; defaults to the working directory
	Tags             string         `yaml:"tags"`             // Branch or tag checked out for every manifest entry
	Manifest         string         `yaml:"manifest"`         // Relative to Root unless absolute
	PatchesDirectory string         `yaml:"patchesDirectory"` // Relative to Root unless absolute
	CloneBackend     string         `yaml:"cloneBackend"`     // git or go-git
	Tools            []string       `yaml:"tools"`            // Replaces the default required tool list
	Actions          []patch.Action `yaml:"actions"`          // Replaces the built-in patch table
	Verbose          bool           `yaml:"verbose"`
}

// LoadConfig reads the config file from root, falling back to the home directory.
// A missing default config file yields an empty config; a missing explicit one is an error.
func LoadConfig(root string, configFileName string) (*AppConfig, error) {
	explicit := configFileName != ""
	configFileName = ext.DefaultValue(configFileName, ConfigFileName)

	configFilePath := configFileName
	if !filepath.IsAbs(configFilePath) {
		configFilePath = filepath.Join(root, configFileName)
	}

	if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
		if explicit {
			return nil, fmt.Errorf("config file %s not found", configFilePath)
		}
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return &AppConfig{}, nil
		}
		configFilePath = filepath.Join(homeDir, configFileName)
		if _, err := os.Stat(configFilePath); os.IsNotExist(err) {
			return &AppConfig{}, nil
		}
	}

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	var config AppConfig
	err = yaml.UnmarshalStrict(data, &config)
	if err != nil {
		return nil, fmt.Errorf("could not unmarshal config file %s: %w", configFilePath, err)
	}

	return &config, nil
}

// WithDefaults fills every unset field and resolves paths against Root.
func (c AppConfig) WithDefaults(workingDirectory string) (*AppConfig, error) {
	c.Root = ext.DefaultValue(c.Root, workingDirectory)
	root, err := filepath.Abs(c.Root)
	if err != nil {
		return nil, err
	}
	c.Root = root
	c.Tags = ext.DefaultValue(c.Tags, gitrepo.DefaultRef)
	c.Manifest = resolve(root, ext.DefaultValue(c.Manifest, manifest.DefaultFileName))
	c.PatchesDirectory = resolve(root, ext.DefaultValue(c.PatchesDirectory, patch.DefaultPatchesDirectory))
	c.CloneBackend = ext.DefaultValue(c.CloneBackend, CloneBackendGit)
	if len(c.Tools) == 0 {
		c.Tools = preflight.DefaultTools
	}
	if len(c.Actions) == 0 {
		c.Actions = patch.DefaultTable()
	}

	if c.CloneBackend != CloneBackendGit && c.CloneBackend != CloneBackendGoGit {
		return nil, fmt.Errorf("unknown clone backend %q, expected %s or %s", c.CloneBackend, CloneBackendGit, CloneBackendGoGit)
	}
	if err := patch.ValidateOrder(c.Actions); err != nil {
		return nil, fmt.Errorf("invalid patch table: %w", err)
	}
	return &c, nil
}

func resolve(root string, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}
