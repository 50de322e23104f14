// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTemplate  = "master_template.html"
	DefaultRootDir   = "./"
	DefaultInputDir  = "docs_md/"
	DefaultOutputDir = "docs/"
	DefaultSuffix    = " | Hexpowered"
	DefaultConfig    = "mdsite.yaml"
	DefaultStyle     = "github"
)

// Options is the resolved build configuration. It is built once by the
// entry point and passed by value into every component.
type Options struct {
	Template       string
	RootDir        string
	InputDir       string
	OutputDir      string
	SingleFile     string
	SiteSuffix     string
	SitePrefix     string
	StaticDir      string
	Sanitize       bool
	HighlightStyle string
	Verbose        bool
}

// Defaults returns the options used when neither flags nor a config file say otherwise.
func Defaults() Options {
	return Options{
		Template:       DefaultTemplate,
		RootDir:        DefaultRootDir,
		InputDir:       DefaultInputDir,
		OutputDir:      DefaultOutputDir,
		SiteSuffix:     DefaultSuffix,
		HighlightStyle: DefaultStyle,
	}
}

// TemplatePath is the master template location under the site root.
func (o Options) TemplatePath() string {
	return filepath.Join(o.RootDir, o.Template)
}

// InputPath is the markdown source directory under the site root.
func (o Options) InputPath() string {
	return filepath.Join(o.RootDir, o.InputDir)
}

// OutputPath is the html destination directory under the site root.
func (o Options) OutputPath() string {
	return filepath.Join(o.RootDir, o.OutputDir)
}

// StaticPath is the asset directory under the site root, or "" when disabled.
func (o Options) StaticPath() string {
	if o.StaticDir == "" {
		return ""
	}
	return filepath.Join(o.RootDir, o.StaticDir)
}

// SiteConfig holds the optional settings from the mdsite.yaml file.
// Pointer fields distinguish "absent" from an explicit empty value.
type SiteConfig struct {
	Template       *string `yaml:"template"`
	InputDir       *string `yaml:"input_dir"`
	OutputDir      *string `yaml:"output_dir"`
	SiteSuffix     *string `yaml:"site_suffix"`
	SitePrefix     *string `yaml:"site_prefix"`
	StaticDir      *string `yaml:"static_dir"`
	Sanitize       *bool   `yaml:"sanitize"`
	HighlightStyle *string `yaml:"highlight_style"`
}

// LoadSiteConfig reads and parses a YAML config file.
func LoadSiteConfig(path string) (SiteConfig, error) {
	cfg := SiteConfig{}
	data, err := os.ReadFile(path)
	if err != nil {
		return SiteConfig{}, fmt.Errorf("could not read config file at %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("could not parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// LoadOptionalSiteConfig is LoadSiteConfig that treats a missing file as an
// empty config.
func LoadOptionalSiteConfig(path string) (SiteConfig, bool, error) {
	cfg, err := LoadSiteConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		return SiteConfig{}, false, nil
	}
	if err != nil {
		return SiteConfig{}, false, err
	}
	return cfg, true, nil
}

// Apply overlays the values present in the config file onto base, skipping
// any option named in explicit (flags the user set on the command line).
func (c SiteConfig) Apply(base Options, explicit map[string]bool) Options {
	setString := func(name string, dst *string, src *string) {
		if src != nil && !explicit[name] {
			*dst = *src
		}
	}
	setString("template", &base.Template, c.Template)
	setString("input_dir", &base.InputDir, c.InputDir)
	setString("output_dir", &base.OutputDir, c.OutputDir)
	setString("site_suffix", &base.SiteSuffix, c.SiteSuffix)
	setString("site_prefix", &base.SitePrefix, c.SitePrefix)
	setString("static_dir", &base.StaticDir, c.StaticDir)
	setString("highlight_style", &base.HighlightStyle, c.HighlightStyle)
	if c.Sanitize != nil && !explicit["sanitize"] {
		base.Sanitize = *c.Sanitize
	}
	return base
}
