package config

import (
	"fmt"

	"flutterdeploy/internal/source"
)

// ProjectConfig overrides the conventional Flutter file locations. Paths are
// relative to the project root.
type ProjectConfig struct {
	Manifest          string `yaml:"manifest" toml:"manifest"`
	AndroidGroovy     string `yaml:"android_groovy" toml:"android_groovy"`
	AndroidKotlin     string `yaml:"android_kotlin" toml:"android_kotlin"`
	AndroidProperties string `yaml:"android_properties" toml:"android_properties"`
	IOSPlist          string `yaml:"ios_plist" toml:"ios_plist"`
	IOSProject        string `yaml:"ios_project" toml:"ios_project"`

	// Sources restricts which local sources are managed. Empty means all.
	Sources []string `yaml:"sources,omitempty" toml:"sources,omitempty"`
}

// DefaultProjectConfig returns the standard Flutter layout.
func DefaultProjectConfig() ProjectConfig {
	l := source.DefaultLayout("")
	return ProjectConfig{
		Manifest:          l.Manifest,
		AndroidGroovy:     l.AndroidGroovy,
		AndroidKotlin:     l.AndroidKotlin,
		AndroidProperties: l.AndroidProperties,
		IOSPlist:          l.IOSPlist,
		IOSProject:        l.IOSProject,
	}
}

// Layout resolves the configured paths against root. Empty entries keep the
// conventional location.
func (p ProjectConfig) Layout(root string) source.Layout {
	l := source.DefaultLayout(root)
	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&l.Manifest, p.Manifest)
	set(&l.AndroidGroovy, p.AndroidGroovy)
	set(&l.AndroidKotlin, p.AndroidKotlin)
	set(&l.AndroidProperties, p.AndroidProperties)
	set(&l.IOSPlist, p.IOSPlist)
	set(&l.IOSProject, p.IOSProject)
	return l
}

// LocalSources parses Sources. The manifest is always managed, so it is
// never required in the list.
func (p ProjectConfig) LocalSources() ([]source.Source, error) {
	var out []source.Source
	for _, name := range p.Sources {
		src, err := source.ParseSource(name)
		if err != nil {
			return nil, err
		}
		if !src.IsLocal() {
			return nil, fmt.Errorf("project.sources: %s is not a local source", src)
		}
		out = append(out, src)
	}
	return out, nil
}
