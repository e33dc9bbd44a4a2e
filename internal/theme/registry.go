// Package theme holds the storefront theme presets a merchant can pick
// from. Presets ship embedded so the CLI lists and validates them
// offline; the selection itself is stored on the shop record.
package theme

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/meropasal/pasal-cli/internal/models"
)

//go:embed presets.yaml
var presetsYAML []byte

// Preset is one selectable storefront theme.
type Preset struct {
	Name           string `yaml:"name"`
	Label          string `yaml:"label"`
	PrimaryColor   string `yaml:"primaryColor"`
	SecondaryColor string `yaml:"secondaryColor"`
	FontFamily     string `yaml:"fontFamily"`
}

type registry struct {
	Presets []Preset `yaml:"presets"`
}

var (
	loadOnce sync.Once
	loaded   registry
	loadErr  error
)

func load() (registry, error) {
	loadOnce.Do(func() {
		loadErr = yaml.Unmarshal(presetsYAML, &loaded)
	})
	return loaded, loadErr
}

// Presets returns all presets in declaration order.
func Presets() ([]Preset, error) {
	r, err := load()
	if err != nil {
		return nil, err
	}
	return r.Presets, nil
}

// Lookup finds a preset by name.
func Lookup(name string) (Preset, error) {
	r, err := load()
	if err != nil {
		return Preset{}, err
	}
	for _, p := range r.Presets {
		if p.Name == name {
			return p, nil
		}
	}
	return Preset{}, fmt.Errorf("unknown theme %q", name)
}

// Apply builds a shop theme from the preset, with optional overrides for
// the palette.
func Apply(name, primary, secondary string) (models.ShopTheme, error) {
	p, err := Lookup(name)
	if err != nil {
		return models.ShopTheme{}, err
	}
	t := models.ShopTheme{
		Name:           p.Name,
		PrimaryColor:   p.PrimaryColor,
		SecondaryColor: p.SecondaryColor,
		FontFamily:     p.FontFamily,
	}
	if primary != "" {
		t.PrimaryColor = primary
	}
	if secondary != "" {
		t.SecondaryColor = secondary
	}
	return t, nil
}
