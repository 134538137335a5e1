// Package backend implements the reference weather API: a small chi service
// answering GET /api/weather from a static catalog of observations.
package backend

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/wxq/assets"
	"github.com/doeshing/wxq/internal/domain"
)

type observation struct {
	City        string   `yaml:"city"`
	Temperature float64  `yaml:"temperature"`
	Condition   string   `yaml:"condition"`
	Humidity    *float64 `yaml:"humidity"`
	WindSpeed   *float64 `yaml:"wind_speed"`
}

type catalogFile struct {
	Observations []observation `yaml:"observations"`
}

// Catalog maps normalized city names to observations.
type Catalog struct {
	byCity map[string]domain.WeatherResult
}

// ParseCatalog decodes a YAML catalog document.
func ParseCatalog(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, "parse catalog")
	}
	catalog := &Catalog{byCity: make(map[string]domain.WeatherResult, len(file.Observations))}
	for i, obs := range file.Observations {
		key := normalizeCity(obs.City)
		if key == "" {
			return nil, errors.Errorf("catalog entry %d has no city", i)
		}
		if _, dup := catalog.byCity[key]; dup {
			return nil, errors.Errorf("catalog lists %q twice", obs.City)
		}
		catalog.byCity[key] = domain.WeatherResult{
			City:        obs.City,
			Temperature: obs.Temperature,
			Condition:   obs.Condition,
			Humidity:    obs.Humidity,
			WindSpeed:   obs.WindSpeed,
		}
	}
	return catalog, nil
}

// LoadCatalog reads path, or the embedded catalog when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return ParseCatalog(assets.DefaultCatalogYAML)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read catalog %s", path)
	}
	return ParseCatalog(data)
}

// Lookup finds city ignoring case and surrounding whitespace.
func (c *Catalog) Lookup(city string) (domain.WeatherResult, bool) {
	result, ok := c.byCity[normalizeCity(city)]
	if !ok {
		return domain.WeatherResult{}, false
	}
	return result.Clone(), true
}

// Len is the number of cities served.
func (c *Catalog) Len() int {
	return len(c.byCity)
}

func normalizeCity(city string) string {
	return strings.ToLower(strings.Join(strings.Fields(city), " "))
}
