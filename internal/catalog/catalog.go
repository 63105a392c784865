// Package catalog holds the static lookup tables exposed alongside the
// datasets: tracked technology companies per sector and crop growing regions.
package catalog

import (
	_ "embed"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Region is a named growing area with a representative coordinate.
type Region struct {
	Name string  `yaml:"name"`
	Lat  float64 `yaml:"lat"`
	Lon  float64 `yaml:"lon"`
}

// Crop lists the regions a crop is tracked in.
type Crop struct {
	Name    string   `yaml:"name"`
	Regions []Region `yaml:"regions"`
}

// Catalog is the parsed lookup table set.
type Catalog struct {
	TechSectors map[string]map[string]string `yaml:"tech_sectors"`
	Crops       []Crop                       `yaml:"crops"`
}

// Default parses the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Parse decodes a YAML catalog and checks it for empty or duplicate entries.
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	for sector, companies := range c.TechSectors {
		if len(companies) == 0 {
			return fmt.Errorf("catalog: sector %q has no companies", sector)
		}
	}
	seen := make(map[string]bool, len(c.Crops))
	for _, crop := range c.Crops {
		if crop.Name == "" || seen[crop.Name] {
			return fmt.Errorf("catalog: empty or duplicate crop %q", crop.Name)
		}
		seen[crop.Name] = true
		if len(crop.Regions) == 0 {
			return fmt.Errorf("catalog: crop %q has no regions", crop.Name)
		}
	}
	return nil
}

// Companies returns the symbol -> company name table for a sector.
func (c *Catalog) Companies(sector string) (map[string]string, bool) {
	companies, ok := c.TechSectors[sector]
	return companies, ok
}

// CompanyName resolves a symbol within a sector.
func (c *Catalog) CompanyName(sector, symbol string) (string, bool) {
	name, ok := c.TechSectors[sector][symbol]
	return name, ok
}

// CropNames returns crop names in catalog order.
func (c *Catalog) CropNames() []string {
	names := make([]string, len(c.Crops))
	for i, crop := range c.Crops {
		names[i] = crop.Name
	}
	return names
}

// RegionNames returns the region names of a crop in catalog order.
func (c *Catalog) RegionNames(crop string) ([]string, bool) {
	i := slices.IndexFunc(c.Crops, func(cr Crop) bool { return cr.Name == crop })
	if i < 0 {
		return nil, false
	}
	names := make([]string, len(c.Crops[i].Regions))
	for j, r := range c.Crops[i].Regions {
		names[j] = r.Name
	}
	return names, true
}

// Region looks up a region of a crop.
func (c *Catalog) Region(crop, region string) (Region, bool) {
	for _, cr := range c.Crops {
		if cr.Name != crop {
			continue
		}
		for _, r := range cr.Regions {
			if r.Name == region {
				return r, true
			}
		}
	}
	return Region{}, false
}
