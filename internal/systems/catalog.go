// Package systems provides the catalog of binary equilibrium data sets
// the stage counter works on. Two textbook systems ship embedded;
// additional ones load from a data directory of YAML files, first
// column x, second column y, as in the original spreadsheets.
package systems

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/towerlab/platekit/pkg/domain"
)

//go:embed data/*.yaml
var embedded embed.FS

// ErrSystemNotFound is returned for lookups of unknown system names.
var ErrSystemNotFound = errors.New("equilibrium system not found")

// System is one named binary system with its sampled equilibrium points.
type System struct {
	Name   string         `yaml:"name"`
	Points []domain.Point `yaml:"points"`
}

type systemFile struct {
	Name   string       `yaml:"name"`
	Points [][2]float64 `yaml:"points"`
}

// Catalog holds the known systems by name.
type Catalog struct {
	systems map[string]System
}

// NewCatalog returns a catalog preloaded with the embedded systems.
func NewCatalog() (*Catalog, error) {
	c := &Catalog{systems: make(map[string]System)}

	entries, err := fs.ReadDir(embedded, "data")
	if err != nil {
		return nil, fmt.Errorf("reading embedded systems: %w", err)
	}
	for _, entry := range entries {
		data, err := fs.ReadFile(embedded, "data/"+entry.Name())
		if err != nil {
			return nil, fmt.Errorf("reading embedded system %s: %w", entry.Name(), err)
		}
		sys, err := parseSystem(entry.Name(), data)
		if err != nil {
			return nil, err
		}
		c.systems[sys.Name] = sys
	}
	return c, nil
}

// LoadDir merges every *.yaml file under dir into the catalog. Files
// there override embedded systems of the same name. A missing directory
// is fine.
func (c *Catalog) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading systems dir: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("reading system %s: %w", entry.Name(), err)
		}
		sys, err := parseSystem(entry.Name(), data)
		if err != nil {
			return err
		}
		c.systems[sys.Name] = sys
	}
	return nil
}

func parseSystem(filename string, data []byte) (System, error) {
	var file systemFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return System{}, fmt.Errorf("parsing system %s: %w", filename, err)
	}
	name := file.Name
	if name == "" {
		name = strings.TrimSuffix(filename, filepath.Ext(filename))
	}
	if len(file.Points) < 2 {
		return System{}, fmt.Errorf("system %s: need at least 2 points", name)
	}
	points := make([]domain.Point, len(file.Points))
	for i, p := range file.Points {
		points[i] = domain.Point{X: p[0], Y: p[1]}
	}
	return System{Name: name, Points: points}, nil
}

// Names lists the known systems sorted alphabetically.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.systems))
	for name := range c.systems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the named system's equilibrium points.
func (c *Catalog) Get(name string) ([]domain.Point, error) {
	sys, ok := c.systems[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSystemNotFound, name)
	}
	points := make([]domain.Point, len(sys.Points))
	copy(points, sys.Points)
	return points, nil
}
