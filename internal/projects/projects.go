// Package projects reads the optional catalogue of project names and colors
// shown next to checkpoints.
package projects

import (
	"errors"
	"fmt"
	"hash/fnv"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/Tiliavir/tcheck/internal/model"
)

// Terminal palette indexes used for checkpoints without a catalogue color.
const (
	ColorNoMessage  = "8"
	ColorNoProject  = "15"
	cubeStart       = 16
	cubeSize        = 216
	maxPaletteIndex = 255
)

// Project is one catalogue entry. ID is the value stored on checkpoints.
type Project struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	// Color is a 256-color palette index. Nil derives one from the id.
	Color *int `yaml:"color,omitempty"`
}

// Catalogue is the ordered project list. Position n (1-based) is bound to
// digit key n.
type Catalogue struct {
	Projects []Project `yaml:"projects"`
}

// Load reads the catalogue at path. A missing file yields an empty
// catalogue.
func Load(path string) (Catalogue, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Catalogue{}, nil
	}
	if err != nil {
		return Catalogue{}, fmt.Errorf("reading %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return Catalogue{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalogue.
func Parse(data []byte) (Catalogue, error) {
	var c Catalogue
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Catalogue{}, fmt.Errorf("parsing project catalogue: %w", err)
	}
	seen := make(map[string]bool, len(c.Projects))
	for i, p := range c.Projects {
		if p.ID == "" {
			return Catalogue{}, fmt.Errorf("project %d has no id", i+1)
		}
		if seen[p.ID] {
			return Catalogue{}, fmt.Errorf("duplicate project id %q", p.ID)
		}
		seen[p.ID] = true
		if p.Color != nil && (*p.Color < 0 || *p.Color > maxPaletteIndex) {
			return Catalogue{}, fmt.Errorf("project %q: color %d outside 0-%d", p.ID, *p.Color, maxPaletteIndex)
		}
	}
	return c, nil
}

// Nth returns the project bound to digit n (1-based).
func (c Catalogue) Nth(n int) (Project, bool) {
	if n < 1 || n > len(c.Projects) {
		return Project{}, false
	}
	return c.Projects[n-1], true
}

// Lookup finds a project by id.
func (c Catalogue) Lookup(id string) (Project, bool) {
	for _, p := range c.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

// Label returns the project name when catalogued, else the id.
func (c Catalogue) Label(id string) string {
	if p, ok := c.Lookup(id); ok && p.Name != "" {
		return p.Name
	}
	return id
}

// Color returns the palette index a checkpoint is drawn with. Checkpoints
// without a message are gray and those without a project are white.
func (c Catalogue) Color(cp model.Checkpoint) string {
	if cp.Message == nil {
		return ColorNoMessage
	}
	if cp.Project == nil {
		return ColorNoProject
	}
	if p, ok := c.Lookup(*cp.Project); ok && p.Color != nil {
		return strconv.Itoa(*p.Color)
	}
	return strconv.Itoa(HashColor(*cp.Project))
}

// HashColor maps id into the 6x6x6 color cube (16-231). Equal ids always get
// the same color.
func HashColor(id string) int {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	return int(h.Sum64()%cubeSize) + cubeStart
}
