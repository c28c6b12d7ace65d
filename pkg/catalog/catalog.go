// Package catalog is the read-only table of subjects and the awards each one
// can grant.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed subjects.yaml
var defaultSubjects []byte

// Award is identified by its image name.
type Award struct {
	ImageName string `yaml:"image"`
	Title     string `yaml:"title"`
}

// Subject owns an ordered list of awards.
type Subject struct {
	Name   string  `yaml:"name"`
	Awards []Award `yaml:"awards"`
}

// Catalog resolves a subject name to its definition.
type Catalog interface {
	LookupSubject(name string) (Subject, bool)
}

// Static is an in-memory Catalog.
type Static struct {
	subjects []Subject
	byName   map[string]int
}

// New builds a Static catalog. On duplicate names the first entry wins.
func New(subjects []Subject) *Static {
	c := &Static{
		subjects: subjects,
		byName:   make(map[string]int, len(subjects)),
	}
	for i, s := range subjects {
		if _, exists := c.byName[s.Name]; !exists {
			c.byName[s.Name] = i
		}
	}
	return c
}

func (c *Static) LookupSubject(name string) (Subject, bool) {
	i, ok := c.byName[name]
	if !ok {
		return Subject{}, false
	}
	return c.subjects[i], true
}

// Subjects returns the subjects in definition order.
func (c *Static) Subjects() []Subject {
	out := make([]Subject, len(c.subjects))
	copy(out, c.subjects)
	return out
}

type document struct {
	Subjects []Subject `yaml:"subjects"`
}

// Parse reads a YAML catalog document.
func Parse(b []byte) (*Static, error) {
	var doc document
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	for i, s := range doc.Subjects {
		if s.Name == "" {
			return nil, fmt.Errorf("catalog subject #%d has no name", i+1)
		}
	}
	return New(doc.Subjects), nil
}

// Load reads a YAML catalog from path.
func Load(path string) (*Static, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read catalog file %s: %w", path, err)
	}
	return Parse(b)
}

// Default returns the built-in catalog.
func Default() *Static {
	c, err := Parse(defaultSubjects)
	if err != nil {
		panic(err)
	}
	return c
}
