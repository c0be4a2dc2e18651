package sorting

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

type catalogFile struct {
	Options []Option `yaml:"options"`
}

// LoadCatalog applies the YAML catalog at path. See ApplyCatalog.
func (r *Registry) LoadCatalog(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open sort catalog: %w", err)
	}
	defer f.Close()
	return r.ApplyCatalog(f)
}

// ApplyCatalog registers every option of a YAML document of the form
//
//	options:
//	  - key: shots
//	    label: Shots
//	    field: shots
//	    description: Total shots
//	    category: shooting
//
// The whole document is validated before anything is registered. It returns
// the number of options applied.
func (r *Registry) ApplyCatalog(src io.Reader) (int, error) {
	var doc catalogFile
	dec := yaml.NewDecoder(src)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return 0, fmt.Errorf("decode sort catalog: %w", err)
	}
	for i, o := range doc.Options {
		if err := validate(o); err != nil {
			return 0, fmt.Errorf("sort catalog entry %d (%q): %w", i, o.Key, err)
		}
	}
	for _, o := range doc.Options {
		if err := r.Register(o.Key, o.Label, o.Field, o.Description, o.Category); err != nil {
			return 0, err
		}
	}
	return len(doc.Options), nil
}
