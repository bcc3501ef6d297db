package catalog

import (
	"errors"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"
)

// Profile is a named group of agents installed together.
type Profile struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description" json:"description"`
	Agents      []string `yaml:"agents" json:"agents"`
}

type profilesFile struct {
	Profiles []Profile `yaml:"profiles"`
}

// Profiles returns the profiles defined next to the catalog. A catalog
// without a profiles file has no profiles.
func (c *Catalog) Profiles() ([]Profile, error) {
	data, err := fs.ReadFile(c.fsys, c.profiles)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading profiles: %w", err)
	}

	var pf profilesFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing profiles: %w", err)
	}
	return pf.Profiles, nil
}

// Profile returns the profile with the given name.
func (c *Catalog) Profile(name string) (Profile, error) {
	profiles, err := c.Profiles()
	if err != nil {
		return Profile{}, err
	}
	for _, p := range profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("unknown profile %q", name)
}
