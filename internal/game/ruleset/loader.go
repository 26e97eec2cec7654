package ruleset

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadProfiles reads all .yaml files in dir and parses each as a Profile.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns all parsed and validated profiles sorted by file
// name (may be empty slice) or a non-nil error.
func LoadProfiles(dir string) ([]*Profile, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	profiles := make([]*Profile, 0, len(files))
	for _, path := range files {
		p, err := LoadProfile(path)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// LoadProfile reads and validates a single profile file. Unknown keys are rejected.
//
// Precondition: path must be a readable YAML file.
// Postcondition: Returns a valid Profile or a non-nil error naming path.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var p Profile
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("parsing profile file %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("validating profile file %s: %w", path, err)
	}
	return &p, nil
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
