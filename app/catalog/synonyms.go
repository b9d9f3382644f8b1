package catalog

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadSynonyms returns the built-in table extended with the groups found in
// the YAML file at path. The file maps canonical keys to synonym lists:
//
//	name:
//	  - 項目
//	repo_url:
//	  - gitlab
//
// An empty path returns the built-in table.
func LoadSynonyms(path string) (*Synonyms, error) {
	base := DefaultSynonyms()
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read synonyms file: %w", err)
	}

	var groups map[string][]string
	if err := yaml.Unmarshal(data, &groups); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	synonyms, err := base.Extend(groups)
	if err != nil {
		return nil, fmt.Errorf("invalid synonyms file %s: %w", path, err)
	}

	slog.Debug("Synonyms loaded", "file", path, "groups", len(groups), "tokens", synonyms.Len())

	return synonyms, nil
}
