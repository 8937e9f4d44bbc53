package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RepoEntry is one watched repository in the YAML watch list.
type RepoEntry struct {
	Name                    string   `yaml:"name"`
	Branch                  string   `yaml:"branch"`
	Path                    string   `yaml:"path"`
	ForceRecreateContainers []string `yaml:"containers_to_force_recreate"`
}

// WatchList is the parsed watch-list file.
type WatchList struct {
	Repos []RepoEntry `yaml:"repos"`
}

// LoadWatchList reads and parses the YAML watch list at path.
func LoadWatchList(path string) (WatchList, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return WatchList{}, fmt.Errorf("read watch list: %w", err)
	}
	var list WatchList
	if err := yaml.Unmarshal(raw, &list); err != nil {
		return WatchList{}, fmt.Errorf("parse watch list: %w", err)
	}
	return list, nil
}
