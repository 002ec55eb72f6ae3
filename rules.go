package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// probeKeysFileName is the rules file searched for in config locations when
// --rules is not given.
const probeKeysFileName = "countkeys.yml"

// probeKeysFile is the YAML shape of a probe-rule override file:
//
//	keys:
//	  - data
//	  - items
//	  - results
//
// The list order defines probe priority.
type probeKeysFile struct {
	Keys []string `yaml:"keys"`
}

// loadProbeRules returns the ordered probe rules, reading them from path when
// given, otherwise from countkeys.yml in the standard config locations,
// otherwise the built-in defaults.
func loadProbeRules(path string) ([]probeRule, error) {
	if path == "" {
		path = findProbeKeysFile()
		if path == "" {
			return defaultProbeRules(), nil
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading rules file %s: %w", path, err)
	}

	var pf probeKeysFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return nil, fmt.Errorf("error parsing rules file %s: %w", path, err)
	}

	rules := make([]probeRule, 0, len(pf.Keys))
	seen := make(map[string]bool)
	for _, key := range pf.Keys {
		key = strings.TrimSpace(key)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		rules = append(rules, probeRule{Key: key})
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("rules file %s defines no keys", path)
	}

	logrus.Debugf("Loaded %d probe keys from %s", len(rules), path)
	return rules, nil
}

// findProbeKeysFile looks for countkeys.yml in ~/.config/jsontally and the
// working directory.
func findProbeKeysFile() string {
	var configPaths []string
	if home, err := os.UserHomeDir(); err == nil {
		configPaths = append(configPaths, filepath.Join(home, ".config", "jsontally"))
	}
	configPaths = append(configPaths, ".")

	for _, p := range configPaths {
		candidate := filepath.Join(p, probeKeysFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
