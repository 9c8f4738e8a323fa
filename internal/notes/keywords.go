package notes

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// LoadKeywords reads a keyword set from a TOML file of the form:
//
//	[notes]
//	keywords = ["deadline", "action item", "decision"]
//
// A missing file is not an error and returns nil, letting the caller fall
// back to the built-in set. Invalid TOML returns an error.
func LoadKeywords(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}

	var config struct {
		Notes struct {
			Keywords []string
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("parsing keyword file %s: %w", path, err)
	}

	return config.Notes.Keywords, nil
}
