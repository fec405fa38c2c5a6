// Package prompts holds the LLM prompt fragments used for profile and resume
// extraction. Fragments live in embedded JSON files keyed by name.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

var (
	loadOnce sync.Once
	catalog  map[string]map[string]string
	loadErr  error
)

func load() (map[string]map[string]string, error) {
	loadOnce.Do(func() {
		catalog = make(map[string]map[string]string)
		loadErr = fs.WalkDir(promptFiles, ".", func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			data, err := promptFiles.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read prompt file %s: %w", path, err)
			}
			var entries map[string]string
			if err := json.Unmarshal(data, &entries); err != nil {
				return fmt.Errorf("failed to parse prompt file %s: %w", path, err)
			}
			catalog[path] = entries
			return nil
		})
	})
	return catalog, loadErr
}

// Get retrieves a prompt by filename (e.g. "extraction.json") and key.
func Get(filename, key string) (string, error) {
	all, err := load()
	if err != nil {
		return "", err
	}

	entries, ok := all[filename]
	if !ok {
		return "", fmt.Errorf("prompt file %s not found", filename)
	}
	prompt, ok := entries[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return prompt, nil
}

// MustGet retrieves a prompt, panicking if it is missing.
func MustGet(filename, key string) string {
	prompt, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}
