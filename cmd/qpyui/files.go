package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// loadValues decodes a YAML (or JSON) file into v. An empty path leaves v
// untouched.
func loadValues(path string, v any) error {
	if path == "" {
		return nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(b, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func readDocument(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
