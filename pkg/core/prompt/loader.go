package prompt

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadFromDirectory loads prompt JSON files from baseDir/prompts into the
// global registry. Files may nest one level per category:
//
//	baseDir/
//	  prompts/
//	    analysis/
//	      fundamental.json
//	      pe.json
func LoadFromDirectory(baseDir string) error {
	dir := filepath.Join(baseDir, "prompts")
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("prompts directory not found: %s", dir)
	}

	registry := Get()
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		var pt PromptTemplate
		if err := json.Unmarshal(data, &pt); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		if pt.ID == "" {
			pt.ID = idFromPath(path, dir)
		}
		if pt.Category == "" {
			pt.Category = categoryFromPath(path, dir)
		}

		if err := registry.Register(&pt); err != nil {
			return fmt.Errorf("register %s: %w", pt.ID, err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to load prompts: %w", err)
	}
	return nil
}

// idFromPath derives an ID from the file location,
// e.g. "prompts/analysis/fundamental.json" -> "analysis.fundamental".
func idFromPath(path, baseDir string) string {
	rel, _ := filepath.Rel(baseDir, path)
	rel = strings.TrimSuffix(rel, ".json")
	return strings.ReplaceAll(rel, string(filepath.Separator), ".")
}

func categoryFromPath(path, baseDir string) string {
	rel, _ := filepath.Rel(baseDir, path)
	parts := strings.Split(rel, string(filepath.Separator))
	if len(parts) > 1 {
		return parts[0]
	}
	return "default"
}
