package batch

import (
	"encoding/json"
	"os"
)

// ManifestEntry represents one object in the output manifest.
type ManifestEntry struct {
	Name       string `json:"name"`
	Generator  string `json:"generator"`
	Image      string `json:"image"`
	Vertices   int    `json:"vertices"`
	Primitives int    `json:"primitives"`
}

// WriteManifest writes the successful results as JSON to path.
func WriteManifest(path string, results []Result) error {
	entries := make([]ManifestEntry, 0, len(results))
	for _, r := range results {
		if !r.Success {
			continue
		}
		entries = append(entries, ManifestEntry{
			Name:       r.Name,
			Generator:  r.Generator,
			Image:      r.Image,
			Vertices:   r.Vertices,
			Primitives: r.Primitives,
		})
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
