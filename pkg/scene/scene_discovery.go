package scene

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-tinyray/pkg/core"
	"github.com/df07/go-tinyray/pkg/loaders"
)

// DefaultScenesDir is where named scene files are looked up
const DefaultScenesDir = "scenes"

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Name accepted by Create
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to the scene file (file type only)
}

type builtIn struct {
	info   SceneInfo
	create func() *Scene
}

var builtIns = []builtIn{
	{
		info: SceneInfo{
			ID:          "default",
			DisplayName: "Default Scene",
			Description: "Red, blue and white spheres on a ground sphere",
			Type:        "builtin",
		},
		create: NewDefaultScene,
	},
	{
		info: SceneInfo{
			ID:          "single",
			DisplayName: "Single Sphere",
			Description: "One white sphere under full ambient light",
			Type:        "builtin",
		},
		create: NewSingleSphereScene,
	},
	{
		info: SceneInfo{
			ID:          "empty",
			DisplayName: "Empty Scene",
			Description: "Lights without geometry, showing only the background",
			Type:        "builtin",
		},
		create: NewEmptyScene,
	},
}

// Create resolves a scene by name. Built-in names are checked first, then names ending
// in .json are loaded as paths, then <dir>/<name>.json.
func Create(name, dir string) (*Scene, error) {
	for _, b := range builtIns {
		if b.info.ID == name {
			return b.create(), nil
		}
	}

	if strings.HasSuffix(strings.ToLower(name), ".json") {
		return NewJSONScene(name)
	}

	if dir == "" {
		dir = DefaultScenesDir
	}
	if name != "" && !strings.ContainsAny(name, `/\`) {
		path := filepath.Join(dir, name+".json")
		if _, err := os.Stat(path); err == nil {
			return NewJSONScene(path)
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
}

// ListScenes returns the built-in scenes followed by the scene files found in dir,
// sorted by display name. A missing directory yields only the built-ins.
func ListScenes(dir string, logger core.Logger) ([]SceneInfo, error) {
	scenes := make([]SceneInfo, 0, len(builtIns))
	for _, b := range builtIns {
		scenes = append(scenes, b.info)
	}

	if dir == "" {
		dir = DefaultScenesDir
	}
	if _, err := os.Stat(dir); err != nil {
		return scenes, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	var fileScenes []SceneInfo
	for _, path := range files {
		info, err := ParseSceneInfo(path)
		if err != nil {
			// Log warning but continue processing other files
			if logger != nil {
				logger.Printf("Warning: failed to read scene %s: %v\n", path, err)
			}
			continue
		}
		fileScenes = append(fileScenes, info)
	}

	sort.Slice(fileScenes, func(i, j int) bool {
		return fileScenes[i].DisplayName < fileScenes[j].DisplayName
	})

	return append(scenes, fileScenes...), nil
}

// ParseSceneInfo reads the metadata of a scene file
func ParseSceneInfo(path string) (SceneInfo, error) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	info := SceneInfo{
		ID:          base,
		DisplayName: titleCase(base),
		Type:        "file",
		FilePath:    path,
	}

	file, err := loaders.LoadSceneJSON(path)
	if err != nil {
		return info, err
	}
	if file.Name != "" {
		info.DisplayName = titleCase(file.Name)
	}
	info.Description = file.Description
	return info, nil
}

// titleCase converts a filename-style string to title case
// e.g., "two-spheres" -> "Two Spheres"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	// Title case each word
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
