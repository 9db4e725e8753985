package tlf

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

type topLevelManifest struct {
	Format string   `toml:"format"`
	Type   string   `toml:"type"`
	Name   string   `toml:"name"`
	Files  []string `toml:"files"`
}

// topLevelLanguage is the top-level structure containing all keys in a
// complete TLF 'LANGUAGE' type file.
type topLevelLanguage struct {
	Format string  `toml:"format"`
	Type   string  `toml:"type"`
	Name   string  `toml:"name"`
	Tokens []token `toml:"token"`
}

type token struct {
	Kind  string `toml:"kind"`
	Regex string `toml:"regex"`
	Skip  bool   `toml:"skip,omitempty"`
}

// manifStack is for two reasons ->
// * detect circular deps (not an error, but we need to know to avoid them)
// * avoid infinite recursion (allow up to MaxManifestRecursionDepth levels)
func recursiveUnmarshalResource(path string, manifStack []string) (topLevelLanguage, error) {
	path = filepath.Clean(path)

	fileData, err := readFile(path)
	if err != nil {
		return topLevelLanguage{}, err
	}

	fileInfo, err := ScanFileInfo(fileData)
	if err != nil {
		return topLevelLanguage{}, fmt.Errorf("%q: detecting file type: %w", path, err)
	}

	if strings.ToUpper(fileInfo.Format) != FormatName {
		return topLevelLanguage{}, fmt.Errorf("%q: file does not have a 'format = %q' entry", path, FormatName)
	}

	switch strings.ToUpper(fileInfo.Type) {
	case "LANGUAGE":
		unmarshaled, err := unmarshalLanguage(fileData)
		if err != nil {
			return unmarshaled, fmt.Errorf("language file %q: %w", path, err)
		}
		return unmarshaled, nil
	case "MANIFEST":
		if len(manifStack) >= MaxManifestRecursionDepth {
			return topLevelLanguage{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestStackOverflow)
		}
		for i := range manifStack {
			if manifStack[i] == path {
				return topLevelLanguage{}, fmt.Errorf("manifest file %q: %w", path, ErrManifestCircularRef)
			}
		}

		manif, err := unmarshalManifest(fileData)
		if err != nil {
			return topLevelLanguage{}, fmt.Errorf("manifest file %q: %w", path, err)
		}

		combined := topLevelLanguage{Name: manif.Name}

		manifSubStack := make([]string, len(manifStack)+1)
		copy(manifSubStack, manifStack)
		manifSubStack[len(manifSubStack)-1] = path

		manifDir := filepath.Dir(path)

		processedFiles := 0
		for _, manifRelPath := range manif.Files {
			includedFilePath := filepath.Join(manifDir, manifRelPath)

			included, err := recursiveUnmarshalResource(includedFilePath, manifSubStack)
			if err != nil {
				// a circular reference is skipped rather than failing the load
				if errors.Is(err, ErrManifestCircularRef) {
					continue
				}
				return topLevelLanguage{}, fmt.Errorf("in file referred to by manifest file %q: %w", path, err)
			}

			if combined.Name == "" {
				combined.Name = included.Name
			}
			combined.Tokens = append(combined.Tokens, included.Tokens...)
			processedFiles++
		}

		// an empty manifest is only a problem for the very first one
		if len(manifStack) == 0 && processedFiles == 0 {
			return combined, fmt.Errorf("manifest file %q: %w", path, ErrManifestEmpty)
		}
		return combined, nil
	default:
		return topLevelLanguage{}, fmt.Errorf("%q: file does not have 'type = ' entry set to either \"LANGUAGE\" or \"MANIFEST\"", path)
	}
}

// unmarshalLanguage unmarshals a language table from the given bytes. It does
// not check the table.
func unmarshalLanguage(tomlData []byte) (topLevelLanguage, error) {
	var tlf topLevelLanguage
	if tomlErr := toml.Unmarshal(tomlData, &tlf); tomlErr != nil {
		return tlf, tomlErr
	}

	if err := checkHeader(FileInfo{Format: tlf.Format, Type: tlf.Type}, "LANGUAGE"); err != nil {
		return tlf, err
	}

	return tlf, nil
}

// unmarshalManifest unmarshals a TLF manifest from the given bytes.
func unmarshalManifest(tomlData []byte) (topLevelManifest, error) {
	var tlf topLevelManifest
	if tomlErr := toml.Unmarshal(tomlData, &tlf); tomlErr != nil {
		return tlf, tomlErr
	}

	if err := checkHeader(FileInfo{Format: tlf.Format, Type: tlf.Type}, "MANIFEST"); err != nil {
		return tlf, err
	}

	return tlf, nil
}
