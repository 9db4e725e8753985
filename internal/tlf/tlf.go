// Package tlf has functions for loading language tables using the TLF
// (TunaLex Language File) format, a TOML-based format that is used to define
// the token patterns of a language for the lexer generator to compile.
//
// Every TLF file has a header giving its format and type:
//
//	format = "TLEX"
//	type = "LANGUAGE"
//
// A LANGUAGE file then has a name and an ordered list of token tables:
//
//	name = "calc"
//
//	[[token]]
//	kind = "NUMBER"
//	regex = '[0-9]+'
//
//	[[token]]
//	kind = "SPACE"
//	regex = "[ \t]+"
//	skip = true
//
// A MANIFEST file instead lists other TLF files, relative to itself, whose
// tokens are combined in the order given. Earlier tokens have priority over
// later ones.
package tlf

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/tunalex/internal/lex"
)

const (
	// FormatName is the value of the 'format' key in every TLF file header.
	FormatName = "TLEX"

	// MaxManifestRecursionDepth is how many manifests may include one another
	// before loading is aborted.
	MaxManifestRecursionDepth = 32
)

var (
	// ErrManifestEmpty is the error returned when a manifest file is read
	// successfully but specifies no additional files to load.
	ErrManifestEmpty = errors.New("does not list any valid files to include")

	// ErrManifestStackOverflow is the error returned when the recursion level
	// of MaxManifestRecursionDepth is reached and an additional Manifest is
	// then specified, which would cause recursion to go deeper.
	ErrManifestStackOverflow = errors.New("too many manifests deep")

	// ErrManifestCircularRef is the error returned when a manifest specifies
	// any series of files that with their own manifests refer back to the
	// original manifest, and therefore cannot be followed.
	ErrManifestCircularRef = errors.New("manifest inclusion chain refers back to itself")
)

// FileInfo contains the essential information all TLF format files must
// contain. It can be obtained from a file by reading it into memory and
// calling ScanFileInfo on the bytes.
type FileInfo struct {
	Format string `toml:"format"`
	Type   string `toml:"type"`
}

// LoadLanguage loads a language table from the given TLF file. The file's
// type is auto-detected; it can be either "LANGUAGE" or "MANIFEST". If it is
// a manifest, every file it lists is loaded and all of their tokens are
// combined in order into a single table. The result is validated before it is
// returned.
func LoadLanguage(path string) (lex.Language, error) {
	unmarshaled, err := recursiveUnmarshalResource(path, nil)
	if err != nil {
		return lex.Language{}, err
	}

	lang := parseLanguage(unmarshaled)
	if err := lang.Validate(); err != nil {
		return lang, fmt.Errorf("%q: %w", path, err)
	}
	return lang, nil
}

// ParseLanguage parses the bytes of a LANGUAGE type TLF file into a language
// table. Manifests are not accepted as they refer to other files.
func ParseLanguage(data []byte) (lex.Language, error) {
	unmarshaled, err := unmarshalLanguage(data)
	if err != nil {
		return lex.Language{}, err
	}

	lang := parseLanguage(unmarshaled)
	if err := lang.Validate(); err != nil {
		return lang, err
	}
	return lang, nil
}

// MarshalLanguage encodes lang as a LANGUAGE type TLF file.
func MarshalLanguage(lang lex.Language) ([]byte, error) {
	top := topLevelLanguage{
		Format: FormatName,
		Type:   "LANGUAGE",
		Name:   lang.Name,
	}
	for _, p := range lang.Patterns {
		top.Tokens = append(top.Tokens, token{
			Kind:  p.Kind,
			Regex: p.Regex,
			Skip:  lang.Skips(p.Kind),
		})
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(top); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ScanFileInfo takes the given bytes and attempts to read the TLF format
// common header info from it. The bytes are read up to the first instance of
// a table definition header and those bytes are parsed for the info. If there
// is an error reading the info, returns a non-nil error.
func ScanFileInfo(data []byte) (FileInfo, error) {
	// only run the toml parser up to the end of the top-lev table
	var topLevelEnd int = -1
	var onNewLine = true
	for b := range data {
		if onNewLine {
			if data[b] == '[' {
				topLevelEnd = b
				break
			}
		}

		if data[b] == '\n' {
			onNewLine = true
		} else if !unicode.IsSpace(rune(data[b])) {
			onNewLine = false
		}
	}

	scanData := data
	if topLevelEnd != -1 {
		scanData = data[:topLevelEnd]
	}

	var info FileInfo
	err := toml.Unmarshal(scanData, &info)
	return info, err
}

// parseLanguage converts unmarshaled TLF data into a Language. Any kind with
// at least one token marked skip is skipped.
func parseLanguage(top topLevelLanguage) lex.Language {
	lang := lex.Language{Name: top.Name}

	skipped := map[string]bool{}
	for _, t := range top.Tokens {
		lang.Patterns = append(lang.Patterns, lex.Pattern{Regex: t.Regex, Kind: t.Kind})

		id := lex.ClassID(t.Kind)
		if t.Skip && !skipped[id] {
			skipped[id] = true
			lang.Skip = append(lang.Skip, t.Kind)
		}
	}

	return lang
}

func checkHeader(info FileInfo, expectType string) error {
	if strings.ToUpper(info.Format) != FormatName {
		return fmt.Errorf("in header: 'format' key must exist and be set to %q", FormatName)
	}
	if strings.ToUpper(info.Type) != expectType {
		return fmt.Errorf("in header: 'type' must exist and be set to %q", expectType)
	}
	return nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%q: reading from disk: %w", path, err)
	}
	return data, nil
}
