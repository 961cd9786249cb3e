package ios

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"howett.net/plist"

	"github.com/rios0rios0/mobileversion/internal/domain/entities"
	"github.com/rios0rios0/mobileversion/internal/infrastructure/repositories/staging"
)

const (
	keyShortVersion  = "CFBundleShortVersionString"
	keyBundleVersion = "CFBundleVersion"
)

// PlistFile is a parsed Info.plist together with the raw text it came from.
type PlistFile struct {
	Path   string
	Raw    []byte
	Values map[string]any
	Indent string
}

// LoadPlistFile reads and validates an XML property list with a top-level dictionary.
func LoadPlistFile(path string) (*PlistFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrMissingFile, err)
	}
	return ParsePlistFile(path, raw)
}

// ParsePlistFile decodes raw as an XML property list.
func ParsePlistFile(path string, raw []byte) (*PlistFile, error) {
	values := make(map[string]any)
	format, err := plist.Unmarshal(raw, &values)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrMalformedPlist, err)
	}
	if format != plist.XMLFormat {
		return nil, fmt.Errorf("%w: expected an XML property list, got %s", entities.ErrMalformedPlist, plist.FormatNames[format])
	}
	if _, layoutErr := scanPlistLayout(raw); layoutErr != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrMalformedPlist, layoutErr)
	}

	return &PlistFile{
		Path:   path,
		Raw:    raw,
		Values: values,
		Indent: DetectIndent(string(raw)),
	}, nil
}

// BuildNumber returns CFBundleVersion as an integer, or nil when it is absent
// or does not start with digits.
func (f *PlistFile) BuildNumber() *int {
	switch value := f.Values[keyBundleVersion].(type) {
	case string:
		return parseBuildNumber(value)
	case uint64:
		n := int(value) //nolint:gosec // build numbers are small
		return &n
	case int64:
		n := int(value)
		return &n
	default:
		return nil
	}
}

// Render writes Values back into the original text. Entries whose value did
// not change keep their bytes; changed values are re-encoded in place, removed
// keys are dropped and new keys are appended before the closing </dict>, all
// using the file's own indentation.
func (f *PlistFile) Render() ([]byte, error) {
	layout, err := scanPlistLayout(f.Raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", entities.ErrMalformedPlist, f.Path, err)
	}
	original := make(map[string]any)
	if _, err = plist.Unmarshal(f.Raw, &original); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", entities.ErrMalformedPlist, f.Path, err)
	}

	var splices []splice
	var added []string
	for key, value := range f.Values {
		if value == nil || reflect.DeepEqual(original[key], value) {
			continue
		}
		entry, found := layout.find(key)
		if !found {
			added = append(added, key)
			continue
		}
		encoded, encodeErr := encodePlistValue(value, f.Indent)
		if encodeErr != nil {
			return nil, fmt.Errorf("%w: %s: %w", entities.ErrMalformedPlist, f.Path, encodeErr)
		}
		splices = append(splices, splice{start: entry.valueStart, end: entry.valueEnd, text: encoded})
	}

	for _, entry := range layout.entries {
		if f.Values[entry.key] == nil {
			splices = append(splices, splice{start: precedingBlank(f.Raw, entry.keyStart), end: entry.valueEnd})
		}
	}

	if len(added) > 0 {
		insertion, insertErr := f.insertEntries(layout, added)
		if insertErr != nil {
			return nil, fmt.Errorf("%w: %s: %w", entities.ErrMalformedPlist, f.Path, insertErr)
		}
		splices = append(splices, insertion)
	}

	if len(splices) == 0 {
		return f.Raw, nil
	}
	return applySplices(f.Raw, splices), nil
}

// insertEntries builds the splice that appends keys, sorted, to the end of the
// top-level dictionary.
func (f *PlistFile) insertEntries(layout plistLayout, keys []string) (splice, error) {
	slices.Sort(keys)

	var block strings.Builder
	for _, key := range keys {
		encoded, err := encodePlistValue(f.Values[key], f.Indent)
		if err != nil {
			return splice{}, err
		}
		var escaped bytes.Buffer
		if err = xml.EscapeText(&escaped, []byte(key)); err != nil {
			return splice{}, err
		}
		block.WriteString(f.Indent + "<" + tagKey + ">" + escaped.String() + "</" + tagKey + ">\n")
		block.WriteString(f.Indent + encoded + "\n")
	}

	if layout.selfClosed {
		text := "<" + tagDict + ">\n" + block.String() + "</" + tagDict + ">"
		return splice{start: layout.open, end: layout.openEnd, text: text}, nil
	}

	at := lineStart(f.Raw, layout.close)
	if at > layout.open && strings.TrimSpace(string(f.Raw[at:layout.close])) == "" {
		return splice{start: at, end: at, text: block.String()}, nil
	}
	return splice{start: layout.close, end: layout.close, text: "\n" + block.String()}, nil
}

// encodePlistValue renders value as the XML element that would sit one level
// inside the top-level dictionary.
func encodePlistValue(value any, indent string) (string, error) {
	generated, err := plist.MarshalIndent(value, plist.XMLFormat, indent)
	if err != nil {
		return "", err
	}

	open := bytes.Index(generated, []byte("<"+tagPlist))
	closing := bytes.LastIndex(generated, []byte("</"+tagPlist+">"))
	if open < 0 || closing < open {
		return "", errors.New("unexpected property list encoding")
	}
	bodyStart := open + bytes.IndexByte(generated[open:], '>') + 1
	return strings.TrimSpace(string(generated[bodyStart:closing])), nil
}

// precedingBlank moves i back over the indentation and line break before it.
func precedingBlank(src []byte, i int) int {
	for i > 0 && (src[i-1] == ' ' || src[i-1] == '\t') {
		i--
	}
	if i > 0 && src[i-1] == '\n' {
		i--
	}
	if i > 0 && src[i-1] == '\r' {
		i--
	}
	return i
}

// PlistSet is the group of Info.plist files referenced by a project.
type PlistSet struct {
	Files []*PlistFile
}

// LoadFailure is a property list that could not be loaded.
type LoadFailure struct {
	Path string
	Err  error
}

// LoadPlistSet loads every path. Files are validated up front so that nothing
// is written when one of them is missing or malformed; every failure is returned.
func LoadPlistSet(paths []string) (*PlistSet, []LoadFailure) {
	set := &PlistSet{}
	var failures []LoadFailure
	for _, path := range paths {
		file, err := LoadPlistFile(path)
		if err != nil {
			failures = append(failures, LoadFailure{Path: path, Err: err})
			continue
		}
		set.Files = append(set.Files, file)
	}
	return set, failures
}

// Patch sets CFBundleShortVersionString and CFBundleVersion on every file
// according to opts.
func (s *PlistSet) Patch(version string, opts entities.SyncOptions) error {
	for _, file := range s.Files {
		if opts.UpdatesDisplayVersion() {
			file.Values[keyShortVersion] = entities.ToDisplayVersion(version)
		}
		if opts.UpdatesBuildNumber() {
			next, err := entities.NextBuildNumber(file.BuildNumber(), opts.BuildNumberOptions(), version)
			if err != nil {
				return fmt.Errorf("%s: %w", file.Path, err)
			}
			file.Values[keyBundleVersion] = strconv.Itoa(next)
		}
	}
	return nil
}

// Stage renders every file into changeset.
func (s *PlistSet) Stage(changeset *staging.Changeset) error {
	for _, file := range s.Files {
		rendered, err := file.Render()
		if err != nil {
			return err
		}
		changeset.Stage(file.Path, file.Raw, rendered)
	}
	return nil
}

// parseBuildNumber reads the leading digits of s.
func parseBuildNumber(s string) *int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return nil
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return nil
	}
	return &n
}
