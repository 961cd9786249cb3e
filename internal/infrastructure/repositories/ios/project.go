package ios

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	logger "github.com/sirupsen/logrus"
	"howett.net/plist"

	"github.com/rios0rios0/mobileversion/internal/domain/entities"
)

const (
	projectBundleGlob = "*.xcodeproj"
	projectFileName   = "project.pbxproj"

	keyInfoPlistFile         = "INFOPLIST_FILE"
	keyCurrentProjectVersion = "CURRENT_PROJECT_VERSION"
)

// BuildSettings is the typed view of an XCBuildConfiguration's buildSettings.
// Keys other than the recognized ones are kept in Other.
type BuildSettings struct {
	InfoPlistFile         *string
	CurrentProjectVersion *string
	Other                 map[string]any
}

func newBuildSettings(raw map[string]any) BuildSettings {
	settings := BuildSettings{Other: make(map[string]any, len(raw))}
	for key, value := range raw {
		s, isString := value.(string)
		switch {
		case key == keyInfoPlistFile && isString:
			settings.InfoPlistFile = &s
		case key == keyCurrentProjectVersion && isString:
			settings.CurrentProjectVersion = &s
		default:
			settings.Other[key] = value
		}
	}
	return settings
}

// ProjectNode is a PBXProject object.
type ProjectNode struct {
	ID      string
	Targets []int
}

// TargetNode is a native target; Project is the handle of its owner.
type TargetNode struct {
	ID             string
	Name           string
	Project        int
	Configurations []int
}

// ConfigurationNode is an XCBuildConfiguration; Target is the handle of its owner.
type ConfigurationNode struct {
	ID       string
	Name     string
	Target   int
	Settings BuildSettings
}

// Project is an opened project.pbxproj. The node graph is stored in arenas
// addressed by index; edits are recorded per configuration and spliced into
// the original text on Render so formatting outside changed keys survives.
type Project struct {
	Path           string
	Projects       []ProjectNode
	Targets        []TargetNode
	Configurations []ConfigurationNode

	raw   []byte
	edits map[int]string
}

// pbxDocument mirrors the top level of a project.pbxproj file.
type pbxDocument struct {
	RootObject string                    `plist:"rootObject"`
	Objects    map[string]map[string]any `plist:"objects"`
}

// FindProject returns the project document inside the first *.xcodeproj bundle
// found directly in dir.
func FindProject(dir string) (string, error) {
	bundles, err := filepath.Glob(filepath.Join(dir, projectBundleGlob))
	if err != nil {
		return "", fmt.Errorf("%w: %w", entities.ErrProjectNotFound, err)
	}
	if len(bundles) == 0 {
		return "", fmt.Errorf("%w: no %s in %s", entities.ErrProjectNotFound, projectBundleGlob, dir)
	}
	if len(bundles) > 1 {
		logger.Warnf("[ios] Found %d project bundles in %s, using %s", len(bundles), dir, filepath.Base(bundles[0]))
	}

	path := filepath.Join(bundles[0], projectFileName)
	if _, statErr := os.Stat(path); statErr != nil {
		return "", fmt.Errorf("%w: %w", entities.ErrMissingFile, statErr)
	}
	return path, nil
}

// LoadProject reads and decodes a project document.
func LoadProject(path string) (*Project, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrMissingFile, err)
	}
	return ParseProject(path, raw)
}

// ParseProject decodes raw project text into the node graph.
func ParseProject(path string, raw []byte) (*Project, error) {
	var document pbxDocument
	if _, err := plist.Unmarshal(raw, &document); err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrMalformedProject, err)
	}
	if len(document.Objects) == 0 {
		return nil, fmt.Errorf("%w: document has no objects", entities.ErrMalformedProject)
	}

	project := &Project{Path: path, raw: raw, edits: make(map[int]string)}
	for _, id := range projectIDs(document) {
		if err := project.addProject(document.Objects, id); err != nil {
			return nil, fmt.Errorf("%w: %w", entities.ErrMalformedProject, err)
		}
	}
	return project, nil
}

// projectIDs returns every PBXProject object ID, root object first.
func projectIDs(document pbxDocument) []string {
	var ids []string
	for id, object := range document.Objects {
		if stringField(object, "isa") == "PBXProject" && id != document.RootObject {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	if _, ok := document.Objects[document.RootObject]; ok {
		ids = append([]string{document.RootObject}, ids...)
	}
	return ids
}

func (p *Project) addProject(objects map[string]map[string]any, id string) error {
	projectHandle := len(p.Projects)
	p.Projects = append(p.Projects, ProjectNode{ID: id})

	for _, targetID := range stringsField(objects[id], "targets") {
		targetObject, ok := objects[targetID]
		if !ok {
			return fmt.Errorf("target %s referenced by project %s does not exist", targetID, id)
		}

		targetHandle := len(p.Targets)
		p.Targets = append(p.Targets, TargetNode{
			ID:      targetID,
			Name:    stringField(targetObject, "name"),
			Project: projectHandle,
		})
		p.Projects[projectHandle].Targets = append(p.Projects[projectHandle].Targets, targetHandle)

		listID := stringField(targetObject, "buildConfigurationList")
		if listID == "" {
			continue
		}
		listObject, ok := objects[listID]
		if !ok {
			return fmt.Errorf("configuration list %s of target %s does not exist", listID, targetID)
		}

		for _, configID := range stringsField(listObject, "buildConfigurations") {
			configObject, found := objects[configID]
			if !found {
				return fmt.Errorf("build configuration %s of target %s does not exist", configID, targetID)
			}
			rawSettings, _ := configObject["buildSettings"].(map[string]any)

			configHandle := len(p.Configurations)
			p.Configurations = append(p.Configurations, ConfigurationNode{
				ID:       configID,
				Name:     stringField(configObject, "name"),
				Target:   targetHandle,
				Settings: newBuildSettings(rawSettings),
			})
			p.Targets[targetHandle].Configurations = append(p.Targets[targetHandle].Configurations, configHandle)
		}
	}
	return nil
}

// InfoPlistFiles returns the distinct INFOPLIST_FILE values of every build
// configuration of every target, in discovery order.
func (p *Project) InfoPlistFiles() []string {
	var files []string
	for _, config := range p.Configurations {
		if config.Settings.InfoPlistFile == nil || *config.Settings.InfoPlistFile == "" {
			continue
		}
		if !slices.Contains(files, *config.Settings.InfoPlistFile) {
			files = append(files, *config.Settings.InfoPlistFile)
		}
	}
	return files
}

// ConfigurationsOf returns the configuration handles of every target named name.
func (p *Project) ConfigurationsOf(name string) []int {
	var handles []int
	for _, target := range p.Targets {
		if target.Name == name {
			handles = append(handles, target.Configurations...)
		}
	}
	return handles
}

// SetCurrentProjectVersion stages a new CURRENT_PROJECT_VERSION for a configuration.
func (p *Project) SetCurrentProjectVersion(handle int, value string) {
	p.Configurations[handle].Settings.CurrentProjectVersion = &value
	p.edits[handle] = value
}

// Raw returns the document text as it was loaded.
func (p *Project) Raw() []byte {
	return p.raw
}

// Render returns the document text with every staged edit applied.
func (p *Project) Render() ([]byte, error) {
	if len(p.edits) == 0 {
		return p.raw, nil
	}

	root, err := scanDocument(p.raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrMalformedProject, err)
	}
	objects, err := nestedDictionary(p.raw, root, "objects")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrMalformedProject, err)
	}

	splices := make([]splice, 0, len(p.edits))
	for handle, value := range p.edits {
		config := p.Configurations[handle]
		object, findErr := nestedDictionary(p.raw, objects, config.ID)
		if findErr != nil {
			return nil, fmt.Errorf("%w: %w", entities.ErrMalformedProject, findErr)
		}
		settings, findErr := nestedDictionary(p.raw, object, "buildSettings")
		if findErr != nil {
			return nil, fmt.Errorf("%w: configuration %s: %w", entities.ErrMalformedProject, config.ID, findErr)
		}
		splices = append(splices, setEntry(p.raw, settings, keyCurrentProjectVersion, value))
	}

	return applySplices(p.raw, splices), nil
}

// splice replaces src[start:end] with text.
type splice struct {
	start int
	end   int
	text  string
}

func applySplices(src []byte, splices []splice) []byte {
	sort.Slice(splices, func(i, j int) bool { return splices[i].start > splices[j].start })
	out := slices.Clone(src)
	for _, s := range splices {
		out = slices.Concat(out[:s.start], []byte(s.text), out[s.end:])
	}
	return out
}

// nestedDictionary scans the dictionary value stored under key in parent.
func nestedDictionary(src []byte, parent dictionary, key string) (dictionary, error) {
	e, ok := parent.find(key)
	if !ok {
		return dictionary{}, fmt.Errorf("key %q not found", key)
	}
	if src[e.valueStart] != '{' {
		return dictionary{}, fmt.Errorf("value of %q is not a dictionary", key)
	}
	return scanDictionary(src, e.valueStart)
}

// setEntry replaces the value of key in dict, or inserts a new line for it
// before the first key that sorts after it, matching the indentation of its
// siblings.
func setEntry(src []byte, dict dictionary, key, value string) splice {
	if e, ok := dict.find(key); ok {
		return splice{start: e.valueStart, end: e.valueEnd, text: formatValue(value)}
	}

	line := formatValue(key) + " = " + formatValue(value) + ";"

	if len(dict.entries) == 0 {
		closeLine := lineStart(src, dict.close)
		if closeLine <= dict.open {
			return splice{start: dict.close, end: dict.close, text: " " + line + " "}
		}
		indent := indentAt(src, dict.close) + "\t"
		return splice{start: closeLine, end: closeLine, text: indent + line + "\n"}
	}

	first := dict.entries[0]
	if lineStart(src, first.keyStart) <= dict.open {
		last := dict.entries[len(dict.entries)-1]
		return splice{start: last.end, end: last.end, text: " " + line}
	}

	indent := indentAt(src, first.keyStart)
	for _, e := range dict.entries {
		if strings.Compare(e.key, key) > 0 {
			at := lineStart(src, e.keyStart)
			return splice{start: at, end: at, text: indent + line + "\n"}
		}
	}

	last := dict.entries[len(dict.entries)-1]
	return splice{start: last.end, end: last.end, text: "\n" + indent + line}
}

func stringField(object map[string]any, key string) string {
	s, _ := object[key].(string)
	return s
}

func stringsField(object map[string]any, key string) []string {
	items, _ := object[key].([]any)
	result := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			result = append(result, s)
		}
	}
	return result
}
