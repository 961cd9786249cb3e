package entities

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	logger "github.com/sirupsen/logrus"
	"github.com/zclconf/go-cty/cty"
	"gopkg.in/yaml.v3"
)

// Settings is the on-disk configuration for mobileversion. Every field mirrors
// a command line flag; flags given explicitly win over file values.
type Settings struct {
	Android             string   `yaml:"android"`
	IOS                 string   `yaml:"ios"`
	Targets             []string `yaml:"target"`
	ResetBuild          bool     `yaml:"reset_build"`
	SetBuild            *int     `yaml:"set_build"`
	GenerateBuild       bool     `yaml:"generate_build"`
	IncrementBuild      bool     `yaml:"increment_build"`
	NeverIncrementBuild bool     `yaml:"never_increment_build"`
	Amend               bool     `yaml:"amend"`
	SkipTag             bool     `yaml:"skip_tag"`
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// NewSettings reads and parses a configuration file. Files ending in .hcl are
// decoded as HCL attributes, everything else as YAML.
func NewSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var settings *Settings
	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		settings, err = decodeHCLSettings(data, path)
	} else {
		settings, err = decodeYAMLSettings(data)
	}
	if err != nil {
		return nil, err
	}

	settings.Android = expandEnv(settings.Android)
	settings.IOS = expandEnv(settings.IOS)

	if validateErr := validateSettings(settings); validateErr != nil {
		return nil, validateErr
	}
	return settings, nil
}

// FindConfigFile searches dir and dir/.config for a configuration file.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile(dir string) (string, error) {
	locations := []string{dir, filepath.Join(dir, ".config")}
	patterns := []string{
		".mobileversion.yaml",
		".mobileversion.yml",
		"mobileversion.yaml",
		"mobileversion.yml",
		".mobileversion.hcl",
		"mobileversion.hcl",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// ApplyTo copies the configured values onto opts and returns the result.
func (s *Settings) ApplyTo(opts SyncOptions) (SyncOptions, error) {
	if s.Android != "" {
		opts.AndroidPath = s.Android
	}
	if s.IOS != "" {
		opts.IOSPath = s.IOS
	}
	if len(s.Targets) > 0 {
		targets, err := ParsePlatforms(strings.Join(s.Targets, ","))
		if err != nil {
			return opts, err
		}
		opts.Targets = targets
	}
	if s.SetBuild != nil {
		value := *s.SetBuild
		opts.SetBuild = &value
	}
	opts.ResetBuild = opts.ResetBuild || s.ResetBuild
	opts.GenerateBuild = opts.GenerateBuild || s.GenerateBuild
	opts.IncrementBuild = opts.IncrementBuild || s.IncrementBuild
	opts.NeverIncrementBuild = opts.NeverIncrementBuild || s.NeverIncrementBuild
	opts.Amend = opts.Amend || s.Amend
	opts.SkipTag = opts.SkipTag || s.SkipTag
	return opts, nil
}

func decodeYAMLSettings(data []byte) (*Settings, error) {
	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return &settings, nil
}

// decodeHCLSettings evaluates the top-level attributes of an HCL file without
// variables or functions.
func decodeHCLSettings(data []byte, path string) (*Settings, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file: %w", diags)
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file: %w", diags)
	}

	var settings Settings
	for name, attr := range attrs {
		value, valueDiags := attr.Expr.Value(&hcl.EvalContext{})
		if valueDiags.HasErrors() {
			return nil, fmt.Errorf("config attribute %q: %w", name, valueDiags)
		}
		if value.IsNull() {
			continue
		}
		if err := settings.setHCLAttribute(name, value); err != nil {
			return nil, fmt.Errorf("config attribute %q: %w", name, err)
		}
	}
	return &settings, nil
}

func (s *Settings) setHCLAttribute(name string, value cty.Value) error {
	var err error
	switch name {
	case "android":
		s.Android, err = ctyString(value)
	case "ios":
		s.IOS, err = ctyString(value)
	case "target":
		s.Targets, err = ctyStrings(value)
	case "reset_build":
		s.ResetBuild, err = ctyBool(value)
	case "set_build":
		var n int
		n, err = ctyInt(value)
		s.SetBuild = &n
	case "generate_build":
		s.GenerateBuild, err = ctyBool(value)
	case "increment_build":
		s.IncrementBuild, err = ctyBool(value)
	case "never_increment_build":
		s.NeverIncrementBuild, err = ctyBool(value)
	case "amend":
		s.Amend, err = ctyBool(value)
	case "skip_tag":
		s.SkipTag, err = ctyBool(value)
	default:
		logger.Warnf("Ignoring unknown config attribute %q", name)
	}
	return err
}

func ctyString(value cty.Value) (string, error) {
	if value.Type() != cty.String {
		return "", fmt.Errorf("expected a string, got %s", value.Type().FriendlyName())
	}
	return value.AsString(), nil
}

func ctyBool(value cty.Value) (bool, error) {
	if value.Type() != cty.Bool {
		return false, fmt.Errorf("expected a bool, got %s", value.Type().FriendlyName())
	}
	return value.True(), nil
}

func ctyInt(value cty.Value) (int, error) {
	if value.Type() != cty.Number {
		return 0, fmt.Errorf("expected a number, got %s", value.Type().FriendlyName())
	}
	n, accuracy := value.AsBigFloat().Int64()
	if accuracy != big.Exact {
		return 0, fmt.Errorf("expected a whole number, got %s", value.AsBigFloat().String())
	}
	return int(n), nil
}

// ctyStrings accepts either a single string or a list/tuple of strings.
func ctyStrings(value cty.Value) ([]string, error) {
	if value.Type() == cty.String {
		return []string{value.AsString()}, nil
	}
	if !value.Type().IsTupleType() && !value.Type().IsListType() {
		return nil, fmt.Errorf("expected a list of strings, got %s", value.Type().FriendlyName())
	}

	var result []string
	for it := value.ElementIterator(); it.Next(); {
		_, element := it.Element()
		s, err := ctyString(element)
		if err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, nil
}

// expandEnv replaces ${VAR} references with their environment values.
func expandEnv(raw string) string {
	if raw == "" {
		return raw
	}
	return envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})
}

// validateSettings checks for invalid configuration values.
func validateSettings(settings *Settings) error {
	if settings.SetBuild != nil && *settings.SetBuild < 0 {
		return fmt.Errorf("set_build must not be negative, got %d", *settings.SetBuild)
	}
	if _, err := ParsePlatforms(strings.Join(settings.Targets, ",")); err != nil {
		return err
	}
	return nil
}
