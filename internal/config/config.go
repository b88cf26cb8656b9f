package config

import (
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/omm-dev/omm/internal/errors"
)

const (
	// ConfigFileName is the canonical configuration file name.
	ConfigFileName = "omm.json"

	// ConfigFileNameYAML is the YAML alternative.
	ConfigFileNameYAML = "omm.yaml"

	// DefaultPort is the default development server port.
	DefaultPort = 4180

	// DefaultHost is the default development server host.
	DefaultHost = "localhost"

	// DefaultOutput is the default build output directory.
	DefaultOutput = "dist"
)

// Config is the complete project configuration.
type Config struct {
	// Name is the project name.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Inputs are the document globs to compile, relative to the
	// project root.
	Inputs []string `json:"inputs,omitempty" yaml:"inputs,omitempty"`

	// Output is the build output directory.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`

	// Compiler holds tree compiler options.
	Compiler CompilerConfig `json:"compiler,omitempty" yaml:"compiler,omitempty"`

	// Dev holds development server configuration.
	Dev DevConfig `json:"dev,omitempty" yaml:"dev,omitempty"`

	// Build holds production build configuration.
	Build BuildConfig `json:"build,omitempty" yaml:"build,omitempty"`

	// Publish holds S3 publish configuration.
	Publish PublishConfig `json:"publish,omitempty" yaml:"publish,omitempty"`

	// configPath stores the path the config was loaded from.
	configPath string
}

// CompilerConfig holds the compile options expressed in the project file.
type CompilerConfig struct {
	// ClassPrefix is prepended to generated class names.
	ClassPrefix string `json:"classPrefix,omitempty" yaml:"classPrefix,omitempty" validate:"omitempty,printascii,excludesall=0x20"`

	// EscapeText toggles HTML escaping of text content. Defaults to
	// true; set it to false only for fully trusted documents.
	EscapeText *bool `json:"escapeText,omitempty" yaml:"escapeText,omitempty"`

	// ExtraVoidTags extends the built-in void element set.
	ExtraVoidTags []string `json:"extraVoidTags,omitempty" yaml:"extraVoidTags,omitempty" validate:"dive,alphanum"`

	// MaxDepth bounds the tree walk.
	MaxDepth int `json:"maxDepth,omitempty" yaml:"maxDepth,omitempty" validate:"min=0,max=65536"`

	// Pretty enables indented HTML output.
	Pretty bool `json:"pretty,omitempty" yaml:"pretty,omitempty"`
}

// DevConfig holds development server configuration.
type DevConfig struct {
	Host string `json:"host,omitempty" yaml:"host,omitempty" validate:"omitempty,hostname|ip"`
	Port int    `json:"port,omitempty" yaml:"port,omitempty" validate:"min=0,max=65535"`
}

// BuildConfig holds production build configuration.
type BuildConfig struct {
	// Minify enables HTML and CSS minification of the outputs.
	Minify bool `json:"minify,omitempty" yaml:"minify,omitempty"`

	// StylesheetName is the file name of the shared stylesheet.
	StylesheetName string `json:"stylesheetName,omitempty" yaml:"stylesheetName,omitempty"`
}

// PublishConfig holds S3 publish configuration.
type PublishConfig struct {
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region string `json:"region,omitempty" yaml:"region,omitempty"`
}

// New returns a configuration populated with defaults.
func New() *Config {
	return &Config{
		Inputs: []string{"pages/*.json", "pages/*.yaml"},
		Output: DefaultOutput,
		Dev: DevConfig{
			Host: DefaultHost,
			Port: DefaultPort,
		},
		Build: BuildConfig{
			Minify:         true,
			StylesheetName: "styles.css",
		},
	}
}

// Load reads configuration from the specified directory, preferring
// omm.json over omm.yaml.
func Load(dir string) (*Config, error) {
	jsonPath := filepath.Join(dir, ConfigFileName)
	if _, err := os.Stat(jsonPath); err == nil {
		return LoadFile(jsonPath)
	}
	return LoadFile(filepath.Join(dir, ConfigFileNameYAML))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E303").
				WithDetail("No " + filepath.Base(path) + " found in " + filepath.Dir(path)).
				WithSuggestion("Run 'omm init' to create a new project")
		}
		return nil, errors.New("E301").Wrap(err)
	}

	cfg := New()
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("E301").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that the configuration file is well formed")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path as JSON.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("E301").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E301").Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return "."
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in zero values after unmarshalling.
func (c *Config) applyDefaults() {
	if len(c.Inputs) == 0 {
		c.Inputs = []string{"pages/*.json", "pages/*.yaml"}
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
	if c.Dev.Host == "" {
		c.Dev.Host = DefaultHost
	}
	if c.Dev.Port == 0 {
		c.Dev.Port = DefaultPort
	}
	if c.Build.StylesheetName == "" {
		c.Build.StylesheetName = "styles.css"
	}
}

// validate is shared; struct tags carry the rules.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration against its struct-tag rules.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var details []string
		var verrs validator.ValidationErrors
		if stderrors.As(err, &verrs) {
			for _, fe := range verrs {
				details = append(details, fe.Namespace()+" failed rule "+fe.Tag())
			}
		}
		return errors.New("E302").
			WithDetail(strings.Join(details, "; ")).
			Wrap(err)
	}
	return nil
}

// OutputPath returns the absolute output directory.
func (c *Config) OutputPath() string {
	if filepath.IsAbs(c.Output) {
		return c.Output
	}
	return filepath.Join(c.Dir(), c.Output)
}

// DevAddress returns the host:port the dev server listens on.
func (c *Config) DevAddress() string {
	return c.Dev.Host + ":" + itoa(c.Dev.Port)
}

// DevURL returns the browser URL of the dev server.
func (c *Config) DevURL() string {
	return "http://" + c.DevAddress()
}

// Exists reports whether dir carries a project configuration file.
func Exists(dir string) bool {
	for _, name := range []string{ConfigFileName, ConfigFileNameYAML} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up from startDir to the directory containing a
// configuration file.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("E303").
				WithDetail("No omm.json found in " + startDir + " or any parent directory").
				WithSuggestion("Run 'omm init' to create a new project")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration starting from the current
// working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}
	return Load(root)
}

// itoa converts int to string without importing strconv.
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	if n < 0 {
		return "-" + itoa(-n)
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
