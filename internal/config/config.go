package config

import (
	"bytes"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/devconsole/liststate/internal/errors"
	"github.com/devconsole/liststate/pkg/liststate"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "liststate.json"

	// DefaultPort is the default inspector server port.
	DefaultPort = 8080

	// DefaultHost is the default inspector server host.
	DefaultHost = "localhost"

	// DefaultCacheSize is the default number of memoized reads.
	DefaultCacheSize = 128

	// DefaultWriteTimeout is the default websocket frame write timeout.
	DefaultWriteTimeout = "10s"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "liststate"

	// DefaultTracerName is the default OpenTelemetry tracer name.
	DefaultTracerName = "liststate"
)

// ConfigFileNames are the file names Load looks for, in order.
var ConfigFileNames = []string{
	ConfigFileName,
	"liststate.jsonc",
	"liststate.yaml",
	"liststate.yml",
	"liststate.toml",
}

// Config represents the complete liststate configuration.
type Config struct {
	// Resources overrides the page size and base path per resource,
	// keyed by resource name ("devices", "releases", ...).
	Resources map[string]ResourceConfig `json:"resources,omitempty" yaml:"resources,omitempty" toml:"resources,omitempty"`

	// Server contains inspector server configuration.
	Server ServerConfig `json:"server" yaml:"server" toml:"server"`

	// Cache contains read memoization configuration.
	Cache CacheConfig `json:"cache" yaml:"cache" toml:"cache"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics" toml:"metrics"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing" yaml:"tracing" toml:"tracing"`

	configPath string
	remote     bool
}

// ResourceConfig overrides the defaults of one resource.
type ResourceConfig struct {
	// PerPage is the default page size. Zero keeps the built-in default.
	PerPage int `json:"perPage,omitempty" yaml:"perPage,omitempty" toml:"perPage,omitempty"`

	// BasePath is the resource's root route.
	BasePath string `json:"basePath,omitempty" yaml:"basePath,omitempty" toml:"basePath,omitempty"`
}

// ServerConfig contains inspector server settings.
type ServerConfig struct {
	Host string `json:"host,omitempty" yaml:"host,omitempty" toml:"host,omitempty"`
	Port int    `json:"port,omitempty" yaml:"port,omitempty" toml:"port,omitempty"`

	// ReadBufferSize and WriteBufferSize size websocket buffers.
	ReadBufferSize  int `json:"readBufferSize,omitempty" yaml:"readBufferSize,omitempty" toml:"readBufferSize,omitempty"`
	WriteBufferSize int `json:"writeBufferSize,omitempty" yaml:"writeBufferSize,omitempty" toml:"writeBufferSize,omitempty"`

	// MaxMessageSize limits client websocket frames in bytes.
	MaxMessageSize int64 `json:"maxMessageSize,omitempty" yaml:"maxMessageSize,omitempty" toml:"maxMessageSize,omitempty"`

	// WriteTimeout bounds websocket frame writes (e.g., "10s").
	WriteTimeout string `json:"writeTimeout,omitempty" yaml:"writeTimeout,omitempty" toml:"writeTimeout,omitempty"`

	// AllowedOrigins are accepted websocket origins. Empty means
	// same-origin only.
	AllowedOrigins []string `json:"allowedOrigins,omitempty" yaml:"allowedOrigins,omitempty" toml:"allowedOrigins,omitempty"`
}

// CacheConfig contains read memoization settings.
type CacheConfig struct {
	// Size is the number of memoized reads.
	Size int `json:"size,omitempty" yaml:"size,omitempty" toml:"size,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled" toml:"enabled"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty" toml:"namespace,omitempty"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	Enabled    bool   `json:"enabled" yaml:"enabled" toml:"enabled"`
	TracerName string `json:"tracerName,omitempty" yaml:"tracerName,omitempty" toml:"tracerName,omitempty"`

	// TraceReads emits a span for every read.
	TraceReads bool `json:"traceReads,omitempty" yaml:"traceReads,omitempty" toml:"traceReads,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            DefaultHost,
			Port:            DefaultPort,
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			MaxMessageSize:  8 * 1024,
			WriteTimeout:    DefaultWriteTimeout,
		},
		Cache: CacheConfig{
			Size: DefaultCacheSize,
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: DefaultNamespace,
		},
		Tracing: TracingConfig{
			TracerName: DefaultTracerName,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for the names in ConfigFileNames, in order.
func Load(dir string) (*Config, error) {
	for _, name := range ConfigFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return nil, errors.New("E141").
		WithDetail("No liststate config found in " + dir).
		WithSuggestion("Create " + ConfigFileName + " or pass --config")
}

// format is a supported configuration file format.
type format int

const (
	formatJSON format = iota
	formatYAML
	formatTOML
)

func (f format) String() string {
	switch f {
	case formatYAML:
		return "YAML"
	case formatTOML:
		return "TOML"
	}
	return "JSON"
}

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return formatJSON, nil
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".toml":
		return formatTOML, nil
	}
	return 0, errors.New("E121").
		WithDetail("Unsupported config file " + filepath.Base(path)).
		WithSuggestion("Use a .json, .jsonc, .yaml, .yml or .toml file")
}

// LoadFile reads configuration from the specified file path. The format
// follows the file extension.
func LoadFile(path string) (*Config, error) {
	f, err := formatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E141").
				WithDetail("No " + filepath.Base(path) + " found in " + filepath.Dir(path)).
				WithSuggestion("Create " + ConfigFileName + " or pass --config")
		}
		return nil, errors.New("E120").Wrap(err)
	}

	cfg := New()
	if err := decode(f, data, cfg); err != nil {
		return nil, errors.New("E120").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check that " + filepath.Base(path) + " is valid " + f.String())
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

func decode(f format, data []byte, cfg *Config) error {
	switch f {
	case formatYAML:
		return yaml.Unmarshal(data, cfg)
	case formatTOML:
		return toml.Unmarshal(data, cfg)
	}
	// JSON configs may carry comments and trailing commas.
	return json.Unmarshal(jsonc.ToJSON(data), cfg)
}

func encode(f format, cfg *Config) ([]byte, error) {
	switch f {
	case formatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case formatTOML:
		return toml.Marshal(cfg)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, err
	}
	// Add newline at end of file
	return append(data, '\n'), nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	if c.remote {
		return errors.New("E121").
			WithDetail("Cannot save config loaded from " + c.configPath).
			WithSuggestion("Use SaveTo with a local path")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path, in the format of
// its extension.
func (c *Config) SaveTo(path string) error {
	f, err := formatOf(path)
	if err != nil {
		return err
	}
	data, err := encode(f, c)
	if err != nil {
		return errors.New("E120").Wrap(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E120").Wrap(err)
	}

	c.configPath = path
	c.remote = false
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" || c.remote {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	def := New()

	// Server
	if c.Server.Host == "" {
		c.Server.Host = def.Server.Host
	}
	if c.Server.Port == 0 {
		c.Server.Port = def.Server.Port
	}
	if c.Server.ReadBufferSize == 0 {
		c.Server.ReadBufferSize = def.Server.ReadBufferSize
	}
	if c.Server.WriteBufferSize == 0 {
		c.Server.WriteBufferSize = def.Server.WriteBufferSize
	}
	if c.Server.MaxMessageSize == 0 {
		c.Server.MaxMessageSize = def.Server.MaxMessageSize
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = def.Server.WriteTimeout
	}

	// Cache
	if c.Cache.Size == 0 {
		c.Cache.Size = def.Cache.Size
	}

	// Observability
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = def.Metrics.Namespace
	}
	if c.Tracing.TracerName == "" {
		c.Tracing.TracerName = def.Tracing.TracerName
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.New("E122").
			WithDetail("Port must be between 0 and 65535")
	}
	if c.Cache.Size < 0 {
		return errors.New("E122").
			WithDetail("Cache size must not be negative")
	}
	if _, err := time.ParseDuration(c.Server.WriteTimeout); c.Server.WriteTimeout != "" && err != nil {
		return errors.New("E122").
			WithDetail("Invalid server.writeTimeout " + strconv.Quote(c.Server.WriteTimeout)).
			WithSuggestion("Use a Go duration such as \"10s\"")
	}

	for _, name := range c.resourceNames() {
		if _, err := liststate.ParseKind(name); err != nil {
			return errors.New("E122").
				WithDetail("Unknown resource " + strconv.Quote(name)).
				WithSuggestion("Known resources: " + knownResources())
		}
		rc := c.Resources[name]
		if rc.PerPage < 0 {
			return errors.New("E122").
				WithDetail("resources." + name + ".perPage must not be negative")
		}
		if rc.BasePath != "" && !strings.HasPrefix(rc.BasePath, "/") {
			return errors.New("E122").
				WithDetail("resources." + name + ".basePath must start with /")
		}
	}
	return nil
}

func (c *Config) resourceNames() []string {
	names := make([]string, 0, len(c.Resources))
	for name := range c.Resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func knownResources() string {
	kinds := liststate.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}

// Defaults returns the per-resource defaults: the built-in defaults with
// the configured overrides applied. Unknown resource names are ignored;
// Validate reports them.
func (c *Config) Defaults() liststate.Defaults {
	d := liststate.BuiltinDefaults()
	for name, rc := range c.Resources {
		k, err := liststate.ParseKind(name)
		if err != nil {
			continue
		}
		rd := d[k]
		if rc.PerPage > 0 {
			rd.PerPage = rc.PerPage
		}
		if rc.BasePath != "" {
			rd.BasePath = rc.BasePath
		}
		d[k] = rd
	}
	return d
}

// Addr returns the listen address of the inspector server.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// WriteTimeout returns the parsed websocket write timeout, falling back to
// DefaultWriteTimeout.
func (c *Config) WriteTimeout() time.Duration {
	if d, err := time.ParseDuration(c.Server.WriteTimeout); err == nil && d > 0 {
		return d
	}
	d, _ := time.ParseDuration(DefaultWriteTimeout)
	return d
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range ConfigFileNames {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing a config file, or an error if not found.
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
			return "", errors.New("E141").
				WithDetail("No liststate config found in " + startDir + " or any parent directory").
				WithSuggestion("Create " + ConfigFileName + " or pass --config")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory
// or its nearest parent that has one.
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
