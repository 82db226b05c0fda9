// Package config loads runtime settings from the environment and an
// optional YAML file.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// Transport modes.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// FileEnv names the optional YAML config file.
const FileEnv = "HEALTHMCP_CONFIG"

// ErrMissingConfig is returned when a required setting is absent.
var ErrMissingConfig = errors.New("missing required configuration")

type Config struct {
	Drive struct {
		FileID          string        `yaml:"fileId" validate:"required"`
		CredentialsPath string        `yaml:"credentialsPath" validate:"required"`
		Timeout         time.Duration `yaml:"timeout" validate:"gt=0"`
	} `yaml:"drive"`

	Server struct {
		Transport        string `yaml:"transport" validate:"oneof=stdio http"`
		Port             int    `yaml:"port" validate:"min=1,max=65535"`
		EndpointPath     string `yaml:"endpointPath" validate:"startswith=/"`
		CORSAllowOrigins string `yaml:"corsAllowOrigins"`
	} `yaml:"server"`

	Log struct {
		Mode  string `yaml:"mode"`
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// envKeys maps environment variables to config paths.
var envKeys = map[string]string{
	"GOOGLE_DRIVE_FILE_ID":    "drive.fileId",
	"GOOGLE_CREDENTIALS_PATH": "drive.credentialsPath",
	"DRIVE_TIMEOUT":           "drive.timeout",
	"MCP_TRANSPORT":           "server.transport",
	"PORT":                    "server.port",
	"MCP_ENDPOINT_PATH":       "server.endpointPath",
	"CORS_ALLOW_ORIGINS":      "server.corsAllowOrigins",
	"LOG_MODE":                "log.mode",
	"LOG_LEVEL":               "log.level",
}

// fieldEnv maps validator namespaces back to the variable that sets them.
var fieldEnv = map[string]string{
	"Config.Drive.FileID":          "GOOGLE_DRIVE_FILE_ID",
	"Config.Drive.CredentialsPath": "GOOGLE_CREDENTIALS_PATH",
	"Config.Drive.Timeout":         "DRIVE_TIMEOUT",
	"Config.Server.Transport":      "MCP_TRANSPORT",
	"Config.Server.Port":           "PORT",
	"Config.Server.EndpointPath":   "MCP_ENDPOINT_PATH",
}

// Defaults returns a Config with every optional setting filled in.
func Defaults() *Config {
	cfg := &Config{}
	cfg.Drive.Timeout = 60 * time.Second
	cfg.Server.Transport = TransportStdio
	cfg.Server.Port = 3000
	cfg.Server.EndpointPath = "/mcp"
	cfg.Server.CORSAllowOrigins = "*"
	cfg.Log.Mode = "development"
	cfg.Log.Level = "info"
	return cfg
}

// Load reads configuration from the process environment.
func Load() (*Config, error) {
	return LoadFrom(os.Environ)
}

// LoadFrom reads configuration from the given environment source.
// Values from the YAML file named by HEALTHMCP_CONFIG are overridden by
// environment variables. The result is validated.
func LoadFrom(environ func() []string) (*Config, error) {
	k := koanf.New(".")

	if path := lookup(environ, FileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "read config file %s failed", path)
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		EnvironFunc: environ,
		TransformFunc: func(key, value string) (string, any) {
			path, ok := envKeys[key]
			if !ok || strings.TrimSpace(value) == "" {
				return "", nil
			}
			return path, strings.TrimSpace(value)
		},
	}), nil); err != nil {
		return nil, errors.Wrap(err, "load env variables failed")
	}

	cfg := Defaults()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
			MatchName: func(mapKey, fieldName string) bool {
				return strings.EqualFold(mapKey, fieldName)
			},
		},
	}); err != nil {
		return nil, errors.Wrap(err, "unmarshal config failed")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks required settings and value ranges. A missing
// required setting is reported as ErrMissingConfig naming its variable.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errors.Wrap(err, "validate config")
	}

	fe := verrs[0]
	name, ok := fieldEnv[fe.Namespace()]
	if !ok {
		name = fe.Namespace()
	}
	if fe.Tag() == "required" {
		return errors.Wrapf(ErrMissingConfig, "environment variable %s is not set", name)
	}
	return errors.Errorf("invalid %s: %v", name, fe.Value())
}

// AllowOrigins splits the CORS origin list.
func (c *Config) AllowOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.Server.CORSAllowOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

func lookup(environ func() []string, key string) string {
	for _, kv := range environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k == key {
			return v
		}
	}
	return ""
}
