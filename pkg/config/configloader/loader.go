// Package configloader builds typed configuration from a yaml file, a .env file and the environment.
package configloader

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Validator interface {
	Validate() error
}

const (
	DefaultConfigFile = "config.yaml"
	DefaultEnvFile    = ".env"
)

// Source describes where configuration is read from.
// Empty fields fall back to DefaultConfigFile and DefaultEnvFile.
type Source struct {
	AppName    string
	ConfigFile string
	EnvFile    string
}

// EnvPrefix returns the prefix environment variables must carry, e.g. STOREFRONT_.
func (s Source) EnvPrefix() string {
	return fmt.Sprintf("%s_", strings.ToUpper(s.AppName))
}

// Load reads the configuration in increasing priority:
// yaml file, .env file, process environment. The result is validated before it is returned.
func Load[T Validator](src Source) (T, error) {
	var cfg T
	k := koanf.New(".")

	configFile := src.ConfigFile
	if configFile == "" {
		configFile = DefaultConfigFile
	}
	envFile := src.EnvFile
	if envFile == "" {
		envFile = DefaultEnvFile
	}
	envPrefix := src.EnvPrefix()

	// 1. Load configuration from yaml file
	if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("WARN: error loading YAML config file '%s': %v", configFile, err)
		}
	}

	// 2. Load environment variables from .env file
	envTransformer := keyTransformer(envPrefix)
	if envFileMap, err := godotenv.Read(envFile); err == nil {
		envMap := make(map[string]any)
		for key, value := range envFileMap {
			if !strings.HasPrefix(strings.ToUpper(key), envPrefix) {
				continue
			}
			envMap[envTransformer(key)] = value
		}
		if err := k.Load(confmap.Provider(envMap, "."), nil); err != nil {
			log.Printf("WARN: error loading .env config: %v", err)
		}
	} else if !os.IsNotExist(err) {
		log.Printf("WARN: error reading .env file: %v", err)
	}

	// 3. Load environment variables from the system, the highest priority
	if err := k.Load(env.Provider(envPrefix, ".", envTransformer), nil); err != nil {
		log.Printf("WARN: error loading system env vars: %v", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("error unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// keyTransformer maps STOREFRONT_SERVER_PORT to server.port.
func keyTransformer(envPrefix string) func(string) string {
	prefix := strings.ToLower(envPrefix)
	return func(key string) string {
		key = strings.ToLower(key)
		key = strings.TrimPrefix(key, prefix)
		return strings.ReplaceAll(key, "_", ".")
	}
}
