package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Loader handles loading sampler endpoint configurations
type Loader struct {
	configPath string
}

// NewLoader creates a new configuration loader
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath: configPath,
	}
}

// LoadRegistry loads the endpoint registry from a YAML configuration file
func (l *Loader) LoadRegistry() (*Registry, error) {
	// Check if config path is provided via environment
	if configPath := os.Getenv("SAMPLER_REGISTRY"); configPath != "" {
		l.configPath = configPath
	}

	// Use default config if none provided
	if l.configPath == "" {
		l.configPath = "samplers.yaml"
	}

	// Return an empty registry if no config file exists
	if _, err := os.Stat(l.configPath); os.IsNotExist(err) {
		return &Registry{Endpoints: []EndpointConfig{}}, nil
	}

	data, err := os.ReadFile(l.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", l.configPath, err)
	}

	return LoadRegistryFromBytes(data)
}

// LoadRegistryFromBytes loads a registry from byte data
func LoadRegistryFromBytes(data []byte) (*Registry, error) {
	var registry Registry
	if err := yaml.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	return &registry, nil
}
