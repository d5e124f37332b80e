package registry

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// EndpointConfig represents configuration for a sampler endpoint
type EndpointConfig struct {
	Name      string        `json:"name" yaml:"name"`                                    // "hybrid-v2", "exact"
	BaseURL   string        `json:"base_url" yaml:"base_url"`                            // sampler service root
	APIKeyEnv string        `json:"api_key_env,omitempty" yaml:"api_key_env,omitempty"`  // env var holding the token
	MaxRPM    int           `json:"max_rpm,omitempty" yaml:"max_rpm,omitempty"`          // submissions per minute
	Timeout   time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`          // per-submission deadline
	NumReads  int           `json:"num_reads,omitempty" yaml:"num_reads,omitempty"`      // default ranked samples
	Tags      []string      `json:"tags,omitempty" yaml:"tags,omitempty"`                // routing hints: hybrid, qpu, test
}

// endpointConfigYAML mirrors EndpointConfig with the timeout as a string,
// so profiles can say "45s" instead of nanoseconds.
type endpointConfigYAML struct {
	Name      string   `yaml:"name"`
	BaseURL   string   `yaml:"base_url"`
	APIKeyEnv string   `yaml:"api_key_env"`
	MaxRPM    int      `yaml:"max_rpm"`
	Timeout   string   `yaml:"timeout"`
	NumReads  int      `yaml:"num_reads"`
	Tags      []string `yaml:"tags"`
}

// UnmarshalYAML implements yaml.Unmarshaler
func (e *EndpointConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw endpointConfigYAML
	if err := value.Decode(&raw); err != nil {
		return err
	}

	*e = EndpointConfig{
		Name:      raw.Name,
		BaseURL:   raw.BaseURL,
		APIKeyEnv: raw.APIKeyEnv,
		MaxRPM:    raw.MaxRPM,
		NumReads:  raw.NumReads,
		Tags:      raw.Tags,
	}
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("endpoint %s: invalid timeout %q: %w", raw.Name, raw.Timeout, err)
		}
		e.Timeout = d
	}
	return nil
}

// Registry represents the sampler endpoint registry
type Registry struct {
	Endpoints []EndpointConfig `json:"endpoints" yaml:"endpoints"`
}

// GetEndpointByName returns an endpoint configuration by name
func (r *Registry) GetEndpointByName(name string) *EndpointConfig {
	for _, ep := range r.Endpoints {
		if ep.Name == name {
			return &ep
		}
	}
	return nil
}

// GetEndpointsByTag returns all endpoints with a specific tag
func (r *Registry) GetEndpointsByTag(tag string) []EndpointConfig {
	var eps []EndpointConfig
	for _, ep := range r.Endpoints {
		for _, epTag := range ep.Tags {
			if epTag == tag {
				eps = append(eps, ep)
				break
			}
		}
	}
	return eps
}
