package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadRegistryFromBytes(t *testing.T) {
	data := []byte(`
endpoints:
  - name: hybrid-v2
    base_url: https://sampler.example.com
    api_key_env: SAMPLER_API_TOKEN
    max_rpm: 60
    timeout: 45s
    num_reads: 100
    tags: [hybrid]
  - name: staging
    base_url: http://localhost:9090
    tags: [test]
`)

	reg, err := LoadRegistryFromBytes(data)
	require.NoError(t, err)
	require.Len(t, reg.Endpoints, 2)

	ep := reg.GetEndpointByName("hybrid-v2")
	require.NotNil(t, ep)
	require.Equal(t, "https://sampler.example.com", ep.BaseURL)
	require.Equal(t, 45*time.Second, ep.Timeout)
	require.Equal(t, 100, ep.NumReads)

	require.Nil(t, reg.GetEndpointByName("missing"))
	require.Len(t, reg.GetEndpointsByTag("test"), 1)
}

func TestLoadRegistryFromBytesInvalid(t *testing.T) {
	_, err := LoadRegistryFromBytes([]byte("endpoints: {not: [valid"))
	require.Error(t, err)
}

func TestLoadRegistryInvalidTimeout(t *testing.T) {
	data := []byte("endpoints:\n  - name: bad\n    timeout: soon\n")
	_, err := LoadRegistryFromBytes(data)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid timeout")
}
