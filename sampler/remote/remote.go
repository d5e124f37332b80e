// Package remote implements core.Sampler against a hosted hybrid sampler
// service. The service accepts a binary quadratic model as JSON and
// returns assignments ranked by energy. Submissions are metered by a
// per-endpoint rate limiter and guarded by a circuit breaker; transport
// and service errors propagate to the caller unchanged, wrapped with
// context only.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/annealworks/qknap/core"
	"github.com/annealworks/qknap/pkg/limiter"
	"github.com/annealworks/qknap/pkg/logging"
	"github.com/annealworks/qknap/pkg/registry"
)

// DefaultTimeout bounds one submission round trip when the endpoint
// profile does not set one.
const DefaultTimeout = 60 * time.Second

// Sampler submits models to a remote sampler endpoint.
type Sampler struct {
	client   *http.Client
	endpoint registry.EndpointConfig
	apiKey   string
	breakers *limiter.CircuitBreakerManager
	limits   *limiter.RateLimiter
	logger   *logging.Logger
}

// problemRequest is the wire format of one submission. Variables are
// identified by their wire names ("x0", "y1").
type problemRequest struct {
	Label     string             `json:"label,omitempty"`
	NumReads  int                `json:"num_reads"`
	Linear    map[string]float64 `json:"linear"`
	Quadratic []quadraticTerm    `json:"quadratic"`
	Offset    float64            `json:"offset,omitempty"`
}

type quadraticTerm struct {
	U    string  `json:"u"`
	V    string  `json:"v"`
	Bias float64 `json:"bias"`
}

// sampleResponse is the ranked result list returned by the service.
type sampleResponse struct {
	Samples []wireSample `json:"samples"`
}

type wireSample struct {
	Assignment map[string]int `json:"assignment"`
	Energy     float64        `json:"energy"`
}

// New creates a remote sampler from an endpoint profile. The API token is
// read from the environment variable the profile names; breakers and
// limits may be shared across samplers.
func New(endpoint registry.EndpointConfig, breakers *limiter.CircuitBreakerManager, limits *limiter.RateLimiter) *Sampler {
	timeout := endpoint.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	var apiKey string
	if endpoint.APIKeyEnv != "" {
		apiKey = os.Getenv(endpoint.APIKeyEnv)
	}

	if breakers == nil {
		breakers = limiter.NewCircuitBreakerManager()
	}
	if limits == nil {
		limits = limiter.NewRateLimiter()
	}

	return &Sampler{
		client:   &http.Client{Timeout: timeout},
		endpoint: endpoint,
		apiKey:   apiKey,
		breakers: breakers,
		limits:   limits,
	}
}

// WithLogger attaches a structured logger for per-submission logging and
// circuit breaker state changes.
func (s *Sampler) WithLogger(l *logging.Logger) *Sampler {
	s.logger = l
	s.breakers.OnStateChange(func(endpoint, from, to string) {
		l.LogCircuitBreaker(context.Background(), endpoint, to)
	})
	return s
}

// Name implements core.Sampler.
func (s *Sampler) Name() string { return s.endpoint.Name }

// Sample implements core.Sampler: it encodes the model, POSTs it to the
// endpoint, and converts the ranked response back into typed samples.
func (s *Sampler) Sample(ctx context.Context, m *core.Model, p core.SampleParams) (core.SampleSet, error) {
	if err := s.limits.Wait(ctx, s.endpoint); err != nil {
		return nil, err
	}

	body, err := json.Marshal(s.encode(m, p))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal problem: %w", err)
	}

	start := time.Now()
	result, err := s.breakers.Execute(ctx, s.endpoint, func() (interface{}, error) {
		return s.submit(ctx, body)
	})
	if s.logger != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		s.logger.LogSampleRequest(ctx, s.endpoint.Name, p.Label, status, time.Since(start), m.NumVariables(), s.numReads(p))
	}
	if err != nil {
		return nil, err
	}

	return s.decode(result.(*sampleResponse))
}

// numReads resolves the per-call read count against the endpoint default.
func (s *Sampler) numReads(p core.SampleParams) int {
	if p.NumReads > 0 {
		return p.NumReads
	}
	return s.endpoint.NumReads
}

// encode converts the model into the wire format.
func (s *Sampler) encode(m *core.Model, p core.SampleParams) problemRequest {
	req := problemRequest{
		Label:    p.Label,
		NumReads: s.numReads(p),
		Linear:   make(map[string]float64, m.NumVariables()),
		Offset:   m.Offset(),
	}
	for _, v := range m.Variables() {
		req.Linear[v.String()] = m.Linear(v)
	}
	for _, pair := range m.Pairs() {
		req.Quadratic = append(req.Quadratic, quadraticTerm{
			U:    pair.A.String(),
			V:    pair.B.String(),
			Bias: m.Quadratic(pair.A, pair.B),
		})
	}
	return req
}

// submit performs one HTTP round trip.
func (s *Sampler) submit(ctx context.Context, body []byte) (*sampleResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint.BaseURL+"/v1/problems", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("sampler request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("sampler %s returned status %d: %s", s.endpoint.Name, resp.StatusCode, bytes.TrimSpace(detail))
	}

	var wire sampleResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, fmt.Errorf("failed to decode sampler response: %w", err)
	}
	return &wire, nil
}

// decode converts wire samples into typed samples, enforcing the
// variable-name and binary-value contract.
func (s *Sampler) decode(wire *sampleResponse) (core.SampleSet, error) {
	set := make(core.SampleSet, 0, len(wire.Samples))
	for _, ws := range wire.Samples {
		assignment := make(map[core.Variable]int8, len(ws.Assignment))
		for name, value := range ws.Assignment {
			v, err := core.ParseVariable(name)
			if err != nil {
				return nil, err
			}
			if value != 0 && value != 1 {
				return nil, fmt.Errorf("%w: variable %s has non-binary value %d", core.ErrMalformedSolution, name, value)
			}
			assignment[v] = int8(value)
		}
		set = append(set, core.Sample{Assignment: assignment, Energy: ws.Energy})
	}

	set.Sort()
	return set, nil
}
