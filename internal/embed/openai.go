package embed

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/ppiankov/claimlens/internal/fault"
	"github.com/ppiankov/claimlens/internal/model"
)

// maxCallTimeout is the hard ceiling for one embedding call regardless of
// configuration. Long-running upstream work is bounded, never retried.
const maxCallTimeout = 5 * time.Minute

// OpenAIEmbedder implements Embedder over the OpenAI embeddings API
type OpenAIEmbedder struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	limiter *rate.Limiter
}

// NewOpenAIEmbedder creates an embedder from config. The API key is
// required; base URL and proxy are optional.
func NewOpenAIEmbedder(cfg model.EmbeddingConfig) (*OpenAIEmbedder, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPProxy != "" || cfg.HTTPSProxy != "" {
		clientConfig.HTTPClient = &http.Client{
			Transport: &http.Transport{Proxy: proxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy)},
		}
	}

	embModel := cfg.Model
	if embModel == "" {
		embModel = string(openai.SmallEmbedding3)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if timeout > maxCallTimeout {
		timeout = maxCallTimeout
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 5
	}

	return &OpenAIEmbedder{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   embModel,
		timeout: timeout,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}, nil
}

// Model returns the embedding model name.
func (e *OpenAIEmbedder) Model() string {
	return e.model
}

// Embed computes the embedding for one text, bounded by the configured
// timeout and client-side rate limit. Deadline overruns report as
// fault.Timeout, everything else as fault.UpstreamUnavailable.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fault.Wrap(fault.Timeout, err, "rate limit wait")
	}

	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	resp, err := e.client.CreateEmbeddings(callCtx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fault.Wrap(fault.Timeout, err, "embedding call exceeded %v", e.timeout)
		}
		return nil, fault.Wrap(fault.UpstreamUnavailable, err, "embedding API")
	}

	if len(resp.Data) == 0 {
		return nil, fault.New(fault.UpstreamUnavailable, "embedding API returned no data")
	}
	return resp.Data[0].Embedding, nil
}

// proxyFunc builds a per-scheme proxy selector, falling back to the
// environment when unset.
func proxyFunc(httpProxy, httpsProxy string) func(*http.Request) (*url.URL, error) {
	return func(req *http.Request) (*url.URL, error) {
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
