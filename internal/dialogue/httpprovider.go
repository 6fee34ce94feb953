package dialogue

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
)

// HTTPProvider calls an external LLM completion endpoint over plain HTTP,
// the same http.Client-with-timeout shape the teacher's Gamma API client
// uses, pointed at a chat-completion-style JSON endpoint instead.
type HTTPProvider struct {
	endpoint   string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewHTTPProvider builds a provider against endpoint, authenticating with
// apiKey (sent as a Bearer token) and requesting completions from model.
func NewHTTPProvider(endpoint, apiKey, model string, timeout time.Duration) *HTTPProvider {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &HTTPProvider{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type completionRequest struct {
	Model        string `json:"model"`
	Language     string `json:"language"`
	Tactic       string `json:"tactic"`
	Sentiment    string `json:"sentiment"`
	CounterPrice int64  `json:"counter_price"`
	AnchorPrice  int64  `json:"anchor_price"`
	FloorPrice   int64  `json:"floor_price,omitempty"`
	BuyerMessage string `json:"buyer_message"`
	Round        int    `json:"round"`
	MaxRounds    int    `json:"max_rounds"`
}

type completionResponse struct {
	Message   string `json:"message"`
	Price     int64  `json:"price"`
	HasPrice  bool   `json:"has_price"`
	Reasoning string `json:"reasoning"`
	Model     string `json:"model"`
}

// Generate implements Provider.
func (p *HTTPProvider) Generate(ctx context.Context, req Request) (Response, error) {
	body, err := json.Marshal(completionRequest{
		Model:        p.model,
		Language:     req.Language,
		Tactic:       req.Tactic,
		Sentiment:    req.Sentiment,
		CounterPrice: req.CounterPrice,
		AnchorPrice:  req.AnchorPrice,
		FloorPrice:   req.FloorPrice,
		BuyerMessage: req.BuyerMessage,
		Round:        req.Round,
		MaxRounds:    req.MaxRounds,
	})
	if err != nil {
		return Response{}, fmt.Errorf("marshal dialogue request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("create dialogue request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("do dialogue request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("read dialogue response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Response{}, fmt.Errorf("dialogue provider status %d: %s", resp.StatusCode, string(respBody))
	}

	var out completionResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return Response{}, fmt.Errorf("unmarshal dialogue response: %w", err)
	}

	return Response{
		Message:   out.Message,
		Price:     out.Price,
		HasPrice:  out.HasPrice,
		Reasoning: out.Reasoning,
		Model:     out.Model,
	}, nil
}
