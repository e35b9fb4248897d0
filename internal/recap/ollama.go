package recap

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"moodjournal/internal/models"
)

const DefaultOllamaModel = "llama3.2"

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// OllamaGenerator talks to a local Ollama server's /api/generate endpoint.
type OllamaGenerator struct {
	host   string
	model  string
	client *http.Client
}

func NewOllamaGenerator(host, model string, client *http.Client) *OllamaGenerator {
	if model == "" {
		model = DefaultOllamaModel
	}
	if client == nil {
		client = &http.Client{}
	}
	return &OllamaGenerator{host: strings.TrimRight(host, "/"), model: model, client: client}
}

func (g *OllamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{Model: g.model, Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.host+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("sending request to ollama: %w", ctx.Err())
		}
		return "", fmt.Errorf("sending request to ollama: %v: %w", err, models.ErrUpstream)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("ollama status %d: %s: %w", resp.StatusCode, strings.TrimSpace(string(msg)), models.ErrUpstream)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding ollama response: %v: %w", err, models.ErrUpstream)
	}
	text := strings.TrimSpace(out.Response)
	if text == "" {
		return "", fmt.Errorf("ollama returned no text: %w", models.ErrUpstream)
	}
	return text, nil
}
