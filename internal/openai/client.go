package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

const (
	defaultAPIURL           = "https://api.openai.com/v1/chat/completions"
	defaultTranscriptionURL = "https://api.openai.com/v1/audio/transcriptions"
	defaultModel            = "gpt-4o-mini"
	transcriptionModel      = "whisper-1"
	defaultMaxTokens        = 200
)

// Client is an OpenAI API client for booking-data extraction and voice
// transcription.
type Client struct {
	apiKey           string
	model            string
	apiURL           string
	transcriptionURL string
	httpClient       *http.Client
	temperature      float64
}

// NewClient creates a new OpenAI API client.
func NewClient(apiKey, model string, temperature float64) *Client {
	if model == "" {
		model = defaultModel
	}
	if temperature <= 0 {
		temperature = 0.3
	}

	return &Client{
		apiKey:           apiKey,
		model:            model,
		apiURL:           defaultAPIURL,
		transcriptionURL: defaultTranscriptionURL,
		temperature:      temperature,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// SetBaseURLs overrides the API endpoints, used by tests.
func (c *Client) SetBaseURLs(completionURL, transcriptionURL string) {
	if completionURL != "" {
		c.apiURL = completionURL
	}
	if transcriptionURL != "" {
		c.transcriptionURL = transcriptionURL
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Complete sends a system prompt and user message to the chat-completions
// endpoint and returns the raw assistant text.
func (c *Client) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	req := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage},
		},
		MaxTokens:   defaultMaxTokens,
		Temperature: c.temperature,
	}

	reqBody, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var apiResp chatResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if apiResp.Error != nil {
		return "", fmt.Errorf("API error: %s - %s", apiResp.Error.Type, apiResp.Error.Message)
	}
	if len(apiResp.Choices) == 0 {
		return "", fmt.Errorf("empty response from API")
	}

	return apiResp.Choices[0].Message.Content, nil
}

// Transcribe sends audio bytes to the transcription endpoint and returns
// the recognized text.
func (c *Client) Transcribe(ctx context.Context, audio []byte, filename string) (string, error) {
	if filename == "" {
		filename = "voice.ogg"
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := part.Write(audio); err != nil {
		return "", fmt.Errorf("failed to write audio: %w", err)
	}
	if err := writer.WriteField("model", transcriptionModel); err != nil {
		return "", fmt.Errorf("failed to write model field: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.transcriptionURL, &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var tr transcriptionResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return tr.Text, nil
}

// IsConfigured returns true if the client has an API key.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}
