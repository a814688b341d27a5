package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"canteenq/config"
	"canteenq/internal/domain"
)

const (
	ChannelWhatsApp = "whatsapp"
	ChannelCall     = "call"
)

// Every operation degrades to a deterministic fallback instead of returning
// an error; callers treat the fallback as terminal for that invocation.
const (
	fallbackUnavailable  = "AI service is temporarily unavailable."
	fallbackChatNoKey    = "API Key not configured. Please contact admin."
	fallbackNotifyNoKey  = "API Key not configured."
	fallbackNotifyFailed = "Failed to generate notification."
)

// The persona is restricted by instruction, not enforcement: menu, hours and
// queue mechanics only, and it must decline live token-status lookups.
const personaInstruction = `You are a friendly and helpful AI assistant for a canteen service named "CanteenQ".
Your capabilities include:
- Answering questions about a simple, assumed menu (e.g., sandwiches, pizza, salads, coffee).
- Providing information about canteen operating hours (e.g., 9 AM to 5 PM).
- Explaining how the virtual queue system works.
- Politely declining any requests to check the real-time status of a specific token.`

var dishSchema = json.RawMessage(`{"type":"OBJECT","properties":{"name":{"type":"STRING"},"description":{"type":"STRING"}},"required":["name","description"]}`)

type UseCase interface {
	Converse(ctx context.Context, history []domain.ChatMessage, message string) string
	DraftNotification(ctx context.Context, token domain.Token, channel string) string
	GenerateDish(ctx context.Context, keywords string) *domain.Dish
}

type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

func NewClient(cfg config.AssistantConfig) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Converse(ctx context.Context, history []domain.ChatMessage, message string) string {
	if c.apiKey == "" {
		return fallbackChatNoKey
	}

	contents := make([]content, 0, len(history)+1)
	for _, msg := range history {
		contents = append(contents, content{Role: msg.Role, Parts: []part{{Text: msg.Text}}})
	}
	contents = append(contents, content{Role: domain.ChatRoleUser, Parts: []part{{Text: message}}})

	reply, err := c.generate(ctx, generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: personaInstruction}}},
		Contents:          contents,
	})
	if err != nil {
		log.Printf("assistant: converse: %v", err)
		return fallbackUnavailable
	}
	return reply
}

func (c *Client) DraftNotification(ctx context.Context, token domain.Token, channel string) string {
	if c.apiKey == "" {
		return fallbackNotifyNoKey
	}

	var prompt string
	if channel == ChannelCall {
		prompt = fmt.Sprintf("Write a polite call script for %s. Token %d is ready.", token.CustomerName, token.ID)
	} else {
		prompt = fmt.Sprintf("Write a friendly WhatsApp message to %s. Token %d is ready.", token.CustomerName, token.ID)
	}

	reply, err := c.generate(ctx, generateRequest{
		Contents: []content{{Role: domain.ChatRoleUser, Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		log.Printf("assistant: draft notification for token %d: %v", token.ID, err)
		return fallbackNotifyFailed
	}
	return reply
}

// GenerateDish returns the placeholder Dish when no credential is configured
// (the caller can still render something) and nil when the service call
// itself fails.
func (c *Client) GenerateDish(ctx context.Context, keywords string) *domain.Dish {
	if c.apiKey == "" {
		return &domain.Dish{
			Name:        "API Key Not Found",
			Description: "Configure Gemini API key to enable this feature.",
		}
	}

	prompt := fmt.Sprintf("Generate a creative dish name and description using: %s", keywords)
	reply, err := c.generate(ctx, generateRequest{
		Contents: []content{{Role: domain.ChatRoleUser, Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   dishSchema,
		},
	})
	if err != nil {
		log.Printf("assistant: generate dish: %v", err)
		return nil
	}

	var dish domain.Dish
	if err := json.Unmarshal([]byte(strings.TrimSpace(reply)), &dish); err != nil {
		log.Printf("assistant: parse generated dish: %v", err)
		return nil
	}
	return &dish
}

var _ UseCase = (*Client)(nil)

type generateRequest struct {
	SystemInstruction *content          `json:"system_instruction,omitempty"`
	Contents          []content         `json:"contents"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *Client) generate(ctx context.Context, payload generateRequest) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("call generative service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generative service returned %s", resp.Status)
	}

	var parsed generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from generative service")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
