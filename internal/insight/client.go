// Package insight предоставляет клиент внешнего генеративного API:
// тексты напоминаний для клиентов и бизнес-советы по записям.
// Клиент никогда не читает и не пишет сохранённые сущности — данные
// передаёт вызывающая сторона, результат только отображается.
package insight

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/mmeshcher/barbershop-system/internal/model"
)

// Client инкапсулирует HTTP-взаимодействие с генеративным API.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *retryablehttp.Client
}

// NewClient создаёт клиент генеративного API по указанному адресу.
func NewClient(baseURL, apiKey, model string) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.HTTPClient.Timeout = 15 * time.Second
	rc.Logger = nil

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: rc,
	}
}

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// GenerateReminder запрашивает текст напоминания о записи для клиента
// и возвращает ответ модели без изменений.
func (c *Client) GenerateReminder(ctx context.Context, clientName, service, clock string) (string, error) {
	prompt := fmt.Sprintf(
		"Write a sophisticated and friendly WhatsApp reminder for a client named %s who has a %s appointment today at %s at 'MrSanntana Barber Shop'. Use a premium, masculine, and welcoming tone.",
		clientName, service, clock,
	)

	return c.generate(ctx, prompt, "")
}

// GetInsights запрашивает три кратких стратегических совета по переданным
// записям. Ответ запрашивается в виде JSON-массива строк; модель может
// обернуть массив поясняющим текстом, поэтому из ответа извлекается
// внешняя пара скобок.
func (c *Client) GetInsights(ctx context.Context, appointments []model.Appointment) ([]string, error) {
	summary, err := json.Marshal(appointments)
	if err != nil {
		return nil, fmt.Errorf("marshal appointments: %w", err)
	}

	prompt := fmt.Sprintf(
		"Analyze these barber shop appointments and provide 3 brief strategic suggestions to increase revenue or customer loyalty: %s. Format as a JSON array of strings.",
		summary,
	)

	text, err := c.generate(ctx, prompt, "application/json")
	if err != nil {
		return nil, err
	}

	jsonStr, err := extractJSONArray(text)
	if err != nil {
		return nil, err
	}

	var insights []string
	if err := json.Unmarshal([]byte(jsonStr), &insights); err != nil {
		return nil, fmt.Errorf("decode insights: %w", err)
	}

	return insights, nil
}

func (c *Client) generate(ctx context.Context, prompt, responseMimeType string) (string, error) {
	if c == nil || c.apiKey == "" {
		return "", fmt.Errorf("insight client not configured")
	}

	reqBody := generateRequest{
		Contents: []content{
			{Parts: []part{{Text: prompt}}},
		},
	}
	if responseMimeType != "" {
		reqBody.GenerationConfig = &generationConfig{ResponseMimeType: responseMimeType}
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response")
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}

// extractJSONArray находит первый полный JSON-массив в строке.
func extractJSONArray(s string) (string, error) {
	start := strings.Index(s, "[")
	end := strings.LastIndex(s, "]")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON array found in response")
	}
	return s[start : end+1], nil
}
