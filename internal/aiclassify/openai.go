package aiclassify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/eshaffer321/conciliador/internal/classifier"
	"github.com/shopspring/decimal"
)

// OpenAI API types
type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// OpenAIClassifier calls the OpenAI chat completions API to classify a single
// movement. Responses are constrained to a JSON object.
type OpenAIClassifier struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

var _ Classifier = (*OpenAIClassifier)(nil)

// NewOpenAIClassifier creates a classifier using the given API key and model.
// An empty model falls back to gpt-4o-mini.
func NewOpenAIClassifier(apiKey, model string) *OpenAIClassifier {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIClassifier{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://api.openai.com/v1",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ClassifyMovement classifies one bank movement.
func (c *OpenAIClassifier) ClassifyMovement(ctx context.Context, description string, amount decimal.NullDecimal, date *time.Time) (Result, error) {
	request := chatCompletionRequest{
		Model:       c.model,
		Temperature: 0,
		ResponseFormat: &responseFormat{
			Type: "json_object",
		},
		Messages: []chatMessage{
			{
				Role:    "system",
				Content: "Responde siempre SOLO con JSON válido.",
			},
			{
				Role:    "user",
				Content: buildPrompt(description, amount, date),
			},
		},
	}

	response, err := c.createChatCompletion(ctx, request)
	if err != nil {
		return Neutral(), err
	}
	if len(response.Choices) == 0 {
		return Neutral(), fmt.Errorf("no response from OpenAI")
	}

	var result Result
	if err := json.Unmarshal([]byte(response.Choices[0].Message.Content), &result); err != nil {
		return Neutral(), fmt.Errorf("failed to parse OpenAI response: %w", err)
	}
	if result.Category == "" {
		result.Category = classifier.CategoryOther
	}
	return result, nil
}

func (c *OpenAIClassifier) createChatCompletion(ctx context.Context, request chatCompletionRequest) (*chatCompletionResponse, error) {
	requestBody, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewBuffer(requestBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp struct {
			Error struct {
				Message string `json:"message"`
				Type    string `json:"type"`
			} `json:"error"`
		}
		if err := json.Unmarshal(body, &errorResp); err == nil && errorResp.Error.Message != "" {
			return nil, fmt.Errorf("OpenAI API error: %s (type: %s)", errorResp.Error.Message, errorResp.Error.Type)
		}
		return nil, fmt.Errorf("OpenAI API returned status %d: %s", resp.StatusCode, string(body))
	}

	var response chatCompletionResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	return &response, nil
}

func buildPrompt(description string, amount decimal.NullDecimal, date *time.Time) string {
	dateTxt := ""
	if date != nil {
		dateTxt = date.Format("2006-01-02")
	}
	amountTxt := ""
	if amount.Valid {
		amountTxt = amount.Decimal.StringFixed(2)
	}

	return fmt.Sprintf(`Eres un asistente experto en contabilidad que clasifica movimientos bancarios.

Te doy un único movimiento con estos datos:
- Concepto: %s
- Importe: %s
- Fecha: %s

Quiero que devuelvas SOLO un JSON con esta estructura:
{
  "tipo": "comision_bancaria | factura_proveedor | impuesto_o_tasa | nomina_o_seg_social | otro",
  "proveedor_probable": "texto con el nombre del proveedor si aplica, o \"\" si no se sabe",
  "es_factura": true or false
}
No añadas explicaciones, solo el JSON.`, description, amountTxt, dateTxt)
}
