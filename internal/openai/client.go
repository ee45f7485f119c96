package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// Client wraps the OpenAI SDK to word caretaker alerts.
type Client struct {
	client *openai.Client
	model  openai.ChatModel
}

// AlertInput describes one missed dose.
type AlertInput struct {
	PatientName    string
	CaretakerName  string
	MedicationName string
	Dosage         string
	TimeDisplay    string
}

// New returns an OpenAI client when apiKey is provided; otherwise the client
// only produces the fallback wording.
func New(apiKey string) *Client {
	if apiKey == "" {
		return &Client{}
	}
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Client{
		client: &client,
		model:  openai.ChatModelGPT4oMini,
	}
}

// ComposeCaretakerAlert returns a short SMS telling the caretaker a dose was
// missed. Without an API key, or when the API fails, FallbackAlert is used
// and the API error (if any) returned alongside it.
func (c *Client) ComposeCaretakerAlert(ctx context.Context, in AlertInput) (string, error) {
	fallback := FallbackAlert(in)
	if c == nil || c.client == nil {
		return fallback, nil
	}

	req := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			{
				OfSystem: &openai.ChatCompletionSystemMessageParam{
					Content: openai.ChatCompletionSystemMessageParamContentUnion{
						OfString: openai.String("You write short, calm SMS messages (under 300 characters) telling a caretaker that the person they look after has not yet taken a scheduled medication. Do not give medical advice."),
					},
				},
			},
			{
				OfUser: &openai.ChatCompletionUserMessageParam{
					Content: openai.ChatCompletionUserMessageParamContentUnion{
						OfString: openai.String(fmt.Sprintf("Caretaker: %s. Patient: %s. Medication: %s, dosage %s, scheduled for %s.",
							fallbackName(in.CaretakerName, "caretaker"), in.PatientName, in.MedicationName, in.Dosage, in.TimeDisplay)),
					},
				},
			},
		},
		Temperature:         openai.Float(0.3),
		MaxCompletionTokens: openai.Int(120),
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	resp, err := c.client.Chat.Completions.New(ctx, req)
	if err != nil {
		return fallback, err
	}
	if len(resp.Choices) == 0 {
		return fallback, fmt.Errorf("no completion received")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return fallback, nil
	}
	return text, nil
}

// FallbackAlert is the fixed alert wording.
func FallbackAlert(in AlertInput) string {
	return fmt.Sprintf("Hi %s, this is PillPal. %s has not yet taken %s (%s) scheduled for %s.",
		fallbackName(in.CaretakerName, "there"), in.PatientName, in.MedicationName, in.Dosage, in.TimeDisplay)
}

func fallbackName(primary, secondary string) string {
	if strings.TrimSpace(primary) == "" {
		return secondary
	}
	return primary
}
