package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/pageza/mealsnap/backend/internal/model"
)

// EstimationPromptVersion identifies the instruction contract sent with every
// text estimation request.
const EstimationPromptVersion = "nutrition-estimate/v1"

const estimationSystemPrompt = `You are a nutrition expert AI. Analyze the food description and provide detailed nutritional information.
Return the response in this exact JSON format:
{
  "items": [
    {
      "name": "Food item name",
      "calories": number,
      "protein": number in grams,
      "carbs": number in grams,
      "fat": number in grams
    }
  ],
  "totals": {
    "calories": total calories,
    "protein": total protein in grams,
    "carbs": total carbs in grams,
    "fat": total fat in grams
  }
}`

// InputType selects the estimation path.
type InputType string

const (
	InputText  InputType = "text"
	InputImage InputType = "image"
)

// EstimationInput is the single call shape of the estimation boundary.
type EstimationInput struct {
	Type    InputType `json:"type"`
	Content string    `json:"content"`
}

// EstimationConfig configures an EstimationService.
type EstimationConfig struct {
	APIKey     string
	APIURL     string
	Model      string
	Timeout    time.Duration
	ImageDelay time.Duration
	HTTPClient *http.Client
}

// EstimationService estimates nutrition for free text through an OpenAI
// compatible chat completions API. Image estimation is simulated: after a fixed
// delay it returns one of three reference meals.
type EstimationService struct {
	apiKey     string
	apiURL     string
	model      string
	client     *http.Client
	imageDelay time.Duration

	mu   sync.Mutex
	rand *rand.Rand
}

// NewEstimationService creates a new EstimationService instance. An empty
// API key yields a service whose estimates are always nil.
func NewEstimationService(cfg EstimationConfig) *EstimationService {
	if cfg.APIURL == "" {
		cfg.APIURL = "https://api.openai.com/v1/chat/completions"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-3.5-turbo"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}

	return &EstimationService{
		apiKey:     cfg.APIKey,
		apiURL:     cfg.APIURL,
		model:      cfg.Model,
		client:     client,
		imageDelay: cfg.ImageDelay,
		rand:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Configured reports whether a credential is present.
func (s *EstimationService) Configured() bool {
	return s.apiKey != ""
}

// Estimate dispatches in to the text or image path.
func (s *EstimationService) Estimate(ctx context.Context, in EstimationInput) *model.NutritionEstimate {
	switch in.Type {
	case InputText:
		return s.EstimateFromText(ctx, in.Content)
	case InputImage:
		return s.EstimateFromImage(ctx, in.Content)
	default:
		log.Printf("[EstimationService] Unknown input type %q", in.Type)
		return nil
	}
}

// Message represents a message in the chat
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents a chat completions request
type ChatRequest struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	MaxTokens      int               `json:"max_tokens"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format"`
}

// EstimateFromText asks the model for the nutrition of text. Every numeric
// field of the result is rounded to the nearest integer. Network, status and
// parse failures are logged and reported as nil.
func (s *EstimationService) EstimateFromText(ctx context.Context, text string) *model.NutritionEstimate {
	if !s.Configured() {
		log.Printf("[EstimationService] OpenAI API key is not configured")
		return nil
	}

	estimate, err := s.requestEstimate(ctx, text)
	if err != nil {
		log.Printf("[EstimationService] Error analyzing food text: %v", err)
		return nil
	}
	return estimate
}

func (s *EstimationService) requestEstimate(ctx context.Context, text string) (*model.NutritionEstimate, error) {
	reqBody := ChatRequest{
		Model: s.model,
		Messages: []Message{
			{Role: "system", Content: estimationSystemPrompt},
			{Role: "user", Content: "Analyze the nutritional content of: " + text},
		},
		MaxTokens:   1000,
		Temperature: 0.2,
		ResponseFormat: map[string]string{
			"type": "json_object",
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("X-Prompt-Version", EstimationPromptVersion)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return nil, fmt.Errorf("no response from API")
	}

	return parseEstimate(result.Choices[0].Message.Content)
}

type estimatePayload struct {
	Items []struct {
		Name     *string  `json:"name"`
		Calories *float64 `json:"calories"`
		Protein  *float64 `json:"protein"`
		Carbs    *float64 `json:"carbs"`
		Fat      *float64 `json:"fat"`
	} `json:"items"`
	Totals *struct {
		Calories *float64 `json:"calories"`
		Protein  *float64 `json:"protein"`
		Carbs    *float64 `json:"carbs"`
		Fat      *float64 `json:"fat"`
	} `json:"totals"`
}

// parseEstimate accepts content only when it matches the estimate shape exactly.
func parseEstimate(content string) (*model.NutritionEstimate, error) {
	var payload estimatePayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse estimate: %w", err)
	}
	if payload.Items == nil {
		return nil, fmt.Errorf("estimate has no items")
	}
	t := payload.Totals
	if t == nil || t.Calories == nil || t.Protein == nil || t.Carbs == nil || t.Fat == nil {
		return nil, fmt.Errorf("estimate has incomplete totals")
	}

	estimate := &model.NutritionEstimate{
		Items: make([]model.FoodItem, 0, len(payload.Items)),
		Totals: model.NutritionTotals{
			Calories: *t.Calories,
			Protein:  *t.Protein,
			Carbs:    *t.Carbs,
			Fat:      *t.Fat,
		}.Rounded(),
	}
	for i, it := range payload.Items {
		if it.Name == nil || it.Calories == nil || it.Protein == nil || it.Carbs == nil || it.Fat == nil {
			return nil, fmt.Errorf("estimate item %d is incomplete", i)
		}
		estimate.Items = append(estimate.Items, model.FoodItem{
			Name:     *it.Name,
			Calories: *it.Calories,
			Protein:  *it.Protein,
			Carbs:    *it.Carbs,
			Fat:      *it.Fat,
		}.Rounded())
	}
	return estimate, nil
}

// referenceMeals stand in for a vision model, one per conventional meal period.
var referenceMeals = map[model.MealType][]model.FoodItem{
	model.Breakfast: {
		{Name: "Oatmeal with Berries", Calories: 350, Protein: 12, Carbs: 65, Fat: 6},
		{Name: "Banana", Calories: 105, Protein: 1, Carbs: 27, Fat: 0},
	},
	model.Lunch: {
		{Name: "Grilled Chicken Salad", Calories: 420, Protein: 35, Carbs: 25, Fat: 22},
		{Name: "Olive Oil Dressing", Calories: 120, Protein: 0, Carbs: 0, Fat: 14},
	},
	model.Dinner: {
		{Name: "Salmon Fillet", Calories: 367, Protein: 34, Carbs: 0, Fat: 24},
		{Name: "Brown Rice", Calories: 216, Protein: 5, Carbs: 45, Fat: 2},
		{Name: "Steamed Vegetables", Calories: 75, Protein: 3, Carbs: 15, Fat: 1},
	},
}

var referenceOrder = []model.MealType{model.Breakfast, model.Lunch, model.Dinner}

// EstimateFromImage simulates photo analysis: it waits for the configured
// delay and picks one reference meal at random. Cancelling ctx during the
// delay abandons the estimate and returns nil.
func (s *EstimationService) EstimateFromImage(ctx context.Context, imageRef string) *model.NutritionEstimate {
	if !s.Configured() {
		log.Printf("[EstimationService] OpenAI API key is not configured")
		return nil
	}

	if s.imageDelay > 0 {
		timer := time.NewTimer(s.imageDelay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			log.Printf("[EstimationService] Image analysis for %s cancelled: %v", imageRef, ctx.Err())
			return nil
		case <-timer.C:
		}
	}

	s.mu.Lock()
	period := referenceOrder[s.rand.Intn(len(referenceOrder))]
	s.mu.Unlock()

	items := make([]model.FoodItem, len(referenceMeals[period]))
	copy(items, referenceMeals[period])

	return &model.NutritionEstimate{
		Items:  items,
		Totals: SumItems(items).Rounded(),
	}
}
