package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// DraftRequest carries the validated trip parameters handed to the AI
// provider.
type DraftRequest struct {
	Destination       string
	StartDate         time.Time
	Days              int
	Budget            float64
	Interests         []string
	TravelStyle       string
	AccommodationPref string
	TransportPref     string
}

// DraftItinerary is the loosely-shaped itinerary as drafted by the AI, before
// normalization. Models are inconsistent about key names, so every field the
// normalizer aliases is declared here.
type DraftItinerary struct {
	Days      []DraftDay `json:"days"`
	Itinerary []DraftDay `json:"itinerary"`
}

// DraftDays returns whichever day list the draft populated.
func (d *DraftItinerary) DraftDays() []DraftDay {
	if len(d.Days) > 0 {
		return d.Days
	}
	return d.Itinerary
}

type DraftDay struct {
	Day        int             `json:"day"`
	DayNumber  int             `json:"day_number"`
	Theme      string          `json:"theme"`
	Title      string          `json:"title"`
	Activities []DraftActivity `json:"activities"`
	Meals      Meals           `json:"meals"`
	DailyCost  float64         `json:"daily_cost"`
	TotalCost  float64         `json:"total_cost"`
}

type DraftActivity struct {
	Time           string   `json:"time"`
	Title          string   `json:"title"`
	Name           string   `json:"name"`
	Activity       string   `json:"activity"`
	Location       string   `json:"location"`
	DurationHours  float64  `json:"duration_hours"`
	Duration       float64  `json:"duration"`
	EstimatedCost  *float64 `json:"estimated_cost"`
	Cost           *float64 `json:"cost"`
	Price          *float64 `json:"price"`
	CarbonKg       *float64 `json:"carbon_kg"`
	Carbon         *float64 `json:"carbon"`
	CO2Kg          *float64 `json:"co2_kg"`
	Type           string   `json:"type"`
	Category       string   `json:"category"`
	Description    string   `json:"description"`
	TransportMode  string   `json:"transport_mode"`
	Transport      string   `json:"transport"`
	TransportKm    float64  `json:"transport_km"`
	DistanceKm     float64  `json:"distance_km"`
	EcoAlternative string   `json:"eco_alternative"`
	EcoTip         string   `json:"eco_tip"`
	GreenTip       string   `json:"green_tip"`
}

// AiDrafter drafts an itinerary for a trip request. Implementations may fail
// (timeout, quota, malformed output); the pipeline substitutes the template
// itinerary in that case.
type AiDrafter interface {
	DraftItinerary(ctx context.Context, req DraftRequest) (*DraftItinerary, error)
}

// ─── HuggingFace client ───────────────────────────────────────────────────────

// AIClient drafts itineraries via the HuggingFace inference API.
type AIClient struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewAIClient builds a client from HUGGINGFACE_API_KEY and HF_MODEL.
func NewAIClient() *AIClient {
	model := os.Getenv("HF_MODEL")
	if model == "" {
		model = "mistralai/Mistral-7B-Instruct-v0.3"
	}

	return &AIClient{
		apiKey: os.Getenv("HUGGINGFACE_API_KEY"),
		model:  model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type hfRequest struct {
	Inputs     string       `json:"inputs"`
	Parameters hfParameters `json:"parameters"`
}

type hfParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

type hfResponse []struct {
	GeneratedText string `json:"generated_text"`
}

// DraftItinerary prompts the model for an itinerary-shaped JSON document and
// parses it out of the generated text.
func (c *AIClient) DraftItinerary(ctx context.Context, dreq DraftRequest) (*DraftItinerary, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("huggingface API key not configured")
	}

	reqBody := hfRequest{
		Inputs: buildItineraryPrompt(dreq),
		Parameters: hfParameters{
			MaxNewTokens:   2000,
			Temperature:    0.6,
			ReturnFullText: false,
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("https://api-inference.huggingface.co/models/%s", c.model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == 503 {
		return nil, fmt.Errorf("AI model is loading, please retry in a few seconds")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HuggingFace API error (%d): %s", resp.StatusCode, string(body))
	}

	var hfResp hfResponse
	if err := json.Unmarshal(body, &hfResp); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %v", err)
	}

	if len(hfResp) == 0 || hfResp[0].GeneratedText == "" {
		return nil, fmt.Errorf("empty response from AI")
	}

	return parseDraft(hfResp[0].GeneratedText)
}

// parseDraft pulls the first JSON object out of the generated text. Models
// often wrap the document in prose or markdown fences.
func parseDraft(text string) (*DraftItinerary, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("no JSON object in AI output")
	}

	var draft DraftItinerary
	if err := json.Unmarshal([]byte(text[start:end+1]), &draft); err != nil {
		return nil, fmt.Errorf("malformed itinerary JSON: %w", err)
	}

	if len(draft.DraftDays()) == 0 {
		return nil, fmt.Errorf("AI draft contains no days")
	}

	return &draft, nil
}

func buildItineraryPrompt(req DraftRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, `[INST] You are a sustainable travel planner. Create a %d-day itinerary for %s starting %s.

Traveler profile:
- Budget: $%.0f total
- Interests: %s
- Travel style: %s
- Accommodation: %s
- Preferred transport: %s

Favor low-carbon choices: walking, cycling, public transport, local food.

Respond with ONLY a JSON object, no prose, shaped exactly like:
{"days":[{"day":1,"theme":"...","activities":[{"time":"09:00","title":"...","location":"...","duration_hours":2,"estimated_cost":15,"type":"museum","transport_mode":"metro","transport_km":3,"description":"...","eco_alternative":"..."}],"meals":{"breakfast":"...","lunch":"...","dinner":"..."},"daily_cost":80}]}

Include %d day entries, 3-5 activities per day. [/INST]`,
		req.Days, req.Destination, req.StartDate.Format("2006-01-02"),
		req.Budget,
		strings.Join(req.Interests, ", "),
		req.TravelStyle,
		req.AccommodationPref,
		req.TransportPref,
		req.Days,
	)

	return b.String()
}
