package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/studyhub/studyhub-server/internal/config"
	"github.com/studyhub/studyhub-server/internal/notify"
	"github.com/studyhub/studyhub-server/internal/store"
)

const defaultEndpoint = "https://commentanalyzer.googleapis.com/v1alpha1/comments:analyze"

// distressKeywords trigger a support email to the author; they do not block
// the message by themselves.
var distressKeywords = []string{
	"suicide", "kill myself", "end my life", "depressed", "hopeless", "worthless",
	"no way out", "give up", "can't go on", "life is meaningless",
}

// allowedPhrases pass moderation without further checks.
var allowedPhrases = []string{
	"hi", "hello", "how are you", "what's your name", "good morning", "good evening",
	"good night", "thank you", "please", "welcome",
}

// studyKeywords gate the room to on-topic conversation.
var studyKeywords = []string{
	"study", "homework", "assignment", "exam", "test", "project", "subject",
	"math", "science", "history", "geography", "physics", "chemistry", "biology",
	"literature", "notes", "revision", "syllabus", "class", "lecture", "teacher",
}

// Verdict is the moderation decision for one message.
type Verdict struct {
	Allowed bool               `json:"allowed"`
	Reason  string             `json:"reason,omitempty"`
	Scores  map[string]float64 `json:"scores,omitempty"`
}

// Service scores message content with a keyword pipeline followed by a
// remote toxicity check. Clients call it before emitting chat messages; the
// event bus itself never does.
type Service struct {
	log       zerolog.Logger
	users     store.UserStore
	notifier  notify.Notifier
	client    *http.Client
	endpoint  string
	apiKey    string
	threshold float64
}

// NewService builds the moderation pipeline. notifier may be nil to disable
// support emails; an empty API key disables the remote toxicity check.
func NewService(cfg config.ModerationConfig, users store.UserStore, notifier notify.Notifier, logger *zerolog.Logger) *Service {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	threshold := cfg.ToxicityThreshold
	if threshold <= 0 {
		threshold = 0.6
	}
	return &Service{
		log:       *logger,
		users:     users,
		notifier:  notifier,
		client:    &http.Client{Timeout: 10 * time.Second},
		endpoint:  defaultEndpoint,
		apiKey:    cfg.PerspectiveAPIKey,
		threshold: threshold,
	}
}

// Check runs the full pipeline for one message. userID identifies the author
// for the distress-support email; zero skips that lookup.
func (s *Service) Check(ctx context.Context, content string, userID int64) (Verdict, error) {
	lowered := strings.ToLower(content)

	if containsAny(lowered, distressKeywords) {
		s.sendSupportEmail(ctx, userID)
	}

	if containsAny(lowered, allowedPhrases) {
		return Verdict{Allowed: true, Reason: "allowed as a normal conversational phrase"}, nil
	}

	if !containsAny(lowered, studyKeywords) {
		return Verdict{Allowed: false, Reason: "message is not study-related"}, nil
	}

	if s.apiKey == "" && s.endpoint == defaultEndpoint {
		return Verdict{Allowed: true, Reason: "remote scoring disabled"}, nil
	}
	return s.scoreRemote(ctx, content)
}

func (s *Service) sendSupportEmail(ctx context.Context, userID int64) {
	if s.notifier == nil || s.users == nil || userID == 0 {
		return
	}
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil || user.Email == "" {
		s.log.Debug().Int64("user_id", userID).Msg("no email for distress notification")
		return
	}

	body := fmt.Sprintf("Hi %s,\n\n"+
		"We noticed that you might be feeling distressed or overwhelmed. Please know that you're not alone, "+
		"and there are people who care about you and want to help.\n\n"+
		"Here are some resources you can reach out to:\n\n"+
		"- National Suicide Prevention Lifeline: 1-800-273-TALK (1-800-273-8255)\n"+
		"- Crisis Text Line: Text HOME to 741741\n"+
		"- Visit https://findahelpline.com/ for international helplines.\n\n"+
		"Please take care of yourself, and don't hesitate to reach out for support.\n\n"+
		"Best regards,\nThe StudyHub Team", user.Username)

	if err := s.notifier.Send(ctx, user.Email, "We're Here to Help", body); err != nil {
		s.log.Error().Err(err).Str("to", user.Email).Msg("failed to send support email")
	}
}

type analyzeRequest struct {
	Comment             analyzeComment      `json:"comment"`
	Languages           []string            `json:"languages"`
	RequestedAttributes map[string]struct{} `json:"requestedAttributes"`
}

type analyzeComment struct {
	Text string `json:"text"`
}

type analyzeResponse struct {
	AttributeScores map[string]struct {
		SummaryScore struct {
			Value float64 `json:"value"`
		} `json:"summaryScore"`
	} `json:"attributeScores"`
}

func (s *Service) scoreRemote(ctx context.Context, content string) (Verdict, error) {
	reqBody := analyzeRequest{
		Comment:   analyzeComment{Text: content},
		Languages: []string{"en"},
		RequestedAttributes: map[string]struct{}{
			"TOXICITY":        {},
			"SEVERE_TOXICITY": {},
			"PROFANITY":       {},
			"INSULT":          {},
			"THREAT":          {},
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return Verdict{}, fmt.Errorf("marshal analyze request: %w", err)
	}

	url := s.endpoint
	if s.apiKey != "" {
		url += "?key=" + s.apiKey
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Verdict{}, fmt.Errorf("build analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return Verdict{}, fmt.Errorf("call analyzer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Verdict{}, fmt.Errorf("analyzer returned status %d", resp.StatusCode)
	}

	var parsed analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return Verdict{}, fmt.Errorf("decode analyzer response: %w", err)
	}

	scores := make(map[string]float64, len(parsed.AttributeScores))
	for attr, sc := range parsed.AttributeScores {
		scores[attr] = sc.SummaryScore.Value
	}

	toxicity, ok := scores["TOXICITY"]
	if !ok {
		return Verdict{}, fmt.Errorf("analyzer response missing toxicity score")
	}

	s.log.Debug().Float64("toxicity", toxicity).Msg("remote moderation score")
	return Verdict{Allowed: toxicity < s.threshold, Scores: scores}, nil
}

func containsAny(content string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(content, kw) {
			return true
		}
	}
	return false
}
