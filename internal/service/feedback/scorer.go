// internal/service/feedback/scorer.go
package feedback

import (
	"context"
	"fmt"
	"strings"

	"prepwise-service/internal/domain/interview"
	"prepwise-service/internal/pkg/gemini"

	"google.golang.org/genai"
)

const scorerSystem = "You are a professional interviewer analyzing a mock interview. Your task is to evaluate the candidate based on structured categories. Be thorough and detailed in your analysis. Don't be lenient with the candidate. If there are mistakes or areas for improvement, point them out."

// GeminiScorer scores transcripts with a Gemini model constrained to the
// feedback schema.
type GeminiScorer struct {
	client *gemini.Client
}

func NewGeminiScorer(client *gemini.Client) *GeminiScorer {
	return &GeminiScorer{client: client}
}

func (s *GeminiScorer) Score(ctx context.Context, transcript string) (*interview.Assessment, error) {
	var out interview.Assessment
	if err := s.client.GenerateJSON(ctx, scorerSystem, ScoringPrompt(transcript), AssessmentSchema(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ScoringPrompt embeds the transcript and the rubric.
func ScoringPrompt(transcript string) string {
	var b strings.Builder
	b.WriteString("You are an AI interviewer analyzing a mock interview. ")
	b.WriteString("Your task is to evaluate the candidate based on structured categories.\n\n")
	fmt.Fprintf(&b, "Transcript:\n%s\n", transcript)
	b.WriteString("Score the candidate from 0 to 100 in the following areas. Do not add categories other than the ones provided:\n")
	for _, name := range interview.Categories {
		fmt.Fprintf(&b, "- %s\n", name)
	}
	return b.String()
}

// AssessmentSchema is the response schema for an interview.Assessment.
func AssessmentSchema() *genai.Schema {
	stringList := &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"totalScore": {Type: genai.TypeInteger},
			"categoryScores": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name":    {Type: genai.TypeString, Enum: append([]string(nil), interview.Categories...)},
						"score":   {Type: genai.TypeInteger},
						"comment": {Type: genai.TypeString},
					},
					Required: []string{"name", "score", "comment"},
				},
			},
			"strengths":           stringList,
			"areasForImprovement": stringList,
			"finalAssessment":     {Type: genai.TypeString},
		},
		Required: []string{"totalScore", "categoryScores", "strengths", "areasForImprovement", "finalAssessment"},
	}
}
