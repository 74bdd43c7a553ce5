// internal/service/interview/generator.go
package interview

import (
	"context"
	"fmt"
	"strings"

	"prepwise-service/internal/domain/interview"
	"prepwise-service/internal/pkg/gemini"

	"google.golang.org/genai"
)

// GeminiQuestionGenerator asks a Gemini model for a JSON array of questions.
type GeminiQuestionGenerator struct {
	client *gemini.Client
}

func NewGeminiQuestionGenerator(client *gemini.Client) *GeminiQuestionGenerator {
	return &GeminiQuestionGenerator{client: client}
}

func (g *GeminiQuestionGenerator) GenerateQuestions(ctx context.Context, req *interview.GenerateRequest) ([]string, error) {
	schema := &genai.Schema{
		Type:  genai.TypeArray,
		Items: &genai.Schema{Type: genai.TypeString},
	}
	var questions []string
	if err := g.client.GenerateJSON(ctx, "", QuestionPrompt(req), schema, &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// QuestionPrompt describes the role and asks for voice-friendly questions.
func QuestionPrompt(req *interview.GenerateRequest) string {
	var b strings.Builder
	b.WriteString("Prepare questions for a job interview.\n")
	fmt.Fprintf(&b, "The job role is %s.\n", req.Role)
	fmt.Fprintf(&b, "The job experience level is %s.\n", req.Level)
	fmt.Fprintf(&b, "The tech stack used in the job is: %s.\n", strings.Join(req.Techstack, ", "))
	fmt.Fprintf(&b, "The focus between behavioural and technical questions should lean towards: %s.\n", req.Type)
	fmt.Fprintf(&b, "The amount of questions required is: %d.\n", req.Amount)
	b.WriteString("Please return only the questions, without any additional text.\n")
	b.WriteString(`The questions are going to be read by a voice assistant so do not use "/" or "*" or any other special characters which might break the voice assistant.` + "\n")
	b.WriteString(`Return the questions formatted like this: ["Question 1", "Question 2", "Question 3"]`)
	return b.String()
}
