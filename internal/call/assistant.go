package call

import "strings"

// Assistant is an inline voice assistant definition, sent to the SDK in place
// of a stored assistant id.
type Assistant struct {
	Name         string            `json:"name"`
	FirstMessage string            `json:"firstMessage"`
	Transcriber  AssistantProvider `json:"transcriber"`
	Voice        AssistantVoice    `json:"voice"`
	Model        AssistantModel    `json:"model"`
}

type AssistantProvider struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Language string `json:"language,omitempty"`
}

type AssistantVoice struct {
	Provider        string  `json:"provider"`
	VoiceID         string  `json:"voiceId"`
	Stability       float64 `json:"stability"`
	SimilarityBoost float64 `json:"similarityBoost"`
	Speed           float64 `json:"speed"`
	Style           float64 `json:"style"`
	UseSpeakerBoost bool    `json:"useSpeakerBoost"`
}

type AssistantMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type AssistantModel struct {
	Provider string             `json:"provider"`
	Model    string             `json:"model"`
	Messages []AssistantMessage `json:"messages"`
}

const interviewerPrompt = `You are a professional job interviewer conducting a real-time voice interview with a candidate. Your goal is to assess their qualifications, motivation, and fit for the role.

Interview Guidelines:
Follow the structured question flow:
{{questions}}

Engage naturally and react appropriately:
Listen actively to responses and acknowledge them before moving forward.
Ask brief follow-up questions if a response is vague or requires more detail.
Keep the conversation flowing smoothly while maintaining control.

Be professional, yet warm and welcoming:
Use official yet friendly language.
Keep responses concise and to the point, like in a real voice interview.
Avoid robotic phrasing and sound natural and conversational.

Conclude the interview properly:
Thank the candidate for their time.
Inform them that the company will reach out soon with feedback.
End the conversation on a polite and positive note.

Keep all your responses short and simple. This is a voice conversation, so keep your answers brief.`

// DefaultInterviewer returns the assistant used for Interview mode calls.
// The {{questions}} placeholder is filled from the call's variable values.
func DefaultInterviewer() *Assistant {
	return &Assistant{
		Name:         "Interviewer",
		FirstMessage: "Hello! Thank you for taking the time to speak with me today. I'm excited to learn more about you and your experience.",
		Transcriber: AssistantProvider{
			Provider: "deepgram",
			Model:    "nova-2",
			Language: "en",
		},
		Voice: AssistantVoice{
			Provider:        "11labs",
			VoiceID:         "sarah",
			Stability:       0.4,
			SimilarityBoost: 0.8,
			Speed:           0.9,
			Style:           0.5,
			UseSpeakerBoost: true,
		},
		Model: AssistantModel{
			Provider: "openai",
			Model:    "gpt-4",
			Messages: []AssistantMessage{{Role: "system", Content: interviewerPrompt}},
		},
	}
}

// NormalizeEnvValue strips whitespace, quotes and trailing commas that
// commonly leak into pasted environment values.
func NormalizeEnvValue(v string) string {
	return strings.Trim(strings.TrimSpace(v), " \t\r\n'\",")
}

// IsPlaceholder reports whether v is unset or still a template value.
func IsPlaceholder(v string) bool {
	return v == "" || strings.Contains(v, "YOUR_") || strings.Contains(v, "YOUR-")
}
