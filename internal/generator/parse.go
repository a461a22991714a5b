package generator

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
)

type rawQuestion struct {
	Question      *string          `json:"question"`
	Options       []string         `json:"options"`
	CorrectAnswer *json.RawMessage `json:"correctAnswer"`
}

type rawResponse struct {
	Questions []rawQuestion `json:"questions"`
}

// ParseResponse turns the model's raw text output into a validated question
// batch. The model may wrap the JSON in prose, so the candidate span runs
// from the first '{' to the last '}'. Each candidate question is validated
// on its own: a malformed entry is dropped and logged, it never aborts the
// batch.
func ParseResponse(text string, req Request) ([]*Question, error) {
	span := extractJSON(text)
	if span == "" {
		return nil, NewError(CodeInvalidResponse, fmt.Errorf("no JSON object found in response"))
	}

	var parsed rawResponse
	if err := json.Unmarshal([]byte(span), &parsed); err != nil {
		return nil, NewError(CodeParseError, err)
	}

	raw := parsed.Questions
	if len(raw) > req.NumQuestions {
		raw = raw[:req.NumQuestions]
	}
	if len(raw) == 0 {
		return nil, NewError(CodeNoQuestions, nil)
	}

	expected := OptionCount(req.Type)
	questions := make([]*Question, 0, len(raw))

	for i, rq := range raw {
		if reason := validateQuestion(rq, req.Type, expected); reason != "" {
			log.Printf("Rejected question %d: %s", i+1, reason)
			continue
		}

		var index int
		json.Unmarshal(*rq.CorrectAnswer, &index)

		questions = append(questions, &Question{
			Text:          *rq.Question,
			Options:       rq.Options,
			CorrectAnswer: index,
			Type:          req.Type,
			Difficulty:    req.Difficulty,
		})
	}

	if len(questions) == 0 {
		return nil, NewError(CodeNoValidQuestions, nil)
	}

	return questions, nil
}

func validateQuestion(rq rawQuestion, t QuestionType, expected int) string {
	if rq.Question == nil || rq.Options == nil || rq.CorrectAnswer == nil {
		return "missing required fields"
	}

	if len(rq.Options) != expected {
		return fmt.Sprintf("expected %d options for %s, got %d", expected, t, len(rq.Options))
	}

	var index int
	if err := json.Unmarshal(*rq.CorrectAnswer, &index); err != nil {
		return fmt.Sprintf("correctAnswer is not an integer: %s", *rq.CorrectAnswer)
	}
	if index < 0 || index >= len(rq.Options) {
		return fmt.Sprintf("correctAnswer index %d out of range for %d options", index, len(rq.Options))
	}

	if t == TypeTrueFalse {
		if !isTrueFalsePair(rq.Options) {
			return fmt.Sprintf("true/false options must be [\"True\",\"False\"], got %v", rq.Options)
		}
	}

	return ""
}

func isTrueFalsePair(options []string) bool {
	if len(options) != 2 {
		return false
	}
	return (options[0] == "True" && options[1] == "False") ||
		(options[0] == "False" && options[1] == "True")
}

func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return ""
	}
	return text[start : end+1]
}
