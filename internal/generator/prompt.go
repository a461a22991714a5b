package generator

import (
	"fmt"
	"strings"
)

// BuildPrompt constructs the instruction text sent to the model. It is a pure
// string builder: the notes are truncated to MaxNotesLength characters to
// bound request size, and the output-format directive demands a single JSON
// object with no surrounding prose.
func BuildPrompt(req Request) string {
	notes := req.Notes
	if len(notes) > MaxNotesLength {
		notes = notes[:MaxNotesLength]
	}

	var sb strings.Builder

	sb.WriteString("Create a quiz based on these study notes. Follow these instructions carefully:\n\n")
	sb.WriteString(typeDirective(req.Type, req.NumQuestions))
	sb.WriteString("\n\n")
	sb.WriteString(difficultyDirective(req.Difficulty))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("CRITICAL: All questions must be of the same type (%s).\n", strings.ToUpper(string(req.Type))))
	sb.WriteString("- For MCQ: All questions must have exactly 4 options\n")
	sb.WriteString("- For True/False: All questions must have exactly 2 options: \"True\" and \"False\"\n\n")

	sb.WriteString("Return ONLY valid JSON in this exact format:\n")
	sb.WriteString(`{
  "questions": [
    {
      "question": "Clear question text here?",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correctAnswer": 0
    }
  ]
}`)
	sb.WriteString("\n\nNOTES:\n")
	sb.WriteString(notes)
	sb.WriteString("\n\nImportant:\n")
	sb.WriteString("- correctAnswer must be the index (0, 1, 2, or 3 for MCQ; 0 or 1 for True/False)\n")
	sb.WriteString("- Questions must be directly based on the provided notes\n")
	sb.WriteString("- Return ONLY the JSON, no additional text or explanations\n")
	sb.WriteString("- Ensure consistent question type throughout")

	return sb.String()
}

func typeDirective(t QuestionType, count int) string {
	if t == TypeTrueFalse {
		return fmt.Sprintf(`Generate exactly %d True/False questions. Each question must have exactly 2 options: ["True", "False"].
- Questions should be clear factual statements that can be definitively true or false
- Use the exact options: "True" and "False" (capitalized)`, count)
	}

	return fmt.Sprintf(`Generate exactly %d multiple-choice questions. Each question must have exactly 4 options (A, B, C, D).
- Use meaningful, distinct options
- Avoid "All of the above" or "None of the above" unless absolutely necessary
- Ensure only one correct answer per question`, count)
}

func difficultyDirective(d Difficulty) string {
	if d == DifficultyDifficult {
		return "Test deeper understanding, analysis, and application of concepts from the notes."
	}
	return "Focus on factual recall and basic understanding from the notes."
}
