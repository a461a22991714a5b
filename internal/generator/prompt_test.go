package generator

import (
	"strings"
	"testing"
)

func TestBuildPrompt_TruncatesNotes(t *testing.T) {
	notes := strings.Repeat("x", 4000)
	req := Request{Notes: notes, NumQuestions: 6, Type: TypeMultipleChoice, Difficulty: DifficultyNormal}

	prompt := BuildPrompt(req)

	if strings.Contains(prompt, strings.Repeat("x", MaxNotesLength+1)) {
		t.Error("notes were not truncated")
	}
	if !strings.Contains(prompt, strings.Repeat("x", MaxNotesLength)) {
		t.Error("truncated notes not appended verbatim")
	}
}

func TestBuildPrompt_MultipleChoiceDirectives(t *testing.T) {
	req := Request{Notes: "mitochondria", NumQuestions: 8, Type: TypeMultipleChoice, Difficulty: DifficultyNormal}

	prompt := BuildPrompt(req)

	for _, want := range []string{
		"Generate exactly 8 multiple-choice questions",
		"exactly 4 options",
		"Return ONLY valid JSON",
		`"correctAnswer": 0`,
		"factual recall",
		"mitochondria",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPrompt_TrueFalseDirectives(t *testing.T) {
	req := Request{Notes: "the sky is blue", NumQuestions: 4, Type: TypeTrueFalse, Difficulty: DifficultyDifficult}

	prompt := BuildPrompt(req)

	for _, want := range []string{
		"Generate exactly 4 True/False questions",
		`["True", "False"]`,
		"deeper understanding",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildPrompt_ShortNotesUnchanged(t *testing.T) {
	req := Request{Notes: "short", NumQuestions: 6, Type: TypeMultipleChoice, Difficulty: DifficultyNormal}

	if !strings.Contains(BuildPrompt(req), "short") {
		t.Error("short notes should be appended as-is")
	}
}
