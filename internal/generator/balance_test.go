package generator

import (
	"context"
	"math/rand"
	"sort"
	"testing"
)

func mcq(text string, correct int) *Question {
	return &Question{
		Text:          text,
		Options:       []string{"A", "B", "C", "D"},
		CorrectAnswer: correct,
		Type:          TypeMultipleChoice,
		Difficulty:    DifficultyNormal,
	}
}

// answerTexts captures the (question, correct-option-text) pairs, which
// balancing must never change.
func answerTexts(questions []*Question) map[string]string {
	pairs := make(map[string]string, len(questions))
	for _, q := range questions {
		if q.CorrectAnswer >= 0 && q.CorrectAnswer < len(q.Options) {
			pairs[q.Text] = q.Options[q.CorrectAnswer]
		}
	}
	return pairs
}

func targetFor(n, pos int) int {
	target := n / 4
	if pos < n%4 {
		target++
	}
	return target
}

func TestBalance_SkewedBatchMeetsTargets(t *testing.T) {
	// All four correct answers start at position 0; ceiling is 4/4+1 = 2,
	// so position 0 with count 3 triggers rebalancing toward {1,1,1,1}.
	questions := []*Question{
		mcq("Q1", 0),
		mcq("Q2", 0),
		mcq("Q3", 0),
		mcq("Q4", 1),
	}
	before := answerTexts(questions)

	b := NewBalancer(rand.New(rand.NewSource(42)))
	swapped := b.Balance(questions)

	if swapped == 0 {
		t.Fatal("expected at least one swap for a skewed batch")
	}

	counts := make([]int, 4)
	for _, q := range questions {
		counts[q.CorrectAnswer]++
	}
	for pos, c := range counts {
		if c > targetFor(len(questions), pos) {
			t.Errorf("position %d holds %d answers, target is %d", pos, c, targetFor(len(questions), pos))
		}
	}

	after := answerTexts(questions)
	for text, want := range before {
		if after[text] != want {
			t.Errorf("question %q: correct answer text changed from %q to %q", text, want, after[text])
		}
	}
}

func TestBalance_CeilingPropertyAcrossSizes(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	ceiling := func(n int) int { return n/4 + 1 }

	for n := 2; n <= 12; n++ {
		for trial := 0; trial < 50; trial++ {
			questions := make([]*Question, n)
			for i := range questions {
				questions[i] = mcq(string(rune('a'+i)), rng.Intn(4))
			}
			before := answerTexts(questions)

			// Rebalancing only triggers when some position exceeds the
			// ceiling; a batch within the ceiling passes through even if
			// the counts do not match the even-split targets.
			initial := make([]int, 4)
			for _, q := range questions {
				initial[q.CorrectAnswer]++
			}
			triggered := false
			for _, c := range initial {
				if c > ceiling(n) {
					triggered = true
					break
				}
			}

			swapped := NewBalancer(rng).Balance(questions)

			counts := make([]int, 4)
			for _, q := range questions {
				counts[q.CorrectAnswer]++
			}
			if triggered {
				for pos, c := range counts {
					if c > targetFor(n, pos) {
						t.Fatalf("n=%d trial=%d: position %d holds %d, target %d", n, trial, pos, c, targetFor(n, pos))
					}
				}
			} else {
				if swapped != 0 {
					t.Fatalf("n=%d trial=%d: batch within the ceiling was mutated (%d swaps)", n, trial, swapped)
				}
				for pos, c := range counts {
					if c > ceiling(n) {
						t.Fatalf("n=%d trial=%d: position %d holds %d, ceiling %d", n, trial, pos, c, ceiling(n))
					}
				}
			}

			after := answerTexts(questions)
			for text, want := range before {
				if after[text] != want {
					t.Fatalf("n=%d trial=%d: answer text drifted for %q", n, trial, text)
				}
			}

			for _, q := range questions {
				opts := append([]string(nil), q.Options...)
				sort.Strings(opts)
				if len(opts) != 4 {
					t.Fatalf("option count changed: %v", q.Options)
				}
			}
		}
	}
}

func TestBalance_WithinCeilingLeftUntouched(t *testing.T) {
	// n=2: ceiling is 2/4+1 = 1. One answer each at positions 0 and 2 stays
	// within the ceiling, so the batch passes through unchanged even though
	// the even split would prefer positions 0 and 1.
	questions := []*Question{
		mcq("Q1", 0),
		mcq("Q2", 2),
	}

	if swapped := NewBalancer(rand.New(rand.NewSource(2))).Balance(questions); swapped != 0 {
		t.Errorf("expected zero swaps within the ceiling, got %d", swapped)
	}
	if questions[0].CorrectAnswer != 0 || questions[1].CorrectAnswer != 2 {
		t.Errorf("positions changed: %d, %d", questions[0].CorrectAnswer, questions[1].CorrectAnswer)
	}
}

func TestBalance_IdempotentOnBalancedBatch(t *testing.T) {
	questions := []*Question{
		mcq("Q1", 0),
		mcq("Q2", 1),
		mcq("Q3", 2),
		mcq("Q4", 3),
	}

	b := NewBalancer(rand.New(rand.NewSource(1)))
	if swapped := b.Balance(questions); swapped != 0 {
		t.Errorf("expected zero swaps on a balanced batch, got %d", swapped)
	}

	for i, want := range []int{0, 1, 2, 3} {
		if questions[i].CorrectAnswer != want {
			t.Errorf("question %d moved to %d", i, questions[i].CorrectAnswer)
		}
	}
}

func TestBalance_SingleQuestionPassesThrough(t *testing.T) {
	questions := []*Question{mcq("only", 0)}

	if swapped := NewBalancer(nil).Balance(questions); swapped != 0 {
		t.Errorf("expected no swaps for a single question, got %d", swapped)
	}
	if questions[0].CorrectAnswer != 0 {
		t.Error("single question was mutated")
	}
}

func TestBalance_TrueFalseNeverAltered(t *testing.T) {
	questions := []*Question{
		{Text: "T1", Options: []string{"True", "False"}, CorrectAnswer: 0, Type: TypeTrueFalse},
		{Text: "T2", Options: []string{"True", "False"}, CorrectAnswer: 0, Type: TypeTrueFalse},
		{Text: "T3", Options: []string{"False", "True"}, CorrectAnswer: 0, Type: TypeTrueFalse},
		{Text: "T4", Options: []string{"True", "False"}, CorrectAnswer: 0, Type: TypeTrueFalse},
	}

	// The generator only balances mcq batches; even if a tf batch slipped
	// through, two-option questions can only swap between positions 0 and 1
	// within target bounds. Verify the pipeline-level exemption holds.
	g := New(stubClient(`{"questions":[
		{"question":"T1","options":["True","False"],"correctAnswer":0},
		{"question":"T2","options":["True","False"],"correctAnswer":0},
		{"question":"T3","options":["False","True"],"correctAnswer":0},
		{"question":"T4","options":["True","False"],"correctAnswer":0}]}`), NewBalancer(rand.New(rand.NewSource(3))))

	got, err := g.Generate(context.Background(), Request{Notes: "n", NumQuestions: 4, Type: TypeTrueFalse})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, q := range got {
		if q.Options[0] != questions[i].Options[0] || q.CorrectAnswer != 0 {
			t.Errorf("true/false question %d was altered: %v correct=%d", i, q.Options, q.CorrectAnswer)
		}
	}
}

func TestBalance_InvalidIndexExcluded(t *testing.T) {
	broken := &Question{Text: "broken", Options: []string{"A", "B", "C", "D"}, CorrectAnswer: 9}
	questions := []*Question{
		mcq("Q1", 0),
		mcq("Q2", 0),
		mcq("Q3", 0),
		broken,
	}

	NewBalancer(rand.New(rand.NewSource(5))).Balance(questions)

	if broken.CorrectAnswer != 9 {
		t.Errorf("invalid question was mutated: correctAnswer=%d", broken.CorrectAnswer)
	}
	for i, opt := range []string{"A", "B", "C", "D"} {
		if broken.Options[i] != opt {
			t.Errorf("invalid question options were permuted: %v", broken.Options)
		}
	}
}

func TestBalance_StopsOnceWithinTargets(t *testing.T) {
	// 5 questions, targets {2,1,1,1}. Three answers on position 0 means
	// exactly one move is enough.
	questions := []*Question{
		mcq("Q1", 0),
		mcq("Q2", 0),
		mcq("Q3", 0),
		mcq("Q4", 1),
		mcq("Q5", 2),
	}

	swapped := NewBalancer(rand.New(rand.NewSource(11))).Balance(questions)

	if swapped != 1 {
		t.Errorf("expected exactly 1 swap, got %d", swapped)
	}
}
