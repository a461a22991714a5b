package generator

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubClient returns a canned model response.
type stubClient string

func (s stubClient) Complete(_ context.Context, _ string) (string, error) {
	return string(s), nil
}

type failingClient struct {
	err error
}

func (f failingClient) Complete(_ context.Context, _ string) (string, error) {
	return "", f.err
}

func TestGenerate_BalancesSkewedMultipleChoice(t *testing.T) {
	response := `Here is your quiz:
{"questions":[
	{"question":"Q1","options":["A","B","C","D"],"correctAnswer":0},
	{"question":"Q2","options":["A","B","C","D"],"correctAnswer":0},
	{"question":"Q3","options":["A","B","C","D"],"correctAnswer":0},
	{"question":"Q4","options":["A","B","C","D"],"correctAnswer":0}]}`

	g := New(stubClient(response), NewBalancer(rand.New(rand.NewSource(9))))

	questions, err := g.Generate(context.Background(), Request{Notes: "photosynthesis", NumQuestions: 4, Type: TypeMultipleChoice})
	require.NoError(t, err)
	require.Len(t, questions, 4)

	counts := make([]int, 4)
	for _, q := range questions {
		require.Equal(t, TypeMultipleChoice, q.Type)
		require.Equal(t, DifficultyNormal, q.Difficulty)
		counts[q.CorrectAnswer]++
		// The correct answer text must survive the swap.
		assert.Equal(t, "A", q.Options[q.CorrectAnswer])
	}
	for pos, c := range counts {
		assert.LessOrEqual(t, c, 1, "position %d over target", pos)
	}
}

func TestGenerate_ClientErrorPassesThrough(t *testing.T) {
	wantErr := NewError(CodeAuthError, errors.New("401"))
	g := New(failingClient{err: wantErr}, nil)

	_, err := g.Generate(context.Background(), Request{Notes: "n"})
	require.Error(t, err)

	code, ok := CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, CodeAuthError, code)
}

func TestGenerate_TruncatesToRequestedCount(t *testing.T) {
	response := `{"questions":[
	{"question":"Q1","options":["A","B","C","D"],"correctAnswer":0},
	{"question":"Q2","options":["A","B","C","D"],"correctAnswer":1},
	{"question":"Q3","options":["A","B","C","D"],"correctAnswer":2}]}`

	g := New(stubClient(response), NewBalancer(rand.New(rand.NewSource(1))))

	questions, err := g.Generate(context.Background(), Request{Notes: "n", NumQuestions: 2, Type: TypeMultipleChoice})
	require.NoError(t, err)
	assert.Len(t, questions, 2)
}

func TestRequest_Normalize(t *testing.T) {
	tests := []struct {
		name      string
		req       Request
		wantCount int
		wantType  QuestionType
		wantDiff  Difficulty
	}{
		{"defaults", Request{}, DefaultQuestions, TypeMultipleChoice, DifficultyNormal},
		{"clamped high", Request{NumQuestions: 50}, MaxQuestions, TypeMultipleChoice, DifficultyNormal},
		{"unknown type falls back", Request{NumQuestions: 3, Type: "essay"}, 3, TypeMultipleChoice, DifficultyNormal},
		{"tf preserved", Request{NumQuestions: 3, Type: TypeTrueFalse, Difficulty: DifficultyDifficult}, 3, TypeTrueFalse, DifficultyDifficult},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Normalize()
			assert.Equal(t, tt.wantCount, tt.req.NumQuestions)
			assert.Equal(t, tt.wantType, tt.req.Type)
			assert.Equal(t, tt.wantDiff, tt.req.Difficulty)
		})
	}
}
