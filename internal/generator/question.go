package generator

type QuestionType string

const (
	TypeMultipleChoice QuestionType = "mcq"
	TypeTrueFalse      QuestionType = "tf"
)

type Difficulty string

const (
	DifficultyNormal    Difficulty = "normal"
	DifficultyDifficult Difficulty = "difficult"
)

const (
	MaxQuestions     = 12
	DefaultQuestions = 6
	MaxNotesLength   = 1500
)

// Question is a single generated quiz question. Options holds exactly 4
// entries for multiple choice and exactly 2 ("True"/"False") for true/false;
// CorrectAnswer indexes into Options.
type Question struct {
	Text          string       `json:"question"`
	Options       []string     `json:"options"`
	CorrectAnswer int          `json:"correctAnswer"`
	Type          QuestionType `json:"question_type"`
	Difficulty    Difficulty   `json:"difficulty"`
}

// OptionCount returns the number of options a question of the given type
// must carry.
func OptionCount(t QuestionType) int {
	if t == TypeTrueFalse {
		return 2
	}
	return 4
}

type Request struct {
	Notes        string
	NumQuestions int
	Type         QuestionType
	Difficulty   Difficulty
}

// Normalize applies defaults and clamps the question count into [1, MaxQuestions].
func (r *Request) Normalize() {
	if r.NumQuestions <= 0 {
		r.NumQuestions = DefaultQuestions
	}
	if r.NumQuestions > MaxQuestions {
		r.NumQuestions = MaxQuestions
	}
	if r.Type != TypeTrueFalse {
		r.Type = TypeMultipleChoice
	}
	if r.Difficulty != DifficultyDifficult {
		r.Difficulty = DifficultyNormal
	}
}
