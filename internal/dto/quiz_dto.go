package dto

type GenerateQuestionsRequest struct {
	Notes        string `json:"notes"`
	NumQuestions int    `json:"num_questions"`
	QuestionType string `json:"question_type"`
	Difficulty   string `json:"difficulty"`
}

type QuestionResponse struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	QuestionType  string   `json:"question_type"`
	Difficulty    string   `json:"difficulty"`
}

type GenerateQuestionsResponse struct {
	Status    string             `json:"status"`
	Questions []QuestionResponse `json:"questions"`
	Source    string             `json:"source"`
	Message   string             `json:"message"`
}

type QuotaExceededResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	ResetIn string `json:"reset_in"`
	Remaining int  `json:"remaining"`
	Limit   int    `json:"limit"`
}

type FlashcardInput struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	UserAnswer    *int     `json:"userAnswer"`
	QuestionType  string   `json:"questionType"`
	Difficulty    string   `json:"difficulty"`
}

type SaveSessionRequest struct {
	Flashcards       []FlashcardInput `json:"flashcards"`
	Notes            string           `json:"notes"`
	SessionStartTime string           `json:"session_start_time"`
	SessionEndTime   string           `json:"session_end_time"`
	SessionDuration  float64          `json:"session_duration"` // milliseconds
}

type SessionSummaryResponse struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
	TotalQuestions  int      `json:"total_questions"`
	CorrectAnswers  int      `json:"correct_answers"`
	ScorePercentage float64  `json:"score_percentage"`
	QuestionTypes   []string `json:"question_types"`
	SessionDuration float64  `json:"session_duration"`
}

type CardResponse struct {
	ID            string   `json:"id"`
	SessionID     string   `json:"session_id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	UserAnswer    *int     `json:"user_answer"`
	IsCorrect     *bool    `json:"is_correct"`
	QuestionType  string   `json:"question_type"`
	Difficulty    string   `json:"difficulty"`
	CreatedAt     string   `json:"created_at"`
}

type ChartDataResponse struct {
	Labels    []string  `json:"labels"`
	Scores    []float64 `json:"scores"`
	Questions []int     `json:"questions"`
}

type StatsEntry struct {
	Key            string `json:"key"`
	TotalQuestions int    `json:"total_questions"`
	CorrectAnswers int    `json:"correct_answers"`
}

type TypeDifficultyResponse struct {
	QuestionTypes []StatsEntry `json:"question_types"`
	Difficulties  []StatsEntry `json:"difficulties"`
}

type AnalyticsFilterRequest struct {
	SessionIDs []string `json:"session_ids"`
}
