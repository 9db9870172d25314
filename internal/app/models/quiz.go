package models

// QuizOption is one answer of a career quiz question. Choosing it adds one
// point to every listed course category.
type QuizOption struct {
	ID         string   `json:"id"`
	Text       string   `json:"text"`
	Categories []string `json:"-"`
}

// QuizQuestion is one question of the career-interest quiz
type QuizQuestion struct {
	ID      string       `json:"id"`
	Text    string       `json:"text"`
	Options []QuizOption `json:"options"`
}
