package dto

type GenerateQuizRequest struct {
	QuestionTypes []string `json:"questionTypes" validate:"required,min=1,dive,required"`
	File          string   `json:"file" validate:"required"`
	Username      string   `json:"username" validate:"required"`
}

type QuizDocument struct {
	FileName string
	Content  []byte
}
