package dto

type EmailValidityQuery struct {
	Email string `query:"email"`
}

// EmailValidityResponse carries the normalized address when Status is 200,
// otherwise the reason it was rejected.
type EmailValidityResponse struct {
	Result string `json:"result"`
	Status int    `json:"status"`
}
