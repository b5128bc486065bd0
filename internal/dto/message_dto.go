package dto

type SendMessageRequest struct {
	Body string `json:"body"`
}
