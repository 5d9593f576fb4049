package dto

import (
	"ai-pdfstudy-be/pkg/conversation"
	"ai-pdfstudy-be/pkg/store"
)

type SelectDocumentRequest struct {
	Username string `query:"username" validate:"required"`
	File     string `query:"file" validate:"required"`
}

type SelectDocumentResponse struct {
	Status string `json:"status"`
}

// ModelResponseRequest is one chat turn. History holds the earlier exchanges
// the client still shows, as two aligned lists. Username may also come from
// the query string.
type ModelResponseRequest struct {
	Username   string               `json:"username" validate:"required"`
	Query      string               `json:"query" validate:"required"`
	History    conversation.History `json:"history"`
	UsedTokens int                  `json:"usedTokens" validate:"gte=0"`
}

type ModelResponseResponse struct {
	Response       string                `json:"response"`
	UsedTokens     int                   `json:"usedTokens"`
	UpdatedHistory *conversation.History `json:"updatedHistory"`
}

type SessionResponse = store.Snapshot
