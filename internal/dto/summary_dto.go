package dto

import (
	"ai-pdfstudy-be/pkg/document"
	"ai-pdfstudy-be/pkg/textstats"
)

type SummaryResponse struct {
	SummarizedText []document.LabeledText `json:"summarized_text"`
	Statistics     textstats.Statistics   `json:"statistics"`
}
