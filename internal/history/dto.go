// AngelaMos | 2026
// dto.go

package history

import (
	"time"
)

type RecordResponse struct {
	ID              string    `json:"id"`
	CompanyName     string    `json:"company_name"`
	Layout          string    `json:"layout"`
	Style           string    `json:"style"`
	PrimaryColor    string    `json:"primary_color"`
	BackgroundColor string    `json:"background_color"`
	AdditionalInfo  string    `json:"additional_info,omitempty"`
	Images          []string  `json:"images"`
	Status          string    `json:"status"`
	ErrorMessage    string    `json:"error_message,omitempty"`
	GenerationMS    int64     `json:"generation_ms"`
	ModelUsed       string    `json:"model_used"`
	CreatedAt       time.Time `json:"created_at"`
}

type ClaimResponse struct {
	Claimed int64 `json:"claimed"`
}

func ToRecordResponse(r *Record) RecordResponse {
	resp := RecordResponse{
		ID:              r.ID,
		CompanyName:     r.CompanyName,
		Layout:          r.Layout,
		Style:           r.Style,
		PrimaryColor:    r.PrimaryColor,
		BackgroundColor: r.BackgroundColor,
		AdditionalInfo:  r.AdditionalInfo,
		Images:          r.Images,
		Status:          r.Status,
		GenerationMS:    r.GenerationMS,
		ModelUsed:       r.ModelUsed,
		CreatedAt:       r.CreatedAt,
	}

	if r.ErrorMessage != nil {
		resp.ErrorMessage = *r.ErrorMessage
	}

	return resp
}

func ToRecordResponseList(records []Record) []RecordResponse {
	responses := make([]RecordResponse, 0, len(records))
	for i := range records {
		responses = append(responses, ToRecordResponse(&records[i]))
	}
	return responses
}
