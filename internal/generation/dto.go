// AngelaMos | 2026
// dto.go

package generation

type GenerateRequest struct {
	UserAPIKey              string `json:"userAPIKey,omitempty"      validate:"omitempty,max=200"`
	CompanyName             string `json:"companyName"               validate:"required,min=1,max=100"`
	SelectedLayout          string `json:"selectedLayout"            validate:"required,oneof=solo side stack"`
	SelectedStyle           string `json:"selectedStyle"             validate:"required,oneof=tech flashy modern playful abstract minimal"`
	SelectedPrimaryColor    string `json:"selectedPrimaryColor"      validate:"required,min=1,max=50"`
	SelectedBackgroundColor string `json:"selectedBackgroundColor"   validate:"required,min=1,max=50"`
	AdditionalInfo          string `json:"additionalInfo,omitempty"  validate:"omitempty,max=500"`
	NumberOfImages          int    `json:"numberOfImages"            validate:"required,gte=1"`
}

type GenerateResponse struct {
	Images           []string `json:"images"`
	RemainingCredits *int     `json:"remaining_credits,omitempty"`
	GenerationMS     int64    `json:"generation_ms"`
	ModelUsed        string   `json:"model_used"`
}
