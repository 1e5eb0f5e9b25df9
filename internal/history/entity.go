// AngelaMos | 2026
// entity.go

package history

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// ImageList stores the base64 image payloads as a JSONB column.
type ImageList []string

func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		l = ImageList{}
	}
	return json.Marshal(l)
}

func (l *ImageList) Scan(src any) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	case nil:
		*l = ImageList{}
		return nil
	default:
		return fmt.Errorf("scan image list: unsupported type %T", src)
	}
}

// Record is one generation attempt. Records are immutable once written;
// the only later mutation is the demo-claim reassignment of user_id.
type Record struct {
	ID              string    `db:"id"`
	UserID          *string   `db:"user_id"`
	CompanyName     string    `db:"company_name"`
	Layout          string    `db:"layout"`
	Style           string    `db:"style"`
	PrimaryColor    string    `db:"primary_color"`
	BackgroundColor string    `db:"background_color"`
	AdditionalInfo  string    `db:"additional_info"`
	Images          ImageList `db:"images"`
	Status          string    `db:"status"`
	ErrorMessage    *string   `db:"error_message"`
	GenerationMS    int64     `db:"generation_ms"`
	ModelUsed       string    `db:"model_used"`
	CreatedAt       time.Time `db:"created_at"`
}

func (r *Record) IsDemo() bool {
	return r.UserID == nil || *r.UserID == ""
}

// RecordSummary is the admin reporting view: a logo row with its owner's
// email resolved, image payloads omitted.
type RecordSummary struct {
	ID           string    `db:"id"`
	UserID       *string   `db:"user_id"`
	UserEmail    *string   `db:"user_email"`
	CompanyName  string    `db:"company_name"`
	Layout       string    `db:"layout"`
	Style        string    `db:"style"`
	Status       string    `db:"status"`
	ModelUsed    string    `db:"model_used"`
	GenerationMS int64     `db:"generation_ms"`
	CreatedAt    time.Time `db:"created_at"`
}
