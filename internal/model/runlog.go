package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// RecommendationRun is one row of recommendation_logs
type RecommendationRun struct {
	RequestID         string    `json:"request_id" db:"request_id"`
	SessionID         string    `json:"session_id" db:"session_id"`
	Language          Language  `json:"language" db:"language"`
	Location          string    `json:"location" db:"location"`
	PropertyType      string    `json:"property_type" db:"property_type"`
	BudgetMin         int64     `json:"budget_min" db:"budget_min"`
	BudgetMax         int64     `json:"budget_max" db:"budget_max"`
	Attempts          int       `json:"attempts" db:"attempts"`
	Status            string    `json:"status" db:"status"` // OK or an error code
	ResultCount       int       `json:"result_count" db:"result_count"`
	RecommendationIDs JSONArray `json:"recommendation_ids" db:"recommendation_ids"`
	ResponseTimeMs    int64     `json:"response_time_ms" db:"response_time_ms"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// RunStatusOK marks a run that returned recommendations
const RunStatusOK = "OK"

// JSONArray represents a JSON array field
type JSONArray []string

// Value implements driver.Valuer interface
func (j JSONArray) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan implements sql.Scanner interface
func (j *JSONArray) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*j = nil
		return nil
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return fmt.Errorf("unsupported type for JSONArray: %T", value)
	}
}
