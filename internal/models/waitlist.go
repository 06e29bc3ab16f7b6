package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
)

// FeatureList is an ordered set of feature names stored as a JSON array
// in a single column, so the survey's multi-select answer round-trips
// without a join table.
type FeatureList []string

func (f FeatureList) Value() (driver.Value, error) {
	if f == nil {
		return nil, nil
	}
	b, err := json.Marshal([]string(f))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (f *FeatureList) Scan(value interface{}) error {
	if value == nil {
		*f = nil
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for FeatureList", value)
	}

	if len(raw) == 0 {
		*f = nil
		return nil
	}

	return json.Unmarshal(raw, (*[]string)(f))
}

type WaitlistEntry struct {
	gorm.Model
	Email             string      `gorm:"not null;unique;index"`
	HowHeard          *string     `gorm:"size:100"`
	UserType          *string     `gorm:"size:50"`
	DesiredFeatures   FeatureList `gorm:"type:text"`
	OrderingFrequency *string     `gorm:"size:50"`
	OtherFeedback     *string     `gorm:"type:text"`
}
