package waitlist

import (
	"encoding/json"

	"github.com/yummyhouse/waitlist-api/internal/models"
	"github.com/yummyhouse/waitlist-api/pkg/constants"
)

// StringList unmarshals from either a JSON array of strings or a single
// string. The landing page sends question 3 as an array, but older clients
// submitted a bare string when only one feature was picked.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	var many []string
	if err := json.Unmarshal(data, &many); err == nil {
		*s = many
		return nil
	}

	var one string
	if err := json.Unmarshal(data, &one); err != nil {
		return err
	}

	*s = []string{one}
	return nil
}

// SurveyAnswers maps the landing page's numbered survey questions onto
// named fields. Unknown keys in the payload are ignored by the decoder.
//
//	1: How did you hear about us?
//	2: Are you a restaurant owner or a food lover?
//	3: What features would you like to see? (multi-select)
//	4: How often do you order food online?
type SurveyAnswers struct {
	HowHeard          *string    `json:"1" binding:"omitempty,max=100"`
	UserType          *string    `json:"2" binding:"omitempty,max=50"`
	DesiredFeatures   StringList `json:"3"`
	OrderingFrequency *string    `json:"4" binding:"omitempty,max=50"`
	OtherFeedback     *string    `json:"other_feedback" binding:"omitempty,max=5000"`
}

type SignupRequest struct {
	Email  string         `json:"email" binding:"required,email,max=255"`
	Survey *SurveyAnswers `json:"survey"`
}

type SignupResponse struct {
	ID        uint `json:"id"`
	EmailSent bool `json:"email_sent"`
}

// SignupResult is the service-level outcome of an upsert. Updated reports
// whether an existing row was overwritten instead of a new one created.
type SignupResult struct {
	ID      uint
	Updated bool
}

type WaitlistEntryResponse struct {
	ID                uint     `json:"id"`
	Email             string   `json:"email"`
	HowHeard          *string  `json:"how_heard"`
	UserType          *string  `json:"user_type"`
	DesiredFeatures   []string `json:"desired_features"`
	OrderingFrequency *string  `json:"ordering_frequency"`
	OtherFeedback     *string  `json:"other_feedback"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
}

type GroupCount struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

type StatsResponse struct {
	Total             int64        `json:"total"`
	Sources           []GroupCount `json:"sources"`
	UserTypes         []GroupCount `json:"user_types"`
	OrderingFrequency []GroupCount `json:"ordering_frequency"`
}

type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

type EntriesPage struct {
	Entries    []WaitlistEntryResponse `json:"entries"`
	Pagination Pagination              `json:"pagination"`
}

// RecipientFilter narrows a bulk-email audience. Only non-empty fields
// participate; multiple fields combine with AND.
type RecipientFilter struct {
	HowHeard          string `json:"how_heard" binding:"omitempty,max=100"`
	UserType          string `json:"user_type" binding:"omitempty,max=50"`
	OrderingFrequency string `json:"ordering_frequency" binding:"omitempty,max=50"`
}

// Recipient is the projection handed to the bulk-email path.
type Recipient struct {
	Email    string  `json:"email"`
	UserType *string `json:"user_type"`
}

// ========================================
// Mappers
// ========================================

func ToWaitlistEntryModel(req *SignupRequest) *models.WaitlistEntry {
	if req == nil {
		return nil
	}

	entry := &models.WaitlistEntry{Email: req.Email}

	if req.Survey != nil {
		entry.HowHeard = req.Survey.HowHeard
		entry.UserType = req.Survey.UserType
		entry.DesiredFeatures = models.FeatureList(req.Survey.DesiredFeatures)
		entry.OrderingFrequency = req.Survey.OrderingFrequency
		entry.OtherFeedback = req.Survey.OtherFeedback
	}

	return entry
}

func ToWaitlistEntryResponse(entry *models.WaitlistEntry) WaitlistEntryResponse {
	if entry == nil {
		return WaitlistEntryResponse{}
	}
	return WaitlistEntryResponse{
		ID:                entry.ID,
		Email:             entry.Email,
		HowHeard:          entry.HowHeard,
		UserType:          entry.UserType,
		DesiredFeatures:   []string(entry.DesiredFeatures),
		OrderingFrequency: entry.OrderingFrequency,
		OtherFeedback:     entry.OtherFeedback,
		CreatedAt:         entry.CreatedAt.Format(constants.RFC3339DateTimeFormat),
		UpdatedAt:         entry.UpdatedAt.Format(constants.RFC3339DateTimeFormat),
	}
}
