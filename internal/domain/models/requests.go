package models

// Requests for the alert HTTP endpoints. Defined in domain for consistency and reuse.

type SubscribeRequest struct {
	Name           string   `json:"name" validate:"max=120"`
	Email          string   `json:"email" validate:"omitempty,email"`
	Phone          string   `json:"phone" validate:"omitempty,e164"`
	AlertMethods   []string `json:"alertMethods" validate:"required,min=1,dive,required"`
	SelectedTopics []string `json:"selectedTopics" validate:"omitempty,dive,required"`
}

type CreateProfileRequest struct {
	Name      string   `json:"name" validate:"required"`
	Market    string   `json:"market" validate:"required"`
	Timeframe string   `json:"timeframe" validate:"required"`
	Risk      string   `json:"risk" default:"standard" validate:"max=32"`
	Symbols   []string `json:"symbols"`
	Notes     string   `json:"notes" validate:"max=2000"`
}

// Fields converts the request into the verbatim field set stored on the profile.
func (r CreateProfileRequest) Fields() ProfileFields {
	f := ProfileFields{
		"name":      r.Name,
		"market":    r.Market,
		"timeframe": r.Timeframe,
		"risk":      r.Risk,
	}
	if len(r.Symbols) > 0 {
		f["symbols"] = r.Symbols
	}
	if r.Notes != "" {
		f["notes"] = r.Notes
	}
	return f
}

type ActivateProfileRequest struct {
	ProfileID string `json:"profileId" validate:"required"`
}

type ReportRequest struct {
	ID string `param:"id" validate:"required"`
}
