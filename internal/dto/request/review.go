package request

type ReviewRequest struct {
	Rating      int    `json:"rating" validate:"required,min=1,max=5"`
	Description string `json:"description" validate:"max=200"`
	Active      *bool  `json:"active"`
}

// IsActive defaults an omitted flag to true.
func (r ReviewRequest) IsActive() bool {
	return r.Active == nil || *r.Active
}
