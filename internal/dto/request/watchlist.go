package request

type WatchListRequest struct {
	PlatformID string `json:"platform_id" validate:"required,uuid"`
	Title      string `json:"title" validate:"required,min=1,max=50"`
	Storyline  string `json:"storyline" validate:"max=200"`
	Active     *bool  `json:"active"`
}

// IsActive defaults an omitted flag to true.
func (r WatchListRequest) IsActive() bool {
	return r.Active == nil || *r.Active
}
