package request

type PlatformRequest struct {
	Name    string `json:"name" validate:"required,min=1,max=30"`
	About   string `json:"about" validate:"max=150"`
	Website string `json:"website" validate:"omitempty,url,max=100"`
}
