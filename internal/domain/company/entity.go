package company

type Company struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	LogoURL       string `json:"logoUrl,omitempty"`
	Industry      string `json:"industry,omitempty"`
	Address       string `json:"address,omitempty"`
	Verified      bool   `json:"verified"`
	OpenPositions int64  `json:"openPositions"`
}
