package companies

import "time"

// Company owns matching requests and supplies the render context identity.
type Company struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Industry     string    `json:"industry"`
	ContactEmail string    `json:"contactEmail"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
