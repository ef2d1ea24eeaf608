package models

// Blacklist holds revoked access tokens (logout).
type Blacklist struct {
	Model
	Email string `json:"email"`
	Token string `json:"token" gorm:"type:text"`
}
