package model

type Group struct {
	Base
	Name    string `json:"name"`
	Code    string `gorm:"unique" json:"code"`
	OwnerID uint   `json:"owner_id"`
	Posts   []Post `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
