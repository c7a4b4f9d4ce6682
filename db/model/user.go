package model

type User struct {
	Base
	Email       string `gorm:"unique" json:"email"`
	Displayname string `json:"displayname"`
	Pass        string `json:"-"`
}

// DisplayName falls back to the email, then "Unknown", when the user never
// set a display name.
func (u *User) DisplayName() string {
	if u.Displayname != "" {
		return u.Displayname
	}
	if u.Email != "" {
		return u.Email
	}
	return "Unknown"
}
