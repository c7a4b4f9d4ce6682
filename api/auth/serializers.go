package auth

import "github.com/sportsme/sportsme-backend/db/model"

type InRegister struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type InSignin struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type OutUser struct {
	model.Base
	Email       string `json:"email"`
	Displayname string `json:"displayname"`
}

func newOutUser(u *model.User) *OutUser {
	return &OutUser{
		Base:        u.Base,
		Email:       u.Email,
		Displayname: u.DisplayName(),
	}
}
