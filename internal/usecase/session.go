package usecase

import "jobnest/internal/domain/user"

// CurrentUser is the slice of the auth session the feature flows read.
type CurrentUser interface {
	User() (user.User, bool)
}

func loggedIn(s CurrentUser) (user.User, bool) {
	if s == nil {
		return user.User{}, false
	}
	return s.User()
}
