package domain

type User struct {
	ID               string
	Username         string
	Skills           []string
	IsLookingForTeam bool
}

// DisplayName возвращает имя пользователя или его ID, если имя пустое
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Username != "" {
		return u.Username
	}
	return u.ID
}
