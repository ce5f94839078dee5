package services

import "github.com/mhartkopf/einsatzplan/pkg/core/model"

// usersByID indexes users for assignment and coverage resolution
func usersByID(users []model.User) map[string]model.User {
	byID := make(map[string]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID
}
