package handler

import (
	"strconv"

	"github.com/msomdec/shopfront/internal/domain"
)

func toUser(a *domain.Account) domain.User {
	return domain.User{
		ID:    strconv.FormatInt(a.ID, 10),
		Email: a.Email,
		Name:  a.Name,
	}
}

func toAuthResponse(a *domain.Account, token string) domain.AuthResponse {
	return domain.AuthResponse{User: toUser(a), Token: token}
}
