package service

import (
	"github.com/templequest/temple-api/internal/auth"
	"github.com/templequest/temple-api/internal/llm"
	"github.com/templequest/temple-api/internal/logging"
	"github.com/templequest/temple-api/internal/repository"
)

type Services struct {
	Auth        *AuthService
	Temple      *TempleService
	SavedTemple *SavedTempleService
	Chat        *ChatService
}

type Deps struct {
	Repos     *repository.Repositories
	Hasher    *auth.PasswordHasher
	Tokens    *auth.TokenService
	Completer llm.Completer
	Log       logging.Logger
}

func NewServices(d Deps) *Services {
	return &Services{
		Auth:        NewAuthService(d.Repos.User, d.Hasher, d.Tokens, d.Log),
		Temple:      NewTempleService(d.Repos.Temple, d.Log),
		SavedTemple: NewSavedTempleService(d.Repos.SavedTemple, d.Repos.Temple, d.Log),
		Chat:        NewChatService(d.Completer, d.Repos.Chat, d.Log),
	}
}
