package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/Alturino/bookstore/internal/common"
	"github.com/Alturino/bookstore/internal/common/constants"
	commonErrors "github.com/Alturino/bookstore/internal/common/errors"
	"github.com/Alturino/bookstore/internal/log"
	"github.com/Alturino/bookstore/internal/storage"
	userErrors "github.com/Alturino/bookstore/internal/user/errors"
	"github.com/Alturino/bookstore/internal/user/otel"
	"github.com/Alturino/bookstore/user/pkg/request"
	"github.com/Alturino/bookstore/user/pkg/response"
)

type storedUser struct {
	Id           string `json:"id"`
	FullName     string `json:"full_name"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	PasswordHash string `json:"password_hash"`
}

type session struct {
	UserId     string    `json:"user_id"`
	LoggedInAt time.Time `json:"logged_in_at"`
}

// UserService keeps the user registry and the active session in durable
// client storage. The session survives restarts; a valid bearer token takes
// precedence over the persisted session when resolving the current user.
type UserService struct {
	storage   storage.Store
	secretKey string
}

func NewUserService(store storage.Store, secretKey string) *UserService {
	return &UserService{storage: store, secretKey: secretKey}
}

func (u *UserService) users(c context.Context) (map[string]storedUser, error) {
	raw, err := u.storage.Get(c, constants.STORAGE_KEY_USERS)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return map[string]storedUser{}, nil
		}
		return nil, fmt.Errorf("failed reading user registry with error=%w", err)
	}
	users := map[string]storedUser{}
	if err := json.Unmarshal([]byte(raw), &users); err != nil {
		if err := u.storage.Remove(c, constants.STORAGE_KEY_USERS); err != nil {
			return nil, fmt.Errorf("failed discarding corrupt user registry with error=%w", err)
		}
		return map[string]storedUser{}, nil
	}
	return users, nil
}

func (u *UserService) saveUsers(c context.Context, users map[string]storedUser) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("failed marshaling user registry with error=%w", err)
	}
	if err := u.storage.Set(c, constants.STORAGE_KEY_USERS, string(raw)); err != nil {
		return fmt.Errorf("failed persisting user registry with error=%w", err)
	}
	return nil
}

func (u *UserService) Register(
	c context.Context,
	param request.Register,
) (response.User, error) {
	c, span := otel.Tracer.Start(c, "UserService Register")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService Register").
		Str(log.KeyEmail, param.Email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "checking email").Logger()
	logger.Info().Msg("checking email is not registered")
	users, err := u.users(c)
	if err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.User{}, err
	}
	if _, exist := users[param.Email]; exist {
		err = userErrors.ErrEmailExist
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.User{}, err
	}
	logger.Info().Msg("checked email is not registered")

	logger = logger.With().Str(log.KeyProcess, "hashing password").Logger()
	logger.Info().Msg("hashing password")
	hashed, err := bcrypt.GenerateFromPassword([]byte(param.Password), bcrypt.DefaultCost)
	if err != nil {
		err = fmt.Errorf("failed hashing password with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.User{}, err
	}
	logger.Info().Msg("hashed password")

	logger = logger.With().Str(log.KeyProcess, "inserting user").Logger()
	logger.Info().Msg("inserting user into registry")
	user := storedUser{
		Id:           uuid.NewString(),
		FullName:     param.FullName,
		Email:        param.Email,
		Address:      param.Address,
		PasswordHash: string(hashed),
	}
	users[param.Email] = user
	if err := u.saveUsers(c, users); err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.User{}, err
	}
	logger = logger.With().Str(log.KeyUserID, user.Id).Logger()
	logger.Info().Msg("inserted user into registry")

	return response.User{
		Id:       user.Id,
		FullName: user.FullName,
		Email:    user.Email,
		Address:  user.Address,
	}, nil
}

func (u *UserService) Login(
	c context.Context,
	param request.Login,
) (response.Login, error) {
	c, span := otel.Tracer.Start(c, "UserService Login")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService Login").
		Str(log.KeyEmail, param.Email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "finding user").Logger()
	logger.Info().Msg("finding user by email")
	users, err := u.users(c)
	if err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Login{}, err
	}
	user, exist := users[param.Email]
	if !exist {
		err = userErrors.ErrUserNotFound
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Login{}, err
	}
	logger.Info().Msg("found user by email")

	logger = logger.With().Str(log.KeyProcess, "verifying password").Logger()
	logger.Info().Msg("verifying hashed password with password")
	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(param.Password))
	if err != nil {
		err = userErrors.ErrPasswordMismatch
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Login{}, err
	}
	logger.Info().Msg("verified hashed password with password")

	logger = logger.With().Str(log.KeyProcess, "creating login token").Logger()
	logger.Info().Msg("creating login token")
	userId, err := uuid.Parse(user.Id)
	if err != nil {
		err = fmt.Errorf("failed parsing userId=%s with error=%w", user.Id, err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Login{}, err
	}
	token, err := common.CreateToken(c, userId, u.secretKey)
	if err != nil {
		err = fmt.Errorf("failed creating login token with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Login{}, err
	}
	logger.Info().Msg("created login token")

	logger = logger.With().Str(log.KeyProcess, "persisting session").Logger()
	logger.Info().Msg("persisting session")
	raw, err := json.Marshal(session{UserId: user.Id, LoggedInAt: time.Now()})
	if err != nil {
		err = fmt.Errorf("failed marshaling session with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Login{}, err
	}
	if err := u.storage.Set(c, constants.STORAGE_KEY_SESSION, string(raw)); err != nil {
		err = fmt.Errorf("failed persisting session with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.Login{}, err
	}
	logger.Info().Msg("persisted session")

	return response.Login{
		Token: token,
		User: response.User{
			Id:       user.Id,
			FullName: user.FullName,
			Email:    user.Email,
			Address:  user.Address,
		},
	}, nil
}

// Current resolves the signed-in user, preferring the bearer token on the
// request over the persisted session.
func (u *UserService) Current(c context.Context) (response.User, error) {
	c, span := otel.Tracer.Start(c, "UserService Current")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService Current").
		Str(log.KeyProcess, "resolving current user").
		Logger()

	userId := ""
	if token := common.JwtTokenFromContext(c); token != nil {
		id, err := common.UserIdFromToken(token)
		if err == nil {
			userId = id.String()
		}
	}
	if userId == "" {
		raw, err := u.storage.Get(c, constants.STORAGE_KEY_SESSION)
		if err != nil {
			err = userErrors.ErrNoSession
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.User{}, err
		}
		persisted := session{}
		if err := json.Unmarshal([]byte(raw), &persisted); err != nil {
			if err := u.storage.Remove(c, constants.STORAGE_KEY_SESSION); err != nil {
				logger.Error().Err(err).Msg("failed discarding corrupt session")
			}
			err = userErrors.ErrNoSession
			commonErrors.HandleError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return response.User{}, err
		}
		userId = persisted.UserId
	}
	logger = logger.With().Str(log.KeyUserID, userId).Logger()

	users, err := u.users(c)
	if err != nil {
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return response.User{}, err
	}
	for _, user := range users {
		if user.Id == userId {
			logger.Info().Msg("resolved current user")
			return response.User{
				Id:       user.Id,
				FullName: user.FullName,
				Email:    user.Email,
				Address:  user.Address,
			}, nil
		}
	}

	err = userErrors.ErrUserNotFound
	commonErrors.HandleError(err, span)
	logger.Error().Err(err).Msg(err.Error())
	return response.User{}, err
}

func (u *UserService) Logout(c context.Context) error {
	c, span := otel.Tracer.Start(c, "UserService Logout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "UserService Logout").
		Str(log.KeyProcess, "removing session").
		Logger()

	logger.Info().Msg("removing persisted session")
	if err := u.storage.Remove(c, constants.STORAGE_KEY_SESSION); err != nil {
		err = fmt.Errorf("failed removing persisted session with error=%w", err)
		commonErrors.HandleError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("removed persisted session")

	return nil
}
