package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"filmorate/internal/domain"
	"filmorate/internal/store"
)

// UserService регистрация и профили пользователей.
type UserService struct {
	gate   *Gate
	users  store.UserStore
	logger *slog.Logger
	now    func() time.Time
}

// normalize проверяет поля, которые не выразить тегами validate, и подставляет логин
// вместо пустого имени.
func (s *UserService) normalize(req *domain.UserRequest) (*domain.User, error) {
	if strings.ContainsAny(req.Login, " \t\n\r") {
		return nil, validation("login must not contain whitespace")
	}
	// Дата рождения необязательна.
	if !req.Birthday.IsZero() && req.Birthday.After(s.now()) {
		return nil, validation("birthday must not be in the future")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = req.Login
	}
	return &domain.User{
		ID:       req.ID,
		Email:    strings.TrimSpace(req.Email),
		Login:    req.Login,
		Name:     name,
		Birthday: req.Birthday,
	}, nil
}

func (s *UserService) Create(ctx context.Context, req *domain.UserRequest) (*domain.User, error) {
	user, err := s.normalize(req)
	if err != nil {
		return nil, err
	}
	user.ID = 0
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailAlreadyExists) {
			return nil, conflict("user with email %s already exists", user.Email)
		}
		return nil, internal(err, "failed to create user")
	}
	s.logger.InfoContext(ctx, "User created", slog.Int64("userID", user.ID), slog.String("login", user.Login))
	return user, nil
}

func (s *UserService) Update(ctx context.Context, req *domain.UserRequest) (*domain.User, error) {
	if req.ID <= 0 {
		return nil, validation("user id is required")
	}
	user, err := s.normalize(req)
	if err != nil {
		return nil, err
	}
	if err := s.gate.RequireUser(ctx, user.ID); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		switch {
		case errors.Is(err, store.ErrUserNotFound):
			return nil, notFound("user with id %d not found", user.ID)
		case errors.Is(err, store.ErrEmailAlreadyExists):
			return nil, conflict("user with email %s already exists", user.Email)
		}
		return nil, internal(err, "failed to update user %d", user.ID)
	}
	s.logger.InfoContext(ctx, "User updated", slog.Int64("userID", user.ID))
	return user, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, notFound("user with id %d not found", id)
		}
		return nil, internal(err, "failed to get user %d", id)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, internal(err, "failed to list users")
	}
	return users, nil
}
