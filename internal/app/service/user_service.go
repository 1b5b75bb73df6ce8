package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"resource_hub/internal/domain/model"
	"resource_hub/internal/domain/repository"
)

type UserService struct {
	userRepo repository.UserRepository
	log      logrus.FieldLogger
}

func NewUserService(userRepo repository.UserRepository, log logrus.FieldLogger) *UserService {
	return &UserService{userRepo: userRepo, log: log.WithField("service", "users")}
}

type UpdateUserRequest struct {
	Role   *string `json:"role,omitempty" validate:"omitempty,oneof=admin user"`
	Status *string `json:"status,omitempty" validate:"omitempty,oneof=active suspended"`
}

type UpdateRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin user"`
}

func (s *UserService) List(ctx context.Context) ([]model.UserSummary, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	out := make([]model.UserSummary, 0, len(users))
	for i := range users {
		out = append(out, users[i].Summary())
	}
	return out, nil
}

func (s *UserService) Update(ctx context.Context, id string, req UpdateUserRequest) (*model.UserSummary, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := checkID("user", id); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Status != nil {
		user.Status = *req.Status
	}
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role, "status": user.Status}).Info("User updated")
	summary := user.Summary()
	return &summary, nil
}

func (s *UserService) UpdateRole(ctx context.Context, id string, req UpdateRoleRequest) (*model.UserSummary, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	return s.Update(ctx, id, UpdateUserRequest{Role: &req.Role})
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := checkID("user", id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithField("user_id", id).Info("User deleted")
	return nil
}
