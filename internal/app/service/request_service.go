package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"resource_hub/internal/domain/model"
	"resource_hub/internal/domain/repository"
	"resource_hub/internal/platform/events"
)

type RequestService struct {
	requestRepo repository.RequestRepository
	events      events.Publisher
	log         logrus.FieldLogger
	now         func() time.Time
}

func NewRequestService(requestRepo repository.RequestRepository, pub events.Publisher, log logrus.FieldLogger) *RequestService {
	return &RequestService{
		requestRepo: requestRepo,
		events:      pub,
		log:         log.WithField("service", "requests"),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

type CreateRequestRequest struct {
	UserName     string              `json:"userName" validate:"required,notblank"`
	ResourceName string              `json:"resourceName" validate:"required,notblank"`
	ResourceType string              `json:"resourceType" validate:"required,notblank"`
	RequestDate  *time.Time          `json:"requestDate,omitempty"`
	Status       model.RequestStatus `json:"status,omitempty" validate:"omitempty,requeststatus"`
}

// UpdateRequestRequest is a partial update; admins mostly toggle Status.
type UpdateRequestRequest struct {
	UserName     *string              `json:"userName,omitempty" validate:"omitempty,notblank"`
	ResourceName *string              `json:"resourceName,omitempty" validate:"omitempty,notblank"`
	ResourceType *string              `json:"resourceType,omitempty" validate:"omitempty,notblank"`
	RequestDate  *time.Time           `json:"requestDate,omitempty"`
	Status       *model.RequestStatus `json:"status,omitempty" validate:"omitempty,requeststatus"`
}

// StatusChange is the payload of request.status_changed events.
type StatusChange struct {
	ID   string              `json:"id"`
	From model.RequestStatus `json:"from"`
	To   model.RequestStatus `json:"to"`
}

func (s *RequestService) List(ctx context.Context, page model.Page) (*model.PageResult[model.Request], error) {
	requests, total, err := s.requestRepo.List(ctx, page.Limit, page.Offset())
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	return &model.PageResult[model.Request]{Total: total, Page: page.Page, Limit: page.Limit, Data: requests}, nil
}

func (s *RequestService) Create(ctx context.Context, req CreateRequestRequest) (*model.Request, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	r := &model.Request{
		ID:           uuid.NewString(),
		UserName:     req.UserName,
		ResourceName: req.ResourceName,
		ResourceType: req.ResourceType,
		RequestDate:  s.now(),
		Status:       model.RequestStatusPending,
	}
	if req.RequestDate != nil {
		r.RequestDate = req.RequestDate.UTC()
	}
	if req.Status != "" {
		r.Status = req.Status
	}
	if err := s.requestRepo.Create(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	s.log.WithFields(logrus.Fields{"request_id": r.ID, "user_name": r.UserName}).Info("Resource request created")
	publish(ctx, s.events, s.log, events.RequestCreated, r)
	return r, nil
}

func (s *RequestService) Update(ctx context.Context, id string, req UpdateRequestRequest) (*model.Request, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := checkID("request", id); err != nil {
		return nil, err
	}
	r, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *r

	if req.UserName != nil {
		r.UserName = *req.UserName
	}
	if req.ResourceName != nil {
		r.ResourceName = *req.ResourceName
	}
	if req.ResourceType != nil {
		r.ResourceType = *req.ResourceType
	}
	if req.RequestDate != nil {
		r.RequestDate = req.RequestDate.UTC()
	}
	if req.Status != nil {
		r.Status = *req.Status
	}
	if sameRequest(&before, r) {
		return r, nil
	}
	if err := s.requestRepo.Update(ctx, r); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"request_id": r.ID, "status": r.Status}).Info("Resource request updated")
	publish(ctx, s.events, s.log, events.RequestUpdated, r)
	if r.Status != before.Status {
		publish(ctx, s.events, s.log, events.RequestStatusChanged, StatusChange{ID: r.ID, From: before.Status, To: r.Status})
	}
	return r, nil
}

func (s *RequestService) Delete(ctx context.Context, id string) error {
	if err := checkID("request", id); err != nil {
		return err
	}
	if err := s.requestRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithField("request_id", id).Info("Resource request deleted")
	publish(ctx, s.events, s.log, events.RequestDeleted, map[string]string{"id": id})
	return nil
}

func sameRequest(a, b *model.Request) bool {
	return a.UserName == b.UserName && a.ResourceName == b.ResourceName &&
		a.ResourceType == b.ResourceType && a.RequestDate.Equal(b.RequestDate) && a.Status == b.Status
}
