package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/sirupsen/logrus"

	"resource_hub/internal/domain/model"
	"resource_hub/internal/domain/repository"
	"resource_hub/internal/platform/events"
)

type ResourceService struct {
	resourceRepo repository.ResourceRepository
	events       events.Publisher
	log          logrus.FieldLogger
}

func NewResourceService(resourceRepo repository.ResourceRepository, pub events.Publisher, log logrus.FieldLogger) *ResourceService {
	return &ResourceService{resourceRepo: resourceRepo, events: pub, log: log.WithField("service", "resources")}
}

type CreateResourceRequest struct {
	Name     string   `json:"name" validate:"required,notblank"`
	Link     string   `json:"link" validate:"required,url"`
	Category string   `json:"category" validate:"required,notblank"`
	Type     string   `json:"type" validate:"required,notblank"`
	Tags     []string `json:"tags" validate:"omitempty,dive,notblank"`
}

// UpdateResourceRequest is a partial update; nil fields are left unchanged.
type UpdateResourceRequest struct {
	Name     *string   `json:"name,omitempty" validate:"omitempty,notblank"`
	Link     *string   `json:"link,omitempty" validate:"omitempty,url"`
	Category *string   `json:"category,omitempty" validate:"omitempty,notblank"`
	Type     *string   `json:"type,omitempty" validate:"omitempty,notblank"`
	Tags     *[]string `json:"tags,omitempty" validate:"omitempty,dive,notblank"`
}

// List returns one page of resources carrying any of tags (all resources
// when tags is empty).
func (s *ResourceService) List(ctx context.Context, page model.Page, tags []string) (*model.PageResult[model.Resource], error) {
	resources, total, err := s.resourceRepo.List(ctx, model.ResourceFilter{
		Tags:   normalizeTags(tags),
		Limit:  page.Limit,
		Offset: page.Offset(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	return &model.PageResult[model.Resource]{Total: total, Page: page.Page, Limit: page.Limit, Data: resources}, nil
}

func (s *ResourceService) Get(ctx context.Context, id string) (*model.Resource, error) {
	if err := checkID("resource", id); err != nil {
		return nil, err
	}
	return s.resourceRepo.FindByID(ctx, id)
}

func (s *ResourceService) Create(ctx context.Context, req CreateResourceRequest) (*model.Resource, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	res := &model.Resource{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Slug:     slug.Make(req.Name),
		Link:     req.Link,
		Category: req.Category,
		Type:     req.Type,
		Tags:     normalizeTags(req.Tags),
	}
	if err := s.resourceRepo.Create(ctx, res); err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	s.log.WithFields(logrus.Fields{"resource_id": res.ID, "name": res.Name}).Info("Resource created")
	publish(ctx, s.events, s.log, events.ResourceCreated, res)
	return res, nil
}

func (s *ResourceService) Update(ctx context.Context, id string, req UpdateResourceRequest) (*model.Resource, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	res, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	before := *res
	before.Tags = append([]string(nil), res.Tags...)

	if req.Name != nil {
		res.Name = *req.Name
		res.Slug = slug.Make(res.Name)
	}
	if req.Link != nil {
		res.Link = *req.Link
	}
	if req.Category != nil {
		res.Category = *req.Category
	}
	if req.Type != nil {
		res.Type = *req.Type
	}
	if req.Tags != nil {
		res.Tags = normalizeTags(*req.Tags)
	}
	// A repeated update returns the stored record untouched, updatedAt included.
	if sameResource(&before, res) {
		return res, nil
	}
	if err := s.resourceRepo.Update(ctx, res); err != nil {
		return nil, err
	}
	s.log.WithField("resource_id", res.ID).Info("Resource updated")
	publish(ctx, s.events, s.log, events.ResourceUpdated, res)
	return res, nil
}

func (s *ResourceService) Delete(ctx context.Context, id string) error {
	if err := checkID("resource", id); err != nil {
		return err
	}
	if err := s.resourceRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.WithField("resource_id", id).Info("Resource deleted")
	publish(ctx, s.events, s.log, events.ResourceDeleted, map[string]string{"id": id})
	return nil
}

func sameResource(a, b *model.Resource) bool {
	return a.Name == b.Name && a.Slug == b.Slug && a.Link == b.Link &&
		a.Category == b.Category && a.Type == b.Type && slices.Equal(a.Tags, b.Tags)
}
