package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"resource_hub/internal/common"
	"resource_hub/internal/domain/model"
	"resource_hub/internal/platform/events"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names so messages match what the client sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("requeststatus", func(fl validator.FieldLevel) bool {
		return model.RequestStatus(fl.Field().String()).Valid()
	}); err != nil {
		panic(err)
	}
	return v
}

// validateStruct returns a *common.ValidationError for the first failing
// field.
func validateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &common.ValidationError{Field: fe.Field(), Message: fieldMessage(fe)}
	}
	return fmt.Errorf("validate %T: %w", s, err)
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "url", "uri":
		return field + " must be a valid URI"
	case "requeststatus":
		return fmt.Sprintf("%s must be one of %v", field, model.RequestStatuses)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
	}
	return field + " is invalid"
}

// checkID rejects ids that cannot exist so lookups short-circuit to NotFound.
func checkID(entity, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%s %w", entity, common.ErrNotFound)
	}
	return nil
}

// normalizeTags trims tags and drops duplicates, keeping first occurrence
// order.
func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// publish is best effort; the write has already been committed.
func publish(ctx context.Context, pub events.Publisher, log logrus.FieldLogger, event string, data interface{}) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, event, data); err != nil {
		log.WithError(err).WithField("event", event).Warn("Failed to publish domain event")
	}
}
