package validators

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/ggowrisankar/weight-tracker/models"
	"github.com/go-playground/validator/v10"
)

// Custom tags registered on the shared validator instance.
const (
	tagMonthKey = "month_key"
	tagDayKey   = "day_key"
)

// Tag rules for the map types. dive,keys...endkeys validates the map keys,
// the trailing rules apply to the values.
const (
	monthRules    = "dive,keys," + tagDayKey + ",endkeys,gte=30,lte=300"
	documentRules = "dive,keys," + tagMonthKey + ",endkeys," + monthRules
)

// WeightValidator implements Validator for the server's request models:
// credentials and password DTOs, weight documents, single months, month
// references and locations.
//
// Struct DTOs are validated by their `validate` tags; optional field names
// restrict validation to those struct fields.
type WeightValidator struct {
	validate *validator.Validate
}

// NewWeightValidator constructs a WeightValidator with the month and day key
// rules registered.
func NewWeightValidator() Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation(tagMonthKey, func(fl validator.FieldLevel) bool {
		_, err := models.ParseMonthKey(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation(tagDayKey, func(fl validator.FieldLevel) bool {
		return models.ValidDay(fl.Field().String())
	})

	return &WeightValidator{validate: v}
}

// Validate dispatches on the dynamic type of obj. Both value and pointer
// forms of the struct DTOs are accepted.
//
// Returns ErrUnsupportedType if obj does not match any known model.
func (v *WeightValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.WeightDocument:
		return v.mapErr(v.validate.VarCtx(ctx, value, documentRules))
	case models.MonthMap:
		return v.mapErr(v.validate.VarCtx(ctx, value, monthRules))
	case models.MonthRef:
		if !value.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidMonthKey, value.Key())
		}
		return nil
	case models.MigrateRequest:
		return v.validateMigrate(ctx, value, fields...)
	case *models.MigrateRequest:
		return v.validateMigrate(ctx, *value, fields...)
	case models.Location, *models.Location:
		if err := v.structCtx(ctx, value, fields...); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidLocation, err)
		}
		return nil
	case models.Credentials, *models.Credentials,
		models.NewPasswordRequest, *models.NewPasswordRequest,
		models.PasswordResetRequest, *models.PasswordResetRequest,
		models.RefreshRequest, *models.RefreshRequest:
		return v.structCtx(ctx, value, fields...)
	default:
		return ErrUnsupportedType
	}
}

func (v *WeightValidator) validateMigrate(ctx context.Context, req models.MigrateRequest, fields ...string) error {
	if err := v.structCtx(ctx, req, fields...); err != nil {
		return err
	}
	return v.mapErr(v.validate.VarCtx(ctx, req.Data, documentRules))
}

func (v *WeightValidator) structCtx(ctx context.Context, value any, fields ...string) error {
	var err error
	if len(fields) > 0 {
		err = v.validate.StructPartialCtx(ctx, value, fields...)
	} else {
		err = v.validate.StructCtx(ctx, value)
	}
	return v.mapErr(err)
}

// mapErr turns the first validator.FieldError into one of the package
// sentinels.
func (v *WeightValidator) mapErr(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidField, err)
	}

	fe := fieldErrs[0]
	switch fe.Tag() {
	case tagMonthKey:
		return fmt.Errorf("%w: %v", ErrInvalidMonthKey, fe.Value())
	case tagDayKey:
		return fmt.Errorf("%w: %v", ErrInvalidDay, fe.Value())
	case "gte", "lte":
		if fe.Kind() == reflect.Float64 {
			return fmt.Errorf("%w: %v at %s", ErrWeightOutOfRange, fe.Value(), fe.Namespace())
		}
	}
	return fmt.Errorf("%w: %s failed on %q", ErrInvalidField, fe.Field(), fe.Tag())
}
