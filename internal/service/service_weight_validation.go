package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ggowrisankar/weight-tracker/internal/utils"
	"github.com/ggowrisankar/weight-tracker/internal/validators"
	"github.com/ggowrisankar/weight-tracker/models"
)

// weightValidationService checks ownership and payloads before delegating to
// the wrapped WeightService.
type weightValidationService struct {
	inner     WeightService
	validator validators.Validator
}

func NewWeightValidationService() WeightServiceWrapper {
	return &weightValidationService{
		validator: validators.NewWeightValidator(),
	}
}

func (v *weightValidationService) GetAll(ctx context.Context, userID int64) (models.WeightDocument, error) {
	if err := v.checkOwner(ctx, userID); err != nil {
		return nil, err
	}
	return v.inner.GetAll(ctx, userID)
}

func (v *weightValidationService) GetMonth(ctx context.Context, userID int64, ref models.MonthRef) (models.MonthMap, error) {
	if err := v.checkOwner(ctx, userID); err != nil {
		return nil, err
	}
	if err := v.validator.Validate(ctx, ref); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMonth, err)
	}
	return v.inner.GetMonth(ctx, userID, ref)
}

func (v *weightValidationService) SaveMonth(ctx context.Context, userID int64, ref models.MonthRef, month models.MonthMap) (models.MonthMap, error) {
	if err := v.checkOwner(ctx, userID); err != nil {
		return nil, err
	}
	if err := v.validator.Validate(ctx, ref); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMonth, err)
	}
	if err := v.validator.Validate(ctx, month); err != nil {
		return nil, fmt.Errorf("error during month validation before saving: %w", v.classify(err))
	}
	return v.inner.SaveMonth(ctx, userID, ref, month)
}

func (v *weightValidationService) SaveAll(ctx context.Context, userID int64, doc models.WeightDocument) (models.WeightDocument, error) {
	if err := v.checkOwner(ctx, userID); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: document is required", ErrInvalidWeightData)
	}
	if err := v.validator.Validate(ctx, doc); err != nil {
		return nil, fmt.Errorf("error during document validation before saving: %w", v.classify(err))
	}
	return v.inner.SaveAll(ctx, userID, doc)
}

func (v *weightValidationService) Migrate(ctx context.Context, userID int64, req models.MigrateRequest) (models.WeightDocument, error) {
	if err := v.checkOwner(ctx, userID); err != nil {
		return nil, err
	}
	if err := v.validator.Validate(ctx, req); err != nil {
		return nil, fmt.Errorf("error during migrate request validation: %w", v.classify(err))
	}
	return v.inner.Migrate(ctx, userID, req)
}

func (v *weightValidationService) Reset(ctx context.Context, userID int64) (models.WeightDocument, error) {
	if err := v.checkOwner(ctx, userID); err != nil {
		return nil, err
	}
	return v.inner.Reset(ctx, userID)
}

func (v *weightValidationService) Wrap(inner WeightService) WeightService {
	v.inner = inner
	return v
}

// checkOwner compares userID with the identity the auth middleware put into
// ctx.
func (v *weightValidationService) checkOwner(ctx context.Context, userID int64) error {
	ctxUserID, ok := utils.GetUserIDFromContext(ctx)
	if !ok || ctxUserID == 0 || userID == 0 {
		return ErrValidationNoUserID
	}
	if ctxUserID != userID {
		return ErrUnauthorizedAccessToDifferentUserData
	}
	return nil
}

// classify maps validator sentinels onto the service errors the HTTP layer
// knows about.
func (v *weightValidationService) classify(err error) error {
	if errors.Is(err, validators.ErrInvalidMonthKey) {
		return fmt.Errorf("%w: %w", ErrInvalidMonth, err)
	}
	return fmt.Errorf("%w: %w", ErrInvalidWeightData, err)
}
