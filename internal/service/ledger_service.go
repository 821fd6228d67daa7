package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"screenbreak/internal/database"
	"screenbreak/internal/models"
	"screenbreak/internal/repository"
)

// LedgerService records challenge completions and awards fun credits
type LedgerService struct {
	instanceRepo *repository.InstanceRepository
	ledgerRepo   *repository.LedgerRepository
	childRepo    *repository.ChildRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewLedgerService creates a new ledger service
func NewLedgerService(instanceRepo *repository.InstanceRepository, ledgerRepo *repository.LedgerRepository, childRepo *repository.ChildRepository, logger *zap.Logger) *LedgerService {
	return &LedgerService{
		instanceRepo: instanceRepo,
		ledgerRepo:   ledgerRepo,
		childRepo:    childRepo,
		logger:       logger,
		now:          time.Now,
	}
}

// CompleteChallenge records that a child finished a challenge instance and
// credits them the template's fun credits. Completion is at most once per
// instance: a repeated or concurrent call for the same instance returns the
// original ledger entry with alreadyCompleted true instead of paying twice.
// The family attribution and credit amount are snapshotted at completion.
func (s *LedgerService) CompleteChallenge(instanceID string, childID int64, validationMethod string) (*models.CompletionRecord, bool, error) {
	method := models.ValidationParent
	if validationMethod != "" {
		parsed, err := models.ParseValidationMethod(validationMethod)
		if err != nil {
			return nil, false, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		method = parsed
	}

	instance, err := s.instanceRepo.GetInstanceByID(instanceID)
	if err != nil {
		return nil, false, err
	}
	if instance == nil {
		return nil, false, ErrInstanceNotFound
	}
	if instance.ChildID != childID {
		return nil, false, ErrChildMismatch
	}

	child, err := s.childRepo.GetChildByID(childID)
	if err != nil {
		return nil, false, err
	}
	if child == nil {
		return nil, false, ErrChildNotFound
	}

	rec := &models.CompletionRecord{
		ID:               uuid.NewString(),
		ChildID:          childID,
		InstanceID:       instanceID,
		TemplateID:       instance.TemplateID,
		FamilyID:         child.FamilyID,
		FunCreditsEarned: instance.Template.FunCredits,
		ValidationMethod: method,
		CompletedAt:      s.now().UTC(),
	}

	var result *models.CompletionRecord
	var alreadyCompleted bool
	err = database.WithRetry(s.logger, "record_completion", func() error {
		var opErr error
		result, alreadyCompleted, opErr = s.ledgerRepo.RecordCompletion(rec)
		return opErr
	})
	if err != nil {
		return nil, false, err
	}

	if alreadyCompleted {
		s.logger.Info("duplicate completion attempt",
			zap.String("instance_id", instanceID),
			zap.Int64("child_id", childID))
	} else {
		s.logger.Info("challenge completed",
			zap.String("instance_id", instanceID),
			zap.Int64("child_id", childID),
			zap.Int("fun_credits", rec.FunCreditsEarned))
	}

	return result, alreadyCompleted, nil
}

// GetCompletion retrieves the ledger entry for an instance
func (s *LedgerService) GetCompletion(instanceID string) (*models.CompletionRecord, error) {
	rec, err := s.ledgerRepo.GetByInstanceID(instanceID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrInstanceNotFound
	}
	return rec, nil
}
