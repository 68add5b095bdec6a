package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fekuna/omnipos-storefront/internal/address"
	"github.com/fekuna/omnipos-storefront/internal/address/dto"
	"github.com/fekuna/omnipos-storefront/internal/apperror"
	"github.com/fekuna/omnipos-storefront/internal/model"
	"github.com/fekuna/omnipos-storefront/pkg/database/postgres"
	"github.com/fekuna/omnipos-storefront/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const msgAddressNotFound = "Address not found"

type addressUseCase struct {
	repo   address.Repository
	tx     postgres.TxManager
	logger logger.ZapLogger
}

func NewAddressUseCase(repo address.Repository, tx postgres.TxManager, log logger.ZapLogger) address.UseCase {
	return &addressUseCase{
		repo:   repo,
		tx:     tx,
		logger: log,
	}
}

func (uc *addressUseCase) ListAddresses(ctx context.Context, userID string) ([]model.Address, error) {
	return uc.repo.FindByUser(ctx, userID)
}

func (uc *addressUseCase) CreateAddress(ctx context.Context, input *dto.CreateAddressInput) (*model.Address, error) {
	typ := input.Type
	if typ == "" {
		typ = model.AddressShipping
	}

	now := time.Now()
	a := &model.Address{
		BaseModel:  model.BaseModel{ID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		UserID:     input.UserID,
		Address:    strings.TrimSpace(input.Address),
		PostalCode: strings.TrimSpace(input.PostalCode),
		City:       strings.TrimSpace(input.City),
		Country:    strings.TrimSpace(input.Country),
		Type:       typ,
	}
	if err := uc.repo.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// owned loads the address and masks addresses of other users as missing.
func (uc *addressUseCase) owned(ctx context.Context, userID, id string) (*model.Address, error) {
	a, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil || a.UserID != userID {
		return nil, apperror.NotFound(msgAddressNotFound)
	}
	return a, nil
}

func (uc *addressUseCase) UpdateAddress(ctx context.Context, input *dto.UpdateAddressInput) (*model.Address, error) {
	a, err := uc.owned(ctx, input.UserID, input.ID)
	if err != nil {
		return nil, err
	}

	a.Address = strings.TrimSpace(input.Address)
	a.PostalCode = strings.TrimSpace(input.PostalCode)
	a.City = strings.TrimSpace(input.City)
	a.Country = strings.TrimSpace(input.Country)
	if input.Type != "" {
		a.Type = input.Type
	}
	a.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (uc *addressUseCase) DeleteAddress(ctx context.Context, userID, id string) error {
	return uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		a, err := uc.owned(ctx, userID, id)
		if err != nil {
			return err
		}
		if err := uc.repo.Delete(ctx, a.ID); err != nil {
			return err
		}
		if a.IsDefault {
			if err := uc.repo.PromoteLatest(ctx, userID); err != nil {
				return err
			}
			uc.logger.Debug("promoted default address", zap.String("user_id", userID))
		}
		return nil
	})
}

func (uc *addressUseCase) SetDefault(ctx context.Context, userID, id string) (*model.Address, error) {
	var a *model.Address
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		a, err = uc.owned(ctx, userID, id)
		if err != nil {
			return err
		}
		if err := uc.repo.ClearDefault(ctx, userID); err != nil {
			return err
		}
		if err := uc.repo.MarkDefault(ctx, a.ID); err != nil {
			return err
		}
		a.IsDefault = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}
