package service

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "catcents-backend/internal/common/errors"
	"catcents-backend/internal/common/validation"
	rolemodels "catcents-backend/internal/features/roles/models"
	roleservice "catcents-backend/internal/features/roles/service"
	"catcents-backend/internal/features/user/repository"
	"catcents-backend/internal/features/wallet/models"

	"github.com/disgoorg/snowflake/v2"
	"github.com/rs/zerolog"
)

// ErrNoWallet is returned by Get when the user has not submitted one.
var ErrNoWallet = errors.New("no wallet submitted")

// LinkNotifier tells the bot that a member's inputs changed.
type LinkNotifier interface {
	WalletLinked(ctx context.Context, userID snowflake.ID) error
}

type WalletService interface {
	Submit(ctx context.Context, userID snowflake.ID, req *models.SubmitWalletRequest) (*models.WalletResponse, error)
	Get(ctx context.Context, userID snowflake.ID) (*models.WalletResponse, error)
}

type walletService struct {
	profiles repository.ProfileRepository
	chain    roleservice.ChainReader
	catalog  *rolemodels.Catalog
	notifier LinkNotifier
	now      func() time.Time
	log      zerolog.Logger
}

func NewWalletService(
	profiles repository.ProfileRepository,
	chain roleservice.ChainReader,
	catalog *rolemodels.Catalog,
	notifier LinkNotifier,
	log zerolog.Logger,
) WalletService {
	return &walletService{
		profiles: profiles,
		chain:    chain,
		catalog:  catalog,
		notifier: notifier,
		now:      time.Now,
		log:      log,
	}
}

// Submit validates the address, reads its NFT balance and stores the
// submission with the NFT tier it qualifies for.
func (s *walletService) Submit(ctx context.Context, userID snowflake.ID, req *models.SubmitWalletRequest) (*models.WalletResponse, error) {
	address := req.Normalized()
	if err := validation.ValidateWalletAddress(address); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInvalidWallet, "Invalid wallet address").
			WithDetail("address", address)
	}
	if err := validation.ValidateContribution(req.Contribution); err != nil {
		return nil, apperrors.NewValidationError("contribution", err.Error())
	}

	profile, err := s.profiles.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return nil, apperrors.NewUserNotFoundError(userID.String())
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("get profile", err)
	}

	balance, err := s.chain.NFTBalance(ctx, address)
	if err != nil {
		return nil, apperrors.NewChainReadError("nft balance", err).WithUserID(userID.String())
	}

	roleservice.ApplyNFTCount(s.catalog, profile, int(balance))
	profile.WalletAddress = address
	profile.Contribution = strings.TrimSpace(req.Contribution)
	submittedAt := s.now().UTC()
	profile.WalletAt = &submittedAt

	if err := s.profiles.Save(ctx, profile); err != nil {
		return nil, apperrors.NewDatabaseError("save wallet", err)
	}

	s.log.Info().
		Str("user_id", userID.String()).
		Str("wallet", address).
		Int("nft_count", profile.NFTCount).
		Str("nft_role", profile.NFTRoleName).
		Msg("Wallet submitted")

	if err := s.notifier.WalletLinked(ctx, userID); err != nil {
		s.log.Warn().Err(err).Str("user_id", userID.String()).Msg("Failed to publish wallet_linked")
	}

	return models.FromProfile(profile), nil
}

func (s *walletService) Get(ctx context.Context, userID snowflake.ID) (*models.WalletResponse, error) {
	profile, err := s.profiles.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return nil, apperrors.NewUserNotFoundError(userID.String())
	}
	if err != nil {
		return nil, apperrors.NewDatabaseError("get profile", err)
	}
	if !profile.HasWallet() {
		return nil, apperrors.Wrap(ErrNoWallet, apperrors.ErrCodeNotFound, "No wallet submitted")
	}
	return models.FromProfile(profile), nil
}
