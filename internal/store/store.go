package store

import (
	"context"
	"errors"
	"time"

	"nexbuzzer-backend/internal/models"
)

// Sentinel errors returned by Store implementations. Handlers map these
// to HTTP statuses with errors.Is.
var (
	ErrNotFound       = errors.New("store: not found")
	ErrWalletNotFound = errors.New("store: wallet not found")
	ErrAlreadyExists  = errors.New("store: already exists")
	ErrInvalidState   = errors.New("store: invalid state")
)

// ModelFilter is a conjunction of predicates for listing models.
// Boolean fields only filter when set to true; Languages and Categories
// require every named value to be present on the profile.
type ModelFilter struct {
	Available  bool
	VoiceCalls bool
	VideoCalls bool
	Languages  []string
	Categories []string
}

// ModelListing pairs a model profile with its owning user for
// directory and favorites responses.
type ModelListing struct {
	User    models.User
	Profile models.ModelProfile
}

// UserUpdate carries a partial user update. Nil fields are left alone.
// Username, email, role and password are deliberately absent.
type UserUpdate struct {
	FirstName    *string
	LastName     *string
	Gender       *string
	Age          *int
	City         *string
	Country      *string
	ProfileImage *string
}

// ProfileUpdate carries a partial model profile update. UserID and the
// commission rate cannot be changed through it.
type ProfileUpdate struct {
	Bio             *string
	Languages       *models.StringList
	Categories      *models.StringList
	OfferVoiceCalls *bool
	OfferVideoCalls *bool
	VoiceRateCents  *int
	VideoRateCents  *int
	IsAvailable     *bool
	PayoutInfo      *string
	ProfileImages   *models.StringList
}

// CallSettlement is the full set of writes applied when a call ends.
// Implementations must apply all of them atomically: the caller debit,
// the model credit, both ledger rows, and the session update either all
// happen or none do. The session must still be active; otherwise
// ErrInvalidState is returned and nothing is written.
type CallSettlement struct {
	CallID             int
	EndTime            time.Time
	DurationSeconds    int
	TotalCostCents     int
	ModelCreditCents   int
	ChargeDescription  string
	RevenueDescription string
}

// Store is the persistence boundary for all marketplace entities.
type Store interface {
	// Users
	CreateUser(ctx context.Context, u *models.User) error
	GetUser(ctx context.Context, id int) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	UpdateUser(ctx context.Context, id int, upd UserUpdate) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)

	// Model profiles
	CreateModelProfile(ctx context.Context, p *models.ModelProfile) error
	GetModelProfile(ctx context.Context, userID int) (models.ModelProfile, error)
	UpdateModelProfile(ctx context.Context, userID int, upd ProfileUpdate) (models.ModelProfile, error)
	ListModels(ctx context.Context, f ModelFilter) ([]ModelListing, error)

	// Wallets and ledger
	CreateWallet(ctx context.Context, userID int) error
	GetWallet(ctx context.Context, userID int) (models.Wallet, error)
	// ApplyWalletDelta adjusts the balance by the signed amount and
	// records the paired ledger entry in the same transaction. The
	// ledger itself does not reject negative balances.
	ApplyWalletDelta(ctx context.Context, userID int, deltaCents int, entry models.Transaction) (models.Wallet, error)
	CreateTransaction(ctx context.Context, t *models.Transaction) error
	GetTransactionByOrderID(ctx context.Context, orderID string) (models.Transaction, error)
	// CompleteDeposit flips a pending deposit to completed and credits
	// the wallet atomically. ErrInvalidState if the deposit is not pending.
	CompleteDeposit(ctx context.Context, orderID string) (models.Wallet, models.Transaction, error)
	ListTransactions(ctx context.Context, userID int) ([]models.Transaction, error)

	// Call sessions
	CreateCallSession(ctx context.Context, s *models.CallSession) error
	GetCallSession(ctx context.Context, id int) (models.CallSession, error)
	ListCallSessionsByUser(ctx context.Context, userID int) ([]models.CallSession, error)
	ListCallSessionsByModel(ctx context.Context, modelID int) ([]models.CallSession, error)
	SettleCall(ctx context.Context, s CallSettlement) (models.CallSession, error)

	// Scheduled calls
	CreateScheduledCall(ctx context.Context, c *models.ScheduledCall) error
	GetScheduledCall(ctx context.Context, id int) (models.ScheduledCall, error)
	UpdateScheduledCallStatus(ctx context.Context, id int, status string) (models.ScheduledCall, error)
	ListScheduledCallsForUser(ctx context.Context, userID int) ([]models.ScheduledCall, error)

	// Messages
	CreateMessage(ctx context.Context, m *models.Message) error
	GetMessage(ctx context.Context, id int) (models.Message, error)
	ListThread(ctx context.Context, userA, userB int) ([]models.Message, error)
	MarkMessageRead(ctx context.Context, id int) (models.Message, error)

	// Favorites
	CreateFavorite(ctx context.Context, f *models.Favorite) error
	DeleteFavorite(ctx context.Context, userID, modelID int) error
	IsFavorite(ctx context.Context, userID, modelID int) (bool, error)
	ListFavorites(ctx context.Context, userID int) ([]ModelListing, error)
}
