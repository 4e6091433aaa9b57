package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"cardvault/internal/errors"
	"cardvault/internal/model"
)

// MockCardRepository is a mock implementation of CardRepository.
type MockCardRepository struct {
	mock.Mock
}

func (m *MockCardRepository) Create(ctx context.Context, card *model.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) Update(ctx context.Context, card *model.Card) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *MockCardRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Card), args.Error(1)
}

func (m *MockCardRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Card), args.Error(1)
}

func (m *MockCardRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, page, size int) ([]model.Card, int64, error) {
	args := m.Called(ctx, ownerID, page, size)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Card), args.Get(1).(int64), args.Error(2)
}

func (m *MockCardRepository) FindAll(ctx context.Context) ([]model.Card, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Card), args.Error(1)
}

func (m *MockCardRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCardRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func TestCardService_Create(t *testing.T) {
	ownerID := uuid.New()
	futureExpiry := time.Now().AddDate(2, 0, 0)

	tests := []struct {
		name          string
		input         CreateCardInput
		setupMocks    func(*MockCardRepository, *MockUserRepository)
		expectedError error
	}{
		{
			name: "successful creation",
			input: CreateCardInput{
				Number:     "4000001234567890",
				OwnerID:    ownerID,
				ExpiryDate: futureExpiry,
				Balance:    decimal.NewFromInt(100),
			},
			setupMocks: func(mCard *MockCardRepository, mUser *MockUserRepository) {
				mUser.On("FindByID", mock.Anything, ownerID).Return(&model.User{ID: ownerID}, nil)
				mCard.On("Create", mock.Anything, mock.AnythingOfType("*model.Card")).Return(nil)
			},
		},
		{
			name: "number too short",
			input: CreateCardInput{
				Number:     "40000012345678",
				OwnerID:    ownerID,
				ExpiryDate: futureExpiry,
			},
			setupMocks:    func(*MockCardRepository, *MockUserRepository) {},
			expectedError: errors.ErrCardNumberFormat,
		},
		{
			name: "number with letters",
			input: CreateCardInput{
				Number:     "40000012345678ab",
				OwnerID:    ownerID,
				ExpiryDate: futureExpiry,
			},
			setupMocks:    func(*MockCardRepository, *MockUserRepository) {},
			expectedError: errors.ErrCardNumberFormat,
		},
		{
			name: "expiry in the past",
			input: CreateCardInput{
				Number:     "4000001234567890",
				OwnerID:    ownerID,
				ExpiryDate: time.Now().AddDate(-1, 0, 0),
			},
			setupMocks:    func(*MockCardRepository, *MockUserRepository) {},
			expectedError: errors.ErrExpiryInPast,
		},
		{
			name: "negative initial balance",
			input: CreateCardInput{
				Number:     "4000001234567890",
				OwnerID:    ownerID,
				ExpiryDate: futureExpiry,
				Balance:    decimal.NewFromInt(-1),
			},
			setupMocks:    func(*MockCardRepository, *MockUserRepository) {},
			expectedError: errors.ErrNegativeBalance,
		},
		{
			name: "owner does not exist",
			input: CreateCardInput{
				Number:     "4000001234567890",
				OwnerID:    ownerID,
				ExpiryDate: futureExpiry,
			},
			setupMocks: func(mCard *MockCardRepository, mUser *MockUserRepository) {
				mUser.On("FindByID", mock.Anything, ownerID).Return(nil, errors.ErrUserNotFound)
			},
			expectedError: errors.ErrUserNotFound,
		},
		{
			name: "duplicate number",
			input: CreateCardInput{
				Number:     "4000001234567890",
				OwnerID:    ownerID,
				ExpiryDate: futureExpiry,
			},
			setupMocks: func(mCard *MockCardRepository, mUser *MockUserRepository) {
				mUser.On("FindByID", mock.Anything, ownerID).Return(&model.User{ID: ownerID}, nil)
				mCard.On("Create", mock.Anything, mock.AnythingOfType("*model.Card")).Return(errors.ErrDuplicateCardNumber)
			},
			expectedError: errors.ErrDuplicateCardNumber,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockCardRepo := new(MockCardRepository)
			mockUserRepo := new(MockUserRepository)
			tt.setupMocks(mockCardRepo, mockUserRepo)

			svc := NewCardService(mockCardRepo, mockUserRepo, nil)
			view, err := svc.Create(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, view)
			} else {
				require.NoError(t, err)
				require.NotNil(t, view)
				assert.Equal(t, model.CardStatusActive, view.Status)
				assert.Equal(t, "**** **** **** 7890", view.MaskedNumber)
				assert.Equal(t, ownerID, view.OwnerID)
			}

			mockCardRepo.AssertExpectations(t)
			mockUserRepo.AssertExpectations(t)
		})
	}
}

func TestCardService_StatusChanges(t *testing.T) {
	cardID := uuid.New()

	tests := []struct {
		name          string
		current       model.CardStatus
		apply         func(CardService) (*model.CardView, error)
		expectUpdate  bool
		expectedError error
		wantStatus    model.CardStatus
	}{
		{
			name:    "block active card",
			current: model.CardStatusActive,
			apply: func(s CardService) (*model.CardView, error) {
				return s.Block(context.Background(), cardID)
			},
			expectUpdate: true,
			wantStatus:   model.CardStatusBlocked,
		},
		{
			name:    "approve requested block",
			current: model.CardStatusBlockRequested,
			apply: func(s CardService) (*model.CardView, error) {
				return s.Block(context.Background(), cardID)
			},
			expectUpdate: true,
			wantStatus:   model.CardStatusBlocked,
		},
		{
			name:    "activate blocked card",
			current: model.CardStatusBlocked,
			apply: func(s CardService) (*model.CardView, error) {
				return s.Activate(context.Background(), cardID)
			},
			expectUpdate: true,
			wantStatus:   model.CardStatusActive,
		},
		{
			name:    "block already blocked card",
			current: model.CardStatusBlocked,
			apply: func(s CardService) (*model.CardView, error) {
				return s.Block(context.Background(), cardID)
			},
			expectedError: errors.ErrInvalidStatusTransition,
		},
		{
			name:    "activate already active card",
			current: model.CardStatusActive,
			apply: func(s CardService) (*model.CardView, error) {
				return s.Activate(context.Background(), cardID)
			},
			expectedError: errors.ErrInvalidStatusTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockCardRepo := new(MockCardRepository)
			mockCardRepo.On("FindByID", mock.Anything, cardID).Return(&model.Card{
				ID:      cardID,
				Number:  "4000001234567890",
				Status:  tt.current,
				Balance: decimal.NewFromInt(100),
			}, nil)
			if tt.expectUpdate {
				mockCardRepo.On("Update", mock.Anything, mock.AnythingOfType("*model.Card")).Return(nil)
			}

			svc := NewCardService(mockCardRepo, new(MockUserRepository), nil)
			view, err := tt.apply(svc)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, view)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantStatus, view.Status)
			}

			mockCardRepo.AssertExpectations(t)
		})
	}
}

func TestCardService_Delete(t *testing.T) {
	cardID := uuid.New()

	mockCardRepo := new(MockCardRepository)
	mockCardRepo.On("DeleteByID", mock.Anything, cardID).Return(nil)

	svc := NewCardService(mockCardRepo, new(MockUserRepository), nil)
	assert.NoError(t, svc.Delete(context.Background(), cardID))
	mockCardRepo.AssertExpectations(t)
}

func TestCardService_Delete_Missing(t *testing.T) {
	missingID := uuid.New()

	mockCardRepo := new(MockCardRepository)
	mockCardRepo.On("DeleteByID", mock.Anything, missingID).Return(errors.ErrCardNotFound)

	svc := NewCardService(mockCardRepo, new(MockUserRepository), nil)
	err := svc.Delete(context.Background(), missingID)
	assert.ErrorIs(t, err, errors.ErrCardNotFound)
	mockCardRepo.AssertExpectations(t)
}

func TestCardService_Update_RejectsNegativeBalance(t *testing.T) {
	cardID := uuid.New()

	mockCardRepo := new(MockCardRepository)
	mockCardRepo.On("FindByID", mock.Anything, cardID).Return(&model.Card{
		ID:      cardID,
		Number:  "4000001234567890",
		Status:  model.CardStatusActive,
		Balance: decimal.NewFromInt(100),
	}, nil)

	svc := NewCardService(mockCardRepo, new(MockUserRepository), nil)

	negative := decimal.NewFromInt(-10)
	_, err := svc.Update(context.Background(), cardID, UpdateCardInput{Balance: &negative})
	assert.ErrorIs(t, err, errors.ErrNegativeBalance)
	mockCardRepo.AssertExpectations(t)
}

func TestCardService_ListByOwner_MasksNumbers(t *testing.T) {
	ownerID := uuid.New()
	cards := []model.Card{
		{ID: uuid.New(), Number: "4000001234567890", OwnerID: ownerID, Status: model.CardStatusActive},
		{ID: uuid.New(), Number: "4000009876543210", OwnerID: ownerID, Status: model.CardStatusBlocked},
	}

	mockCardRepo := new(MockCardRepository)
	mockCardRepo.On("FindByOwner", mock.Anything, ownerID, 0, 10).Return(cards, int64(2), nil)

	svc := NewCardService(mockCardRepo, new(MockUserRepository), nil)
	views, total, err := svc.ListByOwner(context.Background(), ownerID, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, views, 2)
	assert.Equal(t, "**** **** **** 7890", views[0].MaskedNumber)
	assert.Equal(t, "**** **** **** 3210", views[1].MaskedNumber)
	mockCardRepo.AssertExpectations(t)
}
