package service

import (
	"context"
	"testing"

	"gameportal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newFriendMocks() (*MockUnitOfWork, *MockUnitOfWorkFactory, *MockUserRepository, *MockFriendshipRepository) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockFriendRepo := new(MockFriendshipRepository)

	mockUoW.SetRepositories(mockUserRepo, nil, nil, nil, nil, mockFriendRepo)
	mockFactory.On("Create").Return(mockUoW)

	return mockUoW, mockFactory, mockUserRepo, mockFriendRepo
}

func TestFriendService_SendRequest_CreatesPendingEdge(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockUserRepo, mockFriendRepo := newFriendMocks()

	service := NewFriendService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetByID", ctx, int64(2)).Return(&models.User{ID: 2}, nil)
	mockFriendRepo.On("GetBetween", ctx, int64(1), int64(2)).Return([]*models.Friendship{}, nil)
	mockFriendRepo.On("Create", ctx, mock.MatchedBy(func(f *models.Friendship) bool {
		return f.UserID == 1 && f.FriendID == 2 && f.Status == models.FriendshipStatusPending
	})).Return(nil)

	result, err := service.SendRequest(ctx, 1, 2)

	assert.NoError(t, err)
	assert.False(t, result.MutuallyAccepted)
	assert.Equal(t, models.FriendshipStatusPending, result.Friendship.Status)
	mockFriendRepo.AssertExpectations(t)
}

func TestFriendService_SendRequest_Self(t *testing.T) {
	service := NewFriendService(new(MockUnitOfWorkFactory))

	result, err := service.SendRequest(context.Background(), 1, 1)

	assert.ErrorIs(t, err, ErrSelfFriendship)
	assert.Nil(t, result)
}

func TestFriendService_SendRequest_Duplicate(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockUserRepo, mockFriendRepo := newFriendMocks()

	service := NewFriendService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetByID", ctx, int64(2)).Return(&models.User{ID: 2}, nil)
	mockFriendRepo.On("GetBetween", ctx, int64(1), int64(2)).Return([]*models.Friendship{
		{ID: 9, UserID: 1, FriendID: 2, Status: models.FriendshipStatusPending},
	}, nil)

	result, err := service.SendRequest(ctx, 1, 2)

	assert.ErrorIs(t, err, ErrDuplicateRequest)
	assert.Nil(t, result)
}

func TestFriendService_SendRequest_BlockedPair(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockUserRepo, mockFriendRepo := newFriendMocks()

	service := NewFriendService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetByID", ctx, int64(2)).Return(&models.User{ID: 2}, nil)
	mockFriendRepo.On("GetBetween", ctx, int64(1), int64(2)).Return([]*models.Friendship{
		{ID: 9, UserID: 2, FriendID: 1, Status: models.FriendshipStatusBlocked},
	}, nil)

	result, err := service.SendRequest(ctx, 1, 2)

	assert.ErrorIs(t, err, ErrBlockedPair)
	assert.Nil(t, result)
	mockFriendRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFriendService_SendRequest_MutualCollapsesToAccepted(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockUserRepo, mockFriendRepo := newFriendMocks()

	service := NewFriendService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetByID", ctx, int64(2)).Return(&models.User{ID: 2}, nil)
	mockFriendRepo.On("GetBetween", ctx, int64(1), int64(2)).Return([]*models.Friendship{
		{ID: 9, UserID: 2, FriendID: 1, Status: models.FriendshipStatusPending},
	}, nil)
	mockFriendRepo.On("UpdateStatus", ctx, int64(9), models.FriendshipStatusAccepted).Return(nil)
	mockFriendRepo.On("Create", ctx, mock.MatchedBy(func(f *models.Friendship) bool {
		return f.UserID == 1 && f.FriendID == 2 && f.Status == models.FriendshipStatusAccepted
	})).Return(nil)

	result, err := service.SendRequest(ctx, 1, 2)

	assert.NoError(t, err)
	assert.True(t, result.MutuallyAccepted)
	mockFriendRepo.AssertExpectations(t)
}

func TestFriendService_Accept_CreatesSymmetricPair(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, _, mockFriendRepo := newFriendMocks()

	service := NewFriendService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockFriendRepo.On("GetByID", ctx, int64(9)).Return(&models.Friendship{
		ID: 9, UserID: 1, FriendID: 2, Status: models.FriendshipStatusPending,
	}, nil)
	mockFriendRepo.On("UpdateStatus", ctx, int64(9), models.FriendshipStatusAccepted).Return(nil)
	mockFriendRepo.On("Create", ctx, mock.MatchedBy(func(f *models.Friendship) bool {
		return f.UserID == 2 && f.FriendID == 1 && f.Status == models.FriendshipStatusAccepted
	})).Return(nil)

	err := service.Accept(ctx, 2, 9)

	assert.NoError(t, err)
	mockFriendRepo.AssertExpectations(t)
}

func TestFriendService_Accept_OnlyRequesteeMayAccept(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, _, mockFriendRepo := newFriendMocks()

	service := NewFriendService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockFriendRepo.On("GetByID", ctx, int64(9)).Return(&models.Friendship{
		ID: 9, UserID: 1, FriendID: 2, Status: models.FriendshipStatusPending,
	}, nil)

	// The requester tries to accept their own request
	err := service.Accept(ctx, 1, 9)

	assert.ErrorIs(t, err, ErrNotRequestee)
	mockFriendRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestFriendService_Accept_MissingRequest(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, _, mockFriendRepo := newFriendMocks()

	service := NewFriendService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockFriendRepo.On("GetByID", ctx, int64(9)).Return(nil, nil)

	err := service.Accept(ctx, 2, 9)

	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestFriendService_Decline_DeletesRequest(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, _, mockFriendRepo := newFriendMocks()

	service := NewFriendService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockFriendRepo.On("GetByID", ctx, int64(9)).Return(&models.Friendship{
		ID: 9, UserID: 1, FriendID: 2, Status: models.FriendshipStatusPending,
	}, nil)
	mockFriendRepo.On("Delete", ctx, int64(9)).Return(nil)

	err := service.Decline(ctx, 2, 9)

	assert.NoError(t, err)
	mockFriendRepo.AssertExpectations(t)
}

func TestFriendService_Remove_DeletesBothDirections(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, _, mockFriendRepo := newFriendMocks()

	service := NewFriendService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockFriendRepo.On("DeleteAcceptedBetween", ctx, int64(1), int64(2)).Return(nil)

	err := service.Remove(ctx, 1, 2)

	assert.NoError(t, err)
	mockFriendRepo.AssertExpectations(t)
}

func TestFriendService_Block_ClearsEdgesAndInserts(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockUserRepo, mockFriendRepo := newFriendMocks()

	service := NewFriendService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetByID", ctx, int64(2)).Return(&models.User{ID: 2}, nil)
	mockFriendRepo.On("DeleteBetween", ctx, int64(1), int64(2)).Return(nil)
	mockFriendRepo.On("Create", ctx, mock.MatchedBy(func(f *models.Friendship) bool {
		return f.UserID == 1 && f.FriendID == 2 && f.Status == models.FriendshipStatusBlocked
	})).Return(nil)

	err := service.Block(ctx, 1, 2)

	assert.NoError(t, err)
	mockFriendRepo.AssertExpectations(t)
}

func TestFriendService_Unblock_OwnBlockOnly(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, _, mockFriendRepo := newFriendMocks()

	service := NewFriendService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	// No block owned by the caller exists
	mockFriendRepo.On("Get", ctx, int64(1), int64(2)).Return(nil, nil)

	err := service.Unblock(ctx, 1, 2)

	assert.ErrorIs(t, err, ErrNotBlocked)
	mockFriendRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestFriendService_Unblock_Success(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, _, mockFriendRepo := newFriendMocks()

	service := NewFriendService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockFriendRepo.On("Get", ctx, int64(1), int64(2)).Return(&models.Friendship{
		ID: 9, UserID: 1, FriendID: 2, Status: models.FriendshipStatusBlocked,
	}, nil)
	mockFriendRepo.On("Delete", ctx, int64(9)).Return(nil)

	err := service.Unblock(ctx, 1, 2)

	assert.NoError(t, err)
	mockFriendRepo.AssertExpectations(t)
}

func TestFriendService_MutualFriends_Intersection(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockUserRepo, mockFriendRepo := newFriendMocks()

	service := NewFriendService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockFriendRepo.On("ListAcceptedIDs", ctx, int64(1)).Return([]int64{3, 4, 5}, nil)
	mockFriendRepo.On("ListAcceptedIDs", ctx, int64(2)).Return([]int64{4, 5, 6}, nil)
	mockUserRepo.On("GetByIDs", ctx, []int64{4, 5}).Return([]*models.User{{ID: 4}, {ID: 5}}, nil)

	mutual, err := service.MutualFriends(ctx, 1, 2)

	assert.NoError(t, err)
	assert.Len(t, mutual, 2)
	mockUserRepo.AssertExpectations(t)
}

func TestFriendService_MutualFriends_NoOverlap(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockUserRepo, mockFriendRepo := newFriendMocks()

	service := NewFriendService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockFriendRepo.On("ListAcceptedIDs", ctx, int64(1)).Return([]int64{3}, nil)
	mockFriendRepo.On("ListAcceptedIDs", ctx, int64(2)).Return([]int64{6}, nil)

	mutual, err := service.MutualFriends(ctx, 1, 2)

	assert.NoError(t, err)
	assert.Empty(t, mutual)
	mockUserRepo.AssertNotCalled(t, "GetByIDs", mock.Anything, mock.Anything)
}
