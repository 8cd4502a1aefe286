package service

import (
	"context"
	"fmt"

	"gameportal/events"
	"gameportal/models"
)

type friendService struct {
	uowFactory UnitOfWorkFactory
}

// NewFriendService creates a new friend service
func NewFriendService(uowFactory UnitOfWorkFactory) FriendService {
	return &friendService{
		uowFactory: uowFactory,
	}
}

// SendRequest creates a pending edge from userID to targetID. Two
// simultaneous requests in opposite directions collapse into a single
// accepted pair, reported via MutuallyAccepted.
func (s *friendService) SendRequest(ctx context.Context, userID, targetID int64) (*models.FriendRequestResult, error) {
	if userID == targetID {
		return nil, ErrSelfFriendship
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	target, err := uow.UserRepository().GetByID(ctx, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get target user: %w", err)
	}
	if target == nil {
		return nil, ErrUserNotFound
	}

	edges, err := uow.FriendshipRepository().GetBetween(ctx, userID, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get existing edges: %w", err)
	}

	var reverse *models.Friendship
	for _, edge := range edges {
		switch edge.Status {
		case models.FriendshipStatusBlocked:
			return nil, ErrBlockedPair
		case models.FriendshipStatusAccepted:
			return nil, ErrAlreadyFriends
		case models.FriendshipStatusPending:
			if edge.UserID == userID {
				return nil, ErrDuplicateRequest
			}
			reverse = edge
		}
	}

	if reverse != nil {
		// Mutual simultaneous requests: upgrade theirs, create ours
		if err := uow.FriendshipRepository().UpdateStatus(ctx, reverse.ID, models.FriendshipStatusAccepted); err != nil {
			return nil, fmt.Errorf("failed to accept reverse request: %w", err)
		}

		edge := &models.Friendship{
			UserID:   userID,
			FriendID: targetID,
			Status:   models.FriendshipStatusAccepted,
		}
		if err := uow.FriendshipRepository().Create(ctx, edge); err != nil {
			return nil, fmt.Errorf("failed to create accepted edge: %w", err)
		}

		uow.EventBus().Publish(events.FriendshipAcceptedEvent{
			UserID:   userID,
			FriendID: targetID,
			Mutual:   true,
		})

		if err := uow.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}

		return &models.FriendRequestResult{
			MutuallyAccepted: true,
			Friendship:       edge,
		}, nil
	}

	edge := &models.Friendship{
		UserID:   userID,
		FriendID: targetID,
		Status:   models.FriendshipStatusPending,
	}
	if err := uow.FriendshipRepository().Create(ctx, edge); err != nil {
		return nil, fmt.Errorf("failed to create friend request: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &models.FriendRequestResult{Friendship: edge}, nil
}

// Accept flips a pending request into the symmetric accepted pair. Only
// the requestee may accept.
func (s *friendService) Accept(ctx context.Context, userID, requestID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	request, err := uow.FriendshipRepository().GetByID(ctx, requestID)
	if err != nil {
		return fmt.Errorf("failed to get friend request: %w", err)
	}
	if request == nil || request.Status != models.FriendshipStatusPending {
		return ErrRequestNotFound
	}
	if request.FriendID != userID {
		return ErrNotRequestee
	}

	if err := uow.FriendshipRepository().UpdateStatus(ctx, request.ID, models.FriendshipStatusAccepted); err != nil {
		return fmt.Errorf("failed to accept friend request: %w", err)
	}

	reverse := &models.Friendship{
		UserID:   userID,
		FriendID: request.UserID,
		Status:   models.FriendshipStatusAccepted,
	}
	if err := uow.FriendshipRepository().Create(ctx, reverse); err != nil {
		return fmt.Errorf("failed to create reverse edge: %w", err)
	}

	uow.EventBus().Publish(events.FriendshipAcceptedEvent{
		UserID:   request.UserID,
		FriendID: userID,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Decline deletes a pending request. Only the requestee may decline.
func (s *friendService) Decline(ctx context.Context, userID, requestID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	request, err := uow.FriendshipRepository().GetByID(ctx, requestID)
	if err != nil {
		return fmt.Errorf("failed to get friend request: %w", err)
	}
	if request == nil || request.Status != models.FriendshipStatusPending {
		return ErrRequestNotFound
	}
	if request.FriendID != userID {
		return ErrNotRequestee
	}

	if err := uow.FriendshipRepository().Delete(ctx, request.ID); err != nil {
		return fmt.Errorf("failed to delete friend request: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Remove deletes both directions of an accepted pair. Removing a
// non-friend is a no-op.
func (s *friendService) Remove(ctx context.Context, userID, friendID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.FriendshipRepository().DeleteAcceptedBetween(ctx, userID, friendID); err != nil {
		return fmt.Errorf("failed to remove friendship: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Block removes every edge between the pair and inserts a single blocked
// edge owned by the caller.
func (s *friendService) Block(ctx context.Context, userID, targetID int64) error {
	if userID == targetID {
		return ErrSelfFriendship
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	target, err := uow.UserRepository().GetByID(ctx, targetID)
	if err != nil {
		return fmt.Errorf("failed to get target user: %w", err)
	}
	if target == nil {
		return ErrUserNotFound
	}

	if err := uow.FriendshipRepository().DeleteBetween(ctx, userID, targetID); err != nil {
		return fmt.Errorf("failed to clear existing edges: %w", err)
	}

	edge := &models.Friendship{
		UserID:   userID,
		FriendID: targetID,
		Status:   models.FriendshipStatusBlocked,
	}
	if err := uow.FriendshipRepository().Create(ctx, edge); err != nil {
		return fmt.Errorf("failed to create block: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Unblock removes the caller's own block. A block placed by the other
// party is out of reach.
func (s *friendService) Unblock(ctx context.Context, userID, targetID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	edge, err := uow.FriendshipRepository().Get(ctx, userID, targetID)
	if err != nil {
		return fmt.Errorf("failed to get block: %w", err)
	}
	if edge == nil || edge.Status != models.FriendshipStatusBlocked {
		return ErrNotBlocked
	}

	if err := uow.FriendshipRepository().Delete(ctx, edge.ID); err != nil {
		return fmt.Errorf("failed to delete block: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// ListFriends returns the users a user has accepted friendships with
func (s *friendService) ListFriends(ctx context.Context, userID int64) ([]*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.FriendshipRepository().ListFriends(ctx, userID)
}

// ListIncomingRequests returns the pending requests addressed to a user
func (s *friendService) ListIncomingRequests(ctx context.Context, userID int64) ([]*models.FriendRequest, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.FriendshipRepository().ListIncomingRequests(ctx, userID)
}

// MutualFriends returns the intersection of two users' accepted-friend
// sets. Accepted pairs are stored symmetrically, so each side's outgoing
// accepted edges are its full friend set.
func (s *friendService) MutualFriends(ctx context.Context, userID, otherID int64) ([]*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	mine, err := uow.FriendshipRepository().ListAcceptedIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friend ids: %w", err)
	}
	theirs, err := uow.FriendshipRepository().ListAcceptedIDs(ctx, otherID)
	if err != nil {
		return nil, fmt.Errorf("failed to list friend ids: %w", err)
	}

	mineSet := make(map[int64]struct{}, len(mine))
	for _, id := range mine {
		mineSet[id] = struct{}{}
	}

	var shared []int64
	for _, id := range theirs {
		if _, ok := mineSet[id]; ok {
			shared = append(shared, id)
		}
	}

	if len(shared) == 0 {
		return nil, nil
	}

	return uow.UserRepository().GetByIDs(ctx, shared)
}
