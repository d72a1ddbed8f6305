package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/delphython/fish-shop/internal/domain"
	"github.com/delphython/fish-shop/internal/domain/ports/repository"

	"github.com/go-redis/redis/v8"
)

var _ repository.StateRepository = (*StateRepo)(nil)

// StateRepo keeps the per-conversation state label in Redis as plain text.
// Entries never expire; the mapping is only ever overwritten.
type StateRepo struct {
	client *redClient
}

func NewStateRepo(client *redClient) *StateRepo {
	return &StateRepo{client: client}
}

func (s *StateRepo) stateKey(chatID int64) string {
	return fmt.Sprintf("conv_state:%d", chatID)
}

func (s *StateRepo) GetState(ctx context.Context, chatID int64) (repository.ConversationState, error) {
	data, err := s.client.Get(ctx, s.stateKey(chatID))
	if errors.Is(err, redis.Nil) {
		return "", domain.ErrStateNotFound
	}
	if err != nil {
		return "", err
	}
	return repository.ConversationState(data), nil
}

func (s *StateRepo) SetState(ctx context.Context, chatID int64, state repository.ConversationState) error {
	return s.client.Set(ctx, s.stateKey(chatID), string(state), 0)
}
