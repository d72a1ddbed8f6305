package repository

import "context"

// ConversationState is the persisted label naming what input a conversation
// expects next. The store holds it as plain text.
type ConversationState string

const (
	StateStart             ConversationState = "START"
	StateHandleMenu        ConversationState = "HANDLE_MENU"
	StateHandleDescription ConversationState = "HANDLE_DESCRIPTION"
	StateHandleCart        ConversationState = "HANDLE_CART"
	StateWaitingEmail      ConversationState = "WAITING_EMAIL"
)

// Valid reports whether s is one of the enumerated labels.
func (s ConversationState) Valid() bool {
	switch s {
	case StateStart, StateHandleMenu, StateHandleDescription, StateHandleCart, StateWaitingEmail:
		return true
	}
	return false
}

// StateRepository is the port for the durable chat id -> state mapping.
// GetState returns domain.ErrStateNotFound for a conversation never seen
// before; callers map that to StateStart.
type StateRepository interface {
	GetState(ctx context.Context, chatID int64) (ConversationState, error)
	SetState(ctx context.Context, chatID int64, state ConversationState) error
}
