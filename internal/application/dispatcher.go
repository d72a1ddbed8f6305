package application

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"

	"github.com/delphython/fish-shop/internal/domain"
	"github.com/delphython/fish-shop/internal/domain/model"
	"github.com/delphython/fish-shop/internal/domain/ports/adapter"
	"github.com/delphython/fish-shop/internal/domain/ports/repository"
	"github.com/delphython/fish-shop/internal/infra/logging"
	"github.com/delphython/fish-shop/internal/infra/metrics"

	"github.com/rs/zerolog"
)

const restartCommand = "/start"

// HandlerFunc processes one event in a given state and returns the next
// state to persist.
type HandlerFunc func(ctx context.Context, ev Event) (repository.ConversationState, error)

// Dispatcher routes each inbound event to the handler matching the
// conversation's persisted state. Handlers perform their side effects
// through the commerce and bot ports; the dispatcher persists the state a
// handler returns. When a handler fails the event is dropped and the
// persisted state stays untouched, so the next inbound event retries
// against the same state. Already-sent messages are not rolled back.
type Dispatcher struct {
	states    repository.StateRepository
	shop      adapter.CommerceClient
	bot       adapter.BotAdapter
	checkouts repository.CheckoutRepository // optional journal, may be nil
	log       *zerolog.Logger
	handlers  map[repository.ConversationState]HandlerFunc
}

func NewDispatcher(
	states repository.StateRepository,
	shop adapter.CommerceClient,
	bot adapter.BotAdapter,
	checkouts repository.CheckoutRepository,
	logger *zerolog.Logger,
) *Dispatcher {
	d := &Dispatcher{
		states:    states,
		shop:      shop,
		bot:       bot,
		checkouts: checkouts,
		log:       logger,
	}
	d.handlers = map[repository.ConversationState]HandlerFunc{
		repository.StateStart:             d.handleStart,
		repository.StateHandleMenu:        d.handleMenu,
		repository.StateHandleDescription: d.handleDescription,
		repository.StateHandleCart:        d.handleCart,
		repository.StateWaitingEmail:      d.handleEmail,
	}
	return d
}

// HandleEvent resolves the conversation's state, invokes the matching
// handler and persists the returned next state.
func (d *Dispatcher) HandleEvent(ctx context.Context, ev Event) {
	ctx = logging.WithChatID(ctx, ev.ChatID)
	log := logging.With(ctx, d.log)

	state, err := d.resolveState(ctx, ev)
	if err != nil {
		metrics.IncEventHandled("unresolved", "dropped")
		log.Error().Err(err).Msg("resolve state")
		return
	}

	next, err := d.handlers[state](ctx, ev)
	if err != nil {
		metrics.IncEventHandled(string(state), "dropped")
		log.Error().Err(err).Str("state", string(state)).Msg("handler failed, event dropped")
		return
	}

	if err := d.states.SetState(ctx, ev.ChatID, next); err != nil {
		metrics.IncEventHandled(string(state), "dropped")
		log.Error().Err(err).Str("next_state", string(next)).Msg("persist state")
		return
	}
	metrics.IncEventHandled(string(state), "ok")
	log.Debug().Str("state", string(state)).Str("next_state", string(next)).Msg("event handled")
}

// resolveState picks the handler key: the restart command always overrides
// whatever is persisted, a never-seen conversation starts at StateStart,
// and a label outside the enumeration is fatal for the event.
func (d *Dispatcher) resolveState(ctx context.Context, ev Event) (repository.ConversationState, error) {
	if ev.input() == restartCommand {
		return repository.StateStart, nil
	}
	state, err := d.states.GetState(ctx, ev.ChatID)
	if errors.Is(err, domain.ErrStateNotFound) {
		return repository.StateStart, nil
	}
	if err != nil {
		return "", fmt.Errorf("get state: %w", err)
	}
	if !state.Valid() {
		return "", fmt.Errorf("state %q: %w", state, domain.ErrUnknownState)
	}
	return state, nil
}

// cartID maps a conversation to its cart: one cart per conversation, the
// cart id is the chat id.
func cartID(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}

func (d *Dispatcher) handleStart(ctx context.Context, ev Event) (repository.ConversationState, error) {
	if err := d.sendMenu(ctx, ev.ChatID); err != nil {
		return "", err
	}
	return repository.StateHandleMenu, nil
}

func (d *Dispatcher) handleMenu(ctx context.Context, ev Event) (repository.ConversationState, error) {
	if ev.input() == payloadCart {
		if err := d.sendCart(ctx, ev.ChatID); err != nil {
			return "", err
		}
		d.deleteInbound(ctx, ev)
		return repository.StateHandleCart, nil
	}

	// Any other payload is a product id picked from the menu.
	p, err := d.shop.GetProduct(ctx, ev.input())
	if err != nil {
		return "", fmt.Errorf("fetch product: %w", err)
	}
	caption, rows := ProductView(p)
	if p.ImageID != "" {
		href, err := d.shop.GetImageURL(ctx, p.ImageID)
		if err != nil {
			return "", fmt.Errorf("resolve product image: %w", err)
		}
		if err := d.bot.SendPhoto(ctx, ev.ChatID, href, caption, rows); err != nil {
			return "", fmt.Errorf("send product card: %w", err)
		}
	} else {
		if err := d.bot.SendMessage(ctx, ev.ChatID, caption, rows); err != nil {
			return "", fmt.Errorf("send product card: %w", err)
		}
	}
	d.deleteInbound(ctx, ev)
	return repository.StateHandleDescription, nil
}

func (d *Dispatcher) handleDescription(ctx context.Context, ev Event) (repository.ConversationState, error) {
	switch ev.input() {
	case payloadBack:
		if err := d.sendCart(ctx, ev.ChatID); err != nil {
			return "", err
		}
		d.deleteInbound(ctx, ev)
		return repository.StateHandleMenu, nil
	case payloadCart:
		if err := d.sendCart(ctx, ev.ChatID); err != nil {
			return "", err
		}
		d.deleteInbound(ctx, ev)
		return repository.StateHandleCart, nil
	}

	productID, qty, err := ParseItemPayload(ev.input())
	if err != nil {
		return "", err
	}
	if err := d.shop.AddCartItem(ctx, cartID(ev.ChatID), productID, qty); err != nil {
		return "", fmt.Errorf("add cart item: %w", err)
	}
	return repository.StateHandleDescription, nil
}

func (d *Dispatcher) handleCart(ctx context.Context, ev Event) (repository.ConversationState, error) {
	switch ev.input() {
	case payloadMenu:
		if err := d.sendMenu(ctx, ev.ChatID); err != nil {
			return "", err
		}
		d.deleteInbound(ctx, ev)
		return repository.StateHandleMenu, nil
	case payloadCheckout:
		if err := d.bot.SendMessage(ctx, ev.ChatID, "Please enter your email address:", nil); err != nil {
			return "", fmt.Errorf("send email prompt: %w", err)
		}
		return repository.StateWaitingEmail, nil
	}

	// Any other payload is a cart line-item id to remove. Removing an item
	// that is already gone fails upstream and drops the event.
	if err := d.shop.RemoveCartItem(ctx, cartID(ev.ChatID), ev.input()); err != nil {
		return "", fmt.Errorf("remove cart item: %w", err)
	}
	if err := d.sendCart(ctx, ev.ChatID); err != nil {
		return "", err
	}
	d.deleteInbound(ctx, ev)
	return repository.StateHandleCart, nil
}

func (d *Dispatcher) handleEmail(ctx context.Context, ev Event) (repository.ConversationState, error) {
	// Only free text can carry an email; a stale button press is ignored.
	if ev.Callback {
		return repository.StateWaitingEmail, nil
	}
	email := strings.TrimSpace(ev.Text)
	if _, err := mail.ParseAddress(email); err != nil {
		// Recovered locally: re-prompt and keep waiting.
		logging.With(ctx, d.log).Info().Err(fmt.Errorf("%q: %w", email, domain.ErrInvalidEmail)).Msg("email rejected")
		if err := d.bot.SendMessage(ctx, ev.ChatID, "That does not look like a valid email address. Please try again:", nil); err != nil {
			return "", fmt.Errorf("send email re-prompt: %w", err)
		}
		return repository.StateWaitingEmail, nil
	}

	customer, err := d.shop.CreateCustomer(ctx, cartID(ev.ChatID), email)
	if err != nil {
		return "", fmt.Errorf("create customer: %w", err)
	}
	if err := d.bot.SendMessage(ctx, ev.ChatID, "You entered email address: "+email, nil); err != nil {
		return "", fmt.Errorf("send email confirmation: %w", err)
	}
	d.recordCheckout(ctx, ev.ChatID, customer, email)
	metrics.IncCheckout()
	return repository.StateStart, nil
}

func (d *Dispatcher) sendMenu(ctx context.Context, chatID int64) error {
	products, err := d.shop.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("list products: %w", err)
	}
	text, rows := MenuView(products)
	if err := d.bot.SendMessage(ctx, chatID, text, rows); err != nil {
		return fmt.Errorf("send menu: %w", err)
	}
	return nil
}

func (d *Dispatcher) sendCart(ctx context.Context, chatID int64) error {
	items, err := d.shop.GetCartItems(ctx, cartID(chatID))
	if err != nil {
		return fmt.Errorf("list cart items: %w", err)
	}
	total, err := d.shop.GetCartTotal(ctx, cartID(chatID))
	if err != nil {
		return fmt.Errorf("fetch cart total: %w", err)
	}
	text, rows := CartView(items, *total)
	if err := d.bot.SendMessage(ctx, chatID, text, rows); err != nil {
		return fmt.Errorf("send cart: %w", err)
	}
	return nil
}

// deleteInbound removes the message whose button triggered the event, so
// the replaced view disappears from the chat. Best effort.
func (d *Dispatcher) deleteInbound(ctx context.Context, ev Event) {
	if !ev.Callback || ev.MessageID == 0 {
		return
	}
	if err := d.bot.DeleteMessage(ctx, ev.ChatID, ev.MessageID); err != nil {
		logging.With(ctx, d.log).Warn().Err(err).Int("message_id", ev.MessageID).Msg("delete message")
	}
}

// recordCheckout appends to the operator journal. The commerce backend is
// the source of truth, so a journal failure is logged and the checkout
// still succeeds.
func (d *Dispatcher) recordCheckout(ctx context.Context, chatID int64, customer *model.Customer, email string) {
	if d.checkouts == nil {
		return
	}
	total := ""
	if t, err := d.shop.GetCartTotal(ctx, cartID(chatID)); err == nil {
		total = t.Formatted
	} else {
		logging.With(ctx, d.log).Warn().Err(err).Msg("cart total for journal")
	}
	rec := model.NewCheckoutRecord(chatID, customer.ID, email, total)
	if err := d.checkouts.Save(ctx, rec); err != nil {
		logging.With(ctx, d.log).Error().Err(err).Str("checkout_id", rec.ID).Msg("journal checkout")
	}
}
