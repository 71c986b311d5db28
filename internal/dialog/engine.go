// Package dialog is the conversation core: a finite-state machine per
// session that turns inbound gateway events into store mutations and render
// requests. Scratch data lives in the Session and is cleared at flow exit.
package dialog

import (
	"context"
	"log"
	"strings"
	"sync"

	"homestock/internal/gateway"
	"homestock/internal/repositories"
)

type Engine struct {
	categories repositories.CategoryRepository
	products   repositories.ProductRepository
	sessions   SessionStore
	gw         gateway.Gateway

	// locks serializes events per owner; cross-owner events run concurrently.
	locks sync.Map
}

func NewEngine(categories repositories.CategoryRepository, products repositories.ProductRepository,
	sessions SessionStore, gw gateway.Gateway) *Engine {
	return &Engine{
		categories: categories,
		products:   products,
		sessions:   sessions,
		gw:         gw,
	}
}

func (e *Engine) ownerLock(owner int64) *sync.Mutex {
	mu, _ := e.locks.LoadOrStore(owner, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// HandleEvent processes one inbound event to completion, including all
// store calls, before the next event for the same owner is admitted.
func (e *Engine) HandleEvent(ctx context.Context, ev gateway.Event) error {
	mu := e.ownerLock(ev.Owner)
	mu.Lock()
	defer mu.Unlock()

	sess, err := e.sessions.Get(ctx, ev.Owner)
	if err != nil {
		log.Printf("dispatch %s: loading session for owner %d: %v", ev.ID, ev.Owner, err)
	}
	if sess == nil {
		sess = NewSession(ev.Owner)
	}

	r, err := e.dispatch(ctx, sess, ev)
	if err != nil {
		// Store failures outside the error taxonomy: log, reset, tell the user.
		log.Printf("dispatch %s: owner %d state %d: %v", ev.ID, ev.Owner, sess.State, err)
		sess.Reset()
		r = e.mainMenu("⚠️ Something went wrong — please try again.")
	}

	// Button presses edit the message they came from; text replies get a
	// fresh message, mirroring how chat clients thread conversations.
	if ev.Kind == gateway.EventButton {
		r.Edit = true
		r.MessageID = ev.MessageID
	}

	if err := e.sessions.Put(ctx, sess); err != nil {
		log.Printf("dispatch %s: saving session for owner %d: %v", ev.ID, ev.Owner, err)
	}
	return e.gw.Send(ctx, ev.Owner, r)
}

func (e *Engine) dispatch(ctx context.Context, sess *Session, ev gateway.Event) (gateway.Render, error) {
	switch ev.Kind {
	case gateway.EventCommand:
		return e.handleCommand(sess, ev)
	case gateway.EventButton:
		return e.handleAction(ctx, sess, ev)
	default:
		return e.handleText(ctx, sess, ev)
	}
}

func (e *Engine) handleCommand(sess *Session, ev gateway.Event) (gateway.Render, error) {
	switch ev.Text {
	case "start":
		sess.Reset()
		return e.mainMenu("👋 Welcome to HomeStock!\nTrack what's in the house and never run out."), nil
	case "cancel":
		return e.cancel(sess), nil
	default:
		return e.mainMenu("Unknown command."), nil
	}
}

func (e *Engine) handleAction(ctx context.Context, sess *Session, ev gateway.Event) (gateway.Render, error) {
	action, err := DecodeAction(ev.Payload)
	if err != nil {
		log.Printf("dispatch %s: owner %d: %v", ev.ID, ev.Owner, err)
		sess.Reset()
		return e.mainMenu("I didn't understand that action."), nil
	}

	switch action.Kind {
	case ActMainMenu:
		sess.Reset()
		return e.mainMenu(""), nil
	case ActCancel:
		return e.cancel(sess), nil
	case ActCategoryMenu:
		return e.categoryMenu(ctx, sess)
	case ActProductMenu:
		return e.productMenu(sess), nil
	case ActFullInventory:
		return e.fullInventory(ctx, sess)
	case ActShoppingList:
		return e.shoppingList(ctx, sess)
	case ActPrintInventory:
		return e.printInventory(ctx, sess)
	case ActPrintShopping:
		return e.printShoppingList(ctx, sess)

	case ActAddCategory:
		return e.startAddCategory(sess), nil
	case ActCategoryList:
		return e.showCategoryList(ctx, sess, "")
	case ActCategoryPanel:
		return e.showCategoryPanel(ctx, sess, action.ID)
	case ActRenameCategory:
		return e.startRename(ctx, sess, action.ID)
	case ActDeleteCategory:
		return e.deleteCategory(ctx, sess, action.ID)

	case ActWizardStart:
		return e.startWizard(ctx, sess)
	case ActWizardCategory:
		return e.wizardPickCategory(ctx, sess, action.ID)
	case ActWizardBack:
		return e.wizardBack(ctx, sess, int(action.ID))
	case ActWizardKeep:
		return e.wizardKeep(ctx, sess, int(action.ID))

	case ActEditStart:
		return e.startEdit(ctx, sess)
	case ActEditBucket:
		return e.editPickBucket(ctx, sess, action.ID)
	case ActEditProduct:
		return e.editPickProduct(ctx, sess, action.ID)
	case ActEditBack:
		return e.editBackToList(ctx, sess)
	case ActQuantityInc:
		return e.adjustProduct(ctx, sess, action.ID, fieldQuantity, +1)
	case ActQuantityDec:
		return e.adjustProduct(ctx, sess, action.ID, fieldQuantity, -1)
	case ActThresholdInc:
		return e.adjustProduct(ctx, sess, action.ID, fieldThreshold, +1)
	case ActThresholdDec:
		return e.adjustProduct(ctx, sess, action.ID, fieldThreshold, -1)
	case ActDeleteProduct:
		return e.deleteProduct(ctx, sess, action.ID)
	case ActMoveProduct:
		return e.startMove(ctx, sess, action.ID)
	case ActMoveTarget:
		return e.applyMove(ctx, sess, action.ID, action.Target)
	}

	sess.Reset()
	return e.mainMenu("I didn't understand that action."), nil
}

func (e *Engine) handleText(ctx context.Context, sess *Session, ev gateway.Event) (gateway.Render, error) {
	text := strings.TrimSpace(ev.Text)
	switch sess.State {
	case StateAwaitingCategoryName:
		return e.submitCategoryName(ctx, sess, text)
	case StateRenamePrompt:
		return e.submitRename(ctx, sess, text)
	case StateWizardName:
		return e.wizardSubmitName(sess, text), nil
	case StateWizardQuantity:
		return e.wizardSubmitQuantity(sess, text), nil
	case StateWizardThreshold:
		return e.wizardSubmitThreshold(ctx, sess, text)
	default:
		// The active state takes buttons, not text. Leave the session alone
		// so the existing buttons keep working.
		return e.mainMenu("I wasn't expecting a message — use the buttons."), nil
	}
}

func (e *Engine) cancel(sess *Session) gateway.Render {
	sess.Reset()
	return e.mainMenu("❌ Cancelled.")
}

// expired handles a button from a stale message whose flow scratch is gone.
func (e *Engine) expired(sess *Session) gateway.Render {
	sess.Reset()
	return e.mainMenu("That menu has expired — starting over.")
}

func btn(label string, a Action) gateway.Button {
	return gateway.Button{Label: label, Payload: a.Encode()}
}
