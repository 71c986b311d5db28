package dialog

import "context"

// State identifies where a session currently is. A state accepts either
// buttons or free text, never both ambiguously: the prompt rendered for the
// state tells the user which one it expects.
type State int

const (
	StateNeutral State = iota

	// Category flows.
	StateAwaitingCategoryName
	StatePostCreateChoice
	StateCategoryList
	StateCategoryPanel
	StateRenamePrompt

	// Product wizard, strictly ordered steps.
	StateWizardCategory
	StateWizardName
	StateWizardQuantity
	StateWizardThreshold
	StateWizardSaved

	// Product edit flow.
	StateEditBucket
	StateEditProduct
	StateControlPanel
	StateMovePicker
)

// Wizard step numbers used by back/keep navigation.
const (
	stepCategory  = 1
	stepName      = 2
	stepQuantity  = 3
	stepThreshold = 4
)

// WizardScratch holds the add-product wizard's partial entries. Values stay
// in place across backward navigation so stepping forward again does not
// lose them; nil/zero means "not entered yet".
type WizardScratch struct {
	CategoryChosen bool     `json:"category_chosen"`
	CategoryID     *int64   `json:"category_id"` // nil = no category
	Name           string   `json:"name"`
	Quantity       *float64 `json:"quantity"`
	Threshold      *float64 `json:"threshold"`
}

// EditScratch remembers which bucket the edit flow is browsing, so a delete
// can return to the product's list after the product itself is gone.
type EditScratch struct {
	BucketID  *int64 `json:"bucket_id"` // nil = orphan bucket
	ProductID int64  `json:"product_id"`
}

// CategoryScratch tracks the category under edit.
type CategoryScratch struct {
	CategoryID int64 `json:"category_id"`
}

// Session is the per-owner dialog context: the current state plus scratch
// for whichever flow is active. One flow at a time; entering a flow clears
// whatever an abandoned one left behind.
type Session struct {
	Owner    int64            `json:"owner"`
	State    State            `json:"state"`
	Wizard   *WizardScratch   `json:"wizard,omitempty"`
	Edit     *EditScratch     `json:"edit,omitempty"`
	Category *CategoryScratch `json:"category,omitempty"`
}

func NewSession(owner int64) *Session {
	return &Session{Owner: owner, State: StateNeutral}
}

// Reset returns the session to the neutral state and discards all scratch.
func (s *Session) Reset() {
	s.State = StateNeutral
	s.Wizard = nil
	s.Edit = nil
	s.Category = nil
}

// SessionStore persists sessions between events. Implementations live in
// internal/session; a nil result with nil error means "no session yet".
type SessionStore interface {
	Get(ctx context.Context, owner int64) (*Session, error)
	Put(ctx context.Context, s *Session) error
	Delete(ctx context.Context, owner int64) error
}
