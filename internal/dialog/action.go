package dialog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ActionKind enumerates every button action the dialog engine understands.
// Kinds are short codes because the encoded payload rides inside a chat
// callback, which platforms cap at a few dozen bytes.
type ActionKind string

const (
	ActMainMenu       ActionKind = "home"
	ActCategoryMenu   ActionKind = "cmenu"
	ActProductMenu    ActionKind = "pmenu"
	ActFullInventory  ActionKind = "inv"
	ActShoppingList   ActionKind = "shop"
	ActPrintInventory ActionKind = "pinv"  // post as a fresh keepable message
	ActPrintShopping  ActionKind = "pshop" // post as a fresh keepable message
	ActCancel         ActionKind = "cancel"

	ActAddCategory    ActionKind = "cadd"
	ActCategoryList   ActionKind = "clist"
	ActCategoryPanel  ActionKind = "cpan" // category id
	ActRenameCategory ActionKind = "cren" // category id
	ActDeleteCategory ActionKind = "cdel" // category id

	ActWizardStart    ActionKind = "wstart"
	ActWizardCategory ActionKind = "wcat"  // category id, 0 = no category
	ActWizardBack     ActionKind = "wback" // step to return to
	ActWizardKeep     ActionKind = "wkeep" // step whose stored value to keep

	ActEditStart     ActionKind = "estart"
	ActEditBucket    ActionKind = "ebkt" // category id, 0 = orphan bucket
	ActEditProduct   ActionKind = "eprod"
	ActEditBack      ActionKind = "eback"
	ActQuantityInc   ActionKind = "eqi"
	ActQuantityDec   ActionKind = "eqd"
	ActThresholdInc  ActionKind = "eti"
	ActThresholdDec  ActionKind = "etd"
	ActDeleteProduct ActionKind = "edel"
	ActMoveProduct   ActionKind = "emove"
	ActMoveTarget    ActionKind = "emvto" // product id + target category id, 0 = none
)

// actionArity declares how many numeric fields each kind carries. Decoding
// rejects payloads whose field count does not match.
var actionArity = map[ActionKind]int{
	ActMainMenu:       0,
	ActCategoryMenu:   0,
	ActProductMenu:    0,
	ActFullInventory:  0,
	ActShoppingList:   0,
	ActPrintInventory: 0,
	ActPrintShopping:  0,
	ActCancel:         0,

	ActAddCategory:    0,
	ActCategoryList:   0,
	ActCategoryPanel:  1,
	ActRenameCategory: 1,
	ActDeleteCategory: 1,

	ActWizardStart:    0,
	ActWizardCategory: 1,
	ActWizardBack:     1,
	ActWizardKeep:     1,

	ActEditStart:     0,
	ActEditBucket:    1,
	ActEditProduct:   1,
	ActEditBack:      0,
	ActQuantityInc:   1,
	ActQuantityDec:   1,
	ActThresholdInc:  1,
	ActThresholdDec:  1,
	ActDeleteProduct: 1,
	ActMoveProduct:   1,
	ActMoveTarget:    2,
}

const actionSep = ":"

var ErrBadAction = errors.New("malformed action payload")

// Action is a strongly-typed button payload. ID is the primary subject
// (category, product or wizard step depending on the kind); Target is the
// second id for two-argument kinds.
type Action struct {
	Kind   ActionKind
	ID     int64
	Target int64
}

// Encode produces the wire payload. The codec pair Encode/DecodeAction is
// the only place payload syntax exists.
func (a Action) Encode() string {
	parts := []string{string(a.Kind)}
	switch actionArity[a.Kind] {
	case 1:
		parts = append(parts, strconv.FormatInt(a.ID, 10))
	case 2:
		parts = append(parts, strconv.FormatInt(a.ID, 10), strconv.FormatInt(a.Target, 10))
	}
	return strings.Join(parts, actionSep)
}

// DecodeAction parses a wire payload back into an Action.
func DecodeAction(payload string) (Action, error) {
	parts := strings.Split(payload, actionSep)
	kind := ActionKind(parts[0])
	arity, ok := actionArity[kind]
	if !ok {
		return Action{}, fmt.Errorf("%w: unknown kind %q", ErrBadAction, parts[0])
	}
	if len(parts)-1 != arity {
		return Action{}, fmt.Errorf("%w: kind %q wants %d fields, got %d", ErrBadAction, kind, arity, len(parts)-1)
	}

	action := Action{Kind: kind}
	if arity >= 1 {
		id, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return Action{}, fmt.Errorf("%w: %v", ErrBadAction, err)
		}
		action.ID = id
	}
	if arity == 2 {
		target, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return Action{}, fmt.Errorf("%w: %v", ErrBadAction, err)
		}
		action.Target = target
	}
	return action, nil
}
