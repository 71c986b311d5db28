package dialog

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"homestock/internal/gateway"
	"homestock/internal/models"
	"homestock/internal/render"
)

// parseAmount accepts the numeric free-text inputs of the wizard and the
// edit panel. Negative and non-finite amounts are rejected like any other
// invalid input; ParseFloat happily accepts "NaN" and "Inf".
func parseAmount(text string) (float64, error) {
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite amount %v", v)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative amount %v", v)
	}
	return v, nil
}

func (e *Engine) startWizard(ctx context.Context, sess *Session) (gateway.Render, error) {
	sess.Reset()
	sess.Wizard = &WizardScratch{}
	return e.wizardCategoryStep(ctx, sess)
}

func (e *Engine) wizardCategoryStep(ctx context.Context, sess *Session) (gateway.Render, error) {
	sess.State = StateWizardCategory
	categories, err := e.categories.List(ctx, sess.Owner)
	if err != nil {
		return gateway.Render{}, err
	}

	buttons := make([]gateway.Button, 0, len(categories)+2)
	for _, c := range categories {
		buttons = append(buttons, btn(c.Name, Action{Kind: ActWizardCategory, ID: c.ID}))
	}
	buttons = append(buttons, btn("📦 No category", Action{Kind: ActWizardCategory, ID: 0}))
	if sess.Wizard.CategoryChosen {
		buttons = append(buttons, btn("➡️ Keep current", Action{Kind: ActWizardKeep, ID: stepCategory}))
	}

	back := btn("🔙 Back", Action{Kind: ActProductMenu})
	return gateway.Render{
		Text:     "1️⃣ Pick a category:",
		Keyboard: render.Grid(buttons, &back),
	}, nil
}

func (e *Engine) wizardPickCategory(ctx context.Context, sess *Session, id int64) (gateway.Render, error) {
	if sess.Wizard == nil || sess.State != StateWizardCategory {
		return e.expired(sess), nil
	}

	if id == 0 {
		sess.Wizard.CategoryID = nil
	} else {
		if _, err := e.categories.GetByID(ctx, sess.Owner, id); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return e.wizardCategoryStep(ctx, sess)
			}
			return gateway.Render{}, err
		}
		cid := id
		sess.Wizard.CategoryID = &cid
	}
	sess.Wizard.CategoryChosen = true
	return e.wizardNameStep(sess), nil
}

func (e *Engine) wizardNameStep(sess *Session) gateway.Render {
	sess.State = StateWizardName

	text := "2️⃣ What's the product called?"
	var buttons []gateway.Button
	if sess.Wizard.Name != "" {
		buttons = append(buttons, btn("➡️ Keep "+sess.Wizard.Name, Action{Kind: ActWizardKeep, ID: stepName}))
	}
	back := btn("🔙 Back", Action{Kind: ActWizardBack, ID: stepCategory})
	return gateway.Render{Text: text, Keyboard: render.Grid(buttons, &back)}
}

func (e *Engine) wizardSubmitName(sess *Session, text string) gateway.Render {
	if sess.Wizard == nil {
		return e.expired(sess)
	}
	if text == "" {
		back := btn("🔙 Back", Action{Kind: ActWizardBack, ID: stepCategory})
		return gateway.Render{
			Text:     "⚠️ Send the product name as text.",
			Keyboard: render.Grid(nil, &back),
		}
	}
	sess.Wizard.Name = text
	return e.wizardQuantityStep(sess)
}

func (e *Engine) wizardQuantityStep(sess *Session) gateway.Render {
	sess.State = StateWizardQuantity

	text := fmt.Sprintf("Ok, %s.\n3️⃣ Current quantity? (just the number)", sess.Wizard.Name)
	var buttons []gateway.Button
	if sess.Wizard.Quantity != nil {
		buttons = append(buttons, btn("➡️ Keep "+render.Number(*sess.Wizard.Quantity),
			Action{Kind: ActWizardKeep, ID: stepQuantity}))
	}
	back := btn("🔙 Back", Action{Kind: ActWizardBack, ID: stepName})
	return gateway.Render{Text: text, Keyboard: render.Grid(buttons, &back)}
}

func (e *Engine) wizardSubmitQuantity(sess *Session, text string) gateway.Render {
	if sess.Wizard == nil {
		return e.expired(sess)
	}
	v, err := parseAmount(text)
	if err != nil {
		// Input not consumed, scratch not advanced.
		back := btn("🔙 Back", Action{Kind: ActWizardBack, ID: stepName})
		return gateway.Render{
			Text:     "⚠️ Please send a valid number.",
			Keyboard: render.Grid(nil, &back),
		}
	}
	sess.Wizard.Quantity = &v
	return e.wizardThresholdStep(sess)
}

func (e *Engine) wizardThresholdStep(sess *Session) gateway.Render {
	sess.State = StateWizardThreshold
	back := btn("🔙 Back", Action{Kind: ActWizardBack, ID: stepQuantity})
	return gateway.Render{
		Text:     "4️⃣ Minimum threshold?\n(it lands on the shopping list at or below this)",
		Keyboard: render.Grid(nil, &back),
	}
}

func (e *Engine) wizardSubmitThreshold(ctx context.Context, sess *Session, text string) (gateway.Render, error) {
	if sess.Wizard == nil || sess.Wizard.Name == "" || sess.Wizard.Quantity == nil {
		return e.expired(sess), nil
	}
	v, err := parseAmount(text)
	if err != nil {
		back := btn("🔙 Back", Action{Kind: ActWizardBack, ID: stepQuantity})
		return gateway.Render{
			Text:     "⚠️ Please send a valid number.",
			Keyboard: render.Grid(nil, &back),
		}, nil
	}

	w := sess.Wizard
	product := &models.Product{
		OwnerID:    sess.Owner,
		CategoryID: w.CategoryID,
		Name:       w.Name,
		Quantity:   *w.Quantity,
		Unit:       models.DefaultUnit,
		Threshold:  v,
	}
	if err := e.products.Create(ctx, product); err != nil {
		return gateway.Render{}, err
	}

	name := w.Name
	sess.Reset() // nothing leaks into the next wizard run
	sess.State = StateWizardSaved
	return gateway.Render{
		Text: fmt.Sprintf("✅ %s added!", name),
		Keyboard: [][]gateway.Button{
			{btn("➕ Add another", Action{Kind: ActWizardStart})},
			{btn("🏠 Done", Action{Kind: ActMainMenu})},
		},
	}, nil
}

func (e *Engine) wizardBack(ctx context.Context, sess *Session, step int) (gateway.Render, error) {
	if sess.Wizard == nil {
		return e.expired(sess), nil
	}
	// Only a step whose prerequisites are in scratch can be returned to; a
	// codec-valid payload naming any other step is stale or forged.
	w := sess.Wizard
	switch {
	case step == stepCategory:
		return e.wizardCategoryStep(ctx, sess)
	case step == stepName && w.CategoryChosen:
		return e.wizardNameStep(sess), nil
	case step == stepQuantity && w.Name != "":
		return e.wizardQuantityStep(sess), nil
	case step == stepThreshold && w.Quantity != nil:
		return e.wizardThresholdStep(sess), nil
	}
	return e.expired(sess), nil
}

// wizardKeep advances a step without touching its stored value, which is
// how forward navigation after going back preserves earlier entries.
func (e *Engine) wizardKeep(ctx context.Context, sess *Session, step int) (gateway.Render, error) {
	if sess.Wizard == nil {
		return e.expired(sess), nil
	}
	w := sess.Wizard
	switch {
	case step == stepCategory && w.CategoryChosen:
		return e.wizardNameStep(sess), nil
	case step == stepName && w.Name != "":
		return e.wizardQuantityStep(sess), nil
	case step == stepQuantity && w.Quantity != nil:
		return e.wizardThresholdStep(sess), nil
	}
	return e.expired(sess), nil
}
