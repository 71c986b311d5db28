package dialog

import (
	"context"
	"errors"
	"fmt"

	"homestock/internal/gateway"
	"homestock/internal/models"
	"homestock/internal/render"
)

func (e *Engine) startAddCategory(sess *Session) gateway.Render {
	sess.Reset()
	sess.State = StateAwaitingCategoryName
	back := btn("🔙 Back", Action{Kind: ActCategoryMenu})
	return gateway.Render{
		Text:     "✍️ Send the category name:\n(e.g. Fridge, Bathroom)",
		Keyboard: render.Grid(nil, &back),
	}
}

func (e *Engine) submitCategoryName(ctx context.Context, sess *Session, name string) (gateway.Render, error) {
	back := btn("🔙 Back", Action{Kind: ActCategoryMenu})
	if name == "" {
		// No transition, the user may just try again.
		return gateway.Render{
			Text:     "⚠️ The name cannot be empty — send the category name:",
			Keyboard: render.Grid(nil, &back),
		}, nil
	}

	_, err := e.categories.Create(ctx, sess.Owner, name)
	if errors.Is(err, models.ErrDuplicateName) {
		return gateway.Render{
			Text:     fmt.Sprintf("❌ Category %q already exists! Send another name.", name),
			Keyboard: render.Grid(nil, &back),
		}, nil
	}
	if err != nil {
		return gateway.Render{}, err
	}

	sess.State = StatePostCreateChoice
	return gateway.Render{
		Text: fmt.Sprintf("✅ Category %q created!", name),
		Keyboard: [][]gateway.Button{{
			btn("➕ Add another", Action{Kind: ActAddCategory}),
			btn("🏠 Menu", Action{Kind: ActMainMenu}),
		}},
	}, nil
}

func (e *Engine) showCategoryList(ctx context.Context, sess *Session, notice string) (gateway.Render, error) {
	sess.Reset()
	sess.State = StateCategoryList

	categories, err := e.categories.List(ctx, sess.Owner)
	if err != nil {
		return gateway.Render{}, err
	}

	back := btn("🔙 Back", Action{Kind: ActCategoryMenu})
	if len(categories) == 0 {
		return gateway.Render{
			Text:     withNotice(notice, "No categories to edit."),
			Keyboard: render.Grid([]gateway.Button{btn("➕ New category", Action{Kind: ActAddCategory})}, &back),
		}, nil
	}

	buttons := make([]gateway.Button, 0, len(categories))
	for _, c := range categories {
		buttons = append(buttons, btn("📂 "+c.Name, Action{Kind: ActCategoryPanel, ID: c.ID}))
	}
	return gateway.Render{
		Text:     withNotice(notice, "✏️ Pick a category to edit:"),
		Keyboard: render.Grid(buttons, &back),
	}, nil
}

func (e *Engine) showCategoryPanel(ctx context.Context, sess *Session, id int64) (gateway.Render, error) {
	category, err := e.categories.GetByID(ctx, sess.Owner, id)
	if errors.Is(err, models.ErrNotFound) {
		return e.showCategoryList(ctx, sess, "⚠️ That category no longer exists.")
	}
	if err != nil {
		return gateway.Render{}, err
	}
	count, err := e.categories.CountProducts(ctx, sess.Owner, id)
	if err != nil {
		return gateway.Render{}, err
	}

	sess.State = StateCategoryPanel
	sess.Category = &CategoryScratch{CategoryID: id}

	back := btn("🔙 Back", Action{Kind: ActCategoryList})
	return gateway.Render{
		Text: fmt.Sprintf("📂 %s\n%d product(s) in this category.", category.Name, count),
		Keyboard: render.Grid([]gateway.Button{
			btn("✏️ Rename", Action{Kind: ActRenameCategory, ID: id}),
			btn("🗑 Delete", Action{Kind: ActDeleteCategory, ID: id}),
		}, &back),
	}, nil
}

func (e *Engine) startRename(ctx context.Context, sess *Session, id int64) (gateway.Render, error) {
	category, err := e.categories.GetByID(ctx, sess.Owner, id)
	if errors.Is(err, models.ErrNotFound) {
		return e.showCategoryList(ctx, sess, "⚠️ That category no longer exists.")
	}
	if err != nil {
		return gateway.Render{}, err
	}

	sess.State = StateRenamePrompt
	sess.Category = &CategoryScratch{CategoryID: id}

	back := btn("🔙 Back", Action{Kind: ActCategoryPanel, ID: id})
	return gateway.Render{
		Text:     fmt.Sprintf("✍️ Send the new name for %q:", category.Name),
		Keyboard: render.Grid(nil, &back),
	}, nil
}

func (e *Engine) submitRename(ctx context.Context, sess *Session, name string) (gateway.Render, error) {
	if sess.Category == nil {
		return e.expired(sess), nil
	}
	id := sess.Category.CategoryID
	back := btn("🔙 Back", Action{Kind: ActCategoryPanel, ID: id})

	if name == "" {
		return gateway.Render{
			Text:     "⚠️ The name cannot be empty — send the new name:",
			Keyboard: render.Grid(nil, &back),
		}, nil
	}

	err := e.categories.Rename(ctx, sess.Owner, id, name)
	if errors.Is(err, models.ErrDuplicateName) {
		return gateway.Render{
			Text:     fmt.Sprintf("❌ %q is taken — send another name.", name),
			Keyboard: render.Grid(nil, &back),
		}, nil
	}
	if errors.Is(err, models.ErrNotFound) {
		return e.showCategoryList(ctx, sess, "⚠️ That category no longer exists.")
	}
	if err != nil {
		return gateway.Render{}, err
	}
	return e.showCategoryList(ctx, sess, fmt.Sprintf("✅ Renamed to %q.", name))
}

func (e *Engine) deleteCategory(ctx context.Context, sess *Session, id int64) (gateway.Render, error) {
	err := e.categories.Delete(ctx, sess.Owner, id)
	if errors.Is(err, models.ErrNotFound) {
		return e.showCategoryList(ctx, sess, "⚠️ That category no longer exists.")
	}
	if err != nil {
		return gateway.Render{}, err
	}
	return e.showCategoryList(ctx, sess, "🗑 Category deleted. Its products were kept, without a category.")
}

func withNotice(notice, text string) string {
	if notice == "" {
		return text
	}
	return notice + "\n\n" + text
}
