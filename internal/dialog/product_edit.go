package dialog

import (
	"context"
	"errors"

	"homestock/internal/gateway"
	"homestock/internal/models"
	"homestock/internal/render"
)

type productField int

const (
	fieldQuantity productField = iota
	fieldThreshold
)

func (e *Engine) startEdit(ctx context.Context, sess *Session) (gateway.Render, error) {
	sess.Reset()
	sess.Edit = &EditScratch{}
	sess.State = StateEditBucket

	categories, err := e.categories.List(ctx, sess.Owner)
	if err != nil {
		return gateway.Render{}, err
	}

	buttons := make([]gateway.Button, 0, len(categories)+1)
	for _, c := range categories {
		buttons = append(buttons, btn("📂 "+c.Name, Action{Kind: ActEditBucket, ID: c.ID}))
	}
	buttons = append(buttons, btn("📦 "+render.NoCategoryLabel, Action{Kind: ActEditBucket, ID: 0}))

	back := btn("🔙 Back", Action{Kind: ActProductMenu})
	return gateway.Render{
		Text:     "✏️ Pick a category to manage:",
		Keyboard: render.Grid(buttons, &back),
	}, nil
}

func (e *Engine) editPickBucket(ctx context.Context, sess *Session, id int64) (gateway.Render, error) {
	if sess.Edit == nil {
		return e.expired(sess), nil
	}
	if id == 0 {
		sess.Edit.BucketID = nil
	} else {
		if _, err := e.categories.GetByID(ctx, sess.Owner, id); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				r, err2 := e.startEdit(ctx, sess)
				r.Text = withNotice("⚠️ That category no longer exists.", r.Text)
				return r, err2
			}
			return gateway.Render{}, err
		}
		cid := id
		sess.Edit.BucketID = &cid
	}
	return e.editProductList(ctx, sess, "")
}

func (e *Engine) editProductList(ctx context.Context, sess *Session, notice string) (gateway.Render, error) {
	sess.State = StateEditProduct

	var (
		products []*models.Product
		err      error
	)
	if sess.Edit.BucketID == nil {
		products, err = e.products.ListOrphans(ctx, sess.Owner)
	} else {
		products, err = e.products.ListByCategory(ctx, sess.Owner, *sess.Edit.BucketID)
	}
	if err != nil {
		return gateway.Render{}, err
	}

	back := btn("🔙 Back", Action{Kind: ActEditStart})
	if len(products) == 0 {
		return gateway.Render{
			Text:     withNotice(notice, "📦 No products here."),
			Keyboard: render.Grid(nil, &back),
		}, nil
	}

	buttons := make([]gateway.Button, 0, len(products))
	for _, p := range products {
		buttons = append(buttons, btn(p.Name, Action{Kind: ActEditProduct, ID: p.ID}))
	}
	return gateway.Render{
		Text:     withNotice(notice, "📦 Pick a product to manage:"),
		Keyboard: render.Grid(buttons, &back),
	}, nil
}

func (e *Engine) editPickProduct(ctx context.Context, sess *Session, id int64) (gateway.Render, error) {
	if sess.Edit == nil {
		return e.expired(sess), nil
	}
	product, err := e.products.GetByID(ctx, sess.Owner, id)
	if errors.Is(err, models.ErrNotFound) {
		return e.editProductList(ctx, sess, "⚠️ That product no longer exists.")
	}
	if err != nil {
		return gateway.Render{}, err
	}

	sess.Edit.ProductID = id
	// Remember the product's bucket so delete can land back on its list.
	sess.Edit.BucketID = product.CategoryID
	return e.controlPanel(sess, product), nil
}

func (e *Engine) controlPanel(sess *Session, p *models.Product) gateway.Render {
	sess.State = StateControlPanel
	return gateway.Render{
		Text: render.ControlPanel(p),
		Keyboard: [][]gateway.Button{
			{
				btn("➖ Stock", Action{Kind: ActQuantityDec, ID: p.ID}),
				btn("Stock ➕", Action{Kind: ActQuantityInc, ID: p.ID}),
			},
			{
				btn("➖ Min", Action{Kind: ActThresholdDec, ID: p.ID}),
				btn("Min ➕", Action{Kind: ActThresholdInc, ID: p.ID}),
			},
			{btn("📂 Move to category", Action{Kind: ActMoveProduct, ID: p.ID})},
			{btn("🗑 Delete product", Action{Kind: ActDeleteProduct, ID: p.ID})},
			{btn("🔙 Back", Action{Kind: ActEditBack})},
		},
	}
}

func (e *Engine) adjustProduct(ctx context.Context, sess *Session, id int64, field productField, delta float64) (gateway.Render, error) {
	if sess.Edit == nil {
		return e.expired(sess), nil
	}
	product, err := e.products.GetByID(ctx, sess.Owner, id)
	if errors.Is(err, models.ErrNotFound) {
		return e.editProductList(ctx, sess, "⚠️ That product no longer exists.")
	}
	if err != nil {
		return gateway.Render{}, err
	}

	switch field {
	case fieldQuantity:
		value := product.Quantity + delta
		if value < 0 {
			value = 0
		}
		err = e.products.UpdateQuantity(ctx, sess.Owner, id, value)
	case fieldThreshold:
		value := product.Threshold + delta
		if value < 0 {
			value = 0
		}
		err = e.products.UpdateThreshold(ctx, sess.Owner, id, value)
	}
	if errors.Is(err, models.ErrNotFound) {
		return e.editProductList(ctx, sess, "⚠️ That product no longer exists.")
	}
	if err != nil {
		return gateway.Render{}, err
	}

	// Re-render the panel with the stored values, not the computed ones.
	product, err = e.products.GetByID(ctx, sess.Owner, id)
	if errors.Is(err, models.ErrNotFound) {
		return e.editProductList(ctx, sess, "⚠️ That product no longer exists.")
	}
	if err != nil {
		return gateway.Render{}, err
	}
	return e.controlPanel(sess, product), nil
}

func (e *Engine) startMove(ctx context.Context, sess *Session, id int64) (gateway.Render, error) {
	if sess.Edit == nil {
		return e.expired(sess), nil
	}
	categories, err := e.categories.List(ctx, sess.Owner)
	if err != nil {
		return gateway.Render{}, err
	}

	sess.State = StateMovePicker
	buttons := make([]gateway.Button, 0, len(categories)+1)
	for _, c := range categories {
		buttons = append(buttons, btn(c.Name, Action{Kind: ActMoveTarget, ID: id, Target: c.ID}))
	}
	buttons = append(buttons, btn("📦 "+render.NoCategoryLabel, Action{Kind: ActMoveTarget, ID: id, Target: 0}))

	back := btn("🔙 Back", Action{Kind: ActEditProduct, ID: id})
	return gateway.Render{
		Text:     "📂 Move to which category?",
		Keyboard: render.Grid(buttons, &back),
	}, nil
}

func (e *Engine) applyMove(ctx context.Context, sess *Session, productID, targetID int64) (gateway.Render, error) {
	if sess.Edit == nil {
		return e.expired(sess), nil
	}

	var target *int64
	if targetID != 0 {
		if _, err := e.categories.GetByID(ctx, sess.Owner, targetID); err != nil {
			if errors.Is(err, models.ErrNotFound) {
				return e.editProductList(ctx, sess, "⚠️ That category no longer exists.")
			}
			return gateway.Render{}, err
		}
		tid := targetID
		target = &tid
	}

	err := e.products.UpdateCategory(ctx, sess.Owner, productID, target)
	if errors.Is(err, models.ErrNotFound) {
		return e.editProductList(ctx, sess, "⚠️ That product no longer exists.")
	}
	if err != nil {
		return gateway.Render{}, err
	}
	sess.Edit.BucketID = target

	product, err := e.products.GetByID(ctx, sess.Owner, productID)
	if errors.Is(err, models.ErrNotFound) {
		return e.editProductList(ctx, sess, "⚠️ That product no longer exists.")
	}
	if err != nil {
		return gateway.Render{}, err
	}
	return e.controlPanel(sess, product), nil
}

func (e *Engine) deleteProduct(ctx context.Context, sess *Session, id int64) (gateway.Render, error) {
	if sess.Edit == nil {
		return e.expired(sess), nil
	}
	err := e.products.Delete(ctx, sess.Owner, id)
	if errors.Is(err, models.ErrNotFound) {
		return e.editProductList(ctx, sess, "⚠️ That product was already gone.")
	}
	if err != nil {
		return gateway.Render{}, err
	}
	return e.editProductList(ctx, sess, "🗑 Product deleted.")
}

func (e *Engine) editBackToList(ctx context.Context, sess *Session) (gateway.Render, error) {
	if sess.Edit == nil {
		return e.expired(sess), nil
	}
	return e.editProductList(ctx, sess, "")
}
