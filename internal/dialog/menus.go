package dialog

import (
	"context"

	"homestock/internal/gateway"
	"homestock/internal/render"
)

func (e *Engine) mainMenu(note string) gateway.Render {
	text := "What do you want to do?"
	if note != "" {
		text = note + "\n\n" + text
	}
	return gateway.Render{
		Text: text,
		Keyboard: [][]gateway.Button{
			{btn("📂 Manage categories", Action{Kind: ActCategoryMenu})},
			{btn("🛒 Manage products", Action{Kind: ActProductMenu})},
		},
	}
}

func (e *Engine) categoryMenu(ctx context.Context, sess *Session) (gateway.Render, error) {
	sess.Reset()
	categories, err := e.categories.List(ctx, sess.Owner)
	if err != nil {
		return gateway.Render{}, err
	}

	keyboard := [][]gateway.Button{
		{btn("➕ New category", Action{Kind: ActAddCategory})},
	}
	if len(categories) > 0 {
		keyboard = append(keyboard, []gateway.Button{btn("✏️ Edit categories", Action{Kind: ActCategoryList})})
	}
	keyboard = append(keyboard, []gateway.Button{btn("🔙 Main menu", Action{Kind: ActMainMenu})})

	return gateway.Render{Text: render.CategoryList(categories), Keyboard: keyboard}, nil
}

func (e *Engine) productMenu(sess *Session) gateway.Render {
	sess.Reset()
	return gateway.Render{
		Text: "🛒 Product management\nWhat do you want to do?",
		Keyboard: [][]gateway.Button{
			{btn("➕ Add product", Action{Kind: ActWizardStart})},
			{btn("✏️ Edit / update", Action{Kind: ActEditStart})},
			{btn("🚨 Shopping list", Action{Kind: ActShoppingList})},
			{btn("📋 Full inventory", Action{Kind: ActFullInventory})},
			{btn("🔙 Main menu", Action{Kind: ActMainMenu})},
		},
	}
}

func (e *Engine) fullInventory(ctx context.Context, sess *Session) (gateway.Render, error) {
	sess.Reset()
	products, err := e.products.ListByOwner(ctx, sess.Owner)
	if err != nil {
		return gateway.Render{}, err
	}
	back := btn("🔙 Back", Action{Kind: ActProductMenu})
	return gateway.Render{
		Text:     render.Inventory(products, "📋 Full inventory"),
		Keyboard: render.Grid([]gateway.Button{btn("📤 Send to chat", Action{Kind: ActPrintInventory})}, &back),
	}, nil
}

func (e *Engine) shoppingList(ctx context.Context, sess *Session) (gateway.Render, error) {
	sess.Reset()
	products, err := e.products.ListLowStock(ctx, sess.Owner)
	if err != nil {
		return gateway.Render{}, err
	}
	back := btn("🔙 Back", Action{Kind: ActProductMenu})
	return gateway.Render{
		Text:     render.ShoppingList(products, "🚨 Shopping list"),
		Keyboard: render.Grid([]gateway.Button{btn("📤 Send to chat", Action{Kind: ActPrintShopping})}, &back),
	}, nil
}

// printInventory posts the inventory as a fresh message with no buttons, so
// the user keeps a static copy, then lands back on the main menu.
func (e *Engine) printInventory(ctx context.Context, sess *Session) (gateway.Render, error) {
	sess.Reset()
	products, err := e.products.ListByOwner(ctx, sess.Owner)
	if err != nil {
		return gateway.Render{}, err
	}
	if err := e.gw.Send(ctx, sess.Owner, gateway.Render{Text: render.Inventory(products, "📋 Full inventory")}); err != nil {
		return gateway.Render{}, err
	}
	return e.mainMenu(""), nil
}

func (e *Engine) printShoppingList(ctx context.Context, sess *Session) (gateway.Render, error) {
	sess.Reset()
	products, err := e.products.ListLowStock(ctx, sess.Owner)
	if err != nil {
		return gateway.Render{}, err
	}
	if err := e.gw.Send(ctx, sess.Owner, gateway.Render{Text: render.ShoppingList(products, "🚨 Shopping list")}); err != nil {
		return gateway.Render{}, err
	}
	return e.mainMenu(""), nil
}
