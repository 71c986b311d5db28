package dialog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"homestock/internal/gateway"
	"homestock/internal/models"
)

// MockCategoryRepository mocks the CategoryRepository interface for testing
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, ownerID int64, name string) (*models.Category, error) {
	args := m.Called(ctx, ownerID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) List(ctx context.Context, ownerID int64) ([]*models.Category, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) GetByID(ctx context.Context, ownerID, id int64) (*models.Category, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}

func (m *MockCategoryRepository) Rename(ctx context.Context, ownerID, id int64, newName string) error {
	args := m.Called(ctx, ownerID, id, newName)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, ownerID, id int64) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockCategoryRepository) CountProducts(ctx context.Context, ownerID, categoryID int64) (int, error) {
	args := m.Called(ctx, ownerID, categoryID)
	return args.Int(0), args.Error(1)
}

// MockProductRepository mocks the ProductRepository interface for testing
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*models.Product, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductRepository) ListLowStock(ctx context.Context, ownerID int64) ([]*models.Product, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductRepository) ListByCategory(ctx context.Context, ownerID, categoryID int64) ([]*models.Product, error) {
	args := m.Called(ctx, ownerID, categoryID)
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductRepository) ListOrphans(ctx context.Context, ownerID int64) ([]*models.Product, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]*models.Product), args.Error(1)
}

func (m *MockProductRepository) ListOwners(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, ownerID, id int64) (*models.Product, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) UpdateQuantity(ctx context.Context, ownerID, id int64, quantity float64) error {
	args := m.Called(ctx, ownerID, id, quantity)
	return args.Error(0)
}

func (m *MockProductRepository) UpdateThreshold(ctx context.Context, ownerID, id int64, threshold float64) error {
	args := m.Called(ctx, ownerID, id, threshold)
	return args.Error(0)
}

func (m *MockProductRepository) UpdateCategory(ctx context.Context, ownerID, id int64, categoryID *int64) error {
	args := m.Called(ctx, ownerID, id, categoryID)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, ownerID, id int64) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

// fakeGateway records every render the engine sends.
type fakeGateway struct {
	renders []gateway.Render
}

func (g *fakeGateway) Send(_ context.Context, _ int64, r gateway.Render) error {
	g.renders = append(g.renders, r)
	return nil
}

func (g *fakeGateway) last() gateway.Render {
	if len(g.renders) == 0 {
		return gateway.Render{}
	}
	return g.renders[len(g.renders)-1]
}

// fakeSessionStore is a minimal in-test store; the real implementations live
// in internal/session and cannot be imported here.
type fakeSessionStore struct {
	sessions map[int64]*Session
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[int64]*Session)}
}

func (s *fakeSessionStore) Get(_ context.Context, owner int64) (*Session, error) {
	return s.sessions[owner], nil
}

func (s *fakeSessionStore) Put(_ context.Context, sess *Session) error {
	s.sessions[sess.Owner] = sess
	return nil
}

func (s *fakeSessionStore) Delete(_ context.Context, owner int64) error {
	delete(s.sessions, owner)
	return nil
}

type EngineTestSuite struct {
	suite.Suite
	mockCategoryRepo *MockCategoryRepository
	mockProductRepo  *MockProductRepository
	store            *fakeSessionStore
	gw               *fakeGateway
	engine           *Engine
	owner            int64
}

func (suite *EngineTestSuite) SetupTest() {
	suite.mockCategoryRepo = &MockCategoryRepository{}
	suite.mockProductRepo = &MockProductRepository{}
	suite.store = newFakeSessionStore()
	suite.gw = &fakeGateway{}
	suite.engine = NewEngine(suite.mockCategoryRepo, suite.mockProductRepo, suite.store, suite.gw)
	suite.owner = 100500
}

func (suite *EngineTestSuite) TearDownTest() {
	suite.mockCategoryRepo.AssertExpectations(suite.T())
	suite.mockProductRepo.AssertExpectations(suite.T())
}

func TestEngineTestSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (suite *EngineTestSuite) press(payload string) gateway.Render {
	ev := gateway.Event{ID: uuid.New(), Owner: suite.owner, Kind: gateway.EventButton, Payload: payload, MessageID: 77}
	assert.NoError(suite.T(), suite.engine.HandleEvent(context.Background(), ev))
	return suite.gw.last()
}

func (suite *EngineTestSuite) send(text string) gateway.Render {
	ev := gateway.Event{ID: uuid.New(), Owner: suite.owner, Kind: gateway.EventText, Text: text}
	assert.NoError(suite.T(), suite.engine.HandleEvent(context.Background(), ev))
	return suite.gw.last()
}

func (suite *EngineTestSuite) command(name string) gateway.Render {
	ev := gateway.Event{ID: uuid.New(), Owner: suite.owner, Kind: gateway.EventCommand, Text: name}
	assert.NoError(suite.T(), suite.engine.HandleEvent(context.Background(), ev))
	return suite.gw.last()
}

func (suite *EngineTestSuite) session() *Session {
	return suite.store.sessions[suite.owner]
}

func (suite *EngineTestSuite) seedSession(mutate func(*Session)) {
	sess := NewSession(suite.owner)
	mutate(sess)
	suite.store.sessions[suite.owner] = sess
}

func labels(r gateway.Render) []string {
	var out []string
	for _, row := range r.Keyboard {
		for _, b := range row {
			out = append(out, b.Label)
		}
	}
	return out
}

func (suite *EngineTestSuite) TestStartCommand() {
	r := suite.command("start")
	assert.Contains(suite.T(), r.Text, "Welcome to HomeStock")
	assert.Contains(suite.T(), labels(r), "📂 Manage categories")
	assert.Contains(suite.T(), labels(r), "🛒 Manage products")
	assert.Equal(suite.T(), StateNeutral, suite.session().State)
}

func (suite *EngineTestSuite) TestCancelFromMidWizard() {
	suite.seedSession(func(s *Session) {
		s.State = StateWizardQuantity
		s.Wizard = &WizardScratch{Name: "Milk", CategoryChosen: true}
	})

	r := suite.command("cancel")
	assert.Contains(suite.T(), r.Text, "❌ Cancelled.")
	assert.Equal(suite.T(), StateNeutral, suite.session().State)
	assert.Nil(suite.T(), suite.session().Wizard)
}

func (suite *EngineTestSuite) TestAddCategoryFlow() {
	r := suite.press("cadd")
	assert.Contains(suite.T(), r.Text, "Send the category name")
	assert.Equal(suite.T(), StateAwaitingCategoryName, suite.session().State)

	suite.mockCategoryRepo.On("Create", mock.Anything, suite.owner, "Fridge").
		Return(&models.Category{ID: 1, OwnerID: suite.owner, Name: "Fridge"}, nil).Once()

	r = suite.send("Fridge")
	assert.Contains(suite.T(), r.Text, `✅ Category "Fridge" created!`)
	assert.Equal(suite.T(), StatePostCreateChoice, suite.session().State)
	assert.Contains(suite.T(), labels(r), "➕ Add another")
}

func (suite *EngineTestSuite) TestAddCategoryDuplicateStaysInPrompt() {
	suite.seedSession(func(s *Session) { s.State = StateAwaitingCategoryName })

	suite.mockCategoryRepo.On("Create", mock.Anything, suite.owner, "Fridge").
		Return(nil, models.ErrDuplicateName).Once()

	r := suite.send("Fridge")
	assert.Contains(suite.T(), r.Text, "already exists")
	assert.Equal(suite.T(), StateAwaitingCategoryName, suite.session().State)
}

func (suite *EngineTestSuite) TestAddCategoryEmptyNameReprompts() {
	suite.seedSession(func(s *Session) { s.State = StateAwaitingCategoryName })

	r := suite.send("   ")
	assert.Contains(suite.T(), r.Text, "cannot be empty")
	assert.Equal(suite.T(), StateAwaitingCategoryName, suite.session().State)
}

func (suite *EngineTestSuite) TestRenameCategoryFlow() {
	fridge := &models.Category{ID: 3, OwnerID: suite.owner, Name: "Fridge"}
	suite.mockCategoryRepo.On("GetByID", mock.Anything, suite.owner, int64(3)).Return(fridge, nil).Once()

	r := suite.press("cren:3")
	assert.Contains(suite.T(), r.Text, `new name for "Fridge"`)
	assert.Equal(suite.T(), StateRenamePrompt, suite.session().State)

	suite.mockCategoryRepo.On("Rename", mock.Anything, suite.owner, int64(3), "Pantry").Return(nil).Once()
	suite.mockCategoryRepo.On("List", mock.Anything, suite.owner).
		Return([]*models.Category{{ID: 3, OwnerID: suite.owner, Name: "Pantry"}}, nil).Once()

	r = suite.send("Pantry")
	assert.Contains(suite.T(), r.Text, `✅ Renamed to "Pantry".`)
	assert.Equal(suite.T(), StateCategoryList, suite.session().State)
}

func (suite *EngineTestSuite) TestDeleteCategoryKeepsProducts() {
	suite.mockCategoryRepo.On("Delete", mock.Anything, suite.owner, int64(3)).Return(nil).Once()
	suite.mockCategoryRepo.On("List", mock.Anything, suite.owner).
		Return([]*models.Category{}, nil).Once()

	r := suite.press("cdel:3")
	assert.Contains(suite.T(), r.Text, "Its products were kept")
}

func (suite *EngineTestSuite) TestWizardFullRoundTrip() {
	fridge := &models.Category{ID: 3, OwnerID: suite.owner, Name: "Fridge"}
	suite.mockCategoryRepo.On("List", mock.Anything, suite.owner).
		Return([]*models.Category{fridge}, nil).Once()

	r := suite.press("wstart")
	assert.Contains(suite.T(), r.Text, "Pick a category")
	assert.Equal(suite.T(), StateWizardCategory, suite.session().State)

	suite.mockCategoryRepo.On("GetByID", mock.Anything, suite.owner, int64(3)).Return(fridge, nil).Once()
	r = suite.press("wcat:3")
	assert.Contains(suite.T(), r.Text, "What's the product called?")

	r = suite.send("Milk")
	assert.Contains(suite.T(), r.Text, "Current quantity?")

	r = suite.send("2")
	assert.Contains(suite.T(), r.Text, "Minimum threshold?")

	suite.mockProductRepo.On("Create", mock.Anything, mock.MatchedBy(func(p *models.Product) bool {
		return p.OwnerID == suite.owner &&
			p.CategoryID != nil && *p.CategoryID == 3 &&
			p.Name == "Milk" && p.Quantity == 2 && p.Threshold == 1 &&
			p.Unit == models.DefaultUnit
	})).Return(nil).Once()

	r = suite.send("1")
	assert.Contains(suite.T(), r.Text, "✅ Milk added!")
	assert.Equal(suite.T(), StateWizardSaved, suite.session().State)
	assert.Nil(suite.T(), suite.session().Wizard)
}

func (suite *EngineTestSuite) TestWizardBackKeepsEarlierEntries() {
	qty := 3.0
	cid := int64(3)
	suite.seedSession(func(s *Session) {
		s.State = StateWizardThreshold
		s.Wizard = &WizardScratch{CategoryChosen: true, CategoryID: &cid, Name: "Milk", Quantity: &qty}
	})

	r := suite.press("wback:3")
	assert.Equal(suite.T(), StateWizardQuantity, suite.session().State)
	assert.Contains(suite.T(), labels(r), "➡️ Keep 3")

	r = suite.press("wkeep:3")
	assert.Equal(suite.T(), StateWizardThreshold, suite.session().State)
	assert.Contains(suite.T(), r.Text, "Minimum threshold?")
	assert.Equal(suite.T(), 3.0, *suite.session().Wizard.Quantity)
	assert.Equal(suite.T(), "Milk", suite.session().Wizard.Name)
}

func (suite *EngineTestSuite) TestWizardInvalidQuantityReprompts() {
	suite.seedSession(func(s *Session) {
		s.State = StateWizardQuantity
		s.Wizard = &WizardScratch{CategoryChosen: true, Name: "Milk"}
	})

	r := suite.send("abc")
	assert.Contains(suite.T(), r.Text, "valid number")
	assert.Equal(suite.T(), StateWizardQuantity, suite.session().State)
	assert.Nil(suite.T(), suite.session().Wizard.Quantity)
}

func (suite *EngineTestSuite) TestWizardRejectsNegativeQuantity() {
	suite.seedSession(func(s *Session) {
		s.State = StateWizardQuantity
		s.Wizard = &WizardScratch{CategoryChosen: true, Name: "Milk"}
	})

	r := suite.send("-1")
	assert.Contains(suite.T(), r.Text, "valid number")
	assert.Nil(suite.T(), suite.session().Wizard.Quantity)
}

func (suite *EngineTestSuite) TestWizardRejectsNonFiniteQuantity() {
	for _, input := range []string{"NaN", "Inf", "-Inf", "+Inf"} {
		suite.seedSession(func(s *Session) {
			s.State = StateWizardQuantity
			s.Wizard = &WizardScratch{CategoryChosen: true, Name: "Milk"}
		})

		r := suite.send(input)
		assert.Contains(suite.T(), r.Text, "valid number", "input %q", input)
		assert.Nil(suite.T(), suite.session().Wizard.Quantity, "input %q", input)
	}
}

func (suite *EngineTestSuite) TestStaleWizardButtonExpires() {
	r := suite.press("wkeep:2")
	assert.Contains(suite.T(), r.Text, "That menu has expired")
	assert.Equal(suite.T(), StateNeutral, suite.session().State)
}

func (suite *EngineTestSuite) TestWizardBackCannotSkipAhead() {
	// A back button names a step the wizard never reached: fresh scratch,
	// jump straight to the threshold step.
	suite.seedSession(func(s *Session) {
		s.State = StateWizardCategory
		s.Wizard = &WizardScratch{}
	})

	r := suite.press("wback:4")
	assert.Contains(suite.T(), r.Text, "That menu has expired")
	assert.Equal(suite.T(), StateNeutral, suite.session().State)

	// The follow-up number lands in the neutral state and is just nudged.
	r = suite.send("5")
	assert.Contains(suite.T(), r.Text, "use the buttons")
	assert.Equal(suite.T(), StateNeutral, suite.session().State)
}

func (suite *EngineTestSuite) TestWizardBackCannotSkipNameStep() {
	suite.seedSession(func(s *Session) {
		s.State = StateWizardName
		s.Wizard = &WizardScratch{CategoryChosen: true}
	})

	r := suite.press("wback:3")
	assert.Contains(suite.T(), r.Text, "That menu has expired")
	assert.Equal(suite.T(), StateNeutral, suite.session().State)
}

func (suite *EngineTestSuite) TestThresholdTextWithIncompleteScratchExpires() {
	suite.seedSession(func(s *Session) {
		s.State = StateWizardThreshold
		s.Wizard = &WizardScratch{CategoryChosen: true}
	})

	r := suite.send("5")
	assert.Contains(suite.T(), r.Text, "That menu has expired")
	assert.Equal(suite.T(), StateNeutral, suite.session().State)
}

func (suite *EngineTestSuite) TestAdjustQuantityClampsAtZero() {
	suite.seedSession(func(s *Session) {
		s.State = StateControlPanel
		s.Edit = &EditScratch{ProductID: 1}
	})

	empty := &models.Product{ID: 1, OwnerID: suite.owner, Name: "Milk", Quantity: 0, Unit: "l", Threshold: 2}
	suite.mockProductRepo.On("GetByID", mock.Anything, suite.owner, int64(1)).Return(empty, nil).Twice()
	suite.mockProductRepo.On("UpdateQuantity", mock.Anything, suite.owner, int64(1), 0.0).Return(nil).Once()

	r := suite.press("eqd:1")
	assert.Contains(suite.T(), r.Text, "✏️ Managing: Milk")
	assert.Equal(suite.T(), StateControlPanel, suite.session().State)
}

func (suite *EngineTestSuite) TestDeleteProductReturnsToItsList() {
	cid := int64(3)
	suite.seedSession(func(s *Session) {
		s.State = StateControlPanel
		s.Edit = &EditScratch{ProductID: 1, BucketID: &cid}
	})

	suite.mockProductRepo.On("Delete", mock.Anything, suite.owner, int64(1)).Return(nil).Once()
	suite.mockProductRepo.On("ListByCategory", mock.Anything, suite.owner, int64(3)).
		Return([]*models.Product{}, nil).Once()

	r := suite.press("edel:1")
	assert.Contains(suite.T(), r.Text, "🗑 Product deleted.")
	assert.Equal(suite.T(), StateEditProduct, suite.session().State)
}

func (suite *EngineTestSuite) TestMissingProductFallsBackToList() {
	suite.seedSession(func(s *Session) {
		s.State = StateEditProduct
		s.Edit = &EditScratch{}
	})

	suite.mockProductRepo.On("GetByID", mock.Anything, suite.owner, int64(9)).
		Return(nil, models.ErrNotFound).Once()
	suite.mockProductRepo.On("ListOrphans", mock.Anything, suite.owner).
		Return([]*models.Product{}, nil).Once()

	r := suite.press("eprod:9")
	assert.Contains(suite.T(), r.Text, "no longer exists")
}

func (suite *EngineTestSuite) TestMoveProductUpdatesBucket() {
	cid := int64(3)
	suite.seedSession(func(s *Session) {
		s.State = StateMovePicker
		s.Edit = &EditScratch{ProductID: 1, BucketID: &cid}
	})

	pantry := &models.Category{ID: 5, OwnerID: suite.owner, Name: "Pantry"}
	moved := &models.Product{ID: 1, OwnerID: suite.owner, Name: "Milk", Quantity: 2, Unit: "l", Threshold: 1}
	suite.mockCategoryRepo.On("GetByID", mock.Anything, suite.owner, int64(5)).Return(pantry, nil).Once()
	suite.mockProductRepo.On("UpdateCategory", mock.Anything, suite.owner, int64(1),
		mock.MatchedBy(func(id *int64) bool { return id != nil && *id == 5 })).Return(nil).Once()
	suite.mockProductRepo.On("GetByID", mock.Anything, suite.owner, int64(1)).Return(moved, nil).Once()

	r := suite.press("emvto:1:5")
	assert.Contains(suite.T(), r.Text, "✏️ Managing: Milk")
	assert.Equal(suite.T(), int64(5), *suite.session().Edit.BucketID)
}

func (suite *EngineTestSuite) TestButtonEventsEditInPlace() {
	r := suite.press("home")
	assert.True(suite.T(), r.Edit)
	assert.Equal(suite.T(), 77, r.MessageID)
}

func (suite *EngineTestSuite) TestTextRepliesSendFreshMessages() {
	suite.seedSession(func(s *Session) { s.State = StateAwaitingCategoryName })
	r := suite.send("")
	assert.False(suite.T(), r.Edit)
}

func (suite *EngineTestSuite) TestStoreFailureResetsSession() {
	suite.seedSession(func(s *Session) {
		s.State = StateWizardCategory
		s.Wizard = &WizardScratch{}
	})

	suite.mockProductRepo.On("ListByOwner", mock.Anything, suite.owner).
		Return([]*models.Product(nil), errors.New("connection refused")).Once()

	r := suite.press("inv")
	assert.Contains(suite.T(), r.Text, "Something went wrong")
	assert.Equal(suite.T(), StateNeutral, suite.session().State)
	assert.Nil(suite.T(), suite.session().Wizard)
}

func (suite *EngineTestSuite) TestUnknownPayloadResets() {
	suite.seedSession(func(s *Session) { s.State = StateCategoryList })

	r := suite.press("bogus:1:2:3")
	assert.Contains(suite.T(), r.Text, "didn't understand")
	assert.Equal(suite.T(), StateNeutral, suite.session().State)
}

func (suite *EngineTestSuite) TestUnexpectedTextLeavesStateAlone() {
	suite.seedSession(func(s *Session) { s.State = StateCategoryList })

	r := suite.send("hello?")
	assert.Contains(suite.T(), r.Text, "use the buttons")
	assert.Equal(suite.T(), StateCategoryList, suite.session().State)
}

func (suite *EngineTestSuite) TestShoppingListEmptyState() {
	suite.mockProductRepo.On("ListLowStock", mock.Anything, suite.owner).
		Return([]*models.Product{}, nil).Once()

	r := suite.press("shop")
	assert.Contains(suite.T(), r.Text, "Fully stocked")
	assert.Contains(suite.T(), labels(r), "📤 Send to chat")
}

func (suite *EngineTestSuite) TestSendShoppingListToChat() {
	low := []*models.Product{
		{ID: 1, OwnerID: suite.owner, Name: "Milk", Quantity: 0, Unit: "l", Threshold: 1},
	}
	suite.mockProductRepo.On("ListLowStock", mock.Anything, suite.owner).Return(low, nil).Once()

	r := suite.press("pshop")

	// A static copy with no buttons goes out first, then the menu.
	assert.GreaterOrEqual(suite.T(), len(suite.gw.renders), 2)
	printed := suite.gw.renders[len(suite.gw.renders)-2]
	assert.False(suite.T(), printed.Edit)
	assert.Empty(suite.T(), printed.Keyboard)
	assert.Contains(suite.T(), printed.Text, "Milk")

	assert.Contains(suite.T(), r.Text, "What do you want to do?")
	assert.Equal(suite.T(), StateNeutral, suite.session().State)
}

func (suite *EngineTestSuite) TestSendInventoryToChat() {
	suite.mockProductRepo.On("ListByOwner", mock.Anything, suite.owner).
		Return([]*models.Product{}, nil).Once()

	r := suite.press("pinv")

	printed := suite.gw.renders[len(suite.gw.renders)-2]
	assert.False(suite.T(), printed.Edit)
	assert.Contains(suite.T(), printed.Text, "📋 Full inventory")
	assert.Contains(suite.T(), r.Text, "What do you want to do?")
}
