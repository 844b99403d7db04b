package usecase_test

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"agora/internal/domain/model"
	repo "agora/internal/repository"

	"github.com/stretchr/testify/assert"
)

// =====================
// In-memory fakes
// =====================

// DBの代わり。WithinTxは失敗時にスナップショットへ巻き戻す。
type fakeState struct {
	products     map[int64]model.Product
	images       map[int64][]model.ProductImage
	tags         map[int64][]string
	businesses   map[int64]model.Business
	associations []model.BusinessAssociation
	orders       map[int64]model.Order
	items        map[int64][]model.OrderItem
	audits       []model.AuditLog
	nextID       int64

	// 非nilなら Businesses().Create を失敗させる
	businessCreateErr error
}

func newFakeState() *fakeState {
	return &fakeState{
		products:   map[int64]model.Product{},
		images:     map[int64][]model.ProductImage{},
		tags:       map[int64][]string{},
		businesses: map[int64]model.Business{},
		orders:     map[int64]model.Order{},
		items:      map[int64][]model.OrderItem{},
		nextID:     100,
	}
}

func (s *fakeState) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *fakeState) clone() *fakeState {
	c := newFakeState()
	c.nextID = s.nextID
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.images {
		c.images[k] = append([]model.ProductImage(nil), v...)
	}
	for k, v := range s.tags {
		c.tags[k] = append([]string(nil), v...)
	}
	for k, v := range s.businesses {
		c.businesses[k] = v
	}
	c.associations = append([]model.BusinessAssociation(nil), s.associations...)
	for k, v := range s.orders {
		c.orders[k] = v
	}
	for k, v := range s.items {
		c.items[k] = append([]model.OrderItem(nil), v...)
	}
	c.audits = append([]model.AuditLog(nil), s.audits...)
	c.businessCreateErr = s.businessCreateErr
	return c
}

func (s *fakeState) restore(from *fakeState) {
	*s = *from
}

type fakeTx struct {
	s *fakeState
}

var _ repo.TransactionManager = (*fakeTx)(nil)
var _ repo.TxRepos = (*fakeRepos)(nil)

func (t *fakeTx) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	snapshot := t.s.clone()
	if err := fn(&fakeRepos{s: t.s}); err != nil {
		t.s.restore(snapshot)
		return err
	}
	return nil
}

type fakeRepos struct {
	s *fakeState
}

func (r *fakeRepos) Orders() repo.OrderRepository            { return &fakeOrders{s: r.s} }
func (r *fakeRepos) OrderItems() repo.OrderItemRepository    { return &fakeOrderItems{s: r.s} }
func (r *fakeRepos) Products() repo.ProductRepository        { return &fakeProducts{s: r.s} }
func (r *fakeRepos) Inventory() repo.InventoryRepository     { return &fakeInventory{s: r.s} }
func (r *fakeRepos) Images() repo.ProductImageRepository     { return &fakeImages{s: r.s} }
func (r *fakeRepos) Categories() repo.CategoryRepository     { return &fakeCategories{s: r.s} }
func (r *fakeRepos) Businesses() repo.BusinessRepository     { return &fakeBusinesses{s: r.s} }
func (r *fakeRepos) Associations() repo.AssociationRepository { return &fakeAssociations{s: r.s} }
func (r *fakeRepos) Audit() repo.AuditLogRepository          { return &fakeAudit{s: r.s} }

// ---- orders ----

type fakeOrders struct{ s *fakeState }

func (f *fakeOrders) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	o, ok := f.s.orders[orderID]
	if !ok {
		return model.Order{}, repo.ErrNotFound
	}
	return o, nil
}

func (f *fakeOrders) ListCartsByBuyer(ctx context.Context, username string) ([]model.Order, error) {
	var out []model.Order
	for _, o := range f.s.orders {
		if o.BuyerUsername == username && o.Status == model.OrderStatusCart {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderDate.After(out[j].OrderDate) })
	return out, nil
}

func (f *fakeOrders) CreateCart(ctx context.Context, username string, now time.Time) (model.Order, error) {
	o := model.Order{
		ID:            f.s.id(),
		BuyerUsername: username,
		Status:        model.OrderStatusCart,
		OrderDate:     now,
	}
	f.s.orders[o.ID] = o
	return o, nil
}

func (f *fakeOrders) ListByBuyer(ctx context.Context, username string) ([]repo.OrderSummary, error) {
	var out []repo.OrderSummary
	for _, o := range f.s.orders {
		if o.BuyerUsername == username && o.Status != model.OrderStatusCart {
			out = append(out, repo.OrderSummary{Order: o, ItemCount: int64(len(f.s.items[o.ID]))})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeOrders) ListForSeller(ctx context.Context, username string) ([]repo.OrderSummary, error) {
	assoc := &fakeAssociations{s: f.s}
	var out []repo.OrderSummary
	for _, o := range f.s.orders {
		if o.Status == model.OrderStatusCart {
			continue
		}
		ok, _ := assoc.CanManageOrder(ctx, username, o.ID)
		if ok {
			out = append(out, repo.OrderSummary{Order: o, ItemCount: int64(len(f.s.items[o.ID]))})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (f *fakeOrders) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	o, ok := f.s.orders[orderID]
	if !ok {
		return repo.ErrNotFound
	}
	o.Status = status
	f.s.orders[orderID] = o
	return nil
}

func (f *fakeOrders) MarkCheckedOut(ctx context.Context, orderID int64, total int64, at time.Time) error {
	o, ok := f.s.orders[orderID]
	if !ok || o.Status != model.OrderStatusCart {
		return repo.ErrNotFound
	}
	o.Status = model.OrderStatusPending
	o.TotalAmount = total
	o.OrderDate = at
	f.s.orders[orderID] = o
	return nil
}

func (f *fakeOrders) Delete(ctx context.Context, orderID int64) error {
	if _, ok := f.s.orders[orderID]; !ok {
		return repo.ErrNotFound
	}
	delete(f.s.orders, orderID)
	return nil
}

// ---- order items ----

type fakeOrderItems struct{ s *fakeState }

func (f *fakeOrderItems) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	return append([]model.OrderItem(nil), f.s.items[orderID]...), nil
}

func (f *fakeOrderItems) ListLines(ctx context.Context, orderID int64) ([]repo.OrderLine, error) {
	var out []repo.OrderLine
	for _, it := range f.s.items[orderID] {
		p := f.s.products[it.ProductID]
		b := f.s.businesses[p.BusinessID]
		out = append(out, repo.OrderLine{
			OrderItem:    it,
			ProductName:  p.Name,
			BusinessName: b.Name,
			Stock:        p.Quantity,
			Availability: p.Availability,
		})
	}
	return out, nil
}

func (f *fakeOrderItems) FindByOrderAndProduct(ctx context.Context, orderID, productID int64) (model.OrderItem, error) {
	for _, it := range f.s.items[orderID] {
		if it.ProductID == productID {
			return it, nil
		}
	}
	return model.OrderItem{}, repo.ErrNotFound
}

func (f *fakeOrderItems) UpsertAdd(ctx context.Context, orderID, productID, addQty, itemPrice int64) error {
	items := f.s.items[orderID]
	for i, it := range items {
		if it.ProductID == productID {
			items[i].Quantity += addQty
			f.s.items[orderID] = items
			return nil
		}
	}
	f.s.items[orderID] = append(items, model.OrderItem{
		ID:        f.s.id(),
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  addQty,
		ItemPrice: itemPrice,
	})
	return nil
}

func (f *fakeOrderItems) UpdateQuantity(ctx context.Context, orderID, productID, qty int64) error {
	items := f.s.items[orderID]
	for i, it := range items {
		if it.ProductID == productID {
			items[i].Quantity = qty
			f.s.items[orderID] = items
			return nil
		}
	}
	return repo.ErrNotFound
}

func (f *fakeOrderItems) Delete(ctx context.Context, orderID, productID int64) error {
	items := f.s.items[orderID]
	for i, it := range items {
		if it.ProductID == productID {
			f.s.items[orderID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return repo.ErrNotFound
}

func (f *fakeOrderItems) DeleteByOrderID(ctx context.Context, orderID int64) error {
	delete(f.s.items, orderID)
	return nil
}

func (f *fakeOrderItems) Total(ctx context.Context, orderID int64) (int64, error) {
	var total int64
	for _, it := range f.s.items[orderID] {
		total += it.Quantity * it.ItemPrice
	}
	return total, nil
}

// ---- products ----

type fakeProducts struct{ s *fakeState }

func (f *fakeProducts) ListPublished(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	var out []model.Product
	for _, p := range f.s.products {
		if !p.IsPublished() {
			continue
		}
		b := f.s.businesses[p.BusinessID]
		if !b.IsActive() {
			continue
		}
		if q.Q != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q.Q)) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, int64(len(out)), nil
}

func (f *fakeProducts) ListByBusinessID(ctx context.Context, businessID int64) ([]model.Product, error) {
	var out []model.Product
	for _, p := range f.s.products {
		if p.BusinessID == businessID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeProducts) FindByID(ctx context.Context, id int64) (model.Product, error) {
	p, ok := f.s.products[id]
	if !ok {
		return model.Product{}, repo.ErrNotFound
	}
	return p, nil
}

func (f *fakeProducts) Create(ctx context.Context, p model.Product) (int64, error) {
	p.ID = f.s.id()
	f.s.products[p.ID] = p
	return p.ID, nil
}

func (f *fakeProducts) Update(ctx context.Context, p model.Product) (int64, error) {
	if _, ok := f.s.products[p.ID]; !ok {
		return 0, nil
	}
	f.s.products[p.ID] = p
	return 1, nil
}

func (f *fakeProducts) Delete(ctx context.Context, id int64) error {
	if _, ok := f.s.products[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.s.products, id)
	return nil
}

// ---- inventory ----

type fakeInventory struct{ s *fakeState }

func (f *fakeInventory) DecreaseStockIfEnough(ctx context.Context, productID int64, qty int64) (bool, error) {
	p, ok := f.s.products[productID]
	if !ok || p.Quantity < qty {
		return false, nil
	}
	p.Quantity -= qty
	f.s.products[productID] = p
	return true, nil
}

func (f *fakeInventory) IncreaseStock(ctx context.Context, productID int64, qty int64) error {
	p, ok := f.s.products[productID]
	if !ok {
		return repo.ErrNotFound
	}
	p.Quantity += qty
	f.s.products[productID] = p
	return nil
}

// ---- product images ----

type fakeImages struct{ s *fakeState }

func (f *fakeImages) Create(ctx context.Context, img model.ProductImage) (int64, error) {
	img.ID = f.s.id()
	f.s.images[img.ProductID] = append(f.s.images[img.ProductID], img)
	return img.ID, nil
}

func (f *fakeImages) ListByProductID(ctx context.Context, productID int64) ([]model.ProductImage, error) {
	return append([]model.ProductImage(nil), f.s.images[productID]...), nil
}

func (f *fakeImages) FindFeatured(ctx context.Context, productID int64) (model.ProductImage, error) {
	imgs := f.s.images[productID]
	if len(imgs) == 0 {
		return model.ProductImage{}, repo.ErrNotFound
	}
	best := imgs[0]
	for _, img := range imgs[1:] {
		if img.SortOrder < best.SortOrder {
			best = img
		}
	}
	return best, nil
}

func (f *fakeImages) NextSortOrder(ctx context.Context, productID int64) (int, error) {
	max := 0
	for _, img := range f.s.images[productID] {
		if img.SortOrder > max {
			max = img.SortOrder
		}
	}
	return max + 1, nil
}

func (f *fakeImages) DeleteByProductID(ctx context.Context, productID int64) error {
	delete(f.s.images, productID)
	return nil
}

// ---- categories ----

type fakeCategories struct{ s *fakeState }

func (f *fakeCategories) ListAll(ctx context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, tags := range f.s.tags {
		for _, t := range tags {
			if !seen[t] {
				seen[t] = true
				out = append(out, t)
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakeCategories) ListByProductID(ctx context.Context, productID int64) ([]string, error) {
	return append([]string(nil), f.s.tags[productID]...), nil
}

func (f *fakeCategories) ReplaceForProduct(ctx context.Context, productID int64, tags []string) error {
	f.s.tags[productID] = append([]string(nil), tags...)
	return nil
}

func (f *fakeCategories) DeleteForProduct(ctx context.Context, productID int64) error {
	delete(f.s.tags, productID)
	return nil
}

// ---- businesses ----

type fakeBusinesses struct{ s *fakeState }

func (f *fakeBusinesses) Create(ctx context.Context, b model.Business) (int64, error) {
	if f.s.businessCreateErr != nil {
		return 0, f.s.businessCreateErr
	}
	for _, existing := range f.s.businesses {
		if existing.Name == b.Name {
			return 0, repo.ErrDuplicate
		}
	}
	b.ID = f.s.id()
	f.s.businesses[b.ID] = b
	return b.ID, nil
}

func (f *fakeBusinesses) Update(ctx context.Context, b model.Business) (int64, error) {
	if _, ok := f.s.businesses[b.ID]; !ok {
		return 0, nil
	}
	f.s.businesses[b.ID] = b
	return 1, nil
}

func (f *fakeBusinesses) UpdateImageURLs(ctx context.Context, businessID int64, logoURL, bannerURL *string) error {
	b, ok := f.s.businesses[businessID]
	if !ok {
		return repo.ErrNotFound
	}
	if logoURL != nil {
		b.LogoURL = *logoURL
	}
	if bannerURL != nil {
		b.BannerURL = *bannerURL
	}
	f.s.businesses[businessID] = b
	return nil
}

func (f *fakeBusinesses) FindByID(ctx context.Context, id int64) (model.Business, error) {
	b, ok := f.s.businesses[id]
	if !ok {
		return model.Business{}, repo.ErrNotFound
	}
	return b, nil
}

func (f *fakeBusinesses) List(ctx context.Context, q repo.BusinessListQuery) ([]model.Business, error) {
	var out []model.Business
	for _, b := range f.s.businesses {
		if q.Status != "" && b.Status != q.Status {
			continue
		}
		if q.Q != "" && !strings.Contains(strings.ToLower(b.Name), strings.ToLower(q.Q)) {
			continue
		}
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeBusinesses) UpdateStatus(ctx context.Context, businessID int64, status model.BusinessStatus) error {
	b, ok := f.s.businesses[businessID]
	if !ok {
		return repo.ErrNotFound
	}
	b.Status = status
	f.s.businesses[businessID] = b
	return nil
}

// ---- associations ----

type fakeAssociations struct{ s *fakeState }

func (f *fakeAssociations) Create(ctx context.Context, a model.BusinessAssociation) error {
	a.ID = f.s.id()
	f.s.associations = append(f.s.associations, a)
	return nil
}

func (f *fakeAssociations) Upsert(ctx context.Context, a model.BusinessAssociation) error {
	for i, existing := range f.s.associations {
		if existing.Username == a.Username && existing.BusinessID == a.BusinessID {
			f.s.associations[i].Role = a.Role
			f.s.associations[i].IsActive = a.IsActive
			return nil
		}
	}
	return f.Create(ctx, a)
}

func (f *fakeAssociations) ListByBusinessID(ctx context.Context, businessID int64) ([]model.BusinessAssociation, error) {
	var out []model.BusinessAssociation
	for _, a := range f.s.associations {
		if a.BusinessID == businessID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAssociations) FindActiveForUser(ctx context.Context, username string) (model.BusinessAssociation, error) {
	for i := len(f.s.associations) - 1; i >= 0; i-- {
		a := f.s.associations[i]
		if a.Username == username && a.IsActive {
			return a, nil
		}
	}
	return model.BusinessAssociation{}, repo.ErrNotFound
}

func (f *fakeAssociations) HasActiveRole(ctx context.Context, username string, businessID int64, role model.AssociationRole) (bool, error) {
	for _, a := range f.s.associations {
		if a.Username == username && a.BusinessID == businessID && a.Role == role && a.IsActive {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAssociations) SellerBusinessID(ctx context.Context, username string) (int64, error) {
	for _, a := range f.s.associations {
		if a.Username == username && a.Role == model.RoleSeller && a.IsActive {
			return a.BusinessID, nil
		}
	}
	return 0, repo.ErrNotFound
}

func (f *fakeAssociations) CanEditProduct(ctx context.Context, username string, productID int64) (bool, error) {
	p, ok := f.s.products[productID]
	if !ok {
		return false, nil
	}
	return f.HasActiveRole(ctx, username, p.BusinessID, model.RoleSeller)
}

func (f *fakeAssociations) CanManageOrder(ctx context.Context, username string, orderID int64) (bool, error) {
	for _, it := range f.s.items[orderID] {
		p, ok := f.s.products[it.ProductID]
		if !ok {
			continue
		}
		if yes, _ := f.HasActiveRole(ctx, username, p.BusinessID, model.RoleSeller); yes {
			return true, nil
		}
	}
	return false, nil
}

// ---- audit ----

type fakeAudit struct{ s *fakeState }

func (f *fakeAudit) Create(ctx context.Context, log model.AuditLog) error {
	log.ID = f.s.id()
	f.s.audits = append(f.s.audits, log)
	return nil
}

func (f *fakeAudit) ListRecent(ctx context.Context, limit int) ([]model.AuditLog, error) {
	out := append([]model.AuditLog(nil), f.s.audits...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ---- users ----

type fakeUsers struct {
	users map[string]*model.User
}

func newFakeUsers(users ...*model.User) *fakeUsers {
	f := &fakeUsers{users: map[string]*model.User{}}
	for _, u := range users {
		f.users[u.Username] = u
	}
	return f
}

func (f *fakeUsers) Create(ctx context.Context, user *model.User) error {
	if _, ok := f.users[user.Username]; ok {
		return assert.AnError
	}
	f.users[user.Username] = user
	return nil
}

func (f *fakeUsers) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	u, ok := f.users[username]
	if !ok {
		return nil, repo.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) EmailExists(ctx context.Context, email string, accountType model.AccountType) (bool, error) {
	for _, u := range f.users {
		if u.Email == email && u.AccountType == accountType {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUsers) Update(ctx context.Context, user *model.User) error {
	if _, ok := f.users[user.Username]; !ok {
		return repo.ErrUserNotFound
	}
	cp := *user
	f.users[user.Username] = &cp
	return nil
}

var _ repo.UserRepository = (*fakeUsers)(nil)

// =====================
// Helpers
// =====================

func assertErrContains(t *testing.T, err error, want string) {
	t.Helper()
	assert.Error(t, err)
	if err != nil {
		assert.Contains(t, err.Error(), want)
	}
}

// よく使うシード：アクティブなビジネス＋公開商品＋Seller関連
func seedShop(s *fakeState) (businessID, productID int64) {
	businessID = s.id()
	s.businesses[businessID] = model.Business{
		ID:     businessID,
		Name:   "Beanhouse",
		Status: model.BusinessStatusActive,
	}
	productID = s.id()
	s.products[productID] = model.Product{
		ID:           productID,
		BusinessID:   businessID,
		Name:         "Dark Roast Beans",
		Price:        1500,
		Quantity:     10,
		Availability: model.AvailabilityPublished,
	}
	s.associations = append(s.associations, model.BusinessAssociation{
		ID:         s.id(),
		Username:   "seller1",
		BusinessID: businessID,
		Role:       model.RoleSeller,
		IsActive:   true,
	})
	return businessID, productID
}
