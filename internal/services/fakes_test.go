package services

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"merch_store_backend/internal/models"
	"merch_store_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

// In-memory repositories. They ignore the executor, so transaction boundaries
// are asserted separately through sqlmock.

type fakeItemRepo struct {
	items  map[int64]*models.Item
	nextID int64
}

func newFakeItemRepo(items ...models.Item) *fakeItemRepo {
	r := &fakeItemRepo{items: map[int64]*models.Item{}}
	for i := range items {
		it := items[i]
		r.items[it.ID] = &it
		if it.ID > r.nextID {
			r.nextID = it.ID
		}
	}
	return r
}

func (r *fakeItemRepo) CreateItem(_ context.Context, _ repositories.SQLExecutor, item *models.Item) error {
	r.nextID++
	item.ID = r.nextID
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeItemRepo) GetItemByID(_ context.Context, id int64) (*models.Item, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *it
	return &cp, nil
}

func (r *fakeItemRepo) GetItems(_ context.Context, filters models.ItemFilters) ([]models.Item, error) {
	out := []models.Item{}
	for _, it := range r.items {
		if filters.ItemTypeID != nil && it.ItemTypeID != *filters.ItemTypeID {
			continue
		}
		out = append(out, *it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeItemRepo) UpdateItem(_ context.Context, _ repositories.SQLExecutor, item *models.Item) error {
	if _, ok := r.items[item.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *item
	r.items[item.ID] = &cp
	return nil
}

func (r *fakeItemRepo) DeleteItem(_ context.Context, _ repositories.SQLExecutor, id int64) error {
	if _, ok := r.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeItemRepo) GetItemPrice(_ context.Context, _ repositories.SQLExecutor, id int64) (decimal.Decimal, error) {
	it, ok := r.items[id]
	if !ok {
		return decimal.Zero, repositories.ErrNotFound
	}
	return it.Price, nil
}

type fakeItemTypeRepo struct {
	types     map[int64]*models.ItemType
	pairs     map[[2]int64]bool
	insertErr error
}

func newFakeItemTypeRepo(types ...models.ItemType) *fakeItemTypeRepo {
	r := &fakeItemTypeRepo{types: map[int64]*models.ItemType{}, pairs: map[[2]int64]bool{}}
	for i := range types {
		t := types[i]
		r.types[t.ID] = &t
	}
	return r
}

func (r *fakeItemTypeRepo) CreateItemType(_ context.Context, _ repositories.SQLExecutor, t *models.ItemType) error {
	t.ID = int64(len(r.types) + 1)
	cp := *t
	r.types[t.ID] = &cp
	return nil
}

func (r *fakeItemTypeRepo) GetItemTypeByID(_ context.Context, id int64) (*models.ItemType, error) {
	t, ok := r.types[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeItemTypeRepo) GetItemTypes(context.Context) ([]models.ItemType, error) { return nil, nil }

func (r *fakeItemTypeRepo) UpdateItemType(context.Context, repositories.SQLExecutor, *models.ItemType) error {
	return nil
}

func (r *fakeItemTypeRepo) DeleteItemType(context.Context, repositories.SQLExecutor, int64) error {
	return nil
}

func (r *fakeItemTypeRepo) GetSizesByItemTypeID(context.Context, int64) ([]models.Size, error) {
	return nil, nil
}

func (r *fakeItemTypeRepo) GetItemTypeSizes(context.Context) ([]models.ItemTypeSize, error) {
	out := []models.ItemTypeSize{}
	for k := range r.pairs {
		out = append(out, models.ItemTypeSize{ItemTypeID: k[0], SizeID: k[1]})
	}
	return out, nil
}

func (r *fakeItemTypeRepo) ItemTypeSizeExists(_ context.Context, itemTypeID, sizeID int64) (bool, error) {
	return r.pairs[[2]int64{itemTypeID, sizeID}], nil
}

func (r *fakeItemTypeRepo) CreateItemTypeSize(_ context.Context, _ repositories.SQLExecutor, pair *models.ItemTypeSize) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.pairs[[2]int64{pair.ItemTypeID, pair.SizeID}] = true
	return nil
}

func (r *fakeItemTypeRepo) DeleteItemTypeSize(_ context.Context, _ repositories.SQLExecutor, itemTypeID, sizeID int64) error {
	key := [2]int64{itemTypeID, sizeID}
	if !r.pairs[key] {
		return repositories.ErrNotFound
	}
	delete(r.pairs, key)
	return nil
}

type fakeSizeRepo struct {
	sizes map[int64]*models.Size
}

func (r *fakeSizeRepo) CreateSize(_ context.Context, _ repositories.SQLExecutor, s *models.Size) error {
	s.ID = int64(len(r.sizes) + 1)
	r.sizes[s.ID] = s
	return nil
}

func (r *fakeSizeRepo) GetSizeByID(_ context.Context, id int64) (*models.Size, error) {
	s, ok := r.sizes[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSizeRepo) GetSizes(context.Context) ([]models.Size, error) { return nil, nil }

func (r *fakeSizeRepo) UpdateSize(context.Context, repositories.SQLExecutor, *models.Size) error {
	return nil
}

func (r *fakeSizeRepo) DeleteSize(context.Context, repositories.SQLExecutor, int64) error { return nil }

type fakeAvailabilityRepo struct {
	rows   map[int64]*models.ItemAvailability
	nextID int64
}

func newFakeAvailabilityRepo(rows ...models.ItemAvailability) *fakeAvailabilityRepo {
	r := &fakeAvailabilityRepo{rows: map[int64]*models.ItemAvailability{}}
	for i := range rows {
		a := rows[i]
		r.rows[a.ID] = &a
		if a.ID > r.nextID {
			r.nextID = a.ID
		}
	}
	return r
}

func (r *fakeAvailabilityRepo) find(itemID, sizeID int64) *models.ItemAvailability {
	for _, a := range r.rows {
		if a.ItemID == itemID && a.SizeID == sizeID {
			return a
		}
	}
	return nil
}

func (r *fakeAvailabilityRepo) stock(itemID, sizeID int64) int {
	if a := r.find(itemID, sizeID); a != nil {
		return a.QuantityInStock
	}
	return -1
}

func (r *fakeAvailabilityRepo) GetAvailabilities(context.Context) ([]models.ItemAvailability, error) {
	out := []models.ItemAvailability{}
	for _, a := range r.rows {
		out = append(out, *a)
	}
	return out, nil
}

func (r *fakeAvailabilityRepo) GetAvailabilityByID(_ context.Context, id int64) (*models.ItemAvailability, error) {
	a, ok := r.rows[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAvailabilityRepo) GetAvailabilitiesByItemID(_ context.Context, itemID int64) ([]models.ItemAvailability, error) {
	out := []models.ItemAvailability{}
	for _, a := range r.rows {
		if a.ItemID == itemID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAvailabilityRepo) GetAvailabilityForUpdate(_ context.Context, _ repositories.SQLExecutor, itemID, sizeID int64) (*models.ItemAvailability, error) {
	a := r.find(itemID, sizeID)
	if a == nil {
		return nil, repositories.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAvailabilityRepo) CreateAvailability(_ context.Context, _ repositories.SQLExecutor, a *models.ItemAvailability) error {
	if r.find(a.ItemID, a.SizeID) != nil {
		return repositories.ErrDuplicateKey
	}
	r.nextID++
	a.ID = r.nextID
	cp := *a
	r.rows[a.ID] = &cp
	return nil
}

func (r *fakeAvailabilityRepo) UpdateAvailability(_ context.Context, _ repositories.SQLExecutor, a *models.ItemAvailability) error {
	if _, ok := r.rows[a.ID]; !ok {
		return repositories.ErrNotFound
	}
	if other := r.find(a.ItemID, a.SizeID); other != nil && other.ID != a.ID {
		return repositories.ErrDuplicateKey
	}
	cp := *a
	r.rows[a.ID] = &cp
	return nil
}

func (r *fakeAvailabilityRepo) DeleteAvailability(_ context.Context, _ repositories.SQLExecutor, id int64) error {
	if _, ok := r.rows[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeAvailabilityRepo) UpsertAvailability(ctx context.Context, exec repositories.SQLExecutor, a *models.ItemAvailability) error {
	if existing := r.find(a.ItemID, a.SizeID); existing != nil {
		existing.QuantityInStock = a.QuantityInStock
		a.ID = existing.ID
		return nil
	}
	return r.CreateAvailability(ctx, exec, a)
}

func (r *fakeAvailabilityRepo) SetStock(_ context.Context, _ repositories.SQLExecutor, itemID, sizeID int64, quantity int) (*models.ItemAvailability, error) {
	a := r.find(itemID, sizeID)
	if a == nil {
		return nil, repositories.ErrNotFound
	}
	a.QuantityInStock = quantity
	cp := *a
	return &cp, nil
}

func (r *fakeAvailabilityRepo) DecrementStock(_ context.Context, _ repositories.SQLExecutor, itemID, sizeID int64, quantity int) error {
	a := r.find(itemID, sizeID)
	if a == nil || a.QuantityInStock < quantity {
		return repositories.ErrNotFound
	}
	a.QuantityInStock -= quantity
	return nil
}

func (r *fakeAvailabilityRepo) IncrementStock(_ context.Context, _ repositories.SQLExecutor, itemID, sizeID int64, quantity int) (bool, error) {
	a := r.find(itemID, sizeID)
	if a == nil {
		return false, nil
	}
	a.QuantityInStock += quantity
	return true, nil
}

type fakeOrderRepo struct {
	orders map[int64]*models.Order
	lines  map[int64][]models.OrderLine
	nextID int64
	lineID int64
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[int64]*models.Order{}, lines: map[int64][]models.OrderLine{}}
}

func (r *fakeOrderRepo) CreateOrder(_ context.Context, _ repositories.SQLExecutor, order *models.Order) error {
	r.nextID++
	order.ID = r.nextID
	if order.OrderDate.IsZero() {
		order.OrderDate = time.Now()
	}
	cp := *order
	r.orders[order.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) GetOrderByID(_ context.Context, _ repositories.SQLExecutor, orderID int64) (*models.Order, error) {
	o, ok := r.orders[orderID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) GetOrders(_ context.Context, filters models.OrderFilters) ([]models.Order, error) {
	out := []models.Order{}
	for _, o := range r.orders {
		if filters.UserID != nil && o.UserID != *filters.UserID {
			continue
		}
		if filters.Status != nil && o.Status != *filters.Status {
			continue
		}
		out = append(out, *o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeOrderRepo) UpdateOrderStatus(_ context.Context, _ repositories.SQLExecutor, orderID int64, newStatus string, updatedAt time.Time) error {
	o, ok := r.orders[orderID]
	if !ok {
		return repositories.ErrNotFound
	}
	o.Status = newStatus
	o.UpdatedAt = updatedAt
	return nil
}

func (r *fakeOrderRepo) DeleteOrder(_ context.Context, _ repositories.SQLExecutor, orderID int64) error {
	if _, ok := r.orders[orderID]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.orders, orderID)
	return nil
}

func (r *fakeOrderRepo) CreateOrderLine(_ context.Context, _ repositories.SQLExecutor, line *models.OrderLine) error {
	r.lineID++
	line.ID = r.lineID
	r.lines[line.OrderID] = append(r.lines[line.OrderID], *line)
	return nil
}

func (r *fakeOrderRepo) GetOrderLinesByOrderID(_ context.Context, _ repositories.SQLExecutor, orderID int64) ([]models.OrderLine, error) {
	return append([]models.OrderLine{}, r.lines[orderID]...), nil
}

func (r *fakeOrderRepo) DeleteOrderLinesByOrderID(_ context.Context, _ repositories.SQLExecutor, orderID int64) (int64, error) {
	n := int64(len(r.lines[orderID]))
	delete(r.lines, orderID)
	return n, nil
}

type fakeUserRepo struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserRepo(users ...models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[int64]*models.User{}}
	for i := range users {
		u := users[i]
		r.users[u.ID] = &u
		if u.ID > r.nextID {
			r.nextID = u.ID
		}
	}
	return r
}

func (r *fakeUserRepo) CreateUser(_ context.Context, _ repositories.SQLExecutor, user *models.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return repositories.ErrDuplicateKey
		}
	}
	r.nextID++
	user.ID = r.nextID
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) GetUsers(context.Context) ([]models.User, error) {
	out := []models.User{}
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateUser(_ context.Context, _ repositories.SQLExecutor, user *models.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) DeleteUser(_ context.Context, _ repositories.SQLExecutor, id int64) error {
	if _, ok := r.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type fakeRoleRepo struct {
	roles       map[int64]*models.Role
	grants      map[[2]int64]bool
	permissions *fakePermissionRepo
	// insertErr, when set, is returned by AddPermissionToRole.
	insertErr error
}

func newFakeRoleRepo(perms *fakePermissionRepo, roles ...models.Role) *fakeRoleRepo {
	r := &fakeRoleRepo{roles: map[int64]*models.Role{}, grants: map[[2]int64]bool{}, permissions: perms}
	for i := range roles {
		role := roles[i]
		r.roles[role.ID] = &role
	}
	return r
}

func (r *fakeRoleRepo) CreateRole(_ context.Context, _ repositories.SQLExecutor, role *models.Role) error {
	role.ID = int64(len(r.roles) + 1)
	cp := *role
	r.roles[role.ID] = &cp
	return nil
}

func (r *fakeRoleRepo) GetRoleByID(_ context.Context, id int64) (*models.Role, error) {
	role, ok := r.roles[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *role
	return &cp, nil
}

func (r *fakeRoleRepo) GetRoles(context.Context) ([]models.Role, error) {
	out := []models.Role{}
	for _, role := range r.roles {
		out = append(out, *role)
	}
	return out, nil
}

func (r *fakeRoleRepo) UpdateRole(_ context.Context, _ repositories.SQLExecutor, role *models.Role) error {
	if _, ok := r.roles[role.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *role
	r.roles[role.ID] = &cp
	return nil
}

func (r *fakeRoleRepo) DeleteRole(_ context.Context, _ repositories.SQLExecutor, id int64) error {
	if _, ok := r.roles[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.roles, id)
	return nil
}

func (r *fakeRoleRepo) GetPermissionsByRoleID(_ context.Context, roleID int64) ([]models.Permission, error) {
	out := []models.Permission{}
	for k := range r.grants {
		if k[0] == roleID {
			if p, ok := r.permissions.perms[k[1]]; ok {
				out = append(out, *p)
			}
		}
	}
	return out, nil
}

func (r *fakeRoleRepo) GetRolePermissions(context.Context) ([]models.RolePermission, error) {
	out := []models.RolePermission{}
	for k := range r.grants {
		out = append(out, models.RolePermission{RoleID: k[0], PermissionID: k[1]})
	}
	return out, nil
}

func (r *fakeRoleRepo) RolePermissionExists(_ context.Context, roleID, permissionID int64) (bool, error) {
	return r.grants[[2]int64{roleID, permissionID}], nil
}

func (r *fakeRoleRepo) RoleHasPermission(_ context.Context, roleID int64, action string) (bool, error) {
	for k := range r.grants {
		if k[0] != roleID {
			continue
		}
		if p, ok := r.permissions.perms[k[1]]; ok && p.Action == action {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRoleRepo) AddPermissionToRole(_ context.Context, _ repositories.SQLExecutor, rp *models.RolePermission) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	key := [2]int64{rp.RoleID, rp.PermissionID}
	if r.grants[key] {
		return repositories.ErrDuplicateKey
	}
	r.grants[key] = true
	return nil
}

func (r *fakeRoleRepo) RemovePermissionFromRole(_ context.Context, _ repositories.SQLExecutor, roleID, permissionID int64) error {
	key := [2]int64{roleID, permissionID}
	if !r.grants[key] {
		return repositories.ErrNotFound
	}
	delete(r.grants, key)
	return nil
}

type fakePermissionRepo struct {
	perms map[int64]*models.Permission
}

func newFakePermissionRepo(perms ...models.Permission) *fakePermissionRepo {
	r := &fakePermissionRepo{perms: map[int64]*models.Permission{}}
	for i := range perms {
		p := perms[i]
		r.perms[p.ID] = &p
	}
	return r
}

func (r *fakePermissionRepo) CreatePermission(_ context.Context, _ repositories.SQLExecutor, p *models.Permission) error {
	p.ID = int64(len(r.perms) + 1)
	cp := *p
	r.perms[p.ID] = &cp
	return nil
}

func (r *fakePermissionRepo) GetPermissionByID(_ context.Context, id int64) (*models.Permission, error) {
	p, ok := r.perms[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePermissionRepo) GetPermissions(context.Context) ([]models.Permission, error) {
	out := []models.Permission{}
	for _, p := range r.perms {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakePermissionRepo) UpdatePermission(_ context.Context, _ repositories.SQLExecutor, p *models.Permission) error {
	if _, ok := r.perms[p.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *p
	r.perms[p.ID] = &cp
	return nil
}

func (r *fakePermissionRepo) DeletePermission(_ context.Context, _ repositories.SQLExecutor, id int64) error {
	if _, ok := r.perms[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.perms, id)
	return nil
}

// memoryCache is a cache.Cache that keeps JSON in a map.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	deletes []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
		c.deletes = append(c.deletes, k)
	}
	return nil
}
