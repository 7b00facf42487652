package service

import (
	"context"
	"sort"
	"strings"

	"markethub/internal/domain"
	"markethub/internal/repository"

	"github.com/google/uuid"
)

// Mock repositories for testing

type mockUserRepository struct {
	users     map[string]*domain.User
	hasOrders map[uuid.UUID]bool
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:     make(map[string]*domain.User),
		hasOrders: make(map[uuid.UUID]bool),
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, exists := m.users[user.Email]; exists {
		return repository.ErrUserAlreadyExists
	}
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, exists := m.users[email]
	if !exists {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockUserRepository) List(ctx context.Context) ([]*domain.User, error) {
	users := make([]*domain.User, 0, len(m.users))
	for _, user := range m.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}

func (m *mockUserRepository) UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) error {
	for _, user := range m.users {
		if user.ID == id {
			user.Role = role
			return nil
		}
	}
	return repository.ErrUserNotFound
}

func (m *mockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	for email, user := range m.users {
		if user.ID == id {
			if m.hasOrders[id] {
				return repository.ErrUserHasOrders
			}
			delete(m.users, email)
			return nil
		}
	}
	return repository.ErrUserNotFound
}

type mockCategoryRepository struct {
	byName map[string]*domain.Category
	inUse  map[uuid.UUID]bool
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{
		byName: make(map[string]*domain.Category),
		inUse:  make(map[uuid.UUID]bool),
	}
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	if _, exists := m.byName[category.Name]; exists {
		return repository.ErrCategoryAlreadyExists
	}
	m.byName[category.Name] = category
	return nil
}

func (m *mockCategoryRepository) FindOrCreateByName(ctx context.Context, name string) (*domain.Category, error) {
	if category, exists := m.byName[name]; exists {
		return category, nil
	}
	category := &domain.Category{ID: uuid.New(), Name: name}
	m.byName[name] = category
	return category, nil
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	categories := make([]*domain.Category, 0, len(m.byName))
	for _, category := range m.byName {
		categories = append(categories, category)
	}
	return categories, nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	for _, category := range m.byName {
		if category.ID == id {
			return category, nil
		}
	}
	return nil, repository.ErrCategoryNotFound
}

func (m *mockCategoryRepository) Update(ctx context.Context, category *domain.Category) error {
	for name, existing := range m.byName {
		if existing.ID == category.ID {
			delete(m.byName, name)
			m.byName[category.Name] = category
			return nil
		}
	}
	return repository.ErrCategoryNotFound
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	for name, category := range m.byName {
		if category.ID == id {
			if m.inUse[id] {
				return repository.ErrCategoryInUse
			}
			delete(m.byName, name)
			return nil
		}
	}
	return repository.ErrCategoryNotFound
}

type mockProductRepository struct {
	products map[uuid.UUID]*domain.Product
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{
		products: make(map[uuid.UUID]*domain.Product),
	}
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Update(ctx context.Context, product *domain.Product) error {
	if _, exists := m.products[product.ID]; !exists {
		return repository.ErrProductNotFound
	}
	m.products[product.ID] = product
	return nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, exists := m.products[id]; !exists {
		return repository.ErrProductNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	product, exists := m.products[id]
	if !exists {
		return nil, repository.ErrProductNotFound
	}
	return product, nil
}

func (m *mockProductRepository) List(ctx context.Context, filter repository.ProductFilter, page, pageSize int) ([]*domain.Product, int, error) {
	matched := []*domain.Product{}
	for _, product := range m.products {
		if filter.ApprovedOnly && !product.Approved {
			continue
		}
		if filter.VendorID != nil && (product.VendorID == nil || *product.VendorID != *filter.VendorID) {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(product.Name), strings.ToLower(filter.Search)) {
			continue
		}
		matched = append(matched, product)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (m *mockProductRepository) SetApproved(ctx context.Context, id uuid.UUID, approved bool) error {
	product, exists := m.products[id]
	if !exists {
		return repository.ErrProductNotFound
	}
	product.Approved = approved
	return nil
}

type mockOrderRepository struct {
	orders map[uuid.UUID]*domain.Order
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{
		orders: make(map[uuid.UUID]*domain.Order),
	}
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, exists := m.orders[id]
	if !exists {
		return nil, repository.ErrOrderNotFound
	}
	return order, nil
}

func (m *mockOrderRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.Order, error) {
	orders := []*domain.Order{}
	for _, order := range m.orders {
		if order.CustomerID == customerID {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (m *mockOrderRepository) ListByVendor(ctx context.Context, vendorID uuid.UUID) ([]*domain.Order, error) {
	orders := []*domain.Order{}
	for _, order := range m.orders {
		if order.VendorID != nil && *order.VendorID == vendorID {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	order, exists := m.orders[id]
	if !exists {
		return repository.ErrOrderNotFound
	}
	order.Status = status
	return nil
}

// mockReviewRepository mirrors the transactional semantics of the real
// repository: inserting a review and recomputing the product aggregates is a
// single step, and a duplicate insert leaves the aggregates untouched.
type mockReviewRepository struct {
	reviews  map[string]*domain.Review
	products *mockProductRepository
}

func newMockReviewRepository(products *mockProductRepository) *mockReviewRepository {
	return &mockReviewRepository{
		reviews:  make(map[string]*domain.Review),
		products: products,
	}
}

func reviewKey(userID, productID uuid.UUID) string {
	return userID.String() + "|" + productID.String()
}

func (m *mockReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	product, exists := m.products.products[review.ProductID]
	if !exists {
		return repository.ErrReviewProductGone
	}

	key := reviewKey(review.UserID, review.ProductID)
	if _, exists := m.reviews[key]; exists {
		return repository.ErrReviewAlreadyExists
	}
	m.reviews[key] = review

	count := 0
	sum := 0
	for _, r := range m.reviews {
		if r.ProductID == review.ProductID {
			count++
			sum += r.Rating
		}
	}
	product.NumReviews = count
	product.AverageRating = float64(sum) / float64(count)
	return nil
}

func (m *mockReviewRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Review, error) {
	reviews := []*domain.Review{}
	for _, review := range m.reviews {
		if review.ProductID == productID {
			reviews = append(reviews, review)
		}
	}
	sort.Slice(reviews, func(i, j int) bool {
		return reviews[i].CreatedAt.Before(reviews[j].CreatedAt)
	})
	return reviews, nil
}
