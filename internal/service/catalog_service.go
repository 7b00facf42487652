package service

import (
	"context"
	"fmt"
	"time"

	"markethub/internal/domain"
	"markethub/internal/repository"

	"github.com/google/uuid"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ProductInput carries the writable fields of a product. Category is a free
// name; a category that does not exist yet is created on the fly.
type ProductInput struct {
	Name        string
	Description string
	Price       float64
	Category    string
	ImageURL    string
	Stock       int
}

// ListProductsInput narrows a catalog listing.
type ListProductsInput struct {
	Search            string
	Category          string
	IncludeUnapproved bool
	Page              int
	PageSize          int
}

// CatalogService defines the interface for product and category business logic
type CatalogService interface {
	CreateProduct(ctx context.Context, actor domain.Actor, in ProductInput) (*domain.Product, error)
	ListProducts(ctx context.Context, actor domain.Actor, in ListProductsInput) ([]*domain.Product, int, error)
	ListVendorProducts(ctx context.Context, actor domain.Actor, page, pageSize int) ([]*domain.Product, int, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	UpdateProduct(ctx context.Context, actor domain.Actor, id uuid.UUID, in ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, actor domain.Actor, id uuid.UUID) error
	ApproveProduct(ctx context.Context, id uuid.UUID) error

	CreateCategory(ctx context.Context, name string) (*domain.Category, error)
	ListCategories(ctx context.Context) ([]*domain.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, name string) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository) CatalogService {
	return &catalogService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

// CreateProduct creates a product. Admin-created products are global
// (no vendor) and pre-approved; vendor-created products are owned by the
// vendor and await admin approval. Any other role is refused.
func (s *catalogService) CreateProduct(ctx context.Context, actor domain.Actor, in ProductInput) (*domain.Product, error) {
	var vendorID *uuid.UUID
	var approved bool

	switch actor.Role {
	case domain.RoleAdmin:
		approved = true
	case domain.RoleVendor:
		id := actor.ID
		vendorID = &id
		approved = false
	default:
		return nil, ErrForbidden
	}

	category, err := s.categoryRepo.FindOrCreateByName(ctx, in.Category)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve category: %w", err)
	}

	product := &domain.Product{
		ID:          uuid.New(),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		CategoryID:  category.ID,
		ImageURL:    in.ImageURL,
		Stock:       in.Stock,
		VendorID:    vendorID,
		Approved:    approved,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	return product, nil
}

// ListProducts lists catalog products. Unapproved products are visible only
// when an admin asks for them; anyone else requesting them is silently
// downgraded to the approved-only view rather than rejected.
func (s *catalogService) ListProducts(ctx context.Context, actor domain.Actor, in ListProductsInput) ([]*domain.Product, int, error) {
	approvedOnly := true
	if in.IncludeUnapproved && actor.IsAdmin() {
		approvedOnly = false
	}

	filter := repository.ProductFilter{
		Search:       in.Search,
		Category:     in.Category,
		ApprovedOnly: approvedOnly,
	}

	page, pageSize := normalizePage(in.Page, in.PageSize)
	return s.productRepo.List(ctx, filter, page, pageSize)
}

// ListVendorProducts lists the vendor's own products, approved or not
func (s *catalogService) ListVendorProducts(ctx context.Context, actor domain.Actor, page, pageSize int) ([]*domain.Product, int, error) {
	id := actor.ID
	filter := repository.ProductFilter{VendorID: &id}

	page, pageSize = normalizePage(page, pageSize)
	return s.productRepo.List(ctx, filter, page, pageSize)
}

// GetProduct retrieves a single product by ID
func (s *catalogService) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.productRepo.FindByID(ctx, id)
}

// UpdateProduct updates a product. Admins may update any product; a vendor
// only their own.
func (s *catalogService) UpdateProduct(ctx context.Context, actor domain.Actor, id uuid.UUID, in ProductInput) (*domain.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !actor.CanManageResource(product.VendorID) {
		return nil, ErrForbidden
	}

	category, err := s.categoryRepo.FindOrCreateByName(ctx, in.Category)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve category: %w", err)
	}

	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	product.CategoryID = category.ID
	product.ImageURL = in.ImageURL
	product.Stock = in.Stock
	product.UpdatedAt = time.Now()

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// DeleteProduct removes a product. Admins may delete any product; a vendor
// only their own. Uploaded image files are not cleaned up.
func (s *catalogService) DeleteProduct(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !actor.CanManageResource(product.VendorID) {
		return ErrForbidden
	}

	return s.productRepo.Delete(ctx, id)
}

// ApproveProduct marks a product as approved. Approving an already-approved
// product succeeds; there is no un-approve path.
func (s *catalogService) ApproveProduct(ctx context.Context, id uuid.UUID) error {
	return s.productRepo.SetApproved(ctx, id, true)
}

// CreateCategory creates a category with a unique name
func (s *catalogService) CreateCategory(ctx context.Context, name string) (*domain.Category, error) {
	category := &domain.Category{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// ListCategories retrieves all categories
func (s *catalogService) ListCategories(ctx context.Context) ([]*domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

// UpdateCategory renames a category
func (s *catalogService) UpdateCategory(ctx context.Context, id uuid.UUID, name string) (*domain.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = name
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// DeleteCategory removes a category; refused while products reference it
func (s *catalogService) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return s.categoryRepo.Delete(ctx, id)
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}
