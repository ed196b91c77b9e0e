package service

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/peanutradio/shopmall-api/internal/domain"
	"github.com/peanutradio/shopmall-api/internal/port"
)

type ProductService struct {
	products port.ProductRepository
}

func NewProductService(products port.ProductRepository) *ProductService {
	return &ProductService{products: products}
}

func (s *ProductService) Create(ctx context.Context, sku, name string, price int64, category domain.ProductCategory, image, description string) (domain.Product, error) {
	product := domain.Product{
		SKU:         strings.ToUpper(strings.TrimSpace(sku)),
		Name:        strings.TrimSpace(name),
		Price:       price,
		Category:    category,
		Image:       strings.TrimSpace(image),
		Description: strings.TrimSpace(description),
	}

	if err := s.products.Insert(ctx, &product); err != nil {
		return domain.Product{}, fmt.Errorf("products.Insert: %w", err)
	}

	return product, nil
}

func (s *ProductService) GetByID(ctx context.Context, id primitive.ObjectID) (domain.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("products.FindByID: %w", err)
	}
	return product, nil
}

func (s *ProductService) List(ctx context.Context, filter port.ProductFilter) ([]domain.Product, int64, error) {
	products, totalCount, err := s.products.List(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("products.List: %w", err)
	}
	return products, totalCount, nil
}

type UpdateProductInput struct {
	SKU         *string
	Name        *string
	Price       *int64
	Category    *domain.ProductCategory
	Image       *string
	Description *string
}

func (s *ProductService) Update(ctx context.Context, id primitive.ObjectID, input UpdateProductInput) (domain.Product, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, fmt.Errorf("products.FindByID: %w", err)
	}

	if input.SKU != nil {
		product.SKU = strings.ToUpper(strings.TrimSpace(*input.SKU))
	}
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.Image != nil {
		product.Image = strings.TrimSpace(*input.Image)
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}

	if err := s.products.Update(ctx, &product); err != nil {
		return domain.Product{}, fmt.Errorf("products.Update: %w", err)
	}

	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("products.Delete: %w", err)
	}
	return nil
}
