package service

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/peanutradio/shopmall-api/internal/domain"
	"github.com/peanutradio/shopmall-api/internal/port"
)

type CartService struct {
	carts    port.CartRepository
	products port.ProductRepository
}

func NewCartService(carts port.CartRepository, products port.ProductRepository) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
	}
}

// GetCart returns the caller's cart, creating an empty one on first access.
func (s *CartService) GetCart(ctx context.Context, userID primitive.ObjectID) (*domain.Cart, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if errors.Is(err, domain.ErrCartNotFound) {
		cart = domain.NewCart(userID)
		if err := s.carts.Save(ctx, cart); err != nil {
			return nil, fmt.Errorf("carts.Save: %w", err)
		}
		return cart, nil
	}
	if err != nil {
		return nil, fmt.Errorf("carts.FindByUser: %w", err)
	}

	return cart, nil
}

// AddItem puts the product in the cart at its current catalog price.
func (s *CartService) AddItem(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*domain.Cart, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("products.FindByID: %w", err)
	}

	cart, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	cart.AddItem(product.ID, quantity, product.Price)

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("carts.Save: %w", err)
	}

	return cart, nil
}

// UpdateItemQuantity sets a line's quantity; zero or below removes the line.
func (s *CartService) UpdateItemQuantity(ctx context.Context, userID, productID primitive.ObjectID, quantity int) (*domain.Cart, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("carts.FindByUser: %w", err)
	}

	if !cart.UpdateItemQuantity(productID, quantity) {
		return nil, domain.ErrCartItemNotFound
	}

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("carts.Save: %w", err)
	}

	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, userID, productID primitive.ObjectID) (*domain.Cart, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("carts.FindByUser: %w", err)
	}

	if !cart.RemoveItem(productID) {
		return nil, domain.ErrCartItemNotFound
	}

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("carts.Save: %w", err)
	}

	return cart, nil
}

func (s *CartService) ClearCart(ctx context.Context, userID primitive.ObjectID) (*domain.Cart, error) {
	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("carts.FindByUser: %w", err)
	}

	cart.Clear()

	if err := s.carts.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("carts.Save: %w", err)
	}

	return cart, nil
}
