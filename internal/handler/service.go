package handler

import (
	"context"

	"github.com/readora/market-service/internal/model"
	"github.com/readora/market-service/internal/service/access"
	"github.com/readora/market-service/internal/service/cart"
	"github.com/readora/market-service/internal/service/catalog"
	"github.com/readora/market-service/internal/service/order"
	"github.com/readora/market-service/internal/service/user"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

var (
	_ UserService    = (*user.Service)(nil)
	_ CatalogService = (*catalog.Service)(nil)
	_ CartService    = (*cart.Service)(nil)
	_ OrderService   = (*order.Service)(nil)
)

type UserService interface {
	Register(ctx context.Context, req model.RegisterRequest) (model.User, error)
	Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error)
	Get(ctx context.Context, id int) (model.User, error)
	UpdateProfile(ctx context.Context, id int, req model.UpdateProfileRequest) (model.User, error)
}

type CatalogService interface {
	Categories() []string
	ListBooks(ctx context.Context, filter model.BookFilter) ([]model.Book, error)
	GetBook(ctx context.Context, id int) (model.Book, error)
	CreateBook(ctx context.Context, actor access.Actor, req model.CreateBookRequest) (model.Book, error)
	UpdateBook(ctx context.Context, actor access.Actor, id int, req model.UpdateBookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, actor access.Actor, id int) error
	AuthorBooks(ctx context.Context, actor access.Actor) ([]model.Book, error)
	ListReviews(ctx context.Context, bookID int) ([]model.Review, error)
	CreateReview(ctx context.Context, actor access.Actor, bookID int, req model.CreateReviewRequest) (model.Review, error)
}

type CartService interface {
	ListWithBooks(ctx context.Context, userID int) ([]model.CartEntry, error)
	Add(ctx context.Context, userID int, req model.AddCartItemRequest) (model.CartItem, error)
	Remove(ctx context.Context, id int) (bool, error)
	Clear(ctx context.Context, userID int) error
}

type OrderService interface {
	Checkout(ctx context.Context, userID int) ([]model.Order, error)
	ListUserOrders(ctx context.Context, userID int) ([]model.OrderView, error)
	GetOrder(ctx context.Context, userID, id int) (model.OrderView, error)
}
