package model

import (
	"time"
)

type PurchaseType string

const (
	PurchaseBuy  PurchaseType = "buy"
	PurchaseRent PurchaseType = "rent"
)

// RentalPeriod is how long a rental stays usable after checkout.
const RentalPeriod = 30 * 24 * time.Hour

// Categories a book may be filed under.
var Categories = []string{
	"Fiction",
	"Non-Fiction",
	"Business",
	"Technology",
	"Self-Help",
	"Science",
	"Romance",
	"Mystery",
	"Biography",
}

type User struct {
	ID           int       `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Email        string    `json:"email" db:"email"`
	FullName     string    `json:"fullName" db:"full_name"`
	Bio          *string   `json:"bio,omitempty" db:"bio"`
	IsAuthor     bool      `json:"isAuthor" db:"is_author"`
	AvatarURL    *string   `json:"avatarUrl,omitempty" db:"avatar_url"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

type Book struct {
	ID          int       `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	AuthorID    int       `json:"authorId" db:"author_id"`
	Description string    `json:"description" db:"description"`
	CoverImage  *string   `json:"coverImage,omitempty" db:"cover_image"`
	Price       float64   `json:"price" db:"price"`
	RentPrice   *float64  `json:"rentPrice,omitempty" db:"rent_price"`
	Category    string    `json:"category" db:"category"`
	IsPublished bool      `json:"isPublished" db:"is_published"`
	IsFeatured  bool      `json:"isFeatured" db:"is_featured"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	Rating      float64   `json:"rating" db:"rating"`
	ReviewCount int       `json:"reviewCount" db:"review_count"`
}

type CartItem struct {
	ID           int          `json:"id" db:"id"`
	UserID       int          `json:"userId" db:"user_id"`
	BookID       int          `json:"bookId" db:"book_id"`
	PurchaseType PurchaseType `json:"purchaseType" db:"purchase_type"`
	CreatedAt    time.Time    `json:"createdAt" db:"created_at"`
}

// CartEntry is a cart item joined with its book.
type CartEntry struct {
	CartItem
	Book Book `json:"book"`
}

type Order struct {
	ID           int          `json:"id" db:"id"`
	UserID       int          `json:"userId" db:"user_id"`
	BookID       int          `json:"bookId" db:"book_id"`
	PurchaseType PurchaseType `json:"purchaseType" db:"purchase_type"`
	Amount       float64      `json:"amount" db:"amount"`
	CreatedAt    time.Time    `json:"createdAt" db:"created_at"`
	ExpiresAt    *time.Time   `json:"expiresAt,omitempty" db:"expires_at"`
	IsActive     bool         `json:"isActive" db:"is_active"`
}

// Expired reports whether a rental has lapsed at the given moment. isActive
// never flips on its own, expiry is always computed on read.
func (o Order) Expired(now time.Time) bool {
	return o.ExpiresAt != nil && now.After(*o.ExpiresAt)
}

// OrderView is an order plus its read-time expiry state.
type OrderView struct {
	Order
	IsExpired bool `json:"isExpired"`
}

type Review struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"userId" db:"user_id"`
	BookID    int       `json:"bookId" db:"book_id"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   *string   `json:"comment,omitempty" db:"comment"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// BookFilter narrows catalog listings; zero-valued fields do not filter.
type BookFilter struct {
	Category   string
	AuthorID   *int
	IsFeatured *bool
	Search     string
}

type RegisterRequest struct {
	Username  string  `json:"username" validate:"required,min=3,max=64"`
	Password  string  `json:"password" validate:"required,min=6"`
	Email     string  `json:"email" validate:"required,email"`
	FullName  string  `json:"fullName" validate:"required"`
	Bio       *string `json:"bio,omitempty"`
	IsAuthor  bool    `json:"isAuthor"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	ExpiresIn   int    `json:"expiresIn"`
	AccessToken string `json:"accessToken"`
}

type UpdateProfileRequest struct {
	FullName  *string `json:"fullName,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	AvatarURL *string `json:"avatarUrl,omitempty"`
}

type CreateBookRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	CoverImage  *string  `json:"coverImage,omitempty"`
	Price       float64  `json:"price" validate:"required,gt=0"`
	RentPrice   *float64 `json:"rentPrice,omitempty" validate:"omitempty,gt=0"`
	Category    string   `json:"category" validate:"required"`
	IsPublished *bool    `json:"isPublished,omitempty"`
	IsFeatured  *bool    `json:"isFeatured,omitempty"`
}

// UpdateBookRequest is a partial update, absent fields keep their value.
// Rating and review count are owned by the aggregator and not settable here.
type UpdateBookRequest struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	CoverImage  *string  `json:"coverImage,omitempty"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	RentPrice   *float64 `json:"rentPrice,omitempty" validate:"omitempty,gt=0"`
	Category    *string  `json:"category,omitempty"`
	IsPublished *bool    `json:"isPublished,omitempty"`
	IsFeatured  *bool    `json:"isFeatured,omitempty"`
}

type AddCartItemRequest struct {
	BookID       int          `json:"bookId" validate:"required"`
	PurchaseType PurchaseType `json:"purchaseType" validate:"required,oneof=buy rent"`
}

type CreateReviewRequest struct {
	Rating  int     `json:"rating" validate:"required,min=1,max=5"`
	Comment *string `json:"comment,omitempty" validate:"omitempty,max=2000"`
}
