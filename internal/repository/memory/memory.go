// Package memory backs the Store with plain maps and per-entity id counters.
// It serves tests and local runs without Postgres; behavior matches the
// Postgres repository, including cart insertion order and id assignment.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/readora/market-service/internal/errs"
	"github.com/readora/market-service/internal/model"
	"github.com/readora/market-service/internal/repository"
)

type data struct {
	users     map[int]model.User
	books     map[int]model.Book
	cartItems map[int]model.CartItem
	orders    map[int]model.Order
	reviews   map[int]model.Review

	userSeq, bookSeq, cartSeq, orderSeq, reviewSeq int
}

func (d *data) clone() *data {
	cp := &data{
		users:     make(map[int]model.User, len(d.users)),
		books:     make(map[int]model.Book, len(d.books)),
		cartItems: make(map[int]model.CartItem, len(d.cartItems)),
		orders:    make(map[int]model.Order, len(d.orders)),
		reviews:   make(map[int]model.Review, len(d.reviews)),
		userSeq:   d.userSeq, bookSeq: d.bookSeq, cartSeq: d.cartSeq,
		orderSeq: d.orderSeq, reviewSeq: d.reviewSeq,
	}
	for k, v := range d.users {
		cp.users[k] = v
	}
	for k, v := range d.books {
		cp.books[k] = v
	}
	for k, v := range d.cartItems {
		cp.cartItems[k] = v
	}
	for k, v := range d.orders {
		cp.orders[k] = v
	}
	for k, v := range d.reviews {
		cp.reviews[k] = v
	}
	return cp
}

type Store struct {
	mu    sync.RWMutex
	d     *data
	inTx  bool
	nowFn func() time.Time
}

var _ repository.Store = (*Store)(nil)

type Option func(*Store)

// WithNow overrides the clock, tests pin createdAt values with it.
func WithNow(now func() time.Time) Option {
	return func(s *Store) { s.nowFn = now }
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		d: &data{
			users:     make(map[int]model.User),
			books:     make(map[int]model.Book),
			cartItems: make(map[int]model.CartItem),
			orders:    make(map[int]model.Order),
			reviews:   make(map[int]model.Review),
		},
		nowFn: func() time.Time { return time.Now().UTC() },
	}
	for _, op := range opts {
		op(s)
	}
	return s
}

func (s *Store) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) rlock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

// WithinTx holds the write lock for the whole of fn and restores a snapshot
// if fn fails, so partial writes never become visible.
func (s *Store) WithinTx(_ context.Context, fn func(repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.d.clone()
	view := &Store{d: s.d, inTx: true, nowFn: s.nowFn}
	if err := fn(view); err != nil {
		*s.d = *snap
		return err
	}
	return nil
}

// sortedKeys returns map keys ascending; ids are monotonic, so this is
// insertion order.
func sortedKeys[M ~map[int]V, V any](m M) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func (s *Store) CreateUser(_ context.Context, user model.User) (model.User, error) {
	defer s.lock()()
	for _, u := range s.d.users {
		if strings.EqualFold(u.Username, user.Username) || strings.EqualFold(u.Email, user.Email) {
			return model.User{}, errs.ErrExists
		}
	}
	s.d.userSeq++
	user.ID = s.d.userSeq
	user.CreatedAt = s.nowFn()
	s.d.users[user.ID] = user
	return user, nil
}

func (s *Store) GetUser(_ context.Context, id int) (model.User, error) {
	defer s.rlock()()
	u, ok := s.d.users[id]
	if !ok {
		return model.User{}, errs.ErrNotFound
	}
	return u, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (model.User, error) {
	defer s.rlock()()
	for _, id := range sortedKeys(s.d.users) {
		if strings.EqualFold(s.d.users[id].Username, username) {
			return s.d.users[id], nil
		}
	}
	return model.User{}, errs.ErrNotFound
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	defer s.rlock()()
	for _, id := range sortedKeys(s.d.users) {
		if strings.EqualFold(s.d.users[id].Email, email) {
			return s.d.users[id], nil
		}
	}
	return model.User{}, errs.ErrNotFound
}

func (s *Store) UpdateUser(_ context.Context, id int, upd model.UpdateProfileRequest) (model.User, error) {
	defer s.lock()()
	u, ok := s.d.users[id]
	if !ok {
		return model.User{}, errs.ErrNotFound
	}
	if upd.FullName != nil {
		u.FullName = *upd.FullName
	}
	if upd.Bio != nil {
		u.Bio = upd.Bio
	}
	if upd.AvatarURL != nil {
		u.AvatarURL = upd.AvatarURL
	}
	s.d.users[id] = u
	return u, nil
}

func (s *Store) CreateBook(_ context.Context, book model.Book) (model.Book, error) {
	defer s.lock()()
	s.d.bookSeq++
	book.ID = s.d.bookSeq
	book.CreatedAt = s.nowFn()
	book.Rating = 0
	book.ReviewCount = 0
	s.d.books[book.ID] = book
	return book, nil
}

func (s *Store) GetBook(_ context.Context, id int) (model.Book, error) {
	defer s.rlock()()
	b, ok := s.d.books[id]
	if !ok {
		return model.Book{}, errs.ErrNotFound
	}
	return b, nil
}

func (s *Store) ListBooks(_ context.Context, filter model.BookFilter) ([]model.Book, error) {
	defer s.rlock()()
	books := make([]model.Book, 0, len(s.d.books))
	term := strings.ToLower(filter.Search)
	for _, id := range sortedKeys(s.d.books) {
		b := s.d.books[id]
		if filter.Category != "" && b.Category != filter.Category {
			continue
		}
		if filter.AuthorID != nil && b.AuthorID != *filter.AuthorID {
			continue
		}
		if filter.IsFeatured != nil && b.IsFeatured != *filter.IsFeatured {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(b.Title), term) &&
			!strings.Contains(strings.ToLower(b.Description), term) {
			continue
		}
		books = append(books, b)
	}
	return books, nil
}

func (s *Store) UpdateBook(_ context.Context, id int, upd model.UpdateBookRequest) (model.Book, error) {
	defer s.lock()()
	b, ok := s.d.books[id]
	if !ok {
		return model.Book{}, errs.ErrNotFound
	}
	if upd.Title != nil {
		b.Title = *upd.Title
	}
	if upd.Description != nil {
		b.Description = *upd.Description
	}
	if upd.CoverImage != nil {
		b.CoverImage = upd.CoverImage
	}
	if upd.Price != nil {
		b.Price = *upd.Price
	}
	if upd.RentPrice != nil {
		b.RentPrice = upd.RentPrice
	}
	if upd.Category != nil {
		b.Category = *upd.Category
	}
	if upd.IsPublished != nil {
		b.IsPublished = *upd.IsPublished
	}
	if upd.IsFeatured != nil {
		b.IsFeatured = *upd.IsFeatured
	}
	s.d.books[id] = b
	return b, nil
}

func (s *Store) UpdateBookRating(_ context.Context, id int, rating float64, reviewCount int) error {
	defer s.lock()()
	b, ok := s.d.books[id]
	if !ok {
		return errs.ErrNotFound
	}
	b.Rating = rating
	b.ReviewCount = reviewCount
	s.d.books[id] = b
	return nil
}

func (s *Store) DeleteBook(_ context.Context, id int) (bool, error) {
	defer s.lock()()
	if _, ok := s.d.books[id]; !ok {
		return false, nil
	}
	delete(s.d.books, id)
	return true, nil
}

func (s *Store) ListCartItems(_ context.Context, userID int) ([]model.CartItem, error) {
	defer s.rlock()()
	return s.listCartItems(userID), nil
}

func (s *Store) listCartItems(userID int) []model.CartItem {
	items := make([]model.CartItem, 0)
	for _, id := range sortedKeys(s.d.cartItems) {
		if s.d.cartItems[id].UserID == userID {
			items = append(items, s.d.cartItems[id])
		}
	}
	return items
}

func (s *Store) ListCartEntries(_ context.Context, userID int) ([]model.CartEntry, error) {
	defer s.rlock()()
	items := s.listCartItems(userID)
	entries := make([]model.CartEntry, 0, len(items))
	for _, item := range items {
		book, ok := s.d.books[item.BookID]
		if !ok {
			// Unreachable as long as book deletion cascades cart rows.
			return nil, errs.ErrNotFound
		}
		entries = append(entries, model.CartEntry{CartItem: item, Book: book})
	}
	return entries, nil
}

func (s *Store) AddCartItem(_ context.Context, item model.CartItem) (model.CartItem, error) {
	defer s.lock()()
	s.d.cartSeq++
	item.ID = s.d.cartSeq
	item.CreatedAt = s.nowFn()
	s.d.cartItems[item.ID] = item
	return item, nil
}

func (s *Store) RemoveCartItem(_ context.Context, id int) (bool, error) {
	defer s.lock()()
	if _, ok := s.d.cartItems[id]; !ok {
		return false, nil
	}
	delete(s.d.cartItems, id)
	return true, nil
}

func (s *Store) ClearCart(_ context.Context, userID int) error {
	defer s.lock()()
	for id, item := range s.d.cartItems {
		if item.UserID == userID {
			delete(s.d.cartItems, id)
		}
	}
	return nil
}

func (s *Store) DeleteCartItemsByBook(_ context.Context, bookID int) error {
	defer s.lock()()
	for id, item := range s.d.cartItems {
		if item.BookID == bookID {
			delete(s.d.cartItems, id)
		}
	}
	return nil
}

func (s *Store) CreateOrder(_ context.Context, order model.Order) (model.Order, error) {
	defer s.lock()()
	s.d.orderSeq++
	order.ID = s.d.orderSeq
	order.CreatedAt = s.nowFn()
	s.d.orders[order.ID] = order
	return order, nil
}

func (s *Store) GetOrder(_ context.Context, id int) (model.Order, error) {
	defer s.rlock()()
	o, ok := s.d.orders[id]
	if !ok {
		return model.Order{}, errs.ErrNotFound
	}
	return o, nil
}

func (s *Store) ListUserOrders(_ context.Context, userID int) ([]model.Order, error) {
	defer s.rlock()()
	orders := make([]model.Order, 0)
	for _, id := range sortedKeys(s.d.orders) {
		if s.d.orders[id].UserID == userID {
			orders = append(orders, s.d.orders[id])
		}
	}
	return orders, nil
}

func (s *Store) CreateReview(_ context.Context, review model.Review) (model.Review, error) {
	defer s.lock()()
	s.d.reviewSeq++
	review.ID = s.d.reviewSeq
	review.CreatedAt = s.nowFn()
	s.d.reviews[review.ID] = review
	return review, nil
}

func (s *Store) ListReviews(_ context.Context, bookID int) ([]model.Review, error) {
	defer s.rlock()()
	reviews := make([]model.Review, 0)
	for _, id := range sortedKeys(s.d.reviews) {
		if s.d.reviews[id].BookID == bookID {
			reviews = append(reviews, s.d.reviews[id])
		}
	}
	return reviews, nil
}
