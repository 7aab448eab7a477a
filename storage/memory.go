package storage

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"partsapi/models"
)

// MemoryStore keeps every collection in process memory. Records are kept in
// insertion order so listings are stable.
type MemoryStore struct {
	mu sync.RWMutex

	products []models.Product
	orders   []models.Order
	users    []models.User
	reviews  []models.Review
	payments []models.Payment
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) ListProducts(_ context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]models.Product, len(s.products))
	copy(res, s.products)
	return res, nil
}

func (s *MemoryStore) FindProduct(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) InsertProduct(_ context.Context, p *models.Product) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = primitive.NewObjectID()
	s.products = append(s.products, *p)
	return p.ID, nil
}

func (s *MemoryStore) DeleteProduct(_ context.Context, id primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.products {
		if p.ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (s *MemoryStore) InsertOrder(_ context.Context, o *models.Order) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o.ID = primitive.NewObjectID()
	s.orders = append(s.orders, *o)
	return o.ID, nil
}

func (s *MemoryStore) FindOrder(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.orderIndex(id); i >= 0 {
		o := s.orders[i]
		return &o, nil
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListOrders(_ context.Context) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]models.Order, len(s.orders))
	copy(res, s.orders)
	return res, nil
}

func (s *MemoryStore) ListOrdersByEmail(_ context.Context, email string) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := []models.Order{}
	for _, o := range s.orders {
		if o.Email == email {
			res = append(res, o)
		}
	}
	return res, nil
}

func (s *MemoryStore) DeleteOrder(_ context.Context, id primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.deleteOrderWhere(id, func(models.Order) bool { return true }), nil
}

func (s *MemoryStore) DeleteOrderOwnedBy(_ context.Context, id primitive.ObjectID, email string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.deleteOrderWhere(id, func(o models.Order) bool { return o.Email == email }), nil
}

func (s *MemoryStore) MarkOrderPaid(_ context.Context, id primitive.ObjectID, transactionID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.orderIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	if s.orders[i].Paid {
		return ErrAlreadyPaid
	}
	s.orders[i].Paid = true
	s.orders[i].TransactionID = transactionID
	s.orders[i].Status = status
	return nil
}

func (s *MemoryStore) SetOrderStatus(_ context.Context, id primitive.ObjectID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.orderIndex(id)
	if i < 0 {
		return ErrNotFound
	}
	s.orders[i].Status = status
	return nil
}

func (s *MemoryStore) UpsertUser(_ context.Context, u models.User) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].Email == u.Email {
			merged := mergeUser(&s.users[i], u)
			s.users[i] = merged
			return &merged, nil
		}
	}
	created := mergeUser(nil, u)
	s.users = append(s.users, created)
	return &created, nil
}

func (s *MemoryStore) FindUser(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]models.User, len(s.users))
	copy(res, s.users)
	return res, nil
}

func (s *MemoryStore) SetRole(_ context.Context, email, role string) (int64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].Email != email {
			continue
		}
		if s.users[i].Role == role {
			return 1, 0, nil
		}
		s.users[i].Role = role
		return 1, 1, nil
	}
	return 0, 0, nil
}

func (s *MemoryStore) InsertReview(_ context.Context, r *models.Review) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.ID = primitive.NewObjectID()
	s.reviews = append(s.reviews, *r)
	return r.ID, nil
}

func (s *MemoryStore) ListReviews(_ context.Context) ([]models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]models.Review, len(s.reviews))
	copy(res, s.reviews)
	return res, nil
}

func (s *MemoryStore) InsertPayment(_ context.Context, p *models.Payment) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.ID = primitive.NewObjectID()
	s.payments = append(s.payments, *p)
	return p.ID, nil
}

func (s *MemoryStore) ListPaymentsByOrder(_ context.Context, orderID primitive.ObjectID) ([]models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := []models.Payment{}
	for _, p := range s.payments {
		if p.OrderID == orderID {
			res = append(res, p)
		}
	}
	return res, nil
}

func (s *MemoryStore) Ping(context.Context) error  { return nil }
func (s *MemoryStore) Close(context.Context) error { return nil }

func (s *MemoryStore) orderIndex(id primitive.ObjectID) int {
	for i, o := range s.orders {
		if o.ID == id {
			return i
		}
	}
	return -1
}

func (s *MemoryStore) deleteOrderWhere(id primitive.ObjectID, match func(models.Order) bool) int64 {
	i := s.orderIndex(id)
	if i < 0 || !match(s.orders[i]) {
		return 0
	}
	s.orders = append(s.orders[:i], s.orders[i+1:]...)
	return 1
}
