// Package storage is the document store adapter. Each collection the API
// touches has a small interface; Store bundles them for wiring. Backends:
// MongoDB, PostgreSQL and an in-memory store.
package storage

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"partsapi/models"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrAlreadyPaid = errors.New("order is already paid")
)

// Collection names, shared by the mongo collections and the postgres tables.
const (
	PartsCollection    = "parts"
	OrdersCollection   = "orders"
	UsersCollection    = "users"
	ReviewsCollection  = "reviews"
	PaymentsCollection = "payments"
)

type ProductStore interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	// FindProduct returns ErrNotFound when there is no such product.
	FindProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	InsertProduct(ctx context.Context, p *models.Product) (primitive.ObjectID, error)
	DeleteProduct(ctx context.Context, id primitive.ObjectID) (int64, error)
}

type OrderStore interface {
	InsertOrder(ctx context.Context, o *models.Order) (primitive.ObjectID, error)
	FindOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListOrdersByEmail(ctx context.Context, email string) ([]models.Order, error)
	DeleteOrder(ctx context.Context, id primitive.ObjectID) (int64, error)
	// DeleteOrderOwnedBy removes the order only when its email matches.
	DeleteOrderOwnedBy(ctx context.Context, id primitive.ObjectID, email string) (int64, error)
	// MarkOrderPaid flips paid to true once. It returns ErrNotFound for an
	// unknown order and ErrAlreadyPaid when the order was paid before.
	MarkOrderPaid(ctx context.Context, id primitive.ObjectID, transactionID, status string) error
	SetOrderStatus(ctx context.Context, id primitive.ObjectID, status string) error
}

type UserStore interface {
	// UpsertUser creates the user or overwrites the non-empty fields of an
	// existing one. New users without a role become customers.
	UpsertUser(ctx context.Context, u models.User) (*models.User, error)
	FindUser(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	SetRole(ctx context.Context, email, role string) (matched, modified int64, err error)
}

type ReviewStore interface {
	InsertReview(ctx context.Context, r *models.Review) (primitive.ObjectID, error)
	ListReviews(ctx context.Context) ([]models.Review, error)
}

type PaymentStore interface {
	InsertPayment(ctx context.Context, p *models.Payment) (primitive.ObjectID, error)
	ListPaymentsByOrder(ctx context.Context, orderID primitive.ObjectID) ([]models.Payment, error)
}

type Store interface {
	ProductStore
	OrderStore
	UserStore
	ReviewStore
	PaymentStore

	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// mergeUser applies the upsert overwrite rule shared by all backends.
func mergeUser(existing *models.User, in models.User) models.User {
	var out models.User
	if existing != nil {
		out = *existing
	}
	out.Email = in.Email
	if in.Role != "" {
		out.Role = in.Role
	}
	if in.Name != "" {
		out.Name = in.Name
	}
	if out.Role == "" {
		out.Role = models.RoleCustomer
	}
	return out
}
