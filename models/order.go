package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Order statuses written by the payment flow and the status endpoint.
const (
	StatusPending = "pending"
	StatusShipped = "shipped"
)

type Order struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Email         string             `json:"email" bson:"email"`
	ProductName   string             `json:"productName" bson:"productName"`
	Quantity      int                `json:"quantity" bson:"quantity"`
	Price         float64            `json:"price" bson:"price"`
	Paid          bool               `json:"paid" bson:"paid"`
	TransactionID string             `json:"transactionId,omitempty" bson:"transactionId,omitempty"`
	Status        string             `json:"status,omitempty" bson:"status,omitempty"`
	Address       string             `json:"address,omitempty" bson:"address,omitempty"`
	Phone         string             `json:"phone,omitempty" bson:"phone,omitempty"`
}

type OrderStatusRequest struct {
	Status string `json:"status"`
}
