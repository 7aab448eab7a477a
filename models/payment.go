package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Payment is one entry of the append-only payment log.
type Payment struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	OrderID       primitive.ObjectID `json:"orderId" bson:"orderId"`
	TransactionID string             `json:"transactionId" bson:"transactionId"`
	Status        string             `json:"status" bson:"status"`
	Email         string             `json:"email,omitempty" bson:"email,omitempty"`
	Price         float64            `json:"price,omitempty" bson:"price,omitempty"`
}

type PaymentIntentRequest struct {
	Price float64 `json:"price"`
}

type PaymentConfirmation struct {
	TransactionID string  `json:"transactionId"`
	Status        string  `json:"status,omitempty"`
	Price         float64 `json:"price,omitempty"`
}
