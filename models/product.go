package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Product struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Price        float64            `json:"price" bson:"price"`
	Description  string             `json:"description" bson:"description"`
	Quantity     int                `json:"quantity" bson:"quantity"`
	Img          string             `json:"img,omitempty" bson:"img,omitempty"`
	MinimumOrder int                `json:"minimumOrder,omitempty" bson:"minimumOrder,omitempty"`
}
