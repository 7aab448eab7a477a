package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Review struct {
	ID        primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Email     string             `json:"email" bson:"email"`
	ProductID primitive.ObjectID `json:"productId" bson:"productId"`
	Text      string             `json:"text" bson:"text"`
	Rating    int                `json:"rating,omitempty" bson:"rating,omitempty"`
}
