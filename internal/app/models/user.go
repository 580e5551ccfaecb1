package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// User is the subset of the users collection this service reads.
type User struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FullName  string             `json:"fullName" bson:"fullName"`
	Email     string             `json:"email" bson:"email"`
	Role      string             `json:"role" bson:"role"`
	TimeModel `bson:",inline"`
}

type Clinic struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Address   string             `json:"address" bson:"address"`
	TimeModel `bson:",inline"`
}

// Actor is the authenticated caller of an operation.
type Actor struct {
	UserID string `json:"userId" bson:"userId"`
	Role   string `json:"role" bson:"role"`
}
