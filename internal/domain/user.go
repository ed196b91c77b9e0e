package domain

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserType string

const (
	UserTypeCustomer UserType = "customer"
	UserTypeAdmin    UserType = "admin"
)

var validUserTypes = map[UserType]struct{}{
	UserTypeCustomer: {},
	UserTypeAdmin:    {},
}

func ToUserType(s string) (UserType, error) {
	t := UserType(s)
	if _, ok := validUserTypes[t]; ok {
		return t, nil
	}
	return "", errors.New("invalid user type")
}

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Name      string             `bson:"name" json:"name"`
	Password  string             `bson:"password" json:"-"`
	UserType  UserType           `bson:"userType" json:"userType"`
	Address   string             `bson:"address" json:"address"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u User) IsAdmin() bool {
	return u.UserType == UserTypeAdmin
}
