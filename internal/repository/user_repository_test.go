package repository

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestMongoUserRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "horizon.users"

	mt.Run("get by email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "u1"},
			{Key: "email", Value: "a@example.com"},
			{Key: "customer_id", Value: "CUST_ONE"},
		}))

		user, err := NewUserRepositoryFromCollection(mt.Coll).GetUserByEmail(context.Background(), "a@example.com")
		if err != nil {
			mt.Fatal(err)
		}
		if user == nil || user.ID != "u1" || user.CustomerID != "CUST_ONE" {
			mt.Fatalf("unexpected user %+v", user)
		}
	})

	mt.Run("public id falls back to customer id", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
				{Key: "_id", Value: "u2"},
				{Key: "customer_id", Value: "CUST_TWO"},
			}),
		)

		user, err := NewUserRepositoryFromCollection(mt.Coll).FindUserByPublicID(context.Background(), "CUST_TWO")
		if err != nil {
			mt.Fatal(err)
		}
		if user == nil || user.ID != "u2" {
			mt.Fatalf("unexpected user %+v", user)
		}
	})

	mt.Run("missing user", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		user, err := NewUserRepositoryFromCollection(mt.Coll).GetUserByID(context.Background(), "nope")
		if err != nil || user != nil {
			mt.Fatalf("want nil, nil; got %+v, %v", user, err)
		}
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))

		err := NewUserRepositoryFromCollection(mt.Coll).SaveUser(context.Background(), newUser("u1", "a@example.com", "", ""))
		if !errors.Is(err, ErrUserExists) {
			mt.Fatalf("want ErrUserExists, got %v", err)
		}
	})

	mt.Run("update unknown user", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		err := NewUserRepositoryFromCollection(mt.Coll).UpdateUser(context.Background(), newUser("ghost", "g@example.com", "", ""))
		if !errors.Is(err, ErrUserNotFound) {
			mt.Fatalf("want ErrUserNotFound, got %v", err)
		}
	})

	mt.Run("list users", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "u1"}},
			bson.D{{Key: "_id", Value: "u2"}},
		))

		users, err := NewUserRepositoryFromCollection(mt.Coll).GetAllUsers(context.Background())
		if err != nil || len(users) != 2 {
			mt.Fatalf("GetAllUsers = %v, %v", users, err)
		}
	})
}
