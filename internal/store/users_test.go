package store

import (
	"context"
	"errors"
	"testing"
)

func TestCreateUser(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	user, err := st.CreateUser(ctx, "a@example.com", "hash")
	if err != nil {
		t.Fatal(err)
	}
	if user.ID == "" {
		t.Error("expected generated id")
	}

	got, err := st.UserByEmail(ctx, "a@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != user.ID || got.PasswordHash != "hash" {
		t.Errorf("got %+v", got)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if _, err := st.CreateUser(ctx, "a@example.com", "h1"); err != nil {
		t.Fatal(err)
	}
	if _, err := st.CreateUser(ctx, "a@example.com", "h2"); !errors.Is(err, ErrEmailTaken) {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}
}

func TestUserByEmail_NotFound(t *testing.T) {
	st := openTestStore(t)
	if _, err := st.UserByEmail(context.Background(), "missing@example.com"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}
