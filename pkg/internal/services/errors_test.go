package services

import (
	"errors"
	"testing"

	"gorm.io/gorm"
)

func TestWrapError(t *testing.T) {
	if wrapError("do nothing", nil) != nil {
		t.Fatal("wrapping a nil error must stay nil")
	}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"record not found", gorm.ErrRecordNotFound, ErrNotFound},
		{"duplicated key", gorm.ErrDuplicatedKey, ErrConflict},
		{"forbidden passes through", ErrForbidden, ErrForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := wrapError("load thing", tt.err)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v to match %v", err, tt.want)
			}
		})
	}

	if !IsNotFound(wrapError("get post", gorm.ErrRecordNotFound)) {
		t.Error("IsNotFound did not recognize a missing record")
	}
	if IsNotFound(wrapError("get post", errors.New("connection reset"))) {
		t.Error("IsNotFound matched an unrelated error")
	}
}

func TestInvalid(t *testing.T) {
	err := invalid("comment cannot be %s", "empty")
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}
