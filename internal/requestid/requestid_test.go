package requestid

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestFromContext(t *testing.T) {
	if got := FromContext(context.Background()); got != "" {
		t.Errorf("FromContext(пустой) = %q, ожидалась пустая строка", got)
	}

	ctx := NewContext(context.Background(), "req-42")
	if got := FromContext(ctx); got != "req-42" {
		t.Errorf("FromContext = %q, ожидался req-42", got)
	}
	if got := Ensure(ctx); got != "req-42" {
		t.Errorf("Ensure = %q, ожидался req-42", got)
	}
}

func TestEnsure_GeneratesUUID(t *testing.T) {
	id := Ensure(context.Background())
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("Ensure вернул не UUID: %q (%v)", id, err)
	}
}
