package memory_test

import (
	"context"
	"errors"
	"testing"

	"hotel_booking/internal/domain"
	"hotel_booking/internal/storage/memory"
)

func TestRepo_AddGetList(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()

	var ids []string
	for _, name := range []string{"Fragro Hotel", "Budapest Inn"} {
		h, err := domain.NewHotel(repo.NextID(), name)
		if err != nil {
			t.Fatalf("NewHotel: %v", err)
		}
		if err := repo.Add(ctx, h); err != nil {
			t.Fatalf("Add: %v", err)
		}
		ids = append(ids, h.ID())
	}
	if ids[0] == ids[1] || ids[0] == "" {
		t.Fatalf("ids not unique: %v", ids)
	}

	got, err := repo.Get(ctx, ids[1])
	if err != nil || got.Name() != "Budapest Inn" {
		t.Fatalf("Get: %v %+v", err, got)
	}

	all, _ := repo.List(ctx)
	if len(all) != 2 || all[0].Name() != "Fragro Hotel" {
		t.Fatalf("List order wrong: %d hotels", len(all))
	}
}

func TestRepo_GetMissing(t *testing.T) {
	repo := memory.New()
	if _, err := repo.Get(context.Background(), "nope"); !errors.Is(err, domain.ErrHotelNotFound) {
		t.Fatalf("expected ErrHotelNotFound, got %v", err)
	}
}

func TestRepo_AddDuplicateID(t *testing.T) {
	repo := memory.New()
	ctx := context.Background()
	a, _ := domain.NewHotel("same", "A")
	b, _ := domain.NewHotel("same", "B")
	if err := repo.Add(ctx, a); err != nil {
		t.Fatalf("Add a: %v", err)
	}
	if err := repo.Add(ctx, b); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}
