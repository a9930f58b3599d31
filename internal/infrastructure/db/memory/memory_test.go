package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/lewkins/storefront-api/internal/core/domain"
)

func TestUserRepository_CreateAssignsSequentialIDs(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	a, err := repo.Create(ctx, &domain.User{Email: "a@example.com"})
	if err != nil {
		t.Fatalf("create a: %v", err)
	}
	b, err := repo.Create(ctx, &domain.User{Email: "b@example.com"})
	if err != nil {
		t.Fatalf("create b: %v", err)
	}
	if a.ID != 1 || b.ID != 2 {
		t.Fatalf("expected ids 1,2 got %d,%d", a.ID, b.ID)
	}
}

func TestUserRepository_DuplicateEmailIsCaseInsensitive(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	if _, err := repo.Create(ctx, &domain.User{Email: "alice@example.com"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := repo.Create(ctx, &domain.User{Email: "  ALICE@example.com "})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	u, err := repo.FindByEmail(ctx, "Alice@Example.com")
	if err != nil || u.Email != "alice@example.com" {
		t.Fatalf("lookup failed: %v %+v", err, u)
	}
}

func TestUserRepository_ReturnsCopies(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	created, _ := repo.Create(ctx, &domain.User{Email: "c@example.com", Name: "Carol"})
	created.Name = "Mallory"

	stored, _ := repo.FindByID(ctx, created.ID)
	if stored.Name != "Carol" {
		t.Fatalf("store was mutated through returned pointer")
	}
}

func TestUserRepository_UpdateRejectsForeignEmail(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	a, _ := repo.Create(ctx, &domain.User{Email: "a@example.com"})
	_, _ = repo.Create(ctx, &domain.User{Email: "b@example.com"})

	a.Email = "B@example.com"
	if _, err := repo.Update(ctx, a); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	a.Email = "a@example.com"
	a.Name = "Alice"
	if _, err := repo.Update(ctx, a); err != nil {
		t.Fatalf("updating own email must succeed: %v", err)
	}
}

func TestUserRepository_Delete(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	u, _ := repo.Create(ctx, &domain.User{Email: "d@example.com"})
	if err := repo.Delete(ctx, u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.FindByID(ctx, u.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := repo.Delete(ctx, u.ID); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	// ids are never reused
	next, _ := repo.Create(ctx, &domain.User{Email: "e@example.com"})
	if next.ID != u.ID+1 {
		t.Fatalf("expected id %d, got %d", u.ID+1, next.ID)
	}
}

func TestProductRepository_ConcurrentCreateUniqueIDs(t *testing.T) {
	repo := NewProductRepository()
	ctx := context.Background()

	const n = 200
	var wg sync.WaitGroup
	ids := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := repo.Create(ctx, &domain.Product{Name: "x"})
			if err != nil {
				t.Errorf("create: %v", err)
				return
			}
			ids <- p.ID
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool, n)
	for id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %d", id)
		}
		seen[id] = true
	}
	if len(seen) != n {
		t.Fatalf("expected %d ids, got %d", n, len(seen))
	}
}

func TestProductRepository_ListFiltersAndCopies(t *testing.T) {
	repo := NewProductRepository()
	ctx := context.Background()

	_, _ = repo.Create(ctx, &domain.Product{Name: "Denim Jacket", Category: "Jackets", Colors: []string{"Blue"}})
	_, _ = repo.Create(ctx, &domain.Product{Name: "Black Sneakers", Category: "Shoes"})

	all, _ := repo.List(ctx, domain.ProductFilter{})
	if len(all) != 2 {
		t.Fatalf("expected 2 products, got %d", len(all))
	}
	all[0].Colors[0] = "Red"

	jackets, _ := repo.List(ctx, domain.ProductFilter{Category: "jackets"})
	if len(jackets) != 1 || jackets[0].Colors[0] != "Blue" {
		t.Fatalf("unexpected filter result: %+v", jackets)
	}
	if jackets[0].Sizes == nil {
		t.Fatalf("sizes must serialize as an empty list, not null")
	}
}

func TestProductRepository_UpdateDeleteMissing(t *testing.T) {
	repo := NewProductRepository()
	ctx := context.Background()

	if _, err := repo.Update(ctx, &domain.Product{ID: 42}); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
	if err := repo.Delete(ctx, 42); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestOrderRepository_ListByCustomer(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()

	_, _ = repo.Create(ctx, &domain.Order{CustomerID: 1})
	_, _ = repo.Create(ctx, &domain.Order{CustomerID: 2})
	_, _ = repo.Create(ctx, &domain.Order{CustomerID: 1})

	mine, _ := repo.List(ctx, 1)
	if len(mine) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(mine))
	}
	all, _ := repo.List(ctx, 0)
	if len(all) != 3 {
		t.Fatalf("expected 3 orders, got %d", len(all))
	}
}

func TestOrderRepository_MutateRollsBackOnError(t *testing.T) {
	repo := NewOrderRepository()
	ctx := context.Background()

	o, _ := repo.Create(ctx, &domain.Order{Status: domain.StatusShipped})

	_, err := repo.Mutate(ctx, o.ID, func(o *domain.Order) error {
		o.AdminNotes = "half applied"
		return o.Status.CheckCancel()
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	stored, _ := repo.FindByID(ctx, o.ID)
	if stored.AdminNotes != "" {
		t.Fatalf("rejected mutation leaked into the store")
	}

	if _, err := repo.Mutate(ctx, 999, func(*domain.Order) error { return nil }); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderEventRepository_ListByOrder(t *testing.T) {
	repo := NewOrderEventRepository()
	ctx := context.Background()

	_ = repo.InsertEvent(ctx, &domain.OrderEvent{OrderID: 1, Type: domain.EventCreated})
	_ = repo.InsertEvent(ctx, &domain.OrderEvent{OrderID: 2, Type: domain.EventCreated})
	_ = repo.InsertEvent(ctx, &domain.OrderEvent{OrderID: 1, Type: domain.EventCancelled})

	events, _ := repo.ListByOrder(ctx, 1)
	if len(events) != 2 || events[0].Type != domain.EventCreated || events[1].Type != domain.EventCancelled {
		t.Fatalf("unexpected events: %+v", events)
	}
	none, _ := repo.ListByOrder(ctx, 3)
	if none == nil || len(none) != 0 {
		t.Fatalf("expected empty non-nil slice")
	}
}

func TestIdempotencyStore_ReserveCompleteExpire(t *testing.T) {
	store := NewIdempotencyStore()
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	if _, reserved, err := store.Reserve(ctx, "1:key", time.Minute); err != nil || !reserved {
		t.Fatalf("first reserve must win, got %v %v", reserved, err)
	}
	if id, reserved, _ := store.Reserve(ctx, "1:key", time.Minute); reserved || id != 0 {
		t.Fatalf("expected pending key, got id=%d reserved=%v", id, reserved)
	}

	_ = store.Complete(ctx, "1:key", 7, time.Minute)
	id, reserved, err := store.Reserve(ctx, "1:key", time.Minute)
	if err != nil || reserved || id != 7 {
		t.Fatalf("expected completed key for 7, got %d %v %v", id, reserved, err)
	}

	now = now.Add(time.Minute)
	if _, reserved, _ := store.Reserve(ctx, "1:key", time.Minute); !reserved {
		t.Fatalf("expected expired key to be reservable again")
	}
}

func TestIdempotencyStore_ReleaseOnlyDropsPending(t *testing.T) {
	store := NewIdempotencyStore()
	ctx := context.Background()

	_, _, _ = store.Reserve(ctx, "1:a", time.Minute)
	_ = store.Release(ctx, "1:a")
	if _, reserved, _ := store.Reserve(ctx, "1:a", time.Minute); !reserved {
		t.Fatalf("released key must be reservable")
	}

	_ = store.Complete(ctx, "1:a", 3, time.Minute)
	_ = store.Release(ctx, "1:a")
	if id, _, _ := store.Reserve(ctx, "1:a", time.Minute); id != 3 {
		t.Fatalf("completed key must survive release, got %d", id)
	}
}

func TestIdempotencyStore_ConcurrentReserveHasOneWinner(t *testing.T) {
	store := NewIdempotencyStore()
	ctx := context.Background()

	const n = 50
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		winners int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, reserved, _ := store.Reserve(ctx, "1:same", time.Minute); reserved {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if winners != 1 {
		t.Fatalf("expected exactly one reservation, got %d", winners)
	}
}
