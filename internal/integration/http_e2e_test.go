//go:build integration

package integration

import (
	"context"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"

	"hotel_booking/internal/adapters/apiclient"
	server "hotel_booking/internal/adapters/http_server"
	redisad "hotel_booking/internal/adapters/redis"
	"hotel_booking/internal/app"
	"hotel_booking/internal/domain"
	"hotel_booking/internal/seed"
	"hotel_booking/internal/storage/memory"
)

// startRedis runs an isolated redis container and returns a connected client.
func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run redis: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	rc := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("127.0.0.1:%s", resource.GetPort("6379/tcp"))})
	if err := pool.Retry(func() error { return rc.Ping(context.Background()).Err() }); err != nil {
		t.Fatalf("connect redis: %v", err)
	}
	t.Cleanup(func() { _ = rc.Close() })
	return rc
}

func TestHTTP_EndToEnd_RedisCachedReservations(t *testing.T) {
	rc := startRedis(t)
	cache := redisad.NewFromClient(rc)

	repo := memory.New()
	clock := domain.ClockFunc(func() time.Time { return time.Date(2030, 5, 10, 14, 30, 0, 0, time.UTC) })
	srv := server.New(server.Options{RequestTimeout: 5 * time.Second})
	srv.MountHandlers(&server.Handlers{
		Cmd: app.NewBookingService(repo, cache, clock),
		Q:   app.NewQueryService(repo, cache, time.Minute),
	})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cl, err := apiclient.New(ts.URL, 50)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	f, err := seed.Load("../seed/testdata/fragro_hotel.json")
	if err != nil {
		t.Fatalf("load seed: %v", err)
	}
	rep, err := seed.Run(ctx, cl, f, 4)
	if err != nil || rep.Bookings != 5 {
		t.Fatalf("seed: %+v %v", rep, err)
	}

	id, err := cl.ResolveHotel(ctx, "Fragro Hotel")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	page, err := cl.ListReservations(ctx, id)
	if err != nil || len(page.Lines) != 5 {
		t.Fatalf("list: %+v %v", page, err)
	}

	pattern := "hotel:reservations:" + id + "@*"
	cached := func() []string {
		keys, err := rc.Keys(ctx, pattern).Result()
		if err != nil {
			t.Fatalf("keys: %v", err)
		}
		return keys
	}
	if keys := cached(); len(keys) != 1 || keys[0] != "hotel:reservations:"+id+"@5" {
		t.Fatalf("listing not cached under the current revision: %v", keys)
	}

	// a conflicting booking leaves the cached listing alone
	if _, err := cl.BookRoom(ctx, id, 101, domain.NewDate(2030, 5, 15)); !errors.Is(err, domain.ErrAlreadyBooked) {
		t.Fatalf("expected ErrAlreadyBooked, got %v", err)
	}
	if keys := cached(); len(keys) != 1 {
		t.Fatalf("failed booking touched the cache: %v", keys)
	}

	if err := cl.CancelRoom(ctx, id, 101, domain.NewDate(2030, 5, 15)); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if keys := cached(); len(keys) != 0 {
		t.Fatalf("cancel did not evict the superseded listing: %v", keys)
	}

	page, err = cl.ListReservations(ctx, id)
	if err != nil || len(page.Lines) != 4 {
		t.Fatalf("list after cancel: %+v %v", page, err)
	}
	if page.Lines[0] != "Single-bed room 102, price: 10000, date: 2030-05-17" {
		t.Fatalf("unexpected first line: %q", page.Lines[0])
	}
}
