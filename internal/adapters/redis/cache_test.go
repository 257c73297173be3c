package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "reviewhub/internal/adapters/redis"
)

func TestCache_RoundTripAndDel(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	key := "imported_ids:t1:trustpilot"

	var ids []string
	ok, err := c.Get(ctx, key, &ids)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if ok {
		t.Fatal("expected miss on empty cache")
	}

	if err := c.Set(ctx, key, []string{"r1", "r2"}, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	ok, err = c.Get(ctx, key, &ids)
	if err != nil || !ok {
		t.Fatalf("get after set: ok=%v err=%v", ok, err)
	}
	if len(ids) != 2 || ids[0] != "r1" {
		t.Fatalf("ids: %v", ids)
	}

	if err := c.Del(ctx, key); err != nil {
		t.Fatalf("del: %v", err)
	}
	ok, _ = c.Get(ctx, key, &ids)
	if ok {
		t.Fatal("expected miss after del")
	}
}

func TestCache_TTLExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	if err := c.Set(ctx, "k", []string{"v"}, 1); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(2 * time.Second)

	var ids []string
	ok, _ := c.Get(ctx, "k", &ids)
	if ok {
		t.Fatal("expected entry to expire")
	}
}
