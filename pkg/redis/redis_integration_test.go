//go:build integration

package redis

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6380"
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("无法连接测试 Redis: %v", err)
	}
	prefix := fmt.Sprintf("test-%d:", time.Now().UnixNano())
	t.Cleanup(func() {
		ctx := context.Background()
		keys, _ := rdb.Keys(ctx, prefix+"*").Result()
		if len(keys) > 0 {
			rdb.Del(ctx, keys...)
		}
		rdb.Close()
	})
	return NewFromClient(rdb, prefix, zap.NewNop())
}

func TestClient_SaveLoad(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	var got map[string]int
	found, err := c.Load(ctx, "profile", &got)
	if err != nil || found {
		t.Fatalf("期望键不存在, found=%v err=%v", found, err)
	}

	if err := c.Save(ctx, "profile", map[string]int{"enrollment_year": 2024}); err != nil {
		t.Fatalf("保存失败: %v", err)
	}
	found, err = c.Load(ctx, "profile", &got)
	if err != nil || !found {
		t.Fatalf("期望读取成功, found=%v err=%v", found, err)
	}
	if got["enrollment_year"] != 2024 {
		t.Errorf("期望 2024, 实际 %d", got["enrollment_year"])
	}
}

func TestClient_CheckRateLimit(t *testing.T) {
	c := newTestClient(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		ok, n, err := c.CheckRateLimit(ctx, "127.0.0.1", 2, time.Minute)
		if err != nil {
			t.Fatalf("限流检查失败: %v", err)
		}
		if n != int64(i) {
			t.Errorf("期望计数 %d, 实际 %d", i, n)
		}
		if want := i <= 2; ok != want {
			t.Errorf("第 %d 次请求期望放行=%v, 实际 %v", i, want, ok)
		}
	}
}
