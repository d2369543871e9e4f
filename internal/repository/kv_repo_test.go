package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contenta_dev_v1/internal/model"
	"contenta_dev_v1/pkg/utils"
)

func kvBackends(t *testing.T) map[string]KVRepository {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return map[string]KVRepository{
		"sql":    NewSQLKVRepository(setupTestDB(t, &model.KVEntry{})),
		"memory": NewMemoryKVRepository(utils.NewMemoryCache()),
		"redis":  NewRedisKVRepository(client, "contenta:", nil),
	}
}

func TestKVRepository_Backends(t *testing.T) {
	for name, repo := range kvBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, found, err := repo.Get(ctx, "outputs:local")
			require.NoError(t, err)
			assert.False(t, found, "未写入的键应不存在")

			require.NoError(t, repo.Set(ctx, "outputs:local", `[{"id":"a"}]`))
			val, found, err := repo.Get(ctx, "outputs:local")
			require.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, `[{"id":"a"}]`, val)

			// 覆盖写
			require.NoError(t, repo.Set(ctx, "outputs:local", `[]`))
			val, _, _ = repo.Get(ctx, "outputs:local")
			assert.Equal(t, `[]`, val)

			// 键之间互不影响
			require.NoError(t, repo.Set(ctx, "settings:local", `{"style":"bold"}`))
			require.NoError(t, repo.Delete(ctx, "outputs:local"))
			_, found, _ = repo.Get(ctx, "outputs:local")
			assert.False(t, found)
			val, found, _ = repo.Get(ctx, "settings:local")
			assert.True(t, found)
			assert.Equal(t, `{"style":"bold"}`, val)

			// 删除不存在的键不报错
			assert.NoError(t, repo.Delete(ctx, "outputs:nobody"))
		})
	}
}

func TestRedisKVRepository_Prefix(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	repo := NewRedisKVRepository(client, "contenta:", nil)
	require.NoError(t, repo.Set(context.Background(), "outputs:u1", "[]"))

	assert.True(t, mr.Exists("contenta:outputs:u1"))
	assert.False(t, mr.Exists("outputs:u1"))
}

func TestRedisKVRepository_Unavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	mr.Close()

	repo := NewRedisKVRepository(client, "", nil)
	_, found, err := repo.Get(context.Background(), "outputs:u1")
	assert.Error(t, err)
	assert.False(t, found)
}

func TestMemoryKVRepository_TTL(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	cache := utils.NewMemoryCache()
	cache.SetClock(func() time.Time { return now })
	repo := NewMemoryKVRepositoryWithTTL(cache, time.Hour)
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "outputs:u1", "[]"))
	now = now.Add(50 * time.Minute)
	_, found, _ := repo.Get(ctx, "outputs:u1")
	assert.True(t, found)

	// 再次写入刷新过期时间
	require.NoError(t, repo.Set(ctx, "outputs:u1", `[{"id":"a"}]`))
	now = now.Add(50 * time.Minute)
	val, found, _ := repo.Get(ctx, "outputs:u1")
	assert.True(t, found)
	assert.Equal(t, `[{"id":"a"}]`, val)

	now = now.Add(11 * time.Minute)
	_, found, err := repo.Get(ctx, "outputs:u1")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.Set(ctx, "settings:u1", "{}"))
	now = now.Add(2 * time.Hour)
	assert.Equal(t, 1, cache.Sweep())
	assert.Zero(t, cache.Len())
}
