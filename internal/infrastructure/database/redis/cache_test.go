package redis

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/GeneHighlighter/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/turtacn/GeneHighlighter/pkg/errors"
)

type CacheTestSuite struct {
	suite.Suite
	mock  redismock.ClientMock
	cache Cache
}

func (s *CacheTestSuite) SetupTest() {
	db, mock := redismock.NewClientMock()
	s.mock = mock
	client := NewClientFromUniversal(db, logging.NewNopLogger())
	s.cache = NewRedisCache(client, nil, WithPrefix("test:"), WithTTLJitter(0))
}

func (s *CacheTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
}

type cachedEntity struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

func (s *CacheTestSuite) TestGet_Hit() {
	val := cachedEntity{Text: "BRCA1", Score: 0.95}
	data, _ := json.Marshal(val)
	s.mock.ExpectGet("test:key1").SetVal(string(data))

	var dest cachedEntity
	s.Require().NoError(s.cache.Get(context.Background(), "key1", &dest))
	s.Equal(val, dest)
}

func (s *CacheTestSuite) TestGet_Miss() {
	s.mock.ExpectGet("test:key1").RedisNil()

	var dest cachedEntity
	err := s.cache.Get(context.Background(), "key1", &dest)
	s.Equal(ErrCacheMiss, err)
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeNotFound))
}

func (s *CacheTestSuite) TestGet_Error() {
	s.mock.ExpectGet("test:key1").SetErr(stderrors.New("connection reset"))

	var dest cachedEntity
	err := s.cache.Get(context.Background(), "key1", &dest)
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeCacheError))
}

func (s *CacheTestSuite) TestGet_CorruptValue() {
	s.mock.ExpectGet("test:key1").SetVal("{not json")

	var dest cachedEntity
	err := s.cache.Get(context.Background(), "key1", &dest)
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeSerialization))
}

func (s *CacheTestSuite) TestSet_UsesDefaultTTL() {
	val := cachedEntity{Text: "p53", Score: 0.9}
	data, _ := json.Marshal(val)
	s.mock.ExpectSet("test:key1", data, 24*time.Hour).SetVal("OK")

	s.NoError(s.cache.Set(context.Background(), "key1", val, 0))
}

func (s *CacheTestSuite) TestSet_Error() {
	data, _ := json.Marshal("v")
	s.mock.ExpectSet("test:key1", data, time.Minute).SetErr(stderrors.New("readonly"))

	err := s.cache.Set(context.Background(), "key1", "v", time.Minute)
	s.True(pkgerrors.IsCode(err, pkgerrors.ErrCodeCacheError))
}

func (s *CacheTestSuite) TestDelete() {
	s.mock.ExpectDel("test:k1", "test:k2").SetVal(2)
	s.NoError(s.cache.Delete(context.Background(), "k1", "k2"))
	s.NoError(s.cache.Delete(context.Background()))
}

func (s *CacheTestSuite) TestGetOrSet_Hit() {
	val := cachedEntity{Text: "EGFR", Score: 0.8}
	data, _ := json.Marshal(val)
	s.mock.ExpectGet("test:key1").SetVal(string(data))

	var dest cachedEntity
	err := s.cache.GetOrSet(context.Background(), "key1", &dest, time.Minute, func(context.Context) (interface{}, error) {
		s.Fail("loader must not run on a hit")
		return nil, nil
	})
	s.NoError(err)
	s.Equal(val, dest)
}

func (s *CacheTestSuite) TestGetOrSet_MissLoadsAndStores() {
	val := cachedEntity{Text: "KRAS", Score: 0.7}
	data, _ := json.Marshal(val)
	s.mock.ExpectGet("test:key1").RedisNil()
	s.mock.ExpectSet("test:key1", data, time.Minute).SetVal("OK")

	var dest cachedEntity
	err := s.cache.GetOrSet(context.Background(), "key1", &dest, time.Minute, func(context.Context) (interface{}, error) {
		return val, nil
	})
	s.NoError(err)
	s.Equal(val, dest)
}

func (s *CacheTestSuite) TestGetOrSet_LoaderError() {
	s.mock.ExpectGet("test:key1").RedisNil()

	var dest cachedEntity
	err := s.cache.GetOrSet(context.Background(), "key1", &dest, time.Minute, func(context.Context) (interface{}, error) {
		return nil, stderrors.New("upstream down")
	})
	s.EqualError(err, "upstream down")
}

func (s *CacheTestSuite) TestGetOrSet_CacheDownStillLoads() {
	val := cachedEntity{Text: "MYC", Score: 0.75}
	data, _ := json.Marshal(val)
	s.mock.ExpectGet("test:key1").SetErr(stderrors.New("connection refused"))
	s.mock.ExpectSet("test:key1", data, time.Minute).SetErr(stderrors.New("connection refused"))

	var dest cachedEntity
	err := s.cache.GetOrSet(context.Background(), "key1", &dest, time.Minute, func(context.Context) (interface{}, error) {
		return val, nil
	})
	s.NoError(err)
	s.Equal(val, dest)
}

func TestCacheSuite(t *testing.T) {
	suite.Run(t, new(CacheTestSuite))
}

func TestGetOrSet_ConcurrentMissesLoadOnce(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient(&RedisConfig{Addr: mr.Addr()}, nil)
	require.NoError(t, err)
	defer client.Close()
	cache := NewRedisCache(client, nil, WithPrefix("sf:"))

	var loads int32
	release := make(chan struct{})
	loader := func(context.Context) (interface{}, error) {
		atomic.AddInt32(&loads, 1)
		<-release
		return cachedEntity{Text: "TP53", Score: 1}, nil
	}

	var wg sync.WaitGroup
	results := make([]cachedEntity, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, cache.GetOrSet(context.Background(), "gene", &results[i], time.Minute, loader))
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))
	for _, r := range results {
		assert.Equal(t, "TP53", r.Text)
	}
	assert.True(t, mr.Exists("sf:gene"))
}

type taggedSerializer struct{}

func (taggedSerializer) Marshal(v interface{}) ([]byte, error) {
	data, err := json.Marshal(v)
	return append([]byte("v1:"), data...), err
}

func (taggedSerializer) Unmarshal(data []byte, v interface{}) error {
	if len(data) < 3 || string(data[:3]) != "v1:" {
		return stderrors.New("missing version tag")
	}
	return json.Unmarshal(data[3:], v)
}

func TestCache_CustomSerializer(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient(&RedisConfig{Addr: mr.Addr()}, nil)
	require.NoError(t, err)
	defer client.Close()
	cache := NewRedisCache(client, nil, WithPrefix("ser:"), WithSerializer(taggedSerializer{}))

	ctx := context.Background()
	require.NoError(t, cache.Set(ctx, "gene", cachedEntity{Text: "EGFR", Score: 0.9}, time.Minute))
	raw, err := mr.Get("ser:gene")
	require.NoError(t, err)
	assert.Equal(t, `v1:{"text":"EGFR","score":0.9}`, raw)

	var got cachedEntity
	require.NoError(t, cache.Get(ctx, "gene", &got))
	assert.Equal(t, "EGFR", got.Text)

	mr.Set("ser:legacy", `{"text":"p53"}`)
	err = cache.Get(ctx, "legacy", &got)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.ErrCodeSerialization))
}

//Personal.AI order the ending
