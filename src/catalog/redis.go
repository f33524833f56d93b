package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/kerberos-io/media/src/models"
	"github.com/redis/go-redis/v9"
)

const defaultRedisURL = "redis://localhost:6379"

// RedisCatalog shares the index between replicas. Every camera has a sorted
// set scored by unix seconds, the members point at a JSON metadata key.
type RedisCatalog struct {
	client *redis.Client
}

func NewRedisCatalog(url string) (*RedisCatalog, error) {
	if url == "" {
		url = defaultRedisURL
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("catalog: parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("catalog: connect redis: %w", err)
	}
	return &RedisCatalog{client: client}, nil
}

func redisIndexKey(kind models.MediaType, camera models.CameraRef) string {
	return "media:" + string(kind) + ":" + camera.BuildingId + ":" + camera.CameraId
}

func redisMetaKey(kind models.MediaType, camera models.CameraRef, member string) string {
	return redisIndexKey(kind, camera) + ":" + member
}

func (r *RedisCatalog) Record(ctx context.Context, artifact models.Artifact) error {
	camera := models.CameraRef{BuildingId: artifact.BuildingId, CameraId: artifact.CameraId}
	payload, err := json.Marshal(artifact)
	if err != nil {
		return fmt.Errorf("catalog: failed to marshal artifact: %w", err)
	}
	member := stamp(artifact.Timestamp)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisMetaKey(artifact.Kind, camera, member), payload, 0)
		pipe.ZAdd(ctx, redisIndexKey(artifact.Kind, camera), redis.Z{
			Score:  float64(artifact.Timestamp.Unix()),
			Member: member,
		})
		return nil
	})
	return err
}

func (r *RedisCatalog) Lookup(ctx context.Context, kind models.MediaType, camera models.CameraRef, at time.Time) (models.Artifact, error) {
	return r.meta(ctx, kind, camera, stamp(at))
}

func (r *RedisCatalog) Nearest(ctx context.Context, kind models.MediaType, camera models.CameraRef, at time.Time) (models.Artifact, error) {
	members, err := r.client.ZRevRangeByScore(ctx, redisIndexKey(kind, camera), &redis.ZRangeBy{
		Max:   strconv.FormatInt(at.Unix(), 10),
		Min:   "-inf",
		Count: 1,
	}).Result()
	if err != nil {
		return models.Artifact{}, err
	}
	if len(members) == 0 {
		return models.Artifact{}, ErrNotFound
	}
	return r.meta(ctx, kind, camera, members[0])
}

func (r *RedisCatalog) meta(ctx context.Context, kind models.MediaType, camera models.CameraRef, member string) (models.Artifact, error) {
	payload, err := r.client.Get(ctx, redisMetaKey(kind, camera, member)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Artifact{}, ErrNotFound
	}
	if err != nil {
		return models.Artifact{}, err
	}
	var artifact models.Artifact
	if err := json.Unmarshal(payload, &artifact); err != nil {
		return models.Artifact{}, fmt.Errorf("catalog: corrupt entry %s: %w", member, err)
	}
	return artifact, nil
}

func (r *RedisCatalog) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}
