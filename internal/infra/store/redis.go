package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/astro-web3/album-api/internal/domain/album"
)

// indexKey is a set of every album key, so List does not need SCAN.
const indexKey = "albums"

type redisRepository struct {
	client redis.UniversalClient
}

func NewRedisClient(ctx context.Context, url string, poolSize int) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	if poolSize > 0 {
		opt.PoolSize = poolSize
	}

	client := redis.NewClient(opt)

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return client, nil
}

func NewRedisRepository(client redis.UniversalClient) album.Repository {
	return &redisRepository{client: client}
}

func albumKey(id int, artist string) string {
	return fmt.Sprintf("album:%d:%s", id, artist)
}

func (r *redisRepository) Put(ctx context.Context, a *album.Album) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal album: %w", err)
	}

	key := albumKey(a.ID, a.Artist)
	_, err = r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, key, data, 0)
		p.SAdd(ctx, indexKey, key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store album: %w", err)
	}
	return nil
}

func (r *redisRepository) Get(ctx context.Context, id int, artist string) (*album.Album, error) {
	val, err := r.client.Get(ctx, albumKey(id, artist)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, album.ErrAlbumNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get album: %w", err)
	}

	var a album.Album
	if err := json.Unmarshal(val, &a); err != nil {
		return nil, fmt.Errorf("failed to unmarshal album: %w", err)
	}
	return &a, nil
}

func (r *redisRepository) List(ctx context.Context) ([]*album.Album, error) {
	keys, err := r.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list album keys: %w", err)
	}

	albums := make([]*album.Album, 0, len(keys))
	if len(keys) == 0 {
		return albums, nil
	}

	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load albums: %w", err)
	}

	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var a album.Album
		if err := json.Unmarshal([]byte(s), &a); err != nil {
			return nil, fmt.Errorf("failed to unmarshal album: %w", err)
		}
		albums = append(albums, &a)
	}
	return albums, nil
}

func (r *redisRepository) Update(
	ctx context.Context,
	id int,
	artist, owner string,
	u album.Update,
) (*album.Album, error) {
	key := albumKey(id, artist)
	var updated *album.Album

	// WATCH aborts the transaction if the album changes between read and write.
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		val, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return album.ErrAlbumNotFound
		}
		if err != nil {
			return err
		}

		var a album.Album
		if err := json.Unmarshal(val, &a); err != nil {
			return fmt.Errorf("failed to unmarshal album: %w", err)
		}
		if !a.OwnedBy(owner) {
			return album.ErrForbidden
		}
		a.Apply(u)

		data, err := json.Marshal(&a)
		if err != nil {
			return fmt.Errorf("failed to marshal album: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
			p.Set(ctx, key, data, 0)
			return nil
		})
		if err != nil {
			return err
		}
		updated = &a
		return nil
	}, key)
	if errors.Is(err, album.ErrAlbumNotFound) || errors.Is(err, album.ErrForbidden) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update album: %w", err)
	}
	return updated, nil
}

func (r *redisRepository) BatchPut(ctx context.Context, albums []*album.Album) error {
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, a := range albums {
			data, err := json.Marshal(a)
			if err != nil {
				return fmt.Errorf("failed to marshal album %d: %w", a.ID, err)
			}
			key := albumKey(a.ID, a.Artist)
			p.Set(ctx, key, data, 0)
			p.SAdd(ctx, indexKey, key)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store albums: %w", err)
	}
	return nil
}
