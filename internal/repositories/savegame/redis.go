package savegame

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"

	redis "github.com/redis/go-redis/v9"

	"github.com/irmakh/gemini-rpg/internal/errors"
	"github.com/irmakh/gemini-rpg/internal/pkg/clock"
	redisclient "github.com/irmakh/gemini-rpg/internal/redis"
)

const (
	slotKeyPrefix    = "savegame:slot:"
	ownerIndexPrefix = "savegame:owner:"
)

func slotKey(owner, slot string) string {
	return slotKeyPrefix + owner + ":" + slot
}

func ownerKey(owner string) string {
	return ownerIndexPrefix + owner
}

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis save repository
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate validates the RedisConfig
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a Redis-backed save repository. Each slot is a JSON
// string; a set per owner indexes slot names.
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  c,
	}, nil
}

func (r *redisRepository) Put(ctx context.Context, input *PutInput) (*PutOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateSlot(input.Owner, input.Slot); err != nil {
		return nil, err
	}
	if len(input.Data) == 0 {
		return nil, errors.InvalidArgument("save data cannot be empty")
	}

	record := &Record{
		Owner:   input.Owner,
		Slot:    input.Slot,
		SavedAt: r.clock.Now().UTC(),
		Summary: input.Summary,
		Data:    input.Data,
	}
	data, err := json.Marshal(record)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal save record")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, slotKey(input.Owner, input.Slot), data, 0)
	pipe.SAdd(ctx, ownerKey(input.Owner), input.Slot)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to write save slot")
	}

	slog.DebugContext(ctx, "save slot written",
		"owner", input.Owner,
		"slot", input.Slot,
		"bytes", len(input.Data))

	return &PutOutput{Record: record}, nil
}

func (r *redisRepository) Get(ctx context.Context, input *GetInput) (*GetOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateSlot(input.Owner, input.Slot); err != nil {
		return nil, err
	}

	record, err := r.read(ctx, input.Owner, input.Slot)
	if err != nil {
		return nil, err
	}
	return &GetOutput{Record: record}, nil
}

func (r *redisRepository) read(ctx context.Context, owner, slot string) (*Record, error) {
	result, err := r.client.Get(ctx, slotKey(owner, slot)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("save slot %s not found", slot)
		}
		return nil, errors.Wrapf(err, "failed to read save slot")
	}

	var record Record
	if err := json.Unmarshal([]byte(result), &record); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeDataLoss, "failed to unmarshal save record")
	}
	return &record, nil
}

func (r *redisRepository) List(ctx context.Context, input *ListInput) (*ListOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateOwner(input.Owner); err != nil {
		return nil, err
	}

	slots, err := r.client.SMembers(ctx, ownerKey(input.Owner)).Result()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list save slots")
	}

	records := make([]*Record, 0, len(slots))
	for _, slot := range slots {
		record, err := r.read(ctx, input.Owner, slot)
		if err != nil {
			if errors.IsNotFound(err) {
				// the index outlived the slot
				slog.WarnContext(ctx, "removing stale save slot from index",
					"owner", input.Owner,
					"slot", slot)
				_ = r.client.SRem(ctx, ownerKey(input.Owner), slot).Err()
				continue
			}
			return nil, err
		}
		record.Data = nil
		records = append(records, record)
	}
	sortRecords(records)

	return &ListOutput{Records: records}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input *DeleteInput) (*DeleteOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input is required")
	}
	if err := validateSlot(input.Owner, input.Slot); err != nil {
		return nil, err
	}

	pipe := r.client.TxPipeline()
	del := pipe.Del(ctx, slotKey(input.Owner, input.Slot))
	pipe.SRem(ctx, ownerKey(input.Owner), input.Slot)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.Wrapf(err, "failed to delete save slot")
	}
	if del.Val() == 0 {
		return nil, errors.NotFoundf("save slot %s not found", input.Slot)
	}

	return &DeleteOutput{}, nil
}

// sortRecords orders newest first, then by slot name
func sortRecords(records []*Record) {
	sort.SliceStable(records, func(i, j int) bool {
		if !records[i].SavedAt.Equal(records[j].SavedAt) {
			return records[i].SavedAt.After(records[j].SavedAt)
		}
		return records[i].Slot < records[j].Slot
	})
}
