package storage

import (
	"context"
	"strconv"

	"github.com/golang/glog"
)

const presenceKey = "presence:online"

// SetOnline adds or removes userID from the Redis presence set.
func (s *Service) SetOnline(ctx context.Context, userID uint, online bool) error {
	if s.Redis == nil {
		return nil
	}

	member := strconv.FormatUint(uint64(userID), 10)
	if online {
		return s.Redis.SAdd(ctx, presenceKey, member).Err()
	}
	return s.Redis.SRem(ctx, presenceKey, member).Err()
}

// OnlineUserIDs lists the identities currently marked online.
func (s *Service) OnlineUserIDs(ctx context.Context) ([]uint, error) {
	if s.Redis == nil {
		return nil, nil
	}

	members, err := s.Redis.SMembers(ctx, presenceKey).Result()
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseUint(m, 10, 64)
		if err != nil {
			glog.Warningf("skipping malformed presence member %q", m)
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// ClearPresence drops the whole presence set. The server calls it on start
// since no connection survives a restart.
func (s *Service) ClearPresence(ctx context.Context) error {
	if s.Redis == nil {
		return nil
	}
	return s.Redis.Del(ctx, presenceKey).Err()
}
