package application

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/0x5c-0x200f/asterraIO-assignment/internal/domain/entity"
	repo "github.com/0x5c-0x200f/asterraIO-assignment/internal/domain/repository"
	"github.com/0x5c-0x200f/asterraIO-assignment/internal/ws"
	"github.com/0x5c-0x200f/asterraIO-assignment/pkg/helpers"
)

const usersCacheKey = "directory:users"

// Broadcaster fans an event out to every open socket connection.
type Broadcaster interface {
	Broadcast(evt ws.Event)
}

// CreateUserInput carries the required fields for a new user. Presence is
// validated at the HTTP boundary; no format validation happens here.
type CreateUserInput struct {
	FirstName   string
	LastName    string
	Address     string
	PhoneNumber string
}

// Service orchestrates storage calls, socket broadcasts, and the short-TTL
// aggregate cache. Mutations are independently committed; last write wins.
type Service struct {
	Repo     repo.Directory
	Hub      Broadcaster
	Redis    *redis.Client
	Logger   *logrus.Logger
	CacheTTL time.Duration
}

func NewService(r repo.Directory, hub Broadcaster, rdb *redis.Client, logger *logrus.Logger, cacheTTL time.Duration) *Service {
	return &Service{Repo: r, Hub: hub, Redis: rdb, Logger: logger, CacheTTL: cacheTTL}
}

// CreateUser inserts the user and notifies all connected sockets. The
// broadcast may reach the originating client before or after its HTTP
// response resolves; no ordering is guaranteed.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*entity.User, error) {
	u := &entity.User{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Address:     in.Address,
		PhoneNumber: in.PhoneNumber,
	}
	if err := s.Repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)
	s.Hub.Broadcast(ws.NewUserEvent(*u))
	return u, nil
}

// AddHobby inserts the association row and notifies all connected sockets.
// The user id is not checked against existing users beyond the schema's
// foreign key.
func (s *Service) AddHobby(ctx context.Context, userID int64, hobby string) error {
	if err := s.Repo.AddHobby(ctx, userID, hobby); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	s.Hub.Broadcast(ws.NewHobbyEvent(userID, hobby))
	return nil
}

// DeleteUser removes the user row. Deletion is intentionally not broadcast:
// other clients learn of it on their next full reload, matching the
// observed surface.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	if err := s.Repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

// ListUsers serves the aggregate, preferring the cache when Redis is
// reachable. Cache failures fall through to the repository.
func (s *Service) ListUsers(ctx context.Context) ([]entity.UserAggregate, error) {
	if s.Redis != nil {
		var cached []entity.UserAggregate
		hit, err := helpers.RedisGetJSON(ctx, s.Redis, usersCacheKey, &cached)
		if err != nil {
			s.Logger.WithError(err).Debug("users cache read failed")
		} else if hit {
			return cached, nil
		}
	}

	users, err := s.Repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	if s.Redis != nil {
		if err := helpers.RedisSetJSON(ctx, s.Redis, usersCacheKey, users, s.CacheTTL); err != nil {
			s.Logger.WithError(err).Debug("users cache write failed")
		}
	}
	return users, nil
}

func (s *Service) invalidateCache(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, usersCacheKey); err != nil {
		s.Logger.WithError(err).Debug("users cache invalidation failed")
	}
}

var _ ws.UserLister = (*Service)(nil)
