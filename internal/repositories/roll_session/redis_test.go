package rollsession_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-features/internal/entities/features"
	"github.com/KirkDiggler/rpg-features/internal/errors"
	"github.com/KirkDiggler/rpg-features/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-features/internal/pkg/idgen"
	rollsession "github.com/KirkDiggler/rpg-features/internal/repositories/roll_session"
	"github.com/KirkDiggler/rpg-features/internal/testutils"
)

type RedisRepositoryTestSuite struct {
	suite.Suite
	mr    *miniredis.Miniredis
	clock *clock.Manual
	repo  rollsession.Repository
	ctx   context.Context
}

func TestRedisRepositorySuite(t *testing.T) {
	suite.Run(t, new(RedisRepositoryTestSuite))
}

func (s *RedisRepositoryTestSuite) SetupTest() {
	client, mr := testutils.CreateTestRedisClient(s.T())
	s.mr = mr
	s.clock = clock.NewManual(time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC))
	s.ctx = context.Background()

	repo, err := rollsession.NewRedisRepository(&rollsession.Config{
		Client:      client,
		Clock:       s.clock,
		IDGenerator: idgen.NewSequential("roll"),
	})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *RedisRepositoryTestSuite) scores() features.AbilityScores {
	return features.AbilityScores{
		features.AbilityStrength: 15,
		features.AbilityCharisma: 12,
	}
}

func (s *RedisRepositoryTestSuite) TestCreateAndGet() {
	created, err := s.repo.Create(s.ctx, rollsession.CreateInput{
		Method: "4d6_drop_lowest",
		Scores: s.scores(),
		Rolls: []rollsession.Roll{
			{Ability: features.AbilityStrength, Dice: []int{6, 5, 4}, Dropped: []int{1}, Total: 15},
		},
	})
	s.Require().NoError(err)
	s.Assert().Equal("roll_1", created.Session.ID)
	s.Assert().Equal(s.clock.Now().Add(rollsession.DefaultTTL), created.Session.ExpiresAt)
	s.Assert().Equal(rollsession.DefaultTTL, s.mr.TTL("roll_session:roll_1"))

	got, err := s.repo.Get(s.ctx, rollsession.GetInput{ID: "roll_1"})
	s.Require().NoError(err)
	s.Assert().Equal(s.scores(), got.Session.Scores)
	s.Assert().Equal("4d6_drop_lowest", got.Session.Method)
	s.Require().Len(got.Session.Rolls, 1)
	s.Assert().Equal([]int{1}, got.Session.Rolls[0].Dropped)
}

func (s *RedisRepositoryTestSuite) TestCustomTTL() {
	created, err := s.repo.Create(s.ctx, rollsession.CreateInput{Scores: s.scores(), TTL: time.Minute})
	s.Require().NoError(err)
	s.Assert().Equal(time.Minute, s.mr.TTL("roll_session:"+created.Session.ID))
}

func (s *RedisRepositoryTestSuite) TestGetExpiredByRedis() {
	created, err := s.repo.Create(s.ctx, rollsession.CreateInput{Scores: s.scores(), TTL: time.Minute})
	s.Require().NoError(err)

	s.mr.FastForward(2 * time.Minute)

	_, err = s.repo.Get(s.ctx, rollsession.GetInput{ID: created.Session.ID})
	s.Assert().True(errors.IsNotFound(err))
}

func (s *RedisRepositoryTestSuite) TestGetExpiredByClock() {
	created, err := s.repo.Create(s.ctx, rollsession.CreateInput{Scores: s.scores(), TTL: time.Minute})
	s.Require().NoError(err)

	s.clock.Advance(2 * time.Minute)

	_, err = s.repo.Get(s.ctx, rollsession.GetInput{ID: created.Session.ID})
	s.Assert().True(errors.IsNotFound(err))
	s.Assert().False(s.mr.Exists("roll_session:" + created.Session.ID))
}

func (s *RedisRepositoryTestSuite) TestGetMissing() {
	_, err := s.repo.Get(s.ctx, rollsession.GetInput{ID: "roll_404"})
	s.Require().Error(err)
	s.Assert().True(errors.IsNotFound(err))
	s.Assert().Equal("roll_404", errors.MetaString(err, errors.MetaRollID))
}

func (s *RedisRepositoryTestSuite) TestDelete() {
	created, err := s.repo.Create(s.ctx, rollsession.CreateInput{Scores: s.scores()})
	s.Require().NoError(err)

	out, err := s.repo.Delete(s.ctx, rollsession.DeleteInput{ID: created.Session.ID})
	s.Require().NoError(err)
	s.Assert().True(out.Deleted)

	out, err = s.repo.Delete(s.ctx, rollsession.DeleteInput{ID: created.Session.ID})
	s.Require().NoError(err)
	s.Assert().False(out.Deleted)
}

func (s *RedisRepositoryTestSuite) TestCreateCollision() {
	s.Require().NoError(s.mr.Set("roll_session:roll_1", "{}"))

	_, err := s.repo.Create(s.ctx, rollsession.CreateInput{Scores: s.scores()})
	s.Require().Error(err)
	s.Assert().Equal(errors.CodeAlreadyExists, errors.GetCode(err))
}

func (s *RedisRepositoryTestSuite) TestValidation() {
	testCases := []struct {
		name string
		run  func() error
	}{
		{
			name: "create without scores",
			run: func() error {
				_, err := s.repo.Create(s.ctx, rollsession.CreateInput{})
				return err
			},
		},
		{
			name: "create with negative ttl",
			run: func() error {
				_, err := s.repo.Create(s.ctx, rollsession.CreateInput{Scores: s.scores(), TTL: -time.Second})
				return err
			},
		},
		{
			name: "get without id",
			run: func() error {
				_, err := s.repo.Get(s.ctx, rollsession.GetInput{})
				return err
			},
		},
		{
			name: "delete without id",
			run: func() error {
				_, err := s.repo.Delete(s.ctx, rollsession.DeleteInput{})
				return err
			},
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.Assert().True(errors.IsInvalidArgument(tc.run()))
		})
	}
}

func (s *RedisRepositoryTestSuite) TestNewRequiresClient() {
	_, err := rollsession.NewRedisRepository(&rollsession.Config{})
	s.Assert().True(errors.IsInvalidArgument(err))
}
