package features_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/rpg-features/internal/entities/features"
	"github.com/KirkDiggler/rpg-features/internal/errors"
	orchestrator "github.com/KirkDiggler/rpg-features/internal/orchestrators/features"
	"github.com/KirkDiggler/rpg-features/internal/repositories/catalog"
	catalogmock "github.com/KirkDiggler/rpg-features/internal/repositories/catalog/mock"
	"github.com/KirkDiggler/rpg-features/internal/testutils"
)

type LoaderTestSuite struct {
	suite.Suite
	ctrl     *gomock.Controller
	mockRepo *catalogmock.MockRepository
	ctx      context.Context
}

func TestLoaderSuite(t *testing.T) {
	suite.Run(t, new(LoaderTestSuite))
}

func (s *LoaderTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockRepo = catalogmock.NewMockRepository(s.ctrl)
	s.ctx = context.Background()
}

func (s *LoaderTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *LoaderTestSuite) byKind() map[features.CatalogKind][]*features.Catalog {
	out := make(map[features.CatalogKind][]*features.Catalog)
	for _, c := range testutils.CreateTestCatalogs() {
		out[c.Kind] = append(out[c.Kind], c)
	}
	return out
}

func (s *LoaderTestSuite) TestLoadRegistry() {
	catalogs := s.byKind()
	for _, kind := range features.CatalogKinds {
		s.mockRepo.EXPECT().
			List(gomock.Any(), catalog.ListInput{Kind: kind}).
			Return(&catalog.ListOutput{Catalogs: catalogs[kind]}, nil)
	}

	registry, err := orchestrator.LoadRegistry(s.ctx, s.mockRepo)
	s.Require().NoError(err)

	s.Assert().Equal([]string{testutils.ClassBard, testutils.ClassFighter}, registry.Names(features.CatalogKindClass))
	s.Assert().Equal([]string{testutils.SpeciesDwarf, testutils.SpeciesElf}, registry.Names(features.CatalogKindSpecies))
	s.Assert().Equal([]string{testutils.BackgroundAcolyte}, registry.Names(features.CatalogKindBackground))
}

func (s *LoaderTestSuite) TestLoadRegistryEmpty() {
	s.mockRepo.EXPECT().
		List(gomock.Any(), gomock.Any()).
		Return(&catalog.ListOutput{}, nil).
		Times(len(features.CatalogKinds))

	registry, err := orchestrator.LoadRegistry(s.ctx, s.mockRepo)
	s.Require().NoError(err)
	s.Assert().Empty(registry.Names(features.CatalogKindClass))
}

func (s *LoaderTestSuite) TestLoadRegistryRepositoryError() {
	s.mockRepo.EXPECT().
		List(gomock.Any(), catalog.ListInput{Kind: features.CatalogKindSpecies}).
		Return(nil, errors.Wrap(fmt.Errorf("connection refused"), "failed to read species catalog order"))
	s.mockRepo.EXPECT().
		List(gomock.Any(), gomock.Not(catalog.ListInput{Kind: features.CatalogKindSpecies})).
		Return(&catalog.ListOutput{}, nil).
		AnyTimes()

	_, err := orchestrator.LoadRegistry(s.ctx, s.mockRepo)
	s.Require().Error(err)
	s.Assert().Equal(errors.CodeInternal, errors.GetCode(err))
}

func (s *LoaderTestSuite) TestLoadRegistryNilRepository() {
	_, err := orchestrator.LoadRegistry(s.ctx, nil)
	s.Assert().True(errors.IsInvalidArgument(err))
}
