package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-features/internal/entities/features"
	"github.com/KirkDiggler/rpg-features/internal/errors"
	"github.com/KirkDiggler/rpg-features/internal/repositories/catalog"
)

type YAMLRepositoryTestSuite struct {
	suite.Suite
	dir  string
	repo catalog.Repository
	ctx  context.Context
}

func TestYAMLRepositorySuite(t *testing.T) {
	suite.Run(t, new(YAMLRepositoryTestSuite))
}

func (s *YAMLRepositoryTestSuite) SetupTest() {
	s.dir = s.T().TempDir()
	s.ctx = context.Background()

	s.writeFile("classes/bard.yaml", bardYAML)
	s.writeFile("classes/fighter.yml", "name: Fighter\nfeatures:\n  - name: Second Wind\n    description: Regain hit points.\n")
	s.writeFile("classes/README.md", "not a catalog")
	s.writeFile("species/dwarf.yaml", "name: Dwarf\nfeatures:\n  - name: Darkvision\n    description: See in the dark.\n")

	repo, err := catalog.NewYAML(&catalog.YAMLConfig{Dir: s.dir})
	s.Require().NoError(err)
	s.repo = repo
}

func (s *YAMLRepositoryTestSuite) writeFile(rel, content string) {
	path := filepath.Join(s.dir, rel)
	s.Require().NoError(os.MkdirAll(filepath.Dir(path), 0o755))
	s.Require().NoError(os.WriteFile(path, []byte(content), 0o600))
}

func (s *YAMLRepositoryTestSuite) TestNewYAMLValidation() {
	_, err := catalog.NewYAML(nil)
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = catalog.NewYAML(&catalog.YAMLConfig{})
	s.Assert().True(errors.IsInvalidArgument(err))

	_, err = catalog.NewYAML(&catalog.YAMLConfig{Dir: filepath.Join(s.dir, "missing")})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *YAMLRepositoryTestSuite) TestListInFileOrder() {
	output, err := s.repo.List(s.ctx, catalog.ListInput{Kind: features.CatalogKindClass})
	s.Require().NoError(err)
	s.Require().Len(output.Catalogs, 2)
	s.Assert().Equal("Bard", output.Catalogs[0].Name)
	s.Assert().Equal("Fighter", output.Catalogs[1].Name)
	s.Assert().Equal(features.CatalogKindClass, output.Catalogs[1].Kind)
}

func (s *YAMLRepositoryTestSuite) TestListMissingKindDirectory() {
	output, err := s.repo.List(s.ctx, catalog.ListInput{Kind: features.CatalogKindBackground})
	s.Require().NoError(err)
	s.Assert().Empty(output.Catalogs)
}

func (s *YAMLRepositoryTestSuite) TestListUnknownKind() {
	_, err := s.repo.List(s.ctx, catalog.ListInput{Kind: "feats"})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *YAMLRepositoryTestSuite) TestListInvalidFile() {
	s.writeFile("species/broken.yaml", "name: Broken\nfeatures:\n  - name: Thing\n    colour: blue\n")

	_, err := s.repo.List(s.ctx, catalog.ListInput{Kind: features.CatalogKindSpecies})
	s.Require().Error(err)
	s.Assert().True(errors.IsInvalidArgument(err))
	s.Assert().Equal(filepath.Join(s.dir, "species", "broken.yaml"), errors.MetaString(err, errors.MetaFile))
	s.Assert().Equal("species", errors.MetaString(err, errors.MetaCatalogKind))
}

func (s *YAMLRepositoryTestSuite) TestListDuplicateCatalogNames() {
	s.writeFile("species/dwarf-copy.yaml", "name: dwarf\nfeatures: []\n")

	_, err := s.repo.List(s.ctx, catalog.ListInput{Kind: features.CatalogKindSpecies})
	s.Require().Error(err)
	s.Assert().True(errors.IsInvalidArgument(err))
	s.Assert().Equal([]string{
		filepath.Join(s.dir, "species", "dwarf-copy.yaml"),
		filepath.Join(s.dir, "species", "dwarf.yaml"),
	}, errors.GetMeta(err)[errors.MetaFiles])
}

func (s *YAMLRepositoryTestSuite) TestGet() {
	output, err := s.repo.Get(s.ctx, catalog.GetInput{Kind: features.CatalogKindSpecies, Name: "DWARF"})
	s.Require().NoError(err)
	s.Assert().Equal("Dwarf", output.Catalog.Name)
	s.Assert().Equal("Darkvision", output.Catalog.Features[0].Name)
	s.Assert().NotEmpty(output.Catalog.Features[0].ID)

	_, err = s.repo.Get(s.ctx, catalog.GetInput{Kind: features.CatalogKindSpecies, Name: "Elf"})
	s.Assert().True(errors.IsNotFound(err))
	s.Assert().Equal("Elf", errors.MetaString(err, errors.MetaCatalog))

	_, err = s.repo.Get(s.ctx, catalog.GetInput{Kind: features.CatalogKindSpecies})
	s.Assert().True(errors.IsInvalidArgument(err))
}

func (s *YAMLRepositoryTestSuite) TestPutIsUnimplemented() {
	_, err := s.repo.Put(s.ctx, catalog.PutInput{Catalog: &features.Catalog{Name: "Elf"}})
	s.Assert().True(errors.IsUnimplemented(err))
}

func (s *YAMLRepositoryTestSuite) TestListCanceledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()

	_, err := s.repo.List(ctx, catalog.ListInput{Kind: features.CatalogKindClass})
	s.Assert().Error(err)
}
