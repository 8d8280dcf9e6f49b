//go:build integration

package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"univote/internal/storage"
	"univote/pkg/platform/sentinel"
	"univote/pkg/testutil/containers"
)

type PostgresCollectionSuite struct {
	suite.Suite
	pg  *containers.PostgresContainer
	col *storage.Postgres
}

func TestPostgresCollectionSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresCollectionSuite))
}

func (s *PostgresCollectionSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.col = storage.NewPostgres(s.pg.DB, storage.VotersCollection)
	s.Require().NoError(s.col.EnsureSchema(context.Background()))
}

func (s *PostgresCollectionSuite) SetupTest() {
	s.Require().NoError(s.pg.TruncateAll(context.Background(), storage.VotersCollection))
}

func (s *PostgresCollectionSuite) TestGetAndPut() {
	ctx := context.Background()

	_, err := s.col.Get(ctx, "missing")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)

	s.Require().NoError(s.col.Put(ctx, "a", []byte(`{"v":1}`)))
	doc, err := s.col.Get(ctx, "a")
	s.Require().NoError(err)
	s.JSONEq(`{"v":1}`, string(doc))

	s.Require().NoError(s.col.Put(ctx, "a", []byte(`{"v":2}`)))
	doc, err = s.col.Get(ctx, "a")
	s.Require().NoError(err)
	s.JSONEq(`{"v":2}`, string(doc))
}

func (s *PostgresCollectionSuite) TestListPreservesInsertionOrder() {
	ctx := context.Background()

	s.Require().NoError(s.col.Put(ctx, "b", []byte(`{"v":2}`)))
	s.Require().NoError(s.col.Put(ctx, "a", []byte(`{"v":1}`)))
	s.Require().NoError(s.col.Put(ctx, "c", []byte(`{"v":3}`)))
	// Replacing a document must not move it.
	s.Require().NoError(s.col.Put(ctx, "b", []byte(`{"v":22}`)))

	docs, err := s.col.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(docs, 3)
	s.JSONEq(`{"v":22}`, string(docs[0]))
	s.JSONEq(`{"v":1}`, string(docs[1]))
	s.JSONEq(`{"v":3}`, string(docs[2]))
}

func (s *PostgresCollectionSuite) TestDelete() {
	ctx := context.Background()

	s.Require().ErrorIs(s.col.Delete(ctx, "missing"), sentinel.ErrNotFound)

	s.Require().NoError(s.col.Put(ctx, "a", []byte(`{"v":1}`)))
	s.Require().NoError(s.col.Delete(ctx, "a"))
	_, err := s.col.Get(ctx, "a")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
