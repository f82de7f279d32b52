package mimetypes

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/ark/internal/common"
)

func TestLookup(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	defer db.Close()
	repo := NewPostgresRepository(db)

	q := `SELECT name FROM ext_mimetype WHERE ext = \$1`
	mock.ExpectQuery(q).WithArgs("pdf").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("application/pdf"))
	mock.ExpectQuery(q).WithArgs("zzz").
		WillReturnRows(sqlmock.NewRows([]string{"name"}))
	mock.ExpectQuery(q).WithArgs("txt").
		WillReturnError(errors.New("conn reset"))

	got, err := repo.Lookup(context.Background(), "pdf")
	if err != nil || got != "application/pdf" {
		t.Fatalf("Lookup(pdf) = %q, %v", got, err)
	}

	if _, err := repo.Lookup(context.Background(), "zzz"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}

	_, err = repo.Lookup(context.Background(), "txt")
	if err == nil || errors.Is(err, common.ErrorNotFound) || common.KindOf(err) != common.KindSystem {
		t.Fatalf("want system error, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
