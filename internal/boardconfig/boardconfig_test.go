// internal/boardconfig/boardconfig_test.go
//
// Unit-tests for the cached board-config reader, using sqlmock so no real
// database is required.

package boardconfig

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMockReader(t *testing.T, ttl time.Duration, fallback Values) (*Reader, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = raw.Close() })

	db := sqlx.NewDb(raw, "sqlmock")
	return New(db, "phpbb_", ttl, fallback), mock
}

func configRows(maxLen, unicodify string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"config_name", "config_value"}).
		AddRow("luoning_humanfriendlyurls_max_slug_length", maxLen).
		AddRow("luoning_humanfriendlyurls_unicodify_links", unicodify)
}

func TestCurrent_ReadsBothKeys(t *testing.T) {
	r, mock := newMockReader(t, time.Minute, Values{MaxSlugLength: 100})
	mock.ExpectQuery("SELECT config_name, config_value FROM phpbb_config").
		WillReturnRows(configRows("60", "1"))

	got := r.Current(context.Background())
	if got.MaxSlugLength != 60 || !got.UnicodifyLinks {
		t.Fatalf("got %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCurrent_CachesWithinTTL(t *testing.T) {
	r, mock := newMockReader(t, time.Minute, Values{})
	mock.ExpectQuery("SELECT config_name").WillReturnRows(configRows("-1", "0"))

	ctx := context.Background()
	first := r.Current(ctx)
	second := r.Current(ctx) // must not hit the database again

	if first != second {
		t.Fatalf("snapshots differ: %+v vs %+v", first, second)
	}
	if first.MaxSlugLength != -1 || first.UnicodifyLinks {
		t.Fatalf("got %+v", first)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCurrent_FallsBackOnQueryError(t *testing.T) {
	fallback := Values{MaxSlugLength: 100, UnicodifyLinks: true}
	r, mock := newMockReader(t, time.Minute, fallback)
	mock.ExpectQuery("SELECT config_name").
		WillReturnError(errors.New("connection refused"))

	if got := r.Current(context.Background()); got != fallback {
		t.Fatalf("got %+v, want static fallback", got)
	}
}

func TestCurrent_ServesStaleSnapshotAfterError(t *testing.T) {
	r, mock := newMockReader(t, time.Nanosecond, Values{})
	mock.ExpectQuery("SELECT config_name").WillReturnRows(configRows("45", "1"))
	mock.ExpectQuery("SELECT config_name").
		WillReturnError(errors.New("server has gone away"))

	ctx := context.Background()
	good := r.Current(ctx)
	time.Sleep(time.Millisecond) // expire the snapshot

	if got := r.Current(ctx); got != good {
		t.Fatalf("got %+v, want stale snapshot %+v", got, good)
	}
}

func TestStatic_NeverTouchesDatabase(t *testing.T) {
	want := Values{MaxSlugLength: 80}
	r := Static(want)
	if got := r.Current(context.Background()); got != want {
		t.Fatalf("got %+v", got)
	}
}

func TestRefresh_MissingRowsKeepFallback(t *testing.T) {
	fallback := Values{MaxSlugLength: 100}
	r, mock := newMockReader(t, time.Minute, fallback)
	mock.ExpectQuery("SELECT config_name").
		WillReturnRows(sqlmock.NewRows([]string{"config_name", "config_value"}).
			AddRow("luoning_humanfriendlyurls_unicodify_links", "1"))

	got := r.Current(context.Background())
	if got.MaxSlugLength != 100 || !got.UnicodifyLinks {
		t.Fatalf("got %+v", got)
	}
}
