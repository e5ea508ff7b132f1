package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/guregu/dynamo/v2"

	"github.com/sopatech/wavedesk/internal/infra"
)

// Monthly-active partition: PK = ACTIVEARTISTS#YYYY-MM, SK = artist_id. One item per artist per month (idempotent put).
const activeArtistPKPrefix = "ACTIVEARTISTS#"

type activeArtistRow struct {
	PK string `dynamo:"pk"`
	SK string `dynamo:"sk"`
}

// ActiveArtistStore records artist activity by month and provides the monthly count.
type ActiveArtistStore struct {
	db        *infra.Dynamo
	tableName string
}

func NewActiveArtistStore(db *infra.Dynamo, tableName string) *ActiveArtistStore {
	return &ActiveArtistStore{db: db, tableName: tableName}
}

func (s *ActiveArtistStore) tbl() dynamo.Table {
	return s.db.Table(s.tableName)
}

func activeArtistPK(yearMonth string) string {
	return activeArtistPKPrefix + yearMonth
}

// YearMonth returns the year-month of t in YYYY-MM format (UTC).
func YearMonth(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// RecordActiveMonthIfNew puts the monthly-active row only if it does not exist (conditional put).
// Returns inserted=true if the row was new, false if it already existed (or artistID empty). Caller can use this to increment a counter once per artist per month.
func (s *ActiveArtistStore) RecordActiveMonthIfNew(ctx context.Context, artistID string) (inserted bool, err error) {
	if artistID == "" {
		return false, nil
	}
	ym := YearMonth(time.Now())
	row := activeArtistRow{PK: activeArtistPK(ym), SK: artistID}
	err = s.tbl().Put(row).If("attribute_not_exists(sk)").Run(ctx)
	if err != nil {
		if dynamo.IsCondCheckFailed(err) {
			return false, nil // already recorded this month
		}
		return false, err
	}
	return true, nil
}

// CountActiveArtists returns the number of distinct artists active in the given year-month (e.g. "2026-08").
func (s *ActiveArtistStore) CountActiveArtists(ctx context.Context, yearMonth string) (int, error) {
	if yearMonth == "" {
		return 0, fmt.Errorf("year_month required")
	}
	pk := activeArtistPK(yearMonth)
	var count int
	var row activeArtistRow
	iter := s.tbl().Get("pk", pk).Iter()
	for iter.Next(ctx, &row) {
		count++
	}
	return count, iter.Err()
}
