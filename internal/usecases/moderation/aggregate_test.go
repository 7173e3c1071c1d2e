package moderation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/ad-review-dashboard/internal/domain"
)

func TestCount_TwoRowScenario(t *testing.T) {
	ds := timestampDataset(
		row("a1", "act_1", domain.AdStatusApproved, withCreated(domain.NewDate(2025, 6, 1))),
		row("a2", "act_1", domain.AdStatusDisapproved, withChanged(domain.NewDate(2025, 6, 2))),
	)

	assert.Equal(t, 2, Count(ds))
	assert.Equal(t, 1, Count(ds, domain.AdStatusDisapproved))
}

func TestCount_StatusPartitionsDataset(t *testing.T) {
	datasets := map[string]*Dataset{
		"vazio":     timestampDataset(),
		"variado":   timestampDataset(moderationRows()...),
		"filtrado":  ApplyFilters(timestampDataset(moderationRows()...), domain.AdEventFilters{AdAccountID: "act_2"}).Dataset,
		"por data":  timestampDataset(moderationRows()...).DateView(),
		"aprovados": timestampDataset(row("ad-1", "act_1", domain.AdStatusApproved)),
	}

	for name, ds := range datasets {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, Count(ds), Count(ds, domain.AdStatusApproved)+Count(ds, domain.AdStatusDisapproved))
		})
	}
}

func TestSumSpend(t *testing.T) {
	rows := []domain.RawRow{
		row("ad-1", "act_1", domain.AdStatusDisapproved, withSpend("10.10")),
		row("ad-2", "act_1", domain.AdStatusApproved, withSpend("5.25")),
		row("ad-3", "act_1", domain.AdStatusDisapproved),
	}

	t.Run("soma e trata nulo como zero", func(t *testing.T) {
		ds := BuildDataset(rows, DatasetOptions{Precision: PrecisionTimestamp, HasSpend: true})

		assert.Equal(t, "15.35", SumSpend(ds).StringFixed(2))
		assert.Equal(t, "10.10", SumSpend(ds, domain.AdStatusDisapproved).StringFixed(2))
	})

	t.Run("todos nulos somam zero", func(t *testing.T) {
		ds := BuildDataset([]domain.RawRow{rows[2]}, DatasetOptions{Precision: PrecisionTimestamp, HasSpend: true})

		assert.True(t, SumSpend(ds).IsZero())
	})

	t.Run("coluna ausente soma zero", func(t *testing.T) {
		ds := BuildDataset(rows, DatasetOptions{Precision: PrecisionTimestamp})

		assert.True(t, SumSpend(ds).IsZero())
	})
}

func TestWindowedCount(t *testing.T) {
	ds := timestampDataset(moderationRows()...)

	tests := []struct {
		window    domain.Window
		published int
		rejected  int
	}{
		{domain.WindowToday, 1, 1},
		{domain.WindowYesterday, 2, 2},
		{domain.WindowLast30Days, 5, 4},
		{domain.WindowCurrentMonthToDate, 4, 3},
		{domain.WindowLifetime, 6, 4},
	}

	for _, tt := range tests {
		t.Run(string(tt.window), func(t *testing.T) {
			assert.Equal(t, tt.published, WindowedCount(ds, domain.DateFieldCreatedAt, tt.window, referenceNow))
			assert.Equal(t, tt.rejected, WindowedCount(ds, domain.DateFieldStatusChangeAt, tt.window, referenceNow, domain.AdStatusDisapproved))
		})
	}
}

func TestWindowedCount_DateAndTimestampAgree(t *testing.T) {
	ds := timestampDataset(moderationRows()...)
	daily := ds.DateView()

	for _, window := range []domain.Window{domain.WindowToday, domain.WindowYesterday, domain.WindowCurrentMonthToDate} {
		assert.Equal(t,
			WindowedCount(ds, domain.DateFieldStatusChangeAt, window, referenceNow, domain.AdStatusDisapproved),
			WindowedCount(daily, domain.DateFieldStatusChangeAt, window, referenceNow, domain.AdStatusDisapproved),
			string(window),
		)
	}
}

func TestWithinWindowAndBetween(t *testing.T) {
	ds := timestampDataset(moderationRows()...)

	assert.Same(t, ds, WithinWindow(ds, domain.DateFieldCreatedAt, domain.WindowLifetime, referenceNow))
	assert.Equal(t, []string{"ad-1", "ad-6"}, adIDs(WithinWindow(ds, domain.DateFieldStatusChangeAt, domain.WindowYesterday, referenceNow)))

	from := time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 15, 7, 30, 0, 0, time.UTC)
	assert.Equal(t, []string{"ad-1", "ad-2", "ad-6"}, adIDs(Between(ds, from, to)), "limites inclusivos")
}

func TestGroupCount(t *testing.T) {
	ds := timestampDataset(moderationRows()...)

	t.Run("por conta na ordem de aparição", func(t *testing.T) {
		rows, err := GroupCount(ds, domain.GroupByAccount, domain.AdStatusDisapproved)

		require.NoError(t, err)
		assert.Equal(t, []domain.GroupRow{
			{AdAccountID: "act_1", Count: 2},
			{AdAccountID: "act_2", Count: 2},
		}, rows)
	})

	t.Run("tipo de erro nulo fica de fora", func(t *testing.T) {
		rows, err := GroupCount(ds, domain.GroupByError, domain.AdStatusDisapproved)

		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "POLICY", rows[0].ErrorType)
		assert.Equal(t, 2, rows[0].Count)
		assert.Equal(t, "CIRCUMVENTING", rows[1].ErrorType)
		assert.Equal(t, 1, rows[1].Count)
	})

	t.Run("por data em ordem decrescente", func(t *testing.T) {
		rows, err := GroupCount(ds.DateView(), domain.GroupByDate, domain.AdStatusDisapproved)

		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC), *rows[0].StatusChangeAt)
		assert.Equal(t, 1, rows[0].Count)
		assert.Equal(t, time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC), *rows[1].StatusChangeAt)
		assert.Equal(t, 2, rows[1].Count)
		assert.Equal(t, time.Date(2025, 5, 25, 0, 0, 0, 0, time.UTC), *rows[2].StatusChangeAt)
	})

	t.Run("contagens somam o subconjunto agrupado", func(t *testing.T) {
		keySets := [][]domain.GroupField{
			domain.GroupByAccount,
			domain.GroupByDate,
			domain.GroupByDateAndError,
			domain.GroupByAccountAndDate,
			domain.GroupByAccountAndError,
			domain.GroupByAccountDateAndError,
		}

		for _, keys := range keySets {
			rows, err := GroupCount(ds, keys, domain.AdStatusDisapproved)
			require.NoError(t, err)

			expected := 0
			for _, r := range ds.Records() {
				if r.Status != domain.AdStatusDisapproved {
					continue
				}
				complete := true
				for _, key := range keys {
					if (key == domain.GroupByStatusChangeAt && r.StatusChangeAt == nil) ||
						(key == domain.GroupByErrorType && r.ErrorType == nil) {
						complete = false
					}
				}
				if complete {
					expected++
				}
			}

			total := 0
			for _, r := range rows {
				total += r.Count
			}
			assert.Equal(t, expected, total, "%v", keys)
		}
	})

	t.Run("chaves inválidas", func(t *testing.T) {
		invalid := [][]domain.GroupField{
			nil,
			{"campaign_id"},
			{domain.GroupByAdAccountID, domain.GroupByAdAccountID},
		}

		for _, keys := range invalid {
			_, err := GroupCount(ds, keys)
			assert.ErrorIs(t, err, ErrInvalidGroupKeys)
		}
	})
}

func TestTopKByRejections(t *testing.T) {
	yesterday := at(2025, 6, 14, 12, 0)

	t.Run("ranking de ontem", func(t *testing.T) {
		ds := timestampDataset(
			row("ad-1", "act_1", domain.AdStatusDisapproved, withChanged(yesterday)),
			row("ad-2", "act_2", domain.AdStatusDisapproved, withBUID("bu-2"), withChanged(yesterday)),
			row("ad-3", "act_1", domain.AdStatusDisapproved, withBUID("bu-1"), withChanged(yesterday)),
			row("ad-4", "act_1", domain.AdStatusDisapproved, withBUID("bu-x"), withChanged(yesterday)),
			row("ad-5", "act_3", domain.AdStatusApproved, withChanged(yesterday)),
		)

		top := TopKByRejections(ds, domain.WindowYesterday, 5, referenceNow)

		require.Len(t, top, 2)
		assert.Equal(t, "act_1", top[0].AdAccountID)
		assert.Equal(t, 3, top[0].RejectedCount)
		assert.Equal(t, "bu-1", *top[0].BusinessUnitID, "primeiro buid não nulo")
		assert.Equal(t, "act_2", top[1].AdAccountID)
		assert.Equal(t, 1, top[1].RejectedCount)
	})

	t.Run("empates mantêm a ordem e k corta", func(t *testing.T) {
		ds := timestampDataset(
			row("ad-1", "act_a", domain.AdStatusDisapproved, withChanged(yesterday)),
			row("ad-2", "act_b", domain.AdStatusDisapproved, withChanged(yesterday)),
			row("ad-3", "act_c", domain.AdStatusDisapproved, withChanged(yesterday)),
			row("ad-4", "act_b", domain.AdStatusDisapproved, withChanged(yesterday)),
			row("ad-5", "act_a", domain.AdStatusDisapproved, withChanged(yesterday)),
		)

		top := TopKByRejections(ds, domain.WindowYesterday, 2, referenceNow)

		require.Len(t, top, 2)
		assert.Equal(t, "act_a", top[0].AdAccountID)
		assert.Equal(t, "act_b", top[1].AdAccountID)
		assert.Nil(t, top[0].BusinessUnitID)
	})

	t.Run("vazio sem reprovados na janela", func(t *testing.T) {
		ds := timestampDataset(row("ad-1", "act_1", domain.AdStatusDisapproved, withChanged(yesterday)))

		top := TopKByRejections(ds, domain.WindowToday, 5, referenceNow)

		assert.NotNil(t, top)
		assert.Empty(t, top)
		assert.Empty(t, TopKByRejections(ds, domain.WindowYesterday, 0, referenceNow))
	})
}

func TestTopKByRejectionsSince(t *testing.T) {
	ds := timestampDataset(
		row("ad-1", "act_1", domain.AdStatusDisapproved, withChanged(ago(30*time.Minute))),
		row("ad-2", "act_2", domain.AdStatusDisapproved, withChanged(ago(2*time.Hour))),
		row("ad-3", "act_2", domain.AdStatusDisapproved, withChanged(ago(5*time.Hour))),
	)

	top := TopKByRejectionsSince(ds, referenceNow.Add(-4*time.Hour), referenceNow, 5)

	require.Len(t, top, 2)
	assert.Equal(t, 1, top[0].RejectedCount)
	assert.Equal(t, 1, top[1].RejectedCount)
}

func TestHourlyBucketCount(t *testing.T) {
	ds := timestampDataset(
		row("ad-1", "act_1", domain.AdStatusDisapproved, withChanged(ago(30*time.Minute))),
		row("ad-2", "act_1", domain.AdStatusDisapproved, withChanged(ago(time.Hour))),
		row("ad-3", "act_1", domain.AdStatusDisapproved, withChanged(ago(90*time.Minute))),
		row("ad-4", "act_2", domain.AdStatusDisapproved, withChanged(ago(3*time.Hour+59*time.Minute))),
		row("ad-5", "act_2", domain.AdStatusDisapproved, withChanged(ago(4*time.Hour))),
		row("ad-6", "act_2", domain.AdStatusDisapproved, withChanged(ago(5*time.Hour))),
		row("ad-7", "act_2", domain.AdStatusApproved, withChanged(ago(10*time.Minute))),
		row("ad-8", "act_2", domain.AdStatusDisapproved, withChanged(ago(0))),
		row("ad-9", "act_2", domain.AdStatusDisapproved),
	)

	buckets, err := HourlyBucketCount(ds, 4, referenceNow)

	require.NoError(t, err)
	require.Len(t, buckets, 4)
	assert.Equal(t, referenceNow, buckets[0].End)
	for i, bucket := range buckets {
		assert.Equal(t, time.Hour, bucket.End.Sub(bucket.Start))
		if i > 0 {
			assert.Equal(t, buckets[i-1].Start, bucket.End, "faixas contíguas, mais recente primeiro")
		}
	}

	counts := []int{buckets[0].Count, buckets[1].Count, buckets[2].Count, buckets[3].Count}
	assert.Equal(t, []int{2, 1, 0, 2}, counts)
	assert.Equal(t, 2, PeakBucket(buckets))

	approved, err := HourlyBucketCount(ds, 1, referenceNow, domain.AdStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, 1, approved[0].Count)
}

func TestHourlyBucketCount_RequiresTimestamps(t *testing.T) {
	ds := dateDataset(row("ad-1", "act_1", domain.AdStatusDisapproved, withChanged(domain.NewDate(2025, 6, 15))))

	_, err := HourlyBucketCount(ds, 4, referenceNow)
	assert.ErrorIs(t, err, ErrHourlyPrecision)

	_, err = HourlyTrend(ds, 4, referenceNow)
	assert.ErrorIs(t, err, ErrHourlyPrecision)

	_, err = CountByHourOfDay(ds, domain.WindowToday, referenceNow)
	assert.ErrorIs(t, err, ErrHourlyPrecision)
}

func TestHourlyTrend(t *testing.T) {
	ds := timestampDataset(
		row("ad-1", "act_1", domain.AdStatusDisapproved, withChanged(at(2025, 6, 15, 10, 15))),
		row("ad-2", "act_1", domain.AdStatusDisapproved, withChanged(at(2025, 6, 15, 9, 59))),
		row("ad-3", "act_1", domain.AdStatusDisapproved, withChanged(at(2025, 6, 15, 8, 0))),
		row("ad-4", "act_1", domain.AdStatusDisapproved, withChanged(at(2025, 6, 15, 7, 59))),
	)

	trend, err := HourlyTrend(ds, 3, referenceNow)

	require.NoError(t, err)
	require.Len(t, trend, 3)
	assert.Equal(t, time.Date(2025, 6, 15, 8, 0, 0, 0, time.UTC), trend[0].Start)
	assert.Equal(t, time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC), trend[2].Start)
	assert.Equal(t, 1, trend[0].Count)
	assert.Equal(t, 1, trend[1].Count)
	assert.Equal(t, 1, trend[2].Count)
}

func TestCountByHourOfDay(t *testing.T) {
	ds := timestampDataset(
		row("ad-1", "act_1", domain.AdStatusDisapproved, withChanged(at(2025, 6, 15, 9, 45))),
		row("ad-2", "act_1", domain.AdStatusDisapproved, withChanged(at(2025, 6, 15, 9, 10))),
		row("ad-3", "act_1", domain.AdStatusDisapproved, withChanged(at(2025, 6, 15, 3, 0))),
		row("ad-4", "act_1", domain.AdStatusApproved, withChanged(at(2025, 6, 15, 4, 0))),
		row("ad-5", "act_1", domain.AdStatusDisapproved, withChanged(at(2025, 6, 14, 9, 0))),
	)

	counts, err := CountByHourOfDay(ds, domain.WindowToday, referenceNow, domain.AdStatusDisapproved)

	require.NoError(t, err)
	assert.Equal(t, []domain.HourOfDayCount{{Hour: 3, Count: 1}, {Hour: 9, Count: 2}}, counts)
}

func TestCountByErrorType(t *testing.T) {
	ds := timestampDataset(moderationRows()...)

	counts := CountByErrorType(ds, domain.AdStatusDisapproved)

	assert.Equal(t, []domain.ErrorTypeCount{
		{ErrorType: "POLICY", Count: 2},
		{ErrorType: "CIRCUMVENTING", Count: 1},
	}, counts)
}

func TestRejectionRate(t *testing.T) {
	assert.Equal(t, 33.3, RejectionRate(3, 1))
	assert.Equal(t, 25.0, RejectionRate(8, 2))
	assert.Equal(t, 0.0, RejectionRate(0, 5))
}
