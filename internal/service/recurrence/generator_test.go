package recurrence

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultorioService/internal/domain"
)

func tuesdayBase() SeriesBase {
	start := time.Date(2025, 1, 7, 10, 0, 0, 0, time.UTC)
	return SeriesBase{
		ResourceID: 3,
		OwnerID:    10,
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
	}
}

func TestGenerateSeriesFourMonthsFromJanuary(t *testing.T) {
	series, err := NewGenerator(time.UTC).GenerateSeries(tuesdayBase(), 4)
	require.NoError(t, err)

	wantEnd := time.Date(2025, 5, 7, 10, 0, 0, 0, time.UTC)

	// 2025-01-07 + 17 недель = 2025-05-06, ещё раньше границы 2025-05-07 10:00
	require.Len(t, series, 18)
	assert.Equal(t, time.Date(2025, 5, 6, 10, 0, 0, 0, time.UTC), series[len(series)-1].StartTime)

	recurrenceID := *series[0].RecurrenceID
	for i, r := range series {
		assert.Equal(t, recurrenceID, *r.RecurrenceID, "instance %d", i)
		assert.Equal(t, wantEnd, *r.RecurrenceEndDate, "instance %d", i)
		assert.Equal(t, domain.KindRecurring, r.Kind)
		assert.Equal(t, domain.StatusActive, r.Status)
		assert.Equal(t, time.Tuesday, r.StartTime.Weekday())
		assert.Equal(t, time.Hour, r.Duration())
		assert.True(t, r.StartTime.Before(wantEnd))
	}
}

func TestGenerateSeriesOneMonthBoundary(t *testing.T) {
	tests := []struct {
		name      string
		start     time.Time
		wantCount int
		wantLast  time.Time
	}{
		{
			name:      "mid month",
			start:     time.Date(2025, 1, 7, 10, 0, 0, 0, time.UTC),
			wantCount: 5, // 7, 14, 21, 28 января и 4 февраля; 11 февраля >= 7 февраля
			wantLast:  time.Date(2025, 2, 4, 10, 0, 0, 0, time.UTC),
		},
		{
			name:      "end of month clamps to february",
			start:     time.Date(2025, 1, 31, 10, 0, 0, 0, time.UTC),
			wantCount: 4, // 28 февраля 10:00 совпадает с границей и исключается
			wantLast:  time.Date(2025, 2, 21, 10, 0, 0, 0, time.UTC),
		},
		{
			name:      "exactly four weeks fit in february",
			start:     time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC),
			wantCount: 4,
			wantLast:  time.Date(2025, 2, 22, 9, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := SeriesBase{ResourceID: 1, OwnerID: 2, StartTime: tt.start, EndTime: tt.start.Add(time.Hour)}
			series, err := NewGenerator(time.UTC).GenerateSeries(base, 1)
			require.NoError(t, err)

			require.Len(t, series, tt.wantCount)
			last := series[len(series)-1].StartTime
			assert.Equal(t, tt.wantLast, last)

			// следующий шаг уже не раньше границы
			assert.False(t, last.AddDate(0, 0, 7).Before(*series[0].RecurrenceEndDate))
		})
	}
}

func TestGenerateSeriesShapeIsStable(t *testing.T) {
	g := NewGenerator(time.UTC)
	base := tuesdayBase()
	base.UsesSharedAccessory = true

	a, err := g.GenerateSeries(base, 3)
	require.NoError(t, err)
	b, err := g.GenerateSeries(base, 3)
	require.NoError(t, err)

	require.Equal(t, len(a), len(b))
	assert.NotEqual(t, *a[0].RecurrenceID, *b[0].RecurrenceID)
	for i := range a {
		assert.Equal(t, a[i].StartTime.Sub(a[0].StartTime), b[i].StartTime.Sub(b[0].StartTime))
		assert.Equal(t, a[i].Duration(), b[i].Duration())
		assert.True(t, b[i].UsesSharedAccessory)
	}
}

func TestGenerateSeriesUsesInjectedID(t *testing.T) {
	fixed := uuid.MustParse("7d444840-9dc0-11d1-b245-5ffdce74fad2")
	series, err := NewGeneratorWithIDs(time.UTC, func() uuid.UUID { return fixed }).GenerateSeries(tuesdayBase(), 1)
	require.NoError(t, err)
	assert.Equal(t, fixed, *series[0].RecurrenceID)
}

func TestGenerateSeriesRejectsBadInput(t *testing.T) {
	g := NewGenerator(time.UTC)

	_, err := g.GenerateSeries(tuesdayBase(), 0)
	assert.ErrorIs(t, err, ErrInvalidHorizon)
	assert.ErrorIs(t, err, domain.ErrInvalidInterval)

	short := tuesdayBase()
	short.EndTime = short.StartTime.Add(30 * time.Minute)
	_, err = g.GenerateSeries(short, 4)
	assert.ErrorIs(t, err, domain.ErrInvalidInterval)

	_, err = g.GenerateSeries(SeriesBase{ResourceID: 1}, 4)
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestRenewSeriesContinuesCadence(t *testing.T) {
	g := NewGenerator(time.UTC)
	series, err := g.GenerateSeries(tuesdayBase(), 4)
	require.NoError(t, err)

	pattern, err := PatternOf(series[0])
	require.NoError(t, err)
	oldEnd := *series[0].RecurrenceEndDate

	renewal, err := g.RenewSeries(pattern, oldEnd, 4)
	require.NoError(t, err)
	require.NotEmpty(t, renewal.Instances)

	first := renewal.Instances[0]
	assert.Equal(t, time.Date(2025, 5, 13, 10, 0, 0, 0, time.UTC), first.StartTime)
	assert.Equal(t, time.Tuesday, first.StartTime.Weekday())
	assert.True(t, first.StartTime.After(oldEnd))
	assert.False(t, first.StartTime.AddDate(0, 0, -7).After(oldEnd))

	assert.Equal(t, time.Date(2025, 9, 7, 10, 0, 0, 0, time.UTC), renewal.NewRecurrenceEndDate)
	for _, r := range renewal.Instances {
		assert.Equal(t, pattern.RecurrenceID, *r.RecurrenceID)
		assert.Equal(t, renewal.NewRecurrenceEndDate, *r.RecurrenceEndDate)
		assert.True(t, r.StartTime.Before(renewal.NewRecurrenceEndDate))
		assert.Equal(t, 10, r.StartTime.Hour())
	}

	// продление не повторяет уже существующие экземпляры
	assert.Equal(t, series[len(series)-1].StartTime.AddDate(0, 0, 7), first.StartTime)
}

func TestRenewSeriesEndOnOccurrenceIsExclusive(t *testing.T) {
	base := tuesdayBase()
	pattern := SeriesPattern{
		RecurrenceID: uuid.New(),
		ResourceID:   base.ResourceID,
		OwnerID:      base.OwnerID,
		StartTime:    base.StartTime,
		EndTime:      base.EndTime,
	}

	// граница совпадает с экземпляром 14 января; продление начинается строго после неё
	oldEnd := time.Date(2025, 1, 14, 10, 0, 0, 0, time.UTC)
	renewal, err := NewGenerator(time.UTC).RenewSeries(pattern, oldEnd, 1)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 1, 21, 10, 0, 0, 0, time.UTC), renewal.Instances[0].StartTime)
}

func TestGenerateSeriesUsesClinicCalendar(t *testing.T) {
	ba, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	require.NoError(t, err)
	g := NewGenerator(ba)

	// четверг 22:00 в клинике - уже пятница по UTC
	start := time.Date(2025, 1, 30, 22, 0, 0, 0, ba)
	wantEnd := time.Date(2025, 2, 28, 22, 0, 0, 0, ba)

	for name, at := range map[string]time.Time{"clinic offset": start, "utc": start.UTC()} {
		t.Run(name, func(t *testing.T) {
			series, err := g.GenerateSeries(SeriesBase{ResourceID: 1, OwnerID: 2, StartTime: at, EndTime: at.Add(time.Hour)}, 1)
			require.NoError(t, err)

			require.Len(t, series, 5)
			assert.True(t, wantEnd.Equal(*series[0].RecurrenceEndDate), "end %s", series[0].RecurrenceEndDate)
			assert.True(t, time.Date(2025, 2, 27, 22, 0, 0, 0, ba).Equal(series[4].StartTime))
			for _, r := range series {
				assert.Equal(t, time.Thursday, r.StartTime.Weekday())
				assert.Equal(t, 22, r.StartTime.Hour())
			}
		})
	}
}

func TestGenerateSeriesKeepsLocalTimeAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 9 марта 2025 часы переводятся вперёд
	start := time.Date(2025, 3, 4, 10, 0, 0, 0, ny).UTC()
	series, err := NewGenerator(ny).GenerateSeries(SeriesBase{ResourceID: 1, OwnerID: 2, StartTime: start, EndTime: start.Add(time.Hour)}, 1)
	require.NoError(t, err)

	require.Len(t, series, 5)
	for _, r := range series {
		assert.Equal(t, 10, r.StartTime.Hour(), "start %s", r.StartTime)
		assert.Equal(t, 11, r.EndTime.Hour(), "end %s", r.EndTime)
	}
	assert.Equal(t, 15, series[0].StartTime.UTC().Hour())
	assert.Equal(t, 14, series[1].StartTime.UTC().Hour())
}

func TestRenewSeriesFromUTCPattern(t *testing.T) {
	ba, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	require.NoError(t, err)

	start := time.Date(2025, 1, 30, 22, 0, 0, 0, ba)
	pattern := SeriesPattern{
		RecurrenceID: uuid.New(),
		ResourceID:   1,
		OwnerID:      2,
		StartTime:    start.UTC(),
		EndTime:      start.Add(time.Hour).UTC(),
	}
	oldEnd := time.Date(2025, 2, 28, 22, 0, 0, 0, ba).UTC()

	renewal, err := NewGenerator(ba).RenewSeries(pattern, oldEnd, 1)
	require.NoError(t, err)

	assert.True(t, time.Date(2025, 3, 28, 22, 0, 0, 0, ba).Equal(renewal.NewRecurrenceEndDate), "end %s", renewal.NewRecurrenceEndDate)
	require.Len(t, renewal.Instances, 4)
	assert.True(t, time.Date(2025, 3, 6, 22, 0, 0, 0, ba).Equal(renewal.Instances[0].StartTime))
	for _, r := range renewal.Instances {
		assert.Equal(t, time.Thursday, r.StartTime.Weekday())
		assert.Equal(t, 22, r.StartTime.Hour())
	}
}

func TestPatternOfRequiresSeries(t *testing.T) {
	_, err := PatternOf(&domain.Reservation{ID: 5, Kind: domain.KindOneOff})
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}
