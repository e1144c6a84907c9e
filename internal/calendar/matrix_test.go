package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMatrixConsecutiveForEveryMonth(t *testing.T) {
	for _, weekStart := range []time.Weekday{time.Sunday, time.Monday} {
		for year := 1999; year <= 2030; year++ {
			for month := time.January; month <= time.December; month++ {
				m, err := BuildMatrix(year, month, weekStart)
				require.NoError(t, err)

				dates := m.Dates()
				require.Len(t, dates, MonthRows*Columns)
				for i := 1; i < len(dates); i++ {
					require.Equal(t, AddDays(dates[i-1], 1), dates[i],
						"%04d-%02d start=%s index %d", year, int(month), weekStart, i)
				}
				assert.Equal(t, weekStart, m.First().Weekday())

				var own []int
				for _, d := range dates {
					if d.SameMonth(year, month) {
						own = append(own, d.Day)
					}
				}
				require.Len(t, own, DaysIn(year, month))
				for i, day := range own {
					assert.Equal(t, i+1, day)
				}
			}
		}
	}
}

func TestBuildMatrixLeapFebruary(t *testing.T) {
	m, err := BuildMatrix(2024, time.February, time.Sunday)
	require.NoError(t, err)

	assert.Equal(t, Date{2024, time.January, 28}, m.First())
	assert.Equal(t, [Columns]Date{
		{2024, time.January, 28}, {2024, time.January, 29}, {2024, time.January, 30}, {2024, time.January, 31},
		{2024, time.February, 1}, {2024, time.February, 2}, {2024, time.February, 3},
	}, m[0])
	assert.Equal(t, Date{2024, time.March, 9}, m.Last())

	c, ok := m.Find(Date{2024, time.February, 29})
	require.True(t, ok)
	assert.Equal(t, Coord{Col: 4, Row: 4}, c)

	m, err = BuildMatrix(2023, time.February, time.Sunday)
	require.NoError(t, err)
	_, ok = m.Find(Date{2023, time.February, 29})
	assert.False(t, ok)
	assert.Equal(t, Date{2023, time.March, 1}, m.At(Coord{Col: 3, Row: 4}))
}

func TestBuildMatrixSynthesizesTrailingRows(t *testing.T) {
	// February 2015 starts on a Sunday and natively fills only four weeks.
	m, err := BuildMatrix(2015, time.February, time.Sunday)
	require.NoError(t, err)

	assert.Equal(t, Date{2015, time.February, 1}, m.First())
	for col := 0; col < Columns; col++ {
		assert.Equal(t, Date{2015, time.March, col + 1}, m[4][col])
		assert.Equal(t, Date{2015, time.March, col + 8}, m[5][col])
	}
}

func TestBuildMatrixYearRollover(t *testing.T) {
	m, err := BuildMatrix(2025, time.January, time.Sunday)
	require.NoError(t, err)
	assert.Equal(t, Date{2024, time.December, 29}, m.First())

	m, err = BuildMatrix(2024, time.December, time.Sunday)
	require.NoError(t, err)
	assert.Equal(t, Date{2024, time.December, 1}, m.First())
	assert.Equal(t, Date{2025, time.January, 11}, m.Last())
}

func TestBuildMatrixMondayStart(t *testing.T) {
	m, err := BuildMatrix(2024, time.February, time.Monday)
	require.NoError(t, err)
	assert.Equal(t, Date{2024, time.January, 29}, m.First())
	assert.Equal(t, time.Monday, m.First().Weekday())
}

func TestBuildMatrixRejectsInvalidInput(t *testing.T) {
	_, err := BuildMatrix(2024, 13, time.Sunday)
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = BuildMatrix(2024, 0, time.Sunday)
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = BuildMatrix(0, time.March, time.Sunday)
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = BuildMatrix(2024, time.March, time.Weekday(7))
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestPageOf(t *testing.T) {
	d := Date{2024, time.February, 14}
	assert.Equal(t, Page{Year: 2024, Month: time.February}, PageOf(d, time.Sunday, MonthRows))
	assert.Equal(t, Page{Year: 2024, Month: time.February, Week: 2}, PageOf(d, time.Sunday, WeekRows))
	assert.Equal(t, Page{Year: 2024, Month: time.February, Week: 4}, PageOf(Date{2024, time.February, 29}, time.Sunday, WeekRows))

	p := Page{Year: 2024, Month: time.December, Week: 3}.ShiftMonths(1)
	assert.Equal(t, Page{Year: 2025, Month: time.January}, p)
	assert.Equal(t, "January 2025", p.Title())
}
