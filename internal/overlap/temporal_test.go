package overlap

import (
	"testing"
	"time"

	"github.com/jonathan/network-overlap/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func ym(startYear, startMonth, endYear, endMonth int) DateRange {
	return DateRange{
		StartYear:  types.IntPtr(startYear),
		StartMonth: types.IntPtr(startMonth),
		EndYear:    types.IntPtr(endYear),
		EndMonth:   types.IntPtr(endMonth),
	}
}

func TestCalculateAt_NoOverlap(t *testing.T) {
	result := CalculateAt(ym(2020, 1, 2020, 12), ym(2021, 1, 2021, 12), fixedNow)
	assert.Equal(t, 0, result.Months)
	assert.Nil(t, result.Period)
	assert.False(t, result.Unknown())
}

func TestCalculateAt_Contained(t *testing.T) {
	result := CalculateAt(ym(2020, 1, 2020, 12), ym(2020, 3, 2020, 6), fixedNow)
	assert.Equal(t, 3, result.Months)
	require.NotNil(t, result.Period)
	assert.Equal(t, "2020-03", result.Period.Start)
	assert.Equal(t, "2020-06", result.Period.End)
}

func TestCalculateAt_Partial(t *testing.T) {
	result := CalculateAt(ym(2020, 1, 2020, 6), ym(2020, 4, 2020, 12), fixedNow)
	assert.Equal(t, 2, result.Months)
	require.NotNil(t, result.Period)
	assert.Equal(t, "2020-04", result.Period.Start)
	assert.Equal(t, "2020-06", result.Period.End)
}

func TestCalculateAt_OpenEnd(t *testing.T) {
	a := DateRange{StartYear: types.IntPtr(2020), StartMonth: types.IntPtr(1)}
	result := CalculateAt(a, ym(2021, 1, 2022, 12), fixedNow)
	assert.Equal(t, 23, result.Months)
	require.NotNil(t, result.Period)
	assert.Equal(t, "2021-01", result.Period.Start)
	assert.Equal(t, "2022-12", result.Period.End)
}

func TestCalculateAt_BothOngoing(t *testing.T) {
	a := DateRange{StartYear: types.IntPtr(2020), StartMonth: types.IntPtr(1), Ongoing: true}
	b := DateRange{StartYear: types.IntPtr(2021), StartMonth: types.IntPtr(6), Ongoing: true}

	result := CalculateAt(a, b, fixedNow)
	assert.Greater(t, result.Months, 0)
	require.NotNil(t, result.Period)
	assert.Equal(t, "2021-06", result.Period.Start)
	assert.Equal(t, "2024-06", result.Period.End)
}

func TestCalculateAt_UnknownStart(t *testing.T) {
	a := DateRange{StartMonth: types.IntPtr(1), EndYear: types.IntPtr(2020), EndMonth: types.IntPtr(12)}

	result := CalculateAt(a, ym(2020, 1, 2020, 12), fixedNow)
	assert.Equal(t, UnknownMonths, result.Months)
	assert.True(t, result.Unknown())
	assert.Nil(t, result.Period)

	result = CalculateAt(ym(2020, 1, 2020, 12), a, fixedNow)
	assert.True(t, result.Unknown())
}

func TestCalculateAt_ZeroYearIsUnknown(t *testing.T) {
	a := DateRange{StartYear: types.IntPtr(0)}
	assert.True(t, CalculateAt(a, ym(2020, 1, 2020, 12), fixedNow).Unknown())
}

func TestCalculateAt_DefaultStartMonth(t *testing.T) {
	a := DateRange{StartYear: types.IntPtr(2020), EndYear: types.IntPtr(2020), EndMonth: types.IntPtr(12)}

	result := CalculateAt(a, ym(2020, 6, 2020, 12), fixedNow)
	assert.Greater(t, result.Months, 0)
	require.NotNil(t, result.Period)
	assert.Equal(t, "2020-06", result.Period.Start)
}

func TestCalculateAt_DefaultEndMonth(t *testing.T) {
	a := DateRange{StartYear: types.IntPtr(2020), StartMonth: types.IntPtr(1), EndYear: types.IntPtr(2020)}

	result := CalculateAt(a, ym(2020, 1, 2021, 6), fixedNow)
	require.NotNil(t, result.Period)
	assert.Equal(t, "2020-12", result.Period.End)
}

func TestCalculateAt_SameMonth(t *testing.T) {
	result := CalculateAt(ym(2020, 6, 2020, 6), ym(2020, 6, 2020, 6), fixedNow)
	assert.Equal(t, 0, result.Months)
	assert.Nil(t, result.Period)
}

func TestCalculateAt_ShortOverlapIsAtLeastOneMonth(t *testing.T) {
	a := DateRange{StartYear: types.IntPtr(2024), StartMonth: types.IntPtr(6), Ongoing: true}
	b := DateRange{StartYear: types.IntPtr(2024), StartMonth: types.IntPtr(6), Ongoing: true}
	now := time.Date(2024, time.June, 5, 0, 0, 0, 0, time.UTC)

	result := CalculateAt(a, b, now)
	assert.Equal(t, 1, result.Months)
}

func TestCalculateAt_FutureStartDoesNotOverlap(t *testing.T) {
	a := DateRange{StartYear: types.IntPtr(2030), StartMonth: types.IntPtr(1), Ongoing: true}
	b := DateRange{StartYear: types.IntPtr(2020), StartMonth: types.IntPtr(1), Ongoing: true}

	assert.Equal(t, 0, CalculateAt(a, b, fixedNow).Months)
}

func TestCalculateAt_OutOfRangeMonths(t *testing.T) {
	a := ym(2020, 0, 2020, 13)
	result := CalculateAt(a, ym(2019, 1, 2021, 1), fixedNow)
	require.NotNil(t, result.Period)
	assert.Equal(t, "2020-01", result.Period.Start)
	assert.Equal(t, "2020-12", result.Period.End)
}

func TestCalculateAt_Symmetric(t *testing.T) {
	ranges := []DateRange{
		ym(2018, 1, 2020, 12),
		ym(2020, 3, 2020, 6),
		ym(2021, 1, 2021, 12),
		{StartYear: types.IntPtr(2019), StartMonth: types.IntPtr(7), Ongoing: true},
		{StartYear: types.IntPtr(2022)},
		{EndYear: types.IntPtr(2020)},
	}

	for i, a := range ranges {
		for j, b := range ranges {
			ab := CalculateAt(a, b, fixedNow)
			ba := CalculateAt(b, a, fixedNow)
			assert.Equal(t, ab, ba, "ranges %d and %d", i, j)
		}
	}
}

func TestCalculate_UsesWallClock(t *testing.T) {
	a := DateRange{StartYear: types.IntPtr(2000), StartMonth: types.IntPtr(1), Ongoing: true}
	result := Calculate(a, a)
	require.NotNil(t, result.Period)
	assert.Equal(t, time.Now().UTC().Format("2006-01"), result.Period.End)
}

func TestRangeOf_CurrentIgnoresEnd(t *testing.T) {
	p := types.EmploymentPeriod{
		StartYear: types.IntPtr(2020),
		EndYear:   types.IntPtr(2021),
		EndMonth:  types.IntPtr(3),
		IsCurrent: true,
	}

	r := RangeOf(p)
	assert.True(t, r.Ongoing)
	assert.Nil(t, r.EndYear)
	assert.Nil(t, r.EndMonth)

	p.IsCurrent = false
	r = RangeOf(p)
	assert.False(t, r.Ongoing)
	assert.Equal(t, 2021, *r.EndYear)
}
