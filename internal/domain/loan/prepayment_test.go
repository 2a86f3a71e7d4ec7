package loan

import (
	"errors"
	"loan-interest-engine/internal/pkg/apperrors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func februaryPeriod() Period {
	p := Period{
		Number:    2,
		StartDate: date(2025, time.February, 1),
		EndDate:   date(2025, time.February, 28),
		Days:      28,
	}
	p.EffectiveRate = dec("7.05")
	return p
}

func TestSplitPeriodTwoSegments(t *testing.T) {
	p := februaryPeriod()
	segments, closing, err := SplitPeriod(p, dec("1000000"), []PrincipalPrepayment{
		{Date: date(2025, time.February, 15), Amount: dec("100000")},
	})
	require.NoError(t, err)
	require.Len(t, segments, 2)

	assert.Equal(t, date(2025, time.February, 1), segments[0].StartDate)
	assert.Equal(t, date(2025, time.February, 15), segments[0].EndDate)
	assert.Equal(t, 15, segments[0].Days)
	assert.Equal(t, "1000000.00", segments[0].Principal.StringFixed(2))

	assert.Equal(t, date(2025, time.February, 16), segments[1].StartDate)
	assert.Equal(t, date(2025, time.February, 28), segments[1].EndDate)
	assert.Equal(t, 13, segments[1].Days)
	assert.Equal(t, "900000.00", segments[1].Principal.StringFixed(2))

	assert.Equal(t, p.Days, segments[0].Days+segments[1].Days)
	assert.Equal(t, "900000.00", closing.StringFixed(2))
}

func TestSplitPeriodSegmentInterestSumsToReducedTotal(t *testing.T) {
	p := februaryPeriod()
	segments, _, err := SplitPeriod(p, dec("1000000"), []PrincipalPrepayment{
		{Date: date(2025, time.February, 15), Amount: dec("100000")},
	})
	require.NoError(t, err)

	total := sumSegmentInterest(segments)
	unsplit := PeriodInterest(dec("1000000"), p.EffectiveRate, p.Days)
	correction := PeriodInterest(dec("100000"), p.EffectiveRate, 13)

	// Segment summation must equal the unsplit interest minus the accrual the
	// prepaid 100,000 no longer earns over the remaining 13 days.
	assert.Equal(t, unsplit.Sub(correction).StringFixed(2), total.StringFixed(2))
	assert.True(t, total.LessThan(unsplit))
}

func TestSplitPeriodPrepaymentOnEndDate(t *testing.T) {
	p := februaryPeriod()
	segments, closing, err := SplitPeriod(p, dec("1000000"), []PrincipalPrepayment{
		{Date: date(2025, time.February, 28), Amount: dec("100000")},
	})
	require.NoError(t, err)

	// No trailing zero-length segment; the reduction applies next period.
	require.Len(t, segments, 1)
	assert.Equal(t, 28, segments[0].Days)
	assert.Equal(t, "1000000.00", segments[0].Principal.StringFixed(2))
	assert.Equal(t, "900000.00", closing.StringFixed(2))
}

func TestSplitPeriodPrepaymentOnStartDate(t *testing.T) {
	// Effective end-of-day: the first segment is the single start day at the
	// old balance.
	p := februaryPeriod()
	segments, _, err := SplitPeriod(p, dec("1000000"), []PrincipalPrepayment{
		{Date: date(2025, time.February, 1), Amount: dec("100000")},
	})
	require.NoError(t, err)
	require.Len(t, segments, 2)

	assert.Equal(t, 1, segments[0].Days)
	assert.Equal(t, "1000000.00", segments[0].Principal.StringFixed(2))
	assert.Equal(t, 27, segments[1].Days)
	assert.Equal(t, "900000.00", segments[1].Principal.StringFixed(2))
}

func TestSplitPeriodMultiplePrepayments(t *testing.T) {
	p := februaryPeriod()
	segments, closing, err := SplitPeriod(p, dec("1000000"), []PrincipalPrepayment{
		{Date: date(2025, time.February, 20), Amount: dec("30000")},
		{Date: date(2025, time.February, 10), Amount: dec("50000")},
	})
	require.NoError(t, err)
	require.Len(t, segments, 3)

	assert.Equal(t, "1000000.00", segments[0].Principal.StringFixed(2))
	assert.Equal(t, "950000.00", segments[1].Principal.StringFixed(2))
	assert.Equal(t, "920000.00", segments[2].Principal.StringFixed(2))
	assert.Equal(t, "920000.00", closing.StringFixed(2))

	totalDays := 0
	for _, s := range segments {
		totalDays += s.Days
	}
	assert.Equal(t, p.Days, totalDays)
}

func TestSplitPeriodSameDayPrepaymentsMerge(t *testing.T) {
	p := februaryPeriod()
	segments, closing, err := SplitPeriod(p, dec("1000000"), []PrincipalPrepayment{
		{Date: date(2025, time.February, 10), Amount: dec("50000")},
		{Date: date(2025, time.February, 10), Amount: dec("25000")},
	})
	require.NoError(t, err)
	require.Len(t, segments, 2)
	assert.Equal(t, "925000.00", segments[1].Principal.StringFixed(2))
	assert.Equal(t, "925000.00", closing.StringFixed(2))
}

func TestSplitPeriodOversizedAmountRejected(t *testing.T) {
	p := februaryPeriod()
	_, _, err := SplitPeriod(p, dec("1000000"), []PrincipalPrepayment{
		{Date: date(2025, time.February, 15), Amount: dec("1000000")},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidPrepayment))
}

func TestSplitPeriodDateOutsidePeriodRejected(t *testing.T) {
	p := februaryPeriod()
	_, _, err := SplitPeriod(p, dec("1000000"), []PrincipalPrepayment{
		{Date: date(2025, time.March, 1), Amount: dec("1000")},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidPrepayment))
}
