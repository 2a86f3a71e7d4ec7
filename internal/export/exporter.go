package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"loan-interest-engine/internal/domain/loan"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
)

// csvColumns is the column order of the CSV export. The row column
// distinguishes period rows, segment sub-rows of split periods, and the
// trailing totals row.
var csvColumns = []string{
	"row", "period_number", "start_date", "end_date", "reset_date", "days",
	"reference_rate", "effective_rate", "principal_beginning", "principal_ending",
	"interest_owed", "prepaid_applied", "pik_elected", "pik_amount", "cash_due",
}

// scheduleTotals are the summary amounts accumulated across all periods.
type scheduleTotals struct {
	Days           int
	InterestOwed   decimal.Decimal
	PrepaidApplied decimal.Decimal
	PIKAmount      decimal.Decimal
	CashDue        decimal.Decimal
}

func totalsOf(periods []loan.Period) scheduleTotals {
	t := scheduleTotals{
		InterestOwed:   decimal.Zero,
		PrepaidApplied: decimal.Zero,
		PIKAmount:      decimal.Zero,
		CashDue:        decimal.Zero,
	}
	for _, p := range periods {
		t.Days += p.Days
		t.InterestOwed = t.InterestOwed.Add(p.InterestOwed)
		t.PrepaidApplied = t.PrepaidApplied.Add(p.PrepaidApplied)
		t.PIKAmount = t.PIKAmount.Add(p.PIKAmount)
		t.CashDue = t.CashDue.Add(p.CashDue)
	}
	return t
}

// WriteCSV writes the schedule as CSV preceded by commented loan header lines.
// Split periods get one segment sub-row per sub-interval and the last row
// carries the schedule totals.
func WriteCSV(w io.Writer, l *loan.Loan, periods []loan.Period) error {
	if err := writeLoanHeader(w, l, "# "); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvColumns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, p := range periods {
		row := []string{
			"period",
			strconv.Itoa(p.Number),
			p.StartDate.Format(time.DateOnly),
			p.EndDate.Format(time.DateOnly),
			p.ResetDate.Format(time.DateOnly),
			strconv.Itoa(p.Days),
			p.ReferenceRate.StringFixed(5),
			p.EffectiveRate.StringFixed(5),
			p.PrincipalBeginning.StringFixed(2),
			p.PrincipalEnding.StringFixed(2),
			p.InterestOwed.StringFixed(2),
			p.PrepaidApplied.StringFixed(2),
			strconv.FormatBool(p.PIKElected),
			p.PIKAmount.StringFixed(2),
			p.CashDue.StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row for period %d: %w", p.Number, err)
		}

		for _, s := range p.Segments {
			segRow := []string{
				"segment",
				strconv.Itoa(p.Number),
				s.StartDate.Format(time.DateOnly),
				s.EndDate.Format(time.DateOnly),
				"",
				strconv.Itoa(s.Days),
				"",
				p.EffectiveRate.StringFixed(5),
				s.Principal.StringFixed(2),
				"",
				s.Interest.StringFixed(2),
				"", "", "", "",
			}
			if err := cw.Write(segRow); err != nil {
				return fmt.Errorf("write csv segment row for period %d: %w", p.Number, err)
			}
		}
	}

	t := totalsOf(periods)
	totalsRow := []string{
		"totals", "", "", "", "",
		strconv.Itoa(t.Days),
		"", "", "", "",
		t.InterestOwed.StringFixed(2),
		t.PrepaidApplied.StringFixed(2),
		"",
		t.PIKAmount.StringFixed(2),
		t.CashDue.StringFixed(2),
	}
	if err := cw.Write(totalsRow); err != nil {
		return fmt.Errorf("write csv totals row: %w", err)
	}

	cw.Flush()
	return cw.Error()
}

// WriteText writes the schedule as an aligned text table with segment
// breakdowns for split periods and a totals line.
func WriteText(w io.Writer, l *loan.Loan, periods []loan.Period) error {
	if err := writeLoanHeader(w, l, ""); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Period\tStart Date\tEnd Date\tReset Date\tDays\tEffective Rate\tInterest Owed\tPIK\tCash Due")

	for _, p := range periods {
		pik := "-"
		if p.PIKElected {
			pik = p.PIKAmount.StringFixed(2)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s%%\t$%s\t%s\t$%s\n",
			p.Number,
			p.StartDate.Format(time.DateOnly),
			p.EndDate.Format(time.DateOnly),
			p.ResetDate.Format(time.DateOnly),
			p.Days,
			p.EffectiveRate.StringFixed(5),
			p.InterestOwed.StringFixed(2),
			pik,
			p.CashDue.StringFixed(2),
		)
		for _, s := range p.Segments {
			fmt.Fprintf(tw, "  at $%s\t%s\t%s\t\t%d\t\t$%s\t\t\n",
				s.Principal.StringFixed(2),
				s.StartDate.Format(time.DateOnly),
				s.EndDate.Format(time.DateOnly),
				s.Days,
				s.Interest.StringFixed(2),
			)
		}
	}

	t := totalsOf(periods)
	fmt.Fprintf(tw, "Totals\t\t\t\t%d\t\t$%s\t$%s\t$%s\n",
		t.Days, t.InterestOwed.StringFixed(2), t.PIKAmount.StringFixed(2), t.CashDue.StringFixed(2))
	if t.PrepaidApplied.IsPositive() {
		fmt.Fprintf(tw, "Prepaid applied\t\t\t\t\t\t$%s\t\t\n", t.PrepaidApplied.StringFixed(2))
	}
	return tw.Flush()
}

func writeLoanHeader(w io.Writer, l *loan.Loan, prefix string) error {
	lines := []string{
		fmt.Sprintf("%sLoan ID: %s", prefix, l.ID),
		fmt.Sprintf("%sBorrower: %s", prefix, l.Borrower),
		fmt.Sprintf("%sPrincipal: $%s", prefix, l.Principal.StringFixed(2)),
		fmt.Sprintf("%sGenerated: %s", prefix, time.Now().Format(time.DateTime)),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
