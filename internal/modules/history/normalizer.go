package history

import (
	"math"
	"sort"

	"github.com/intrinsiq/valuation-engine/internal/domain"
	"github.com/intrinsiq/valuation-engine/pkg/formulas"
)

// Normalize aligns raw per-period statements by fiscal year and produces
// immutable FiscalPeriodRecords, oldest first. Years missing from one
// statement contribute zeros for that statement's fields.
//
// Fallback resolution order:
//   - EBIT: ebit, else operating_income
//   - EBITDA: ebitda, else EBIT + depreciation
//   - Depreciation: income-statement D&A, else cash-flow D&A
//   - Book value: book_value, else total_equity
//   - Invested capital: invested_capital, else total_debt + book value
//   - NWC: (current_assets − cash) − current_liabilities
//
// Capex and dividends are normalized to positive magnitudes (cash-flow
// statements usually report them as outflows).
func Normalize(set StatementSet) []domain.FiscalPeriodRecord {
	incomeByYear := make(map[int]IncomeStatement, len(set.Income))
	for _, is := range set.Income {
		incomeByYear[is.FiscalYear] = is
	}
	balanceByYear := make(map[int]BalanceSheet, len(set.Balance))
	for _, bs := range set.Balance {
		balanceByYear[bs.FiscalYear] = bs
	}
	cashFlowByYear := make(map[int]CashFlowStatement, len(set.CashFlow))
	for _, cf := range set.CashFlow {
		cashFlowByYear[cf.FiscalYear] = cf
	}

	yearsSet := make(map[int]bool)
	for year := range incomeByYear {
		yearsSet[year] = true
	}
	for year := range balanceByYear {
		yearsSet[year] = true
	}
	for year := range cashFlowByYear {
		yearsSet[year] = true
	}

	years := make([]int, 0, len(yearsSet))
	for year := range yearsSet {
		years = append(years, year)
	}
	sort.Ints(years)

	records := make([]domain.FiscalPeriodRecord, 0, len(years))
	for _, year := range years {
		is := incomeByYear[year]
		bs := balanceByYear[year]
		cf := cashFlowByYear[year]

		depreciation := is.DepreciationAmortization.Float64()
		if depreciation == 0 {
			depreciation = cf.DepreciationAmortization.Float64()
		}

		ebit := is.EBIT.Float64()
		if ebit == 0 {
			ebit = is.OperatingIncome.Float64()
		}

		ebitda := is.EBITDA.Float64()
		if ebitda == 0 {
			ebitda = ebit + depreciation
		}

		bookValue := bs.BookValue.Float64()
		if bookValue == 0 {
			bookValue = bs.TotalEquity.Float64()
		}

		investedCapital := bs.InvestedCapital.Float64()
		if investedCapital == 0 {
			investedCapital = bs.TotalDebt.Float64() + bookValue
		}

		nwc := bs.CurrentAssets.Float64() - bs.CashAndEquivalents.Float64() - bs.CurrentLiabilities.Float64()

		records = append(records, domain.FiscalPeriodRecord{
			FiscalYear:        year,
			Revenue:           is.Revenue.Float64(),
			EBITDA:            ebitda,
			EBIT:              ebit,
			Depreciation:      depreciation,
			Capex:             math.Abs(cf.Capex.Float64()),
			NetWorkingCapital: nwc,
			NetIncome:         is.NetIncome.Float64(),
			Dividends:         math.Abs(cf.DividendsPaid.Float64()),
			TotalDebt:         bs.TotalDebt.Float64(),
			BookValue:         bookValue,
			InvestedCapital:   investedCapital,
		})
	}

	return records
}

// DeriveRatios computes the historical-average ratios used as default
// forecast assumptions. Each ratio averages only the periods where its
// denominator is non-zero; an empty average falls back to zero. The tax
// rate comes from the income statements (tax expense over pretax income)
// because the normalized record does not retain the pretax line.
func DeriveRatios(records []domain.FiscalPeriodRecord, set StatementSet) Ratios {
	var margins, capex, nwc, dep, payout []float64
	for _, rec := range records {
		if rec.Revenue != 0 {
			margins = append(margins, rec.EBITDA/rec.Revenue)
			capex = append(capex, rec.Capex/rec.Revenue)
			nwc = append(nwc, rec.NetWorkingCapital/rec.Revenue)
			dep = append(dep, rec.Depreciation/rec.Revenue)
		}
		if rec.NetIncome > 0 {
			payout = append(payout, rec.Dividends/rec.NetIncome)
		}
	}

	var taxRates []float64
	for _, is := range set.Income {
		pretax := is.PretaxIncome.Float64()
		if pretax != 0 {
			taxRates = append(taxRates, is.TaxExpense.Float64()/pretax)
		}
	}

	return Ratios{
		EBITDAMargin:     formulas.Mean(margins),
		CapexPct:         formulas.Mean(capex),
		NWCPct:           formulas.Mean(nwc),
		TaxRate:          formulas.Mean(taxRates),
		DepreciationRate: formulas.Mean(dep),
		PayoutRatio:      formulas.Mean(payout),
	}
}

// AverageGrowth computes the mean year-over-year revenue growth across the
// records. Periods with zero prior revenue are skipped. Fails with
// InsufficientHistoryError when fewer than two usable periods exist; the
// caller recovers with a default assumption.
func AverageGrowth(records []domain.FiscalPeriodRecord) (float64, error) {
	if len(records) < 2 {
		return 0, &domain.InsufficientHistoryError{Need: 2, Have: len(records)}
	}

	var growths []float64
	for i := 1; i < len(records); i++ {
		prev := records[i-1].Revenue
		if prev != 0 {
			growths = append(growths, records[i].Revenue/prev-1)
		}
	}
	if len(growths) == 0 {
		return 0, &domain.InsufficientHistoryError{Need: 2, Have: 1}
	}

	return formulas.Mean(growths), nil
}
