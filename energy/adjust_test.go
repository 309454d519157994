package energy

import (
	"math"
	"testing"
)

func closeTo(got, want float64) bool {
	if want == 0 {
		return math.Abs(got) < 1e-9
	}
	return math.Abs(got-want)/math.Abs(want) < 1e-9
}

func testRecord(income string, usage, savings float64) Record {
	return Record{
		HouseholdID:     "H1",
		Region:          "Kanto",
		Country:         "Japan",
		EnergySource:    "Solar",
		MonthlyUsageKWH: usage,
		Year:            2023,
		HouseholdSize:   3,
		AdoptionYear:    2019,
		IncomeLevel:     income,
		UrbanRural:      "Urban",
		SubsidyReceived: "Yes",
		CostSavingsUSD:  savings,
	}
}

func TestAdjust(t *testing.T) {
	cases := []struct {
		income      string
		wantUsage   float64
		wantSavings float64
	}{
		{"Low", 110.0, 90.0},
		{"Middle", 120.0, 80.0},
		{"High", 130.0, 70.0},
	}

	for _, c := range cases {
		got := Adjust(testRecord(c.income, 100.0, 100.0))

		if !closeTo(got.MonthlyUsageKWH, c.wantUsage) {
			t.Errorf("%s: MonthlyUsageKWH should be %v, but %v", c.income, c.wantUsage, got.MonthlyUsageKWH)
		}
		if !closeTo(got.CostSavingsUSD, c.wantSavings) {
			t.Errorf("%s: CostSavingsUSD should be %v, but %v", c.income, c.wantSavings, got.CostSavingsUSD)
		}
	}
}

func TestAdjust_middleExample(t *testing.T) {
	r := testRecord("Middle", 100.0, 50.0)

	got := Adjust(r)

	if !closeTo(got.MonthlyUsageKWH, 120.0) {
		t.Errorf("MonthlyUsageKWH should be 120, but %v", got.MonthlyUsageKWH)
	}
	if !closeTo(got.CostSavingsUSD, 40.0) {
		t.Errorf("CostSavingsUSD should be 40, but %v", got.CostSavingsUSD)
	}
}

func TestAdjust_unrecognizedIncomeLevel(t *testing.T) {
	for _, income := range []string{"Unknown", "", "low", "HIGH", "middle "} {
		r := testRecord(income, 200.0, 10.0)

		got := Adjust(r)

		if got.MonthlyUsageKWH != 200.0 {
			t.Errorf("income %q: MonthlyUsageKWH should be unchanged, but %v", income, got.MonthlyUsageKWH)
		}
		if got.CostSavingsUSD != 10.0 {
			t.Errorf("income %q: CostSavingsUSD should be unchanged, but %v", income, got.CostSavingsUSD)
		}
	}
}

func TestAdjust_negativeSavings(t *testing.T) {
	got := Adjust(testRecord("High", 100.0, -40.0))

	if !closeTo(got.CostSavingsUSD, -28.0) {
		t.Errorf("CostSavingsUSD should be -28, but %v", got.CostSavingsUSD)
	}
}

func TestAdjust_onlyTouchesUsageAndSavings(t *testing.T) {
	r := testRecord("Low", 100.0, 100.0)

	got := Adjust(r)

	got.MonthlyUsageKWH = r.MonthlyUsageKWH
	got.CostSavingsUSD = r.CostSavingsUSD

	if got != r {
		t.Errorf("fields other than usage and savings changed: %+v != %+v", got, r)
	}
}

func TestAdjust_compounds(t *testing.T) {
	r := testRecord("Low", 100.0, 100.0)

	got := Adjust(Adjust(r))

	if !closeTo(got.MonthlyUsageKWH, 121.0) {
		t.Errorf("double adjust should compound to 121, but %v", got.MonthlyUsageKWH)
	}
	if !closeTo(got.CostSavingsUSD, 81.0) {
		t.Errorf("double adjust should compound to 81, but %v", got.CostSavingsUSD)
	}
}

func TestAdjustAll(t *testing.T) {
	in := []Record{
		testRecord("Low", 100.0, 100.0),
		testRecord("Middle", 100.0, 100.0),
		testRecord("High", 100.0, 100.0),
	}

	got := AdjustAll(in)

	if len(got) != 3 {
		t.Fatalf("record count should be preserved, got %d", len(got))
	}

	wants := []struct{ usage, savings float64 }{
		{110.0, 90.0},
		{120.0, 80.0},
		{130.0, 70.0},
	}

	for i, w := range wants {
		if !closeTo(got[i].MonthlyUsageKWH, w.usage) {
			t.Errorf("record %d: MonthlyUsageKWH should be %v, but %v", i, w.usage, got[i].MonthlyUsageKWH)
		}
		if !closeTo(got[i].CostSavingsUSD, w.savings) {
			t.Errorf("record %d: CostSavingsUSD should be %v, but %v", i, w.savings, got[i].CostSavingsUSD)
		}
	}

	if in[0].MonthlyUsageKWH != 100.0 {
		t.Error("AdjustAll must not modify its input")
	}
}
