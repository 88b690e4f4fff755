package report

import customer "solar-dgr/internal/customer/domain"

// KPIResult carries the summary totals and the plant-load-factor figure.
type KPIResult struct {
	TotalDaily float64
	TotalMTD   float64
	TotalYTD   float64
	PLFPercent float64
}

// ComputeKPI sums channel aggregates and derives PLF as daily generation over
// the theoretical maximum 24h output. When the profile's rated capacity or
// inverter count is missing the denominator falls back to 1, so a broken
// profile yields an anomalous PLF rather than a division by zero.
func ComputeKPI(profile customer.Profile, agg AggregationResult) KPIResult {
	kpi := KPIResult{}
	for _, channel := range agg.Channels {
		kpi.TotalDaily += agg.Daily[channel]
		kpi.TotalMTD += agg.Monthly[channel]
		kpi.TotalYTD += agg.Yearly[channel]
	}

	denom := 24 * profile.RatedCapacity * float64(profile.InverterCount)
	if profile.RatedCapacity == 0 || profile.InverterCount == 0 {
		denom = 1
	}
	kpi.PLFPercent = kpi.TotalDaily / denom
	return kpi
}
