// Package billing holds the call settlement computation. All amounts
// are integer cents; commission rates are basis points.
package billing

import "time"

// BpsDenominator is the basis-point scale: 10000 bps = 100%.
const BpsDenominator = 10000

// Outcome is the result of pricing one completed call.
type Outcome struct {
	DurationSeconds  int
	BilledMinutes    int
	TotalCostCents   int
	ModelCreditCents int
}

// BilledMinutes rounds elapsed seconds up to whole minutes with a
// one-minute minimum charge.
func BilledMinutes(elapsedSeconds int) int {
	if elapsedSeconds <= 0 {
		return 1
	}
	minutes := (elapsedSeconds + 59) / 60
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// CommissionCut is the model's share of a charge. Floor division: any
// sub-cent remainder stays with the platform.
func CommissionCut(totalCostCents, commissionRateBps int) int {
	return totalCostCents * commissionRateBps / BpsDenominator
}

// Compute prices a call from its start and end instants, the rate
// snapshotted at call creation, and the model's commission rate.
// Elapsed time rounds up to whole seconds, so a fractional crossing of
// a minute boundary still bills the next minute. A negative elapsed
// time indicates a clock violation and is treated as zero, which still
// bills the one-minute minimum.
func Compute(start, end time.Time, rateCents, commissionRateBps int) Outcome {
	d := end.Sub(start)
	if d < 0 {
		d = 0
	}
	elapsed := int((d + time.Second - 1) / time.Second)
	minutes := BilledMinutes(elapsed)
	total := minutes * rateCents
	return Outcome{
		DurationSeconds:  elapsed,
		BilledMinutes:    minutes,
		TotalCostCents:   total,
		ModelCreditCents: CommissionCut(total, commissionRateBps),
	}
}
