package payroll

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cmlabs-hris/hrm-payroll/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-payroll/internal/domain/payroll"
)

// DependentResolver resolves dependent counts in three tiers: one batched
// profile load, then sequential per-employee loads for whatever the batch
// did not cover, then a default of zero.
type DependentResolver struct {
	profiles employee.ProfileRepository
}

func NewDependentResolver(profiles employee.ProfileRepository) *DependentResolver {
	return &DependentResolver{profiles: profiles}
}

// Resolve never fails; the returned Status says how much of the batch path
// held up.
func (r *DependentResolver) Resolve(ctx context.Context, employeeIDs []string) payroll.DependentResolution {
	ids := uniqueIDs(employeeIDs)
	res := payroll.DependentResolution{
		Counts: make(map[string]int, len(ids)),
		Tiers:  make(map[string]payroll.ResolutionTier, len(ids)),
	}
	if len(ids) == 0 {
		res.Status = payroll.ResolutionStatusEmpty
		return res
	}

	var pending []string
	profiles, err := r.profiles.GetByEmployeeIDs(ctx, ids)
	if err != nil {
		slog.Warn("batch profile load failed, falling back to per-employee loads",
			"employee_count", len(ids), "error", err)
		pending = ids
	} else {
		for _, id := range ids {
			profile, ok := profiles[id]
			if !ok {
				pending = append(pending, id)
				continue
			}
			res.Counts[id] = profile.DependentCount()
			res.Tiers[id] = payroll.ResolutionTierBatch
		}
	}

	for _, id := range pending {
		res.Counts[id] = 0
		res.Tiers[id] = payroll.ResolutionTierDefault

		if ctx.Err() != nil {
			continue
		}

		profile, err := r.profiles.GetByEmployeeID(ctx, id)
		switch {
		case err == nil:
			res.Counts[id] = profile.DependentCount()
			res.Tiers[id] = payroll.ResolutionTierPerEmployee
		case errors.Is(err, employee.ErrProfileNotFound):
			slog.Debug("no profile for employee, assuming no dependents", "employee_id", id)
		default:
			slog.Warn("profile load failed, assuming no dependents", "employee_id", id, "error", err)
		}
	}

	res.Status = resolutionStatus(res, ids)
	return res
}

func resolutionStatus(res payroll.DependentResolution, ids []string) payroll.ResolutionStatus {
	var batch, defaulted int
	for _, id := range ids {
		switch res.Tiers[id] {
		case payroll.ResolutionTierBatch:
			batch++
		case payroll.ResolutionTierDefault:
			defaulted++
		}
	}
	switch {
	case batch == len(ids):
		return payroll.ResolutionStatusComplete
	case defaulted == len(ids):
		return payroll.ResolutionStatusEmpty
	default:
		return payroll.ResolutionStatusPartial
	}
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
