package usecase

import (
	"fmt"
	"sort"

	"financeguard/internal/domain"
)

// Hourly success-rate bands, in percent. Hours between the bands carry no
// routing implication.
const (
	optimalSuccessPct = 95.0
	riskSuccessPct    = 85.0
)

// Branch failure-rate thresholds for routing status, as fractions.
const (
	rerouteRate = 0.15
	monitorRate = 0.10
)

// Gateway timeouts in seconds.
const (
	standardTimeoutSec   = 15
	aggressiveTimeoutSec = 30
)

// RoutingAdvisor learns per-branch hour profiles from historical outcomes
// and advises where to send new transactions.
type RoutingAdvisor struct {
	profiles map[string]domain.HourProfile
}

// NewRoutingAdvisor builds an hour profile for every branch in the table.
func NewRoutingAdvisor(table []domain.Transaction) *RoutingAdvisor {
	type hourAcc struct {
		count  int
		failed int
	}
	byBranch := make(map[string]map[int]*hourAcc)
	for _, tx := range table {
		hours, ok := byBranch[tx.Branch]
		if !ok {
			hours = make(map[int]*hourAcc)
			byBranch[tx.Branch] = hours
		}
		a, ok := hours[tx.Hour]
		if !ok {
			a = &hourAcc{}
			hours[tx.Hour] = a
		}
		a.count++
		if tx.Failed {
			a.failed++
		}
	}

	adv := &RoutingAdvisor{profiles: make(map[string]domain.HourProfile, len(byBranch))}
	for branch, hours := range byBranch {
		profile := domain.HourProfile{
			Branch:        branch,
			OptimalHours:  make([]int, 0),
			RiskHours:     make([]int, 0),
			HourlySuccess: make(map[int]float64, len(hours)),
		}
		for h := 0; h < 24; h++ {
			a, ok := hours[h]
			if !ok {
				continue
			}
			success := (1 - ratio(a.failed, a.count)) * 100
			profile.HourlySuccess[h] = success
			if success > optimalSuccessPct {
				profile.OptimalHours = append(profile.OptimalHours, h)
			} else if success < riskSuccessPct {
				profile.RiskHours = append(profile.RiskHours, h)
			}
		}
		adv.profiles[branch] = profile
	}
	return adv
}

// Route decides where to send one transaction for the given branch and hour.
// Branches never seen in the table route to the default gateway with the
// standard profile.
func (adv *RoutingAdvisor) Route(branch string, hour int) domain.RouteDecision {
	profile, known := adv.profiles[branch]
	if !known {
		return domain.RouteDecision{
			Gateway:    domain.GatewayDefault,
			Retry:      domain.RetryStandard,
			TimeoutSec: standardTimeoutSec,
			Monitoring: domain.MonitoringNormal,
		}
	}

	for _, h := range profile.RiskHours {
		if h == hour {
			return domain.RouteDecision{
				Gateway:    domain.GatewaySecondary,
				Retry:      domain.RetryAggressive,
				TimeoutSec: aggressiveTimeoutSec,
				Monitoring: domain.MonitoringEnhanced,
			}
		}
	}
	return domain.RouteDecision{
		Gateway:    domain.GatewayPrimary,
		Retry:      domain.RetryStandard,
		TimeoutSec: standardTimeoutSec,
		Monitoring: domain.MonitoringNormal,
	}
}

// Classify maps per-branch failure-rate fractions to routing statuses. Rates
// above 15 percent demand a reroute, above 10 percent closer monitoring.
func (adv *RoutingAdvisor) Classify(rates map[string]float64) map[string]domain.BranchRouteStatus {
	statuses := make(map[string]domain.BranchRouteStatus, len(rates))
	for branch, rate := range rates {
		profile := adv.profiles[branch]

		status := domain.BranchRouteStatus{
			FailureRate:     rate,
			CurrentGateway:  domain.GatewayPrimary,
			FallbackGateway: domain.GatewaySecondary,
			OptimalHours:    profile.OptimalHours,
			RiskHours:       profile.RiskHours,
		}
		if status.OptimalHours == nil {
			status.OptimalHours = []int{}
		}
		if status.RiskHours == nil {
			status.RiskHours = []int{}
		}

		switch {
		case rate > rerouteRate:
			status.Status = domain.RouteReroute
			status.Recommendation = fmt.Sprintf("Route to %s (failure rate: %.1f%%)", domain.GatewaySecondary, rate*100)
		case rate > monitorRate:
			status.Status = domain.RouteMonitor
			status.Recommendation = fmt.Sprintf("Consider routing to %s (failure rate: %.1f%%)", domain.GatewaySecondary, rate*100)
		default:
			status.Status = domain.RouteNormal
			status.Recommendation = fmt.Sprintf("Continue routing to %s", domain.GatewayPrimary)
		}
		statuses[branch] = status
	}
	return statuses
}

// Profile returns the hour profile learned for branch.
func (adv *RoutingAdvisor) Profile(branch string) (domain.HourProfile, error) {
	profile, ok := adv.profiles[branch]
	if !ok {
		return domain.HourProfile{}, fmt.Errorf("routing profile for %q: %w", branch, domain.ErrUnknownBranch)
	}
	return profile, nil
}

// Profiles returns every branch profile, sorted by branch name.
func (adv *RoutingAdvisor) Profiles() []domain.HourProfile {
	out := make([]domain.HourProfile, 0, len(adv.profiles))
	for _, p := range adv.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Branch < out[j].Branch })
	return out
}
