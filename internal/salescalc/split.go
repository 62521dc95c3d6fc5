package salescalc

import (
	"cast_manager/internal/models"
)

type Role string

const (
	RoleSelf Role = "self"
	RoleHelp Role = "help"
)

// Share is one staff member's slice of a distributed amount. Help shares are
// always emitted, with a zero amount unless the policy includes help sales,
// so downstream reporting can still show "no sales" rows.
type Share struct {
	Name   string
	Role   Role
	Amount int64
}

// SplitItem distributes one normalized line amount per the resolved policy.
// allNominated is the order's full nomination set; with
// NominationDistributeAll the self share spreads over all of it, including
// staff absent from this particular line.
//
// Division is integer floor division within each group; the first recipient
// in stable input order absorbs the remainder so a group's total is conserved
// exactly.
func SplitItem(amount int64, c Classification, p Policy, allNominated []string) []Share {
	selfTargets := c.SelfNames
	if p.NominationDistributeAll && !c.NoNomination && len(allNominated) > 0 {
		selfTargets = allNominated
	}
	// Under all_to_nomination a help-only line still belongs to the
	// nomination; the helpers keep zero-amount entries.
	if effectiveMethod(p) == models.AllToNomination && len(selfTargets) == 0 && len(allNominated) > 0 {
		selfTargets = allNominated
	}
	return splitGroups(amount, selfTargets, c.HelpNames, p)
}

// SplitReceipt distributes the receipt-level class totals. selfAmount must
// already include the unattributed pool; mixedAmount is the pool of lines
// carrying both self and help staff, split here exactly once.
func SplitReceipt(selfAmount, helpAmount, mixedAmount int64, selfTargets, helpTargets []string, p Policy) []Share {
	method := effectiveMethod(p)
	if method == models.AllToNomination && len(selfTargets) > 0 {
		// Every pool, the help one included, reverts to the nomination.
		shares := distributeSelf(selfAmount+helpAmount+mixedAmount, selfTargets, p)
		return append(shares, distributeHelp(0, helpTargets, p)...)
	}
	if method == models.EqualPerPerson && len(selfTargets) > 0 && len(helpTargets) > 0 {
		return splitGroups(selfAmount+helpAmount+mixedAmount, selfTargets, helpTargets, p)
	}
	toSelf, toHelp := splitMixedPool(mixedAmount, p, len(selfTargets), len(helpTargets))
	shares := distributeSelf(selfAmount+toSelf, selfTargets, p)
	shares = append(shares, distributeHelp(helpAmount+toHelp, helpTargets, p)...)
	return shares
}

// effectiveMethod collapses nomination_only to all_to_nomination before any
// group handling.
func effectiveMethod(p Policy) models.HelpDistributionMethod {
	if p.MultiCastDistribution == models.NominationOnly {
		return models.AllToNomination
	}
	return p.HelpDistributionMethod
}

// splitGroups applies the help distribution method to one amount over the
// self and help groups.
func splitGroups(amount int64, selfTargets, helpTargets []string, p Policy) []Share {
	// Collapsed before the single-group paths: under all_to_nomination help
	// never earns a cut, not even on a help-only group.
	method := effectiveMethod(p)

	bothPresent := len(selfTargets) > 0 && len(helpTargets) > 0
	if !bothPresent {
		if len(selfTargets) > 0 {
			return distributeSelf(amount, selfTargets, p)
		}
		if method == models.AllToNomination {
			return distributeHelp(0, helpTargets, p)
		}
		return distributeHelp(amount, helpTargets, p)
	}

	switch method {
	case models.EqualSplit:
		selfPool := amount / 2
		shares := distributeSelf(selfPool, selfTargets, p)
		return append(shares, distributeHelp(amount-selfPool, helpTargets, p)...)
	case models.RatioSplit:
		selfPool := amount * int64(100-p.HelpRatio) / 100
		shares := distributeSelf(selfPool, selfTargets, p)
		return append(shares, distributeHelp(amount-selfPool, helpTargets, p)...)
	case models.EqualPerPerson:
		head := int64(len(selfTargets) + len(helpTargets))
		per := amount / head
		shares := make([]Share, 0, head)
		rem := amount - per*head
		for i, name := range selfTargets {
			s := Share{Name: name, Role: RoleSelf, Amount: per}
			if i == 0 {
				s.Amount += rem
			}
			shares = append(shares, s)
		}
		for _, name := range helpTargets {
			a := per
			if p.HelpSalesInclusion != models.BothSelfAndHelp {
				a = 0
			}
			shares = append(shares, Share{Name: name, Role: RoleHelp, Amount: a})
		}
		return shares
	default: // all_to_nomination
		shares := distributeSelf(amount, selfTargets, p)
		return append(shares, distributeHelp(0, helpTargets, p)...)
	}
}

// distributeSelf divides a self pool among its targets: by the configured
// multi-nomination ratios when they match the target count, equally
// otherwise. The first target absorbs the floor remainder.
func distributeSelf(pool int64, targets []string, p Policy) []Share {
	if len(targets) == 0 {
		return nil
	}
	shares := make([]Share, len(targets))
	if len(targets) > 1 && len(p.MultiNominationRatios) == len(targets) {
		var given int64
		for i, name := range targets {
			amt := pool * int64(p.MultiNominationRatios[i]) / 100
			shares[i] = Share{Name: name, Role: RoleSelf, Amount: amt}
			given += amt
		}
		shares[0].Amount += pool - given
		return shares
	}
	per := pool / int64(len(targets))
	for i, name := range targets {
		shares[i] = Share{Name: name, Role: RoleSelf, Amount: per}
	}
	shares[0].Amount += pool - per*int64(len(targets))
	return shares
}

// distributeHelp divides a help pool equally; amounts are zeroed unless the
// policy records help sales.
func distributeHelp(pool int64, targets []string, p Policy) []Share {
	if len(targets) == 0 {
		return nil
	}
	include := p.HelpSalesInclusion == models.BothSelfAndHelp
	shares := make([]Share, len(targets))
	per := pool / int64(len(targets))
	for i, name := range targets {
		amt := per
		if i == 0 {
			amt += pool - per*int64(len(targets))
		}
		if !include {
			amt = 0
		}
		shares[i] = Share{Name: name, Role: RoleHelp, Amount: amt}
	}
	return shares
}

// splitMixedPool portions the mixed-line pool between the two groups per the
// distribution method, once.
func splitMixedPool(mixed int64, p Policy, selfCount, helpCount int) (int64, int64) {
	if mixed == 0 {
		return 0, 0
	}
	if helpCount == 0 || p.MultiCastDistribution == models.NominationOnly {
		return mixed, 0
	}
	if selfCount == 0 {
		return 0, mixed
	}
	switch p.HelpDistributionMethod {
	case models.EqualSplit:
		toSelf := mixed / 2
		return toSelf, mixed - toSelf
	case models.RatioSplit:
		toSelf := mixed * int64(100-p.HelpRatio) / 100
		return toSelf, mixed - toSelf
	case models.EqualPerPerson:
		toSelf := mixed * int64(selfCount) / int64(selfCount+helpCount)
		return toSelf, mixed - toSelf
	default:
		return mixed, 0
	}
}
