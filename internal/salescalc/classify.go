package salescalc

import (
	"cast_manager/internal/models"
)

// Classification partitions the staff attached to one line into nominated
// (self) and assisting (help) members.
type Classification struct {
	SelfNames []string
	HelpNames []string
	// NoNomination is set when the order's nomination consists only of
	// non-help labels ("no specific person requested").
	NoNomination bool
}

// ReceiptClass buckets a whole receipt's line amounts by classification.
type ReceiptClass struct {
	SelfRaw  int64
	HelpRaw  int64
	MixedRaw int64
	// Items with nobody attached; assigned to the nomination set.
	UnattributedRaw int64
	// Self staff seen anywhere in the receipt, in first-seen order. The
	// receipt-level distribution target when no specific person was nominated.
	SelfNames []string
	HelpNames []string
}

// NominationSet returns the order's nominated names with non-help labels
// removed.
func NominationSet(order *models.Order, nonHelp []string) []string {
	all := SplitNames(order.StaffName)
	set := make([]string, 0, len(all))
	for _, name := range all {
		if !contains(nonHelp, name) {
			set = append(set, name)
		}
	}
	return set
}

// ClassifyItem labels one line's attached staff against the order's
// nomination set. When the nomination holds no real person, every attached
// staff member counts as SELF.
func ClassifyItem(item *models.OrderItem, nominations []string) Classification {
	attached := SplitNames(item.CastName)
	c := Classification{NoNomination: len(nominations) == 0}
	if c.NoNomination {
		c.SelfNames = attached
		return c
	}
	for _, name := range attached {
		if contains(nominations, name) {
			c.SelfNames = append(c.SelfNames, name)
		} else {
			c.HelpNames = append(c.HelpNames, name)
		}
	}
	return c
}

// ClassifyReceipt scans all lines of an order and accumulates raw totals per
// class. A line with both self and help staff is mixed; its amount is pooled
// separately and split once by the receipt splitter. Lines with nobody
// attached (or products that need no cast) go to the unattributed pool.
func ClassifyReceipt(order *models.Order, nominations []string) ReceiptClass {
	var rc ReceiptClass
	for i := range order.Items {
		item := &order.Items[i]
		if !item.NeedsCast {
			rc.UnattributedRaw += item.Subtotal
			continue
		}
		c := ClassifyItem(item, nominations)
		for _, n := range c.SelfNames {
			if !contains(rc.SelfNames, n) {
				rc.SelfNames = append(rc.SelfNames, n)
			}
		}
		for _, n := range c.HelpNames {
			if !contains(rc.HelpNames, n) {
				rc.HelpNames = append(rc.HelpNames, n)
			}
		}
		switch {
		case len(c.SelfNames) == 0 && len(c.HelpNames) == 0:
			rc.UnattributedRaw += item.Subtotal
		case len(c.HelpNames) == 0:
			rc.SelfRaw += item.Subtotal
		case len(c.SelfNames) == 0:
			rc.HelpRaw += item.Subtotal
		default:
			rc.MixedRaw += item.Subtotal
		}
	}
	return rc
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
