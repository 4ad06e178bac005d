package reconcile

// CheckAmountLimit returns an AmountLimitExceeded when current+adding exceeds limit.
// A limit of zero or less means the relation is unbounded.
func CheckAmountLimit(current, adding, limit int, detail string) *AmountLimitExceeded {
	if limit <= 0 {
		return nil
	}
	if current+adding > limit {
		return &AmountLimitExceeded{Limit: limit, Detail: detail}
	}
	return nil
}
