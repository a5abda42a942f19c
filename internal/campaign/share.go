package campaign

// SplitEven computes the per-participant share for a campaign total using
// ceiling division: the sum collected (participants × share) is always
// ≥ totalAmount, never less. Surplus from rounding is an accepted
// artifact. A participant count below one is treated as one, so an empty
// roster still yields a well-defined share.
func SplitEven(totalAmount int64, participants int) int64 {
	n := int64(participants)
	if n < 1 {
		n = 1
	}
	return (totalAmount + n - 1) / n
}
