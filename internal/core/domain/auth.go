package domain

// Operation enumerates the fund-moving operations subject to caller checks.
type Operation int

const (
	OpCreatePayout Operation = iota
	OpCompletePayout
	OpCloseCampaign
)

// CanPerform is the single authorization policy for fund-moving operations.
// CreatePayout and CloseCampaign are owner-only. CompletePayout may be
// triggered by the payout recipient (pull) or the campaign owner (push on
// behalf); no other identity may settle. The payout argument is only
// consulted for OpCompletePayout.
func CanPerform(op Operation, caller string, c *Campaign, p *PayoutRequest) bool {
	if caller == "" {
		return false
	}
	switch op {
	case OpCreatePayout, OpCloseCampaign:
		return caller == c.Owner
	case OpCompletePayout:
		return caller == p.Recipient || caller == c.Owner
	default:
		return false
	}
}
