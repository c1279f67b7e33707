package budget

// Budget is a snapshot of an embedding token budget for one period.
type Budget struct {
	tokensLimit     int64
	tokensRemaining int64
	resetsAt        int64 // unix millis, converted to RFC 3339 at transport layer
}

// New creates a Budget snapshot. A zero limit means unlimited; remaining is then ignored.
func New(limit, remaining, resetsAt int64) Budget {
	if limit <= 0 {
		return Budget{resetsAt: resetsAt}
	}
	return Budget{
		tokensLimit:     limit,
		tokensRemaining: max(remaining, 0),
		resetsAt:        resetsAt,
	}
}

// TokensLimit returns the token cap (0 if unlimited).
func (b Budget) TokensLimit() int64 { return b.tokensLimit }

// TokensRemaining returns tokens left (0 if unlimited or spent).
func (b Budget) TokensRemaining() int64 { return b.tokensRemaining }

// Unlimited reports whether no cap is configured for the period.
func (b Budget) Unlimited() bool { return b.tokensLimit == 0 }

// IsExhausted reports whether a capped budget is spent.
func (b Budget) IsExhausted() bool { return !b.Unlimited() && b.tokensRemaining == 0 }

// ResetsAt returns the reset timestamp (unix millis).
func (b Budget) ResetsAt() int64 { return b.resetsAt }
