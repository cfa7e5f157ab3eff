package workflow

// ClampTokens raises tokens to floor when it falls below it and passes
// larger values through unchanged. It is a monotone floor clamp, not a
// rounding function: applying it twice gives the same result as once.
func ClampTokens(tokens, floor int) int {
	if tokens < floor {
		return floor
	}
	return tokens
}
