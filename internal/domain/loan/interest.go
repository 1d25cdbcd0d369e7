package loan

import "math/bits"

// BasisPoints is the denominator of every rate and ratio in the ledger.
const BasisPoints = 10_000

// RepaymentAmount is principal + floor(principal*feeRateBps/10000).
func RepaymentAmount(principal, feeRateBps uint64) (uint64, error) {
	fee, err := mulDivFloor(principal, feeRateBps, BasisPoints)
	if err != nil {
		return 0, err
	}
	total, carry := bits.Add64(principal, fee, 0)
	if carry != 0 {
		return 0, ErrAmountOverflow
	}
	return total, nil
}

// MaxPrincipal is floor(referencePrice*maxLoanRatioBps/10000).
func MaxPrincipal(referencePrice, maxLoanRatioBps uint64) (uint64, error) {
	return mulDivFloor(referencePrice, maxLoanRatioBps, BasisPoints)
}

// mulDivFloor keeps the product in 128 bits so only the quotient can overflow.
func mulDivFloor(a, b, d uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi >= d {
		return 0, ErrAmountOverflow
	}
	q, _ := bits.Div64(hi, lo, d)
	return q, nil
}
