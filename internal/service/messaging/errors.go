package messaging

import "errors"

// CoinsNeeded extracts the shortfall details from an unlock error.
func CoinsNeeded(err error) (needed, current int64, ok bool) {
	var short *InsufficientFundsError
	if !errors.As(err, &short) {
		return 0, 0, false
	}
	return short.Needed, short.Current, true
}
