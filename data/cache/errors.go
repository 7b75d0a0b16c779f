package cache

import "errors"

var ErrNotFound = errors.New("error not found in cache")

func fxKey(pair string) string {
	return "fx:" + pair
}

func quoteKey(symbol string) string {
	return "price:" + symbol
}
