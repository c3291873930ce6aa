package domain

import (
	"math"
	"strconv"
)

// FormatPrice renders a price in the base denomination, e.g. "12.5c"
func FormatPrice(price float64) string {
	if price == 0 {
		return "0c"
	}
	if price < 0.01 {
		return "~0c"
	}
	return trimFloat(price) + "c"
}

// FormatDivinePrice switches to divine denomination once the price reaches one divine
func FormatDivinePrice(price, divinePrice float64) string {
	if price == 0 || divinePrice == 0 {
		return "0c"
	}
	if price >= divinePrice {
		return trimFloat(price/divinePrice) + "d"
	}
	return FormatPrice(price)
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
