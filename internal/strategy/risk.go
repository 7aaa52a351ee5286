package strategy

// Levels derives the stop and target prices. With a positive ATR the stop
// sits 2 ATR below price and the target mirrors twice that distance above.
// Otherwise fixed percentages apply. The stop is deliberately not clamped
// at zero: an extreme ATR can push it negative.
func Levels(price, atr float64) (stop, target float64) {
	if atr > 0 {
		stop = price - 2*atr
		target = price + 2*(price-stop)
		return stop, target
	}
	return 0.95 * price, 1.10 * price
}
