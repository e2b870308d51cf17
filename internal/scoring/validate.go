package scoring

// ValidateAnswers checks that every expected item is answered and that every
// answer lies in [minValue, maxValue]. It stops at the first offending item,
// walking expectedItems in order.
func ValidateAnswers(answers RawAnswers, expectedItems []int, minValue, maxValue int, instrument string) error {
	for _, item := range expectedItems {
		value, ok := answers[item]
		if !ok {
			return NewMissingAnswer(instrument, item)
		}
		if value < minValue || value > maxValue {
			return NewInvalidValue(instrument, item, value)
		}
	}
	return nil
}

// itemRange returns the item numbers 1..n.
func itemRange(n int) []int {
	items := make([]int, n)
	for i := range items {
		items[i] = i + 1
	}
	return items
}
