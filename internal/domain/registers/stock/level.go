package stock

// Level bands a stock balance for presentation.
type Level string

const (
	LevelCritical Level = "critical" // out of stock or oversold
	LevelLow      Level = "low"
	LevelOK       Level = "ok"
)

// lowThreshold is the largest balance still considered low.
const lowThreshold = 10

// Classify bands a stock integer.
func Classify(stock int) Level {
	switch {
	case stock <= 0:
		return LevelCritical
	case stock <= lowThreshold:
		return LevelLow
	default:
		return LevelOK
	}
}
