package domain

// Границы важности критериев в запросе рекомендаций
const (
	WeightMin     = 1
	WeightMax     = 10
	WeightNeutral = 5
)

// PreferenceWeights - важность критериев для ранжирования (1..10).
// Нулевое значение означает "не задано" и разрешается в нейтральную пятерку.
// Сами веса нигде не валидируются строже диапазона: это параметры запроса,
// алгоритм ранжирования живет на стороне marketplace API.
type PreferenceWeights struct {
	Price     int
	Location  int
	Size      int
	Amenities int
}

// Resolved возвращает копию весов: незаданные заменены нейтральными,
// остальные зажаты в допустимый диапазон
func (w PreferenceWeights) Resolved() PreferenceWeights {
	return PreferenceWeights{
		Price:     resolveWeight(w.Price),
		Location:  resolveWeight(w.Location),
		Size:      resolveWeight(w.Size),
		Amenities: resolveWeight(w.Amenities),
	}
}

func resolveWeight(v int) int {
	if v == 0 {
		return WeightNeutral
	}
	if v < WeightMin {
		return WeightMin
	}
	if v > WeightMax {
		return WeightMax
	}
	return v
}
