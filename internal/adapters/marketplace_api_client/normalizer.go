package marketplace_api_client

import "encoding/json"

// Списочные ответы marketplace API приходят в разных обертках.
// probeListPayload пробует формы в приоритетном порядке:
//  1. голый массив
//  2. обертка с полем "properties"
//  3. доменные обертки "similar_properties" / "recommendations"
//  4. вложенная обертка "data", повторяющая любую из форм выше
//
// Вторым результатом сообщает, была ли форма распознана.
func probeListPayload(raw []byte) ([]PropertyPayload, bool) {
	var items []PropertyPayload
	if err := json.Unmarshal(raw, &items); err == nil {
		return items, true
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, false
	}

	for _, field := range []string{"properties", "similar_properties", "recommendations"} {
		inner, ok := wrapper[field]
		if !ok {
			continue
		}
		if err := json.Unmarshal(inner, &items); err == nil {
			return items, true
		}
	}

	if inner, ok := wrapper["data"]; ok {
		return probeListPayload(inner)
	}

	return nil, false
}

// NormalizeListPayload приводит произвольный списочный ответ к канонической
// последовательности. Нераспознанная форма дает пустую последовательность,
// а не ошибку: вызывающий код не должен падать на неожиданном выводе сервера.
// Функция чистая, без побочных эффектов.
func NormalizeListPayload(raw []byte) []PropertyPayload {
	items, ok := probeListPayload(raw)
	if !ok || items == nil {
		return []PropertyPayload{}
	}
	return items
}
