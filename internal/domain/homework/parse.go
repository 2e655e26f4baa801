package homework

import (
	"fmt"
	"math"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cast"
)

const (
	homeworksKey   = "homeworks"
	currentDateKey = "current_date"
)

// CheckResponse validates the shape of a decoded API answer and returns its
// homework records in API order. The answer must be an object carrying a
// "homeworks" array of objects.
func CheckResponse(response any) ([]Homework, error) {
	body, ok := response.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: response is %T, want object", ErrResponseType, response)
	}

	raw, present := body[homeworksKey]
	if !present {
		return nil, fmt.Errorf("%w: %q key is missing", ErrResponseType, homeworksKey)
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q is %T, want array", ErrResponseType, homeworksKey, raw)
	}

	homeworks := make([]Homework, 0, len(items))
	for i, item := range items {
		record, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] is %T, want object", ErrResponseType, homeworksKey, i, item)
		}
		var hw Homework
		if err := mapstructure.Decode(record, &hw); err != nil {
			return nil, fmt.Errorf("%w: %s[%d]: %v", ErrResponseType, homeworksKey, i, err)
		}
		homeworks = append(homeworks, hw)
	}
	return homeworks, nil
}

// CurrentDate extracts the server-side cursor from a decoded API answer.
// ok is false when the answer carries no current_date.
func CurrentDate(response any) (timestamp int64, ok bool, err error) {
	body, isMap := response.(map[string]any)
	if !isMap {
		return 0, false, fmt.Errorf("%w: response is %T, want object", ErrResponseType, response)
	}
	raw, present := body[currentDateKey]
	if !present || raw == nil {
		return 0, false, nil
	}
	// current_date must be a JSON integer; booleans, strings and fractions are rejected.
	switch v := raw.(type) {
	case bool, string:
		return 0, false, fmt.Errorf("%w: %q is %T, want integer", ErrResponseType, currentDateKey, raw)
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, false, fmt.Errorf("%w: %q is %v, want integer", ErrResponseType, currentDateKey, v)
		}
	}
	timestamp, err = cast.ToInt64E(raw)
	if err != nil {
		return 0, false, fmt.Errorf("%w: %q: %v", ErrResponseType, currentDateKey, err)
	}
	return timestamp, true, nil
}

// ParseStatus builds the chat message for a homework record.
func ParseStatus(hw Homework) (string, error) {
	name := hw.DisplayName()
	if name == "" {
		return "", ErrMissingHomeworkName
	}
	verdict, ok := Verdicts[hw.Status]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, hw.Status)
	}
	return fmt.Sprintf("Изменился статус проверки работы \"%s\". %s", name, verdict), nil
}
