package clock

import "time"

// Clock единый источник текущего времени.
// Валидация берёт один снимок Now() на проход и сравнивает всё с ним.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// System возвращает системные часы в UTC
func System() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

// Fixed часы, которые всегда показывают одно и то же время
type Fixed time.Time

func (f Fixed) Now() time.Time {
	return time.Time(f)
}
