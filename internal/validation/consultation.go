package validation

import "time"

// CheckWindow проверяет временное окно консультации относительно снимка now.
// usable=false, если окно непригодно для поиска пересечений: нет одной из
// границ или конец не позже начала.
func CheckWindow(start, end, now time.Time, requireFuture bool) (errs Errors, usable bool) {
	errs = Errors{}

	if start.IsZero() {
		errs.Add("start_time", MsgRequired)
	}
	if end.IsZero() {
		errs.Add("end_time", MsgRequired)
	}
	if !errs.Empty() {
		return errs, false
	}

	usable = true
	if !start.Before(end) {
		errs.Add("end_time", MsgEndBeforeStart)
		usable = false
	}

	// Граница включительная: начало ровно в now допустимо
	if requireFuture && start.Before(now) {
		errs.Add("start_time", MsgStartInPast)
	}

	return errs, usable
}
