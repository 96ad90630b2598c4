// period.go — внутреннее представление периода и сравнение с датой отсечения.
package searchkey

import (
	"strconv"
	"strings"
)

// DefaultCutoff — дата отсечения по умолчанию (октябрь 2025).
const DefaultCutoff Period = 102025

// Period — период в форме month*10000+year.
//
// Это не хронологический порядок: 12/2024 (122024) больше 1/2025 (12025).
// Сравнение сохраняется именно таким, как его ожидают действующие настройки
// отсечения.
type Period int

// NewPeriod строит период из месяца и года.
func NewPeriod(month, year int) Period {
	return Period(month*10000 + year)
}

// Source — источник документов.
type Source int

const (
	// SourceHistorical — исторический репозиторий (записи БД + файлы).
	SourceHistorical Source = iota
	// SourceOnline — синтезированный источник текущих периодов.
	SourceOnline
)

// String возвращает имя источника для логов и метрик.
func (s Source) String() string {
	switch s {
	case SourceOnline:
		return "online"
	default:
		return "historical"
	}
}

// NormalizeCutoff приводит текстовое значение отсечения к Period.
// Порядок попыток: MMYYYY, YYYYMM, целое число как есть.
// Если ничего не подошло — DefaultCutoff.
func NormalizeCutoff(raw string) Period {
	v := strings.TrimSpace(raw)
	if v == "" {
		return DefaultCutoff
	}

	if len(v) == 6 {
		mm, errM := strconv.Atoi(v[0:2])
		yyyy, errY := strconv.Atoi(v[2:6])
		if errM != nil || errY != nil {
			return DefaultCutoff
		}
		if ValidMonthYear(mm, yyyy) {
			return NewPeriod(mm, yyyy)
		}

		yyyy2, errY := strconv.Atoi(v[0:4])
		mm2, errM := strconv.Atoi(v[4:6])
		if errM != nil || errY != nil {
			return DefaultCutoff
		}
		if ValidMonthYear(mm2, yyyy2) {
			return NewPeriod(mm2, yyyy2)
		}
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return DefaultCutoff
	}
	return Period(n)
}

// Decide выбирает источник: онлайн, если период ключа не меньше отсечения.
func Decide(key SearchKey, cutoff string) Source {
	return DecidePeriod(key, NormalizeCutoff(cutoff))
}

// DecidePeriod — вариант Decide с уже нормализованным отсечением.
func DecidePeriod(key SearchKey, cutoff Period) Source {
	if key.Period() >= cutoff {
		return SourceOnline
	}
	return SourceHistorical
}
