// Пакет searchkey — разбор ключа поиска экспедиента и выбор источника
// документов по периоду (месяц/год) относительно настроенной даты отсечения.
//
// Ключ имеет вид MMYYYY + BU + счёт, но месяц встречается и без ведущего нуля
// (M YYYY BU счёт). Разделителей нет, поэтому разбор идёт в две попытки
// с проверкой диапазонов.
package searchkey

import (
	"errors"
	"strconv"
	"strings"
)

// Диапазоны допустимых значений.
const (
	MinYear = 1900
	MaxYear = 2100

	// DefaultBusinessUnitWidth — ширина кода бизнес-единицы по умолчанию.
	DefaultBusinessUnitWidth = 2

	// minDigits — минимальное количество цифр в ключе после очистки.
	minDigits = 8
)

// ErrInvalidKey — ключ не удалось разобрать ни в одной из кодировок.
var ErrInvalidKey = errors.New("некорректный ключ поиска")

// SearchKey — структурированная идентичность, извлечённая из ключа.
type SearchKey struct {
	// Month — месяц (1-12).
	Month int
	// Year — год (1900-2100).
	Year int
	// BusinessUnit — код бизнес-единицы фиксированной ширины.
	BusinessUnit string
	// Account — номер счёта/контракта (остаток цифр, может быть пустым).
	Account string
}

// Period возвращает период ключа во внутреннем представлении month*10000+year.
func (k SearchKey) Period() Period {
	return NewPeriod(k.Month, k.Year)
}

// Parse разбирает ключ с шириной бизнес-единицы по умолчанию.
func Parse(raw string) (SearchKey, error) {
	return ParseWidth(raw, DefaultBusinessUnitWidth)
}

// ParseWidth разбирает ключ с указанной шириной бизнес-единицы.
// Сначала пробуется двузначный месяц, затем однозначный.
func ParseWidth(raw string, buWidth int) (SearchKey, error) {
	if buWidth < 0 {
		buWidth = DefaultBusinessUnitWidth
	}

	digits := onlyDigits(raw)
	if len(digits) < minDigits {
		return SearchKey{}, ErrInvalidKey
	}

	if k, ok := tryEncoding(digits, 2, buWidth); ok {
		return k, nil
	}
	if k, ok := tryEncoding(digits, 1, buWidth); ok {
		return k, nil
	}
	return SearchKey{}, ErrInvalidKey
}

// tryEncoding пробует интерпретировать цифры с месяцем шириной monthWidth.
func tryEncoding(digits string, monthWidth, buWidth int) (SearchKey, bool) {
	month, err := strconv.Atoi(sub(digits, 0, monthWidth))
	if err != nil {
		return SearchKey{}, false
	}
	year, err := strconv.Atoi(sub(digits, monthWidth, monthWidth+4))
	if err != nil {
		return SearchKey{}, false
	}
	if !ValidMonthYear(month, year) {
		return SearchKey{}, false
	}

	buEnd := monthWidth + 4 + buWidth
	return SearchKey{
		Month:        month,
		Year:         year,
		BusinessUnit: sub(digits, monthWidth+4, buEnd),
		Account:      sub(digits, buEnd, len(digits)),
	}, true
}

// ValidMonthYear проверяет диапазоны месяца и года.
func ValidMonthYear(month, year int) bool {
	return month >= 1 && month <= 12 && year >= MinYear && year <= MaxYear
}

// sub возвращает подстроку [start, end), обрезая границы по длине строки.
// Выход за пределы даёт пустую строку, а не панику.
func sub(s string, start, end int) string {
	if start > len(s) {
		return ""
	}
	if end > len(s) {
		end = len(s)
	}
	if start >= end {
		return ""
	}
	return s[start:end]
}

func onlyDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
