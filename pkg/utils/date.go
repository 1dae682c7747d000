package utils

import "time"

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)

// MonthKey retorna a chave YYYY-MM do mês da data informada
func MonthKey(date time.Time) string {
	return date.Format(MonthLayout)
}

// MonthKeyFromDate extrai a chave do mês de uma data YYYY-MM-DD
func MonthKeyFromDate(dateStr string) (string, error) {
	date, err := time.Parse(DateLayout, dateStr)
	if err != nil {
		return "", err
	}

	return MonthKey(date), nil
}
