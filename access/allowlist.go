// Package access — проверка доступа по внешнему списку номеров.
// Список ведется в удаленной таблице и скачивается как CSV.
package access

import (
	"encoding/csv"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// Checker отвечает на один вопрос: можно ли пускать этот идентификатор.
type Checker interface {
	IsAllowed(identifier string) bool
}

// SheetChecker скачивает CSV-таблицу и ищет идентификатор в первом
// столбце. Любая ошибка сети или разбора — отказ, никогда не допуск.
type SheetChecker struct {
	URL    string
	Client *http.Client
}

func NewSheetChecker(url string, timeout time.Duration) *SheetChecker {
	return &SheetChecker{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

func (c *SheetChecker) IsAllowed(identifier string) bool {
	clean := strings.TrimSpace(identifier)
	if clean == "" || c.URL == "" {
		return false
	}

	resp, err := c.Client.Get(c.URL)
	if err != nil {
		log.Println("Allow-list fetch failed:", err)
		return false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		log.Println("Allow-list fetch returned status:", resp.StatusCode)
		return false
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1 // лишние столбцы в таблице не мешают
	records, err := reader.ReadAll()
	if err != nil {
		log.Println("Allow-list parse failed:", err)
		return false
	}

	for _, record := range records {
		if len(record) == 0 {
			continue
		}
		if strings.TrimSpace(record[0]) == clean {
			return true
		}
	}
	return false
}
