package services

import (
	"fmt"
	"time"
)

const batchCodeNamespace = "DOK"

// BatchCodePrefix builds the shared date+product part of a batch code, e.g.
// "DOK-20260831-CJ-".
func BatchCodePrefix(day time.Time, productCode string) string {
	return fmt.Sprintf("%s-%s-%s-", batchCodeNamespace, day.Format("20060102"), productCode)
}

// FormatBatchCode appends the zero-padded sequence number to a prefix.
func FormatBatchCode(prefix string, seq int64) string {
	return fmt.Sprintf("%s%03d", prefix, seq)
}
