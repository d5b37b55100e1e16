package cache

import (
	"time"
)

// TimeUntilNextMidnightUTC は次のUTC午前0時までの期間を返します。
// 日次の終値は1日1回しか変わらないため、キャッシュTTLとして使用します。
func TimeUntilNextMidnightUTC() time.Duration {
	now := time.Now().UTC()

	next := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)

	return next.Sub(now)
}
