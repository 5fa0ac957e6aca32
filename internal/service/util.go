package service

import (
	"strings"
	"time"
)

var now = time.Now

func timeUntil(t time.Time) time.Duration {
	if t.IsZero() {
		return 0
	}
	return t.Sub(now())
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
