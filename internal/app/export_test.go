package app

import "time"

// SetNow overrides the clock used for cache freshness checks in tests.
func (s *ReviewSource) SetNow(now func() time.Time) { s.now = now }
