package model

import "time"

// Touch records a session contacting the ball
type Touch struct {
	Session Session
	At      time.Time
}
