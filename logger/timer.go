package logger

import "time"

// Timer measures one named phase of work. Obtain one from
// Console.StartTimer and call End when the phase finishes.
type Timer struct {
	StartTime time.Time
	Name      string
	Console   *Console
}

// End reports the elapsed time on the console and returns it.
func (t *Timer) End() time.Duration {
	elapsed := time.Since(t.StartTime)
	t.Console.Info("%s completed in %v", t.Name, elapsed)
	return elapsed
}
