package flow

import "time"

// Timing holds the fixed delays of the scripted flow.
type Timing struct {
	Submit         time.Duration // entry submitted -> generation starts
	RevealCode     time.Duration // generation starts -> code shown
	RevealAlert    time.Duration // code shown -> problem alert, contract ready
	SessionKey     time.Duration // contract ready -> session key shown
	DeployInterval time.Duration // between deploy status lines
	Results        time.Duration // status sequence done -> results shown
}

// DefaultTiming returns the delays used by the live demo.
func DefaultTiming() Timing {
	return Timing{
		Submit:         500 * time.Millisecond,
		RevealCode:     2000 * time.Millisecond,
		RevealAlert:    1000 * time.Millisecond,
		SessionKey:     500 * time.Millisecond,
		DeployInterval: 800 * time.Millisecond,
		Results:        1000 * time.Millisecond,
	}
}

// Scale returns t with every delay divided by speed. A speed of 2 runs the
// demo twice as fast. Non-positive speeds leave t unchanged.
func (t Timing) Scale(speed float64) Timing {
	if speed <= 0 || speed == 1 {
		return t
	}
	scale := func(d time.Duration) time.Duration {
		return time.Duration(float64(d) / speed)
	}
	return Timing{
		Submit:         scale(t.Submit),
		RevealCode:     scale(t.RevealCode),
		RevealAlert:    scale(t.RevealAlert),
		SessionKey:     scale(t.SessionKey),
		DeployInterval: scale(t.DeployInterval),
		Results:        scale(t.Results),
	}
}

// GenerateDuration is the time from generation start to ContractReady.
func (t Timing) GenerateDuration() time.Duration {
	return t.RevealCode + t.RevealAlert
}

// DeployDuration is the time from deploy start to Deployed for n status lines.
// The interval keeps ticking once past the last line before the results wait.
func (t Timing) DeployDuration(n int) time.Duration {
	return time.Duration(n+1)*t.DeployInterval + t.Results
}
