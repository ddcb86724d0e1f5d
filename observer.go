package oledanim

// Observer receives run events. Both methods are called synchronously on the
// goroutine running the conversion, in order; there is no buffering.
type Observer interface {
	// Progress reports the percentage (0-100) of input files completed.
	// It is called once per completed file and never decreases.
	Progress(percent float64)
	// Event reports a human readable status or failure message.
	Event(msg string)
}

// ObserverFuncs adapts plain functions to the Observer interface.
// Nil fields are ignored.
type ObserverFuncs struct {
	OnProgress func(percent float64)
	OnEvent    func(msg string)
}

// Progress implements Observer.
func (o ObserverFuncs) Progress(percent float64) {
	if o.OnProgress != nil {
		o.OnProgress(percent)
	}
}

// Event implements Observer.
func (o ObserverFuncs) Event(msg string) {
	if o.OnEvent != nil {
		o.OnEvent(msg)
	}
}

type nopObserver struct{}

func (nopObserver) Progress(float64) {}
func (nopObserver) Event(string)     {}
