package metrics

type Recorder interface {
	TransitionProcessed(action string)
	FlushFailed()
	NotificationFailed()
	OpenSessions(n int)
}

type Noop struct{}

func (Noop) TransitionProcessed(string) {}
func (Noop) FlushFailed()               {}
func (Noop) NotificationFailed()        {}
func (Noop) OpenSessions(int)           {}
