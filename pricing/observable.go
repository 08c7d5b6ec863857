package pricing

// Observer is notified when an observed input changes.
type Observer interface {
	Update()
}

// Observable keeps a set of observers and notifies them of changes.
// It is meant to be embedded; the zero value is ready to use.
type Observable struct {
	observers []Observer
}

// Register adds o unless it is already registered.
func (ob *Observable) Register(o Observer) {
	for _, x := range ob.observers {
		if x == o {
			return
		}
	}
	ob.observers = append(ob.observers, o)
}

// Unregister removes o.
func (ob *Observable) Unregister(o Observer) {
	for i, x := range ob.observers {
		if x == o {
			ob.observers = append(ob.observers[:i], ob.observers[i+1:]...)
			return
		}
	}
}

// NotifyObservers calls Update on every registered observer.
func (ob *Observable) NotifyObservers() {
	// observers may unregister during notification
	snapshot := append([]Observer(nil), ob.observers...)
	for _, o := range snapshot {
		o.Update()
	}
}

// ObserverCount returns the number of registered observers.
func (ob *Observable) ObserverCount() int {
	return len(ob.observers)
}

// Subject is anything an Observer can register with.
type Subject interface {
	Register(Observer)
	Unregister(Observer)
}
