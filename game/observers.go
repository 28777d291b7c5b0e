package game

// EventKind identifies a population change notification.
type EventKind int

const (
	FoodCountChanged EventKind = iota
	OrganismCountChanged
)

func (k EventKind) String() string {
	switch k {
	case FoodCountChanged:
		return "food_count_changed"
	case OrganismCountChanged:
		return "organism_count_changed"
	default:
		return "unknown"
	}
}

// Event reports the new count after a population change.
type Event struct {
	Kind  EventKind
	Count int
}

// Observer receives population change notifications.
// Observers run synchronously on the simulation goroutine and must not
// modify the population.
type Observer func(Event)

type subscription struct {
	id int
	fn Observer
}

// observerList is an explicit, ordered list of subscribers.
// Notifications raised inside a bulk section are coalesced into one per kind.
type observerList struct {
	subs   []subscription
	nextID int

	bulkDepth int
	dirty     [2]bool
}

func (l *observerList) subscribe(fn Observer) func() {
	id := l.nextID
	l.nextID++
	l.subs = append(l.subs, subscription{id: id, fn: fn})

	return func() {
		for i, s := range l.subs {
			if s.id == id {
				l.subs = append(l.subs[:i:i], l.subs[i+1:]...)
				return
			}
		}
	}
}

func (l *observerList) notify(kind EventKind, count func() int) {
	if l.bulkDepth > 0 {
		l.dirty[kind] = true
		return
	}
	if len(l.subs) == 0 {
		return
	}
	ev := Event{Kind: kind, Count: count()}
	for _, s := range l.subs {
		s.fn(ev)
	}
}

func (l *observerList) beginBulk() {
	l.bulkDepth++
}

// endBulk closes a bulk section and fires one notification per changed kind.
func (l *observerList) endBulk(foodCount, organismCount func() int) {
	l.bulkDepth--
	if l.bulkDepth > 0 {
		return
	}
	if l.dirty[FoodCountChanged] {
		l.dirty[FoodCountChanged] = false
		l.notify(FoodCountChanged, foodCount)
	}
	if l.dirty[OrganismCountChanged] {
		l.dirty[OrganismCountChanged] = false
		l.notify(OrganismCountChanged, organismCount)
	}
}
