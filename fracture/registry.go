package fracture

import "github.com/akmonengine/shatter/scene"

// Registry is the ordered set of objects owning a dynamic body
type Registry struct {
	objects []*scene.Object
	index   map[*scene.Object]int
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[*scene.Object]int)}
}

// Add returns false when obj is already registered
func (r *Registry) Add(obj *scene.Object) bool {
	if _, ok := r.index[obj]; ok {
		return false
	}

	r.index[obj] = len(r.objects)
	r.objects = append(r.objects, obj)
	return true
}

// Remove keeps the insertion order of the remaining objects
func (r *Registry) Remove(obj *scene.Object) bool {
	i, ok := r.index[obj]
	if !ok {
		return false
	}

	delete(r.index, obj)
	r.objects = append(r.objects[:i], r.objects[i+1:]...)
	for j := i; j < len(r.objects); j++ {
		r.index[r.objects[j]] = j
	}

	return true
}

func (r *Registry) Contains(obj *scene.Object) bool {
	_, ok := r.index[obj]
	return ok
}

func (r *Registry) Len() int {
	return len(r.objects)
}

// Objects is read-only, and invalidated by Add and Remove
func (r *Registry) Objects() []*scene.Object {
	return r.objects
}

// RemovalQueue collects the objects to destroy at the end of a step.
// An object is queued at most once.
type RemovalQueue struct {
	items  []*scene.Object
	queued map[*scene.Object]struct{}
}

func NewRemovalQueue() *RemovalQueue {
	return &RemovalQueue{queued: make(map[*scene.Object]struct{})}
}

// Push returns false when obj is already queued
func (q *RemovalQueue) Push(obj *scene.Object) bool {
	if _, ok := q.queued[obj]; ok {
		return false
	}

	q.queued[obj] = struct{}{}
	q.items = append(q.items, obj)
	return true
}

func (q *RemovalQueue) Len() int {
	return len(q.items)
}

func (q *RemovalQueue) Contains(obj *scene.Object) bool {
	_, ok := q.queued[obj]
	return ok
}

// Drain returns the queued objects in push order and empties the queue
func (q *RemovalQueue) Drain() []*scene.Object {
	items := q.items
	q.Reset()

	return items
}

func (q *RemovalQueue) Reset() {
	q.items = nil
	clear(q.queued)
}
