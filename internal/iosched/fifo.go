package iosched

import "container/list"

// fifo is one of the scheduler's two dispatch queues. Requests keep a pointer
// to their list element and owning queue so a merge notification can unlink
// them in constant time.
//
// No locking: the scheduler's owner serializes every call.
type fifo struct {
	requests *list.List
}

func newFIFO() *fifo {
	return &fifo{requests: list.New()}
}

// push appends req to the tail.
func (q *fifo) push(req *Request) {
	req.elem = q.requests.PushBack(req)
	req.owner = q
}

// pop removes and returns the head, or nil when empty.
func (q *fifo) pop() *Request {
	front := q.requests.Front()
	if front == nil {
		return nil
	}
	req := front.Value.(*Request)
	q.unlink(req)
	return req
}

// remove unlinks req if this queue owns it.
func (q *fifo) remove(req *Request) bool {
	if req == nil || req.owner != q || req.elem == nil {
		return false
	}
	q.unlink(req)
	return true
}

func (q *fifo) unlink(req *Request) {
	q.requests.Remove(req.elem)
	req.elem = nil
	req.owner = nil
}

func (q *fifo) len() int {
	return q.requests.Len()
}

// reset detaches every queued request and returns how many there were.
func (q *fifo) reset() int {
	n := q.requests.Len()
	for e := q.requests.Front(); e != nil; e = e.Next() {
		req := e.Value.(*Request)
		req.elem = nil
		req.owner = nil
	}
	q.requests.Init()
	return n
}

// snapshot returns the queued requests head first without removing them.
func (q *fifo) snapshot() []*Request {
	out := make([]*Request, 0, q.requests.Len())
	for e := q.requests.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*Request))
	}
	return out
}
