package cache

// lruList keeps keys in recency order. The head side is most recent.
type lruList struct {
	head  *lruNode
	tail  *lruNode
	nodes map[string]*lruNode
}

type lruNode struct {
	key        string
	prev, next *lruNode
}

func newLRUList() *lruList {
	head := &lruNode{}
	tail := &lruNode{}
	head.next = tail
	tail.prev = head
	return &lruList{head: head, tail: tail, nodes: make(map[string]*lruNode)}
}

// touch inserts key at the front, or moves it there if already present.
func (l *lruList) touch(key string) {
	if node, ok := l.nodes[key]; ok {
		l.unlink(node)
		l.pushFront(node)
		return
	}
	node := &lruNode{key: key}
	l.nodes[key] = node
	l.pushFront(node)
}

func (l *lruList) remove(key string) {
	if node, ok := l.nodes[key]; ok {
		l.unlink(node)
		delete(l.nodes, key)
	}
}

// oldest removes and returns the least recently used key.
func (l *lruList) oldest() (string, bool) {
	if len(l.nodes) == 0 {
		return "", false
	}
	node := l.tail.prev
	l.unlink(node)
	delete(l.nodes, node.key)
	return node.key, true
}

func (l *lruList) len() int {
	return len(l.nodes)
}

func (l *lruList) pushFront(node *lruNode) {
	node.next = l.head.next
	node.prev = l.head
	l.head.next.prev = node
	l.head.next = node
}

func (l *lruList) unlink(node *lruNode) {
	node.prev.next = node.next
	node.next.prev = node.prev
}
