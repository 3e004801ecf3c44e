package service

// ChangePublisher fans an entity change notification out to connected
// clients. Implementations must not block the caller.
type ChangePublisher interface {
	PublishChange(resource, action, id string)
}

// publishChange notifies when a publisher is wired, and is a no-op otherwise.
func publishChange(p ChangePublisher, resource, action, id string) {
	if p == nil {
		return
	}
	p.PublishChange(resource, action, id)
}
