package platform

import "sync"

// Notifier posts local banner notifications through the host.
var Notifier = &NotifierService{
	channel: NewMethodChannel("arbor/notify"),
}

// NotifierService wraps the host's local notification API.
type NotifierService struct {
	channel *MethodChannel
	mu      sync.Mutex
	nextID  int64
}

// Show posts a banner notification and returns its host-side identifier.
func (n *NotifierService) Show(title, body string) (int64, error) {
	n.mu.Lock()
	n.nextID++
	id := n.nextID
	n.mu.Unlock()

	_, err := n.channel.Invoke("show", map[string]any{
		"id":    id,
		"title": title,
		"body":  body,
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Dismiss removes a previously shown notification.
func (n *NotifierService) Dismiss(id int64) error {
	_, err := n.channel.Invoke("dismiss", map[string]any{"id": id})
	return err
}

// reset restores the service to its initial state. Called by ResetForTest.
func (n *NotifierService) reset() {
	n.mu.Lock()
	n.nextID = 0
	n.mu.Unlock()
}
