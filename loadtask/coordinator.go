package loadtask

// Coordinator owns the two independent load slots §4.8 describes: the
// current page and one sub-resource (typically an image) fetch.
type Coordinator struct {
	Page    *Task
	Content *Task
}

// NewCoordinator creates a Coordinator with Content tuned to the
// shorter image-fetch idle timeout (§5).
func NewCoordinator() *Coordinator {
	content := NewTask()
	content.Timeout = defaultImageTimeout
	return &Coordinator{
		Page:    NewTask(),
		Content: content,
	}
}

// OpenURL cancels both in-flight tasks and starts loading url as the
// new page. The arena reset, renderer dirty-set reset, and scroll
// zeroing §5 also requires are the caller's responsibility; this just
// covers the two load slots.
func (c *Coordinator) OpenURL(url string) error {
	c.Content.Stop()
	return c.Page.Load(url)
}

// Stop aborts both slots, e.g. on navigation away or shutdown.
func (c *Coordinator) Stop() {
	c.Page.Stop()
	c.Content.Stop()
}
