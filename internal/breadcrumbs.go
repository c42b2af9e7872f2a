package internal

// Breadcrumb is a timestamped, categorized note describing a discrete event
// leading up to an issue.
type Breadcrumb struct {
	Time     int64                  `json:"time"`
	Category string                 `json:"category"`
	Action   string                 `json:"action"`
	Message  string                 `json:"message"`
	Metadata map[string]interface{} `json:"metadata"`
}

// BreadcrumbBuffer is a bounded FIFO of breadcrumbs.  Once max entries are
// held, adding another evicts the oldest.
type BreadcrumbBuffer struct {
	max    int
	crumbs []Breadcrumb
}

func NewBreadcrumbBuffer(max int) *BreadcrumbBuffer {
	return &BreadcrumbBuffer{
		max:    max,
		crumbs: make([]Breadcrumb, 0, max),
	}
}

func (b *BreadcrumbBuffer) Add(crumb Breadcrumb) {
	if nil == crumb.Metadata {
		crumb.Metadata = map[string]interface{}{}
	}
	b.crumbs = append(b.crumbs, crumb)
	if len(b.crumbs) > b.max {
		b.crumbs = b.crumbs[len(b.crumbs)-b.max:]
	}
}

func (b *BreadcrumbBuffer) Len() int {
	return len(b.crumbs)
}

// Contents returns the buffered breadcrumbs in insertion order.  The result
// is a copy: the buffer may keep evicting after a snapshot is taken.
func (b *BreadcrumbBuffer) Contents() []Breadcrumb {
	out := make([]Breadcrumb, len(b.crumbs))
	copy(out, b.crumbs)
	return out
}
