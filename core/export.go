package core

// ExportService pushes the full current dataset to an external automation
// endpoint after a mutation. Implementations must never block the caller and
// never surface delivery errors; at-most-once, best effort.
type ExportService interface {
	Export()
}
