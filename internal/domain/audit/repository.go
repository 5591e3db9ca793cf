package audit

import "context"

// Filter narrows audit queries; zero values mean "no constraint"
type Filter struct {
	ActorID    string
	CustomerID string
	StationID  string
}

// Repository manages audit log persistence
type Repository interface {
	Append(ctx context.Context, entry *Entry) error
	ListRecent(ctx context.Context, filter Filter, limit int) ([]*Entry, error)
}
