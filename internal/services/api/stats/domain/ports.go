package domain

import "context"

// ServicePort is consumed by handlers and the cli
type ServicePort interface {
	Summary(ctx context.Context, in SummaryInput) (Summary, error)
	Ingest(ctx context.Context, in IngestInput) (IngestStats, error)
}

// Linker turns a channel message id into a deep link
type Linker interface {
	DeepLink(externalMessageID int64) string
}
