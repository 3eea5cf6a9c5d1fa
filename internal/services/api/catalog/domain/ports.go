package domain

import "context"

// QueryPort is the read surface handlers and other modules use
type QueryPort interface {
	ListTitles(ctx context.Context, in ListTitlesInput) (TitlePage, error)
	GetTitle(ctx context.Context, id int64) (TitleSummary, error)
	ListParts(ctx context.Context, titleID int64) (TitleParts, error)
	GetPart(ctx context.Context, id int64) (PartView, error)
	DeepLink(externalMessageID int64) string
}
