package module

import "shoof/internal/services/catalog/domain"

// Ports defines the catalog module ports exposed via the registry
type Ports struct {
	Writer domain.WriterPort
}
