package service

import (
	"context"
	"fmt"

	"meubleerp/internal/model"
	"meubleerp/internal/worker"

	"github.com/google/uuid"
)

// Documents indexes the document services by kind. It is the e-mail worker's
// source of rendered PDFs.
type Documents map[model.DocumentKind]DocumentService

func NewDocuments(services ...DocumentService) Documents {
	d := make(Documents, len(services))
	for _, s := range services {
		d[s.Kind()] = s
	}
	return d
}

func (d Documents) RenderPDF(ctx context.Context, kind model.DocumentKind, id uuid.UUID) (*worker.RenderedDocument, error) {
	svc, ok := d[kind]
	if !ok {
		return nil, fmt.Errorf("type de document %q inconnu", kind)
	}
	return svc.GenererPDF(ctx, id)
}

var _ worker.DocumentSource = Documents(nil)
