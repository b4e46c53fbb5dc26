package algolia

import (
	"context"
	"fmt"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/letmevibethatforyou/discussx"
)

// object is an archived record keyed by its post identifier, so re-archiving
// the same discussion overwrites it.
type object struct {
	ObjectID string `json:"objectID"`
	discussx.Record
}

// Archive saves ranked records to one index.
type Archive struct {
	client    *Client
	indexName string
}

// NewArchive creates an archive writing to indexName.
func NewArchive(client *Client, indexName string) *Archive {
	return &Archive{client: client, indexName: indexName}
}

// Archive batch-saves records. An empty batch is a no-op.
func (a *Archive) Archive(ctx context.Context, records []discussx.Record) error {
	if len(records) == 0 {
		return nil
	}

	_, span := a.client.tracer.Start(ctx, "algolia.batch_save_objects",
		trace.WithAttributes(
			attribute.String("algolia.index_name", a.indexName),
			attribute.Int("algolia.object_count", len(records)),
		),
	)
	defer span.End()

	index, err := a.client.openIndex(a.indexName)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to get Algolia client")
		return err
	}

	objects := make([]object, len(records))
	for i, r := range records {
		objects[i] = object{ObjectID: r.ID, Record: r}
	}

	if _, err := index.SaveObjects(objects); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, fmt.Sprintf("failed to batch save %d objects to index %s", len(objects), a.indexName))
		return errors.Mark(
			errors.Wrapf(err, "failed to batch save objects to Algolia index %s", a.indexName),
			discussx.ErrBackendUnavailable,
		)
	}

	span.SetStatus(codes.Ok, fmt.Sprintf("batch saved %d objects successfully", len(objects)))
	return nil
}
