package matching

import (
	"context"
	"sort"
	"strings"

	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/schema"
	"github.com/Ramsey-B/fern/pkg/tracing"
)

// bucket holds the indexes of records sharing one blocking key value.
type bucket struct {
	label   string
	records []int
}

// blockingKey builds the key of one record for one key definition. Values
// are coerced to their field's data type first, so equal values in
// different raw forms share a key. Missing values and values that do not
// fit the type contribute an empty component.
func (e *Engine) blockingKey(kp keyPlan, record models.Record) string {
	var sb strings.Builder
	for i, field := range kp.fields {
		value := e.extractor.Value(record.Fields, field.Name)
		if value == nil {
			continue
		}
		s, err := schema.Coerce(value, kp.dataTypes[i])
		if err != nil {
			continue
		}
		sb.WriteString(kp.builders[i].BuildKey(s))
	}
	return sb.String()
}

// block groups records into buckets. Buckets come out ordered by key
// definition, then by key value, so runs are reproducible.
func (e *Engine) block(ctx context.Context, p *plan, records []models.Record) ([]bucket, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.Engine.block")
	defer span.End()

	var buckets []bucket
	for _, kp := range p.keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		byKey := make(map[string][]int)
		for i, record := range records {
			key := e.blockingKey(kp, record)
			if key == "" && e.config.SkipEmptyKeys {
				continue
			}
			byKey[key] = append(byKey[key], i)
		}

		values := make([]string, 0, len(byKey))
		for key := range byKey {
			values = append(values, key)
		}
		sort.Strings(values)

		for _, key := range values {
			buckets = append(buckets, bucket{label: bucketLabel(kp.target, key), records: byKey[key]})
		}
	}

	e.logger.WithContext(ctx).WithFields(map[string]any{
		"profile": p.profile,
		"buckets": len(buckets),
	}).Debug("Built blocking buckets")

	return buckets, nil
}
