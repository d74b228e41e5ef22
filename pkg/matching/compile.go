package matching

import (
	"fmt"

	"github.com/Ramsey-B/fern/pkg/aggregate"
	"github.com/Ramsey-B/fern/pkg/compare"
	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/keys"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/schema"
)

// UseProfileThreshold makes Run use MatchingData.Threshold.
const UseProfileThreshold = -1.0

type keyPlan struct {
	target    string
	fields    []models.KeyField
	dataTypes []schema.DataType
	builders  []keys.Builder
}

type comparePlan struct {
	def      models.CompareDefinition
	label    string
	comparer compare.Comparer
	dataType schema.DataType
}

// plan is a validated profile with every strategy resolved.
type plan struct {
	profile    string
	keys       []keyPlan
	compares   []comparePlan
	aggregator aggregate.Aggregator
	weights    []float64
	threshold  float64
}

// compile validates data against the records and resolves all strategies.
// Every problem found is reported in one errors.ConfigErrors.
func (e *Engine) compile(data *models.MatchingData, records []models.Record, threshold float64) (*plan, error) {
	if data == nil {
		return nil, errors.NewConfigError("matching data is required")
	}

	var errs errors.ConfigErrors
	if err := data.ValidateDefinitions(); err != nil {
		errs = append(errs, configErrors(err)...)
	}

	// only the threshold in effect is validated
	if threshold < 0 {
		threshold = data.Threshold
	}
	if err := models.ValidateThreshold(threshold); err != nil {
		errs = append(errs, err)
	}

	p := &plan{
		profile:   data.Name,
		threshold: threshold,
	}

	for _, def := range data.KeyDefinitions {
		kp := keyPlan{target: def.TargetKeyField, fields: def.Fields}
		for _, field := range def.Fields {
			kp.dataTypes = append(kp.dataTypes, fieldType(data, field.Field))

			spec := field.GeneratorSpec()
			builder, err := keys.New(spec.Type, spec.Options)
			if err != nil {
				errs = append(errs, errors.WrapConfigError(err).AddDefinition(def.TargetKeyField).AddField(field.Name))
				continue
			}
			kp.builders = append(kp.builders, builder)
		}
		p.keys = append(p.keys, kp)
	}

	for _, def := range data.CompareDefinitions {
		dataType := fieldType(data, models.Field{Name: def.FieldName, DataType: def.DataType})

		spec := def.ComparerSpec(dataType)

		comparer, err := compare.New(spec.Type, spec.Options)
		if err != nil {
			errs = append(errs, errors.WrapConfigError(err).AddDefinition(def.Label()).AddField(def.FieldName))
			continue
		}
		if e.config.ComparerCacheSize > 0 {
			cached, err := compare.NewCached(comparer, e.config.ComparerCacheSize)
			if err != nil {
				errs = append(errs, errors.NewConfigErrorf("comparer cache: %v", err).AddDefinition(def.Label()))
				continue
			}
			comparer = cached
		}

		p.compares = append(p.compares, comparePlan{
			def:      def,
			label:    def.Label(),
			comparer: comparer,
			dataType: dataType,
		})
	}

	group := data.Group()
	aggSpec := group.AggregatorSpec()
	aggregator, err := aggregate.New(aggSpec.Type, aggSpec.Options)
	if err != nil {
		errs = append(errs, errors.WrapConfigError(err).AddDefinition("aggregator"))
	} else {
		p.aggregator = aggregator
		p.weights = group.Weights()
		// a weighted aggregator with all weights at zero can never score a pair
		if len(p.weights) > 0 {
			zeros := make([]float64, len(p.weights))
			if _, err := aggregator.Aggregate(zeros, p.weights); err != nil {
				errs = append(errs, errors.NewConfigError(err.Error()).AddDefinition("aggregator").AddStrategy(aggSpec.Type))
			}
		}
	}

	errs = append(errs, e.validateRecords(data, records)...)

	if err := errs.ErrOrNil(); err != nil {
		return nil, err
	}
	return p, nil
}

func (e *Engine) validateRecords(data *models.MatchingData, records []models.Record) []*errors.ConfigError {
	var errs []*errors.ConfigError

	seen := make(map[string]bool, len(records))
	for i, record := range records {
		if record.ID == "" {
			errs = append(errs, errors.NewConfigErrorf("record at index %d has an empty id", i))
			continue
		}
		if seen[record.ID] {
			errs = append(errs, errors.NewConfigErrorf("duplicate record id '%s'", record.ID))
		}
		seen[record.ID] = true
	}

	// without a declared schema, every referenced field must occur in some record
	if len(data.Fields) > 0 || len(records) == 0 {
		return errs
	}

	for _, name := range data.ReferencedFields() {
		found := false
		for _, record := range records {
			if e.extractor.Has(record.Fields, name) {
				found = true
				break
			}
		}
		if !found {
			errs = append(errs, errors.NewConfigError("field does not occur in any record").AddField(name))
		}
	}
	return errs
}

// fieldType is the field's own data type, else the one declared in the
// profile schema, else string.
func fieldType(data *models.MatchingData, field models.Field) schema.DataType {
	dt := field.DataType
	if dt == "" {
		if declared, ok := data.Field(field.Name); ok {
			dt = declared.DataType
		}
	}
	return dt.OrDefault()
}

func configErrors(err error) []*errors.ConfigError {
	if errs, ok := err.(errors.ConfigErrors); ok {
		return errs
	}
	return []*errors.ConfigError{errors.WrapConfigError(err)}
}

func bucketLabel(target, key string) string {
	return fmt.Sprintf("%s=%s", target, key)
}
